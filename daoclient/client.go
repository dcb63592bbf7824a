// Package daoclient reads SubDAO records from the EcoDAO contract. Read-side only:
// contributions and claim redemption are written by the user's own wallet, never by
// this node.
package daoclient

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/ecodao-network/attester-node/common/logs"
	"github.com/ecodao-network/attester-node/types"
)

// ecoDaoABI is the read surface of the EcoDAO contract consumed by this node.
const ecoDaoABI = `[
  {"type":"function","name":"daos","stateMutability":"view",
   "inputs":[{"name":"tokenId","type":"uint256"}],
   "outputs":[
     {"name":"title","type":"string"},
     {"name":"description","type":"string"},
     {"name":"targetAmount","type":"uint256"},
     {"name":"currentAmount","type":"uint256"},
     {"name":"uncompletedImageURI","type":"string"},
     {"name":"completedImageURI","type":"string"},
     {"name":"isCompleted","type":"bool"},
     {"name":"parentId","type":"uint256"},
     {"name":"admin","type":"address"}]},
  {"type":"function","name":"getNextTokenId","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

// Client calls the EcoDAO contract over JSON-RPC, with a leveldb-backed read cache
// so card refreshes do not hammer the RPC node.
type Client struct {
	eth          *ethclient.Client
	contractAddr ethcommon.Address
	abi          abi.ABI
	cache        *leveldb.DB
	cacheTTL     time.Duration
}

type daoCacheStruct struct {
	Dao       types.SubDAOStruct `json:"dao"`
	FetchedAt int64              `json:"fetchedAt"`
}

func New(rpcURL string, contractAddr string, cache *leveldb.DB, cacheTTL time.Duration) (*Client, error) {
	if !ethcommon.IsHexAddress(contractAddr) {
		return nil, fmt.Errorf("invalid contract address: %s", contractAddr)
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the Ethereum client: %w", err)
	}

	contractABI, err := abi.JSON(strings.NewReader(ecoDaoABI))
	if err != nil {
		return nil, fmt.Errorf("failed to load EcoDAO ABI: %w", err)
	}

	return &Client{
		eth:          client,
		contractAddr: ethcommon.HexToAddress(contractAddr),
		abi:          contractABI,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}, nil
}

// GetDAO returns the SubDAO record for a token id, served from cache while fresh.
func (c *Client) GetDAO(ctx context.Context, tokenID uint64) (*types.SubDAOStruct, error) {
	cacheKey := []byte(fmt.Sprintf("dao_%d", tokenID))

	if c.cache != nil {
		if cached, err := c.cache.Get(cacheKey, nil); err == nil {
			var record daoCacheStruct
			if err := json.Unmarshal(cached, &record); err == nil &&
				time.Since(time.Unix(record.FetchedAt, 0)) < c.cacheTTL {
				return &record.Dao, nil
			}
		}
	}

	data, err := c.abi.Pack("daos", new(big.Int).SetUint64(tokenID))
	if err != nil {
		return nil, fmt.Errorf("failed to pack daos call: %w", err)
	}

	raw, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.contractAddr, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("daos call failed for token %d: %w", tokenID, err)
	}

	out, err := c.abi.Unpack("daos", raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack daos result: %w", err)
	}

	dao := types.SubDAOStruct{
		TokenID:             tokenID,
		Title:               out[0].(string),
		Description:         out[1].(string),
		TargetAmount:        out[2].(*big.Int).Uint64(),
		CurrentAmount:       out[3].(*big.Int).Uint64(),
		UncompletedImageURI: out[4].(string),
		CompletedImageURI:   out[5].(string),
		IsCompleted:         out[6].(bool),
		ParentID:            out[7].(*big.Int).Uint64(),
		Admin:               out[8].(ethcommon.Address).Hex(),
	}

	if c.cache != nil {
		record, err := json.Marshal(daoCacheStruct{Dao: dao, FetchedAt: time.Now().Unix()})
		if err == nil {
			if err := c.cache.Put(cacheKey, record, nil); err != nil {
				logs.Log.Warn(fmt.Sprintf("Error caching dao %d : %s", tokenID, err.Error()))
			}
		}
	}

	return &dao, nil
}

// NextTokenID reads the contract's token counter.
func (c *Client) NextTokenID(ctx context.Context) (uint64, error) {
	data, err := c.abi.Pack("getNextTokenId")
	if err != nil {
		return 0, fmt.Errorf("failed to pack getNextTokenId call: %w", err)
	}

	raw, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.contractAddr, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("getNextTokenId call failed: %w", err)
	}

	out, err := c.abi.Unpack("getNextTokenId", raw)
	if err != nil {
		return 0, fmt.Errorf("failed to unpack getNextTokenId result: %w", err)
	}

	return out[0].(*big.Int).Uint64(), nil
}

// ListDAOs returns every minted SubDAO. Individual read failures are skipped so a
// single bad record cannot blank the whole dashboard.
func (c *Client) ListDAOs(ctx context.Context) ([]types.SubDAOStruct, error) {
	next, err := c.NextTokenID(ctx)
	if err != nil {
		return nil, err
	}

	daos := make([]types.SubDAOStruct, 0)
	for id := uint64(1); id < next; id++ {
		dao, err := c.GetDAO(ctx, id)
		if err != nil {
			logs.Log.Warn(fmt.Sprintf("Error reading dao %d : %s", id, err.Error()))
			continue
		}
		daos = append(daos, *dao)
	}
	return daos, nil
}
