// Package signer produces the EIP-712 attestation over reduction claims. The
// signer is constructed once at process start from configuration and holds the
// attester key read-only for the process lifetime.
package signer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/ecodao-network/attester-node/common"
	"github.com/ecodao-network/attester-node/types"
)

// ErrNotConfigured marks configuration errors: the deployment is unusable until
// the operator fixes it, not a transient condition.
var ErrNotConfigured = errors.New("signer is not configured")

// AttestationSigner signs claims for a fixed EIP-712 domain.
type AttestationSigner struct {
	privateKey        *ecdsa.PrivateKey
	attesterAddr      ethcommon.Address
	chainID           *big.Int
	verifyingContract ethcommon.Address
}

// New validates the signing configuration and builds the signer. Every field of
// the domain must be usable, otherwise redeemed signatures would never verify.
func New(privateKeyHex string, chainID int64, verifyingContract string) (*AttestationSigner, error) {
	if privateKeyHex == "" {
		return nil, fmt.Errorf("%w: ATTESTER_PRIVATE_KEY is not set, please configure it in your environment", ErrNotConfigured)
	}
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ATTESTER_PRIVATE_KEY: %s", ErrNotConfigured, err.Error())
	}

	if verifyingContract == "" {
		return nil, fmt.Errorf("%w: CONTRACT_ADDRESS is not set, please configure it in your environment", ErrNotConfigured)
	}
	if !ethcommon.IsHexAddress(verifyingContract) {
		return nil, fmt.Errorf("%w: invalid CONTRACT_ADDRESS: %s", ErrNotConfigured, verifyingContract)
	}

	if chainID <= 0 {
		return nil, fmt.Errorf("%w: CHAIN_ID must be a positive integer", ErrNotConfigured)
	}

	return &AttestationSigner{
		privateKey:        privateKey,
		attesterAddr:      crypto.PubkeyToAddress(privateKey.PublicKey),
		chainID:           big.NewInt(chainID),
		verifyingContract: ethcommon.HexToAddress(verifyingContract),
	}, nil
}

// Attester returns the address the contract must know as a trusted attester.
func (s *AttestationSigner) Attester() ethcommon.Address {
	return s.attesterAddr
}

func (s *AttestationSigner) typedData(claim *types.ReductionClaim) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Claim": []apitypes.Type{
				{Name: "user", Type: "address"},
				{Name: "daoId", Type: "uint256"},
				{Name: "amount", Type: "uint256"},
				{Name: "evidenceHash", Type: "bytes32"},
				{Name: "nonce", Type: "uint256"},
				{Name: "expiresAt", Type: "uint256"},
			},
		},
		PrimaryType: "Claim",
		Domain: apitypes.TypedDataDomain{
			Name:              common.SigningDomainName,
			Version:           common.SigningDomainVersion,
			ChainId:           (*math.HexOrDecimal256)(s.chainID),
			VerifyingContract: s.verifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"user":         claim.User,
			"daoId":        (*math.HexOrDecimal256)(new(big.Int).SetUint64(claim.DaoID)),
			"amount":       (*math.HexOrDecimal256)(big.NewInt(claim.Amount)),
			"evidenceHash": claim.EvidenceHash,
			"nonce":        (*math.HexOrDecimal256)(new(big.Int).SetUint64(claim.Nonce)),
			"expiresAt":    (*math.HexOrDecimal256)(big.NewInt(claim.ExpiresAt)),
		},
	}
}

// HashClaim computes keccak256("\x19\x01" || domainSeparator || hashStruct(claim)),
// the exact digest the contract reconstructs at redemption.
func (s *AttestationSigner) HashClaim(claim *types.ReductionClaim) ([]byte, error) {
	typedData := s.typedData(claim)

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to hash domain: %w", err)
	}

	typedDataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to hash claim: %w", err)
	}

	rawData := append([]byte{0x19, 0x01}, domainSeparator...)
	rawData = append(rawData, typedDataHash...)
	return crypto.Keccak256Hash(rawData).Bytes(), nil
}

// SignClaim returns the 0x-prefixed 65-byte signature with v in {27, 28}, the
// recovery-id convention ecrecover expects on chain.
func (s *AttestationSigner) SignClaim(claim *types.ReductionClaim) (string, error) {
	msgHash, err := s.HashClaim(claim)
	if err != nil {
		return "", err
	}

	signature, err := crypto.Sign(msgHash, s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign claim: %w", err)
	}
	signature[64] += 27

	return hexutil.Encode(signature), nil
}

// Attest signs a claim and returns it bundled with its signature, the payload the
// caller relays on chain.
func (s *AttestationSigner) Attest(claim *types.ReductionClaim) (types.SignedClaim, error) {
	signature, err := s.SignClaim(claim)
	if err != nil {
		return types.SignedClaim{}, err
	}
	return types.SignedClaim{Claim: *claim, Signature: signature}, nil
}

// RecoverSigner recovers the attesting address from a claim and its signature.
// The contract owns verification; this exists for diagnostics and tests.
func (s *AttestationSigner) RecoverSigner(claim *types.ReductionClaim, signatureHex string) (ethcommon.Address, error) {
	signature, err := hexutil.Decode(signatureHex)
	if err != nil {
		return ethcommon.Address{}, fmt.Errorf("failed to decode signature: %w", err)
	}
	if len(signature) != 65 {
		return ethcommon.Address{}, fmt.Errorf("invalid signature length: %d, expected 65", len(signature))
	}
	if signature[64] != 27 && signature[64] != 28 {
		return ethcommon.Address{}, fmt.Errorf("invalid recovery id: got %d, expected 27 or 28", signature[64])
	}

	msgHash, err := s.HashClaim(claim)
	if err != nil {
		return ethcommon.Address{}, err
	}

	adjusted := make([]byte, 65)
	copy(adjusted, signature)
	adjusted[64] -= 27

	pubKeyRaw, err := crypto.Ecrecover(msgHash, adjusted)
	if err != nil {
		return ethcommon.Address{}, fmt.Errorf("ecrecover failed: %w", err)
	}
	pubKey, err := crypto.UnmarshalPubkey(pubKeyRaw)
	if err != nil {
		return ethcommon.Address{}, fmt.Errorf("pubkey unmarshal failed: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}
