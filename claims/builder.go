package claims

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ecodao-network/attester-node/common"
	"github.com/ecodao-network/attester-node/types"
)

// Build assembles a ReductionClaim for the resolved amount. The nonce is drawn
// uniformly at random; there is no server-side ledger, collisions within the
// validity window are only probabilistically excluded. DAO id existence is not
// checked here, the contract owns that at redemption time.
func Build(userAddress string, daoID uint64, amountGrams int64, evidenceHash string) (types.ReductionClaim, error) {
	var buf [common.ClaimNonceBytes]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return types.ReductionClaim{}, fmt.Errorf("failed to generate claim nonce: %w", err)
	}
	nonce := uint64(binary.BigEndian.Uint32(buf[:]))

	return types.ReductionClaim{
		User:         userAddress,
		DaoID:        daoID,
		Amount:       amountGrams,
		EvidenceHash: evidenceHash,
		Nonce:        nonce,
		ExpiresAt:    time.Now().Add(common.ClaimValidityWindow).Unix(),
	}, nil
}

// NewEvidenceID returns the unique id reported back to the caller.
func NewEvidenceID() string {
	return uuid.NewString()
}
