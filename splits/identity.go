package splits

import (
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/google/uuid"

	"github.com/splitsorg/libsplits-go/splitcfg"
)

// derivation selects how a split address is derived from its initial
// configuration commitment.
type derivation uint8

const (
	// deriveImmutable addresses are a pure function of the commitment:
	// predictable before creation, and identical configurations collide.
	deriveImmutable derivation = iota + 1

	// deriveMutable addresses mix in a per-creation nonce, so identical
	// configurations under a controller never collide.
	deriveMutable
)

// tag returns the domain-separation prefix for the strategy.
func (d derivation) tag() []byte {
	switch d {
	case deriveImmutable:
		return []byte("splits/immutable/v1")
	case deriveMutable:
		return []byte("splits/mutable/v1")
	}
	panic("splits: unknown derivation strategy")
}

// deriveAddress computes a split address as Hash160 over the strategy tag,
// the commitment, and (for mutable splits) the creation nonce.
func deriveAddress(d derivation, hash splitcfg.Commitment, nonce []byte) splitcfg.Address {
	tag := d.tag()
	payload := make([]byte, 0, len(tag)+splitcfg.CommitmentSize+len(nonce))
	payload = append(payload, tag...)
	payload = append(payload, hash[:]...)
	payload = append(payload, nonce...)

	var addr splitcfg.Address
	copy(addr[:], bsvhash.Hash160(payload))
	return addr
}

// newNonce returns a fresh creation nonce for mutable split derivation.
func newNonce() []byte {
	n := uuid.New()
	return n[:]
}
