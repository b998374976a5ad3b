package splitcfg

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// CommitmentSize is the length of a configuration commitment in bytes.
const CommitmentSize = 32

// Commitment is the digest binding a full configuration. The zero value
// means no configuration has been committed yet.
type Commitment [CommitmentSize]byte

// IsZero reports whether the commitment is unset.
func (c Commitment) IsZero() bool {
	return c == Commitment{}
}

// String returns the commitment as lowercase hex.
func (c Commitment) String() string {
	return hex.EncodeToString(c[:])
}

// Bytes returns the canonical binary encoding of the configuration:
// account count, then every account, then every allocation, then the
// distributor fee, all big-endian. The encoding is order-sensitive, so
// two configurations encode identically iff they are field-for-field
// equal.
func (cfg SplitConfig) Bytes() []byte {
	size := 4 + AddressSize*len(cfg.Accounts) + 4*len(cfg.Allocations) + 4
	buf := make([]byte, size)
	offset := 0

	binary.BigEndian.PutUint32(buf[offset:offset+4], uint32(len(cfg.Accounts)))
	offset += 4

	for _, acct := range cfg.Accounts {
		copy(buf[offset:offset+AddressSize], acct[:])
		offset += AddressSize
	}

	for _, alloc := range cfg.Allocations {
		binary.BigEndian.PutUint32(buf[offset:offset+4], alloc)
		offset += 4
	}

	binary.BigEndian.PutUint32(buf[offset:offset+4], cfg.DistributorFee)
	return buf
}

// Hash returns the SHA256 commitment over the canonical encoding.
func (cfg SplitConfig) Hash() Commitment {
	return Commitment(sha256.Sum256(cfg.Bytes()))
}
