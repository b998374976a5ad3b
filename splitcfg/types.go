// Package splitcfg defines split configurations: the ordered recipient set,
// their fixed-point allocations, and the distributor fee. A configuration is
// never persisted whole; only its commitment hash is stored, and callers
// re-supply the full configuration on every operation that needs it.
package splitcfg

import "encoding/hex"

const (
	// Scale is the fixed-point denominator for allocations and fees.
	// An allocation of Scale/2 is a 50% share.
	Scale = 1_000_000

	// MaxDistributorFee caps the distributor fee at 10%.
	MaxDistributorFee = Scale / 10
)

// AddressSize is the length of an account address in bytes.
const AddressSize = 20

// Address identifies an account. The zero value is the "none" sentinel:
// no controller, no pending controller, no explicit fee recipient.
type Address [AddressSize]byte

// IsZero reports whether the address is the "none" sentinel.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the address as lowercase hex.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Asset identifies a distributable asset. The zero value is the native
// asset; any other value is the address of a fungible token.
type Asset [AddressSize]byte

// Native is the native-asset tag.
var Native Asset

// IsNative reports whether the asset is the native asset.
func (a Asset) IsNative() bool {
	return a == Native
}

// String returns "native" or the token address as lowercase hex.
func (a Asset) String() string {
	if a.IsNative() {
		return "native"
	}
	return hex.EncodeToString(a[:])
}

// TokenAsset returns the asset tag for a fungible token address.
func TokenAsset(token Address) Asset {
	return Asset(token)
}

// SplitConfig is a full split configuration. Accounts and Allocations are
// parallel: Accounts[i] receives Allocations[i]/Scale of every
// distribution, after the distributor fee is taken off the top.
type SplitConfig struct {
	Accounts       []Address
	Allocations    []uint32
	DistributorFee uint32
}
