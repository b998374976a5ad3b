package splitcfg

import "errors"

var (
	// ErrTooFewAccounts indicates fewer than two recipient accounts.
	ErrTooFewAccounts = errors.New("splitcfg: at least two accounts required")

	// ErrLengthMismatch indicates accounts and allocations differ in length.
	ErrLengthMismatch = errors.New("splitcfg: accounts and allocations length mismatch")

	// ErrAllocationSumInvalid indicates the allocations do not sum to Scale.
	ErrAllocationSumInvalid = errors.New("splitcfg: allocations must sum to the percentage scale")

	// ErrAccountsOutOfOrder indicates accounts are not strictly ascending.
	ErrAccountsOutOfOrder = errors.New("splitcfg: accounts out of order")

	// ErrAllocationNotPositive indicates a zero allocation.
	ErrAllocationNotPositive = errors.New("splitcfg: allocation must be positive")

	// ErrDistributorFeeInvalid indicates the distributor fee exceeds the cap.
	ErrDistributorFeeInvalid = errors.New("splitcfg: distributor fee exceeds maximum")
)
