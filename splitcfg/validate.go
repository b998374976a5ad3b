package splitcfg

import (
	"bytes"
	"fmt"
)

// Validate checks a configuration against the canonical invariants:
// at least two accounts, matching lengths, allocations summing to Scale,
// accounts strictly ascending with no duplicates, every allocation
// positive, and a fee within [0, MaxDistributorFee]. Errors name the
// offending index or value.
func Validate(cfg SplitConfig) error {
	if len(cfg.Accounts) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewAccounts, len(cfg.Accounts))
	}
	if len(cfg.Accounts) != len(cfg.Allocations) {
		return fmt.Errorf("%w: %d accounts, %d allocations",
			ErrLengthMismatch, len(cfg.Accounts), len(cfg.Allocations))
	}

	var sum uint64
	for _, alloc := range cfg.Allocations {
		sum += uint64(alloc)
	}
	if sum != Scale {
		return fmt.Errorf("%w: sum %d != %d", ErrAllocationSumInvalid, sum, Scale)
	}

	for i := 1; i < len(cfg.Accounts); i++ {
		if bytes.Compare(cfg.Accounts[i-1][:], cfg.Accounts[i][:]) >= 0 {
			return fmt.Errorf("%w: index %d", ErrAccountsOutOfOrder, i)
		}
	}

	for i, alloc := range cfg.Allocations {
		if alloc == 0 {
			return fmt.Errorf("%w: index %d", ErrAllocationNotPositive, i)
		}
	}

	if cfg.DistributorFee > MaxDistributorFee {
		return fmt.Errorf("%w: %d > %d", ErrDistributorFeeInvalid, cfg.DistributorFee, MaxDistributorFee)
	}

	return nil
}
