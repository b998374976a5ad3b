// Package ledger is the process-wide balance store: withdrawable amounts
// keyed by (account, asset), credited by distributions and drained by
// pull-based withdrawals.
package ledger

import (
	"fmt"
	"sync"

	"github.com/splitsorg/libsplits-go/splitcfg"
)

// Retained is the per-entry minimum that is never transferred out. A
// withdrawal leaves this much behind in any entry it touches, so the
// externally meaningful balance of an entry is stored − Retained. At most
// one unit of dust per (account, asset) pair is permanently held.
const Retained = 1

// Ledger tracks withdrawable balances over a Store. All read-modify-write
// sequences run under a single mutex, so each operation is atomic with
// respect to every other.
type Ledger struct {
	mu    sync.Mutex
	store Store
}

// New creates a Ledger over the given store.
func New(store Store) (*Ledger, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	return &Ledger{store: store}, nil
}

// Credit adds amount to the account's withdrawable balance for asset.
// Crediting zero is a no-op.
func (l *Ledger) Credit(account splitcfg.Address, asset splitcfg.Asset, amount uint64) error {
	if amount == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.store.GetBalance(account, asset)
	if err != nil {
		return err
	}
	return l.store.SetBalance(account, asset, current+amount)
}

// Balance returns the stored balance for (account, asset), zero if the
// entry has never been credited.
func (l *Ledger) Balance(account splitcfg.Address, asset splitcfg.Asset) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.GetBalance(account, asset)
}

// Apply writes a batch of absolute balances in one atomic step. Callers
// are expected to have computed the batch from balances read under their
// own serialization; the distribution engine is the only intended user.
func (l *Ledger) Apply(entries []Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.SetBalances(entries)
}

// ApplyDistribution atomically writes a distribution: the split account's
// entry for asset is set to residual, and every credit is added to its
// entry. Credits to the split's own account compose with the residual
// write rather than overwriting it.
func (l *Ledger) ApplyDistribution(split splitcfg.Address, asset splitcfg.Asset, residual uint64, credits []Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	final := make(map[entryKey]uint64, len(credits)+1)
	final[makeKey(split, asset)] = residual
	for _, c := range credits {
		key := makeKey(c.Account, c.Asset)
		base, ok := final[key]
		if !ok {
			var err error
			base, err = l.store.GetBalance(c.Account, c.Asset)
			if err != nil {
				return err
			}
		}
		final[key] = base + c.Amount
	}

	entries := make([]Entry, 0, len(final))
	for key, amount := range final {
		var account splitcfg.Address
		var keyAsset splitcfg.Asset
		copy(account[:], key[:splitcfg.AddressSize])
		copy(keyAsset[:], key[splitcfg.AddressSize:])
		entries = append(entries, Entry{Account: account, Asset: keyAsset, Amount: amount})
	}
	return l.store.SetBalances(entries)
}

// Withdraw drains the account's balances for the requested assets through
// tr, leaving Retained behind in each touched entry. Assets with a zero
// balance are skipped. An asset holding funds at or below Retained fails
// with ErrInsufficientBalance. A rejected transfer rolls the entry back to
// its pre-withdrawal value and aborts with ErrTransferFailed; entries for
// assets already processed keep their completed transfers.
//
// Returns the amount moved per asset (skipped assets are omitted).
func (l *Ledger) Withdraw(account splitcfg.Address, assets []splitcfg.Asset, tr Transferrer) (map[splitcfg.Asset]uint64, error) {
	if tr == nil {
		return nil, ErrNilTransferrer
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	withdrawn := make(map[splitcfg.Asset]uint64, len(assets))
	for _, asset := range assets {
		stored, err := l.store.GetBalance(account, asset)
		if err != nil {
			return nil, err
		}
		if stored == 0 {
			continue
		}
		if stored <= Retained {
			return nil, fmt.Errorf("%w: %s holds %d (retained %d)",
				ErrInsufficientBalance, asset, stored, Retained)
		}

		amount := stored - Retained
		if err := l.store.SetBalance(account, asset, Retained); err != nil {
			return nil, err
		}
		if err := tr.Transfer(account, asset, amount); err != nil {
			// Roll the entry back; no value moved for this asset.
			if rbErr := l.store.SetBalance(account, asset, stored); rbErr != nil {
				return nil, fmt.Errorf("%w: rollback failed: %w", ErrTransferFailed, rbErr)
			}
			return nil, fmt.Errorf("%w: %s amount %d: %w", ErrTransferFailed, asset, amount, err)
		}
		withdrawn[asset] = amount
	}

	return withdrawn, nil
}
