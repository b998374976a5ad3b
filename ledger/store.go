package ledger

import (
	"sync"

	"github.com/splitsorg/libsplits-go/splitcfg"
)

// Entry is one (account, asset) balance.
type Entry struct {
	Account splitcfg.Address
	Asset   splitcfg.Asset
	Amount  uint64
}

// Store persists withdrawable balances keyed by (account, asset).
// Absent keys read as zero; entries are never removed.
type Store interface {
	// GetBalance returns the stored balance, zero for absent keys.
	GetBalance(account splitcfg.Address, asset splitcfg.Asset) (uint64, error)

	// SetBalance writes an absolute balance.
	SetBalance(account splitcfg.Address, asset splitcfg.Asset, amount uint64) error

	// SetBalances writes a batch of absolute balances atomically.
	SetBalances(entries []Entry) error
}

// entryKey packs (account, asset) into a single fixed-width key.
type entryKey [2 * splitcfg.AddressSize]byte

func makeKey(account splitcfg.Address, asset splitcfg.Asset) entryKey {
	var k entryKey
	copy(k[:splitcfg.AddressSize], account[:])
	copy(k[splitcfg.AddressSize:], asset[:])
	return k
}

// MemStore is an in-memory implementation of Store for testing and
// single-process use.
type MemStore struct {
	mu       sync.RWMutex
	balances map[entryKey]uint64
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates a new in-memory balance store.
func NewMemStore() *MemStore {
	return &MemStore{balances: make(map[entryKey]uint64)}
}

// GetBalance returns the stored balance, zero for absent keys.
func (s *MemStore) GetBalance(account splitcfg.Address, asset splitcfg.Asset) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[makeKey(account, asset)], nil
}

// SetBalance writes an absolute balance.
func (s *MemStore) SetBalance(account splitcfg.Address, asset splitcfg.Asset, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[makeKey(account, asset)] = amount
	return nil
}

// SetBalances writes a batch of absolute balances atomically.
func (s *MemStore) SetBalances(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.balances[makeKey(e.Account, e.Asset)] = e.Amount
	}
	return nil
}
