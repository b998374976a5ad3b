package splits

import (
	"sync"

	"github.com/splitsorg/libsplits-go/splitcfg"
)

// SplitRecord is the persisted per-split state: a commitment to the full
// configuration plus the controller pair. The recipient list itself is
// never stored, so the record stays the same size however many recipients
// the configuration carries.
type SplitRecord struct {
	Address splitcfg.Address

	// Hash commits to the current configuration.
	Hash splitcfg.Commitment

	// Controller may mutate the configuration. Zero means the split is
	// permanently immutable.
	Controller splitcfg.Address

	// PendingController is the in-flight control transfer target, zero
	// when none is pending.
	PendingController splitcfg.Address
}

// IsImmutable reports whether the split can never be reconfigured.
func (r *SplitRecord) IsImmutable() bool {
	return r.Controller.IsZero()
}

// clone returns a copy so stored records never alias caller memory.
func (r *SplitRecord) clone() *SplitRecord {
	c := *r
	return &c
}

// Store persists split records keyed by address. Records are never
// deleted; a split exists for the lifetime of the system.
type Store interface {
	// PutSplit stores a new record, failing with ErrDuplicateSplit if one
	// already exists at the address.
	PutSplit(rec *SplitRecord) error

	// GetSplit retrieves a record, failing with ErrSplitNotFound.
	GetSplit(addr splitcfg.Address) (*SplitRecord, error)

	// UpdateSplit replaces an existing record, failing with
	// ErrSplitNotFound if it was never created.
	UpdateSplit(rec *SplitRecord) error
}

// MemStore is an in-memory implementation of Store for testing and
// single-process use.
type MemStore struct {
	mu      sync.RWMutex
	records map[splitcfg.Address]*SplitRecord
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates a new in-memory split store.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[splitcfg.Address]*SplitRecord)}
}

// PutSplit stores a new record.
func (s *MemStore) PutSplit(rec *SplitRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.Address]; exists {
		return ErrDuplicateSplit
	}
	s.records[rec.Address] = rec.clone()
	return nil
}

// GetSplit retrieves a record by address.
func (s *MemStore) GetSplit(addr splitcfg.Address) (*SplitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[addr]
	if !ok {
		return nil, ErrSplitNotFound
	}
	return rec.clone(), nil
}

// UpdateSplit replaces an existing record.
func (s *MemStore) UpdateSplit(rec *SplitRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.Address]; !ok {
		return ErrSplitNotFound
	}
	s.records[rec.Address] = rec.clone()
	return nil
}
