package ledger

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/splitsorg/libsplits-go/splitcfg"
)

var bucketBalances = []byte("balances")

// BoltStore persists balances in a bbolt database. Keys are the packed
// account||asset pair, values are 8-byte big-endian amounts.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBalances)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// GetBalance returns the stored balance, zero for absent keys.
func (s *BoltStore) GetBalance(account splitcfg.Address, asset splitcfg.Asset) (uint64, error) {
	key := makeKey(account, asset)
	var amount uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketBalances).Get(key[:]); v != nil {
			amount = binary.BigEndian.Uint64(v)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ledger: get balance: %w", err)
	}
	return amount, nil
}

// SetBalance writes an absolute balance.
func (s *BoltStore) SetBalance(account splitcfg.Address, asset splitcfg.Asset, amount uint64) error {
	return s.SetBalances([]Entry{{Account: account, Asset: asset, Amount: amount}})
}

// SetBalances writes a batch of absolute balances in one transaction.
func (s *BoltStore) SetBalances(entries []Entry) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketBalances)
		for _, e := range entries {
			key := makeKey(e.Account, e.Asset)
			var v [8]byte
			binary.BigEndian.PutUint64(v[:], e.Amount)
			if err := b.Put(key[:], v[:]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ledger: set balances: %w", err)
	}
	return nil
}
