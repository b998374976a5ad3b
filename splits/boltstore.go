package splits

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/splitsorg/libsplits-go/splitcfg"
)

var bucketSplits = []byte("splits")

// BoltStore persists split records in a bbolt database, gob-encoded and
// keyed by split address.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("splits: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("splits: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSplits)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("splits: create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// PutSplit stores a new record.
func (s *BoltStore) PutSplit(rec *SplitRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSplits)
		if b.Get(rec.Address[:]) != nil {
			return ErrDuplicateSplit
		}

		data, err := encodeRecord(rec)
		if err != nil {
			return err
		}
		return b.Put(rec.Address[:], data)
	})
}

// GetSplit retrieves a record by address.
func (s *BoltStore) GetSplit(addr splitcfg.Address) (*SplitRecord, error) {
	var rec *SplitRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSplits).Get(addr[:])
		if data == nil {
			return ErrSplitNotFound
		}
		var err error
		rec, err = decodeRecord(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateSplit replaces an existing record.
func (s *BoltStore) UpdateSplit(rec *SplitRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSplits)
		if b.Get(rec.Address[:]) == nil {
			return ErrSplitNotFound
		}

		data, err := encodeRecord(rec)
		if err != nil {
			return err
		}
		return b.Put(rec.Address[:], data)
	})
}

func encodeRecord(rec *SplitRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, fmt.Errorf("splits: encode record: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeRecord(data []byte) (*SplitRecord, error) {
	rec := &SplitRecord{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(rec); err != nil {
		return nil, fmt.Errorf("splits: decode record: %w", err)
	}
	return rec, nil
}
