// Package boltdb is the embedded key-value backend for the user directory.
// Records are stored as JSON keyed by a big-endian id; a secondary bucket
// maps email to id and doubles as the uniqueness constraint.
package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	// BoltDB bucket names
	bucketUsers      = []byte("users")
	bucketEmailIndex = []byte("users_email")
)

// Storage is the BoltDB-backed user store.
type Storage struct {
	db *bbolt.DB
}

// New opens the BoltDB file at dbPath and creates the buckets.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db}

	if err := storage.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketUsers); err != nil {
			return fmt.Errorf("failed to create users bucket: %w", err)
		}

		if _, err := tx.CreateBucketIfNotExists(bucketEmailIndex); err != nil {
			return fmt.Errorf("failed to create email index bucket: %w", err)
		}

		return nil
	})
}

// itob converts an id to a big-endian key so bucket order matches id order.
func itob(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}
