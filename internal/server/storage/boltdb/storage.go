// Package boltdb implements storage.Storage in a single embedded bbolt file.
package boltdb

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/tokenkeeper/internal/server/storage"
)

var (
	// BoltDB bucket names
	bucketUsers       = []byte("users")
	bucketUsersByName = []byte("users_by_name")
	bucketTokens      = []byte("access_tokens")
)

var _ storage.Storage = (*Storage)(nil)

var errBucketMissing = errors.New("bucket not found")

// Storage represents BoltDB storage implementation
type Storage struct {
	db *bbolt.DB
}

// New opens (or creates) the BoltDB file at dbPath
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB; таймаут защищает от вечного ожидания файловой блокировки
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Ping reports whether the database file is still open
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db.View(func(tx *bbolt.Tx) error { return nil }); err != nil {
		return fmt.Errorf("failed to ping boltdb: %w", err)
	}
	return nil
}

// Close closes the database file
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketUsers, bucketUsersByName, bucketTokens} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func bucket(tx *bbolt.Tx, name []byte) (*bbolt.Bucket, error) {
	b := tx.Bucket(name)
	if b == nil {
		return nil, fmt.Errorf("%s: %w", name, errBucketMissing)
	}
	return b, nil
}

// idKey encodes ids big-endian so that cursor order equals numeric order.
func idKey(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

func keyID(key []byte) int64 {
	return int64(binary.BigEndian.Uint64(key))
}
