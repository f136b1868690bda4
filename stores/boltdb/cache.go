// Package boltdb implements the one-time-code cache on a bbolt file, so
// issued codes survive a process restart. Entries carry their own expiry;
// an expired entry reads as absent and is deleted on that read.
package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var bucketCodes = []byte("codes")

type entry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Cache struct {
	db *bbolt.DB

	// Now returns the current time. Defaults to time.Now
	Now func() time.Time
}

// Open opens (creating if needed) the cache file at path.
func Open(path string) (*Cache, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening code cache: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCodes)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing code cache: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	data, err := json.Marshal(entry{Value: value, ExpiresAt: c.now().Add(ttl)})
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCodes).Put([]byte(key), data)
	})
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	var ok bool

	// Update rather than View so the lazy expiry delete happens in the same
	// transaction as the read.
	err := c.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCodes)
		data := bucket.Get([]byte(key))
		if data == nil {
			return nil
		}
		var e entry
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("decoding cache entry: %w", err)
		}
		if !c.now().Before(e.ExpiresAt) {
			return bucket.Delete([]byte(key))
		}
		value, ok = e.Value, true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return value, ok, nil
}
