package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

// ErrCacheMiss is returned by Get when no entry is stored under a key.
var ErrCacheMiss = errors.New("not found in cache")

const (
	// CacheFileName is the name of the database file kept in the cache directory.
	CacheFileName = "soldrive-cache.db"

	// outputBucket is the bucket holding compiler outputs.
	outputBucket = "outputs"
)

// Entry describes a single cached compiler output.
type Entry struct {
	// Output is the raw output document produced by the compiler.
	Output []byte `json:"output"`
	// Timestamp is when the output was stored.
	Timestamp time.Time `json:"timestamp"`
}

// OutputCache persists compiler outputs to disk, keyed by a hash of everything that determines them.
type OutputCache struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the output cache database inside directory.
func Open(directory string) (*OutputCache, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create cache directory")
	}

	db, err := bbolt.Open(filepath.Join(directory, CacheFileName), 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "could not open cache database")
	}

	// create default bucket if it doesn't exist
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(outputBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.WithStack(err)
	}
	return &OutputCache{db: db}, nil
}

// Get returns the entry stored under key, or ErrCacheMiss.
func (c *OutputCache) Get(key string) (*Entry, error) {
	var entry *Entry
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(outputBucket)).Get([]byte(key))
		if data == nil {
			return nil
		}
		entry = &Entry{}
		return json.Unmarshal(data, entry)
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not get cached output")
	}
	if entry == nil {
		return nil, ErrCacheMiss
	}
	return entry, nil
}

// Put stores output under key, replacing any previous entry.
func (c *OutputCache) Put(key string, output []byte) error {
	serialized, err := json.Marshal(Entry{Output: output, Timestamp: time.Now()})
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(outputBucket)).Put([]byte(key), serialized)
	}))
}

// Close releases the database.
func (c *OutputCache) Close() error {
	return errors.WithStack(c.db.Close())
}
