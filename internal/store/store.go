package store

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketPayloads = []byte("payloads")
	bucketFetched  = []byte("fetched")
)

type entry struct {
	data      []byte
	fetchedAt time.Time
}

// QueryStore implements domain.Store using BoltDB.
// Payloads and fetch timestamps live in separate buckets under the same key.
type QueryStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string]entry
}

// NewQueryStore opens the store under baseCacheDir, scoped by the upstream
// base URL and language so switching either never serves foreign payloads.
// An empty baseCacheDir gives a memory-only store.
func NewQueryStore(baseCacheDir, scope string) (*QueryStore, error) {
	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return &QueryStore{cache: make(map[string]entry)}, nil
	}

	dir := baseCacheDir
	if scope != "" {
		dir = filepath.Join(baseCacheDir, hashScope(scope))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "movied.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPayloads, bucketFetched} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &QueryStore{db: db, cache: make(map[string]entry)}, nil
}

func hashScope(scope string) string {
	normalized := strings.TrimRight(strings.ToLower(scope), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *QueryStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the payload stored under key and when it was fetched
func (s *QueryStore) Get(key string) ([]byte, time.Time, bool) {
	s.mu.RLock()
	if e, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return e.data, e.fetchedAt, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, time.Time{}, false
	}

	var e entry
	s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketPayloads).Get([]byte(key))
		ts := tx.Bucket(bucketFetched).Get([]byte(key))
		if v == nil || len(ts) != 8 {
			return nil
		}
		e.data = make([]byte, len(v))
		copy(e.data, v)
		e.fetchedAt = time.Unix(0, int64(binary.BigEndian.Uint64(ts)))
		return nil
	})

	if e.data == nil {
		return nil, time.Time{}, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = e
	s.mu.Unlock()

	return e.data, e.fetchedAt, true
}

// Put stores the payload and its fetch time
func (s *QueryStore) Put(key string, data []byte, fetchedAt time.Time) error {
	s.mu.Lock()
	s.cache[key] = entry{data: data, fetchedAt: fetchedAt}
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(fetchedAt.UnixNano()))

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketPayloads).Put([]byte(key), data); err != nil {
			return err
		}
		return tx.Bucket(bucketFetched).Put([]byte(key), ts)
	})
}

// Delete removes a single key
func (s *QueryStore) Delete(key string) {
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPayloads, bucketFetched} {
			tx.Bucket(bucket).Delete([]byte(key))
		}
		return nil
	})
}

// DeletePrefix removes every key starting with prefix
func (s *QueryStore) DeletePrefix(prefix string) {
	s.mu.Lock()
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	// Collect first: deleting while iterating a bolt cursor skips keys
	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPayloads, bucketFetched} {
			b := tx.Bucket(bucket)
			var keys [][]byte
			c := b.Cursor()
			prefixBytes := []byte(prefix)
			for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
				keys = append(keys, append([]byte(nil), k...))
			}
			for _, k := range keys {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Clear wipes every stored payload
func (s *QueryStore) Clear() {
	s.mu.Lock()
	s.cache = make(map[string]entry)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPayloads, bucketFetched} {
			if err := tx.DeleteBucket(bucket); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}
