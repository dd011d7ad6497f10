package domain

import "time"

// Store is the persistent warm tier behind the query cache (BoltDB + memory).
// It holds serialized payloads only; freshness decisions belong to the caller.
type Store interface {
	// Get returns the payload for key and when it was fetched
	Get(key string) ([]byte, time.Time, bool)

	// Put stores the payload for key
	Put(key string, data []byte, fetchedAt time.Time) error

	// Delete removes a single key
	Delete(key string)

	// DeletePrefix removes every key starting with prefix
	DeletePrefix(prefix string)

	// Clear wipes the store
	Clear()

	Close() error
}
