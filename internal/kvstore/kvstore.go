// Package kvstore defines the durable string-keyed storage the reading
// collection is persisted to, plus the embedded backends.
//
// # Backends
//
//	settings.Repository  // sqlite "settings" table via gorm (default)
//	kvstore.BadgerStore  // embedded badger directory
//	kvstore.MemoryStore  // process memory, tests and dry runs
package kvstore

import "errors"

// ErrKeyNotFound is returned by Get when nothing is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// Store is a flat key-value store. Values are opaque bytes.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Pinger is implemented by stores that can report connectivity.
type Pinger interface {
	Ping() error
}
