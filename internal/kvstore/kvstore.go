package kvstore

import "context"

// Store reads and writes whole serialized collections by key.
type Store interface {
	// Get returns the stored value and true, or nil and false when the key
	// has never been written.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// BatchStore is an optional extension of Store that writes several keys as
// one unit: either every entry is stored or none is.
type BatchStore interface {
	Store
	SetMany(ctx context.Context, entries []Entry) error
}

type Entry struct {
	Key   string
	Value []byte
}
