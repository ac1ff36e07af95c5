// Package kv provides the durable key/value persistence the store writes
// through: one key per entity collection, value = the full JSON-encoded
// collection. Round trips preserve all fields; there are no partial writes.
package kv

import "context"

type Store interface {
	// Get returns the stored value for key. The second return is false
	// when the key has never been written.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
