package interfaces

import "context"

// KVStore is the durable key-value store behind the response cache snapshot
type KVStore interface {
	// Load returns the value for key, or nil without error when it is absent
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores value under key, replacing any previous value
	Save(ctx context.Context, key string, value []byte) error

	Close() error
}
