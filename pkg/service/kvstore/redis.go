package kvstore

import (
	"context"
	"errors"

	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
	"github.com/go-redis/redis/v8"
	"github.com/m-mizutani/goerr/v2"
)

// Redis stores values in a Redis server without expiration
type Redis struct {
	client *redis.Client
}

var _ interfaces.KVStore = &Redis{}

// NewRedis connects to addr and verifies the connection with PING
func NewRedis(ctx context.Context, addr, password string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", addr))
	}

	return &Redis{client: client}, nil
}

func (r *Redis) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get redis key", goerr.V("key", key))
	}
	return data, nil
}

func (r *Redis) Save(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return goerr.Wrap(err, "failed to set redis key", goerr.V("key", key))
	}
	return nil
}

func (r *Redis) Close() error {
	if err := r.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close redis client")
	}
	return nil
}
