package kvstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
	"github.com/doc-forge-buddy/docforge/pkg/service/kvstore"
	"github.com/m-mizutani/gt"
)

func runKVStoreTest(t *testing.T, newStore func(t *testing.T) interfaces.KVStore) {
	t.Helper()

	t.Run("Load of missing key returns nil", func(t *testing.T) {
		store := newStore(t)
		got, err := store.Load(context.Background(), "missing")
		gt.NoError(t, err).Required()
		gt.Value(t, got).Nil()
	})

	t.Run("Save then Load returns the value", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		gt.NoError(t, store.Save(ctx, "aiCache", []byte(`[["a",{}]]`))).Required()
		got, err := store.Load(ctx, "aiCache")
		gt.NoError(t, err).Required()
		gt.Value(t, string(got)).Equal(`[["a",{}]]`)
	})

	t.Run("Save replaces previous value", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		gt.NoError(t, store.Save(ctx, "k", []byte("first"))).Required()
		gt.NoError(t, store.Save(ctx, "k", []byte("second"))).Required()
		got, err := store.Load(ctx, "k")
		gt.NoError(t, err).Required()
		gt.Value(t, string(got)).Equal("second")
	})

	t.Run("stored value is not aliased", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		value := []byte("abc")
		gt.NoError(t, store.Save(ctx, "k", value)).Required()
		value[0] = 'x'

		got, err := store.Load(ctx, "k")
		gt.NoError(t, err).Required()
		gt.Value(t, string(got)).Equal("abc")
	})
}

func TestMemoryKVStore(t *testing.T) {
	runKVStoreTest(t, func(t *testing.T) interfaces.KVStore {
		return kvstore.NewMemory()
	})
}

func TestBadgerKVStore(t *testing.T) {
	runKVStoreTest(t, func(t *testing.T) interfaces.KVStore {
		store, err := kvstore.NewBadger("")
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			gt.NoError(t, store.Close())
		})
		return store
	})
}

func TestBadgerKVStoreOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := kvstore.NewBadger(dir)
	gt.NoError(t, err).Required()
	gt.NoError(t, store.Save(ctx, "k", []byte("persisted"))).Required()
	gt.NoError(t, store.Close()).Required()

	reopened, err := kvstore.NewBadger(dir)
	gt.NoError(t, err).Required()
	defer func() {
		gt.NoError(t, reopened.Close())
	}()

	got, err := reopened.Load(ctx, "k")
	gt.NoError(t, err).Required()
	gt.Value(t, string(got)).Equal("persisted")
}

func TestRedisKVStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	runKVStoreTest(t, func(t *testing.T) interfaces.KVStore {
		store, err := kvstore.NewRedis(context.Background(), addr, os.Getenv("TEST_REDIS_PASSWORD"))
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			gt.NoError(t, store.Close())
		})
		return &prefixedStore{KVStore: store, prefix: fmt.Sprintf("test_%d_", time.Now().UnixNano())}
	})
}

func TestFirestoreKVStore(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	runKVStoreTest(t, func(t *testing.T) interfaces.KVStore {
		prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
		store, err := kvstore.NewFirestore(context.Background(), projectID, databaseID,
			kvstore.WithFirestoreCollectionPrefix(prefix))
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			gt.NoError(t, store.Close())
		})
		return store
	})
}

// prefixedStore keeps test keys apart on a shared server
type prefixedStore struct {
	interfaces.KVStore
	prefix string
}

func (p *prefixedStore) Load(ctx context.Context, key string) ([]byte, error) {
	return p.KVStore.Load(ctx, p.prefix+key)
}

func (p *prefixedStore) Save(ctx context.Context, key string, value []byte) error {
	return p.KVStore.Save(ctx, p.prefix+key, value)
}
