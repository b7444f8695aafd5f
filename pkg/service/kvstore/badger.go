package kvstore

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// Badger stores values in an embedded BadgerDB
type Badger struct {
	db *badger.DB
}

var _ interfaces.KVStore = &Badger{}

// NewBadger opens a BadgerDB at path. An empty path opens an in-memory database.
func NewBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open badger", goerr.V("path", path))
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Load(ctx context.Context, key string) ([]byte, error) {
	var result []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read badger key", goerr.V("key", key))
	}
	return result, nil
}

func (b *Badger) Save(ctx context.Context, key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to write badger key", goerr.V("key", key))
	}
	return nil
}

func (b *Badger) Close() error {
	if err := b.db.Close(); err != nil {
		return goerr.Wrap(err, "failed to close badger")
	}
	return nil
}
