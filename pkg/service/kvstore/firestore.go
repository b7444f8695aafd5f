package kvstore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const snapshotsCollection = "cache_snapshots"

// Firestore stores each value as a single document. Values are limited
// by the Firestore document size (1 MiB).
type Firestore struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.KVStore = &Firestore{}

type snapshotDoc struct {
	Value     []byte    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type FirestoreOption func(*Firestore)

// WithFirestoreCollectionPrefix isolates the snapshot collection
func WithFirestoreCollectionPrefix(prefix string) FirestoreOption {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

func NewFirestore(ctx context.Context, projectID, databaseID string, opts ...FirestoreOption) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{client: client}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Firestore) collection() *firestore.CollectionRef {
	name := snapshotsCollection
	if f.collectionPrefix != "" {
		name = f.collectionPrefix + "_" + name
	}
	return f.client.Collection(name)
}

func (f *Firestore) Load(ctx context.Context, key string) ([]byte, error) {
	doc, err := f.collection().Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get snapshot", goerr.V("key", key))
	}

	var snapshot snapshotDoc
	if err := doc.DataTo(&snapshot); err != nil {
		return nil, goerr.Wrap(err, "failed to decode snapshot", goerr.V("key", key))
	}
	return snapshot.Value, nil
}

func (f *Firestore) Save(ctx context.Context, key string, value []byte) error {
	doc := &snapshotDoc{Value: value, UpdatedAt: time.Now().UTC()}
	if _, err := f.collection().Doc(key).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to save snapshot", goerr.V("key", key), goerr.V("size", len(value)))
	}
	return nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
