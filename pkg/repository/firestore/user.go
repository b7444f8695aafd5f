package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

const usersCollection = "users"

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.UserRepository = &userRepository{}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{client: client}
}

type userDoc struct {
	ID     string `firestore:"id"`
	Email  string `firestore:"email"`
	Active bool   `firestore:"active"`
}

func (r *userRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, usersCollection))
}

func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	if user == nil || user.ID == "" {
		return goerr.New("user ID is required")
	}

	doc := &userDoc{ID: string(user.ID), Email: user.Email, Active: true}
	if _, err := r.collection().Doc(doc.ID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to save user", goerr.V("user_id", user.ID))
	}
	return nil
}

func (r *userRepository) ListActive(ctx context.Context) ([]*model.User, error) {
	iter := r.collection().Where("active", "==", true).Documents(ctx)
	defer iter.Stop()

	var users []*model.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}

		var d userDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("docID", doc.Ref.ID))
		}
		users = append(users, &model.User{ID: model.UserID(d.ID), Email: d.Email})
	}

	return users, nil
}
