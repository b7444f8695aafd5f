package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

const contractsCollection = "contracts"

type contractRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.ContractRepository = &contractRepository{}

func newContractRepository(client *firestore.Client) *contractRepository {
	return &contractRepository{client: client}
}

type contractDoc struct {
	ID              string `firestore:"id"`
	UserID          string `firestore:"user_id"`
	ContractNumber  string `firestore:"contract_number"`
	TerminationDate string `firestore:"termination_date"`
}

func (r *contractRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, contractsCollection))
}

func (r *contractRepository) Put(ctx context.Context, contract *model.Contract) error {
	if contract == nil || contract.ID == "" {
		return goerr.New("contract ID is required")
	}
	if contract.UserID == "" {
		return goerr.New("contract owner is required", goerr.V("contract_id", contract.ID))
	}

	doc := &contractDoc{
		ID:              string(contract.ID),
		UserID:          string(contract.UserID),
		ContractNumber:  contract.ContractNumber,
		TerminationDate: contract.TerminationDate,
	}
	if _, err := r.collection().Doc(doc.ID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to save contract", goerr.V("contract_id", contract.ID))
	}
	return nil
}

// ListWithDeadline filters contracts without a termination date in memory;
// an inequality on termination_date would need another composite index.
func (r *contractRepository) ListWithDeadline(ctx context.Context, userID model.UserID) ([]*model.Contract, error) {
	iter := r.collection().Where("user_id", "==", string(userID)).Documents(ctx)
	defer iter.Stop()

	var contracts []*model.Contract
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate contracts", goerr.V("user_id", userID))
		}

		var d contractDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal contract", goerr.V("docID", doc.Ref.ID))
		}

		c := &model.Contract{
			ID:              model.ContractID(d.ID),
			UserID:          model.UserID(d.UserID),
			ContractNumber:  d.ContractNumber,
			TerminationDate: d.TerminationDate,
		}
		if c.HasDeadline() {
			contracts = append(contracts, c)
		}
	}

	return contracts, nil
}
