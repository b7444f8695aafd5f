package interfaces

import (
	"context"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
)

// ContractRepository provides read access to saved contracts
type ContractRepository interface {
	// Put saves a contract (upsert)
	Put(ctx context.Context, contract *model.Contract) error

	// ListWithDeadline returns the user's contracts that carry a termination date
	ListWithDeadline(ctx context.Context, userID model.UserID) ([]*model.Contract, error)
}
