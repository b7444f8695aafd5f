package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type contractRepository struct {
	mu        sync.RWMutex
	contracts map[model.ContractID]*model.Contract
}

func newContractRepository() *contractRepository {
	return &contractRepository{
		contracts: make(map[model.ContractID]*model.Contract),
	}
}

func (r *contractRepository) Put(ctx context.Context, contract *model.Contract) error {
	if contract == nil || contract.ID == "" {
		return goerr.New("contract ID is required")
	}
	if contract.UserID == "" {
		return goerr.New("contract owner is required", goerr.V("contract_id", contract.ID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	contractCopy := *contract
	r.contracts[contract.ID] = &contractCopy
	return nil
}

func (r *contractRepository) ListWithDeadline(ctx context.Context, userID model.UserID) ([]*model.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Contract
	for _, c := range r.contracts {
		if c.UserID != userID || !c.HasDeadline() {
			continue
		}
		contractCopy := *c
		result = append(result, &contractCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}
