package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type inspectionRepository struct {
	mu          sync.RWMutex
	inspections map[model.InspectionID]*model.Inspection
}

func newInspectionRepository() *inspectionRepository {
	return &inspectionRepository{
		inspections: make(map[model.InspectionID]*model.Inspection),
	}
}

func (r *inspectionRepository) Put(ctx context.Context, inspection *model.Inspection) error {
	if inspection == nil || inspection.ID == "" {
		return goerr.New("inspection ID is required")
	}
	if inspection.UserID == "" {
		return goerr.New("inspection owner is required", goerr.V("vistoria_id", inspection.ID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	inspectionCopy := *inspection
	r.inspections[inspection.ID] = &inspectionCopy
	return nil
}

func (r *inspectionRepository) ListScheduled(ctx context.Context, userID model.UserID) ([]*model.Inspection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Inspection
	for _, i := range r.inspections {
		if i.UserID != userID || !i.IsScheduled() {
			continue
		}
		inspectionCopy := *i
		result = append(result, &inspectionCopy)
	}
	sort.Slice(result, func(a, b int) bool {
		return result[a].ID < result[b].ID
	})

	return result, nil
}
