package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/doc-forge-buddy/docforge/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func runDeadlineRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("ListActive returns saved users", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		suffix := time.Now().UnixNano()

		u1 := &model.User{ID: model.UserID(fmt.Sprintf("u1_%d", suffix)), Email: "ana@example.com"}
		u2 := &model.User{ID: model.UserID(fmt.Sprintf("u2_%d", suffix)), Email: "bruno@example.com"}
		gt.NoError(t, repo.User().Put(ctx, u1)).Required()
		gt.NoError(t, repo.User().Put(ctx, u2)).Required()

		users, err := repo.User().ListActive(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, users).Length(2)

		byID := map[model.UserID]*model.User{}
		for _, u := range users {
			byID[u.ID] = u
		}
		gt.Value(t, byID[u1.ID].Email).Equal("ana@example.com")
		gt.Value(t, byID[u2.ID].Email).Equal("bruno@example.com")
	})

	t.Run("Put rejects empty user ID", func(t *testing.T) {
		repo := newRepo(t)
		gt.Value(t, repo.User().Put(context.Background(), &model.User{})).NotNil()
	})

	t.Run("ListWithDeadline filters by owner and deadline", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		suffix := time.Now().UnixNano()
		owner := model.UserID(fmt.Sprintf("owner_%d", suffix))
		other := model.UserID(fmt.Sprintf("other_%d", suffix))

		contracts := []*model.Contract{
			{ID: model.ContractID(fmt.Sprintf("c1_%d", suffix)), UserID: owner, ContractNumber: "001", TerminationDate: "2026-05-01"},
			{ID: model.ContractID(fmt.Sprintf("c2_%d", suffix)), UserID: owner, ContractNumber: "002"},
			{ID: model.ContractID(fmt.Sprintf("c3_%d", suffix)), UserID: other, ContractNumber: "003", TerminationDate: "2026-05-01"},
		}
		for _, c := range contracts {
			gt.NoError(t, repo.Contract().Put(ctx, c)).Required()
		}

		got, err := repo.Contract().ListWithDeadline(ctx, owner)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(1)
		gt.Value(t, got[0].ID).Equal(contracts[0].ID)
		gt.Value(t, got[0].ContractNumber).Equal("001")
		gt.Value(t, got[0].TerminationDate).Equal("2026-05-01")
	})

	t.Run("Put overwrites contract", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		suffix := time.Now().UnixNano()
		owner := model.UserID(fmt.Sprintf("owner_%d", suffix))
		c := &model.Contract{ID: model.ContractID(fmt.Sprintf("c_%d", suffix)), UserID: owner, TerminationDate: "2026-05-01"}

		gt.NoError(t, repo.Contract().Put(ctx, c)).Required()
		c.TerminationDate = "2026-06-01"
		gt.NoError(t, repo.Contract().Put(ctx, c)).Required()

		got, err := repo.Contract().ListWithDeadline(ctx, owner)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(1)
		gt.Value(t, got[0].TerminationDate).Equal("2026-06-01")
	})

	t.Run("ListScheduled filters by owner and date", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		suffix := time.Now().UnixNano()
		owner := model.UserID(fmt.Sprintf("owner_%d", suffix))

		scheduled := &model.Inspection{
			ID:            model.InspectionID(fmt.Sprintf("v1_%d", suffix)),
			UserID:        owner,
			ContractID:    "c1",
			Title:         "Contrato 001 - Centro",
			ScheduledDate: "2026-04-10",
		}
		unscheduled := &model.Inspection{
			ID:     model.InspectionID(fmt.Sprintf("v2_%d", suffix)),
			UserID: owner,
		}
		gt.NoError(t, repo.Inspection().Put(ctx, scheduled)).Required()
		gt.NoError(t, repo.Inspection().Put(ctx, unscheduled)).Required()

		got, err := repo.Inspection().ListScheduled(ctx, owner)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(1)
		gt.Value(t, got[0].ID).Equal(scheduled.ID)
		gt.Value(t, got[0].ContractID).Equal(model.ContractID("c1"))
		gt.Value(t, got[0].Title).Equal("Contrato 001 - Centro")
	})
}

func TestMemoryDeadlineRepository(t *testing.T) {
	runDeadlineRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreDeadlineRepository(t *testing.T) {
	runDeadlineRepositoryTest(t, newFirestoreRepository)
}
