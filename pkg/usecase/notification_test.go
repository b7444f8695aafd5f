package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/doc-forge-buddy/docforge/pkg/domain/types"
	"github.com/doc-forge-buddy/docforge/pkg/repository/memory"
	"github.com/doc-forge-buddy/docforge/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestNotificationUseCase(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	uc := usecase.NewNotificationUseCase(repo)

	created, err := repo.Notification().Create(ctx, &model.Notification{
		UserID:    "user-1",
		Type:      types.NotificationTypeVistoriaReminder,
		Title:     "Lembrete: Vistoria amanhã - 001",
		Priority:  types.NotificationPriorityHigh,
		CreatedAt: time.Now().UTC(),
	})
	gt.NoError(t, err).Required()

	t.Run("List returns unread notifications", func(t *testing.T) {
		list, err := uc.List(ctx, "user-1", true)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(1)
	})

	t.Run("MarkRead by another user is not found", func(t *testing.T) {
		err := uc.MarkRead(ctx, "user-2", created.ID)
		gt.Error(t, err).Is(usecase.ErrNotificationNotFound)
	})

	t.Run("MarkRead hides it from unread list", func(t *testing.T) {
		gt.NoError(t, uc.MarkRead(ctx, "user-1", created.ID)).Required()

		unread, err := uc.List(ctx, "user-1", true)
		gt.NoError(t, err).Required()
		gt.Array(t, unread).Length(0)

		all, err := uc.List(ctx, "user-1", false)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(1)
		gt.Bool(t, all[0].Read).True()
		gt.Bool(t, all[0].ReadAt.IsZero()).False()
	})

	t.Run("empty IDs are rejected", func(t *testing.T) {
		_, err := uc.List(ctx, "", false)
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
		gt.Error(t, uc.MarkRead(ctx, "user-1", "")).Is(usecase.ErrInvalidInput)
	})
}
