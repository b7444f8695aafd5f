package model_test

import (
	"testing"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestNotificationMetadata_Matches(t *testing.T) {
	meta := model.NotificationMetadata{ContractID: "c-1", VistoriaID: "v-1"}

	gt.Bool(t, meta.Matches(model.EntityRef{Kind: model.EntityKindContract, ID: "c-1"})).True()
	gt.Bool(t, meta.Matches(model.EntityRef{Kind: model.EntityKindVistoria, ID: "v-1"})).True()
	gt.Bool(t, meta.Matches(model.EntityRef{Kind: model.EntityKindContract, ID: "v-1"})).False()
	gt.Bool(t, meta.Matches(model.EntityRef{Kind: "other", ID: "c-1"})).False()
}

func TestNotification_IsDisposable(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		n    model.Notification
		want bool
	}{
		{name: "no expiry unread", n: model.Notification{}, want: false},
		{name: "future expiry", n: model.Notification{ExpiresAt: now.Add(time.Hour)}, want: false},
		{name: "expiry equal to now", n: model.Notification{ExpiresAt: now}, want: false},
		{name: "expired", n: model.Notification{ExpiresAt: now.Add(-time.Second)}, want: true},
		{name: "read", n: model.Notification{Read: true, ExpiresAt: now.Add(time.Hour)}, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, tc.n.IsDisposable(now)).Equal(tc.want)
		})
	}
}
