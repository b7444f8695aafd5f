package model_test

import (
	"testing"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestParseDeadline(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "date only is midnight UTC",
			input: "2026-03-15",
			want:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "RFC3339 keeps the instant",
			input: "2026-03-15T10:30:00-03:00",
			want:  time.Date(2026, 3, 15, 13, 30, 0, 0, time.UTC),
		},
		{
			name:  "surrounding spaces are ignored",
			input: "  2026-03-15 ",
			want:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "not-a-date", wantErr: true},
		{name: "brazilian format is not accepted", input: "15/03/2026", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ParseDeadline(tt.input)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err).Required()
			gt.Bool(t, got.Equal(tt.want)).True()
		})
	}
}

func TestContract(t *testing.T) {
	c := &model.Contract{ID: "c1", TerminationDate: "2026-01-10"}
	gt.Bool(t, c.HasDeadline()).True()
	gt.Value(t, c.DisplayNumber()).Equal("N/A")

	c.ContractNumber = "042/2025"
	gt.Value(t, c.DisplayNumber()).Equal("042/2025")

	c.TerminationDate = "   "
	gt.Bool(t, c.HasDeadline()).False()

	c.TerminationDate = "10-01-2026"
	_, err := c.Deadline()
	gt.Value(t, err).NotNil()
}

func TestInspectionContractNumber(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Contrato 123/2024 - Rua das Flores", want: "123/2024"},
		{title: "Contrato", want: "N/A"},
		{title: "", want: "N/A"},
		{title: "Contrato  dupla", want: "N/A"},
		{title: "Vistoria 77", want: "77"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			i := &model.Inspection{Title: tt.title}
			gt.Value(t, i.ContractNumber()).Equal(tt.want)
		})
	}
}

func TestNotificationIsDisposable(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	n := &model.Notification{ExpiresAt: now.Add(time.Hour)}
	gt.Bool(t, n.IsDisposable(now)).False()

	n.Read = true
	gt.Bool(t, n.IsDisposable(now)).True()

	n = &model.Notification{ExpiresAt: now.Add(-time.Second)}
	gt.Bool(t, n.IsDisposable(now)).True()

	n = &model.Notification{}
	gt.Bool(t, n.IsDisposable(now)).False()
}

func TestNotificationMetadataMatches(t *testing.T) {
	m := model.NotificationMetadata{ContractID: "c1", VistoriaID: "v1"}
	gt.Bool(t, m.Matches(model.EntityRef{Kind: model.EntityKindContract, ID: "c1"})).True()
	gt.Bool(t, m.Matches(model.EntityRef{Kind: model.EntityKindVistoria, ID: "v1"})).True()
	gt.Bool(t, m.Matches(model.EntityRef{Kind: model.EntityKindContract, ID: "v1"})).False()
}
