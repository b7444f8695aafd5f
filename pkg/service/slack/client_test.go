package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/doc-forge-buddy/docforge/pkg/domain/types"
	"github.com/doc-forge-buddy/docforge/pkg/service/slack"
	"github.com/m-mizutani/gt"
	goslack "github.com/slack-go/slack"
)

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates service when token is provided", func(t *testing.T) {
		svc, err := slack.New("test-token")
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotNil()
	})
}

func TestPostMessage(t *testing.T) {
	var gotChannel, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, r.ParseForm()).Required()
		gt.String(t, r.URL.Path).HasSuffix("/chat.postMessage")
		gotChannel = r.FormValue("channel")
		gotText = r.FormValue("text")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":      true,
			"channel": gotChannel,
			"ts":      "1700000000.000100",
		})
	}))
	defer srv.Close()

	svc, err := slack.New("test-token", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()

	blocks := []goslack.Block{
		goslack.NewSectionBlock(goslack.NewTextBlockObject(goslack.MarkdownType, "hello", false, false), nil, nil),
	}
	ts, err := svc.PostMessage(context.Background(), "C123", blocks, "hello")
	gt.NoError(t, err).Required()
	gt.Value(t, ts).Equal("1700000000.000100")
	gt.Value(t, gotChannel).Equal("C123")
	gt.Value(t, gotText).Equal("hello")
}

func TestPostMessageError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "channel_not_found"})
	}))
	defer srv.Close()

	svc, err := slack.New("test-token", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()

	_, err = svc.PostMessage(context.Background(), "C404", nil, "hello")
	gt.Value(t, err).NotNil()
	gt.String(t, err.Error()).Contains("channel_not_found")
}

func TestNotificationBlocks(t *testing.T) {
	n := &model.Notification{
		Type:     types.NotificationTypeVistoriaToday,
		Priority: types.NotificationPriorityUrgent,
		Title:    "Vistoria hoje: 001",
		Message:  "A vistoria do contrato 001 está agendada para hoje (2026-04-10).",
		Metadata: model.NotificationMetadata{VistoriaID: "v1", ContractID: "c1"},
	}

	blocks, text := slack.NotificationBlocks(n)
	gt.Array(t, blocks).Length(3)
	gt.String(t, text).Contains("Vistoria hoje: 001")

	header, ok := blocks[0].(*goslack.HeaderBlock)
	gt.Bool(t, ok).True()
	gt.String(t, header.Text.Text).Contains(":rotating_light:")

	section, ok := blocks[1].(*goslack.SectionBlock)
	gt.Bool(t, ok).True()
	gt.Value(t, section.Text.Text).Equal(n.Message)

	ctxBlock, ok := blocks[2].(*goslack.ContextBlock)
	gt.Bool(t, ok).True()
	gt.Array(t, ctxBlock.ContextElements.Elements).Length(1)
}

func TestTruncateToMaxBytes(t *testing.T) {
	t.Run("keeps short strings", func(t *testing.T) {
		gt.Value(t, slack.TruncateToMaxBytes("abc", 10)).Equal("abc")
	})

	t.Run("does not split multibyte runes", func(t *testing.T) {
		s := strings.Repeat("ã", 10)
		got := slack.TruncateToMaxBytes(s, 5)
		gt.Value(t, got).Equal("ãã")
	})
}

func TestIntegration(t *testing.T) {
	token := os.Getenv("TEST_SLACK_BOT_TOKEN")
	channel := os.Getenv("TEST_SLACK_CHANNEL")
	if token == "" || channel == "" {
		t.Skip("TEST_SLACK_BOT_TOKEN or TEST_SLACK_CHANNEL is not set")
	}

	svc, err := slack.New(token)
	gt.NoError(t, err).Required()

	blocks, text := slack.NotificationBlocks(&model.Notification{
		Type:     types.NotificationTypeVistoriaToday,
		Title:    "Vistoria hoje: 42",
		Message:  "A vistoria do contrato 42 está agendada para hoje (2026-04-10).",
		Priority: types.NotificationPriorityUrgent,
	})
	ts, err := svc.PostMessage(context.Background(), channel, blocks, text)
	gt.NoError(t, err).Required()
	gt.String(t, ts).NotEqual("")
}
