package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/doc-forge-buddy/docforge/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestFromFallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	orig := logging.Default()
	t.Cleanup(func() { logging.SetDefault(orig) })

	logging.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	logging.From(context.Background()).Info("hello")
	gt.String(t, buf.String()).Contains("hello")
}

func TestWithOverridesDefault(t *testing.T) {
	var defBuf, ctxBuf bytes.Buffer
	orig := logging.Default()
	t.Cleanup(func() { logging.SetDefault(orig) })

	logging.SetDefault(slog.New(slog.NewTextHandler(&defBuf, nil)))
	ctx := logging.With(context.Background(), slog.New(slog.NewTextHandler(&ctxBuf, nil)))

	logging.From(ctx).Info("scoped")
	gt.String(t, ctxBuf.String()).Contains("scoped")
	gt.Value(t, defBuf.Len()).Equal(0)
}
