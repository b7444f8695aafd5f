package async

import (
	"context"

	"github.com/doc-forge-buddy/docforge/pkg/utils/logging"
)

// Dispatch runs handler in a new goroutine with a detached context that
// keeps the caller's logger. Errors and panics are logged, never returned.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "task", name, "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			logging.From(bgCtx).Error("async handler failed", "task", name, "error", err.Error())
		}
	}()
}
