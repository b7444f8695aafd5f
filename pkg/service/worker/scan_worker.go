package worker

import (
	"context"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/doc-forge-buddy/docforge/pkg/utils/errutil"
	"github.com/doc-forge-buddy/docforge/pkg/utils/logging"
)

// Scanner runs one notification scan
type Scanner interface {
	Scan(ctx context.Context) (*model.ScanResult, error)
}

// ScanWorker runs the notification scan periodically in the background.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Concurrent scans from other triggers may create duplicate notifications
type ScanWorker struct {
	scanner  Scanner
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewScanWorker creates a worker that scans every interval
func NewScanWorker(scanner Scanner, interval time.Duration) *ScanWorker {
	return &ScanWorker{
		scanner:  scanner,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background loop. The first scan runs immediately
// without blocking server startup.
func (w *ScanWorker) Start(ctx context.Context) error {
	logging.From(ctx).Info("notification scan worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *ScanWorker) Stop() {
	logging.Default().Info("notification scan worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("notification scan worker stopped")
}

func (w *ScanWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.scan(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.scan(ctx)

		case <-w.stopCh:
			logging.From(ctx).Info("notification scan worker received stop signal")
			return

		case <-ctx.Done():
			logging.From(ctx).Info("notification scan worker context cancelled")
			return
		}
	}
}

func (w *ScanWorker) scan(ctx context.Context) {
	result, err := w.scanner.Scan(ctx)
	if err != nil {
		// keep the worker alive, the next tick retries
		_ = errutil.Handle(ctx, err, "scheduled notification scan failed")
		return
	}

	logging.From(ctx).Info("scheduled notification scan finished",
		"created", result.NotificationsCreated,
		"errors", result.Errors,
		"cleaned", result.CleanedCount)
}
