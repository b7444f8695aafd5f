package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/doc-forge-buddy/docforge/pkg/repository/memory"
	"github.com/doc-forge-buddy/docforge/pkg/service/worker"
	"github.com/doc-forge-buddy/docforge/pkg/usecase"
	"github.com/m-mizutani/gt"
)

// mockScanner counts scans and can fail on demand
type mockScanner struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *mockScanner) Scan(ctx context.Context) (*model.ScanResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &model.ScanResult{}, nil
}

func (m *mockScanner) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestScanWorker_InitialScan(t *testing.T) {
	scanner := &mockScanner{}
	w := worker.NewScanWorker(scanner, time.Hour)

	gt.NoError(t, w.Start(context.Background())).Required()
	waitFor(t, func() bool { return scanner.callCount() >= 1 })
	w.Stop()

	gt.Value(t, scanner.callCount()).Equal(1)
}

func TestScanWorker_PeriodicScan(t *testing.T) {
	scanner := &mockScanner{}
	w := worker.NewScanWorker(scanner, 10*time.Millisecond)

	gt.NoError(t, w.Start(context.Background())).Required()
	waitFor(t, func() bool { return scanner.callCount() >= 3 })
	w.Stop()
}

func TestScanWorker_ContinuesAfterFailure(t *testing.T) {
	scanner := &mockScanner{err: errors.New("db down")}
	w := worker.NewScanWorker(scanner, 10*time.Millisecond)

	gt.NoError(t, w.Start(context.Background())).Required()
	waitFor(t, func() bool { return scanner.callCount() >= 2 })
	w.Stop()
}

func TestScanWorker_ContextCancel(t *testing.T) {
	scanner := &mockScanner{}
	w := worker.NewScanWorker(scanner, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	gt.NoError(t, w.Start(ctx)).Required()
	waitFor(t, func() bool { return scanner.callCount() >= 1 })
	cancel()

	// Stop still returns once the loop has exited on its own
	w.Stop()
}

func TestScanWorker_WithScanUseCase(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	gt.NoError(t, repo.User().Put(ctx, &model.User{ID: "user-1"})).Required()
	gt.NoError(t, repo.Contract().Put(ctx, &model.Contract{
		ID:              "c1",
		UserID:          "user-1",
		ContractNumber:  "001",
		TerminationDate: time.Now().UTC().AddDate(0, 0, 3).Format(time.DateOnly),
	})).Required()

	w := worker.NewScanWorker(usecase.NewNotificationScanUseCase(repo), time.Hour)
	gt.NoError(t, w.Start(ctx)).Required()
	waitFor(t, func() bool {
		list, err := repo.Notification().List(ctx, "user-1", false)
		return err == nil && len(list) == 1
	})
	w.Stop()
}
