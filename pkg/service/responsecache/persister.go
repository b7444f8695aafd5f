package responsecache

import (
	"context"
	"sync"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
	"github.com/doc-forge-buddy/docforge/pkg/utils/async"
	"github.com/doc-forge-buddy/docforge/pkg/utils/logging"
	"github.com/doc-forge-buddy/docforge/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
)

const (
	persistAttempts = 3
	persistBackoff  = 100 * time.Millisecond
)

// persister writes snapshots in the background. Snapshots scheduled while a
// write is in flight are coalesced so that only the latest one is written.
type persister struct {
	store   interfaces.KVStore
	key     string
	backoff time.Duration

	mu         sync.Mutex
	pending    []byte
	hasPending bool
	running    bool
	wg         sync.WaitGroup
}

func newPersister(store interfaces.KVStore, key string) *persister {
	return &persister{
		store:   store,
		key:     key,
		backoff: persistBackoff,
	}
}

func (p *persister) schedule(ctx context.Context, snapshot []byte) {
	p.mu.Lock()
	p.pending = snapshot
	p.hasPending = true
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.wg.Add(1)
	p.mu.Unlock()

	async.Dispatch(ctx, "responsecache.persist", func(ctx context.Context) error {
		drained := false
		defer func() {
			// A panicking store leaves drain mid-loop; release the writer slot
			// so later snapshots start a new writer.
			if !drained {
				p.mu.Lock()
				p.running = false
				p.mu.Unlock()
			}
			p.wg.Done()
		}()
		p.drain(ctx)
		drained = true
		return nil
	})
}

func (p *persister) drain(ctx context.Context) {
	for {
		p.mu.Lock()
		if !p.hasPending {
			p.running = false
			p.mu.Unlock()
			return
		}
		snapshot := p.pending
		p.pending = nil
		p.hasPending = false
		p.mu.Unlock()

		if err := p.write(ctx, snapshot); err != nil {
			metrics.CachePersistFailures.Inc()
			logging.From(ctx).Error("failed to persist response cache",
				"key", p.key,
				"error", err.Error())
		}
	}
}

func (p *persister) write(ctx context.Context, snapshot []byte) error {
	backoff := p.backoff
	var lastErr error
	for attempt := 1; attempt <= persistAttempts; attempt++ {
		if lastErr = p.store.Save(ctx, p.key, snapshot); lastErr == nil {
			return nil
		}
		logging.From(ctx).Warn("response cache persist attempt failed",
			"attempt", attempt,
			"error", lastErr.Error())

		if attempt == persistAttempts {
			break
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return goerr.Wrap(ctx.Err(), "persist cancelled", goerr.V("attempt", attempt))
		}
		backoff *= 2
	}
	return goerr.Wrap(lastErr, "persist retries exhausted", goerr.V("attempts", persistAttempts))
}

// wait blocks until background writes are done
func (p *persister) wait() {
	p.wg.Wait()
}
