package responsecache

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"maps"
	"math"
	"slices"
	"sync"
	"time"
	"unicode/utf16"

	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/doc-forge-buddy/docforge/pkg/domain/types"
	"github.com/doc-forge-buddy/docforge/pkg/utils/logging"
	"github.com/doc-forge-buddy/docforge/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
)

const (
	DefaultMaxEntries      = 1000
	DefaultMaxAge          = 24 * time.Hour
	DefaultCleanupInterval = time.Hour
	DefaultStorageKey      = "ai-cache"
	DefaultConfidence      = 0.9

	// similarThreshold gates fuzzy candidates on their normalized form
	similarThreshold = 0.85
	// acceptThreshold must be exceeded by the raw similarity of the best candidate
	acceptThreshold = 0.7
	evictRatio      = 0.1
)

// Cache remembers (input, mode) -> output pairs and tolerates near-duplicate
// inputs. Every method is safe for concurrent use.
type Cache struct {
	store           interfaces.KVStore
	storageKey      string
	maxEntries      int
	maxAge          time.Duration
	cleanupInterval time.Duration
	now             func() time.Time

	mu      sync.Mutex
	entries map[string]*model.CacheEntry

	persister *persister

	lifecycle sync.Mutex
	stopCh    chan struct{}
	doneCh    chan struct{}
}

type Option func(*Cache)

func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		c.maxEntries = n
	}
}

func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) {
		c.maxAge = d
	}
}

// WithCleanupInterval sets the expiry sweep period. Zero disables the sweep.
func WithCleanupInterval(d time.Duration) Option {
	return func(c *Cache) {
		c.cleanupInterval = d
	}
}

// WithStorageKey sets the key of the snapshot in the KV store
func WithStorageKey(key string) Option {
	return func(c *Cache) {
		c.storageKey = key
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache backed by store. Call Init before use to load the
// persisted snapshot and start the expiry sweep.
func New(store interfaces.KVStore, opts ...Option) *Cache {
	c := &Cache{
		store:           store,
		storageKey:      DefaultStorageKey,
		maxEntries:      DefaultMaxEntries,
		maxAge:          DefaultMaxAge,
		cleanupInterval: DefaultCleanupInterval,
		now:             time.Now,
		entries:         make(map[string]*model.CacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.persister = newPersister(store, c.storageKey)
	return c
}

// Init loads the persisted snapshot and starts the expiry sweep. A missing
// or unreadable snapshot leaves the cache empty.
func (c *Cache) Init(ctx context.Context) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if c.stopCh != nil {
		return goerr.New("response cache already initialized")
	}

	loaded := c.load(ctx)
	c.mu.Lock()
	c.entries = loaded
	c.mu.Unlock()

	logging.From(ctx).Debug("response cache loaded", "entries", len(loaded))

	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	go c.sweep(logging.With(context.Background(), logging.From(ctx)), c.stopCh, c.doneCh)

	return nil
}

// Shutdown stops the sweep and writes the final snapshot synchronously
func (c *Cache) Shutdown(ctx context.Context) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if c.stopCh != nil {
		close(c.stopCh)
		<-c.doneCh
		c.stopCh = nil
		c.doneCh = nil
	}

	c.persister.wait()

	snapshot, err := c.snapshot()
	if err != nil {
		return err
	}
	if err := c.store.Save(ctx, c.storageKey, snapshot); err != nil {
		return goerr.Wrap(err, "failed to save response cache on shutdown")
	}
	return nil
}

func (c *Cache) sweep(ctx context.Context, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	if c.cleanupInterval <= 0 {
		<-stopCh
		return
	}

	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := c.Cleanup(ctx); removed > 0 {
				logging.From(ctx).Debug("response cache sweep", "removed", removed)
			}
		case <-stopCh:
			return
		}
	}
}

func (c *Cache) isExpired(e *model.CacheEntry, now time.Time) bool {
	return now.Sub(e.CreatedAt) > c.maxAge
}

// Get returns the cached entry for input, trying the exact normalized key
// first and then the most similar entry of the same mode. The returned
// entry is a copy with its usage already counted.
func (c *Cache) Get(ctx context.Context, input string, mode types.CacheMode) *model.CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	key := exactKey(input, mode.String())

	if e, ok := c.entries[key]; ok {
		if !c.isExpired(e, now) {
			touch(e, now)
			metrics.CacheLookups.WithLabelValues("exact").Inc()
			return copyEntry(e)
		}
		delete(c.entries, key)
		metrics.CacheRemovals.WithLabelValues("expired").Inc()
		c.persistLocked(ctx)
	}

	var (
		bestKey   string
		bestEntry *model.CacheEntry
		bestScore = acceptThreshold
	)
	for k, e := range c.entries {
		if e.Mode != mode || c.isExpired(e, now) {
			continue
		}
		if !isSimilar(input, e.Input, similarThreshold) {
			continue
		}
		score := similarity(input, e.Input)
		if score > bestScore || (bestEntry != nil && score == bestScore && k < bestKey) {
			bestKey, bestEntry, bestScore = k, e, score
		}
	}

	if bestEntry == nil {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil
	}

	touch(bestEntry, now)
	metrics.CacheLookups.WithLabelValues("fuzzy").Inc()
	logging.From(ctx).Debug("response cache fuzzy hit", "similarity", bestScore, "mode", mode)
	return copyEntry(bestEntry)
}

type setConfig struct {
	confidence float64
	metadata   map[string]any
}

type SetOption func(*setConfig)

func WithConfidence(confidence float64) SetOption {
	return func(c *setConfig) {
		c.confidence = confidence
	}
}

func WithMetadata(metadata map[string]any) SetOption {
	return func(c *setConfig) {
		c.metadata = metadata
	}
}

// Set stores output for (input, mode), replacing an entry with the same
// normalized key, and evicts the least valuable entries on overflow
func (c *Cache) Set(ctx context.Context, input, output string, mode types.CacheMode, opts ...SetOption) *model.CacheEntry {
	cfg := &setConfig{confidence: DefaultConfidence}
	for _, opt := range opts {
		opt(cfg)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entry := &model.CacheEntry{
		ID:         model.NewCacheEntryID(),
		Input:      input,
		Output:     output,
		Mode:       mode,
		CreatedAt:  now,
		UsageCount: 1,
		LastUsedAt: now,
		Confidence: cfg.confidence,
		Metadata:   maps.Clone(cfg.metadata),
	}
	c.entries[exactKey(input, mode.String())] = entry

	if len(c.entries) > c.maxEntries {
		c.evictLocked(ctx, now)
	}

	c.persistLocked(ctx)
	return copyEntry(entry)
}

// evictLocked drops the lowest scoring tenth of the entries where
// score = usageCount - hours since last use
func (c *Cache) evictLocked(ctx context.Context, now time.Time) {
	type scored struct {
		key   string
		entry *model.CacheEntry
		score float64
	}

	candidates := make([]scored, 0, len(c.entries))
	for k, e := range c.entries {
		candidates = append(candidates, scored{
			key:   k,
			entry: e,
			score: float64(e.UsageCount) - now.Sub(e.LastUsedAt).Hours(),
		})
	}
	slices.SortFunc(candidates, func(a, b scored) int {
		return cmp.Or(
			cmp.Compare(a.score, b.score),
			a.entry.LastUsedAt.Compare(b.entry.LastUsedAt),
			cmp.Compare(a.key, b.key),
		)
	})

	count := int(math.Ceil(float64(len(candidates)) * evictRatio))
	for _, victim := range candidates[:count] {
		delete(c.entries, victim.key)
	}
	metrics.CacheRemovals.WithLabelValues("evicted").Add(float64(count))
	logging.From(ctx).Debug("response cache evicted entries", "count", count, "remaining", len(c.entries))
}

// Clear removes every entry
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*model.CacheEntry)
	c.persistLocked(ctx)
}

// Cleanup removes expired entries and returns how many were removed
func (c *Cache) Cleanup(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if c.isExpired(e, now) {
			delete(c.entries, k)
			removed++
		}
	}

	if removed > 0 {
		metrics.CacheRemovals.WithLabelValues("expired").Add(float64(removed))
		c.persistLocked(ctx)
	}
	return removed
}

// Stats summarizes the cache. HitRate is the mean usage count per entry.
func (c *Cache) Stats() *model.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := &model.CacheStats{TotalEntries: len(c.entries)}
	if len(c.entries) == 0 {
		return stats
	}

	totalUsage := 0
	for _, e := range c.entries {
		totalUsage += e.UsageCount
		stats.MemoryUsage += utf16Len(e.Input) + utf16Len(e.Output) + metadataLen(e.Metadata)

		if stats.OldestEntry == nil || e.CreatedAt.Before(*stats.OldestEntry) {
			t := e.CreatedAt
			stats.OldestEntry = &t
		}
		if stats.NewestEntry == nil || e.CreatedAt.After(*stats.NewestEntry) {
			t := e.CreatedAt
			stats.NewestEntry = &t
		}
	}
	stats.HitRate = float64(totalUsage) / float64(len(c.entries))

	return stats
}

// Len returns the number of entries, expired ones included
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) persistLocked(ctx context.Context) {
	snapshot, err := c.snapshotLocked()
	if err != nil {
		logging.From(ctx).Error("failed to encode response cache", "error", err.Error())
		return
	}
	c.persister.schedule(ctx, snapshot)
}

func (c *Cache) snapshot() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// snapshotLocked encodes the entries as a JSON array of [key, entry] pairs
// ordered by creation time
func (c *Cache) snapshotLocked() ([]byte, error) {
	keys := slices.SortedFunc(maps.Keys(c.entries), func(a, b string) int {
		return cmp.Or(c.entries[a].CreatedAt.Compare(c.entries[b].CreatedAt), cmp.Compare(a, b))
	})

	pairs := make([][2]any, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]any{k, c.entries[k]})
	}

	data, err := json.Marshal(pairs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal response cache")
	}
	return data, nil
}

func (c *Cache) load(ctx context.Context) map[string]*model.CacheEntry {
	entries := make(map[string]*model.CacheEntry)

	data, err := c.store.Load(ctx, c.storageKey)
	if err != nil {
		logging.From(ctx).Warn("failed to load response cache, starting empty",
			"key", c.storageKey,
			"error", err.Error())
		return entries
	}
	if len(data) == 0 {
		return entries
	}

	var pairs [][2]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		logging.From(ctx).Warn("discarding corrupted response cache snapshot",
			"key", c.storageKey,
			"error", err.Error())
		return entries
	}

	for _, pair := range pairs {
		var key string
		var entry model.CacheEntry
		if err := json.Unmarshal(pair[0], &key); err != nil {
			logging.From(ctx).Warn("discarding corrupted response cache snapshot", "error", err.Error())
			return make(map[string]*model.CacheEntry)
		}
		if err := json.Unmarshal(pair[1], &entry); err != nil {
			logging.From(ctx).Warn("discarding corrupted response cache snapshot", "error", err.Error())
			return make(map[string]*model.CacheEntry)
		}
		entries[key] = &entry
	}
	return entries
}

func touch(e *model.CacheEntry, now time.Time) {
	e.UsageCount++
	e.LastUsedAt = now
}

func copyEntry(e *model.CacheEntry) *model.CacheEntry {
	copied := *e
	copied.Metadata = maps.Clone(e.Metadata)
	return &copied
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// metadataLen measures metadata as its JSON text the way JSON.stringify
// renders it: no HTML escaping and raw line/paragraph separators. "{}" when absent.
func metadataLen(metadata map[string]any) int {
	if metadata == nil {
		return utf16Len("{}")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(metadata); err != nil {
		return 0
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	n := utf16Len(string(data))
	// encoding/json always escapes U+2028 and U+2029 as six characters
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' {
			continue
		}
		if bytes.HasPrefix(data[i:], []byte(`\u2028`)) || bytes.HasPrefix(data[i:], []byte(`\u2029`)) {
			n -= len(`\u2028`) - 1
			i += len(`\u2028`) - 1
			continue
		}
		i++
	}
	return n
}
