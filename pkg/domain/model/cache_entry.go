package model

import (
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/types"
	"github.com/google/uuid"
)

// CacheEntryID identifies a response cache entry
type CacheEntryID string

// NewCacheEntryID generates a new cache entry ID
func NewCacheEntryID() CacheEntryID {
	return CacheEntryID(uuid.Must(uuid.NewV7()).String())
}

// CacheEntry is a remembered (input, mode) -> output pair.
// UsageCount starts at 1 and grows on every hit.
type CacheEntry struct {
	ID         CacheEntryID    `json:"id"`
	Input      string          `json:"input"`
	Output     string          `json:"output"`
	Mode       types.CacheMode `json:"mode"`
	CreatedAt  time.Time       `json:"timestamp"`
	UsageCount int             `json:"usageCount"`
	LastUsedAt time.Time       `json:"lastUsed"`
	Confidence float64         `json:"confidence"`
	Metadata   map[string]any  `json:"metadata,omitempty"`
}

// CacheStats summarizes the response cache
type CacheStats struct {
	TotalEntries int        `json:"totalEntries"`
	HitRate      float64    `json:"hitRate"`
	MemoryUsage  int        `json:"memoryUsage"`
	OldestEntry  *time.Time `json:"oldestEntry"`
	NewestEntry  *time.Time `json:"newestEntry"`
}
