package responsecache

import "github.com/doc-forge-buddy/docforge/pkg/domain/types"

var (
	NormalizeKey = normalizeKey
	Similarity   = similarity
	IsSimilar    = isSimilar
)

// HasKey reports whether the exact key for input is stored
func (c *Cache) HasKey(input string, mode types.CacheMode) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[exactKey(input, mode.String())]
	return ok
}

// WaitPersist blocks until background snapshot writes finish
func (c *Cache) WaitPersist() {
	c.persister.wait()
}
