package types

import "github.com/m-mizutani/goerr/v2"

// CacheMode tags the kind of request/response pair held in the response cache
type CacheMode string

const (
	CacheModeNormal         CacheMode = "normal"
	CacheModeIntelligent    CacheMode = "intelligent"
	CacheModeAnalysis       CacheMode = "analysis"
	CacheModeConversational CacheMode = "conversational"
)

// AllCacheModes returns all valid cache modes
func AllCacheModes() []CacheMode {
	return []CacheMode{
		CacheModeNormal,
		CacheModeIntelligent,
		CacheModeAnalysis,
		CacheModeConversational,
	}
}

// IsValid checks if the cache mode is valid
func (m CacheMode) IsValid() bool {
	switch m {
	case CacheModeNormal, CacheModeIntelligent, CacheModeAnalysis, CacheModeConversational:
		return true
	default:
		return false
	}
}

func (m CacheMode) String() string {
	return string(m)
}

// ParseCacheMode parses a string into a CacheMode
func ParseCacheMode(s string) (CacheMode, error) {
	m := CacheMode(s)
	if !m.IsValid() {
		return "", goerr.New("invalid cache mode", goerr.V("mode", s))
	}
	return m, nil
}
