package pipeline

import (
	"sync"
	"time"
)

// ResultStore memoizes completed runs keyed by (url, target language)
// inside a freshness window. A hit short-circuits the whole pipeline.
type ResultStore interface {
	Get(url, targetLang string) (Result, bool)
	Set(url, targetLang string, res Result)
	Sweep() int
}

type cachedResult struct {
	result  Result
	savedAt time.Time
}

// MemoryResults is the single-process ResultStore. Two concurrent
// identical requests may race on the same key; last writer wins, which
// is acceptable staleness rather than a correctness problem.
type MemoryResults struct {
	mu      sync.RWMutex
	entries map[string]cachedResult
	ttl     time.Duration
}

func NewMemoryResults(ttl time.Duration) *MemoryResults {
	return &MemoryResults{
		entries: make(map[string]cachedResult),
		ttl:     ttl,
	}
}

func resultKey(url, targetLang string) string {
	return url + "|" + targetLang
}

func (m *MemoryResults) Get(url, targetLang string) (Result, bool) {
	m.mu.RLock()
	entry, ok := m.entries[resultKey(url, targetLang)]
	m.mu.RUnlock()

	if !ok || time.Since(entry.savedAt) > m.ttl {
		return Result{}, false
	}
	return entry.result, true
}

func (m *MemoryResults) Set(url, targetLang string, res Result) {
	m.mu.Lock()
	m.entries[resultKey(url, targetLang)] = cachedResult{result: res, savedAt: time.Now()}
	m.mu.Unlock()

	m.Sweep()
}

// Sweep drops expired entries and returns how many were removed
func (m *MemoryResults) Sweep() int {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, entry := range m.entries {
		if entry.savedAt.Before(cutoff) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}
