package pipeline

import (
	"sync"
	"time"
)

// Progress is the latest known state of a run. Each stage overwrites
// the whole entry; history is not kept.
type Progress struct {
	Percent   int       `json:"progress"`
	Stage     string    `json:"step"`
	Title     string    `json:"title,omitempty"`
	VideoID   string    `json:"videoId,omitempty"`
	URL       string    `json:"url,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"-"`
}

// ProgressStore tracks per-request progress. The in-memory map can be
// swapped for a shared external store in a multi-instance deployment.
type ProgressStore interface {
	Update(requestID string, p Progress)
	Get(requestID string) Progress
	Sweep(maxAge time.Duration) int
}

// MemoryProgress is the single-process ProgressStore. Updates are
// last-write-wins per request id; concurrent stages of the same
// request race benignly since each only moves progress forward.
type MemoryProgress struct {
	mu      sync.RWMutex
	entries map[string]Progress
	maxAge  time.Duration
}

func NewMemoryProgress(maxAge time.Duration) *MemoryProgress {
	return &MemoryProgress{
		entries: make(map[string]Progress),
		maxAge:  maxAge,
	}
}

func (m *MemoryProgress) Update(requestID string, p Progress) {
	if requestID == "" {
		return
	}
	p.UpdatedAt = time.Now()

	m.mu.Lock()
	m.entries[requestID] = p
	m.mu.Unlock()

	m.Sweep(m.maxAge)
}

func (m *MemoryProgress) Get(requestID string) Progress {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.entries[requestID]; ok {
		return p
	}
	return Progress{Percent: 0, Stage: "not started"}
}

// Sweep drops entries older than maxAge, judged by the timestamp
// embedded in the request id, or by the last update time for ids
// without one. Returns the number of entries removed.
func (m *MemoryProgress) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, p := range m.entries {
		created, ok := requestTime(id)
		if !ok {
			created = p.UpdatedAt
		}
		if created.Before(cutoff) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}
