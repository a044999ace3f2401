package store

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// tempMediaExtensions are the media file types the pipeline leaves in
// the temp directory.
var tempMediaExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".opus": true,
	".webm": true,
	".wav":  true,
	".mp4":  true,
	".part": true,
}

// CacheEntry is one item in the bounded in-memory cache. Importance
// and recency jointly determine eviction order.
type CacheEntry struct {
	Key        string
	Data       any
	Size       int64
	Timestamp  time.Time
	Importance int
}

// CacheStats reports the cache state
type CacheStats struct {
	TotalSize int64 `json:"totalSize"`
	MaxSize   int64 `json:"maxSize"`
	Entries   int   `json:"entries"`
}

// CleanupReport counts what a temp-file cleanup removed
type CleanupReport struct {
	DeletedFiles int   `json:"deletedFiles"`
	FreedSpace   int64 `json:"freedSpace"`
}

// ResourceManager bounds an in-memory cache by total serialized size
// and performs best-effort temp-file cleanup. Cleanup is advisory:
// filesystem errors are logged and swallowed, never blocking the
// pipeline.
type ResourceManager struct {
	mu      sync.Mutex
	entries map[string]*CacheEntry
	total   int64
	maxSize int64
	ttl     time.Duration
	tempDir string
}

func NewResourceManager(maxSize int64, ttl time.Duration, tempDir string) *ResourceManager {
	return &ResourceManager{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
		ttl:     ttl,
		tempDir: tempDir,
	}
}

// Put stores data under key, evicting lowest-importance then oldest
// entries until the item fits. An item larger than the whole cache is
// rejected.
func (rm *ResourceManager) Put(key string, data any, importance int) bool {
	serialized, err := json.Marshal(data)
	if err != nil {
		log.Printf("[resources] cannot size %s: %v", key, err)
		return false
	}
	size := int64(len(serialized))
	if size > rm.maxSize {
		return false
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if old, ok := rm.entries[key]; ok {
		rm.total -= old.Size
		delete(rm.entries, key)
	}

	if rm.total+size > rm.maxSize {
		rm.evictLocked(rm.total + size - rm.maxSize)
	}

	rm.entries[key] = &CacheEntry{
		Key:        key,
		Data:       data,
		Size:       size,
		Timestamp:  time.Now(),
		Importance: importance,
	}
	rm.total += size
	return true
}

// evictLocked frees at least need bytes, removing entries ordered by
// importance ascending, then age ascending.
func (rm *ResourceManager) evictLocked(need int64) {
	candidates := make([]*CacheEntry, 0, len(rm.entries))
	for _, e := range rm.entries {
		candidates = append(candidates, e)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Importance != candidates[j].Importance {
			return candidates[i].Importance < candidates[j].Importance
		}
		return candidates[i].Timestamp.Before(candidates[j].Timestamp)
	})

	freed := int64(0)
	for _, e := range candidates {
		if freed >= need {
			break
		}
		delete(rm.entries, e.Key)
		rm.total -= e.Size
		freed += e.Size
	}
}

func (rm *ResourceManager) Get(key string) (any, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	e, ok := rm.entries[key]
	if !ok {
		return nil, false
	}
	return e.Data, true
}

func (rm *ResourceManager) Remove(key string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if e, ok := rm.entries[key]; ok {
		rm.total -= e.Size
		delete(rm.entries, key)
	}
}

// SweepExpired drops entries older than the TTL
func (rm *ResourceManager) SweepExpired() int {
	cutoff := time.Now().Add(-rm.ttl)

	rm.mu.Lock()
	defer rm.mu.Unlock()

	removed := 0
	for key, e := range rm.entries {
		if e.Timestamp.Before(cutoff) {
			rm.total -= e.Size
			delete(rm.entries, key)
			removed++
		}
	}
	return removed
}

func (rm *ResourceManager) Stats() CacheStats {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return CacheStats{
		TotalSize: rm.total,
		MaxSize:   rm.maxSize,
		Entries:   len(rm.entries),
	}
}

// Cleanup removes temp files left behind by a completed request:
// anything named after the request id, plus any temp-directory file
// older than one hour regardless of name. Newer files that do not
// mention the request id are preserved for still-running requests.
func (rm *ResourceManager) Cleanup(requestID string) CleanupReport {
	report := CleanupReport{}

	entries, err := os.ReadDir(rm.tempDir)
	if err != nil {
		log.Printf("[resources] cleanup: read temp dir: %v", err)
		return report
	}

	cutoff := time.Now().Add(-1 * time.Hour)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		info, err := entry.Info()
		if err != nil {
			continue
		}

		isTempMedia := tempMediaExtensions[strings.ToLower(filepath.Ext(name))]
		matchesID := requestID != "" && strings.Contains(name, requestID) && isTempMedia
		isOld := info.ModTime().Before(cutoff)

		if !matchesID && !isOld {
			continue
		}

		path := filepath.Join(rm.tempDir, name)
		if err := os.Remove(path); err != nil {
			log.Printf("[resources] cleanup: remove %s: %v", name, err)
			continue
		}
		report.DeletedFiles++
		report.FreedSpace += info.Size()
	}

	if report.DeletedFiles > 0 {
		log.Printf("[resources] cleanup for %s: removed %d files, freed %d bytes",
			requestID, report.DeletedFiles, report.FreedSpace)
	}
	return report
}
