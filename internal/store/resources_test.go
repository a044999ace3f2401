package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPutStaysWithinMaxSize(t *testing.T) {
	rm := NewResourceManager(200, time.Hour, t.TempDir())

	payload := strings.Repeat("x", 60) // ~62 bytes serialized
	for i := 0; i < 10; i++ {
		key := string(rune('a' + i))
		if !rm.Put(key, payload, 1) {
			t.Fatalf("Put(%s) rejected, want accepted", key)
		}
		stats := rm.Stats()
		if stats.TotalSize > stats.MaxSize {
			t.Fatalf("after Put(%s): total %d exceeds max %d", key, stats.TotalSize, stats.MaxSize)
		}
	}
}

func TestPutRejectsOversizedItem(t *testing.T) {
	rm := NewResourceManager(50, time.Hour, t.TempDir())
	if rm.Put("big", strings.Repeat("x", 100), 5) {
		t.Fatal("Put accepted an item larger than the whole cache")
	}
	if stats := rm.Stats(); stats.Entries != 0 {
		t.Fatalf("got %d entries, want 0", stats.Entries)
	}
}

func TestEvictionPrefersLowImportance(t *testing.T) {
	rm := NewResourceManager(200, time.Hour, t.TempDir())

	payload := strings.Repeat("x", 60)
	rm.Put("low", payload, 1)
	rm.Put("high", payload, 9)
	rm.Put("mid", payload, 5)

	// Forces one eviction; the low-importance entry should go first.
	rm.Put("new", payload, 5)

	if _, ok := rm.Get("low"); ok {
		t.Fatal("low-importance entry survived eviction")
	}
	if _, ok := rm.Get("high"); !ok {
		t.Fatal("high-importance entry was evicted")
	}
	if _, ok := rm.Get("new"); !ok {
		t.Fatal("newly inserted entry missing")
	}
}

func TestEvictionBreaksTiesByAge(t *testing.T) {
	rm := NewResourceManager(200, time.Hour, t.TempDir())

	payload := strings.Repeat("x", 60)
	rm.Put("older", payload, 5)
	time.Sleep(5 * time.Millisecond)
	rm.Put("newer", payload, 5)
	rm.Put("other", payload, 9)

	rm.Put("incoming", payload, 9)

	if _, ok := rm.Get("older"); ok {
		t.Fatal("oldest same-importance entry survived eviction")
	}
	if _, ok := rm.Get("newer"); !ok {
		t.Fatal("newer same-importance entry was evicted first")
	}
}

func TestSweepExpired(t *testing.T) {
	rm := NewResourceManager(1000, 10*time.Millisecond, t.TempDir())
	rm.Put("a", "data", 1)
	rm.Put("b", "data", 1)
	time.Sleep(20 * time.Millisecond)
	rm.Put("fresh", "data", 1)

	removed := rm.SweepExpired()
	if removed != 2 {
		t.Fatalf("SweepExpired removed %d, want 2", removed)
	}
	if _, ok := rm.Get("fresh"); !ok {
		t.Fatal("fresh entry removed by sweep")
	}
}

func TestCleanupRemovesRequestFiles(t *testing.T) {
	dir := t.TempDir()
	rm := NewResourceManager(1000, time.Hour, dir)

	mustWrite(t, dir, "req_123_abc.mp3", 100)
	mustWrite(t, dir, "req_123_abc.part", 50)
	mustWrite(t, dir, "req_999_zzz.mp3", 100)

	report := rm.Cleanup("req_123_abc")
	if report.DeletedFiles != 2 {
		t.Fatalf("deleted %d files, want 2", report.DeletedFiles)
	}
	if report.FreedSpace != 150 {
		t.Fatalf("freed %d bytes, want 150", report.FreedSpace)
	}
	if _, err := os.Stat(filepath.Join(dir, "req_999_zzz.mp3")); err != nil {
		t.Fatal("unrelated recent file was deleted")
	}
}

func TestCleanupRemovesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	rm := NewResourceManager(1000, time.Hour, dir)

	stale := filepath.Join(dir, "leftover.wav")
	mustWrite(t, dir, "leftover.wav", 30)
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}
	mustWrite(t, dir, "active.wav", 30)

	report := rm.Cleanup("req_000_none")
	if report.DeletedFiles != 1 {
		t.Fatalf("deleted %d files, want 1", report.DeletedFiles)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale file still present")
	}
	if _, err := os.Stat(filepath.Join(dir, "active.wav")); err != nil {
		t.Fatal("active file was deleted")
	}
}

func TestCleanupIgnoresNonMediaNameMatch(t *testing.T) {
	dir := t.TempDir()
	rm := NewResourceManager(1000, time.Hour, dir)

	mustWrite(t, dir, "req_123_abc.txt", 20)

	report := rm.Cleanup("req_123_abc")
	if report.DeletedFiles != 0 {
		t.Fatalf("deleted %d files, want 0", report.DeletedFiles)
	}
}

func mustWrite(t *testing.T, dir, name string, size int) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
}
