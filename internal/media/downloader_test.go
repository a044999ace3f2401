package media

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFindAudioExactName(t *testing.T) {
	dir := t.TempDir()
	want := writeFile(t, dir, "youtube_abc123.mp3")
	if got := FindAudio(dir, "youtube_abc123"); got != want {
		t.Fatalf("FindAudio = %q, want %q", got, want)
	}
}

func TestFindAudioAlternateExtension(t *testing.T) {
	dir := t.TempDir()
	want := writeFile(t, dir, "youtube_abc123.opus")
	if got := FindAudio(dir, "youtube_abc123"); got != want {
		t.Fatalf("FindAudio = %q, want %q", got, want)
	}
}

func TestFindAudioSubstringMatch(t *testing.T) {
	dir := t.TempDir()
	want := writeFile(t, dir, "prefix-youtube_abc123-suffix.m4a")
	if got := FindAudio(dir, "youtube_abc123"); got != want {
		t.Fatalf("FindAudio = %q, want %q", got, want)
	}
}

func TestFindAudioIgnoresNonAudio(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "youtube_abc123.txt")
	writeFile(t, dir, "youtube_abc123.json")
	if got := FindAudio(dir, "youtube_abc123"); got != "" {
		t.Fatalf("FindAudio = %q, want empty", got)
	}
}

func TestFindAudioIgnoresEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "youtube_abc123.mp3")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if got := FindAudio(dir, "youtube_abc123"); got != "" {
		t.Fatalf("FindAudio picked up empty file: %q", got)
	}
}

func TestFindJSONInMixedOutput(t *testing.T) {
	out := []byte("some log noise\n{\"success\": true, \"audioPath\": \"/tmp/a.mp3\"}\ntrailing")
	got := string(findJSON(out))
	want := `{"success": true, "audioPath": "/tmp/a.mp3"}`
	if got != want {
		t.Fatalf("findJSON = %q, want %q", got, want)
	}
}
