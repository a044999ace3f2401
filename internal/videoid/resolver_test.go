package videoid

import (
	"strings"
	"testing"
)

func TestResolveKnownPlatforms(t *testing.T) {
	cases := []struct {
		url      string
		platform string
		want     string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "youtube", "youtube_dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "youtube", "youtube_dQw4w9WgXcQ"},
		{"https://www.facebook.com/watch?v=123456789", "facebook", "facebook_123456789"},
		{"https://www.facebook.com/someone/videos/987654321/", "facebook", "facebook_987654321"},
		{"https://www.tiktok.com/@user/video/7012345678901234567", "tiktok", "tiktok_7012345678901234567"},
		{"https://www.instagram.com/reel/Cabc123_xyz/", "instagram", "instagram_Cabc123_xyz"},
		{"https://vimeo.com/123456", "vimeo", "vimeo_123456"},
		{"https://vimeo.com/video/654321", "vimeo", "vimeo_654321"},
	}

	for _, c := range cases {
		got := Resolve(c.url, c.platform)
		if got != c.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", c.url, c.platform, got, c.want)
		}
	}
}

func TestResolveWrongHintStillMatches(t *testing.T) {
	got := Resolve("https://www.youtube.com/watch?v=dQw4w9WgXcQ", "vimeo")
	if got != "youtube_dQw4w9WgXcQ" {
		t.Errorf("Resolve with wrong hint = %q, want youtube_dQw4w9WgXcQ", got)
	}
}

func TestResolveDeterministic(t *testing.T) {
	url := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	first := Resolve(url, "youtube")
	for i := 0; i < 10; i++ {
		if got := Resolve(url, "youtube"); got != first {
			t.Fatalf("Resolve not deterministic: %q vs %q", got, first)
		}
	}
}

func TestResolveAmbiguousURLIsStable(t *testing.T) {
	// Matches both the youtube pattern (11-char tail) and the facebook
	// pattern (videos/<digits>); the fixed evaluation order must pick
	// the same platform every call.
	url := "https://www.dailymotion.com/videos/12345678901"
	first := Resolve(url, "")
	if first != "youtube_12345678901" {
		t.Fatalf("Resolve(%q) = %q, want youtube_12345678901", url, first)
	}
	for i := 0; i < 200; i++ {
		if got := Resolve(url, ""); got != first {
			t.Fatalf("ambiguous URL resolved to %q and %q", first, got)
		}
	}
}

func TestResolveOtherPlatformEncodes(t *testing.T) {
	url := "https://example.com/videos/some-clip"
	got := Resolve(url, "other")
	if !strings.HasPrefix(got, "other_") {
		t.Fatalf("Resolve other = %q, want other_ prefix", got)
	}
	// encoded ids are deterministic for the same URL
	if again := Resolve(url, "other"); again != got {
		t.Fatalf("other id not stable: %q vs %q", again, got)
	}
}

func TestResolveNeverEmpty(t *testing.T) {
	inputs := []struct{ url, platform string }{
		{"", ""},
		{"not a url at all", "youtube"},
		{"   ", "tiktok"},
		{"https://example.com/", ""},
	}
	for _, in := range inputs {
		if got := Resolve(in.url, in.platform); got == "" {
			t.Errorf("Resolve(%q, %q) returned empty id", in.url, in.platform)
		}
	}
}

func TestDetectPlatform(t *testing.T) {
	cases := map[string]string{
		"https://youtu.be/abc":            PlatformYouTube,
		"https://fb.watch/xyz":            PlatformFacebook,
		"https://www.tiktok.com/@x/video": PlatformTikTok,
		"https://instagram.com/p/abc":     PlatformInstagram,
		"https://vimeo.com/1":             PlatformVimeo,
		"https://example.com/v":           PlatformOther,
	}
	for url, want := range cases {
		if got := DetectPlatform(url); got != want {
			t.Errorf("DetectPlatform(%q) = %q, want %q", url, got, want)
		}
	}
}
