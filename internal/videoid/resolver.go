// Package videoid derives a stable identifier from a source video URL.
// The id keys progress tracking, temp file naming and the transcript
// archive, so it must never be empty regardless of input.
package videoid

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Platform names accepted as hints from the client
const (
	PlatformYouTube   = "youtube"
	PlatformFacebook  = "facebook"
	PlatformTikTok    = "tiktok"
	PlatformInstagram = "instagram"
	PlatformVimeo     = "vimeo"
	PlatformOther     = "other"
)

// platformOrder fixes the pattern evaluation order so a URL matching
// more than one platform regex always resolves to the same id.
var platformOrder = []string{
	PlatformYouTube,
	PlatformFacebook,
	PlatformTikTok,
	PlatformInstagram,
	PlatformVimeo,
}

var patterns = map[string]*regexp.Regexp{
	PlatformYouTube:   regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})(?:[?&#/]|$)`),
	PlatformFacebook:  regexp.MustCompile(`(?:videos/|video\.php\?v=|watch/?\?v=)(\d+)`),
	PlatformTikTok:    regexp.MustCompile(`/video/(\d+)`),
	PlatformInstagram: regexp.MustCompile(`/(?:reel|p|tv)/([0-9A-Za-z_-]+)`),
	PlatformVimeo:     regexp.MustCompile(`vimeo\.com/(?:video/)?(\d+)`),
}

// Resolve returns a non-empty, platform-qualified identifier for url.
// Platform-specific extraction is tried first; unmatched "other" URLs
// get a truncated base64 encoding, and anything else falls back to a
// timestamped id. Resolve never fails.
func Resolve(url, platform string) string {
	if strings.TrimSpace(url) == "" {
		return fallbackID()
	}

	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" {
		platform = DetectPlatform(url)
	}

	if re, ok := patterns[platform]; ok {
		if m := re.FindStringSubmatch(url); m != nil {
			return platform + "_" + m[1]
		}
	}

	// Try every known pattern in case the hint was wrong
	for _, name := range platformOrder {
		if name == platform {
			continue
		}
		if m := patterns[name].FindStringSubmatch(url); m != nil {
			return name + "_" + m[1]
		}
	}

	if platform == PlatformOther {
		enc := base64.RawURLEncoding.EncodeToString([]byte(url))
		if len(enc) > 24 {
			enc = enc[:24]
		}
		return "other_" + enc
	}

	return fallbackID()
}

// DetectPlatform guesses the platform from the URL host
func DetectPlatform(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return PlatformYouTube
	case strings.Contains(lower, "facebook.com"), strings.Contains(lower, "fb.watch"):
		return PlatformFacebook
	case strings.Contains(lower, "tiktok.com"):
		return PlatformTikTok
	case strings.Contains(lower, "instagram.com"):
		return PlatformInstagram
	case strings.Contains(lower, "vimeo.com"):
		return PlatformVimeo
	default:
		return PlatformOther
	}
}

// fallbackID builds a timestamped id with a random suffix. Collisions
// are possible in theory but treated as acceptable.
func fallbackID() string {
	return fmt.Sprintf("video_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
