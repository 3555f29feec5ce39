// Package images holds the image identity rules used when reconciling
// WordPress media with locally known images. WordPress serves the same
// picture under many URLs (thumbnails, scaled variants); two URLs with the
// same identity are treated as the same image.
package images

import (
	"regexp"
	"strings"
)

var (
	extensionRe = regexp.MustCompile(`(?i)\.[a-z0-9]{2,5}$`)
	sizeRe      = regexp.MustCompile(`-\d+x\d+$`)
	scaledRe    = regexp.MustCompile(`(?i)-scaled$`)
)

// Identity normalizes a URL to its image identity: query string stripped,
// file extension stripped, WordPress size suffix (-{w}x{h}) stripped,
// -scaled suffix stripped, lowercased. photo.jpg, photo-300x200.jpg and
// photo-scaled.jpg all share one identity.
func Identity(rawURL string) string {
	s := rawURL
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	s = extensionRe.ReplaceAllString(s, "")
	s = sizeRe.ReplaceAllString(s, "")
	s = scaledRe.ReplaceAllString(s, "")
	return strings.ToLower(s)
}

// SameImage reports whether two URLs resolve to the same image identity.
func SameImage(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return Identity(a) == Identity(b)
}

// IsContentImage reports whether a URL looks like a genuine content image
// rather than WordPress chrome (icons, emoji, theme assets).
func IsContentImage(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	lower := strings.ToLower(rawURL)
	switch {
	case strings.HasPrefix(lower, "data:image/svg"):
		return false
	case strings.HasSuffix(strings.TrimRight(lowerPath(lower), "/"), ".svg"):
		return false
	case strings.Contains(lower, "emoji"):
		return false
	case strings.Contains(lower, "wp-includes"):
		return false
	case strings.Contains(lower, "icon"):
		return false
	}
	return true
}

// lowerPath drops the query string so ".svg" detection is not fooled by
// query parameters.
func lowerPath(lower string) string {
	if i := strings.IndexByte(lower, '?'); i >= 0 {
		return lower[:i]
	}
	return lower
}

// DedupByIdentity keeps the first-seen literal URL for each identity,
// preserving order.
func DedupByIdentity(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		id := Identity(u)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, u)
	}
	return out
}
