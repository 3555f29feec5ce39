package images

import "regexp"

var imgSrcRe = regexp.MustCompile(`(?is)<img[^>]+src\s*=\s*["']([^"']+)["']`)

// ExtractFromHTML returns the image URLs embedded in raw HTML content, in
// document order, deduplicated by literal URL. Icon, emoji and SVG chrome
// assets are excluded. Legacy posts embed images directly in content
// instead of attaching them; this recovers those.
func ExtractFromHTML(html string) []string {
	if html == "" {
		return nil
	}
	matches := imgSrcRe.FindAllStringSubmatch(html, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		u := m[1]
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		if !IsContentImage(u) {
			continue
		}
		out = append(out, u)
	}
	return out
}
