package sync

import (
	"fmt"

	"github.com/lta/newsbridge/internal/images"
	"github.com/lta/newsbridge/internal/models"
	"github.com/lta/newsbridge/internal/storage"
)

// MergeIntoList reconciles a normalized item against the local list,
// matching on wordpressId. It returns the updated list and whether the
// item was inserted (true) or merged into an existing entry (false).
//
// The image merge policy never regresses: a sync pass whose attachment
// fetch failed must not erase images learned on an earlier pass.
func MergeIntoList(list []models.NewsItem, incoming models.NewsItem) ([]models.NewsItem, bool) {
	idx, found := storage.FindByWordPressID(list, incoming.WordPressID)
	if !found {
		return append(list, incoming), true
	}

	existing := list[idx]
	merged := incoming

	// The local ID and creation time survive every merge.
	merged.ID = existing.ID
	if existing.CreatedAt != "" {
		merged.CreatedAt = existing.CreatedAt
	}

	merged.FeaturedImage = firstNonEmpty(incoming.FeaturedImage, existing.FeaturedImage)
	merged.Image = firstNonEmpty(incoming.Image, merged.FeaturedImage, existing.Image)
	merged.ImageAlt = firstNonEmpty(incoming.ImageAlt, existing.ImageAlt)
	merged.MetaTitle = firstNonEmpty(incoming.MetaTitle, existing.MetaTitle)
	merged.MetaDescription = firstNonEmpty(incoming.MetaDescription, existing.MetaDescription)

	merged.AdditionalImages = unionAdditional(existing.AdditionalImages, incoming.AdditionalImages, merged.FeaturedImage)
	merged.RelatedImages = unionRelated(existing.RelatedImages, incoming.RelatedImages, merged.AdditionalImages, incoming.WordPressID)

	list[idx] = merged
	return list, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// unionAdditional unions two image lists by normalized identity, existing
// order first, and keeps the featured image out of the result.
func unionAdditional(existing, incoming []string, featured string) []string {
	union := images.DedupByIdentity(append(append([]string{}, existing...), incoming...))
	out := make([]string, 0, len(union))
	for _, u := range union {
		if images.SameImage(u, featured) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// unionRelated unions the older parallel representation by literal URL,
// order preserved per source, then re-keys entries and repairs any gaps so
// relatedImages stays consistent with additionalImages.
func unionRelated(existing, incoming []models.RelatedImage, additional []string, wpID int) []models.RelatedImage {
	seen := make(map[string]struct{})
	var union []models.RelatedImage
	for _, r := range existing {
		if r.URL == "" {
			continue
		}
		if _, ok := seen[r.URL]; ok {
			continue
		}
		seen[r.URL] = struct{}{}
		union = append(union, r)
	}
	for _, r := range incoming {
		if r.URL == "" {
			continue
		}
		if _, ok := seen[r.URL]; ok {
			continue
		}
		seen[r.URL] = struct{}{}
		union = append(union, r)
	}

	// Any additional image not yet represented gets an entry.
	for _, u := range additional {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		union = append(union, models.RelatedImage{URL: u})
	}

	for i := range union {
		union[i].Order = i
		if union[i].ID == "" {
			union[i].ID = fmt.Sprintf("rel_%d_%d", wpID, i)
		}
	}
	return union
}
