package sync

import (
	"fmt"
	"strings"

	"github.com/lta/newsbridge/internal/images"
	"github.com/lta/newsbridge/internal/models"
)

// NormalizePost converts a raw WordPress post plus its resolved attachment
// URLs into the canonical NewsItem shape. It is pure: all I/O (post fetch,
// attachment resolution) happens before it.
func NormalizePost(post models.WPPost, attachments []string) (models.NewsItem, error) {
	if post.ID == 0 {
		return models.NewsItem{}, fmt.Errorf("post has no WordPress ID")
	}

	featured, featuredAlt := featuredImage(post)

	// The featured image must never reappear among the additional images,
	// including as a thumbnail or scaled variant of itself.
	additional := make([]string, 0, len(attachments))
	for _, u := range images.DedupByIdentity(attachments) {
		if images.SameImage(u, featured) {
			continue
		}
		additional = append(additional, u)
	}

	status := models.StatusDraft
	if post.Status == "publish" {
		status = models.StatusPublished
	}

	createdAt := post.Date
	updatedAt := post.Modified
	if updatedAt == "" {
		updatedAt = post.Date
	}
	publishedAt := ""
	if status == models.StatusPublished {
		publishedAt = post.Date
	}

	category, tags := terms(post)

	item := models.NewsItem{
		ID:               models.WordPressLocalID(post.ID),
		WordPressID:      post.ID,
		Title:            post.Title.Rendered,
		Slug:             post.Slug,
		Excerpt:          strings.TrimSpace(post.Excerpt.Rendered),
		Content:          post.Content.Rendered,
		Status:           status,
		FeaturedImage:    featured,
		Image:            featured,
		AdditionalImages: additional,
		RelatedImages:    relatedFromURLs(post.ID, additional, featuredAlt),
		Author:           authorName(post),
		Category:         category,
		Tags:             tags,
		ImageAlt:         featuredAlt,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
		PublishedAt:      publishedAt,
		SyncedToWP:       true,
	}
	return item, nil
}

func featuredImage(post models.WPPost) (url, alt string) {
	if post.Embedded == nil || len(post.Embedded.FeaturedMedia) == 0 {
		return "", ""
	}
	media := post.Embedded.FeaturedMedia[0]
	return media.SourceURL, media.AltText
}

// authorName resolves the display name through the chain of places
// WordPress installations put it, ending in a literal fallback.
func authorName(post models.WPPost) string {
	var embedded *models.WPAuthor
	if post.Embedded != nil && len(post.Embedded.Author) > 0 {
		embedded = &post.Embedded.Author[0]
	}
	if embedded != nil {
		if embedded.Name != "" {
			return embedded.Name
		}
		if embedded.DisplayName != "" {
			return embedded.DisplayName
		}
	}
	if post.AuthorInfo != nil && post.AuthorInfo.DisplayName != "" {
		return post.AuthorInfo.DisplayName
	}
	if embedded != nil && embedded.Slug != "" {
		return embedded.Slug
	}
	return "WordPress"
}

// terms derives category and tags from the embedded wp:term groups. The
// first group carries categories, the second carries tags.
func terms(post models.WPPost) (category, tags string) {
	if post.Embedded == nil || len(post.Embedded.Terms) == 0 {
		return "", ""
	}
	groups := post.Embedded.Terms
	if len(groups[0]) > 0 {
		category = groups[0][0].Name
	}
	if len(groups) > 1 {
		names := make([]string, 0, len(groups[1]))
		for _, t := range groups[1] {
			if t.Name != "" {
				names = append(names, t.Name)
			}
		}
		tags = strings.Join(names, ", ")
	}
	return category, tags
}

func relatedFromURLs(wpID int, urls []string, alt string) []models.RelatedImage {
	related := make([]models.RelatedImage, 0, len(urls))
	for i, u := range urls {
		related = append(related, models.RelatedImage{
			ID:    fmt.Sprintf("rel_%d_%d", wpID, i),
			URL:   u,
			Alt:   alt,
			Order: i,
		})
	}
	return related
}
