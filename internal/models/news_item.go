package models

import (
	"fmt"
	"math/rand"
	"time"
)

// News item status values. WordPress "publish" maps to StatusPublished,
// everything else maps to StatusDraft.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// RelatedImage is the older parallel representation of additional images.
// It is kept in lockstep with AdditionalImages when items are merged.
type RelatedImage struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Alt   string `json:"alt"`
	Order int    `json:"order"`
}

// NewsItem is the canonical local representation of a news post. The JSON
// field names are the on-disk contract of the local store and must not
// change.
type NewsItem struct {
	ID               string         `json:"id"`
	WordPressID      int            `json:"wordpressId,omitempty"`
	Title            string         `json:"title"`
	Slug             string         `json:"slug"`
	Excerpt          string         `json:"excerpt"`
	Content          string         `json:"content"`
	Status           string         `json:"status"`
	FeaturedImage    string         `json:"featuredImage"`
	Image            string         `json:"image"`
	AdditionalImages []string       `json:"additionalImages"`
	RelatedImages    []RelatedImage `json:"relatedImages"`
	Author           string         `json:"author"`
	Category         string         `json:"category"`
	Tags             string         `json:"tags"`
	ImageAlt         string         `json:"imageAlt"`
	MetaTitle        string         `json:"metaTitle"`
	MetaDescription  string         `json:"metaDescription"`
	CreatedAt        string         `json:"createdAt"`
	UpdatedAt        string         `json:"updatedAt"`
	PublishedAt      string         `json:"publishedAt,omitempty"`
	LastSyncDate     string         `json:"lastSyncDate,omitempty"`
	SyncedToWP       bool           `json:"syncedToWordPress"`
}

// NewLocalID generates an ID for an item created on this side.
func NewLocalID() string {
	return fmt.Sprintf("news_%d_%06d", time.Now().UnixMilli(), rand.Intn(1000000))
}

// WordPressLocalID generates the ID used for items synthesized from a
// WordPress post.
func WordPressLocalID(wpID int) string {
	return fmt.Sprintf("wp_%d", wpID)
}
