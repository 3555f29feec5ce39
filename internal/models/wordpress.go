package models

// Rendered is WordPress's {"rendered": "..."} wrapper used for title,
// content and excerpt fields.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// WPAuthor is an embedded author entry from _embedded.author.
type WPAuthor struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Slug        string `json:"slug"`
}

// WPMedia is a media item from /wp-json/wp/v2/media or an embedded
// wp:featuredmedia entry.
type WPMedia struct {
	ID        int    `json:"id"`
	Parent    int    `json:"parent"`
	SourceURL string `json:"source_url"`
	AltText   string `json:"alt_text"`
	MimeType  string `json:"mime_type"`
}

// WPTerm is a taxonomy term from _embedded["wp:term"].
type WPTerm struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Taxonomy string `json:"taxonomy"`
}

// WPEmbedded carries the _embed=1 payload of a post response.
type WPEmbedded struct {
	Author        []WPAuthor `json:"author"`
	FeaturedMedia []WPMedia  `json:"wp:featuredmedia"`
	Terms         [][]WPTerm `json:"wp:term"`
}

// WPAuthorInfo is the non-embedded author block some installations attach
// to the post object itself.
type WPAuthorInfo struct {
	DisplayName string `json:"display_name"`
}

// WPPost is a raw post object from the WordPress REST API. Posts recovered
// over XML-RPC are converted into this shape before normalization so the
// rest of the pipeline only ever sees one format.
type WPPost struct {
	ID         int           `json:"id"`
	Date       string        `json:"date"`
	Modified   string        `json:"modified"`
	Slug       string        `json:"slug"`
	Status     string        `json:"status"`
	Link       string        `json:"link"`
	Title      Rendered      `json:"title"`
	Content    Rendered      `json:"content"`
	Excerpt    Rendered      `json:"excerpt"`
	AuthorInfo *WPAuthorInfo `json:"author_info,omitempty"`
	Embedded   *WPEmbedded   `json:"_embedded,omitempty"`
}
