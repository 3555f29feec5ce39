package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lta/newsbridge/internal/images"
	"github.com/lta/newsbridge/internal/logger"
	"github.com/lta/newsbridge/internal/models"
)

// Config holds the connection settings for one WordPress site.
type Config struct {
	SiteURL     string
	Username    string
	AppPassword string
}

// Validate checks that all three connection fields are present. It must be
// called before any network activity.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.SiteURL) == "" {
		missing = append(missing, "site URL")
	}
	if strings.TrimSpace(c.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(c.AppPassword) == "" {
		missing = append(missing, "application password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// Client talks to a WordPress site over its REST API with Basic-Auth
// application-password credentials.
type Client struct {
	cfg         Config
	rest        *resty.Client
	listTimeout time.Duration
	postTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeouts overrides the listing and single-post timeouts.
func WithTimeouts(list, post time.Duration) Option {
	return func(c *Client) {
		if list > 0 {
			c.listTimeout = list
		}
		if post > 0 {
			c.postTimeout = post
		}
	}
}

// NewClient builds a REST client for the given site. The configuration is
// validated up front so a misconfigured site fails before any request.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:         cfg,
		listTimeout: 15 * time.Second,
		postTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.rest = resty.New().
		SetBaseURL(strings.TrimRight(cfg.SiteURL, "/")).
		SetBasicAuth(cfg.Username, cfg.AppPassword).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)

	return c, nil
}

// SiteURL returns the configured site URL without a trailing slash.
func (c *Client) SiteURL() string {
	return strings.TrimRight(c.cfg.SiteURL, "/")
}

// classifyStatus maps a WordPress response code to the error taxonomy.
// 2xx is success; an empty result body is a valid outcome, not an error.
func classifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return ErrAuthentication
	case code == http.StatusForbidden:
		return ErrTransportBlocked
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("unexpected status %d from WordPress", code)
	}
}

// ListPosts fetches up to limit posts with embedded author, featured media
// and term data. An empty slice is a successful result.
func (c *Client) ListPosts(ctx context.Context, limit int) ([]models.WPPost, error) {
	if limit <= 0 {
		limit = 50
	}

	ctx, cancel := context.WithTimeout(ctx, c.listTimeout)
	defer cancel()

	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"_embed":   "1",
			"per_page": strconv.Itoa(limit),
		}).
		Get("/wp-json/wp/v2/posts")
	if err != nil {
		return nil, fmt.Errorf("fetching posts from %s: %w", c.SiteURL(), err)
	}
	if err := classifyStatus(resp.StatusCode()); err != nil {
		return nil, err
	}

	var posts []models.WPPost
	if err := json.Unmarshal(resp.Body(), &posts); err != nil {
		return nil, fmt.Errorf("parsing posts response: %w", err)
	}
	return posts, nil
}

// GetPost fetches a single post by its WordPress ID.
func (c *Client) GetPost(ctx context.Context, id int) (*models.WPPost, error) {
	ctx, cancel := context.WithTimeout(ctx, c.postTimeout)
	defer cancel()

	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("_embed", "1").
		Get(fmt.Sprintf("/wp-json/wp/v2/posts/%d", id))
	if err != nil {
		return nil, fmt.Errorf("fetching post %d: %w", id, err)
	}
	if err := classifyStatus(resp.StatusCode()); err != nil {
		return nil, err
	}

	var post models.WPPost
	if err := json.Unmarshal(resp.Body(), &post); err != nil {
		return nil, fmt.Errorf("parsing post response: %w", err)
	}
	return &post, nil
}

// GetPostBySlug looks a post up by slug. WordPress answers slug queries
// with an array; the first entry wins.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) (*models.WPPost, error) {
	ctx, cancel := context.WithTimeout(ctx, c.postTimeout)
	defer cancel()

	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"slug":   slug,
			"_embed": "1",
		}).
		Get("/wp-json/wp/v2/posts")
	if err != nil {
		return nil, fmt.Errorf("fetching post by slug %q: %w", slug, err)
	}
	if err := classifyStatus(resp.StatusCode()); err != nil {
		return nil, err
	}

	var posts []models.WPPost
	if err := json.Unmarshal(resp.Body(), &posts); err != nil {
		return nil, fmt.Errorf("parsing slug response: %w", err)
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("%w: no post with slug %q", ErrNotFound, slug)
	}
	return &posts[0], nil
}

// ListAttachments returns the content-image URLs attached to a post,
// filtered of chrome assets and deduplicated by image identity. A fetch
// failure degrades to an empty list; losing attachments for one pass must
// never abort a sync.
func (c *Client) ListAttachments(ctx context.Context, postID int) []string {
	ctx, cancel := context.WithTimeout(ctx, c.listTimeout)
	defer cancel()

	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"parent":   strconv.Itoa(postID),
			"per_page": "100",
		}).
		Get("/wp-json/wp/v2/media")
	if err == nil {
		if stErr := classifyStatus(resp.StatusCode()); stErr != nil {
			err = stErr
		}
	}
	if err != nil {
		attErr := &AttachmentFetchError{PostID: postID, Err: err}
		logger.Get().Warn().Err(attErr).Int("post_id", postID).Msg("Attachment fetch failed, continuing without attachments")
		return nil
	}

	var media []models.WPMedia
	if err := json.Unmarshal(resp.Body(), &media); err != nil {
		logger.Get().Warn().Err(err).Int("post_id", postID).Msg("Attachment response unparseable, continuing without attachments")
		return nil
	}

	urls := make([]string, 0, len(media))
	for _, m := range media {
		if m.SourceURL == "" || !images.IsContentImage(m.SourceURL) {
			continue
		}
		urls = append(urls, m.SourceURL)
	}
	return images.DedupByIdentity(urls)
}
