package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// KeyProvider supplies the plugin API key. The concrete implementation is
// the TTL key cache; tests inject a fixed key.
type KeyProvider interface {
	Get(ctx context.Context) (string, error)
}

// PluginClient drives the LTA companion plugin's admin-ajax endpoints.
// This is the write path: creating, updating and deleting posts. Reads go
// through the REST client and never through here.
type PluginClient struct {
	rest    *resty.Client
	keys    KeyProvider
	timeout time.Duration
}

// NewPluginClient builds the write-path client. siteURL is the WordPress
// site root; keys provides the decrypted plugin API key.
func NewPluginClient(siteURL string, keys KeyProvider, timeout time.Duration) *PluginClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &PluginClient{
		rest:    resty.New().SetBaseURL(trimSlash(siteURL)),
		keys:    keys,
		timeout: timeout,
	}
}

// PostPayload is the body of a create or update request.
type PostPayload struct {
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	Excerpt          string   `json:"excerpt,omitempty"`
	Status           string   `json:"status,omitempty"`
	Category         string   `json:"category,omitempty"`
	Tags             string   `json:"tags,omitempty"`
	FeaturedImage    string   `json:"featuredImage,omitempty"`
	AdditionalImages []string `json:"additionalImages,omitempty"`
	Slug             string   `json:"slug,omitempty"`
	AuthorUsername   string   `json:"authorUsername,omitempty"`
}

// PostResult is the plugin's answer to a successful create or update.
type PostResult struct {
	PostID int    `json:"postId"`
	Link   string `json:"link"`
}

type pluginResponse struct {
	Success bool   `json:"success"`
	PostID  int    `json:"postId"`
	Link    string `json:"link"`
	Error   string `json:"error"`
}

// call issues one admin-ajax request with the API key injected into the
// body and maps plugin-reported errors onto the taxonomy.
func (p *PluginClient) call(ctx context.Context, action string, body map[string]any) (*pluginResponse, error) {
	key, err := p.keys.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtaining plugin API key: %w", err)
	}
	body["apiKey"] = key

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("action", action).
		SetBody(body).
		Post("/wp-admin/admin-ajax.php")
	if err != nil {
		return nil, fmt.Errorf("calling plugin action %s: %w", action, err)
	}
	if code := resp.StatusCode(); code == 401 {
		return nil, ErrAuthentication
	} else if code < 200 || code >= 300 {
		return nil, fmt.Errorf("plugin action %s returned status %d", action, code)
	}

	var out pluginResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("parsing plugin response: %w", err)
	}
	if out.Error != "" {
		if strings.Contains(strings.ToLower(out.Error), "title already exists") {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTitle, out.Error)
		}
		return nil, fmt.Errorf("plugin action %s failed: %s", action, out.Error)
	}
	if !out.Success {
		return nil, fmt.Errorf("plugin action %s reported failure without detail", action)
	}
	return &out, nil
}

// CreatePost publishes a new post through the plugin. A duplicate title is
// reported as ErrDuplicateTitle so callers can prompt for a new one.
func (p *PluginClient) CreatePost(ctx context.Context, payload PostPayload) (*PostResult, error) {
	body := payloadBody(payload)
	out, err := p.call(ctx, "lta_news_create", body)
	if err != nil {
		return nil, err
	}
	return &PostResult{PostID: out.PostID, Link: out.Link}, nil
}

// UpdatePost updates an existing post identified by its WordPress ID.
func (p *PluginClient) UpdatePost(ctx context.Context, wordpressID int, payload PostPayload) (*PostResult, error) {
	body := payloadBody(payload)
	body["wordpressId"] = wordpressID
	out, err := p.call(ctx, "lta_news_update", body)
	if err != nil {
		return nil, err
	}
	return &PostResult{PostID: out.PostID, Link: out.Link}, nil
}

// DeletePost removes a post identified by its WordPress ID.
func (p *PluginClient) DeletePost(ctx context.Context, wordpressID int) error {
	_, err := p.call(ctx, "lta_news_delete", map[string]any{"wordpressId": wordpressID})
	return err
}

func payloadBody(payload PostPayload) map[string]any {
	body := map[string]any{
		"title":   payload.Title,
		"content": payload.Content,
	}
	if payload.Excerpt != "" {
		body["excerpt"] = payload.Excerpt
	}
	if payload.Status != "" {
		body["status"] = payload.Status
	}
	if payload.Category != "" {
		body["category"] = payload.Category
	}
	if payload.Tags != "" {
		body["tags"] = payload.Tags
	}
	if payload.FeaturedImage != "" {
		body["featuredImage"] = payload.FeaturedImage
	}
	if len(payload.AdditionalImages) > 0 {
		body["additionalImages"] = payload.AdditionalImages
	}
	if payload.Slug != "" {
		body["slug"] = payload.Slug
	}
	if payload.AuthorUsername != "" {
		body["authorUsername"] = payload.AuthorUsername
	}
	return body
}
