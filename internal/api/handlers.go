package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lta/newsbridge/internal/config"
	"github.com/lta/newsbridge/internal/logger"
	"github.com/lta/newsbridge/internal/middleware"
	"github.com/lta/newsbridge/internal/models"
	"github.com/lta/newsbridge/internal/storage"
	newssync "github.com/lta/newsbridge/internal/sync"
	"github.com/lta/newsbridge/internal/wordpress"
)

type Handlers struct {
	config    *config.Config
	store     storage.Store
	syncer    *newssync.Syncer
	plugin    *wordpress.PluginClient
	validator *middleware.Validator
}

func NewHandlers(cfg *config.Config, store storage.Store, syncer *newssync.Syncer, plugin *wordpress.PluginClient) *Handlers {
	return &Handlers{
		config:    cfg,
		store:     store,
		syncer:    syncer,
		plugin:    plugin,
		validator: middleware.NewValidator(),
	}
}

// statusForError maps the sync/transport error taxonomy onto HTTP codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, wordpress.ErrConfiguration):
		return fiber.StatusBadRequest
	case errors.Is(err, wordpress.ErrAuthentication):
		return fiber.StatusUnauthorized
	case errors.Is(err, wordpress.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, wordpress.ErrDuplicateTitle):
		return fiber.StatusConflict
	case errors.Is(err, newssync.ErrSyncInProgress):
		return fiber.StatusConflict
	case errors.Is(err, wordpress.ErrAllTransportsExhausted):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// HealthCheck handles GET /api/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}
	if last, err := h.syncer.LastSync(c.Context()); err == nil && !last.IsZero() {
		resp["lastSync"] = last.UTC().Format(time.RFC3339)
	}
	return c.JSON(resp)
}

// ListNews handles GET /api/news
func (h *Handlers) ListNews(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	switch {
	case pageSize > 100:
		pageSize = 100
	case pageSize <= 0:
		pageSize = 20
	}

	items, err := h.store.Load(c.Context())
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error loading news list")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load news",
		})
	}

	start := (page - 1) * pageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	return c.JSON(fiber.Map{
		"page":      page,
		"page_size": pageSize,
		"total":     len(items),
		"items":     items[start:end],
	})
}

// GetNewsByID handles GET /api/news/:id. The fresh post is fetched and
// normalized straight from WordPress for display; the local store is only
// a fallback when the remote fetch fails, and is never mutated here.
func (h *Handlers) GetNewsByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "News ID is required",
		})
	}

	items, err := h.store.Load(c.Context())
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error loading news list")
		items = nil
	}

	wpID, local := h.resolveWordPressID(id, items)

	if wpID != 0 {
		item, err := h.syncer.FetchSingle(c.Context(), wpID)
		if err == nil {
			return c.JSON(item)
		}
		logger.Get().Warn().Err(err).Int("wordpress_id", wpID).Msg("Remote fetch failed, falling back to local store")
	}

	if local != nil {
		return c.JSON(local)
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "News not found",
	})
}

// resolveWordPressID accepts wp_<id>, a bare numeric WordPress ID, or a
// local news ID and returns the WordPress ID (0 when unknown) plus the
// matching local item when one exists.
func (h *Handlers) resolveWordPressID(id string, items []models.NewsItem) (int, *models.NewsItem) {
	if trimmed := strings.TrimPrefix(id, "wp_"); trimmed != id {
		if wpID, err := strconv.Atoi(trimmed); err == nil {
			if idx, ok := storage.FindByWordPressID(items, wpID); ok {
				return wpID, &items[idx]
			}
			return wpID, nil
		}
	}
	if wpID, err := strconv.Atoi(id); err == nil {
		if idx, ok := storage.FindByWordPressID(items, wpID); ok {
			return wpID, &items[idx]
		}
		return wpID, nil
	}
	if idx, ok := storage.FindByID(items, id); ok {
		return items[idx].WordPressID, &items[idx]
	}
	return 0, nil
}

// SyncFromWordPress handles POST /api/wordpress/sync-from. Partial failure
// still answers 200 with the error breakdown in the body.
func (h *Handlers) SyncFromWordPress(c *fiber.Ctx) error {
	result, err := h.syncer.SyncFromWordPress(c.Context())
	if err != nil {
		logger.Get().Error().Err(err).Msg("Sync from WordPress failed")
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(result)
}

// NewsPayload is the write-path request body.
type NewsPayload struct {
	Title            string   `json:"title" validate:"required"`
	Content          string   `json:"content" validate:"required"`
	Excerpt          string   `json:"excerpt"`
	Status           string   `json:"status" validate:"omitempty,oneof=draft published archived"`
	Category         string   `json:"category"`
	Tags             string   `json:"tags"`
	FeaturedImage    string   `json:"featuredImage" validate:"omitempty,url"`
	AdditionalImages []string `json:"additionalImages"`
	Slug             string   `json:"slug"`
	AuthorUsername   string   `json:"authorUsername"`
}

func (h *Handlers) parsePayload(c *fiber.Ctx) (*NewsPayload, error) {
	var payload NewsPayload
	if err := c.BodyParser(&payload); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
			"msg":   err.Error(),
		})
	}
	if err := h.validator.Validate(&payload); err != nil {
		return nil, c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": h.validator.FieldErrors(err),
		})
	}
	return &payload, nil
}

func pluginPayload(p *NewsPayload) wordpress.PostPayload {
	status := p.Status
	if status == models.StatusPublished {
		status = "publish"
	}
	return wordpress.PostPayload{
		Title:            p.Title,
		Content:          p.Content,
		Excerpt:          p.Excerpt,
		Status:           status,
		Category:         p.Category,
		Tags:             p.Tags,
		FeaturedImage:    p.FeaturedImage,
		AdditionalImages: p.AdditionalImages,
		Slug:             p.Slug,
		AuthorUsername:   p.AuthorUsername,
	}
}

// CreateNews handles POST /api/news. The write is delegated entirely to
// the WordPress plugin; the local store picks the post up on the next
// sync pull.
func (h *Handlers) CreateNews(c *fiber.Ctx) error {
	payload, err := h.parsePayload(c)
	if payload == nil {
		return err
	}

	result, err := h.plugin.CreatePost(c.Context(), pluginPayload(payload))
	if err != nil {
		logger.Get().Error().Err(err).Str("title", payload.Title).Msg("Plugin create failed")
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"wordpressId": result.PostID,
		"link":        result.Link,
	})
}

// UpdateNews handles PUT and PATCH /api/news/:id.
func (h *Handlers) UpdateNews(c *fiber.Ctx) error {
	wpID, resp := h.requireWordPressID(c)
	if wpID == 0 {
		return resp
	}

	payload, err := h.parsePayload(c)
	if payload == nil {
		return err
	}

	result, err := h.plugin.UpdatePost(c.Context(), wpID, pluginPayload(payload))
	if err != nil {
		logger.Get().Error().Err(err).Int("wordpress_id", wpID).Msg("Plugin update failed")
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"wordpressId": result.PostID,
		"link":        result.Link,
	})
}

// DeleteNews handles DELETE /api/news/:id. Deletion happens on the
// WordPress side only; the sync pull is the sole mutator of the local
// store.
func (h *Handlers) DeleteNews(c *fiber.Ctx) error {
	wpID, resp := h.requireWordPressID(c)
	if wpID == 0 {
		return resp
	}

	if err := h.plugin.DeletePost(c.Context(), wpID); err != nil {
		logger.Get().Error().Err(err).Int("wordpress_id", wpID).Msg("Plugin delete failed")
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "News item deleted from WordPress",
	})
}

// requireWordPressID resolves the path ID to a WordPress post ID. When it
// returns 0 the response has already been written.
func (h *Handlers) requireWordPressID(c *fiber.Ctx) (int, error) {
	id := c.Params("id")
	if id == "" {
		return 0, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "News ID is required",
		})
	}

	items, err := h.store.Load(c.Context())
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error loading news list")
		items = nil
	}

	wpID, _ := h.resolveWordPressID(id, items)
	if wpID == 0 {
		return 0, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No WordPress post is linked to this news item",
		})
	}
	return wpID, nil
}
