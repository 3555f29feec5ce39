package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lta/newsbridge/internal/cache"
	"github.com/lta/newsbridge/internal/images"
	"github.com/lta/newsbridge/internal/logger"
	"github.com/lta/newsbridge/internal/models"
	"github.com/lta/newsbridge/internal/storage"
	"github.com/lta/newsbridge/internal/wordpress"
)

// ErrSyncInProgress means another sync run holds the guard lock.
var ErrSyncInProgress = errors.New("a sync is already in progress")

// syncLockTTL bounds how long a crashed sync can keep the guard held.
const syncLockTTL = 5 * time.Minute

// PostReader is the single-post surface of the REST client.
type PostReader interface {
	GetPost(ctx context.Context, id int) (*models.WPPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.WPPost, error)
}

// AttachmentLister resolves a post's media attachments. Failures degrade
// to an empty list inside the implementation.
type AttachmentLister interface {
	ListAttachments(ctx context.Context, postID int) []string
}

// RESTSource is the full read surface the syncer needs from the REST
// client.
type RESTSource interface {
	PostLister
	PostReader
	AttachmentLister
}

// Result is the structured outcome of one sync run. It is returned even on
// partial failure; only configuration, auth and exhaustion errors abort
// the run as a whole.
type Result struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	Transport    string   `json:"transport,omitempty"`
	SyncedCount  int      `json:"syncedCount"`
	UpdatedCount int      `json:"updatedCount"`
	ErrorCount   int      `json:"errorCount"`
	Errors       []string `json:"errors"`
}

// Syncer pulls posts from WordPress and reconciles them into the local
// store. Posts are processed strictly sequentially within one run; the
// guard keeps concurrent runs off the store.
type Syncer struct {
	rest   RESTSource
	ladder *Ladder
	store  storage.Store
	guard  cache.SyncGuard
	limit  int
}

// NewSyncer wires the sync pipeline. fallback may not be nil; pass the
// XML-RPC client.
func NewSyncer(rest RESTSource, fallback PostLister, store storage.Store, guard cache.SyncGuard, limit int) *Syncer {
	if limit <= 0 {
		limit = 50
	}
	return &Syncer{
		rest:   rest,
		ladder: NewLadder(rest, fallback),
		store:  store,
		guard:  guard,
		limit:  limit,
	}
}

// SyncFromWordPress runs one full pull: ladder fetch, per-post attachment
// resolution and normalization, merge into the local list, single save at
// the end. Per-post failures are collected and do not abort the batch.
func (s *Syncer) SyncFromWordPress(ctx context.Context) (*Result, error) {
	log := logger.Get()
	start := time.Now()

	locked, err := s.guard.TryLock(ctx, syncLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquiring sync lock: %w", err)
	}
	if !locked {
		return nil, ErrSyncInProgress
	}
	defer func() {
		if err := s.guard.Unlock(context.WithoutCancel(ctx)); err != nil {
			log.Error().Err(err).Msg("Error releasing sync lock")
		}
	}()

	posts, transport, err := s.ladder.FetchPosts(ctx, s.limit)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("post_count", len(posts)).
		Str("transport", transport).
		Msg("Fetched posts from WordPress")

	list, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading local news list: %w", err)
	}

	result := &Result{Transport: transport, Errors: []string{}}
	now := time.Now().UTC().Format(time.RFC3339)

	for _, post := range posts {
		updated, inserted, err := s.processPost(ctx, &list, post, now)
		if err != nil {
			procErr := &wordpress.PostProcessingError{
				PostID: post.ID,
				Title:  post.Title.Rendered,
				Err:    err,
			}
			log.Error().Err(procErr).Int("post_id", post.ID).Msg("Skipping post after processing error")
			result.ErrorCount++
			result.Errors = append(result.Errors, procErr.Error())
			continue
		}
		if inserted {
			result.SyncedCount++
		} else if updated {
			result.UpdatedCount++
		}
	}

	if err := s.store.Save(ctx, list); err != nil {
		return nil, fmt.Errorf("saving local news list: %w", err)
	}
	if err := s.guard.SetLastSync(ctx, time.Now()); err != nil {
		log.Warn().Err(err).Msg("Error recording last sync time")
	}

	result.Success = true
	result.Message = fmt.Sprintf("Synced %d new and %d updated posts from WordPress (%d errors)",
		result.SyncedCount, result.UpdatedCount, result.ErrorCount)

	log.Info().
		Int("synced", result.SyncedCount).
		Int("updated", result.UpdatedCount).
		Int("errors", result.ErrorCount).
		Dur("duration", time.Since(start)).
		Msg("Sync from WordPress finished")

	return result, nil
}

// processPost handles one post end to end. A panic inside normalization or
// merging is converted into a per-post error so the batch survives it.
func (s *Syncer) processPost(ctx context.Context, list *[]models.NewsItem, post models.WPPost, now string) (updated, inserted bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing post: %v", r)
		}
	}()

	attachments := s.rest.ListAttachments(ctx, post.ID)

	// The bulk path also mines the post body for embedded images; legacy
	// posts carry images in content instead of as attachments. The
	// single-post path deliberately does not do this.
	embedded := images.ExtractFromHTML(post.Content.Rendered)
	combined := images.DedupByIdentity(append(attachments, embedded...))

	item, err := NormalizePost(post, combined)
	if err != nil {
		return false, false, err
	}
	item.LastSyncDate = now

	*list, inserted = MergeIntoList(*list, item)
	return !inserted, inserted, nil
}

// FetchSingle fetches and normalizes one post for display without touching
// the local store. Only attachments feed the image list here; content
// scanning is a bulk-sync behavior.
func (s *Syncer) FetchSingle(ctx context.Context, wpID int) (*models.NewsItem, error) {
	post, err := s.rest.GetPost(ctx, wpID)
	if err != nil {
		return nil, err
	}
	return s.normalizeSingle(ctx, post)
}

// FetchSingleBySlug is FetchSingle keyed by slug.
func (s *Syncer) FetchSingleBySlug(ctx context.Context, slug string) (*models.NewsItem, error) {
	post, err := s.rest.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.normalizeSingle(ctx, post)
}

func (s *Syncer) normalizeSingle(ctx context.Context, post *models.WPPost) (*models.NewsItem, error) {
	attachments := s.rest.ListAttachments(ctx, post.ID)
	item, err := NormalizePost(*post, attachments)
	if err != nil {
		return nil, err
	}
	item.LastSyncDate = time.Now().UTC().Format(time.RFC3339)
	return &item, nil
}

// LastSync exposes the recorded completion time of the latest run.
func (s *Syncer) LastSync(ctx context.Context) (time.Time, error) {
	return s.guard.LastSync(ctx)
}
