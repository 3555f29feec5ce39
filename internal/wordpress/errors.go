package wordpress

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions that carry no extra payload. Callers
// classify with errors.Is.
var (
	// ErrConfiguration means the WordPress connection settings are
	// incomplete; nothing was sent over the network.
	ErrConfiguration = errors.New("wordpress configuration is incomplete")

	// ErrAuthentication is a 401 from any transport. Credentials are wrong
	// regardless of transport, so no fallback is attempted.
	ErrAuthentication = errors.New("wordpress rejected the credentials")

	// ErrNotFound is a 404 from the REST probe (bad site URL) or a missing
	// post/slug.
	ErrNotFound = errors.New("wordpress resource not found")

	// ErrTransportBlocked is a 403 from the REST API, typically a hosting
	// provider blocking wp-json. It triggers the XML-RPC fallback.
	ErrTransportBlocked = errors.New("wordpress REST API is blocked")

	// ErrAllTransportsExhausted means every fallback transport failed.
	ErrAllTransportsExhausted = errors.New("REST API and XML-RPC are both blocked by the hosting provider")

	// ErrDuplicateTitle is returned by the plugin write path when a post
	// with the same title already exists.
	ErrDuplicateTitle = errors.New("a post with this title already exists")
)

// AttachmentFetchError wraps a failure to list a post's media. It is never
// fatal to a sync; callers degrade to an empty attachment list.
type AttachmentFetchError struct {
	PostID int
	Err    error
}

func (e *AttachmentFetchError) Error() string {
	return fmt.Sprintf("fetching attachments for post %d: %v", e.PostID, e.Err)
}

func (e *AttachmentFetchError) Unwrap() error { return e.Err }

// PostProcessingError records a failure to normalize or merge one post
// within a batch. The batch continues past it.
type PostProcessingError struct {
	PostID int
	Title  string
	Err    error
}

func (e *PostProcessingError) Error() string {
	return fmt.Sprintf("processing post %d (%q): %v", e.PostID, e.Title, e.Err)
}

func (e *PostProcessingError) Unwrap() error { return e.Err }
