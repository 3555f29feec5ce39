package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/lta/newsbridge/internal/logger"
	"github.com/lta/newsbridge/internal/models"
	"github.com/lta/newsbridge/internal/wordpress"
)

// Transport names reported in sync results.
const (
	TransportREST   = "rest"
	TransportXMLRPC = "xmlrpc"
)

// PostLister yields raw posts over one transport.
type PostLister interface {
	ListPosts(ctx context.Context, limit int) ([]models.WPPost, error)
}

// ladderState tracks which transport the ladder is on. The progression is
// REST, then XML-RPC, then exhausted; at most one transport yields data
// per invocation.
type ladderState int

const (
	tryingREST ladderState = iota
	tryingXMLRPC
	exhausted
)

// Ladder probes transports in priority order and short-circuits on the
// first one that yields posts.
//
// A 401 or 404 from REST is terminal without trying alternates: wrong
// credentials are wrong on every transport, and a missing wp-json means
// the site URL itself is bad. A 403 means the host blocked the REST API,
// which is exactly what the XML-RPC fallback exists for; transient
// transport failures (timeouts, network errors) also fall through to it.
type Ladder struct {
	rest     PostLister
	fallback PostLister
}

// NewLadder builds the read ladder over the REST and XML-RPC transports.
func NewLadder(rest, fallback PostLister) *Ladder {
	return &Ladder{rest: rest, fallback: fallback}
}

// FetchPosts runs the ladder and returns the posts together with the name
// of the transport that produced them.
func (l *Ladder) FetchPosts(ctx context.Context, limit int) ([]models.WPPost, string, error) {
	log := logger.Get()
	state := tryingREST
	var restErr error

	for {
		switch state {
		case tryingREST:
			posts, err := l.rest.ListPosts(ctx, limit)
			if err == nil {
				return posts, TransportREST, nil
			}
			if errors.Is(err, wordpress.ErrAuthentication) ||
				errors.Is(err, wordpress.ErrNotFound) ||
				errors.Is(err, wordpress.ErrConfiguration) {
				return nil, "", err
			}
			log.Warn().Err(err).Msg("REST transport failed, falling back to XML-RPC")
			restErr = err
			state = tryingXMLRPC

		case tryingXMLRPC:
			posts, err := l.fallback.ListPosts(ctx, limit)
			if err == nil {
				return posts, TransportXMLRPC, nil
			}
			if errors.Is(err, wordpress.ErrAuthentication) {
				return nil, "", err
			}
			log.Warn().Err(err).Msg("XML-RPC transport failed")
			state = exhausted

		case exhausted:
			return nil, "", fmt.Errorf("%w (REST: %v)", wordpress.ErrAllTransportsExhausted, restErr)
		}
	}
}
