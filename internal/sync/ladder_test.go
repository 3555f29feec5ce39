package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/lta/newsbridge/internal/models"
	"github.com/lta/newsbridge/internal/wordpress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	posts []models.WPPost
	err   error
	calls int
}

func (f *fakeLister) ListPosts(ctx context.Context, limit int) ([]models.WPPost, error) {
	f.calls++
	return f.posts, f.err
}

func TestLadderRESTSuccessShortCircuits(t *testing.T) {
	rest := &fakeLister{posts: []models.WPPost{{ID: 1}}}
	fallback := &fakeLister{}

	posts, transport, err := NewLadder(rest, fallback).FetchPosts(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, TransportREST, transport)
	assert.Len(t, posts, 1)
	assert.Zero(t, fallback.calls)
}

func TestLadderEmptyResultIsSuccess(t *testing.T) {
	rest := &fakeLister{posts: []models.WPPost{}}
	fallback := &fakeLister{}

	posts, transport, err := NewLadder(rest, fallback).FetchPosts(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, TransportREST, transport)
	assert.Empty(t, posts)
	assert.Zero(t, fallback.calls)
}

func TestLadderFallsBackOnBlockedREST(t *testing.T) {
	rest := &fakeLister{err: wordpress.ErrTransportBlocked}
	fallback := &fakeLister{posts: []models.WPPost{{ID: 2}}}

	posts, transport, err := NewLadder(rest, fallback).FetchPosts(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, TransportXMLRPC, transport)
	assert.Len(t, posts, 1)
	assert.Equal(t, 1, rest.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestLadderAuthFailureIsTerminal(t *testing.T) {
	rest := &fakeLister{err: wordpress.ErrAuthentication}
	fallback := &fakeLister{posts: []models.WPPost{{ID: 2}}}

	_, _, err := NewLadder(rest, fallback).FetchPosts(context.Background(), 10)
	assert.ErrorIs(t, err, wordpress.ErrAuthentication)
	assert.Zero(t, fallback.calls, "XML-RPC must not be probed after a 401")
}

func TestLadderNotFoundIsTerminal(t *testing.T) {
	rest := &fakeLister{err: wordpress.ErrNotFound}
	fallback := &fakeLister{}

	_, _, err := NewLadder(rest, fallback).FetchPosts(context.Background(), 10)
	assert.ErrorIs(t, err, wordpress.ErrNotFound)
	assert.Zero(t, fallback.calls)
}

func TestLadderExhaustion(t *testing.T) {
	rest := &fakeLister{err: wordpress.ErrTransportBlocked}
	fallback := &fakeLister{err: errors.New("connection refused")}

	_, _, err := NewLadder(rest, fallback).FetchPosts(context.Background(), 10)
	assert.ErrorIs(t, err, wordpress.ErrAllTransportsExhausted)
}

func TestLadderXMLRPCAuthFailureIsTerminal(t *testing.T) {
	rest := &fakeLister{err: wordpress.ErrTransportBlocked}
	fallback := &fakeLister{err: wordpress.ErrAuthentication}

	_, _, err := NewLadder(rest, fallback).FetchPosts(context.Background(), 10)
	assert.ErrorIs(t, err, wordpress.ErrAuthentication)
}
