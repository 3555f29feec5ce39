package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticKey string

func (s staticKey) Get(ctx context.Context) (string, error) {
	if s == "" {
		return "", errors.New("no key configured")
	}
	return string(s), nil
}

func TestPluginCreatePost(t *testing.T) {
	var gotAction string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-admin/admin-ajax.php", r.URL.Path)
		gotAction = r.URL.Query().Get("action")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"success": true, "postId": 77, "link": "https://wp.example.com/?p=77"}`))
	}))
	defer srv.Close()

	p := NewPluginClient(srv.URL, staticKey("secret-key"), 0)
	result, err := p.CreatePost(context.Background(), PostPayload{
		Title:   "New post",
		Content: "<p>body</p>",
		Status:  "publish",
	})
	require.NoError(t, err)

	assert.Equal(t, 77, result.PostID)
	assert.Equal(t, "https://wp.example.com/?p=77", result.Link)
	assert.Equal(t, "lta_news_create", gotAction)
	assert.Equal(t, "secret-key", gotBody["apiKey"])
	assert.Equal(t, "New post", gotBody["title"])
	assert.Equal(t, "publish", gotBody["status"])
}

func TestPluginDuplicateTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "A post with this title already exists"}`))
	}))
	defer srv.Close()

	p := NewPluginClient(srv.URL, staticKey("k"), 0)
	_, err := p.CreatePost(context.Background(), PostPayload{Title: "Dup", Content: "x"})
	assert.ErrorIs(t, err, ErrDuplicateTitle)
}

func TestPluginUpdateSendsWordPressID(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lta_news_update", r.URL.Query().Get("action"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"success": true, "postId": 42}`))
	}))
	defer srv.Close()

	p := NewPluginClient(srv.URL, staticKey("k"), 0)
	_, err := p.UpdatePost(context.Background(), 42, PostPayload{Title: "T", Content: "C"})
	require.NoError(t, err)
	assert.Equal(t, float64(42), gotBody["wordpressId"])
}

func TestPluginDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lta_news_delete", r.URL.Query().Get("action"))
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	p := NewPluginClient(srv.URL, staticKey("k"), 0)
	assert.NoError(t, p.DeletePost(context.Background(), 42))
}

func TestPluginErrorWithoutDuplicateMarker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "something else went wrong"}`))
	}))
	defer srv.Close()

	p := NewPluginClient(srv.URL, staticKey("k"), 0)
	_, err := p.CreatePost(context.Background(), PostPayload{Title: "T", Content: "C"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateTitle)
}

func TestPluginKeyFailureShortCircuits(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	p := NewPluginClient(srv.URL, staticKey(""), 0)
	_, err := p.CreatePost(context.Background(), PostPayload{Title: "T", Content: "C"})
	assert.Error(t, err)
	assert.False(t, called, "no request may be sent without an API key")
}
