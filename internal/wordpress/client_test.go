package wordpress

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(siteURL string) Config {
	return Config{SiteURL: siteURL, Username: "u", AppPassword: "p"}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, testConfig("https://wp.example.com").Validate())

	for _, cfg := range []Config{
		{Username: "u", AppPassword: "p"},
		{SiteURL: "https://wp.example.com", AppPassword: "p"},
		{SiteURL: "https://wp.example.com", Username: "u"},
		{},
	} {
		assert.ErrorIs(t, cfg.Validate(), ErrConfiguration)
	}
}

func TestNewClientRejectsIncompleteConfig(t *testing.T) {
	_, err := NewClient(Config{SiteURL: "https://wp.example.com"})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestListPostsSendsBasicAuthAndEmbed(t *testing.T) {
	var gotAuth, gotEmbed, gotPerPage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotEmbed = r.URL.Query().Get("_embed")
		gotPerPage = r.URL.Query().Get("per_page")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 10, "slug": "hello", "status": "publish", "title": {"rendered": "Hello"}}]`))
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	posts, err := c.ListPosts(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 10, posts[0].ID)
	assert.Equal(t, "Hello", posts[0].Title.Rendered)

	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("u:p"))
	assert.Equal(t, expected, gotAuth)
	assert.Equal(t, "1", gotEmbed)
	assert.Equal(t, "25", gotPerPage)
}

func TestListPostsEmptyArrayIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	posts, err := c.ListPosts(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestListPostsStatusPolicy(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrAuthentication},
		{http.StatusForbidden, ErrTransportBlocked},
		{http.StatusNotFound, ErrNotFound},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		c, err := NewClient(testConfig(srv.URL))
		require.NoError(t, err)

		_, err = c.ListPosts(context.Background(), 10)
		assert.ErrorIs(t, err, tc.want, "status %d", tc.status)
		srv.Close()
	}
}

func TestGetPostBySlugTakesFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "hello", r.URL.Query().Get("slug"))
		w.Write([]byte(`[{"id": 3, "slug": "hello"}, {"id": 4, "slug": "hello"}]`))
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	post, err := c.GetPostBySlug(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 3, post.ID)
}

func TestGetPostBySlugEmptyIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	_, err = c.GetPostBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAttachmentsFiltersAndDedups(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("parent"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		w.Write([]byte(`[
			{"id": 1, "parent": 10, "source_url": "https://wp.example.com/photo.jpg"},
			{"id": 2, "parent": 10, "source_url": "https://wp.example.com/photo-300x200.jpg"},
			{"id": 3, "parent": 10, "source_url": "https://wp.example.com/logo.svg"},
			{"id": 4, "parent": 10, "source_url": "https://wp.example.com/wp-includes/blank.gif"},
			{"id": 5, "parent": 10, "source_url": "https://wp.example.com/second.png"}
		]`))
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	urls := c.ListAttachments(context.Background(), 10)
	assert.Equal(t, []string{
		"https://wp.example.com/photo.jpg",
		"https://wp.example.com/second.png",
	}, urls)
}

func TestListAttachmentsDegradesToEmptyOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	assert.Empty(t, c.ListAttachments(context.Background(), 10))
}
