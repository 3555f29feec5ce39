package wordpress

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xmlrpcPostsResponse = `<?xml version="1.0"?>
<methodResponse>
  <params>
    <param>
      <value>
        <array>
          <data>
            <value>
              <struct>
                <member><name>post_id</name><value><string>123</string></value></member>
                <member><name>post_title</name><value><string>Hello from XML-RPC</string></value></member>
                <member><name>post_content</name><value><string>&lt;p&gt;Body&lt;/p&gt;</string></value></member>
                <member><name>post_status</name><value><string>publish</string></value></member>
                <member><name>post_date</name><value><string>20240101T00:00:00</string></value></member>
              </struct>
            </value>
            <value>
              <struct>
                <member><name>post_id</name><value>456</value></member>
                <member><name>post_title</name><value>Bare value title</value></member>
                <member><name>post_status</name><value>draft</value></member>
              </struct>
            </value>
          </data>
        </array>
      </value>
    </param>
  </params>
</methodResponse>`

const xmlrpcAuthFault = `<?xml version="1.0"?>
<methodResponse>
  <fault>
    <value>
      <struct>
        <member><name>faultCode</name><value><int>403</int></value></member>
        <member><name>faultString</name><value><string>Incorrect username or password.</string></value></member>
      </struct>
    </value>
  </fault>
</methodResponse>`

func TestXMLRPCListPosts(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/xmlrpc.php", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(xmlrpcPostsResponse))
	}))
	defer srv.Close()

	c, err := NewXMLRPCClient(testConfig(srv.URL), 0)
	require.NoError(t, err)

	posts, err := c.ListPosts(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, 123, posts[0].ID)
	assert.Equal(t, "Hello from XML-RPC", posts[0].Title.Rendered)
	assert.Equal(t, "<p>Body</p>", posts[0].Content.Rendered)
	assert.Equal(t, "publish", posts[0].Status)

	// Untyped scalar values are still extracted.
	assert.Equal(t, 456, posts[1].ID)
	assert.Equal(t, "Bare value title", posts[1].Title.Rendered)
	assert.Equal(t, "draft", posts[1].Status)

	// The request carries the method name and credentials.
	assert.Contains(t, gotBody, "wp.getPosts")
	assert.Contains(t, gotBody, "<string>u</string>")
	assert.Contains(t, gotBody, "<string>p</string>")
	assert.Contains(t, gotBody, "post_status")
}

func TestXMLRPCListPostsSkipsEntriesWithoutID(t *testing.T) {
	response := strings.Replace(xmlrpcPostsResponse, "post_id", "not_an_id", 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(response))
	}))
	defer srv.Close()

	c, err := NewXMLRPCClient(testConfig(srv.URL), 0)
	require.NoError(t, err)

	posts, err := c.ListPosts(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 456, posts[0].ID)
}

func TestXMLRPCAuthFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(xmlrpcAuthFault))
	}))
	defer srv.Close()

	c, err := NewXMLRPCClient(testConfig(srv.URL), 0)
	require.NoError(t, err)

	_, err = c.ListPosts(context.Background(), 20)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestXMLRPCHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, err := NewXMLRPCClient(testConfig(srv.URL), 0)
	require.NoError(t, err)

	_, err = c.ListPosts(context.Background(), 20)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuthentication)
}

func TestXMLRPCUnauthorizedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := NewXMLRPCClient(testConfig(srv.URL), 0)
	require.NoError(t, err)

	_, err = c.ListPosts(context.Background(), 20)
	assert.ErrorIs(t, err, ErrAuthentication)
}
