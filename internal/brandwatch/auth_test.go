package brandwatch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/brandwatch-go/internal/tokenstore"
)

func TestFetchToken_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "alice", q.Get("username"))
		assert.Equal(t, "hunter2", q.Get("password"))
		assert.Equal(t, "api-password", q.Get("grant_type"))
		assert.Equal(t, "brandwatch-api-client", q.Get("client_id"))
		assert.Equal(t, "/oauth/token", r.URL.Path)

		_, _ = w.Write([]byte(`{"access_token":"fresh-token"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	tok, err := fetchToken(context.Background(), client, "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", tok)
}

func TestFetchToken_MissingAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":["invalid credentials"]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := fetchToken(context.Background(), client, "alice", "wrong")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, []any{"invalid credentials"}, authErr.Errors)
}

func TestFetchToken_NullAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":null}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := fetchToken(context.Background(), client, "alice", "hunter2")
	require.Error(t, err)

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestResolveToken_ExplicitTokenSkipsNetwork(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	tokenPath := filepath.Join(t.TempDir(), "tokens.txt")

	tok, err := resolveToken(context.Background(), client,
		Credentials{Username: "alice", Token: "explicit-token"}, tokenPath)
	require.NoError(t, err)
	assert.Equal(t, "explicit-token", tok)
	assert.Equal(t, int32(0), calls.Load())

	// An explicit token is used verbatim, not written back to the cache.
	_, err = os.Stat(tokenPath)
	assert.True(t, os.IsNotExist(err))
}

func TestResolveToken_CachedTokenSkipsNetwork(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	tokenPath := filepath.Join(t.TempDir(), "tokens.txt")
	require.NoError(t, tokenstore.Save(tokenPath, "alice", "cached-token"))

	tok, err := resolveToken(context.Background(), client,
		Credentials{Username: "alice", Password: "hunter2"}, tokenPath)
	require.NoError(t, err)
	assert.Equal(t, "cached-token", tok)
	assert.Equal(t, int32(0), calls.Load())
}

func TestResolveToken_FetchesOnceAndPersists(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"access_token":"fresh-token"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	tokenPath := filepath.Join(t.TempDir(), "tokens.txt")

	tok, err := resolveToken(context.Background(), client,
		Credentials{Username: "alice", Password: "hunter2"}, tokenPath)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", tok)
	assert.Equal(t, int32(1), calls.Load())

	cached, err := tokenstore.Load(tokenPath, "alice")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", cached)
}

func TestResolveToken_FetchFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":["account locked"]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	tokenPath := filepath.Join(t.TempDir(), "tokens.txt")

	_, err := resolveToken(context.Background(), client,
		Credentials{Username: "alice", Password: "hunter2"}, tokenPath)
	require.Error(t, err)

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)

	// Nothing is cached on failure.
	_, err = os.Stat(tokenPath)
	assert.True(t, os.IsNotExist(err))
}
