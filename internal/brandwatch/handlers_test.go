package brandwatch

import (
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// jsonHandler serves the given JSON body and asserts the request path.
func jsonHandler(t *testing.T, wantPath, body string) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantPath, r.URL.Path)
		_, _ = w.Write([]byte(body))
	})
}

// countingHandler serves the given JSON body and counts requests.
func countingHandler(calls *atomic.Int32, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(body))
	})
}

// assertingHandler passes each request's path and query to fn and serves
// whatever JSON fn returns.
func assertingHandler(t *testing.T, fn func(path string, query url.Values) string) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fn(r.URL.Path, r.URL.Query())))
	})
}
