package brandwatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Brandwatch API root. Every request path is
	// appended to it.
	DefaultBaseURL = "https://newapi.brandwatch.com/"

	// requestInterval is the fixed delay enforced before every request.
	// This is the client's only throttling; there is no adaptive backoff
	// and no retry.
	requestInterval = 500 * time.Millisecond

	userAgent = "brandwatch-go/0.1"
)

// Client is the HTTP dispatcher every API operation funnels through. It
// appends paths to the base URL, injects the access token, throttles, and
// decodes JSON responses.
//
// The API carries the access token as the `access_token` query parameter
// rather than an Authorization header. That is the wire protocol of the
// service, not a client-side choice.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter

	// ConsoleReport controls whether API-level error payloads (a non-empty
	// "errors" field inside an otherwise successful response) are printed
	// to reportTo as a diagnostic. The response is returned normally either
	// way; the dispatcher never converts API-level errors into Go errors.
	ConsoleReport bool

	// reportTo receives console reports. Defaults to os.Stderr; tests
	// override it to capture output.
	reportTo io.Writer
}

// NewClient creates a dispatcher for the given API root. A nil httpClient
// falls back to http.DefaultClient, a nil logger to slog.Default().
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger, consoleReport bool) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if logger == nil {
		logger = slog.Default()
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Client{
		baseURL:       baseURL,
		httpClient:    httpClient,
		logger:        logger,
		limiter:       rate.NewLimiter(rate.Every(requestInterval), 1),
		ConsoleReport: consoleReport,
		reportTo:      os.Stderr,
	}
}

// Do issues a single request and returns the decoded JSON body. The address
// is appended to the base URL; a non-empty token is injected into the query
// string as access_token; a non-nil body is JSON-encoded and sent with
// Content-type: application/json.
//
// The response is decoded as JSON unconditionally — a non-JSON body is a
// fatal error. An "errors" field inside the decoded body is NOT an error:
// the body is returned normally and callers inspect it themselves (the
// validators and the authenticator are the only callers that treat it as
// fatal).
func (c *Client) Do(ctx context.Context, method, address, token string, params url.Values, body any) (any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("brandwatch: request canceled: %w", err)
	}

	u, err := url.Parse(c.baseURL + address)
	if err != nil {
		return nil, fmt.Errorf("brandwatch: bad address %q: %w", address, err)
	}

	// Copy the caller's params so token injection never mutates or aliases
	// a caller-owned map.
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}

	if token != "" {
		q.Set("access_token", token)
	}

	u.RawQuery = q.Encode()

	// The resolved URL is logged on every call, success or failure, for
	// manual debugging. Token values are never logged.
	c.logger.Debug("request",
		slog.String("method", method),
		slog.String("url", redactURL(u)),
	)

	var reqBody io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("brandwatch: encoding request body: %w", err)
		}

		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("brandwatch: creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	if reqBody != nil {
		req.Header.Set("Content-type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brandwatch: %s %s: %w", method, address, err)
	}
	defer resp.Body.Close()

	var decoded any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("brandwatch: decoding %s %s response: %w", method, address, err)
	}

	if m, ok := decoded.(map[string]any); ok && hasErrors(m["errors"]) {
		c.logger.Warn("response contains errors field",
			slog.String("method", method),
			slog.String("address", address),
		)

		if c.ConsoleReport {
			c.report(decoded)
		}
	}

	return decoded, nil
}

// report prints a decoded error-bearing body to the report writer.
func (c *Client) report(body any) {
	data, err := json.Marshal(body)
	if err != nil {
		fmt.Fprintf(c.reportTo, "%v\n", body)
		return
	}

	fmt.Fprintf(c.reportTo, "%s\n", data)
}

// redactURL renders a request URL for logging with the access_token value
// masked.
func redactURL(u *url.URL) string {
	q := u.Query()
	if q.Get("access_token") == "" {
		return u.String()
	}

	q.Set("access_token", "REDACTED")

	r := *u
	r.RawQuery = q.Encode()

	return r.String()
}
