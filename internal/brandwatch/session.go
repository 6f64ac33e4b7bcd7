package brandwatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

// UserSession exposes account-level API operations. It owns its resolved
// access token and the dispatcher; sessions are single-user and not safe
// for concurrent use.
type UserSession struct {
	client   *Client
	username string
	token    string
}

// options collects the optional session dependencies.
type options struct {
	baseURL       string
	httpClient    *http.Client
	logger        *slog.Logger
	tokenPath     string
	consoleReport bool
}

// Option configures a session constructor.
type Option func(*options)

// WithBaseURL overrides the API root (primarily for tests).
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTokenPath sets the on-disk token cache location.
func WithTokenPath(path string) Option {
	return func(o *options) { o.tokenPath = path }
}

// WithConsoleReport controls printing of API-level error payloads.
func WithConsoleReport(enabled bool) Option {
	return func(o *options) { o.consoleReport = enabled }
}

func buildOptions(opts []Option) options {
	o := options{
		baseURL:       DefaultBaseURL,
		tokenPath:     DefaultTokenPath,
		consoleReport: true,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// NewUserSession authenticates and returns an account-level session. The
// token is resolved once, up front: an explicit credential token is used
// verbatim, a cached token is reused without a network call, and otherwise
// a fresh token is fetched and cached.
func NewUserSession(ctx context.Context, creds Credentials, opts ...Option) (*UserSession, error) {
	o := buildOptions(opts)
	client := NewClient(o.baseURL, o.httpClient, o.logger, o.consoleReport)

	token, err := resolveToken(ctx, client, creds, o.tokenPath)
	if err != nil {
		return nil, err
	}

	return &UserSession{
		client:   client,
		username: creds.Username,
		token:    token,
	}, nil
}

// Username returns the account the session was created for.
func (s *UserSession) Username() string {
	return s.username
}

// Token returns the session's resolved access token.
func (s *UserSession) Token() string {
	return s.token
}

// Request dispatches a token-bearing call and returns the decoded JSON
// body. Most callers use the typed operations instead; Request is the
// escape hatch for endpoints this package has no wrapper for.
func (s *UserSession) Request(ctx context.Context, method, address string, params url.Values, body any) (any, error) {
	return s.client.Do(ctx, method, address, s.token, params, body)
}

// Project is one entry from the account's project list. Raw holds the
// full decoded record for fields Project does not surface.
type Project struct {
	ID         int64
	Name       string
	ClientName string
	Timezone   string
	Raw        map[string]any
}

// Projects lists the projects the account can access. The API wraps the
// list in a "results" field; when that wrapper is absent the body itself
// is taken as the list.
func (s *UserSession) Projects(ctx context.Context) ([]Project, error) {
	body, err := s.Request(ctx, http.MethodGet, "projects", nil, nil)
	if err != nil {
		return nil, err
	}

	raw := body
	if m, ok := body.(map[string]any); ok {
		if results, ok := m["results"]; ok {
			raw = results
		}
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("brandwatch: unexpected projects response of type %T", raw)
	}

	projects := make([]Project, 0, len(list))

	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		projects = append(projects, toProject(m))
	}

	s.client.logger.Debug("listed projects", slog.Int("count", len(projects)))

	return projects, nil
}

// toProject normalizes one decoded project record.
func toProject(m map[string]any) Project {
	p := Project{Raw: m}

	if id, ok := m["id"].(float64); ok {
		p.ID = int64(id)
	}

	if name, ok := m["name"].(string); ok {
		p.Name = name
	}

	if cn, ok := m["clientName"].(string); ok {
		p.ClientName = cn
	}

	if tz, ok := m["timezone"].(string); ok {
		p.Timezone = tz
	}

	return p
}

// Self returns the authenticated account's profile (username, id, ...).
func (s *UserSession) Self(ctx context.Context) (map[string]any, error) {
	body, err := s.Request(ctx, http.MethodGet, "me", nil, nil)
	if err != nil {
		return nil, err
	}

	m, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("brandwatch: unexpected me response of type %T", body)
	}

	return m, nil
}

// ValidateQuerySearch checks a query search for errors — the same
// debugging the front end runs. An empty query fails with ErrMissingQuery
// before any network call; languages defaults to ["en"]. Remote-reported
// errors fail with *ValidationError.
func (s *UserSession) ValidateQuerySearch(ctx context.Context, query string, languages []string) error {
	return s.validateSearch(ctx, "query-validation", query, languages)
}

// ValidateRuleSearch checks a rule search for errors. Same contract as
// ValidateQuerySearch against the searchwithin endpoint.
func (s *UserSession) ValidateRuleSearch(ctx context.Context, query string, languages []string) error {
	return s.validateSearch(ctx, "query-validation/searchwithin", query, languages)
}

func (s *UserSession) validateSearch(ctx context.Context, address, query string, languages []string) error {
	if query == "" {
		return ErrMissingQuery
	}

	if len(languages) == 0 {
		languages = []string{"en"}
	}

	params := url.Values{"query": {query}}
	for _, lang := range languages {
		params.Add("language", lang)
	}

	body, err := s.Request(ctx, http.MethodGet, address, params, nil)
	if err != nil {
		return err
	}

	if m, ok := body.(map[string]any); ok && hasErrors(m["errors"]) {
		return &ValidationError{Errors: m["errors"]}
	}

	return nil
}
