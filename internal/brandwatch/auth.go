package brandwatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tonimelisma/brandwatch-go/internal/tokenstore"
)

const (
	// oauthPath is appended to the API root to reach the token endpoint.
	oauthPath = "oauth/token"

	// clientID identifies API-password clients to the token endpoint.
	clientID = "brandwatch-api-client"

	grantType = "api-password"
)

// DefaultTokenPath is where access tokens are cached when no path is given.
const DefaultTokenPath = "tokens.txt"

// Credentials identify a Brandwatch account. Token is optional and used
// verbatim when set; otherwise Password is exchanged for a token (or a
// previously cached token is reused).
type Credentials struct {
	Username string
	Password string
	Token    string
}

// resolveToken produces a usable access token for the given credentials:
// an explicit token verbatim, else a cached token from the store, else a
// fresh fetch from the token endpoint (persisted before returning).
func resolveToken(ctx context.Context, c *Client, creds Credentials, tokenPath string) (string, error) {
	if creds.Token != "" {
		// No remote validation — the first authenticated call will reject
		// a stale token.
		return creds.Token, nil
	}

	if tok, err := tokenstore.Load(tokenPath, creds.Username); err == nil {
		c.logger.Debug("using cached access token",
			slog.String("username", creds.Username),
			slog.String("path", tokenPath),
		)

		return tok, nil
	}

	tok, err := fetchToken(ctx, c, creds.Username, creds.Password)
	if err != nil {
		return "", err
	}

	if err := tokenstore.Save(tokenPath, creds.Username, tok); err != nil {
		return "", fmt.Errorf("caching access token: %w", err)
	}

	c.logger.Info("fetched and cached access token",
		slog.String("username", creds.Username),
		slog.String("path", tokenPath),
	)

	return tok, nil
}

// fetchToken exchanges a username/password for an access token. The token
// endpoint is an unauthenticated GET carrying the credentials as query
// parameters — that is the service's password grant, not an OAuth2 form
// POST.
func fetchToken(ctx context.Context, c *Client, username, password string) (string, error) {
	params := url.Values{
		"username":   {username},
		"password":   {password},
		"grant_type": {grantType},
		"client_id":  {clientID},
	}

	body, err := c.Do(ctx, http.MethodGet, oauthPath, "", params, nil)
	if err != nil {
		return "", err
	}

	m, ok := body.(map[string]any)
	if !ok {
		return "", &AuthError{}
	}

	tok, ok := m["access_token"].(string)
	if !ok || tok == "" {
		return "", &AuthError{Errors: m["errors"]}
	}

	return tok, nil
}
