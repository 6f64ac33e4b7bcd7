package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tonimelisma/brandwatch-go/internal/brandwatch"
	"github.com/tonimelisma/brandwatch-go/internal/tokenstore"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate and cache an access token",
		Long: "Resolves an access token for the configured username and caches it in the\n" +
			"token file. Reuses a cached token when one exists; otherwise exchanges the\n" +
			"password (BRANDWATCH_PASSWORD, or an interactive prompt) for a fresh one.",
		RunE: runLogin,
	}
}

func runLogin(_ *cobra.Command, _ []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	logger := buildLogger(cfg)
	ctx := context.Background()

	creds, err := credentials(cfg)
	if err != nil {
		return err
	}

	// Only prompt when the token cache cannot satisfy the login — a cached
	// token needs no password at all.
	if creds.Token == "" && creds.Password == "" && !hasCachedToken(cfg.TokenPath, creds.Username) {
		creds.Password, err = promptPassword(creds.Username)
		if err != nil {
			return err
		}
	}

	session, err := brandwatch.NewUserSession(ctx, creds, sessionOptions(cfg, logger)...)
	if err != nil {
		return err
	}

	statusf("Logged in as %s.\n", session.Username())

	return nil
}

// hasCachedToken reports whether the token store already holds an entry for
// the username, so login can decide whether a password is needed before
// constructing the session.
func hasCachedToken(tokenPath, username string) bool {
	_, err := tokenstore.Load(tokenPath, username)
	return err == nil
}

// promptPassword reads a password from stdin. Refuses to prompt when stdin
// is not a terminal — scripts must use BRANDWATCH_PASSWORD instead.
func promptPassword(username string) (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", errors.New("no password available — set BRANDWATCH_PASSWORD or run interactively")
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", username)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("empty password")
	}

	return password, nil
}
