package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/brandwatch-go/internal/brandwatch"
	"github.com/tonimelisma/brandwatch-go/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath string
	flagUsername   string
	flagToken      string
	flagTokenPath  string
	flagProject    string
	flagJSON       bool
	flagVerbose    bool
	flagQuiet      bool
)

// httpClientTimeout bounds every request. Prevents hung connections from
// blocking CLI commands indefinitely.
const httpClientTimeout = 30 * time.Second

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: httpClientTimeout}
}

// newRootCmd builds the fully-assembled root command. Called once from
// main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "brandwatch-go",
		Short:   "Brandwatch API client",
		Long:    "A command line client for the Brandwatch social-listening API.",
		Version: version,
		// Silence Cobra's default error/usage printing — we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVarP(&flagUsername, "username", "u", "", "Brandwatch username")
	cmd.PersistentFlags().StringVar(&flagToken, "token", "", "explicit access token (skips the token cache)")
	cmd.PersistentFlags().StringVar(&flagTokenPath, "token-path", "", "token cache file path")
	cmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "", "project name for project-scoped commands")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newProjectsCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newRequestCmd())

	return cmd
}

// resolveConfig loads the config file and applies the override chain:
// defaults -> file -> environment -> CLI flags.
func resolveConfig() (*config.Config, error) {
	env := config.ReadEnvOverrides()

	path := config.DefaultConfigPath()
	if env.ConfigPath != "" {
		path = env.ConfigPath
	}

	if flagConfigPath != "" {
		path = flagConfigPath
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}

	cfg.Apply(env)

	if flagUsername != "" {
		cfg.Username = flagUsername
	}

	if flagTokenPath != "" {
		cfg.TokenPath = flagTokenPath
	}

	return cfg, nil
}

// buildLogger creates an slog.Logger writing text to stderr. The config
// file sets the baseline level; --verbose and --quiet override it because
// CLI flags always win.
func buildLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo

	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// credentials assembles session credentials from flags, environment, and
// config. The password is only ever read from the environment here; login
// additionally prompts on a TTY.
func credentials(cfg *config.Config) (brandwatch.Credentials, error) {
	if cfg.Username == "" && flagToken == "" {
		return brandwatch.Credentials{}, errors.New("no username configured — pass --username, set BRANDWATCH_USERNAME, or add it to the config file")
	}

	return brandwatch.Credentials{
		Username: cfg.Username,
		Password: os.Getenv("BRANDWATCH_PASSWORD"),
		Token:    flagToken,
	}, nil
}

// sessionOptions translates resolved config into brandwatch session options.
func sessionOptions(cfg *config.Config, logger *slog.Logger) []brandwatch.Option {
	return []brandwatch.Option{
		brandwatch.WithBaseURL(cfg.BaseURL),
		brandwatch.WithHTTPClient(defaultHTTPClient()),
		brandwatch.WithLogger(logger),
		brandwatch.WithTokenPath(cfg.TokenPath),
		brandwatch.WithConsoleReport(cfg.ConsoleReport && !flagQuiet),
	}
}
