package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/brandwatch-go/internal/brandwatch"
)

var (
	flagParams []string
	flagData   string
)

func newRequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request <method> <endpoint>",
		Short: "Make a raw project-scoped API call",
		Long: "Issues an arbitrary request under the resolved project, e.g.\n" +
			"`request GET queries`. The projects/<id>/ prefix is added automatically.\n" +
			"Requires --project.",
		Args: cobra.ExactArgs(2),
		RunE: runRequest,
	}

	cmd.Flags().StringArrayVar(&flagParams, "param", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&flagData, "data", "", "JSON request body, inline or @file")

	return cmd
}

func runRequest(_ *cobra.Command, args []string) error {
	if flagProject == "" {
		return errors.New("request requires --project")
	}

	method := strings.ToUpper(args[0])
	endpoint := args[1]

	switch method {
	case "GET", "POST", "PUT", "PATCH", "DELETE":
	default:
		return fmt.Errorf("unsupported method %q", args[0])
	}

	params, err := parseParams(flagParams)
	if err != nil {
		return err
	}

	body, err := parseData(flagData)
	if err != nil {
		return err
	}

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

	session, err := brandwatch.NewProjectSession(ctx, creds, flagProject, sessionOptions(cfg, logger)...)
	if err != nil {
		return err
	}

	resp, err := session.Request(ctx, method, endpoint, params, body)
	if err != nil {
		return err
	}

	return printJSON(resp)
}

// parseParams converts repeated key=value flags into query parameters.
func parseParams(pairs []string) (url.Values, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	params := url.Values{}

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("bad --param %q: want key=value", pair)
		}

		params.Add(key, value)
	}

	return params, nil
}

// parseData decodes the --data flag: a JSON literal, or @path to read the
// JSON from a file. Empty means no request body.
func parseData(data string) (any, error) {
	if data == "" {
		return nil, nil
	}

	raw := []byte(data)

	if strings.HasPrefix(data, "@") {
		fileData, err := os.ReadFile(data[1:])
		if err != nil {
			return nil, fmt.Errorf("reading --data file: %w", err)
		}

		raw = fileData
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("bad --data: %w", err)
	}

	return body, nil
}
