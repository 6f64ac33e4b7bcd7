package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/brandwatch-go/internal/brandwatch"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Display the authenticated account",
		RunE:  runWhoami,
	}
}

func runWhoami(_ *cobra.Command, _ []string) error {
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

	session, err := brandwatch.NewUserSession(ctx, creds, sessionOptions(cfg, logger)...)
	if err != nil {
		return err
	}

	self, err := session.Self(ctx)
	if err != nil {
		return fmt.Errorf("fetching account profile: %w", err)
	}

	if useJSON() {
		return printJSON(self)
	}

	printSelfText(self)

	return nil
}

// printSelfText renders the account profile as a sorted key/value table.
// Nested structures are skipped — use --json for the full record.
func printSelfText(self map[string]any) {
	keys := make([]string, 0, len(self))

	for k, v := range self {
		switch v.(type) {
		case map[string]any, []any:
			continue
		default:
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, fmt.Sprintf("%v", self[k])})
	}

	printTable(os.Stdout, []string{"FIELD", "VALUE"}, rows)
}
