package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/brandwatch-go/internal/brandwatch"
)

var (
	flagRule      bool
	flagLanguages []string
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <query>",
		Short: "Check a query search for errors",
		Long: "Runs the same query debugging the front end uses. With --rule the search\n" +
			"is checked against the rule (searchwithin) endpoint instead.",
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}

	cmd.Flags().BoolVar(&flagRule, "rule", false, "validate as a rule search")
	cmd.Flags().StringArrayVar(&flagLanguages, "language", nil, "language to test the query in (repeatable, defaults to en)")

	return cmd
}

func runValidate(_ *cobra.Command, args []string) error {
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

	query := args[0]

	if flagRule {
		err = session.ValidateRuleSearch(ctx, query, flagLanguages)
	} else {
		err = session.ValidateQuerySearch(ctx, query, flagLanguages)
	}

	if err != nil {
		return err
	}

	statusf("Query is valid.\n")

	return nil
}
