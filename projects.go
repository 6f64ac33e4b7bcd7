package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/brandwatch-go/internal/brandwatch"
)

func newProjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects accessible to the account",
		RunE:  runProjects,
	}
}

// projectOutput is the JSON schema for `projects --json`.
type projectOutput struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ClientName string `json:"client_name"`
	Timezone   string `json:"timezone"`
}

func runProjects(_ *cobra.Command, _ []string) error {
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

	projects, err := session.Projects(ctx)
	if err != nil {
		return fmt.Errorf("listing projects: %w", err)
	}

	if useJSON() {
		out := make([]projectOutput, 0, len(projects))
		for _, p := range projects {
			out = append(out, projectOutput{
				ID:         p.ID,
				Name:       p.Name,
				ClientName: p.ClientName,
				Timezone:   p.Timezone,
			})
		}

		return printJSON(out)
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10), p.Name, p.ClientName, p.Timezone,
		})
	}

	printTable(os.Stdout, []string{"ID", "NAME", "CLIENT", "TIMEZONE"}, rows)

	return nil
}
