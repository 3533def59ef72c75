package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"briefly/internal/bootstrap"
	"briefly/internal/handler/http/auth"
	"briefly/internal/infra/db"
	"briefly/internal/infra/summarizer"
	"briefly/pkg/config"
)

var errNoDatabase = errors.New("DATABASE_URL is not set")

func newBackendsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the configured summarization backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgs, err := summarizer.LoadConfigsFromEnv()
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				type backend struct {
					Name      string `json:"name"`
					Kind      string `json:"kind"`
					Model     string `json:"model,omitempty"`
					MaxLength int    `json:"max_length"`
					MinLength int    `json:"min_length"`
				}
				out := make([]backend, 0, len(cfgs))
				for _, c := range cfgs {
					out = append(out, backend{c.Name, string(c.Kind), c.Model, c.MaxLength, c.MinLength})
				}
				return printJSON(cmd.OutOrStdout(), out)
			}
			for _, c := range cfgs {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-10s %-32s %d..%d\n", c.Name, c.Kind, c.Model, c.MinLength, c.MaxLength)
			}
			return nil
		},
	}
}

func newTokenCmd(opts *options) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token SUBJECT",
		Short: "Issue an API token for SUBJECT signed with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := auth.LoadConfigFromEnv()
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Secret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			token, err := auth.IssueToken(cfg.Secret, args[0], ttl)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]string{"token": token})
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the summary history schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Create the schema",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				database, _, err := openDatabase(cmd.Context(), true)
				if err != nil {
					return err
				}
				return database.Close()
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Drop the schema and every stored summary",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				database, _, err := openDatabase(cmd.Context(), false)
				if err != nil {
					return err
				}
				defer func() { _ = database.Close() }()
				if err := db.MigrateDown(cmd.Context(), database); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema dropped")
				return nil
			},
		},
	)
	return cmd
}

func newPurgeCmd(opts *options) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete stored summaries older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, dialect, err := openDatabase(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			n, err := bootstrap.NewHistory(database, dialect).Purge(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]int64{"deleted": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d summaries\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than",
		config.GetEnvDuration("RETENTION_PERIOD", 30*24*time.Hour), "Retention period")
	return cmd
}

func openDatabase(ctx context.Context, migrate bool) (*sql.DB, db.Dialect, error) {
	database, dialect, err := bootstrap.OpenDatabase(ctx, slog.Default(), migrate)
	if err != nil {
		return nil, "", err
	}
	if database == nil {
		return nil, "", errNoDatabase
	}
	return database, dialect, nil
}
