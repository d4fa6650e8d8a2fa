package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"libraryapi/internal/config"
	"libraryapi/internal/platform/logger"
	"libraryapi/internal/platform/postgres"
)

func main() {
	config.LoadEnvFiles()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dsn string

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the library database schema",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "database DSN (defaults to DB_DSN / config)")

	withPool := func(cmd *cobra.Command, fn func(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if dsn != "" {
			cfg.Postgres.DSN = dsn
		}
		log := logger.New(cfg.Log)

		ctx := cmd.Context()
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		pool, err := postgres.NewPool(connectCtx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		return fn(ctx, pool, log)
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withPool(cmd, func(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
					if err := postgres.Up(ctx, pool); err != nil {
						return err
					}
					version, err := postgres.Version(ctx, pool)
					if err != nil {
						return err
					}
					log.Info().Int64("version", version).Msg("migrations applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withPool(cmd, func(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
					if err := postgres.Down(ctx, pool); err != nil {
						return err
					}
					log.Info().Msg("migration rolled back")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the state of every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withPool(cmd, func(ctx context.Context, pool *pgxpool.Pool, _ zerolog.Logger) error {
					return postgres.Status(ctx, pool)
				})
			},
		},
		newCreateCmd(),
	)

	return root
}

func newCreateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Write a new empty SQL migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return errors.New("name is required")
			}
			if dir == "" {
				dir = migrationsDir()
			}
			if err := postgres.Create(dir, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migration created: %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "target directory (defaults to MIGRATIONS_DIR)")
	return cmd
}
