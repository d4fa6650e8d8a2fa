// Package postgres provides the PostgreSQL connection pool and the embedded
// goose migrations for the books schema.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"libraryapi/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationsDir is the directory of the embedded migrations, relative to this
// package. cmd/migrate create writes new files there.
const MigrationsDir = "migrations"

// NewPool creates a pgxpool connection pool and pings it.
func NewPool(ctx context.Context, cfg config.Postgres) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}

func withGoose(pool *pgxpool.Pool, fn func(db *sql.DB) error) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()

	return fn(db)
}

// Up applies all pending migrations.
func Up(ctx context.Context, pool *pgxpool.Pool) error {
	return withGoose(pool, func(db *sql.DB) error {
		if err := goose.UpContext(ctx, db, MigrationsDir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		return nil
	})
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, pool *pgxpool.Pool) error {
	return withGoose(pool, func(db *sql.DB) error {
		if err := goose.DownContext(ctx, db, MigrationsDir); err != nil {
			return fmt.Errorf("rollback: %w", err)
		}
		return nil
	})
}

// Status logs the applied state of every migration through goose's logger.
func Status(ctx context.Context, pool *pgxpool.Pool) error {
	return withGoose(pool, func(db *sql.DB) error {
		if err := goose.StatusContext(ctx, db, MigrationsDir); err != nil {
			return fmt.Errorf("status: %w", err)
		}
		return nil
	})
}

// Version returns the current schema version.
func Version(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	var version int64
	err := withGoose(pool, func(db *sql.DB) error {
		v, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("get version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

// Create writes a new sequential SQL migration into dir on disk.
func Create(dir, name string) error {
	goose.SetBaseFS(nil)
	defer goose.SetBaseFS(migrations)
	goose.SetSequential(true)

	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("create migration: %w", err)
	}
	return nil
}

// Collect parses the embedded migrations without touching a database.
func Collect() (goose.Migrations, error) {
	goose.SetBaseFS(migrations)
	return goose.CollectMigrations(MigrationsDir, 0, goose.MaxVersion)
}

// Files lists the embedded migration file names.
func Files() ([]string, error) {
	entries, err := migrations.ReadDir(MigrationsDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// ReadFile returns the contents of one embedded migration.
func ReadFile(name string) ([]byte, error) {
	return migrations.ReadFile(MigrationsDir + "/" + name)
}
