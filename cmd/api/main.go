package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/httpx"
	"libraryapi/internal/platform/cache"
	"libraryapi/internal/platform/logger"
	"libraryapi/internal/platform/postgres"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("api stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := postgres.NewPool(connectCtx, cfg.Postgres)
	cancel()
	if err != nil {
		return fmt.Errorf("connect database (%s): %w", redactDSN(cfg.Postgres.DSN), err)
	}
	defer pool.Close()
	log.Info().Str("dsn", redactDSN(cfg.Postgres.DSN)).Msg("database connection OK")

	if cfg.Postgres.AutoMigrate {
		if err := postgres.Up(ctx, pool); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
	}

	var store book.Store = book.NewPostgresRepo(pool, cfg.Postgres.QueryTimeout)

	bookCache, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	if bookCache != nil {
		defer func() { _ = bookCache.Close() }()
		store = book.NewCachedStore(store, bookCache, cfg.Cache.TTL,
			log.With().Str("component", "book_cache").Logger())
		log.Info().Str("driver", cfg.Cache.Driver).Dur("ttl", cfg.Cache.TTL).Msg("book cache enabled")
	}

	bookHandler := book.NewHTTPHandler(book.NewService(store), log)

	var limiter *httpx.RateLimitMiddleware
	if cfg.Rate.RequestsPerSecond > 0 {
		limiter = httpx.NewRateLimitMiddleware(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst, cfg.Rate.TrustProxy)
		defer limiter.Close()
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newRouter(cfg.Server, log, bookHandler, pool, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
