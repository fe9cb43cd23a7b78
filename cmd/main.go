package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/joho/godotenv"

	"costbook/internal/books"
	httpapi "costbook/internal/httpapi/v1"
	"costbook/internal/storage/memory"
	pgstore "costbook/internal/storage/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	// Logger (slog to stdout). Level via LOG_LEVEL; format via LOG_FORMAT (json|text, default json)
	logger := buildLoggerFromEnv()
	slog.SetDefault(logger)

	// DAY_ZONE is the reference time zone used to bucket payments and
	// expenses into calendar days, e.g. "Asia/Kolkata". Default UTC.
	zone := time.UTC
	if name := strings.TrimSpace(os.Getenv("DAY_ZONE")); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			logger.Error("invalid DAY_ZONE", "value", name, "err", err)
			os.Exit(1)
		}
		zone = loc
	}

	var srvMux http.Handler
	var closeFn func()

	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
		// Use Postgres store when DATABASE_URL is provided
		if err := pgstore.RunMigrations(dsn); err != nil {
			logger.Error("migrations failed", "err", err)
			os.Exit(1)
		}
		pg, err := pgstore.Open(ctx, dsn)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		closeFn = func() { pg.Close() }
		srvMux = httpapi.New(pg, pg, pg, pg, logger, zone).Handler()
		logger.Info("storage backend: postgres")
	} else {
		// Default to in-memory store with a small dev seed
		store := memory.New()
		userID := uuid.New()
		budget, _ := money.NewAmountFromMinorUnits("INR", 50_00_000_00)
		paid, _ := money.NewAmountFromMinorUnits("INR", 0)
		proj := books.Project{ID: uuid.New(), UserID: userID, Name: "Demo Site", Currency: "INR", TotalBudget: budget, OwnerPaid: paid}
		store.SeedProject(proj)
		logger.Info("DEV seed (memory)", "user_id", userID.String(), "project_id", proj.ID.String())
		printDevSeedBanner(userID, proj)
		srvMux = httpapi.New(store, store, store, store, logger, zone).Handler()
		logger.Info("storage backend: memory")
	}

	srv := &http.Server{
		Addr:              ":8080",
		Handler:           srvMux,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("costbook service listening", "addr", srv.Addr, "zone", zone.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

// printDevSeedBanner prints a simple banner to stdout for easy copy/paste of IDs
func printDevSeedBanner(userID uuid.UUID, proj books.Project) {
	fmt.Println("==================== DEV SEED ====================")
	fmt.Printf("user_id: %s\n", userID.String())
	fmt.Printf("project_id: %s\n", proj.ID.String())
	fmt.Println("==================================================")
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "WARNING", "warn", "warning":
		return slog.LevelWarn
	case "ERROR", "ERR", "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLoggerFromEnv() *slog.Logger {
	level := parseLogLevel(os.Getenv("LOG_LEVEL"))
	format := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
