package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rfournie/appforge/internal/chat"
	"github.com/rfournie/appforge/internal/config"
	"github.com/rfournie/appforge/internal/domain/project"
	"github.com/rfournie/appforge/internal/notify"
	"github.com/rfournie/appforge/internal/sqlite"
	"github.com/rfournie/appforge/internal/stream"
	"github.com/rfournie/appforge/internal/transcript"
	"github.com/rfournie/appforge/internal/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("preparing database directory: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	projectRepo := sqlite.NewProjectRepository(db)
	projectSvc := project.NewService(projectRepo, logger)

	store := transcript.NewStore()
	agent := stream.NewClient(cfg.Agent.URL, nil)
	preview := notify.NewPreviewClient(cfg.Preview.URL, logger)
	reporter := notify.NewLogReporter(logger)

	chatSvc := chat.NewService(chat.Config{
		Projects:     projectSvc,
		Store:        store,
		Opener:       agent,
		Preview:      preview,
		Reporter:     reporter,
		Logger:       logger,
		RefreshDelay: time.Duration(cfg.Preview.RefreshMS) * time.Millisecond,
	})

	router := transport.NewServer(chatSvc, projectSvc, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "addr", addr, "agent_url", cfg.Agent.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ensureDBDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
