package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container
	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/deployfix/internal/adapter/driven/artifact"
	githubadapter "github.com/ericfisherdev/deployfix/internal/adapter/driven/github"
	"github.com/ericfisherdev/deployfix/internal/adapter/driven/ide"
	"github.com/ericfisherdev/deployfix/internal/adapter/driven/railway"
	sqliteadapter "github.com/ericfisherdev/deployfix/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/deployfix/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/deployfix/internal/adapter/driving/web"
	"github.com/ericfisherdev/deployfix/internal/application"
	"github.com/ericfisherdev/deployfix/internal/config"
	"github.com/ericfisherdev/deployfix/internal/domain/port/driven"
	"github.com/ericfisherdev/deployfix/internal/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 2. Logging: console plus general and error-only files.
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger, closeLogs, err := logging.Setup(cfg.LogDir, level, os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeLogs(); closeErr != nil {
			fmt.Fprintln(os.Stderr, "error closing log files:", closeErr)
		}
	}()
	slog.SetDefault(logger)

	mode, err := application.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"mode", mode,
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"poll_interval", cfg.PollInterval,
		"repo_path", cfg.RepoPath,
		"artifact_dir", cfg.ArtifactDir,
		"ide", cfg.IDEPath,
	)

	// 3. Failure signatures (invalid files are a startup error).
	signatures, err := application.LoadSignatures(cfg.SignaturesPath)
	if err != nil {
		return err
	}
	classifier := application.NewClassifier(signatures)
	slog.Info("signatures loaded", "count", classifier.Len(), "path", cfg.SignaturesPath)

	// 4. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Open database (dual reader/writer with WAL mode) and migrate.
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.DBPath, "schema_version", version)

	// 6. Wire adapters.
	incidentStore := sqliteadapter.NewIncidentRepo(db)
	stateStore := sqliteadapter.NewStateRepo(db)

	var source *railway.Client
	if cfg.RailwayAPIURL != "" {
		source = railway.NewClientWithHTTPClient(&http.Client{Timeout: 30 * time.Second},
			cfg.RailwayAPIURL, cfg.RailwayToken, cfg.RailwayProjectID, cfg.RailwayServiceID)
	} else {
		source = railway.NewClient(cfg.RailwayToken, cfg.RailwayProjectID, cfg.RailwayServiceID)
	}

	var scm driven.SourceControl
	if cfg.HasGitHub() {
		scm = githubadapter.NewClient(cfg.GitHubToken)
		slog.Info("commit lookups enabled", "repo", cfg.GitHubRepo)
	}

	// 7. Incident pipeline and monitor.
	incidentSvc := application.NewIncidentService(
		source,
		scm,
		cfg.GitHubRepo,
		classifier,
		application.NewComposer(cfg.ArtifactDir),
		artifact.NewFileWriter(),
		ide.NewLauncher(cfg.IDEPath, cfg.IDEArgs...),
		incidentStore,
		stateStore,
		cfg.RepoPath,
	)
	monitor := application.NewMonitor(incidentSvc, source, stateStore, mode, cfg.PollInterval)

	// 8. HTTP: webhook (webhook mode only), JSON API and dashboard.
	notifications := application.NewNotificationLog(application.DefaultNotificationLimit)

	var submitter httphandler.EventSubmitter
	if mode == application.ModeWebhook {
		submitter = monitor
	}

	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(incidentStore, notifications, submitter, cfg.WebhookToken, slog.Default()))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(incidentStore, notifications, string(mode), slog.Default()))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.ApplyMiddleware(mux, slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 9. Run monitor and server until a signal arrives or either fails.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		monitor.Start(gctx)
		return nil
	})

	g.Go(func() error {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		// 10. Graceful shutdown with 10s timeout.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http server shutdown error", "error", err)
		}
		return nil
	})

	slog.Info("deployfix started", "mode", mode, "listen_addr", cfg.ListenAddr)

	err = g.Wait()
	slog.Info("shutdown complete")
	return err
}
