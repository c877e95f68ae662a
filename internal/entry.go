// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/attach"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/capture"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/gateway"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/mcpserver"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/media"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/note"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/session"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/task"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/telegram"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/transcribe"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/undo"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/vault"
	"github.com/matteocervelli/bot-telegram-obsidian-capture/internal/vaultwatch"
)

// services bundles the vault-facing components shared by the Telegram
// gateway and the MCP server.
type services struct {
	vault   *vault.FS
	codec   *task.Codec
	tasks   *task.Store
	capture *capture.Service
	attach  *attach.Store
}

func buildServices(cfg *Config, logger *slog.Logger) (*services, error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}

	vfs, err := vault.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init vault: %w", err)
	}

	loc := cfg.Vault.Location()
	codec := task.NewCodec(cfg.Tasks.Tag, cfg.Tasks.FollowUpTag, loc)
	tasks := task.NewStore(vfs, codec, cfg.Tasks.InboxFile, cfg.Tasks.ListLimit, loc)
	notes := note.NewWriter(vfs, cfg.Vault.InboxFolder, cfg.Vault.NoteFilenameFormat, loc)
	daily := note.NewDaily(vfs, cfg.Daily.Folder, cfg.Daily.DateFormat, loc)
	attachments := attach.NewStore(vfs, cfg.Vault.AttachmentsFolder, loc)
	sessions := session.NewStore()
	ledger := undo.NewLedger(logger)

	return &services{
		vault:   vfs,
		codec:   codec,
		tasks:   tasks,
		capture: capture.NewService(notes, daily, sessions, ledger, logger),
		attach:  attachments,
	}, nil
}

func newLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// Run starts the bot with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if app.secrets == nil {
		return fmt.Errorf("secrets are required")
	}

	cfg := app.config
	logger := newLogger(cfg)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("timezone", cfg.Vault.Timezone),
		slog.Int64("operator_id", cfg.Telegram.UserID),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svcs, err := buildServices(cfg, logger)
	if err != nil {
		return err
	}

	botAPI := telegram.NewClient(cfg.Telegram.APIBaseURL, app.secrets.TelegramToken)
	transcriber := transcribe.NewClient(app.secrets.ElevenLabsAPIKey)

	gw := gateway.New(gateway.Deps{
		API:           botAPI,
		AllowedUserID: cfg.Telegram.UserID,
		WebhookSecret: cfg.Telegram.WebhookSecret,
		Capture:       svcs.capture,
		Tasks:         svcs.tasks,
		Codec:         svcs.codec,
		Attachments:   svcs.attach,
		Transcriber:   transcriber,
		ExtractAudio:  media.ExtractAudio,
		Logger:        logger,
	})

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Telegram webhook (protected by the secret token header).
	r.Post("/telegram/webhook", gw.Webhook)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	if cfg.Telegram.WebhookURL != "" {
		if err := botAPI.SetWebhook(ctx, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
			logger.Warn("webhook registration failed", slog.String("error", err.Error()))
		} else {
			logger.Info("webhook registered", slog.String("url", cfg.Telegram.WebhookURL))
		}
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start the vault activity watcher.
	g.Go(func() error {
		if err := vaultwatch.Watch(gCtx, svcs.vault.Root(), cfg.Tasks.InboxFile, logger); err != nil {
			logger.Warn("vault watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the capture and task tools over stdio MCP. The Telegram
// transport is not started; tool calls share the operator's session.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	// Logs go to stderr: stdout is the MCP transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	svcs, err := buildServices(cfg, logger)
	if err != nil {
		return err
	}

	srv := mcpserver.New(svcs.capture, svcs.tasks, cfg.Telegram.UserID)
	logger.Info("MCP server starting on stdio")
	return srv.ServeStdio()
}
