package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"

	obrabot "github.com/dremassist/obrabot"
	"github.com/dremassist/obrabot/internal/ai"
	"github.com/dremassist/obrabot/internal/config"
	"github.com/dremassist/obrabot/internal/engine"
	"github.com/dremassist/obrabot/internal/middleware"
	"github.com/dremassist/obrabot/internal/report"
	"github.com/dremassist/obrabot/internal/repository"
	"github.com/dremassist/obrabot/internal/session"
	"github.com/dremassist/obrabot/internal/storage"
	"github.com/dremassist/obrabot/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(obrabot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize collaborators
	purchases := repository.NewPurchaseRepo(pool, cfg.GroupID)
	aiClient := ai.NewClient(cfg.OpenRouterKey)
	interceptor := ai.NewInterceptor(aiClient, purchases)
	uploader := storage.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset)
	exporter := report.NewXLSXExporter(cfg.TempDir)
	sessions := session.NewStore()

	eng := engine.New(engine.Deps{
		Sessions:    sessions,
		Purchases:   purchases,
		Budgets:     purchases,
		Extractor:   aiClient,
		Transcriber: aiClient,
		Completer:   aiClient,
		Interceptor: interceptor,
		Uploader:    uploader,
		Exporter:    exporter,
		TempDir:     cfg.TempDir,
	})
	handler := telegram.NewHandler(eng)

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
		),
		bot.WithDefaultHandler(handler.HandleUpdate),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	slog.Info("starting bot", "username", me.Username, "id", me.ID, "group_id", cfg.GroupID)
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
