package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpadapter "cv-builder/internal/adapter/http"
	repo "cv-builder/internal/adapter/repository"
	"cv-builder/internal/config"
	"cv-builder/internal/export"
	"cv-builder/internal/i18n"
	"cv-builder/internal/infrastructure/migration"
	"cv-builder/internal/render"
	"cv-builder/internal/timer"
	"cv-builder/internal/usecase"
	"cv-builder/pkg/ai"
	infra "cv-builder/pkg/infrastructure"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg.Server.LogFormat)
	ctx := context.Background()

	kv, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Store.Driver, err)
	}
	defer kv.Close()

	core, err := usecase.NewApp(ctx, repo.NewCollections(kv), usecase.AppConfig{
		AdminEmails: cfg.Auth.AdminEmails,
		SessionTTL:  cfg.Auth.TokenTTL,
	})
	if err != nil {
		log.Fatalf("Failed to load application state: %v", err)
	}

	gen, err := newGenerator(ctx, cfg.AI)
	if err != nil {
		slog.Warn("AI provider unavailable, enhancement and import are disabled", "provider", cfg.AI.Provider, "error", err)
	}
	aiClient := ai.NewClient(gen)

	registries := render.NewRegistries()
	editors := usecase.NewEditors(usecase.EditorDeps{
		Scheduler: timer.Real{},
		Debounce:  cfg.Editor.DebounceDelay,
		Enhancer:  aiClient,
		Saver:     core,
		Pipeline:  export.NewPipeline(infra.NewChromedpPrinter(cfg.Export.ChromePath, cfg.Export.Timeout)),
		Consent:   cfg.Export.Consent,
		Countdown: cfg.Export.Countdown,
	}, registries, cfg.Editor.IdleTimeout)

	h := httpadapter.NewHandler(core, editors, aiClient, registries, httpadapter.Options{
		JWTSecret:       []byte(cfg.Auth.JWTSecret),
		MaxFileSize:     cfg.Upload.MaxFileSize,
		DefaultLang:     i18n.Normalize(cfg.Editor.DefaultLanguage, i18n.TR),
		DefaultTemplate: cfg.Editor.DefaultTemplate,
		DefaultAccent:   cfg.Editor.DefaultAccent,
	})

	app := fiber.New(fiber.Config{
		AppName:      "CV Builder",
		BodyLimit:    cfg.Server.BodyLimit,
		Immutable:    true,
		ErrorHandler: httpadapter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	h.Register(app.Group("/api/v1"))

	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()
	slog.Info("server started", "port", cfg.Server.Port, "store", cfg.Store.Driver, "ai", aiClient.Configured())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	editors.CloseAll()
	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	slog.Info("server exited")
}

func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}

// openStore picks the persistence backend named by STORE_DRIVER.
func openStore(ctx context.Context, cfg config.StoreConfig) (repo.KVStore, error) {
	switch cfg.Driver {
	case "memory":
		return repo.NewMemoryStore(), nil
	case "sqlite":
		db, err := infra.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return repo.NewSQLiteStore(db)
	case "postgres":
		pool, err := infra.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := migration.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return repo.NewPostgresStore(pool), nil
	case "redis":
		client, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return repo.NewRedisStore(client), nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Driver)
}

// newGenerator returns the configured AI backend, or nil when AI is off.
func newGenerator(ctx context.Context, cfg config.AIConfig) (ai.Generator, error) {
	switch cfg.Provider {
	case "none", "":
		return nil, nil
	case "chat":
		return ai.NewChatGenerator(cfg.ServiceURL, cfg.Timeout), nil
	case "gemini":
		g, err := ai.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, fmt.Errorf("unknown AI_PROVIDER %q", cfg.Provider)
}
