// Package main provides the HTTP server for the AI surrogate backend.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maliksaad1/ai-surrogate/internal/agents"
	"github.com/maliksaad1/ai-surrogate/internal/config"
	"github.com/maliksaad1/ai-surrogate/internal/db"
	"github.com/maliksaad1/ai-surrogate/internal/llm"
	"github.com/maliksaad1/ai-surrogate/internal/metrics"
	"github.com/maliksaad1/ai-surrogate/internal/server"
	"github.com/maliksaad1/ai-surrogate/internal/service"
)

func main() {
	wipeDB := flag.Bool("wipe", false, "wipe all data from database on startup (testing only)")
	flag.Parse()

	cfg := config.Load()

	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer closeLog()
	slog.SetDefault(logger)

	slog.Info("starting surrogate-server", "port", cfg.ServerPort)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbClient, err := db.NewClient(ctx, db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger)
	if err != nil {
		cancel()
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := dbClient.InitSchema(ctx); err != nil {
		cancel()
		slog.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	if *wipeDB || os.Getenv("SURROGATE_WIPE_DB") == "true" {
		if err := dbClient.WipeData(ctx); err != nil {
			cancel()
			slog.Error("failed to wipe database", "error", err)
			os.Exit(1)
		}
		slog.Warn("database wiped on startup")
	}
	cancel()

	defer func() {
		if err := dbClient.Close(context.Background()); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	model, err := llm.NewModel(ctx, cfg)
	cancel()
	if err != nil {
		slog.Error("failed to create language model", "error", err)
		os.Exit(1)
	}

	persona, err := config.LoadPersona(cfg.PersonaFile)
	if err != nil {
		slog.Error("failed to load persona", "file", cfg.PersonaFile, "error", err)
		os.Exit(1)
	}
	if persona.SystemPrompt != "" {
		model.SetPersonaPrompt(persona.SystemPrompt)
	}

	collector := metrics.NewCollector()
	registry := agents.NewRegistry(model, nil)
	orchestrator := agents.NewOrchestrator(registry,
		service.MemorySink{Store: dbClient},
		agents.WithLogger(logger),
		agents.WithCollector(collector),
		agents.WithStyles(personaStyles(persona)))

	chatService := service.NewChatService(dbClient, orchestrator,
		service.WithChatLogger(logger),
		service.WithChatCollector(collector),
		service.WithHistoryWindow(cfg.HistoryWindow),
		service.WithMemoryLimit(cfg.MemoryLimit))

	srv, err := server.NewServer(
		chatService,
		service.NewThreadService(dbClient, logger),
		service.NewMemoryService(dbClient, logger),
		collector,
		logger,
		server.Config{Host: cfg.ServerHost, Port: cfg.ServerPort},
	)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// personaStyles maps persona agent overrides onto agent kinds.
func personaStyles(p config.Persona) map[agents.Kind]agents.Style {
	styles := make(map[agents.Kind]agents.Style, len(p.Agents))
	for name, style := range p.Agents {
		styles[agents.Kind(name)] = agents.Style{Name: style.Name, Icon: style.Icon}
	}
	return styles
}
