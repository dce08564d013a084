package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orcamento_backend/internal/catalog"
	"orcamento_backend/internal/catalog/repository"
	catalogsvc "orcamento_backend/internal/catalog/service"
	"orcamento_backend/internal/chat"
	chatevents "orcamento_backend/internal/events"
	"orcamento_backend/internal/http/router"
	"orcamento_backend/internal/intent"
	"orcamento_backend/platform/ai/glm"
	"orcamento_backend/platform/config"
	"orcamento_backend/platform/events"
	"orcamento_backend/platform/logger"
	"orcamento_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	repo := repository.New(cfg.CatalogPath, log)
	snapshot := repository.NewSnapshot(repo, cfg.CatalogTTL, log)
	if _, err := snapshot.Entries(); err != nil {
		// The catalog may appear later; every lookup retries the load.
		log.Warn("catalog not loadable at startup", "path", cfg.CatalogPath, "error", err)
	}
	if cfg.CatalogWatch {
		go func() {
			if err := snapshot.Watch(ctx); err != nil {
				log.Error("catalog watcher stopped", "error", err)
			}
		}()
	}

	var ai intent.CompletionClient
	if cfg.IsAIEnabled() {
		ai = glm.NewClient(glm.Config{
			APIKey:  cfg.AIAPIKey,
			BaseURL: cfg.AIBaseURL,
			Model:   cfg.AIModel,
			Timeout: cfg.AITimeout,
		})
		log.Info("text-understanding service enabled", "model", cfg.AIModel)
	} else {
		log.Info("text-understanding service disabled, using local extraction only")
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	eventBus.Subscribe(chatevents.QuoteFinalizedEvent, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		if ev, ok := e.(chatevents.QuoteFinalized); ok {
			log.Info("quote finalized",
				"session_id", ev.SessionID,
				"items", ev.ItemCount,
				"grand_total", ev.GrandTotal,
				"has_pdf", ev.HasPDF,
			)
		}
		return nil
	}))

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Layer
	// ========================================================================

	matcher := catalogsvc.NewMatcher(snapshot, log)
	extractor := intent.NewExtractor(matcher, log)
	resolver := intent.NewResolver(ai, snapshot, matcher, extractor, log)

	chatModule := chat.NewModule(cfg, matcher, resolver, eventBus, val, log)
	catalogModule := catalog.NewModule(repo, snapshot, matcher, resolver, val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	engine := router.New(cfg, log, chatModule, catalogModule)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}
