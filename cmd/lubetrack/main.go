package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"github.com/vbonduro/lubetrack/internal/advisor"
	"github.com/vbonduro/lubetrack/internal/advisor/claude"
	"github.com/vbonduro/lubetrack/internal/advisor/ollama"
	"github.com/vbonduro/lubetrack/internal/config"
	"github.com/vbonduro/lubetrack/internal/db"
	"github.com/vbonduro/lubetrack/internal/kvstore"
	"github.com/vbonduro/lubetrack/internal/kvstore/memory"
	"github.com/vbonduro/lubetrack/internal/kvstore/sqlite"
	"github.com/vbonduro/lubetrack/internal/logging"
	"github.com/vbonduro/lubetrack/internal/metrics"
	"github.com/vbonduro/lubetrack/internal/service"
	"github.com/vbonduro/lubetrack/internal/store"
	"github.com/vbonduro/lubetrack/internal/web"
)

func main() {
	// A missing .env file is normal outside development.
	_ = gotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	kv, database, err := newKeyValueStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		return
	}
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", "error", err)
			}
		}()
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	services := service.New(store.New(kv, time.Now, logger), service.Options{
		Advisor: newAdvisor(cfg, logger),
		Metrics: m,
		Logger:  logger,
	})
	server := web.NewServer(services, m, time.Now, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

// newKeyValueStore returns the configured backend. The *sql.DB is nil for the
// memory backend.
func newKeyValueStore(cfg *config.Config, logger *slog.Logger) (kvstore.Store, *sql.DB, error) {
	if cfg.StoreBackend == "memory" {
		logger.Warn("using in-memory store, data is lost on exit")
		return memory.NewMemoryStore(), nil, nil
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using SQLite store", "path", cfg.DBPath)
	return sqlite.NewSQLiteStore(database), database, nil
}

func newAdvisor(cfg *config.Config, logger *slog.Logger) advisor.Advisor {
	switch cfg.AdvisorBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when ADVISOR_BACKEND=claude, assistant disabled")
			return nil
		}
		logger.Info("using Claude advisor backend", "model", cfg.ClaudeModel)
		return claude.NewClaudeAdvisor(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "ollama":
		logger.Info("using Ollama advisor backend", "model", cfg.OllamaModel)
		return ollama.NewOllamaAdvisor(cfg.OllamaHost, cfg.OllamaModel)
	default:
		logger.Info("assistant disabled")
		return nil
	}
}
