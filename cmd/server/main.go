package main

import (
	"log"
	"log/slog"

	"github.com/mktud1/arq503/internal/analyzer"
	"github.com/mktud1/arq503/internal/config"
	"github.com/mktud1/arq503/internal/extractor"
	"github.com/mktud1/arq503/internal/llm"
	"github.com/mktud1/arq503/internal/search"
	"github.com/mktud1/arq503/internal/server"
	"github.com/mktud1/arq503/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var store storage.Store
	if cfg.Database.Host != "" {
		store, err = storage.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		slog.Info("using postgres store", "host", cfg.Database.Host, "db", cfg.Database.Name)
	} else {
		store = storage.NewMemory()
		slog.Warn("no database configured, analyses are kept in memory only")
	}
	defer store.Close()

	// Missing providers are not fatal at startup: the pipeline rejects
	// requests with a provider-unavailable failure instead.
	searchProvider, err := search.NewProvider(cfg.Search)
	if err != nil {
		slog.Warn("search provider unavailable", "error", err)
	}

	llmProvider, err := llm.NewOpenAI(&cfg.OpenAI, cfg.Pipeline.LLMRequestsPerMinute)
	if err != nil {
		slog.Warn("AI provider unavailable", "error", err)
	}

	ext := extractor.NewReadability(cfg.Extractor.Timeout)

	// Avoid wrapping a typed nil in the provider interface.
	var lp llm.Provider
	if llmProvider != nil {
		lp = llmProvider
	}

	a := analyzer.New(store, searchProvider, ext, lp, cfg)

	srv := server.New(*cfg, a, store)
	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
