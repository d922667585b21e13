package main

import (
	"context"
	"log"
	"time"

	"github.com/abuharish02/Lead-gen-ai-backend/analyzer"
	"github.com/abuharish02/Lead-gen-ai-backend/api"
	"github.com/abuharish02/Lead-gen-ai-backend/bulk"
	"github.com/abuharish02/Lead-gen-ai-backend/config"
	"github.com/abuharish02/Lead-gen-ai-backend/embedding"
	"github.com/abuharish02/Lead-gen-ai-backend/knowledge"
	"github.com/abuharish02/Lead-gen-ai-backend/pkg/llm"
	qdrantClient "github.com/abuharish02/Lead-gen-ai-backend/pkg/qdrantdb"
	"github.com/abuharish02/Lead-gen-ai-backend/scraper"

	"go.uber.org/zap"
)

func main() {
	// =========
	// Config
	// =========
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// =========
	// Logging
	// =========
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// =========
	// Embedding Client
	// =========
	embeddingClient := embedding.NewAllMinilmL6V2(cfg.EmbeddingURL)

	// =========
	// Vector index (Qdrant when configured, in-memory otherwise)
	// =========
	var index knowledge.VectorIndex
	if cfg.QdrantHost != "" {
		qdb, err := qdrantClient.NewClient(cfg.QdrantHost, cfg.QdrantPort)
		if err != nil {
			log.Fatalf("Failed to initialize Qdrant: %v", err)
		}
		index = qdrantClient.NewKnowledgeIndex(qdb)
	}

	// =========
	// Knowledge base
	// =========
	store := knowledge.NewStore(cfg.KnowledgeDir, embeddingClient, index, logger)
	loadCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	if err := store.Load(loadCtx); err != nil {
		logger.Warn("knowledge base unavailable, running without retrieval", zap.Error(err))
		store = nil
	}
	cancel()

	// =========
	// LLM Client
	// =========
	model, err := llm.New(ctx, llm.Config{
		Provider:    cfg.LLMProvider,
		APIKey:      cfg.GeminiKey,
		Model:       cfg.LLMModel,
		OllamaURL:   cfg.OllamaURL,
		OllamaModel: cfg.OllamaModel,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	// =========
	// Scraper (chromedp fallback only when enabled)
	// =========
	var browser *scraper.Browser
	if cfg.BrowserEnabled {
		browser = scraper.NewBrowser(logger, 0)
	}
	scraperCfg := scraper.DefaultConfig()
	scraperCfg.RequestTimeout = cfg.ScrapeTimeout
	webScraper := scraper.NewWebScraper(scraperCfg, browser, logger)

	// =========
	// Analyzer
	// =========
	an := analyzer.New(webScraper, model, store, logger,
		analyzer.WithLLMTimeout(cfg.LLMTimeout))

	// =========
	// Bulk coordinator
	// =========
	var jobStore bulk.Store
	if cfg.JobStorePath != "" {
		bs, err := bulk.OpenBoltStore(cfg.JobStorePath)
		if err != nil {
			log.Fatalf("Failed to open job store: %v", err)
		}
		defer bs.Close()
		jobStore = bs
	} else {
		jobStore = bulk.NewMemoryStore()
	}
	coordinator := bulk.NewCoordinator(an.Analyze, jobStore, logger,
		bulk.WithBatchSize(cfg.BulkBatchSize),
		bulk.WithMaxURLs(cfg.BulkMaxURLs))

	// =========
	// HTTP API
	// =========
	server := api.NewServer(an, coordinator, store, logger, cfg.AppPort)
	if err := server.Start(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
