package main

import (
	"context"
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"shoprag/internal/chunker"
	"shoprag/internal/config"
	"shoprag/internal/ingest"
	"shoprag/internal/llm"
	"shoprag/internal/service"
	"shoprag/internal/shopify"
	mongostore "shoprag/internal/store/mongo"
	"shoprag/internal/tui"
	"shoprag/internal/upload"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := mongostore.Connect(ctx, mongostore.Config{
		URI:              cfg.Mongo.URI,
		Database:         cfg.Mongo.Database,
		ChunksCollection: cfg.Mongo.ChunksCollection,
		DocsCollection:   cfg.Mongo.DocsCollection,
		StatusCollection: cfg.Mongo.StatusCollection,
		SearchIndex:      cfg.Mongo.SearchIndex,
		Timeout:          time.Duration(cfg.Mongo.TimeoutSecs) * time.Second,
	})
	cancel()
	if err != nil {
		log.Fatalf("failed to connect to store: %v", err)
	}

	ch := chunker.NewWordChunker(cfg.Chunker.MaxWords)
	fetcher := shopify.NewClient(shopify.Config{
		Shop:        cfg.Shopify.Shop,
		AccessToken: cfg.Shopify.AccessToken,
		PageSize:    cfg.Shopify.PageSize,
		Timeout:     time.Duration(cfg.Shopify.TimeoutSecs) * time.Second,
	})
	completer := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})

	retriever := service.NewRetriever(st, cfg.Retrieval.SampleLimit)
	answerer := service.NewAnswerer(completer, cfg.LLM.SystemPrompt)
	// The TUI owns the terminal; pipeline progress surfaces through status
	// records instead of log lines.
	pipeline := ingest.New(fetcher, ch, st, nil)
	indexer := upload.NewIndexer(st, ch)

	m := tui.New(retriever, answerer, pipeline, indexer, st, cfg.Retrieval.TopK)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
