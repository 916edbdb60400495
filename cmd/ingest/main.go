// Command ingest runs one full-refresh load from the shop into the chunk
// store, for operators who prefer ingesting out-of-band of the chat UI.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shoprag/internal/chunker"
	"shoprag/internal/config"
	"shoprag/internal/ingest"
	"shoprag/internal/shopify"
	mongostore "shoprag/internal/store/mongo"
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

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	st, err := mongostore.Connect(ctx, mongostore.Config{
		URI:              cfg.Mongo.URI,
		Database:         cfg.Mongo.Database,
		ChunksCollection: cfg.Mongo.ChunksCollection,
		DocsCollection:   cfg.Mongo.DocsCollection,
		StatusCollection: cfg.Mongo.StatusCollection,
		SearchIndex:      cfg.Mongo.SearchIndex,
		Timeout:          time.Duration(cfg.Mongo.TimeoutSecs) * time.Second,
	})
	if err != nil {
		logger.Fatal("failed to connect to store", zap.Error(err))
	}
	defer st.Close(context.Background())

	fetcher := shopify.NewClient(shopify.Config{
		Shop:        cfg.Shopify.Shop,
		AccessToken: cfg.Shopify.AccessToken,
		PageSize:    cfg.Shopify.PageSize,
		Timeout:     time.Duration(cfg.Shopify.TimeoutSecs) * time.Second,
	})
	pipeline := ingest.New(fetcher, chunker.NewWordChunker(cfg.Chunker.MaxWords), st, logger)

	res, err := pipeline.Run(ctx)
	if err != nil {
		logger.Fatal("ingest failed", zap.Error(err))
	}
	if res.Documents == 0 {
		logger.Warn("no documents fetched from shop")
		return
	}
	logger.Info("done",
		zap.Int("documents", res.Documents),
		zap.Int("chunks", res.Chunks))
}
