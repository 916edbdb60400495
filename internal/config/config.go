package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"shoprag/internal/domain"
)

// MongoConfig contains connection details for the chunk store. The URI is
// never read from the config file; it comes from the MONGODB_URI environment
// variable.
type MongoConfig struct {
	URI              string `yaml:"-"`
	Database         string `yaml:"database"`
	ChunksCollection string `yaml:"chunks_collection"`
	DocsCollection   string `yaml:"documents_collection"`
	StatusCollection string `yaml:"status_collection"`
	SearchIndex      string `yaml:"search_index"`
	TimeoutSecs      int    `yaml:"timeout_secs"`
}

// ShopifyConfig configures the commerce API client. The admin token comes
// from SHOPIFY_ADMIN_TOKEN.
type ShopifyConfig struct {
	Shop        string `yaml:"shop"`
	AccessToken string `yaml:"-"`
	PageSize    int    `yaml:"page_size"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// LLMConfig configures the chat-completion endpoint. The API key comes from
// LLM_API_KEY.
type LLMConfig struct {
	BaseURL      string  `yaml:"base_url"`
	APIKey       string  `yaml:"-"`
	Model        string  `yaml:"model"`
	MaxTokens    int     `yaml:"max_tokens"`
	Temperature  float64 `yaml:"temperature"`
	SystemPrompt string  `yaml:"system_prompt"`
	TimeoutSecs  int     `yaml:"timeout_secs"`
}

// ChunkerConfig configures how document text is split into chunks.
type ChunkerConfig struct {
	MaxWords int `yaml:"max_words"`
}

// RetrievalConfig configures query-time behavior.
type RetrievalConfig struct {
	TopK        int `yaml:"top_k"`
	SampleLimit int `yaml:"sample_limit"`
}

// Config is the root application configuration, constructed once at startup
// and passed into component constructors. No component reads the environment
// directly.
type Config struct {
	Mongo     MongoConfig     `yaml:"mongo"`
	Shopify   ShopifyConfig   `yaml:"shopify"`
	LLM       LLMConfig       `yaml:"llm"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// Load reads a config from the given path. If the file does not exist,
// defaults are returned. Secrets are filled from the environment afterwards.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fromEnv()
	applyDefaults(&cfg)
	return &cfg, nil
}

// fromEnv fills secrets and environment overrides. Call godotenv.Load in main
// before Load so a local .env is honored.
func (c *Config) fromEnv() {
	c.Mongo.URI = os.Getenv("MONGODB_URI")
	if v := os.Getenv("MONGO_DB"); v != "" {
		c.Mongo.Database = v
	}
	if v := os.Getenv("MONGO_COLLECTION"); v != "" {
		c.Mongo.ChunksCollection = v
	}
	if v := os.Getenv("SEARCH_INDEX"); v != "" {
		c.Mongo.SearchIndex = v
	}
	if v := os.Getenv("SHOPIFY_SHOP"); v != "" {
		c.Shopify.Shop = v
	}
	c.Shopify.AccessToken = os.Getenv("SHOPIFY_ADMIN_TOKEN")
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	c.LLM.APIKey = os.Getenv("LLM_API_KEY")
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
}

// Validate checks mandatory settings. The store connection string is the one
// hard requirement: without it nothing works.
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("%w: MONGODB_URI is not set", domain.ErrMissingConfig)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "shoprag"
	}
	if cfg.Mongo.ChunksCollection == "" {
		cfg.Mongo.ChunksCollection = "chunks"
	}
	if cfg.Mongo.DocsCollection == "" {
		cfg.Mongo.DocsCollection = "documents"
	}
	if cfg.Mongo.StatusCollection == "" {
		cfg.Mongo.StatusCollection = "ingest_status"
	}
	if cfg.Mongo.SearchIndex == "" {
		cfg.Mongo.SearchIndex = "default"
	}
	if cfg.Mongo.TimeoutSecs == 0 {
		cfg.Mongo.TimeoutSecs = 5
	}
	if cfg.Shopify.PageSize == 0 {
		cfg.Shopify.PageSize = 50
	}
	if cfg.Shopify.TimeoutSecs == 0 {
		cfg.Shopify.TimeoutSecs = 60
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "openai/gpt-oss-20b"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 512
	}
	if cfg.LLM.SystemPrompt == "" {
		cfg.LLM.SystemPrompt = "You are a helpful assistant. Use the provided source passages and cite sources when possible."
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 120
	}
	if cfg.Chunker.MaxWords == 0 {
		cfg.Chunker.MaxWords = 280
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 6
	}
	if cfg.Retrieval.SampleLimit == 0 {
		cfg.Retrieval.SampleLimit = 500
	}
}
