package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting. Values come from environment
// variables, optionally overridden by a YAML file named in CONFIG_FILE.
type Config struct {
	AppPort int `yaml:"app_port"`

	EmbeddingURL string `yaml:"embedding_url"`
	KnowledgeDir string `yaml:"knowledge_dir"`

	LLMProvider string  `yaml:"llm_provider"`
	GeminiKey   string  `yaml:"gemini_api_key"`
	LLMModel    string  `yaml:"llm_model"`
	OllamaURL   string  `yaml:"ollama_url"`
	OllamaModel string  `yaml:"ollama_model"`
	Temperature float64 `yaml:"temperature"`

	QdrantHost string `yaml:"qdrant_host"`
	QdrantPort int    `yaml:"qdrant_port"`

	JobStorePath string `yaml:"job_store_path"`

	ScrapeTimeout time.Duration `yaml:"scrape_timeout"`
	LLMTimeout    time.Duration `yaml:"llm_timeout"`

	BulkBatchSize int `yaml:"bulk_batch_size"`
	BulkMaxURLs   int `yaml:"bulk_max_urls"`

	BrowserEnabled bool `yaml:"browser_enabled"`
}

func Load() (*Config, error) {
	cfg := &Config{
		AppPort:        getEnvInt("APP_PORT", 8000),
		EmbeddingURL:   getEnv("EMBEDDING_URL", "http://localhost:8080"),
		KnowledgeDir:   getEnv("KNOWLEDGE_DIR", "knowledge_base"),
		LLMProvider:    getEnv("LLM_PROVIDER", "googleai"),
		GeminiKey:      getEnv("GEMINI_API_KEY", ""),
		LLMModel:       getEnv("LLM_MODEL", ""),
		OllamaURL:      getEnv("OLLAMA_URL", ""),
		OllamaModel:    getEnv("OLLAMA_MODEL", ""),
		Temperature:    getEnvFloat("LLM_TEMPERATURE", 0.3),
		QdrantHost:     getEnv("QDRANT_HOST", ""),
		QdrantPort:     getEnvInt("QDRANT_PORT", 6334),
		JobStorePath:   getEnv("JOB_STORE_PATH", ""),
		ScrapeTimeout:  getEnvDuration("SCRAPE_TIMEOUT", 15*time.Second),
		LLMTimeout:     getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		BulkBatchSize:  getEnvInt("BULK_BATCH_SIZE", 5),
		BulkMaxURLs:    getEnvInt("BULK_MAX_URLS", 500),
		BrowserEnabled: getEnvBool("BROWSER_ENABLED", false),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if cfg.AppPort <= 0 || cfg.AppPort > 65535 {
		return nil, fmt.Errorf("invalid app port %d", cfg.AppPort)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
