// Package config loads service configuration from an optional YAML file
// and environment variables. Environment variables win over file values.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider names for LLM and embedding backends.
const (
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration values. It is built once at startup and
// passed explicitly to every component; there is no global mutable state.
type Config struct {
	// HTTP server
	Port string `yaml:"port"`

	// LLM generation
	LLMProvider     string `yaml:"llm_provider"`
	LLMModel        string `yaml:"llm_model"`
	OpenAIAPIKey    string `yaml:"-"`
	AnthropicAPIKey string `yaml:"-"`
	OllamaHost      string `yaml:"ollama_host"`

	// Embedding
	EmbedProvider string `yaml:"embed_provider"`
	EmbedModel    string `yaml:"embed_model"`

	// SurrealDB chat history store
	SurrealDBURL       string `yaml:"surrealdb_url"`
	SurrealDBNamespace string `yaml:"surrealdb_namespace"`
	SurrealDBDatabase  string `yaml:"surrealdb_database"`
	SurrealDBUser      string `yaml:"-"`
	SurrealDBPass      string `yaml:"-"`
	SurrealDBAuthLevel string `yaml:"surrealdb_auth_level"`

	// Document corpus and retrieval
	DocumentsDir string `yaml:"documents_dir"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Load builds the configuration: defaults, then the YAML config file if one
// exists (./config.yaml or $DOCCHAT_CONFIG), then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	path := os.Getenv("DOCCHAT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	if err := applyFile(&cfg, path); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)

	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return Config{}, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", cfg.ChunkOverlap, cfg.ChunkSize)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Port: "3000",

		LLMProvider: ProviderOpenAI,
		LLMModel:    "gpt-3.5-turbo",
		OllamaHost:  "http://localhost:11434",

		EmbedProvider: ProviderOpenAI,
		EmbedModel:    "text-embedding-ada-002",

		SurrealDBURL:       "ws://localhost:8000/rpc",
		SurrealDBNamespace: "docchat",
		SurrealDBDatabase:  "chat",
		SurrealDBUser:      "root",
		SurrealDBPass:      "root",
		SurrealDBAuthLevel: "root",

		DocumentsDir: "./documents",
		ChunkSize:    1000,
		ChunkOverlap: 200,
		TopK:         4,

		LogLevel: slog.LevelInfo,
	}
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setEnv(&cfg.Port, "PORT")

	setEnv(&cfg.LLMProvider, "DOCCHAT_LLM_PROVIDER")
	setEnv(&cfg.LLMModel, "DOCCHAT_LLM_MODEL")
	setEnv(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	setEnv(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setEnv(&cfg.OllamaHost, "OLLAMA_HOST")

	setEnv(&cfg.EmbedProvider, "DOCCHAT_EMBED_PROVIDER")
	setEnv(&cfg.EmbedModel, "DOCCHAT_EMBED_MODEL")

	setEnv(&cfg.SurrealDBURL, "SURREALDB_URL")
	setEnv(&cfg.SurrealDBNamespace, "SURREALDB_NAMESPACE")
	setEnv(&cfg.SurrealDBDatabase, "SURREALDB_DATABASE")
	setEnv(&cfg.SurrealDBUser, "SURREALDB_USER")
	setEnv(&cfg.SurrealDBPass, "SURREALDB_PASS")
	setEnv(&cfg.SurrealDBAuthLevel, "SURREALDB_AUTH_LEVEL")

	setEnv(&cfg.DocumentsDir, "DOCCHAT_DOCUMENTS_DIR")
	setEnvInt(&cfg.ChunkSize, "DOCCHAT_CHUNK_SIZE")
	setEnvInt(&cfg.ChunkOverlap, "DOCCHAT_CHUNK_OVERLAP")
	setEnvInt(&cfg.TopK, "DOCCHAT_TOP_K")

	setEnv(&cfg.LogFile, "DOCCHAT_LOG_FILE")
	if val := os.Getenv("DOCCHAT_LOG_LEVEL"); val != "" {
		cfg.LogLevel = parseLogLevel(val)
	}
}

func setEnv(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setEnvInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
