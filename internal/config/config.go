package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/wikigen/internal/logger"
)

const llmProviderGemini = "gemini"

// Config represents the top-level configuration structure.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	AI         AIConfig         `mapstructure:"ai"`
	Database   DBConfig         `mapstructure:"database"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Logging    logger.Config    `mapstructure:"logging"`
	Generation GenerationConfig `mapstructure:"generation"`
}

// ServerConfig controls the ambient HTTP surface used to expose progress
// events and a read-only wiki/notes API. It is not the spec's product UI.
type ServerConfig struct {
	Port       string `mapstructure:"port"`
	MaxWorkers int    `mapstructure:"max_workers"`
}

// AIConfig selects and tunes the LLM / embedding backends.
type AIConfig struct {
	LLMProvider      string   `mapstructure:"llm_provider"`
	EmbedderProvider string   `mapstructure:"embedder_provider"`
	OllamaHost       string   `mapstructure:"ollama_host"`
	GeminiAPIKey     string   `mapstructure:"gemini_api_key"`
	GeneratorModel   string   `mapstructure:"generator_model"`
	EmbedderModel    string   `mapstructure:"embedder_model"`
	EmbedderTask     string   `mapstructure:"embedder_task_description"`
	EnableHybrid     bool     `mapstructure:"enable_hybrid_search"`
	SparseVectorName string   `mapstructure:"sparse_vector_name"`
	EnableHyDE       bool     `mapstructure:"enable_hyde"`
	ComparisonModels []string `mapstructure:"comparison_models"`
	MaxConcurrentLLM int      `mapstructure:"max_concurrent_llm_calls"`
}

func (c *AIConfig) Validate() error {
	if len(c.ComparisonModels) == 0 {
		return nil
	}
	if len(c.ComparisonModels) > 10 {
		return errors.New("comparison_models cannot exceed 10 to prevent timeout cascades")
	}
	seen := make(map[string]bool)
	for _, m := range c.ComparisonModels {
		if strings.TrimSpace(m) == "" {
			return errors.New("comparison_models cannot contain empty model names")
		}
		if seen[m] {
			return fmt.Errorf("duplicate model in comparison_models: %s", m)
		}
		seen[m] = true
	}
	return nil
}

// GenerationConfig tunes the orchestrator's pipeline behaviour.
type GenerationConfig struct {
	ParallelLimit        int     `mapstructure:"parallel_limit"`
	ContextTokenBudget   int     `mapstructure:"context_token_budget"`
	MaxFileSizeBytes     int64   `mapstructure:"max_file_size_bytes"`
	TokensPerCharRatio   float64 `mapstructure:"tokens_per_char_ratio"`
	TokenOverheadPercent float64 `mapstructure:"token_overhead_percent"`
	FirewallMaxNonASCII  float64 `mapstructure:"firewall_max_non_ascii_ratio"`
	EvidenceMinScore     float64 `mapstructure:"evidence_min_score"`
	RetrievalTopK        int     `mapstructure:"retrieval_top_k"`
	// EvidenceGateMode is "gated" (refuse when evidence is insufficient) or
	// "loose" (answer anyway with a limited-evidence disclaimer).
	EvidenceGateMode string `mapstructure:"evidence_gate_mode"`
}

type StorageConfig struct {
	QdrantHost string `mapstructure:"qdrant_host"`
	// WikiPath is the hidden directory (default ".wikigen") a repo's
	// generated pages, notes mirror, synthesis.json and generation.marker
	// live under, relative to the repository root.
	WikiPath string `mapstructure:"wiki_path"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// LoadConfig loads the configuration using Viper with the hierarchy:
// Env Vars > Config File > Defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.wikigen")

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded configuration", "file", v.ConfigFileUsed())
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.max_workers", 5)

	v.SetDefault("ai.llm_provider", "ollama")
	v.SetDefault("ai.embedder_provider", "ollama")
	v.SetDefault("ai.ollama_host", "http://localhost:11434")
	v.SetDefault("ai.embedder_model", "nomic-embed-text")
	v.SetDefault("ai.embedder_task_description", "search_document")
	v.SetDefault("ai.enable_hybrid_search", true)
	v.SetDefault("ai.sparse_vector_name", "bow_sparse")
	v.SetDefault("ai.enable_hyde", false)
	v.SetDefault("ai.max_concurrent_llm_calls", 4)

	v.SetDefault("storage.qdrant_host", "localhost:6334")
	v.SetDefault("storage.wiki_path", ".wikigen")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "wikigen")
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.conn_max_idle_time", "5m")

	v.SetDefault("generation.parallel_limit", 8)
	v.SetDefault("generation.context_token_budget", 6000)
	v.SetDefault("generation.max_file_size_bytes", 500*1024)
	v.SetDefault("generation.tokens_per_char_ratio", 0.25)
	v.SetDefault("generation.token_overhead_percent", 50)
	v.SetDefault("generation.firewall_max_non_ascii_ratio", 0.01)
	v.SetDefault("generation.evidence_min_score", 0.42)
	v.SetDefault("generation.retrieval_top_k", 12)
	v.SetDefault("generation.evidence_gate_mode", "gated")
}

func (c *Config) ValidateForCLI() error {
	if (c.AI.LLMProvider == llmProviderGemini || c.AI.EmbedderProvider == llmProviderGemini) && c.AI.GeminiAPIKey == "" {
		return errors.New("ai.gemini_api_key is required for gemini provider")
	}
	return c.AI.Validate()
}

func (db *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.Username, db.Password, db.Database, db.SSLMode)
}
