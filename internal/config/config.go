// Package config provides unified configuration loading for MechMate.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for MechMate.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Store         StoreConfig         `yaml:"store"`
	Cache         CacheConfig         `yaml:"cache"`
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	Generation    GenerationConfig    `yaml:"generation"`
	Engine        EngineConfig        `yaml:"engine"`
	Vocabulary    VocabularyConfig    `yaml:"vocabulary"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// StoreConfig holds record store settings.
type StoreConfig struct {
	Driver string       `yaml:"driver"` // sheets, csv, sqlite or postgres
	Sheets SheetsConfig `yaml:"sheets"`
	CSV    CSVConfig    `yaml:"csv"`
	SQLite SQLiteConfig `yaml:"sqlite"`
	PG     PGConfig     `yaml:"postgres"`
	// FetchTimeout bounds a single snapshot fetch.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// SheetsConfig holds Google Sheets source settings.
type SheetsConfig struct {
	SpreadsheetID string `yaml:"spreadsheet_id"`
	Range         string `yaml:"range"`
	APIKey        string `yaml:"api_key"`
	BaseURL       string `yaml:"base_url"`
}

// CSVConfig holds CSV file source settings.
type CSVConfig struct {
	Path string `yaml:"path"`
}

// SQLiteConfig holds SQLite source settings.
type SQLiteConfig struct {
	Path  string `yaml:"path"`
	Table string `yaml:"table"`
}

// PGConfig holds Postgres source settings.
type PGConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// CacheConfig holds answer cache settings.
type CacheConfig struct {
	Driver     string        `yaml:"driver"` // memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey    string        `yaml:"api_key"`
	Model     string        `yaml:"model"`
	BaseURL   string        `yaml:"base_url"`
	Dimension int           `yaml:"dimension"`
	BatchSize int           `yaml:"batch_size"`
	Timeout   time.Duration `yaml:"timeout"`
}

// GenerationConfig holds the escalation LLM settings.
type GenerationConfig struct {
	Enabled   bool    `yaml:"enabled"`
	APIKey    string  `yaml:"api_key"`
	Model     string  `yaml:"model"`
	BaseURL   string  `yaml:"base_url"`
	MaxTokens int     `yaml:"max_tokens"`
	Temp      float64 `yaml:"temperature"`
}

// EngineConfig holds query understanding and retrieval settings.
type EngineConfig struct {
	// Classifier selects the intent strategy: rules or semantic.
	Classifier string `yaml:"classifier"`
	// IntentThreshold is the minimum cosine similarity for the semantic
	// classifier to accept an intent.
	IntentThreshold float64 `yaml:"intent_threshold"`
	// FallbackThreshold is the minimum cosine similarity for the record
	// fallback matcher to accept a best match.
	FallbackThreshold float64 `yaml:"fallback_threshold"`
	// CacheAnswers enables caching of formatted answers.
	CacheAnswers bool `yaml:"cache_answers"`
	// DateLayouts lists accepted repair date layouts, canonical first.
	// Empty means the built-in defaults.
	DateLayouts []string `yaml:"date_layouts"`
}

// VocabularyConfig holds the closed entity vocabularies. Kept in config
// rather than code so deployments can localize them.
type VocabularyConfig struct {
	MachineNames    []string `yaml:"machine_names"`
	TechnicianNames []string `yaml:"technician_names"`
	IssuePhrases    []string `yaml:"issue_phrases"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8090,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     30 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver: "csv",
			Sheets: SheetsConfig{
				Range:   "Sheet1",
				BaseURL: "https://sheets.googleapis.com/v4",
			},
			CSV: CSVConfig{
				Path: "maintenance_log.csv",
			},
			SQLite: SQLiteConfig{
				Path:  "/tmp/mechmate.db",
				Table: "maintenance_log",
			},
			PG: PGConfig{
				Table: "maintenance_log",
			},
			FetchTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Driver:     "memory",
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
			},
		},
		Embedding: EmbeddingConfig{
			Model:     "embed-english-v3.0",
			BaseURL:   "https://api.cohere.com/v1",
			Dimension: 1024,
			BatchSize: 96,
			Timeout:   30 * time.Second,
		},
		Generation: GenerationConfig{
			Enabled:   false,
			Model:     "command",
			BaseURL:   "https://api.openai.com/v1",
			MaxTokens: 300,
			Temp:      0.7,
		},
		Engine: EngineConfig{
			Classifier:        "rules",
			IntentThreshold:   0.5,
			FallbackThreshold: 0.5,
			CacheAnswers:      true,
		},
		Vocabulary: VocabularyConfig{
			MachineNames: []string{
				"cnc machine",
				"lathe machine",
				"milling machine",
				"grinding machine",
				"drilling machine",
			},
			TechnicianNames: []string{
				"rajesh", "suresh", "vikram", "gopal", "sanjay", "manoj", "anil",
			},
			IssuePhrases: []string{
				"bearing failure",
				"spindle overheating",
				"unexpected shutdown",
				"excessive vibration",
				"chatter marks",
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Store.Driver {
	case "sheets", "csv", "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid store driver: %s", c.Store.Driver)
	}

	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	if c.Engine.Classifier != "rules" && c.Engine.Classifier != "semantic" {
		return fmt.Errorf("invalid classifier strategy: %s", c.Engine.Classifier)
	}

	if c.Engine.FallbackThreshold < 0 || c.Engine.FallbackThreshold > 1 {
		return fmt.Errorf("fallback_threshold must be in [0,1]")
	}

	if len(c.Vocabulary.MachineNames) == 0 {
		return fmt.Errorf("vocabulary.machine_names must not be empty")
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}

	if v := os.Getenv("SHEETS_SPREADSHEET_ID"); v != "" {
		cfg.Store.Driver = "sheets"
		cfg.Store.Sheets.SpreadsheetID = v
	}

	if v := os.Getenv("SHEETS_API_KEY"); v != "" {
		cfg.Store.Sheets.APIKey = v
	}

	if v := os.Getenv("MAINTENANCE_CSV_PATH"); v != "" {
		cfg.Store.CSV.Path = v
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		if strings.HasPrefix(v, "sqlite:") {
			cfg.Store.Driver = "sqlite"
			cfg.Store.SQLite.Path = strings.TrimPrefix(v, "sqlite:")
		} else if strings.HasPrefix(v, "postgres") {
			cfg.Store.Driver = "postgres"
			cfg.Store.PG.DSN = v
		}
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("EMBEDDING_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}

	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}

	if v := os.Getenv("EMBEDDING_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
	}

	if v := os.Getenv("GENERATION_API_KEY"); v != "" {
		cfg.Generation.APIKey = v
		cfg.Generation.Enabled = true
	}

	if v := os.Getenv("GENERATION_MODEL"); v != "" {
		cfg.Generation.Model = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
