// Package app wires configuration into a running answer engine. Both the CLI
// and the API server build their dependencies through it.
package app

import (
	"fmt"

	"github.com/Jeyavarman-2005/mechmate/internal/cache"
	"github.com/Jeyavarman-2005/mechmate/internal/config"
	"github.com/Jeyavarman-2005/mechmate/internal/embedding"
	"github.com/Jeyavarman-2005/mechmate/internal/engine"
	"github.com/Jeyavarman-2005/mechmate/internal/generation"
	"github.com/Jeyavarman-2005/mechmate/internal/observability"
	"github.com/Jeyavarman-2005/mechmate/internal/query"
	"github.com/Jeyavarman-2005/mechmate/internal/store"
)

// App holds the constructed service graph.
type App struct {
	Config   *config.Config
	Logger   *observability.Logger
	Snapshot *store.Snapshot
	Answerer *engine.Answerer

	cacheClient cache.Client
	sqlStore    *store.SQLStore
}

// New builds the store, cache, embedding and engine layers from config.
func New(cfg *config.Config, logger *observability.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	src, err := a.buildStore()
	if err != nil {
		return nil, err
	}
	a.Snapshot = store.NewSnapshot(src, logger, cfg.Engine.DateLayouts)

	vocab := query.Vocabulary{
		MachineNames:    cfg.Vocabulary.MachineNames,
		TechnicianNames: cfg.Vocabulary.TechnicianNames,
		IssuePhrases:    cfg.Vocabulary.IssuePhrases,
	}
	if len(vocab.MachineNames) == 0 && len(vocab.TechnicianNames) == 0 && len(vocab.IssuePhrases) == 0 {
		vocab = query.DefaultVocabulary()
	}

	opts := engine.Options{Logger: logger}

	var embedder embedding.Embedder
	if cfg.Embedding.APIKey != "" {
		client, err := embedding.NewClient(embedding.Config{
			APIKey:    cfg.Embedding.APIKey,
			Model:     cfg.Embedding.Model,
			BaseURL:   cfg.Embedding.BaseURL,
			Dimension: cfg.Embedding.Dimension,
			Timeout:   cfg.Embedding.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("building embedding client: %w", err)
		}
		embedder = client
		opts.Matcher = engine.NewMatcher(embedder, cfg.Engine.FallbackThreshold, logger)
	}
	if cfg.Engine.Classifier == "semantic" {
		if embedder == nil {
			return nil, fmt.Errorf("semantic classifier requires an embedding api key")
		}
		opts.Semantic = query.NewSemanticClassifier(embedder, cfg.Engine.IntentThreshold)
	}

	if cfg.Generation.Enabled {
		gen, err := generation.NewOpenAIGenerator(generation.Config{
			APIKey:      cfg.Generation.APIKey,
			BaseURL:     cfg.Generation.BaseURL,
			Model:       cfg.Generation.Model,
			MaxTokens:   cfg.Generation.MaxTokens,
			Temperature: cfg.Generation.Temp,
		})
		if err != nil {
			return nil, fmt.Errorf("building generator: %w", err)
		}
		opts.Generator = gen
	}

	if cfg.Engine.CacheAnswers {
		c, err := a.buildCache()
		if err != nil {
			return nil, err
		}
		a.cacheClient = c
		opts.Cache = c
		opts.CacheTTL = cfg.Cache.TTL
	}

	a.Answerer = engine.NewAnswerer(a.Snapshot, vocab, opts)
	return a, nil
}

func (a *App) buildStore() (store.Store, error) {
	cfg := a.Config
	switch cfg.Store.Driver {
	case "sheets":
		return store.NewSheetsStore(store.SheetsConfig{
			SpreadsheetID: cfg.Store.Sheets.SpreadsheetID,
			Range:         cfg.Store.Sheets.Range,
			APIKey:        cfg.Store.Sheets.APIKey,
			BaseURL:       cfg.Store.Sheets.BaseURL,
			Timeout:       cfg.Store.FetchTimeout,
		})
	case "csv":
		if cfg.Store.CSV.Path == "" {
			return nil, fmt.Errorf("store: csv driver requires a path")
		}
		return store.NewCSVStore(cfg.Store.CSV.Path), nil
	case "sqlite":
		s, err := store.NewSQLStore(store.SQLConfig{
			Driver: "sqlite",
			DSN:    cfg.Store.SQLite.Path,
			Table:  cfg.Store.SQLite.Table,
		})
		if err != nil {
			return nil, err
		}
		a.sqlStore = s
		return s, nil
	case "postgres":
		s, err := store.NewSQLStore(store.SQLConfig{
			Driver: "postgres",
			DSN:    cfg.Store.PG.DSN,
			Table:  cfg.Store.PG.Table,
		})
		if err != nil {
			return nil, err
		}
		a.sqlStore = s
		return s, nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Store.Driver)
	}
}

func (a *App) buildCache() (cache.Client, error) {
	cfg := a.Config
	switch cfg.Cache.Driver {
	case "redis":
		return cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
	case "", "memory":
		return cache.NewMemoryClient(cfg.Cache.MaxEntries), nil
	default:
		return nil, fmt.Errorf("cache: unknown driver %q", cfg.Cache.Driver)
	}
}

// Close releases held connections.
func (a *App) Close() error {
	var first error
	if a.cacheClient != nil {
		if err := a.cacheClient.Close(); err != nil {
			first = err
		}
	}
	if a.sqlStore != nil {
		if err := a.sqlStore.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
