package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/config"
	"github.com/Veraticus/petit-bac/internal/engine"
	"github.com/Veraticus/petit-bac/internal/metrics"
	"github.com/Veraticus/petit-bac/internal/service"
	"github.com/Veraticus/petit-bac/internal/storage"
	"github.com/Veraticus/petit-bac/internal/validator"
	"github.com/Veraticus/petit-bac/internal/wordlist"
)

// app bundles everything a command needs to validate words.
type app struct {
	store    service.CacheAdmin
	lists    *wordlist.Lists
	svc      *service.ValidationService
	registry *prometheus.Registry
	cfg      config.Config
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, common.NewUserError("Invalid configuration", err)
	}
	return cfg, nil
}

// openStore opens the configured cache backend, migrating SQLite as needed.
func openStore(ctx context.Context, cfg config.Config) (service.CacheAdmin, error) {
	switch cfg.CacheBackend {
	case config.BackendRedis:
		store, err := storage.OpenRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, common.NewUserError("Could not reach the Redis cache", err)
		}
		return store, nil
	case config.BackendSQLite:
		store, err := storage.OpenSQLite(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, common.NewUserError("Could not open the word cache", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedStore, cfg.CacheBackend)
	}
}

func loadWordLists(cfg config.Config) (*wordlist.Lists, error) {
	if cfg.WordListsPath == "" {
		return wordlist.Default()
	}
	lists, err := wordlist.LoadFile(cfg.WordListsPath)
	if err != nil {
		return nil, common.NewUserError("Could not load word lists", err)
	}
	return lists, nil
}

// newApp wires the store, validators, engine and service from config.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	lists, err := loadWordLists(cfg)
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	eng := engine.NewWithConfig(
		engine.Config{
			Observer:            recorder,
			ConfidenceThreshold: cfg.ConfidenceThreshold,
		},
		validator.NewCacheValidator(store),
		validator.NewFixedListValidator(lists),
		validator.NewWebValidator(validator.WebConfig{
			BaseURL:   cfg.WebBaseURL,
			Timeout:   cfg.WebTimeout,
			RateLimit: cfg.WebRateLimit,
			Enabled:   cfg.WebEnabled,
		}),
		validator.NewSemanticValidator(cfg.SemanticEnabled),
	)

	svc := service.NewValidationServiceWithConfig(eng, store, service.Config{
		CacheWriteObserver: recorder,
	})

	common.LogDebug("Validation service ready", common.Fields{
		"backend":    cfg.CacheBackend,
		"validators": svc.AvailableValidators(),
		"threshold":  svc.ConfidenceThreshold(),
	})

	return &app{
		cfg:      cfg,
		store:    store,
		lists:    lists,
		svc:      svc,
		registry: registry,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		common.LogError(err, "Failed to close cache store", common.Fields{"backend": a.cfg.CacheBackend})
	}
}
