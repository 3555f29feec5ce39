package cmd

import (
	"context"
	"fmt"

	"github.com/lta/newsbridge/internal/cache"
	"github.com/lta/newsbridge/internal/config"
	"github.com/lta/newsbridge/internal/logger"
	"github.com/lta/newsbridge/internal/secrets"
	"github.com/lta/newsbridge/internal/storage"
	newssync "github.com/lta/newsbridge/internal/sync"
	"github.com/lta/newsbridge/internal/wordpress"
)

// app bundles the wired collaborators shared by the serve and sync
// commands.
type app struct {
	store  storage.Store
	guard  cache.SyncGuard
	syncer *newssync.Syncer
	plugin *wordpress.PluginClient
}

func buildApp(cfg *config.Config) (*app, error) {
	store, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("initializing news store: %w", err)
	}

	var guard cache.SyncGuard
	if cfg.RedisURL != "" {
		guard, err = cache.NewRedisGuard(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("initializing redis sync guard: %w", err)
		}
	} else {
		logger.Get().Info().Msg("REDIS_URL not set, using in-memory sync guard")
		guard = cache.NewMemoryGuard()
	}

	wpCfg := wordpress.Config{
		SiteURL:     cfg.WPSiteURL,
		Username:    cfg.WPUsername,
		AppPassword: cfg.WPAppPassword,
	}

	rest, err := wordpress.NewClient(wpCfg,
		wordpress.WithTimeouts(cfg.WPListTimeout, cfg.WPPostTimeout))
	if err != nil {
		return nil, err
	}
	fallback, err := wordpress.NewXMLRPCClient(wpCfg, cfg.WPListTimeout)
	if err != nil {
		return nil, err
	}

	keys := cache.NewKeyCache(cfg.PluginKeyCacheTTL, func(ctx context.Context) (string, error) {
		return secrets.Decrypt(cfg.PluginKeySecret, cfg.PluginAPIKeyEncrypted)
	})
	plugin := wordpress.NewPluginClient(cfg.WPSiteURL, keys, cfg.WPWriteTimeout)

	return &app{
		store:  store,
		guard:  guard,
		syncer: newssync.NewSyncer(rest, fallback, store, guard, cfg.WPSyncLimit),
		plugin: plugin,
	}, nil
}

func (a *app) close() {
	if err := a.guard.Close(); err != nil {
		logger.Get().Error().Err(err).Msg("Error closing sync guard")
	}
}
