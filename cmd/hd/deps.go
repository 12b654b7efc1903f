package main

import (
	"context"
	"os"
	"time"

	"github.com/alfredjeanlab/hiredesk/internal/client"
	"github.com/alfredjeanlab/hiredesk/internal/dashboard"
	"github.com/alfredjeanlab/hiredesk/internal/logo"
	"github.com/alfredjeanlab/hiredesk/internal/pipeline"
	"github.com/alfredjeanlab/hiredesk/internal/store"
	"github.com/alfredjeanlab/hiredesk/internal/store/postgres"
)

func newDashboard() *dashboard.App {
	opts := []dashboard.Option{
		dashboard.WithNotifier(dashboard.NewWriterNotifier(os.Stderr)),
		dashboard.WithPublisher(publisher),
		dashboard.WithLogger(logger),
	}
	if r := newLogoResolver(); r != nil {
		opts = append(opts, dashboard.WithLogos(r))
	}
	return dashboard.NewApp(api, opts...)
}

func newBoard() *pipeline.Board {
	return pipeline.NewBoard(api, pipeline.WithPublisher(publisher), pipeline.WithLogger(logger))
}

// newLogoResolver returns nil when no logo API is configured. Lookups are
// cached in Redis when HIREDESK_REDIS_ADDR is reachable, else in memory.
func newLogoResolver() dashboard.LogoResolver {
	if cfg.LogoAPIURL == "" {
		return nil
	}
	var cache logo.Cache = logo.NewMemoryCache(logo.DefaultTTL)
	if cfg.RedisAddr != "" {
		rc := logo.NewRedisCache(logo.NewRedisClient(cfg.RedisAddr, "", 0), logo.DefaultTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rc.Ping(ctx)
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, caching logos in memory", "addr", cfg.RedisAddr, "err", err)
			_ = rc.Close()
		} else {
			cache = rc
			closers = append(closers, rc.Close)
		}
	}
	return client.NewLogoClient(cfg.LogoAPIURL, cfg.LogoAPIKey, cache, logger)
}

// openStore connects to the saved-view database.
func openStore(ctx context.Context) (store.Store, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	s, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	closers = append(closers, s.Close)
	return s, nil
}
