package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/booksyhq/booksy/internal/bookmarks"
	"github.com/booksyhq/booksy/internal/config"
	"github.com/booksyhq/booksy/internal/domain"
	"github.com/booksyhq/booksy/internal/httpserver"
	"github.com/booksyhq/booksy/internal/httpserver/deps"
	"github.com/booksyhq/booksy/internal/logger"
	"github.com/booksyhq/booksy/internal/metadata"
	"github.com/booksyhq/booksy/internal/profiles"
	"github.com/booksyhq/booksy/internal/redis"
	"github.com/booksyhq/booksy/internal/sources/snapshot"
	"github.com/booksyhq/booksy/internal/store"
	memorystore "github.com/booksyhq/booksy/internal/store/memory"
	redisstore "github.com/booksyhq/booksy/internal/store/redis"
	syncer "github.com/booksyhq/booksy/internal/sync"
	"github.com/booksyhq/booksy/internal/version"
	"github.com/booksyhq/booksy/internal/worker"
)

// stores groups the three store facets one backend satisfies at once.
type stores interface {
	store.BookmarkStore
	store.ProfileStore
	store.UserStore
}

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	pool        *worker.Pool
	reloader    *snapshot.Reloader
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Pick the store backend: redis when configured, in-memory otherwise.
	var (
		backend     stores
		shared      metadata.SharedCache
		redisClient *goredis.Client
	)
	if cfg.RedisAddr != "" {
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to redis: %v", err)
			os.Exit(1)
		}
		rs := redisstore.NewStore(client)
		backend, shared, redisClient = rs, rs, client
	} else {
		loggerClient.Info("redis not configured, using in-memory store")
		backend = memorystore.New()
	}

	if err := seedUsers(cfg, backend); err != nil {
		loggerClient.Errorf("Failed to seed users: %v", err)
		os.Exit(1)
	}

	pool := worker.NewPool(cfg.EnrichWorkers, 64, loggerClient)

	enricher := metadata.NewService(
		metadata.NewHTTPFetcher(cfg.FetchTimeout, cfg.MaxRedirects),
		metadata.NewHTTPFetcher(cfg.FaviconFetchTimeout, cfg.MaxRedirects),
		shared,
		loggerClient,
	)

	bookmarkSvc := bookmarks.NewService(backend, backend, enricher, pool, loggerClient)
	profileSvc := profiles.NewService(backend)
	reconciler := syncer.New(backend, backend, loggerClient, bookmarkSvc.DispatchEnrichment)

	// Snapshot seed file (optional).
	var (
		reloader        *snapshot.Reloader
		snapshotTrigger chan struct{}
	)
	if cfg.SnapshotFile != "" {
		loggerClient.Info("snapshot file configured",
			logger.String("file", cfg.SnapshotFile))
		if err := ensureSnapshotScope(cfg, backend); err != nil {
			loggerClient.Errorf("Failed to prepare snapshot scope: %v", err)
			os.Exit(1)
		}
		snapshotTrigger = make(chan struct{}, 1)
		reloader = snapshot.NewReloader(
			cfg.SnapshotFile,
			reconciler,
			domain.Scope{UserID: cfg.SnapshotUserID, ProfileID: cfg.SnapshotProfile},
			loggerClient,
			cfg.SnapshotInterval,
			snapshotTrigger,
		)
	}

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		Users:           backend,
		Bookmarks:       bookmarkSvc,
		Profiles:        profileSvc,
		Reconciler:      reconciler,
		SnapshotTrigger: snapshotTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		pool:        pool,
		reloader:    reloader,
	}
}

func seedUsers(cfg *config.Config, users store.UserStore) error {
	seed, err := cfg.ParseSeedUsers()
	if err != nil {
		return err
	}
	for id, username := range seed {
		u := &domain.User{ID: id, Username: username, CreatedAt: time.Now()}
		if err := users.SaveUser(context.Background(), u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", id, err)
		}
	}
	return nil
}

// ensureSnapshotScope makes the reloader's target scope resolvable.
// The reloader writes into {SnapshotUserID, SnapshotProfile}, and every
// read path resolves the profile first, so both the user and the
// profile must exist before the first sync.
func ensureSnapshotScope(cfg *config.Config, s stores) error {
	ctx := context.Background()

	if _, err := s.GetUser(ctx, cfg.SnapshotUserID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		u := &domain.User{
			ID:        cfg.SnapshotUserID,
			Username:  cfg.SnapshotUserID,
			CreatedAt: time.Now(),
		}
		if err := s.SaveUser(ctx, u); err != nil {
			return fmt.Errorf("failed to create snapshot user: %w", err)
		}
	}

	if _, err := s.GetProfile(ctx, cfg.SnapshotUserID, cfg.SnapshotProfile); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		now := time.Now()
		p := &domain.Profile{
			ID:        cfg.SnapshotProfile,
			UserID:    cfg.SnapshotUserID,
			Name:      "snapshot",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.SaveProfile(ctx, p); err != nil {
			return fmt.Errorf("failed to create snapshot profile: %w", err)
		}
	}

	return nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting booksyd v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("booksyd %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.pool.Start(ctx)
	a.logger.Info("enrichment pool started",
		logger.Int("workers", a.cfg.EnrichWorkers))

	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start snapshot reloader: %w", err)
		}
		a.logger.Info("snapshot reloader started",
			logger.Duration("interval", a.cfg.SnapshotInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}
	a.pool.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ booksyd stopped cleanly")
	return nil
}
