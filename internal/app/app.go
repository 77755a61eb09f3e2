// Package app assembles the editor and its storage from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/Rrens/interaction-drafts/internal/api/handler"
	"github.com/Rrens/interaction-drafts/internal/autosave"
	"github.com/Rrens/interaction-drafts/internal/config"
	"github.com/Rrens/interaction-drafts/internal/draft"
	"github.com/Rrens/interaction-drafts/internal/remote"
	"github.com/Rrens/interaction-drafts/internal/repository/postgres"
	"github.com/Rrens/interaction-drafts/internal/repository/redis"
	"github.com/Rrens/interaction-drafts/internal/repository/sqlite"
	"github.com/Rrens/interaction-drafts/internal/sanitize"
	"github.com/Rrens/interaction-drafts/internal/service"
	"github.com/Rrens/interaction-drafts/internal/transfer"
	"github.com/Rrens/interaction-drafts/internal/workspace"
	"github.com/rs/zerolog/log"
)

// App holds the assembled editor and the resources it owns
type App struct {
	Editor      *service.EditorService
	Backend     draft.Backend
	RateLimiter *redis.RateLimiter
	Ready       []handler.Pinger

	scheduler *autosave.Scheduler
	closers   []func()
}

// Build wires the editor for cfg. clipboard may be nil.
func Build(ctx context.Context, cfg *config.Config, clipboard transfer.Clipboard) (*App, error) {
	a := &App{}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() || cfg.Draft.Backend == config.BackendRedis {
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		redisClient = client
		a.closers = append(a.closers, func() { client.Close() })
		a.Ready = append(a.Ready, client)
		a.RateLimiter = redis.NewRateLimiter(
			client,
			cfg.Security.RateLimit.RequestsPerMinute,
			cfg.Security.RateLimit.Burst,
		)
	}

	backend, err := a.openBackend(ctx, cfg, redisClient)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Backend = backend
	log.Info().Str("backend", backend.Name()).Str("key", cfg.Draft.Key).Msg("Draft storage ready")

	sanitizer := sanitize.New()
	repo := workspace.NewRepository(cfg.Editor, sanitizer)
	store := draft.NewStore(backend, cfg.Draft.Key, repo)
	a.scheduler = autosave.NewScheduler(store, cfg.Draft.AutosaveDelay)
	syncer := remote.New(cfg.Remote)
	a.closers = append(a.closers, func() { syncer.Close() })

	a.Editor = service.NewEditorService(
		repo,
		sanitizer,
		store,
		a.scheduler,
		syncer,
		transfer.NewCodec(clipboard),
		service.LogNotifier{},
	)
	a.Editor.Init(ctx)

	return a, nil
}

func (a *App) openBackend(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (draft.Backend, error) {
	switch cfg.Draft.Backend {
	case config.BackendMemory:
		return draft.NewMemoryBackend(), nil
	case config.BackendFile:
		return draft.NewFileBackend(cfg.Draft.Dir), nil
	case config.BackendRedis:
		return redis.NewDraftBackend(redisClient), nil
	case config.BackendSQLite:
		backend, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { backend.Close() })
		return backend, nil
	case config.BackendPostgres:
		if err := postgres.RunMigrations(cfg.Database.DSN(), cfg.Database.MigrationsURL); err != nil {
			return nil, err
		}
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.Ready = append(a.Ready, db)
		return postgres.NewDraftBackend(db), nil
	default:
		return nil, fmt.Errorf("unknown draft backend %q", cfg.Draft.Backend)
	}
}

// Close flushes the pending draft and releases every resource, in reverse order
func (a *App) Close() {
	if a.Editor != nil {
		a.Editor.Deactivate()
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
