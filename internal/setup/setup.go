package setup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/itchan-dev/nanabbs/internal/config"
	"github.com/itchan-dev/nanabbs/internal/display"
	"github.com/itchan-dev/nanabbs/internal/domain"
	"github.com/itchan-dev/nanabbs/internal/handler"
	"github.com/itchan-dev/nanabbs/internal/markdown"
	"github.com/itchan-dev/nanabbs/internal/middleware/ratelimiter"
	"github.com/itchan-dev/nanabbs/internal/service"
	"github.com/itchan-dev/nanabbs/internal/storage"
	"github.com/itchan-dev/nanabbs/internal/storage/pg"
	"github.com/itchan-dev/nanabbs/internal/storage/sqlite"
	"github.com/itchan-dev/nanabbs/internal/utils"
)

// rateLimitExpiration is how long an idle client's bucket is kept.
const rateLimitExpiration = time.Hour

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config      *config.Config
	Storage     *storage.Storage
	Handler     *handler.Handler
	PostLimiter *ratelimiter.UserRateLimiter
	Log         *slog.Logger
}

// OpenStorage connects to the engine named in the config.
func OpenStorage(ctx context.Context, cfg *config.Config) (*storage.Storage, error) {
	switch cfg.Public.Storage.Driver {
	case "postgres":
		return pg.New(ctx, cfg.Private.Pg)
	case "sqlite":
		return sqlite.New(ctx, cfg.Public.Storage.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Public.Storage.Driver)
	}
}

// Migrate applies the schema of the configured engine.
func Migrate(ctx context.Context, cfg *config.Config, s *storage.Storage) error {
	switch cfg.Public.Storage.Driver {
	case "postgres":
		return pg.Migrate(ctx, s)
	case "sqlite":
		return sqlite.Migrate(ctx, s)
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Public.Storage.Driver)
	}
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Dependencies, error) {
	store, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	deps, err := NewDependencies(cfg, store, log)
	if err != nil {
		store.Cleanup()
		return nil, err
	}
	return deps, nil
}

// NewDependencies wires services and handlers over an open store.
func NewDependencies(cfg *config.Config, store *storage.Storage, log *slog.Logger) (*Dependencies, error) {
	public := cfg.Public
	board := domain.Board{
		Name:              public.Board.Name,
		LocalRule:         public.Board.LocalRule,
		DefaultAuthorName: public.Board.DefaultAuthorName,
	}
	if cfg.Private.HashSalt == "" {
		log.Warn("hash_salt is not set, poster ids will change on restart")
	}

	deriver := display.New(board.DefaultAuthorName)
	threads := service.NewThread(store, deriver, log)
	boards := service.NewBoard(store, deriver, board, public.Index, log)
	posts := service.NewPost(store, utils.NewHasher(cfg.Private.HashSalt), public.Posting, log)

	h, err := handler.New(threads, boards, posts, store, markdown.New(), public.Posting, log)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Config:      cfg,
		Storage:     store,
		Handler:     h,
		PostLimiter: ratelimiter.New(public.Posting.RateLimit.Interval, public.Posting.RateLimit.Burst, rateLimitExpiration),
		Log:         log,
	}, nil
}

func (d *Dependencies) Close() {
	d.PostLimiter.Stop()
	if err := d.Storage.Cleanup(); err != nil {
		d.Log.Error("failed to close storage", "error", err)
	}
}
