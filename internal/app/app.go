package app

import (
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"cinelog/pkg/auth"
	"cinelog/pkg/storage"
	"cinelog/pkg/store"
)

// Config carries the tunables the App needs beyond its dependencies.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
	StatsCacheTTL   time.Duration
	PresignTTL      time.Duration
	MaxUploadBytes  int64
	ImageExtensions []string
}

func (c Config) withDefaults() Config {
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = 20
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = 100
	}
	if c.StatsCacheTTL <= 0 {
		c.StatsCacheTTL = time.Minute
	}
	if c.PresignTTL <= 0 {
		c.PresignTTL = 15 * time.Minute
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 5 << 20
	}
	if len(c.ImageExtensions) == 0 {
		c.ImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
	}
	return c
}

// App implements the business operations on top of the store. Authorization
// decisions live here; handlers only parse and render.
type App struct {
	store   store.Store
	tokens  *auth.TokenManager
	objects storage.ObjectStore
	cache   *redis.Client
	log     *slog.Logger
	cfg     Config
}

// New wires the App. objects and cache may be nil; upload endpoints and
// stats caching degrade accordingly.
func New(st store.Store, tokens *auth.TokenManager, objects storage.ObjectStore, cache *redis.Client, log *slog.Logger, cfg Config) (*App, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if tokens == nil {
		return nil, errors.New("token manager is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &App{
		store:   st,
		tokens:  tokens,
		objects: objects,
		cache:   cache,
		log:     log,
		cfg:     cfg.withDefaults(),
	}, nil
}

// clampPage normalizes pagination input to sane bounds.
func (a *App) clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = a.cfg.DefaultPageSize
	}
	if limit > a.cfg.MaxPageSize {
		limit = a.cfg.MaxPageSize
	}
	return page, limit
}
