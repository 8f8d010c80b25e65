package app

import (
	"errors"
	"fmt"
	"log/slog"

	"selfhelpblog/internal/config"
	"selfhelpblog/internal/db"
	"selfhelpblog/internal/services"
	"selfhelpblog/internal/utils"

	"gorm.io/gorm"
)

const renderCacheSize = 500

// App carries every long-lived dependency. It is built once at startup and
// handed to the router; nothing in the request path reaches for globals.
type App struct {
	Config   *config.Config
	Store    *db.Store
	Identity services.IdentityProvider
	Likes    services.LikeCounter
	Cache    *utils.RenderCache

	conn    *gorm.DB
	closers []func() error
}

// New opens the database, migrates the schema and wires the services.
func New(cfg *config.Config) (*App, error) {
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(conn); err != nil {
		db.Close(conn)
		return nil, err
	}

	identity := services.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectURL())

	a, err := NewWithStore(cfg, conn, identity)
	if err != nil {
		db.Close(conn)
		return nil, err
	}

	if cfg.RedisAddr != "" {
		counter, err := services.NewRedisLikeCounter(cfg.RedisAddr)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Likes = counter
		a.closers = append(a.closers, counter.Close)
		slog.Info("Like counter enabled", slog.String("redis", cfg.RedisAddr))
	}
	return a, nil
}

// NewWithStore builds an App around an already migrated connection.
func NewWithStore(cfg *config.Config, conn *gorm.DB, identity services.IdentityProvider) (*App, error) {
	cache, err := utils.NewRenderCache(renderCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create render cache: %w", err)
	}
	return &App{
		Config:   cfg,
		Store:    db.NewStore(conn),
		Identity: identity,
		Likes:    services.NoopLikeCounter{},
		Cache:    cache,
		conn:     conn,
	}, nil
}

// Close releases the connections opened by New, database last.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	errs = append(errs, db.Close(a.conn))
	return errors.Join(errs...)
}
