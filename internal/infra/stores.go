package infra

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/demo-credit/wallet_ledger/internal/config"
)

// Stores holds the external backends. Either field is nil when its URL is
// not configured, which config only allows in development.
type Stores struct {
	DB    *pgxpool.Pool
	Cache *redis.Client
}

// Open connects every configured backend and applies the schema when
// cfg.AutoMigrate is set. On error nothing is left open.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Stores, error) {
	s := &Stores{}
	if cfg.DatabaseURL != "" {
		db, err := NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.DB = db
		if cfg.AutoMigrate {
			if err := ApplySchema(ctx, db); err != nil {
				s.Close()
				return nil, err
			}
			logger.Info("database schema applied")
		}
	}
	if cfg.RedisURL != "" {
		cache, err := NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Cache = cache
	}
	return s, nil
}

// Close releases every open backend.
func (s *Stores) Close() error {
	var errs []error
	if s.Cache != nil {
		errs = append(errs, s.Cache.Close())
		s.Cache = nil
	}
	if s.DB != nil {
		s.DB.Close()
		s.DB = nil
	}
	return errors.Join(errs...)
}
