// Package bootstrap builds the runtime dependencies cmd/api wires together.
package bootstrap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/clinic"
	appconfig "github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/internal/config"
	"github.com/nandalalainfotech/dentalsuite-your-dentist-sub000/pkg/logging"
)

// ErrDatabaseRequired is returned when the postgres catalog is selected without a pool.
var ErrDatabaseRequired = errors.New("bootstrap: DATABASE_URL is required for the postgres catalog")

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, booking sessions disabled", "error", err, "addr", cfg.RedisAddr)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildPostgresPool connects to DATABASE_URL, returning nil when it is unset.
func BuildPostgresPool(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*pgxpool.Pool, error) {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}
	logger.Info("postgres connected")
	return pool, nil
}

// CatalogSource picks the clinic source named by CATALOG_SOURCE.
func CatalogSource(cfg *appconfig.Config, db clinic.Querier) (clinic.Source, error) {
	switch cfg.CatalogSource {
	case "", appconfig.CatalogSourceFixture:
		return clinic.NewFixtureSource(cfg.CatalogFixturePath), nil
	case appconfig.CatalogSourcePostgres:
		if db == nil {
			return nil, ErrDatabaseRequired
		}
		return clinic.NewPostgresSource(db), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown catalog source %q", cfg.CatalogSource)
	}
}

// BuildCatalog loads and validates the catalog snapshot served by the API.
func BuildCatalog(ctx context.Context, cfg *appconfig.Config, db clinic.Querier, logger *logging.Logger) (*clinic.Catalog, error) {
	if logger == nil {
		logger = logging.Default()
	}
	src, err := CatalogSource(cfg, db)
	if err != nil {
		return nil, err
	}
	catalog, err := clinic.LoadCatalog(ctx, src)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded", "source", cfg.CatalogSource, "clinics", catalog.Len())
	return catalog, nil
}
