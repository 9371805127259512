package bootstrap

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/caretaker-ai/internal/config"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

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

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// Databases bundles the two Postgres handles: database/sql for the audit
// store and a pgx pool for bill history. Both are nil without DATABASE_URL.
type Databases struct {
	SQL  *sql.DB
	Pool *pgxpool.Pool
}

func (d *Databases) Close() {
	if d == nil {
		return
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
	if d.SQL != nil {
		_ = d.SQL.Close()
	}
}

// BuildDatabases opens and pings Postgres when DATABASE_URL is set.
func BuildDatabases(ctx context.Context, cfg *appconfig.Config) (*Databases, error) {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return &Databases{}, nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open database: %w", err)
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("bootstrap: ping database: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("bootstrap: open pgx pool: %w", err)
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		_ = sqlDB.Close()
		return nil, fmt.Errorf("bootstrap: ping pgx pool: %w", err)
	}
	return &Databases{SQL: sqlDB, Pool: pool}, nil
}
