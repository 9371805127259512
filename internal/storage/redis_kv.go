package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

// RedisKV stores values as Redis strings. A nil client makes every call a
// no-op.
type RedisKV struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
	logger *logging.Logger
	tracer trace.Tracer
}

// NewRedisKV prefixes every key with prefix. A zero ttl keeps keys forever.
func NewRedisKV(client *redis.Client, prefix string, ttl time.Duration, logger *logging.Logger) *RedisKV {
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisKV{
		redis:  client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
		tracer: otel.Tracer("caretaker-ai/internal/storage"),
	}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, bool) {
	if r == nil || r.redis == nil {
		return nil, false
	}
	ctx, span := r.tracer.Start(ctx, "storage.redis.get")
	defer span.End()

	val, err := r.redis.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			span.RecordError(err)
			r.logger.Warn("redis kv get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) {
	if r == nil || r.redis == nil {
		return
	}
	ctx, span := r.tracer.Start(ctx, "storage.redis.set")
	defer span.End()

	if err := r.redis.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		span.RecordError(err)
		r.logger.Warn("redis kv set failed", "key", key, "error", err)
	}
}

func (r *RedisKV) Remove(ctx context.Context, key string) {
	if r == nil || r.redis == nil {
		return
	}
	if err := r.redis.Del(ctx, r.prefix+key).Err(); err != nil {
		r.logger.Warn("redis kv remove failed", "key", key, "error", err)
	}
}
