package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// RedisStore keeps the trail in a Redis list. RPUSH and LTRIM run in one
// MULTI block, so concurrent appends from any number of processes never lose
// an entry except by eviction.
type RedisStore struct {
	redis    *redis.Client
	key      string
	capacity int64
	tracer   trace.Tracer
}

func NewRedisStore(client *redis.Client, capacity int) *RedisStore {
	if client == nil {
		return nil
	}
	return &RedisStore{
		redis:    client,
		key:      StorageKey,
		capacity: int64(normalizeCapacity(capacity)),
		tracer:   otel.Tracer("caretaker-ai/internal/audit"),
	}
}

func (s *RedisStore) Append(ctx context.Context, entry Entry) error {
	if s == nil || s.redis == nil {
		return nil
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("audit: marshal entry: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "audit.redis.append")
	defer span.End()

	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, s.key, data)
	pipe.LTrim(ctx, s.key, -s.capacity, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("audit: append entry: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Entry, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	ctx, span := s.tracer.Start(ctx, "audit.redis.list")
	defer span.End()

	raw, err := s.redis.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Entry{}, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("audit: list entries: %w", err)
	}
	out := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			span.RecordError(err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("audit: clear entries: %w", err)
	}
	return nil
}
