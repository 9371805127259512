package bootstrap

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/caretaker-ai/internal/audit"
	appconfig "github.com/wolfman30/caretaker-ai/internal/config"
	"github.com/wolfman30/caretaker-ai/internal/storage"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

const (
	AuditBackendMemory   = "memory"
	AuditBackendKV       = "kv"
	AuditBackendRedis    = "redis"
	AuditBackendPostgres = "postgres"
)

// kvPrefix namespaces the keys this service writes through storage.RedisKV.
const kvPrefix = "caretaker:"

// BuildAuditStore picks the audit backend named by AUDIT_BACKEND. A backend
// whose dependency is not configured is an error.
func BuildAuditStore(cfg *appconfig.Config, redisClient *redis.Client, sqlDB *sql.DB, logger *logging.Logger) (audit.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	capacity := cfg.AuditCapacity
	if capacity <= 0 {
		capacity = audit.DefaultCapacity
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.AuditBackend))
	switch backend {
	case "", AuditBackendMemory:
		return audit.NewMemoryStore(capacity), nil
	case AuditBackendKV:
		var kv storage.KV = storage.NewMemoryKV()
		if redisClient != nil {
			kv = storage.NewRedisKV(redisClient, kvPrefix, 0, logger)
		}
		return audit.NewKVStore(kv, capacity), nil
	case AuditBackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("bootstrap: audit backend %q requires REDIS_ADDR", backend)
		}
		return audit.NewRedisStore(redisClient, capacity), nil
	case AuditBackendPostgres:
		if sqlDB == nil {
			return nil, fmt.Errorf("bootstrap: audit backend %q requires DATABASE_URL", backend)
		}
		return audit.NewPostgresStore(sqlDB, capacity), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown audit backend %q", backend)
	}
}
