// Package storage provides the small key-value contract used for local
// persistence. Operations never fail; backends log and degrade to no-ops.
package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// KV is a best-effort key-value store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Remove(ctx context.Context, key string)
}

// Nop is a KV with no persistent storage behind it.
var Nop KV = nopKV{}

type nopKV struct{}

func (nopKV) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (nopKV) Set(context.Context, string, []byte)        {}
func (nopKV) Remove(context.Context, string)             {}

// MemoryKV keeps values in process memory.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
}

func (m *MemoryKV) Remove(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

// GetJSON decodes the value at key into T. Missing or undecodable values
// report false.
func GetJSON[T any](ctx context.Context, kv KV, key string) (T, bool) {
	var out T
	raw, ok := kv.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false
	}
	return out, true
}

// SetJSON encodes v and stores it at key. Encoding failures are dropped.
func SetJSON(ctx context.Context, kv KV, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	kv.Set(ctx, key, raw)
}
