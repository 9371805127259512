package audit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/caretaker-ai/internal/safety"
	"github.com/wolfman30/caretaker-ai/internal/storage"
)

func storeFactories(t *testing.T) map[string]func(capacity int) Store {
	t.Helper()
	return map[string]func(int) Store{
		"memory": func(c int) Store { return NewMemoryStore(c) },
		"kv":     func(c int) Store { return NewKVStore(storage.NewMemoryKV(), c) },
		"redis": func(c int) Store {
			mr := miniredis.RunT(t)
			return NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), c)
		},
	}
}

func entryN(i int) Entry {
	return NewEntry(time.Unix(int64(i), 0), fmt.Sprintf("message %d", i), fmt.Sprintf("response %d", i), safety.SeverityClean, nil, false)
}

func TestStoresKeepMostRecentEntries(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(DefaultCapacity)
			for i := 0; i < 150; i++ {
				require.NoError(t, store.Append(ctx, entryN(i)))
			}

			entries, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, entries, 100)
			assert.Equal(t, "response 50", entries[0].ResponsePreview)
			assert.Equal(t, "response 149", entries[99].ResponsePreview)
			assert.Equal(t, 100, Summarize(entries).Total)
		})
	}
}

func TestStoresConcurrentAppendsLoseNothing(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(DefaultCapacity)

			var wg sync.WaitGroup
			for i := 0; i < 60; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_ = store.Append(ctx, entryN(i))
				}(i)
			}
			wg.Wait()

			entries, err := store.List(ctx)
			require.NoError(t, err)
			assert.Len(t, entries, 60)
		})
	}
}

func TestStoresClear(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(5)
			require.NoError(t, store.Append(ctx, entryN(1)))
			require.NoError(t, store.Clear(ctx))
			entries, err := store.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestKVStoreWritesUnderStorageKey(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := NewKVStore(kv, 3)
	require.NoError(t, store.Append(context.Background(), entryN(1)))

	raw, ok := kv.Get(context.Background(), StorageKey)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"user_message_hash"`)
	assert.NotContains(t, string(raw), "message 1")
}

func TestKVStoreWithoutStorageIsNoop(t *testing.T) {
	store := NewKVStore(nil, 3)
	require.NoError(t, store.Append(context.Background(), entryN(1)))
	entries, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNilRedisStore(t *testing.T) {
	assert.Nil(t, NewRedisStore(nil, 10))
	var store *RedisStore
	assert.NoError(t, store.Append(context.Background(), entryN(1)))
}

func TestKVStoreKeepsUndecodableTrail(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	kv.Set(ctx, StorageKey, []byte(`[{"timestamp":`))
	store := NewKVStore(kv, 3)

	assert.Error(t, store.Append(ctx, entryN(1)))
	_, err := store.List(ctx)
	assert.Error(t, err)

	raw, ok := kv.Get(ctx, StorageKey)
	require.True(t, ok)
	assert.Equal(t, `[{"timestamp":`, string(raw))
}
