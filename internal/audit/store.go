package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/wolfman30/caretaker-ai/internal/storage"
)

// Store is a bounded FIFO of entries. Append must be safe for concurrent use
// and must evict the oldest entries once capacity is exceeded.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	List(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) error
}

func normalizeCapacity(capacity int) int {
	if capacity <= 0 {
		return DefaultCapacity
	}
	return capacity
}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
}

func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{capacity: normalizeCapacity(capacity)}
}

func (s *MemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	if over := len(s.entries) - s.capacity; over > 0 {
		s.entries = append([]Entry(nil), s.entries[over:]...)
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...), nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

// StorageKey is where KVStore keeps the serialized trail.
const StorageKey = "caretaker_ai_audit_log"

// KVStore persists the whole trail as one JSON array under StorageKey.
// Read-modify-write is serialized by a mutex, so only one process may write
// a given key.
type KVStore struct {
	mu       sync.Mutex
	kv       storage.KV
	capacity int
}

func NewKVStore(kv storage.KV, capacity int) *KVStore {
	if kv == nil {
		kv = storage.Nop
	}
	return &KVStore{kv: kv, capacity: normalizeCapacity(capacity)}
}

// Append leaves an undecodable stored trail untouched and reports it, so one
// bad value never wipes the retained entries.
func (s *KVStore) Append(ctx context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	if over := len(entries) - s.capacity; over > 0 {
		entries = entries[over:]
	}
	storage.SetJSON(ctx, s.kv, StorageKey, entries)
	return nil
}

func (s *KVStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *KVStore) load(ctx context.Context) ([]Entry, error) {
	raw, ok := s.kv.Get(ctx, StorageKey)
	if !ok {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("audit: decode stored trail: %w", err)
	}
	return entries, nil
}

func (s *KVStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv.Remove(ctx, StorageKey)
	return nil
}
