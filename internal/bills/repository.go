package bills

import (
	"context"
	"sort"
	"sync"
)

// Repository stores bill history, newest first.
type Repository interface {
	Save(ctx context.Context, item HistoryItem) error
	Get(ctx context.Context, id string) (HistoryItem, error)
	List(ctx context.Context) ([]HistoryItem, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}

// MemoryRepository keeps at most MaxHistoryItems bills in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]HistoryItem
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]HistoryItem)}
}

func (r *MemoryRepository) Save(_ context.Context, item HistoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	if len(r.items) > MaxHistoryItems {
		for _, old := range r.sortedLocked()[MaxHistoryItems:] {
			delete(r.items, old.ID)
		}
	}
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (HistoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return HistoryItem{}, ErrBillNotFound
	}
	return item, nil
}

func (r *MemoryRepository) List(context.Context) ([]HistoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(), nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return ErrBillNotFound
	}
	item.Status = status
	r.items[id] = item
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrBillNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryRepository) sortedLocked() []HistoryItem {
	out := make([]HistoryItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}
