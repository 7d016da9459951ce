package lead

import (
	"context"
	"sort"
	"sync"
)

// Repository stores leads.
type Repository interface {
	Save(ctx context.Context, l Lead) error
	Get(ctx context.Context, id string) (Lead, error)
	// List returns the newest leads first; limit <= 0 returns all of them.
	List(ctx context.Context, limit int) ([]Lead, error)
}

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository keeps leads in process memory. Safe for concurrent use.
type MemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]Lead
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{leads: make(map[string]Lead)}
}

func (r *MemoryRepository) Save(_ context.Context, l Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads[l.ID] = l
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.leads[id]
	if !ok {
		return Lead{}, ErrNotFound
	}
	return l, nil
}

func (r *MemoryRepository) List(_ context.Context, limit int) ([]Lead, error) {
	r.mu.RLock()
	out := make([]Lead, 0, len(r.leads))
	for _, l := range r.leads {
		out = append(out, l)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
