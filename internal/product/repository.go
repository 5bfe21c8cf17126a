package product

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("product not found")

type Repository interface {
	GetByID(ctx context.Context, id int) (Product, error)
	// ListByIDs returns the products whose id appears in ids, ordered by id.
	// Unknown ids are skipped. An empty ids slice returns an empty slice
	// without touching the database.
	ListByIDs(ctx context.Context, ids []int) ([]Product, error)
}

// InMemoryRepository is a simple in-memory implementation useful for tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage map[int]Product
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{storage: make(map[int]Product, len(seed))}
	for _, p := range seed {
		r.storage[p.ID] = p
	}
	return r
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.storage[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *InMemoryRepository) ListByIDs(_ context.Context, ids []int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.storage[id]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
