package memory

import (
	"context"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
)

type itemsRepo struct {
	s *Store
}

func (r *itemsRepo) GetByID(ctx context.Context, id string) (domain.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i, ok := r.s.items[id]
	if !ok {
		return domain.Item{}, store.ErrNotFound
	}
	return i, nil
}

func (r *itemsRepo) Create(ctx context.Context, i domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.insertLocked(i)
}

func (r *itemsRepo) CreateMany(ctx context.Context, items []domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, i := range items {
		if err := r.insertLocked(i); err != nil {
			return err
		}
	}
	return nil
}

func (r *itemsRepo) insertLocked(i domain.Item) error {
	for _, existing := range r.s.items {
		if existing.Code == i.Code {
			return store.ErrAlreadyExists
		}
	}
	r.s.items[i.ID] = i
	return nil
}

func (r *itemsRepo) Update(ctx context.Context, i domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[i.ID]; !ok {
		return store.ErrNotFound
	}
	r.s.items[i.ID] = i
	return nil
}

func (r *itemsRepo) ListByAsset(ctx context.Context, assetID string, spec store.PageSpec) (domain.Page[domain.Item], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []domain.Item
	for _, i := range r.s.items {
		if i.AssetID == assetID {
			matched = append(matched, i)
		}
	}

	orderBy(matched, spec.Desc, func(a, b domain.Item) bool {
		switch spec.SortBy {
		case "updatedAt":
			return a.UpdatedAt.Before(b.UpdatedAt)
		case "code":
			return a.Code < b.Code
		case "status":
			return a.Status < b.Status
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	return paginate(matched, spec), nil
}

func (r *itemsRepo) CountByAsset(ctx context.Context, assetID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, i := range r.s.items {
		if i.AssetID == assetID {
			n++
		}
	}
	return n, nil
}
