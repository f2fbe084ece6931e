package memory

import (
	"context"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
)

type deptsRepo struct {
	s *Store
}

func (r *deptsRepo) GetByID(ctx context.Context, id string) (domain.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.departments[id]
	if !ok {
		return domain.Department{}, store.ErrNotFound
	}
	return d, nil
}

func (r *deptsRepo) GetByCode(ctx context.Context, code string) (domain.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.departments {
		if d.Code == code {
			return d, nil
		}
	}
	return domain.Department{}, store.ErrNotFound
}

func (r *deptsRepo) Create(ctx context.Context, d domain.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.departments {
		if existing.Code == d.Code {
			return store.ErrAlreadyExists
		}
	}
	r.s.departments[d.ID] = d
	return nil
}

func (r *deptsRepo) Update(ctx context.Context, d domain.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.departments[d.ID]; !ok {
		return store.ErrNotFound
	}
	r.s.departments[d.ID] = d
	return nil
}

func (r *deptsRepo) List(ctx context.Context, activeOnly bool, spec store.PageSpec) (domain.Page[domain.Department], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []domain.Department
	for _, d := range r.s.departments {
		if activeOnly && !d.Active {
			continue
		}
		matched = append(matched, d)
	}

	orderBy(matched, spec.Desc, func(a, b domain.Department) bool {
		switch spec.SortBy {
		case "updatedAt":
			return a.UpdatedAt.Before(b.UpdatedAt)
		case "code":
			return a.Code < b.Code
		case "name":
			return a.Name < b.Name
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	return paginate(matched, spec), nil
}
