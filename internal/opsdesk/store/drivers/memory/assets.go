package memory

import (
	"context"
	"time"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
)

type assetsRepo struct {
	s *Store
}

func (r *assetsRepo) GetByID(ctx context.Context, id string) (domain.Asset, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.assets[id]
	if !ok {
		return domain.Asset{}, store.ErrNotFound
	}
	return a, nil
}

func (r *assetsRepo) GetByCode(ctx context.Context, code string) (domain.Asset, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.assets {
		if a.Code == code {
			return a, nil
		}
	}
	return domain.Asset{}, store.ErrNotFound
}

func (r *assetsRepo) Create(ctx context.Context, a domain.Asset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.assets {
		if existing.Code == a.Code {
			return store.ErrAlreadyExists
		}
	}
	r.s.assets[a.ID] = a
	return nil
}

func (r *assetsRepo) Update(ctx context.Context, a domain.Asset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.assets[a.ID]; !ok {
		return store.ErrNotFound
	}
	r.s.assets[a.ID] = a
	return nil
}

func (r *assetsRepo) List(ctx context.Context, f domain.AssetFilter, spec store.PageSpec) (domain.Page[domain.Asset], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []domain.Asset
	for _, a := range r.s.assets {
		if !matchText(a.Code, f.Code) ||
			!matchText(a.Name, f.Name) ||
			!matchText(a.Vendor, f.Vendor) ||
			!matchText(a.Model, f.Model) {
			continue
		}
		if f.Type != nil && a.Type != *f.Type {
			continue
		}
		if f.Active != nil && a.Active != *f.Active {
			continue
		}
		if f.CreatedBy != "" && a.CreatedBy != f.CreatedBy {
			continue
		}
		matched = append(matched, a)
	}

	orderBy(matched, spec.Desc, func(a, b domain.Asset) bool {
		switch spec.SortBy {
		case "updatedAt":
			return a.UpdatedAt.Before(b.UpdatedAt)
		case "code":
			return a.Code < b.Code
		case "name":
			return a.Name < b.Name
		case "type":
			return a.Type < b.Type
		case "active":
			return !a.Active && b.Active
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	return paginate(matched, spec), nil
}

func (r *assetsRepo) ReplaceImages(ctx context.Context, id string, prevLen int, images []string, updatedBy string) (domain.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.assets[id]
	if !ok {
		return domain.Asset{}, store.ErrNotFound
	}
	if len(a.ImageURLs) != prevLen {
		return domain.Asset{}, store.ErrConflict
	}

	a.ImageURLs = append([]string(nil), images...)
	a.UpdatedBy = updatedBy
	a.UpdatedAt = time.Now().UTC()
	r.s.assets[id] = a
	return a, nil
}
