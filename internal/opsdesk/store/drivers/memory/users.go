package memory

import (
	"context"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
)

type usersRepo struct {
	s *Store
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return store.ErrAlreadyExists
		}
	}
	r.s.users[u.ID] = u
	return nil
}

func (r *usersRepo) Update(ctx context.Context, u domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	r.s.users[u.ID] = u
	return nil
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *usersRepo) List(ctx context.Context, f domain.UserFilter, spec store.PageSpec) (domain.Page[domain.User], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []domain.User
	for _, u := range r.s.users {
		if !matchText(u.Username, f.Username) ||
			!matchText(u.Email, f.Email) ||
			!matchText(u.Name, f.Name) {
			continue
		}
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		if f.Status != nil && u.Status != *f.Status {
			continue
		}
		if f.DeptID != "" && u.DeptID != f.DeptID {
			continue
		}
		matched = append(matched, u)
	}

	orderBy(matched, spec.Desc, func(a, b domain.User) bool {
		switch spec.SortBy {
		case "updatedAt":
			return a.UpdatedAt.Before(b.UpdatedAt)
		case "username":
			return a.Username < b.Username
		case "email":
			return a.Email < b.Email
		case "name":
			return a.Name < b.Name
		case "role":
			return a.Role < b.Role
		case "status":
			return a.Status < b.Status
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	return paginate(matched, spec), nil
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users) == 0, nil
}
