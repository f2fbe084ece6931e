package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
	"github.com/aussiebroadwan/opsdesk/pkg/cryptox"
	"github.com/aussiebroadwan/opsdesk/pkg/idx"
)

var ErrValidation = errors.New("invalid input")

type UserService struct {
	Store store.Store
}

type CreateUserParams struct {
	Username string
	Email    string
	Name     string
	Password string
	Role     domain.Role
	Status   domain.UserStatus
	DeptID   string
}

// UpdateUserParams patches a user; nil fields are left unchanged.
type UpdateUserParams struct {
	Name     *string
	Role     *domain.Role
	Status   *domain.UserStatus
	DeptID   *string
	Password *string
}

// Create inserts a new user. Username and email are lowercased before
// the uniqueness precheck; the precheck is racy, so a duplicate-key
// failure from the insert itself is reclassified the same way.
func (s *UserService) Create(ctx context.Context, p CreateUserParams, actor string) (domain.User, error) {
	p.Username = strings.ToLower(strings.TrimSpace(p.Username))
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))

	if p.Username == "" || p.Email == "" || p.Password == "" {
		return domain.User{}, errors.Join(ErrValidation, errors.New("username, email and password are required"))
	}
	if p.Role == "" {
		p.Role = domain.RoleUser
	}
	if p.Status == "" {
		p.Status = domain.UserActive
	}

	if _, err := s.Store.Users().GetByUsername(ctx, p.Username); err == nil {
		return domain.User{}, store.ErrAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}
	if _, err := s.Store.Users().GetByEmail(ctx, p.Email); err == nil {
		return domain.User{}, store.ErrAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     p.Username,
		Email:        p.Email,
		Name:         p.Name,
		PasswordHash: hash,
		Role:         p.Role,
		Status:       p.Status,
		DeptID:       p.DeptID,
		CreatedBy:    actor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().Create(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	return s.Store.Users().GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, f domain.UserFilter, spec store.PageSpec) (domain.Page[domain.User], error) {
	return s.Store.Users().List(ctx, f, spec)
}

func (s *UserService) Update(ctx context.Context, id string, p UpdateUserParams, actor string) (domain.User, error) {
	u, err := s.Store.Users().GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.DeptID != nil {
		u.DeptID = *p.DeptID
	}
	if p.Password != nil {
		hash, err := cryptox.HashPassword(*p.Password)
		if err != nil {
			return domain.User{}, err
		}
		u.PasswordHash = hash
	}

	u.UpdatedBy = actor
	u.UpdatedAt = time.Now().UTC()

	if err := s.Store.Users().Update(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Delete removes the user record outright; users are the one resource
// with a hard delete.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.Store.Users().Delete(ctx, id)
}
