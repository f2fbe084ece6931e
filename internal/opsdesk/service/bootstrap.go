package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
	"github.com/aussiebroadwan/opsdesk/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService creates the first admin account on a fresh store.
// Once any user exists the endpoint refuses.
type BootstrapService struct {
	Users *UserService
	Store store.Store
	Token string // pre-configured bootstrap token, empty disables the check
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

func (s *BootstrapService) Bootstrap(ctx context.Context, token, username, email, name, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if bootstrapped, err := s.IsBootstrapped(ctx); err != nil {
		return domain.User{}, err
	} else if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.User{}, ErrBootstrapAlready
	}

	if s.Token != "" && token != s.Token {
		l.Warn("unauthorized bootstrap attempt", slog.String("username", username))
		return domain.User{}, ErrBootstrapUnauthorized
	}

	admin, err := s.Users.Create(ctx, CreateUserParams{
		Username: username,
		Email:    email,
		Name:     name,
		Password: password,
		Role:     domain.RoleAdmin,
		Status:   domain.UserActive,
	}, "")
	if err != nil {
		return domain.User{}, err
	}

	l.Info("bootstrap complete", slog.String("admin_user_id", admin.ID))
	return admin, nil
}
