package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
	"github.com/aussiebroadwan/opsdesk/pkg/cryptox"
	"github.com/aussiebroadwan/opsdesk/pkg/jwtx"
	"github.com/aussiebroadwan/opsdesk/pkg/slogx"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserBlocked     = errors.New("user is blocked")
)

type AuthService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Issuer   string
	TokenTTL time.Duration
}

// SigninResult carries the signed credential plus the identity fields
// clients display.
type SigninResult struct {
	Token    string
	Username string
	Role     domain.Role
	UserID   string
}

// Signin verifies username/password and issues a signed token.
//
// The error split matters to the API surface: an unknown username is
// store.ErrNotFound, a blocked account is ErrUserBlocked, and a wrong
// password is ErrInvalidPassword.
func (s *AuthService) Signin(ctx context.Context, username, password string) (SigninResult, error) {
	l := slogx.FromContext(ctx)
	username = strings.ToLower(strings.TrimSpace(username))

	user, err := s.Store.Users().GetByUsername(ctx, username)
	if err != nil {
		return SigninResult{}, err
	}

	if user.Status == domain.UserBlocked {
		l.Warn("signin attempt for blocked user", slog.String("username", username))
		return SigninResult{}, ErrUserBlocked
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("signin password mismatch", slog.String("username", username))
		return SigninResult{}, ErrInvalidPassword
	}

	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultTokenTTL
	}

	claims := jwtx.NewAccessClaims(user.ID, user.Username, string(user.Role), ttl, s.Issuer, time.Now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return SigninResult{}, err
	}

	return SigninResult{
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
		UserID:   user.ID,
	}, nil
}
