package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store/drivers/memory"
	"github.com/aussiebroadwan/opsdesk/pkg/jwtx"
)

const testIssuer = "https://opsdesk.test"

func newAuthEnv(t *testing.T) (*AuthService, *UserService, jwtx.Verifier) {
	t.Helper()

	secret := []byte("test-secret-test-secret-test-1234")
	signer, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256(secret, testIssuer)

	st := memory.NewStore()
	users := &UserService{Store: st}
	auth := &AuthService{
		Store:    st,
		Signer:   signer,
		Issuer:   testIssuer,
		TokenTTL: time.Hour,
	}
	return auth, users, verifier
}

func TestSignin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	auth, users, verifier := newAuthEnv(t)

	_, err := users.Create(ctx, CreateUserParams{
		Username: "Alice",
		Email:    "alice@example.com",
		Password: "correct horse battery",
		Role:     domain.RoleManager,
	}, "")
	require.NoError(t, err)

	_, err = users.Create(ctx, CreateUserParams{
		Username: "mallory",
		Email:    "mallory@example.com",
		Password: "blocked anyway",
		Status:   domain.UserBlocked,
	}, "")
	require.NoError(t, err)

	t.Run("valid credentials issue a verifiable token", func(t *testing.T) {
		t.Parallel()

		res, err := auth.Signin(ctx, "alice", "correct horse battery")
		require.NoError(t, err)
		require.Equal(t, "alice", res.Username)
		require.Equal(t, domain.RoleManager, res.Role)

		claims, err := verifier.Verify(res.Token)
		require.NoError(t, err)
		require.Equal(t, res.UserID, claims.Subject)
		require.Equal(t, "manager", claims.Role)
	})

	t.Run("username lookup is case-insensitive", func(t *testing.T) {
		t.Parallel()

		_, err := auth.Signin(ctx, "  ALICE ", "correct horse battery")
		require.NoError(t, err)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		t.Parallel()

		_, err := auth.Signin(ctx, "nobody", "whatever")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("blocked user is rejected before the password check", func(t *testing.T) {
		t.Parallel()

		_, err := auth.Signin(ctx, "mallory", "wrong password")
		require.ErrorIs(t, err, ErrUserBlocked)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		_, err := auth.Signin(ctx, "alice", "incorrect horse")
		require.ErrorIs(t, err, ErrInvalidPassword)
	})
}

func TestBootstrap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates the first admin", func(t *testing.T) {
		t.Parallel()

		st := memory.NewStore()
		users := &UserService{Store: st}
		boot := &BootstrapService{Users: users, Store: st, Token: "letmein"}

		admin, err := boot.Bootstrap(ctx, "letmein", "root", "root@example.com", "Root", "first admin pass")
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, admin.Role)

		_, err = boot.Bootstrap(ctx, "letmein", "root2", "root2@example.com", "Root", "x")
		require.ErrorIs(t, err, ErrBootstrapAlready)
	})

	t.Run("rejects a bad token", func(t *testing.T) {
		t.Parallel()

		st := memory.NewStore()
		boot := &BootstrapService{Users: &UserService{Store: st}, Store: st, Token: "letmein"}

		_, err := boot.Bootstrap(ctx, "wrong", "root", "root@example.com", "Root", "pass")
		require.ErrorIs(t, err, ErrBootstrapUnauthorized)
	})
}

func TestUserService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memory.NewStore()
	users := &UserService{Store: st}

	created, err := users.Create(ctx, CreateUserParams{
		Username: "Bob",
		Email:    "Bob@Example.COM",
		Password: "a strong one",
	}, "admin-1")
	require.NoError(t, err)

	t.Run("username and email are lowercased", func(t *testing.T) {
		require.Equal(t, "bob", created.Username)
		require.Equal(t, "bob@example.com", created.Email)
		require.Equal(t, domain.RoleUser, created.Role)
		require.Equal(t, domain.UserActive, created.Status)
	})

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		_, err := users.Create(ctx, CreateUserParams{
			Username: "BOB",
			Email:    "other@example.com",
			Password: "x",
		}, "admin-1")
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		_, err := users.Create(ctx, CreateUserParams{
			Username: "bob2",
			Email:    "bob@example.com",
			Password: "x",
		}, "admin-1")
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("update patches only the given fields", func(t *testing.T) {
		blocked := domain.UserBlocked
		updated, err := users.Update(ctx, created.ID, UpdateUserParams{Status: &blocked}, "admin-1")
		require.NoError(t, err)
		require.Equal(t, domain.UserBlocked, updated.Status)
		require.Equal(t, "bob", updated.Username)
		require.Equal(t, "admin-1", updated.UpdatedBy)
	})

	t.Run("delete is hard", func(t *testing.T) {
		require.NoError(t, users.Delete(ctx, created.ID))
		_, err := users.Get(ctx, created.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
