package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testIssuer = "opsdesk-test"

func newTestPair(t *testing.T) (*HS256Signer, *HS256Verifier) {
	t.Helper()

	secret := []byte("0123456789abcdef0123456789abcdef")
	signer, err := NewSignerHS256(secret)
	require.NoError(t, err)
	return signer, NewVerifierHS256(secret, testIssuer)
}

func TestHS256RoundTrip(t *testing.T) {
	t.Parallel()

	signer, verifier := newTestPair(t)

	claims := NewAccessClaims("user-1", "alice", "manager", DefaultTokenTTL, testIssuer, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, "manager", got.Role)
	require.Equal(t, testIssuer, got.Issuer)
}

func TestHS256Verify(t *testing.T) {
	t.Parallel()

	signer, verifier := newTestPair(t)

	t.Run("rejects malformed token", func(t *testing.T) {
		_, err := verifier.Verify("definitely.not.a.token")
		require.Error(t, err)
	})

	t.Run("rejects tampered signature", func(t *testing.T) {
		claims := NewAccessClaims("user-1", "alice", "admin", time.Hour, testIssuer, time.Now().UTC())
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = verifier.Verify(token[:len(token)-2] + "xx")
		require.Error(t, err)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		other, err := NewSignerHS256([]byte("another-secret-another-secret-xx"))
		require.NoError(t, err)

		claims := NewAccessClaims("user-1", "alice", "admin", time.Hour, testIssuer, time.Now().UTC())
		token, err := other.Sign(claims)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		issued := time.Now().UTC().Add(-2 * time.Hour)
		claims := NewAccessClaims("user-1", "alice", "admin", time.Hour, testIssuer, issued)
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.Error(t, err)
	})

	t.Run("rejects issuer mismatch", func(t *testing.T) {
		claims := NewAccessClaims("user-1", "alice", "admin", time.Hour, "someone-else", time.Now().UTC())
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrIssuer)
	})

	t.Run("empty signer secret rejected", func(t *testing.T) {
		_, err := NewSignerHS256(nil)
		require.Error(t, err)
	})
}
