package cryptox

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	t.Run("round trip", func(t *testing.T) {
		hash, err := HashPassword("Sup3rSecret!")
		require.NoError(t, err)
		require.Contains(t, hash, "$argon2id$v=19$")

		require.NoError(t, VerifyPassword("Sup3rSecret!", hash))
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		hash, err := HashPassword("correct-horse")
		require.NoError(t, err)

		require.ErrorIs(t, VerifyPassword("battery-staple", hash), ErrPasswordMismatch)
	})

	t.Run("hashes are salted", func(t *testing.T) {
		a, err := HashPassword("same-password")
		require.NoError(t, err)
		b, err := HashPassword("same-password")
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("malformed hash rejected", func(t *testing.T) {
		require.Error(t, VerifyPassword("whatever", "not-a-phc-hash"))
		require.Error(t, VerifyPassword("whatever", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"))
	})
}
