package httpx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/opsdesk/pkg/jwtx"
)

func TestPolicyDecide(t *testing.T) {
	t.Parallel()

	claims := func(role string) *jwtx.Claims {
		c := jwtx.Claims{Role: role}
		c.Subject = "user-1"
		return &c
	}

	t.Run("reads pass without credentials", func(t *testing.T) {
		t.Parallel()

		p := NewPolicy("admin")
		require.NoError(t, p.Decide("GET", nil))
		require.NoError(t, p.Decide("HEAD", nil))
	})

	t.Run("mutation without credential is rejected", func(t *testing.T) {
		t.Parallel()

		p := NewPolicy("admin")
		for _, method := range []string{"POST", "PUT", "PATCH", "DELETE"} {
			require.ErrorIs(t, p.Decide(method, nil), ErrMissingCredential)
		}
	})

	t.Run("role outside the allow set is rejected", func(t *testing.T) {
		t.Parallel()

		p := NewPolicy("admin", "manager")
		require.NoError(t, p.Decide("POST", claims("admin")))
		require.NoError(t, p.Decide("POST", claims("manager")))
		require.ErrorIs(t, p.Decide("POST", claims("user")), ErrInsufficientRole)
	})

	t.Run("empty allow set admits any authenticated role", func(t *testing.T) {
		t.Parallel()

		p := NewPolicy()
		require.NoError(t, p.Decide("POST", claims("user")))
		require.ErrorIs(t, p.Decide("POST", nil), ErrMissingCredential)
	})
}

func TestPolicyMutates(t *testing.T) {
	t.Parallel()

	p := NewPolicy("admin")
	require.True(t, p.Mutates("POST"))
	require.True(t, p.Mutates("DELETE"))
	require.False(t, p.Mutates("GET"))
	require.False(t, p.Mutates("OPTIONS"))
}
