package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/opsdesk/pkg/jwtx"
)

// staticVerifier accepts exactly one token and returns fixed claims.
type staticVerifier struct {
	token  string
	claims jwtx.Claims
}

func (v staticVerifier) Verify(token string) (jwtx.Claims, error) {
	if token != v.token {
		return jwtx.Claims{}, jwtx.ErrInvalidSig
	}
	return v.claims, nil
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	claims := jwtx.Claims{Role: "admin", Username: "root"}
	claims.Subject = "admin-1"

	verifier := staticVerifier{token: "good-token", claims: claims}

	newHandler := func(p Policy) (http.Handler, *string) {
		var sawUser string
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawUser = UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})
		return Chain(h, Authorize(verifier, p)), &sawUser
	}

	do := func(t *testing.T, h http.Handler, method, authz string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(method, "/v1/assets", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	errDesc := func(t *testing.T, rec *httptest.ResponseRecorder) string {
		t.Helper()
		var body ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		return body.ErrorDescription
	}

	t.Run("reads pass through untouched", func(t *testing.T) {
		t.Parallel()

		h, _ := newHandler(NewPolicy("admin"))
		rec := do(t, h, http.MethodGet, "")
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing authorization header", func(t *testing.T) {
		t.Parallel()

		h, _ := newHandler(NewPolicy("admin"))
		rec := do(t, h, http.MethodPost, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Missing Authorization header", errDesc(t, rec))
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("malformed authorization header", func(t *testing.T) {
		t.Parallel()

		h, _ := newHandler(NewPolicy("admin"))
		for _, authz := range []string{"good-token", "Basic good-token", "Bearer "} {
			rec := do(t, h, http.MethodPost, authz)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, "Invalid Authorization header", errDesc(t, rec))
		}
	})

	t.Run("verification failure", func(t *testing.T) {
		t.Parallel()

		h, _ := newHandler(NewPolicy("admin"))
		rec := do(t, h, http.MethodPost, "Bearer bad-token")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Invalid or expired token", errDesc(t, rec))
	})

	t.Run("role denied", func(t *testing.T) {
		t.Parallel()

		h, _ := newHandler(NewPolicy("manager"))
		rec := do(t, h, http.MethodPost, "Bearer good-token")
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "insufficient_scope")
	})

	t.Run("verified claims reach the handler", func(t *testing.T) {
		t.Parallel()

		h, sawUser := newHandler(NewPolicy("admin"))
		rec := do(t, h, http.MethodPost, "Bearer good-token")
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "admin-1", *sawUser)
	})

	t.Run("any authenticated role when allow set is empty", func(t *testing.T) {
		t.Parallel()

		h, _ := newHandler(NewPolicy())
		rec := do(t, h, http.MethodDelete, "Bearer good-token")
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	cfg := RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), RateLimitByIP(cfg))

	req := httptest.NewRequest(http.MethodGet, "/v1/assets", nil)
	req.RemoteAddr = "198.51.100.7:4242"

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// A different client key gets its own bucket.
	other := httptest.NewRequest(http.MethodGet, "/v1/assets", nil)
	other.RemoteAddr = "203.0.113.9:4242"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestIPKeyExtractor(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:4242"
	require.Equal(t, "198.51.100.7", IPKeyExtractor(req))

	req.Header.Set("X-Real-IP", "192.0.2.10")
	require.Equal(t, "192.0.2.10", IPKeyExtractor(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 192.0.2.10")
	require.Equal(t, "203.0.113.5", IPKeyExtractor(req))
}
