package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/opsdesk/pkg/jwtx"
	"github.com/aussiebroadwan/opsdesk/pkg/slogx"
)

// Authorize is the per-request authorization gate. It extracts and
// verifies the bearer credential on mutating methods, evaluates the
// resource policy, and attaches the verified claims to the request
// context for downstream audit fields. Read-only methods pass through
// untouched.
func Authorize(v jwtx.Verifier, p Policy) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !p.Mutates(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" {
				writeBearerError(w, "Missing Authorization header")
				return
			}

			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
				writeBearerError(w, "Invalid Authorization header")
				return
			}

			claims, err := v.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				log.Warn("token verification failed", "err", err)
				writeBearerError(w, "Invalid or expired token")
				return
			}

			if err := p.Decide(r.Method, &claims); err != nil {
				log.Warn("policy denied request", "role", claims.Role, "err", err)
				writeRoleError(w, err)
				return
			}

			// Inject into context for downstream handlers.
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(ctx, claims)))
		})
	}
}

// RFC 6750-style error response for bearer auth failures.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}

func writeRoleError(w http.ResponseWriter, err error) {
	desc := "Insufficient role"
	if err == ErrMissingCredential {
		desc = "Missing credential"
	}
	w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope"`)
	WriteError(w, http.StatusForbidden, "forbidden", desc)
}
