package httpx

import (
	"errors"

	"github.com/aussiebroadwan/opsdesk/pkg/jwtx"
)

var (
	// ErrMissingCredential means a mutating request arrived without a
	// verified credential.
	ErrMissingCredential = errors.New("httpx: missing credential")

	// ErrInsufficientRole means the caller's role is not in the
	// resource's allowed set.
	ErrInsufficientRole = errors.New("httpx: insufficient role")
)

// Policy describes, per resource, which methods mutate it and which
// roles may do so. Access is always an explicit allow-set; roles carry
// no rank order, so "admin only" and "admin or manager" are both just
// sets of different sizes.
type Policy struct {
	// MutatingMethods are the methods that require authorization.
	// Everything else is treated as a read and passes unconditionally.
	MutatingMethods map[string]struct{}

	// AllowedRoles is the set of roles permitted to mutate. An empty
	// set means any authenticated role.
	AllowedRoles map[string]struct{}
}

// NewPolicy builds a Policy gating the standard upsert methods
// (POST, PUT, PATCH, DELETE) to the given roles. No roles means any
// authenticated caller may mutate.
func NewPolicy(roles ...string) Policy {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return Policy{
		MutatingMethods: map[string]struct{}{
			"POST":   {},
			"PUT":    {},
			"PATCH":  {},
			"DELETE": {},
		},
		AllowedRoles: allowed,
	}
}

// Mutates reports whether method requires authorization under p.
func (p Policy) Mutates(method string) bool {
	_, ok := p.MutatingMethods[method]
	return ok
}

// Decide evaluates the policy for a request. Reads are never role-gated.
// claims is nil when no verified credential accompanied the request.
func (p Policy) Decide(method string, claims *jwtx.Claims) error {
	if !p.Mutates(method) {
		return nil
	}

	if claims == nil {
		return ErrMissingCredential
	}

	if len(p.AllowedRoles) == 0 {
		return nil // any authenticated role may mutate
	}

	if _, ok := p.AllowedRoles[claims.Role]; !ok {
		return ErrInsufficientRole
	}

	return nil
}
