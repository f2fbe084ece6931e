package domain

import "fmt"

// Role is the caller's access role. Roles carry no rank order; every
// access decision is an explicit allow-set.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleUser:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: role %q", ErrInvalidEnum, s)
}

func (r Role) String() string { return string(r) }
