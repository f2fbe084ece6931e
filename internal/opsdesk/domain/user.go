package domain

import (
	"fmt"
	"time"
)

// UserStatus gates signin: blocked users hold valid credentials but may
// not authenticate.
type UserStatus string

const (
	UserActive  UserStatus = "active"
	UserBlocked UserStatus = "blocked"
)

func ParseUserStatus(s string) (UserStatus, error) {
	switch UserStatus(s) {
	case UserActive, UserBlocked:
		return UserStatus(s), nil
	}
	return "", fmt.Errorf("%w: user status %q", ErrInvalidEnum, s)
}

type User struct {
	ID           string
	Username     string // unique, stored lowercased
	Email        string // unique, stored lowercased
	Name         string
	PasswordHash string // argon2id encoded, never serialized
	Role         Role
	Status       UserStatus
	DeptID       string
	CreatedBy    string
	UpdatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserFilter narrows user listings. Text fields are case-insensitive
// partial matches; nil enum fields impose no constraint.
type UserFilter struct {
	Username string
	Email    string
	Name     string
	Role     *Role
	Status   *UserStatus
	DeptID   string
}
