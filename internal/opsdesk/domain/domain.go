// Package domain holds the ops desk resource documents and the enums
// and filters that describe them. Documents are owned by the store;
// services never cache them across requests.
package domain

import "errors"

// ErrInvalidEnum is wrapped by every enum parser when the input is not
// a declared member. Handlers map it to a 400, never a silent drop.
var ErrInvalidEnum = errors.New("domain: unknown enum member")
