package auth

import (
	"context"
	"errors"
)

var (
	ErrForbidden     = errors.New("password mismatch")
	ErrNotConfigured = errors.New("shared password not configured")
)

// Repository holds the single shared password record. SharedPassword returns
// ErrNotConfigured when the record does not exist.
type Repository interface {
	SharedPassword(ctx context.Context) (string, error)
	SetSharedPassword(ctx context.Context, value string) error
}
