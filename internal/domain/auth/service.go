package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Check compares password with the stored record. The record is either a
// bcrypt hash or a legacy plaintext value.
func (s *Service) Check(ctx context.Context, password string) error {
	stored, err := s.repo.SharedPassword(ctx)
	if err != nil {
		return err
	}

	if isBcrypt(stored) {
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrForbidden
		}
		return err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return ErrForbidden
	}
	return nil
}

// SetPassword stores a bcrypt hash of password as the shared record.
func (s *Service) SetPassword(ctx context.Context, password string) error {
	if password == "" {
		return errors.New("password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.SetSharedPassword(ctx, string(hash))
}

func isBcrypt(v string) bool {
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(v, p) {
			return true
		}
	}
	return false
}
