package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"polling-backend/internal/domain/auth"
)

type PasswordRepo struct {
	db *sql.DB
}

func NewPasswordRepo(db *sql.DB) *PasswordRepo {
	return &PasswordRepo{db: db}
}

func (r *PasswordRepo) SharedPassword(ctx context.Context) (string, error) {
	var password string
	err := r.db.QueryRowContext(ctx, `SELECT password FROM passwords WHERE id = 1`).Scan(&password)
	if errors.Is(err, sql.ErrNoRows) {
		return "", auth.ErrNotConfigured
	}
	if err != nil {
		return "", fmt.Errorf("select password: %w", err)
	}
	return password, nil
}

func (r *PasswordRepo) SetSharedPassword(ctx context.Context, value string) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO passwords (id, password) VALUES (1, $1)
        ON CONFLICT (id) DO UPDATE SET password = EXCLUDED.password
    `, value)
	if err != nil {
		return fmt.Errorf("upsert password: %w", err)
	}
	return nil
}
