package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// CreateSchema creates the tables if they do not exist yet. Two processes
// racing on CREATE ... IF NOT EXISTS can hit a unique violation on the
// catalog; the statement is then run once more.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if isUniqueViolation(err) {
		_, err = db.ExecContext(ctx, schema)
	}
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS questions (
    id UUID PRIMARY KEY,
    body TEXT NOT NULL,
    date_asked TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS choices (
    id UUID PRIMARY KEY,
    body TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS responses (
    id UUID PRIMARY KEY,
    gender TEXT,
    age TEXT,
    race TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS question_choices (
    question_id UUID NOT NULL,
    choice_id UUID NOT NULL,
    position INT NOT NULL,
    PRIMARY KEY (question_id, position)
);

CREATE INDEX IF NOT EXISTS idx_question_choices_choice_id ON question_choices(choice_id);

CREATE TABLE IF NOT EXISTS choice_responses (
    choice_id UUID NOT NULL,
    response_id UUID NOT NULL,
    linked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (choice_id, response_id)
);

CREATE TABLE IF NOT EXISTS passwords (
    id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
    password TEXT NOT NULL
);
`

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// parseIDs drops identifiers that are not UUIDs; they cannot match a row.
func parseIDs(ids []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		u, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		out = append(out, u)
	}
	return out
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
