package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"polling-backend/internal/domain/response"
)

type ResponseRepo struct {
	db *sql.DB
}

func NewResponseRepo(db *sql.DB) *ResponseRepo {
	return &ResponseRepo{db: db}
}

// Create stores the response and links it to choiceID when that choice
// exists. The response row is kept either way.
func (r *ResponseRepo) Create(ctx context.Context, resp *response.Response, choiceID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rid := uuid.New()
	_, err = tx.ExecContext(ctx, `
        INSERT INTO responses (id, gender, age, race)
        VALUES ($1, $2, $3, $4)
    `, rid, nullIfEmpty(resp.Gender), nullIfEmpty(resp.Age), nullIfEmpty(resp.Race))
	if err != nil {
		return false, fmt.Errorf("insert response: %w", err)
	}

	linked := false
	if cid, err := uuid.Parse(choiceID); err == nil {
		res, err := tx.ExecContext(ctx, `
            INSERT INTO choice_responses (choice_id, response_id)
            SELECT $1::uuid, $2::uuid
            WHERE EXISTS (SELECT 1 FROM choices WHERE id = $1::uuid)
        `, cid, rid)
		if err != nil {
			return false, fmt.Errorf("link response: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		linked = n == 1
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}

	resp.ID = rid.String()
	return linked, nil
}

func (r *ResponseRepo) List(ctx context.Context) ([]response.Response, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, gender, age, race FROM responses ORDER BY created_at, id
    `)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var res []response.Response
	for rows.Next() {
		var (
			id                uuid.UUID
			gender, age, race sql.NullString
		)
		if err := rows.Scan(&id, &gender, &age, &race); err != nil {
			return nil, err
		}
		res = append(res, response.Response{
			ID:     id.String(),
			Gender: gender.String,
			Age:    age.String,
			Race:   race.String,
		})
	}
	return res, rows.Err()
}
