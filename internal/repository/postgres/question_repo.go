package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"polling-backend/internal/domain/question"
)

type QuestionRepo struct {
	db *sql.DB
}

func NewQuestionRepo(db *sql.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create writes the choices, the question and the ordered links in one
// transaction.
func (r *QuestionRepo) Create(ctx context.Context, q *question.Question, choices []question.Choice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	qid := uuid.New()
	_, err = tx.ExecContext(ctx, `
        INSERT INTO questions (id, body, date_asked)
        VALUES ($1, $2, $3)
    `, qid, q.Body, q.DateAsked)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}

	ids := make([]string, 0, len(choices))
	for i, c := range choices {
		cid := uuid.New()
		if _, err := tx.ExecContext(ctx, `INSERT INTO choices (id, body) VALUES ($1, $2)`, cid, c.Body); err != nil {
			return fmt.Errorf("insert choice: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
            INSERT INTO question_choices (question_id, choice_id, position)
            VALUES ($1, $2, $3)
        `, qid, cid, i)
		if err != nil {
			return fmt.Errorf("link choice: %w", err)
		}
		ids = append(ids, cid.String())
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	q.ID = qid.String()
	q.Choices = ids
	return nil
}

func (r *QuestionRepo) GetByID(ctx context.Context, id string) (*question.Question, error) {
	qid, err := uuid.Parse(id)
	if err != nil {
		return nil, question.ErrNotFound
	}

	q := &question.Question{ID: qid.String()}
	err = r.db.QueryRowContext(ctx, `
        SELECT body, date_asked FROM questions WHERE id = $1
    `, qid).Scan(&q.Body, &q.DateAsked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, question.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select question: %w", err)
	}
	q.DateAsked = q.DateAsked.UTC()

	rows, err := r.db.QueryContext(ctx, `
        SELECT choice_id FROM question_choices
        WHERE question_id = $1 ORDER BY position
    `, qid)
	if err != nil {
		return nil, fmt.Errorf("select question choices: %w", err)
	}
	defer rows.Close()

	q.Choices = []string{}
	for rows.Next() {
		var cid uuid.UUID
		if err := rows.Scan(&cid); err != nil {
			return nil, err
		}
		q.Choices = append(q.Choices, cid.String())
	}
	return q, rows.Err()
}

func (r *QuestionRepo) List(ctx context.Context) ([]question.Question, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, body, date_asked FROM questions ORDER BY created_at, id
    `)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var res []question.Question
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			id uuid.UUID
			q  question.Question
		)
		if err := rows.Scan(&id, &q.Body, &q.DateAsked); err != nil {
			return nil, err
		}
		q.ID = id.String()
		q.DateAsked = q.DateAsked.UTC()
		q.Choices = []string{}
		index[id] = len(res)
		res = append(res, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	links, err := r.db.QueryContext(ctx, `
        SELECT question_id, choice_id FROM question_choices ORDER BY question_id, position
    `)
	if err != nil {
		return nil, fmt.Errorf("list question choices: %w", err)
	}
	defer links.Close()

	for links.Next() {
		var qid, cid uuid.UUID
		if err := links.Scan(&qid, &cid); err != nil {
			return nil, err
		}
		if i, ok := index[qid]; ok {
			res[i].Choices = append(res[i].Choices, cid.String())
		}
	}
	return res, links.Err()
}
