package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"polling-backend/internal/domain/question"
	"polling-backend/internal/domain/report"
	"polling-backend/internal/domain/response"
)

type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

func (r *ReportRepo) ChoiceCounts(ctx context.Context, choiceIDs []string) ([]report.ChoiceCount, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT c.id, c.body, COUNT(cr.response_id)
        FROM choices c
        LEFT JOIN choice_responses cr ON cr.choice_id = c.id
        WHERE c.id = ANY($1::uuid[])
        GROUP BY c.id, c.body
    `, parseIDs(choiceIDs))
	if err != nil {
		return nil, fmt.Errorf("count choices: %w", err)
	}
	defer rows.Close()

	var res []report.ChoiceCount
	for rows.Next() {
		var (
			id uuid.UUID
			c  report.ChoiceCount
		)
		if err := rows.Scan(&id, &c.Body, &c.Count); err != nil {
			return nil, err
		}
		c.ChoiceID = id.String()
		res = append(res, c)
	}
	return res, rows.Err()
}

// dimensionQueries group linked responses of the given choices by one column.
// Missing values are reported as "unknown".
var dimensionQueries = map[string]string{
	"gender": groupQuery("gender"),
	"age":    groupQuery("age"),
	"race":   groupQuery("race"),
}

func groupQuery(column string) string {
	return `
        SELECT cr.choice_id, COALESCE(NULLIF(r.` + column + `, ''), '` + response.Unknown + `'), COUNT(*)
        FROM choice_responses cr
        JOIN responses r ON r.id = cr.response_id
        WHERE cr.choice_id = ANY($1::uuid[])
        GROUP BY 1, 2
    `
}

func (r *ReportRepo) ChoiceBreakdowns(ctx context.Context, choiceIDs []string) ([]report.ChoiceBreakdown, error) {
	counts, err := r.ChoiceCounts(ctx, choiceIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*report.ChoiceBreakdown, len(counts))
	res := make([]report.ChoiceBreakdown, len(counts))
	for i, c := range counts {
		res[i] = report.ChoiceBreakdown{
			ChoiceID:      c.ChoiceID,
			Body:          c.Body,
			Gender:        []report.Bucket{},
			Age:           []report.Bucket{},
			Race:          []report.Bucket{},
			TotalResponse: c.Count,
		}
		byID[c.ChoiceID] = &res[i]
	}
	if len(res) == 0 {
		return res, nil
	}

	ids := parseIDs(choiceIDs)
	for dim, query := range dimensionQueries {
		if err := r.groupInto(ctx, query, ids, byID, dim); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *ReportRepo) groupInto(ctx context.Context, query string, ids []uuid.UUID, byID map[string]*report.ChoiceBreakdown, dim string) error {
	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("group by %s: %w", dim, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id uuid.UUID
			b  report.Bucket
		)
		if err := rows.Scan(&id, &b.Value, &b.Count); err != nil {
			return err
		}
		bd, ok := byID[id.String()]
		if !ok {
			continue
		}
		switch dim {
		case "gender":
			bd.Gender = append(bd.Gender, b)
		case "age":
			bd.Age = append(bd.Age, b)
		case "race":
			bd.Race = append(bd.Race, b)
		}
	}
	return rows.Err()
}

func (r *ReportRepo) QuestionIDForChoice(ctx context.Context, choiceID string) (string, error) {
	cid, err := uuid.Parse(choiceID)
	if err != nil {
		return "", question.ErrNotFound
	}

	var qid uuid.UUID
	err = r.db.QueryRowContext(ctx, `
        SELECT question_id FROM question_choices WHERE choice_id = $1 LIMIT 1
    `, cid).Scan(&qid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", question.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select question for choice: %w", err)
	}
	return qid.String(), nil
}
