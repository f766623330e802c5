package question

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("question not found")

// Question is a poll prompt. Choices holds Choice identifiers in the order
// they were submitted.
type Question struct {
	ID        string    `json:"_id"`
	Body      string    `json:"body"`
	DateAsked time.Time `json:"date_asked"`
	Choices   []string  `json:"choices"`
}

// Choice is one selectable option. Responses holds Response identifiers.
type Choice struct {
	ID        string   `json:"_id"`
	Body      string   `json:"body"`
	Responses []string `json:"responses"`
}

type Repository interface {
	// Create stores the choices and then q, assigning fresh identifiers to
	// both. On return q.Choices lists the choice identifiers in input order.
	Create(ctx context.Context, q *Question, choices []Choice) error
	GetByID(ctx context.Context, id string) (*Question, error)
	List(ctx context.Context) ([]Question, error)
}
