package report

import (
	"context"
	"time"

	"polling-backend/internal/domain/question"
)

// Summary is the vote total per choice of one question. Choices and Counts
// are index-aligned and follow the question's choice order.
type Summary struct {
	Body      string    `json:"body"`
	DateAsked time.Time `json:"date_asked"`
	Choices   []string  `json:"choices"`
	Counts    []int64   `json:"counts"`
}

// Bucket is one grouped count. Value is serialized as _id to match the
// grouping output the client reads.
type Bucket struct {
	Value string `json:"_id"`
	Count int64  `json:"count"`
}

// ChoiceBreakdown holds the demographic counts of one choice.
type ChoiceBreakdown struct {
	ChoiceID      string   `json:"-"`
	Body          string   `json:"-"`
	Gender        []Bucket `json:"gender"`
	Age           []Bucket `json:"age"`
	Race          []Bucket `json:"race"`
	TotalResponse int64    `json:"totalResponse"`
}

// Entry maps a choice body to its breakdown. A breakdown is a list of
// entries, one per choice, in question order.
type Entry map[string]ChoiceBreakdown

// ChoiceCount is the size of one choice's response list.
type ChoiceCount struct {
	ChoiceID string
	Body     string
	Count    int64
}

// QuestionFinder is satisfied by question.Repository.
type QuestionFinder interface {
	GetByID(ctx context.Context, id string) (*question.Question, error)
}

// Repository runs the grouping queries. Results may come back in any order
// and may omit choices that do not exist.
type Repository interface {
	ChoiceCounts(ctx context.Context, choiceIDs []string) ([]ChoiceCount, error)
	ChoiceBreakdowns(ctx context.Context, choiceIDs []string) ([]ChoiceBreakdown, error)
	// QuestionIDForChoice returns question.ErrNotFound when no question
	// references the choice.
	QuestionIDForChoice(ctx context.Context, choiceID string) (string, error)
}

// Cache stores JSON-encodable report values by key, plus integer
// generation counters. A missing counter reads as zero.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, keys ...string) error
	Generation(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) (int64, error)
}
