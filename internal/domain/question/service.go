package question

import (
	"context"
	"fmt"

	"polling-backend/internal/domain/schema"
)

type CreateInput struct {
	Body      schema.Text
	DateAsked schema.Timestamp
	Choices   []schema.Text
}

// Validate checks the question and every choice before anything is written.
func (in CreateInput) Validate() error {
	var errs schema.Errors
	errs.Add(in.Body.Check("body", true))
	errs.Add(in.DateAsked.Check("date_asked", true))
	for i, c := range in.Choices {
		var ce schema.Errors
		ce.Add(c.Check("choice", true))
		errs.Prefix(fmt.Sprintf("choices[%d]", i), ce)
	}
	return errs.Err()
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Question, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	choices := make([]Choice, 0, len(in.Choices))
	for _, c := range in.Choices {
		choices = append(choices, Choice{Body: c.Value})
	}

	q := &Question{
		Body:      in.Body.Value,
		DateAsked: in.DateAsked.Time,
	}
	if err := s.repo.Create(ctx, q, choices); err != nil {
		return nil, err
	}
	if q.Choices == nil {
		q.Choices = []string{}
	}
	return q, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Question, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Question, error) {
	qs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if qs == nil {
		qs = []Question{}
	}
	return qs, nil
}
