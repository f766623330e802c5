package response

import (
	"context"
	"log/slog"

	"polling-backend/internal/domain/schema"
)

type RecordInput struct {
	ChoiceID string
	Gender   schema.Enum
	Age      schema.Enum
	Race     schema.Enum
}

// Resolve validates the demographic fields against their closed sets.
func (in RecordInput) Resolve() (Response, error) {
	var (
		r    Response
		errs schema.Errors
		ve   *schema.ValidationError
	)
	r.Gender, ve = in.Gender.Resolve("gender", Genders)
	errs.Add(ve)
	r.Age, ve = in.Age.Resolve("age", AgeRanges)
	errs.Add(ve)
	r.Race, ve = in.Race.Resolve("race", Races)
	errs.Add(ve)
	return r, errs.Err()
}

type Service struct {
	repo        Repository
	invalidator Invalidator
	logger      *slog.Logger
}

// NewService builds the service. inv may be nil when nothing caches
// response-derived data.
func NewService(repo Repository, inv Invalidator) *Service {
	return &Service{repo: repo, invalidator: inv, logger: slog.Default()}
}

// Record stores a response and links it to the choice. A choice id that
// matches nothing is not an error; linked reports whether the link happened.
func (s *Service) Record(ctx context.Context, in RecordInput) (*Response, bool, error) {
	r, err := in.Resolve()
	if err != nil {
		return nil, false, err
	}

	linked, err := s.repo.Create(ctx, &r, in.ChoiceID)
	if err != nil {
		return nil, false, err
	}

	if !linked {
		s.logger.Warn("response recorded for unknown choice", "choice_id", in.ChoiceID, "response_id", r.ID)
		return &r, false, nil
	}

	if s.invalidator != nil {
		if err := s.invalidator.InvalidateChoice(ctx, in.ChoiceID); err != nil {
			s.logger.Warn("report cache invalidation failed", "choice_id", in.ChoiceID, "error", err)
		}
	}
	return &r, true, nil
}

func (s *Service) List(ctx context.Context) ([]Response, error) {
	rs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if rs == nil {
		rs = []Response{}
	}
	return rs, nil
}
