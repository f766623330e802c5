package report

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"polling-backend/internal/domain/question"
	"polling-backend/internal/domain/response"
)

const (
	summaryKeyPrefix    = "report:summary:"
	breakdownKeyPrefix  = "report:breakdown:"
	generationKeyPrefix = "report:gen:"
)

type Service struct {
	questions QuestionFinder
	repo      Repository
	cache     Cache
	logger    *slog.Logger
}

// NewService builds the report service. cache may be nil.
func NewService(questions QuestionFinder, repo Repository, cache Cache) *Service {
	return &Service{
		questions: questions,
		repo:      repo,
		cache:     cache,
		logger:    slog.Default(),
	}
}

// Summary returns per-choice vote totals in the question's choice order.
func (s *Service) Summary(ctx context.Context, questionID string) (*Summary, error) {
	key := s.cacheKey(ctx, summaryKeyPrefix, questionID)
	var cached Summary
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.ChoiceCounts(ctx, q.Choices)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]ChoiceCount, len(counts))
	for _, c := range counts {
		byID[c.ChoiceID] = c
	}

	sum := &Summary{
		Body:      q.Body,
		DateAsked: q.DateAsked,
		Choices:   make([]string, 0, len(q.Choices)),
		Counts:    make([]int64, 0, len(q.Choices)),
	}
	for _, id := range q.Choices {
		c, ok := byID[id]
		if !ok {
			continue
		}
		sum.Choices = append(sum.Choices, c.Body)
		sum.Counts = append(sum.Counts, c.Count)
	}

	s.toCache(ctx, key, sum)
	return sum, nil
}

// Breakdown returns gender, age and race counts per choice in the question's
// choice order. Unreported values are counted under "unknown".
func (s *Service) Breakdown(ctx context.Context, questionID string) ([]Entry, error) {
	key := s.cacheKey(ctx, breakdownKeyPrefix, questionID)
	var cached []Entry
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	breakdowns, err := s.repo.ChoiceBreakdowns(ctx, q.Choices)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]ChoiceBreakdown, len(breakdowns))
	for _, b := range breakdowns {
		byID[b.ChoiceID] = b
	}

	entries := make([]Entry, 0, len(q.Choices))
	for _, id := range q.Choices {
		b, ok := byID[id]
		if !ok {
			continue
		}
		b.Gender = normalizeBuckets(b.Gender, response.Genders)
		b.Age = normalizeBuckets(b.Age, response.AgeRanges)
		b.Race = normalizeBuckets(b.Race, response.Races)
		entries = append(entries, Entry{b.Body: b})
	}

	s.toCache(ctx, key, entries)
	return entries, nil
}

// InvalidateChoice moves the question owning choiceID to a new cache
// generation and drops the reports of the previous one. A read that started
// before the bump writes under the old generation, which is never read again.
func (s *Service) InvalidateChoice(ctx context.Context, choiceID string) error {
	if s.cache == nil {
		return nil
	}
	qid, err := s.repo.QuestionIDForChoice(ctx, choiceID)
	if errors.Is(err, question.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	gen, err := s.cache.Bump(ctx, generationKeyPrefix+qid)
	if err != nil {
		return err
	}
	return s.cache.Delete(ctx,
		generationKey(summaryKeyPrefix, qid, gen-1),
		generationKey(breakdownKeyPrefix, qid, gen-1),
	)
}

// cacheKey returns the key for the question's current generation, or "" when
// the generation cannot be read and the cache must be bypassed.
func (s *Service) cacheKey(ctx context.Context, prefix, questionID string) string {
	if s.cache == nil {
		return ""
	}
	gen, err := s.cache.Generation(ctx, generationKeyPrefix+questionID)
	if err != nil {
		s.logger.Warn("report cache generation read failed", "question_id", questionID, "error", err)
		return ""
	}
	return generationKey(prefix, questionID, gen)
}

func generationKey(prefix, questionID string, gen int64) string {
	return fmt.Sprintf("%s%s:%d", prefix, questionID, gen)
}

func (s *Service) fromCache(ctx context.Context, key string, dst any) bool {
	if key == "" {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.logger.Warn("report cache read failed", "key", key, "error", err)
		return false
	}
	return ok
}

func (s *Service) toCache(ctx context.Context, key string, v any) {
	if key == "" {
		return
	}
	if err := s.cache.Set(ctx, key, v); err != nil {
		s.logger.Warn("report cache write failed", "key", key, "error", err)
	}
}

// normalizeBuckets folds the empty value into "unknown", merges duplicates and
// orders buckets by their position in the enum.
func normalizeBuckets(buckets []Bucket, order []string) []Bucket {
	merged := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		v := b.Value
		if v == "" {
			v = response.Unknown
		}
		merged[v] += b.Count
	}

	out := make([]Bucket, 0, len(merged))
	for v, c := range merged {
		if c > 0 {
			out = append(out, Bucket{Value: v, Count: c})
		}
	}

	rank := func(v string) int {
		if i := slices.Index(order, v); i >= 0 {
			return i
		}
		return len(order)
	}
	slices.SortFunc(out, func(a, b Bucket) int {
		if c := cmp.Compare(rank(a.Value), rank(b.Value)); c != 0 {
			return c
		}
		return strings.Compare(a.Value, b.Value)
	})
	return out
}
