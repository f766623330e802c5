package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"polling-backend/internal/domain/auth"
	"polling-backend/internal/domain/question"
	"polling-backend/internal/domain/report"
	"polling-backend/internal/domain/response"
	"polling-backend/internal/platform/database"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("polling"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.NewPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, CreateSchema(ctx, db))
	require.NoError(t, CreateSchema(ctx, db), "schema creation must be repeatable")
	return db
}

func TestQuestionLifecycle(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	repo := NewQuestionRepo(db)

	q := &question.Question{Body: "Pick one", DateAsked: time.Date(2020, 3, 1, 12, 30, 0, 0, time.UTC)}
	require.NoError(t, repo.Create(ctx, q, []question.Choice{{Body: "A"}, {Body: "B"}, {Body: "C"}}))
	require.Len(t, q.Choices, 3)

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pick one", got.Body)
	assert.Equal(t, q.Choices, got.Choices)
	assert.True(t, q.DateAsked.Equal(got.DateAsked))

	empty := &question.Question{Body: "No choices", DateAsked: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, empty, nil))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, q.Choices, list[0].Choices)
	assert.Empty(t, list[1].Choices)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, question.ErrNotFound)
	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, question.ErrNotFound)
}

func TestResponsesAndReports(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	questions := NewQuestionRepo(db)
	responses := NewResponseRepo(db)
	reports := NewReportRepo(db)

	q := &question.Question{Body: "Pick one", DateAsked: time.Now().UTC()}
	require.NoError(t, questions.Create(ctx, q, []question.Choice{{Body: "A"}, {Body: "B"}}))
	a, b := q.Choices[0], q.Choices[1]

	votes := []struct {
		choice string
		resp   response.Response
	}{
		{a, response.Response{Gender: "male", Age: "20-30"}},
		{a, response.Response{Gender: "female"}},
		{b, response.Response{Gender: "male", Race: "asian"}},
	}
	for _, v := range votes {
		r := v.resp
		linked, err := responses.Create(ctx, &r, v.choice)
		require.NoError(t, err)
		require.True(t, linked)
	}

	orphan := response.Response{}
	linked, err := responses.Create(ctx, &orphan, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, linked)
	assert.NotEmpty(t, orphan.ID)

	all, err := responses.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "20-30", all[0].Age)
	assert.Empty(t, all[1].Age)

	counts, err := reports.ChoiceCounts(ctx, append(q.Choices, "junk"))
	require.NoError(t, err)
	got := map[string]int64{}
	for _, c := range counts {
		got[c.ChoiceID] = c.Count
	}
	assert.Equal(t, map[string]int64{a: 2, b: 1}, got)

	breakdowns, err := reports.ChoiceBreakdowns(ctx, q.Choices)
	require.NoError(t, err)
	require.Len(t, breakdowns, 2)
	for _, bd := range breakdowns {
		if bd.ChoiceID != a {
			continue
		}
		assert.Equal(t, "A", bd.Body)
		assert.EqualValues(t, 2, bd.TotalResponse)
		assert.ElementsMatch(t, []report.Bucket{{Value: "male", Count: 1}, {Value: "female", Count: 1}}, bd.Gender)
		assert.ElementsMatch(t, []report.Bucket{{Value: "20-30", Count: 1}, {Value: response.Unknown, Count: 1}}, bd.Age)
		assert.ElementsMatch(t, []report.Bucket{{Value: response.Unknown, Count: 2}}, bd.Race)
	}

	qid, err := reports.QuestionIDForChoice(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, q.ID, qid)
	_, err = reports.QuestionIDForChoice(ctx, uuid.NewString())
	assert.ErrorIs(t, err, question.ErrNotFound)
}

func TestSharedPassword(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	repo := NewPasswordRepo(db)

	_, err := repo.SharedPassword(ctx)
	assert.ErrorIs(t, err, auth.ErrNotConfigured)

	require.NoError(t, repo.SetSharedPassword(ctx, "first"))
	require.NoError(t, repo.SetSharedPassword(ctx, "second"))

	got, err := repo.SharedPassword(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestParseIDsDropsMalformed(t *testing.T) {
	id := uuid.New()
	got := parseIDs([]string{"x", id.String()})
	assert.Equal(t, []uuid.UUID{id}, got)
}
