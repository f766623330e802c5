package response

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"

	"polling-backend/internal/domain/schema"
)

type memoryResponseRepo struct {
	mu        sync.Mutex
	responses []Response
	links     map[string][]string
	nextID    int
}

func newMemoryResponseRepo(choiceIDs ...string) *memoryResponseRepo {
	r := &memoryResponseRepo{links: make(map[string][]string), nextID: 1}
	for _, id := range choiceIDs {
		r.links[id] = nil
	}
	return r
}

func (r *memoryResponseRepo) Create(ctx context.Context, resp *Response, choiceID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	resp.ID = strconv.Itoa(r.nextID)
	r.nextID++
	r.responses = append(r.responses, *resp)
	ids, ok := r.links[choiceID]
	if !ok {
		return false, nil
	}
	r.links[choiceID] = append(ids, resp.ID)
	return true, nil
}

func (r *memoryResponseRepo) List(ctx context.Context) ([]Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Response(nil), r.responses...), nil
}

type recordingInvalidator struct {
	choices []string
	err     error
}

func (i *recordingInvalidator) InvalidateChoice(ctx context.Context, choiceID string) error {
	i.choices = append(i.choices, choiceID)
	return i.err
}

func decodeInput(t *testing.T, choiceID, body string) RecordInput {
	t.Helper()
	var raw struct {
		Gender schema.Enum `json:"gender"`
		Age    schema.Enum `json:"age"`
		Race   schema.Enum `json:"race"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return RecordInput{ChoiceID: choiceID, Gender: raw.Gender, Age: raw.Age, Race: raw.Race}
}

func TestRecordLinksExactlyOnce(t *testing.T) {
	repo := newMemoryResponseRepo("c1", "c2")
	inv := &recordingInvalidator{}
	svc := NewService(repo, inv)
	ctx := context.Background()

	r, linked, err := svc.Record(ctx, decodeInput(t, "c1", `{"gender":"female","age":"20-30","race":"asian"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !linked || r.ID == "" {
		t.Fatalf("expected linked response with id, got %+v linked=%v", r, linked)
	}
	if r.Gender != "female" || r.Age != "20-30" || r.Race != "asian" {
		t.Fatalf("unexpected response fields %+v", r)
	}
	if len(repo.links["c1"]) != 1 || repo.links["c1"][0] != r.ID {
		t.Fatalf("expected c1 to hold the new response, got %v", repo.links["c1"])
	}
	if len(repo.links["c2"]) != 0 {
		t.Fatalf("c2 must be untouched")
	}
	if len(inv.choices) != 1 || inv.choices[0] != "c1" {
		t.Fatalf("expected invalidation for c1, got %v", inv.choices)
	}
}

func TestRecordAllowsEmptyDemographics(t *testing.T) {
	repo := newMemoryResponseRepo("c1")
	svc := NewService(repo, nil)

	for _, body := range []string{`{}`, `{"gender":"male"}`, `{"age":"60+","race":""}`, `{"race":null}`} {
		if _, _, err := svc.Record(context.Background(), decodeInput(t, "c1", body)); err != nil {
			t.Fatalf("expected %s to be accepted: %v", body, err)
		}
	}
	if len(repo.links["c1"]) != 4 {
		t.Fatalf("expected 4 linked responses, got %d", len(repo.links["c1"]))
	}
}

func TestRecordRejectsInvalidEnums(t *testing.T) {
	repo := newMemoryResponseRepo("c1")
	svc := NewService(repo, nil)

	cases := map[string]string{
		`{"gender":"Male"}`:         "gender",
		`{"age":"25"}`:              "age",
		`{"age":25}`:                "age",
		`{"race":"White"}`:          "race",
		`{"race":"asian american"}`: "race",
	}
	for body, field := range cases {
		_, _, err := svc.Record(context.Background(), decodeInput(t, "c1", body))
		var ve *schema.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected validation error for %s, got %v", body, err)
		}
		if ve.Field != field {
			t.Fatalf("expected %s to name %q, got %q", body, field, ve.Field)
		}
	}
	if len(repo.responses) != 0 {
		t.Fatalf("invalid responses must not be stored")
	}
}

func TestRecordUnknownChoiceIsPermissive(t *testing.T) {
	repo := newMemoryResponseRepo("c1")
	inv := &recordingInvalidator{}
	svc := NewService(repo, inv)

	r, linked, err := svc.Record(context.Background(), decodeInput(t, "nope", `{"gender":"other"}`))
	if err != nil {
		t.Fatalf("expected success for unknown choice, got %v", err)
	}
	if linked {
		t.Fatalf("expected linked=false")
	}
	if r == nil || r.ID == "" {
		t.Fatalf("expected stored response")
	}
	if len(inv.choices) != 0 {
		t.Fatalf("nothing to invalidate for an unknown choice")
	}
}

func TestRecordIgnoresInvalidationFailure(t *testing.T) {
	svc := NewService(newMemoryResponseRepo("c1"), &recordingInvalidator{err: errors.New("redis down")})
	if _, linked, err := svc.Record(context.Background(), decodeInput(t, "c1", `{}`)); err != nil || !linked {
		t.Fatalf("cache failure must not fail the vote: linked=%v err=%v", linked, err)
	}
}

func TestListNeverNil(t *testing.T) {
	svc := NewService(newMemoryResponseRepo(), nil)
	rs, err := svc.List(context.Background())
	if err != nil || rs == nil {
		t.Fatalf("expected empty list, got %#v %v", rs, err)
	}
}

func TestResolveBuildsResponse(t *testing.T) {
	in := RecordInput{
		ChoiceID: "c1",
		Gender:   schema.NewEnum("other"),
		Age:      schema.NewEnum("50-60"),
		Race:     schema.NewEnum("american indian"),
	}
	r, err := in.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Gender != "other" || r.Age != "50-60" || r.Race != "american indian" {
		t.Fatalf("unexpected response %+v", r)
	}

	in.Age = schema.NewEnum("61+")
	in.Race = schema.NewEnum("martian")
	_, err = in.Resolve()
	var errs schema.Errors
	if !errors.As(err, &errs) || len(errs) != 2 {
		t.Fatalf("expected two field errors, got %v", err)
	}
}
