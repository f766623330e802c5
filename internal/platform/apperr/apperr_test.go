package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", NotFound("not_found", "question not found", cause))

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError in chain")
	}
	if appErr.StatusCode() != http.StatusNotFound {
		t.Fatalf("unexpected status %d", appErr.StatusCode())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
}

func TestErrorText(t *testing.T) {
	cases := []struct {
		err  *AppError
		want string
	}{
		{BadRequest("invalid_input", "invalid body", nil), "invalid body"},
		{TooManyRequests("rate_limited", "", nil), "rate_limited"},
		{Internal("", "", errors.New("db down")), "db down"},
		{&AppError{}, "Internal Server Error"},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Fatalf("expected %q, got %q", c.want, got)
		}
	}

	var nilErr *AppError
	if nilErr.StatusCode() != http.StatusInternalServerError || nilErr.Error() != "" {
		t.Fatalf("nil AppError must be safe to use")
	}
}
