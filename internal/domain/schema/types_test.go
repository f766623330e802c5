package schema

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type textHolder struct {
	Body Text `json:"body"`
}

func TestTextCoercesPrimitives(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"body":"hello"}`, "hello"},
		{`{"body":42}`, "42"},
		{`{"body":-1.5}`, "-1.5"},
		{`{"body":1e3}`, "1000"},
		{`{"body":true}`, "true"},
		{`{"body":"5e0f1b2c3d4e5f6a7b8c9d0e"}`, "5e0f1b2c3d4e5f6a7b8c9d0e"},
	}
	for _, tc := range cases {
		var h textHolder
		if err := json.Unmarshal([]byte(tc.in), &h); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if ve := h.Body.Check("body", true); ve != nil {
			t.Fatalf("unexpected validation error for %s: %v", tc.in, ve)
		}
		if h.Body.Value != tc.want {
			t.Fatalf("for %s expected %q, got %q", tc.in, tc.want, h.Body.Value)
		}
	}
}

func TestTextRequiredAndCastFailures(t *testing.T) {
	for _, in := range []string{`{}`, `{"body":null}`, `{"body":""}`} {
		var h textHolder
		if err := json.Unmarshal([]byte(in), &h); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		ve := h.Body.Check("body", true)
		if ve == nil || ve.Field != "body" {
			t.Fatalf("expected required error for %s, got %v", in, ve)
		}
		if ve := h.Body.Check("body", false); ve != nil {
			t.Fatalf("optional field should pass for %s: %v", in, ve)
		}
	}

	for _, in := range []string{`{"body":{"a":1}}`, `{"body":["x"]}`} {
		var h textHolder
		if err := json.Unmarshal([]byte(in), &h); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if ve := h.Body.Check("body", false); ve == nil {
			t.Fatalf("expected cast error for %s", in)
		}
	}
}

type enumHolder struct {
	Gender Enum `json:"gender"`
}

func TestEnumIsExactAndNotCoerced(t *testing.T) {
	allowed := []string{"male", "female", "unknown"}

	ok := map[string]string{
		`{"gender":"male"}`: "male",
		`{}`:                "",
		`{"gender":null}`:   "",
		`{"gender":""}`:     "",
	}
	for in, want := range ok {
		var h enumHolder
		if err := json.Unmarshal([]byte(in), &h); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		got, ve := h.Gender.Resolve("gender", allowed)
		if ve != nil {
			t.Fatalf("unexpected error for %s: %v", in, ve)
		}
		if got != want {
			t.Fatalf("for %s expected %q, got %q", in, want, got)
		}
	}

	for _, in := range []string{`{"gender":"Male"}`, `{"gender":"MALE"}`, `{"gender":1}`, `{"gender":true}`, `{"gender":" male"}`} {
		var h enumHolder
		if err := json.Unmarshal([]byte(in), &h); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		_, ve := h.Gender.Resolve("gender", allowed)
		if ve == nil {
			t.Fatalf("expected enum error for %s", in)
		}
		if ve.Field != "gender" {
			t.Fatalf("expected error to name gender, got %q", ve.Field)
		}
	}
}

type tsHolder struct {
	At Timestamp `json:"at"`
}

func TestTimestampFormats(t *testing.T) {
	want := time.Date(2020, 3, 1, 12, 30, 0, 0, time.UTC)
	for _, in := range []string{
		`{"at":"2020-03-01T12:30:00Z"}`,
		`{"at":"2020-03-01T14:30:00+02:00"}`,
		`{"at":"2020-03-01T12:30:00"}`,
		`{"at":1583065800000}`,
	} {
		var h tsHolder
		if err := json.Unmarshal([]byte(in), &h); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if ve := h.At.Check("at", true); ve != nil {
			t.Fatalf("unexpected error for %s: %v", in, ve)
		}
		if !h.At.Time.Equal(want) {
			t.Fatalf("for %s expected %v, got %v", in, want, h.At.Time)
		}
	}

	var h tsHolder
	_ = json.Unmarshal([]byte(`{"at":"yesterday"}`), &h)
	if ve := h.At.Check("at", true); ve == nil {
		t.Fatalf("expected cast error for unparsable date")
	}
	for _, in := range []string{`{"at":1e20}`, `{"at":-1e20}`, `{"at":8640000000000001}`, `{"at":1e400}`} {
		var h tsHolder
		if err := json.Unmarshal([]byte(in), &h); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if ve := h.At.Check("at", true); ve == nil {
			t.Fatalf("expected cast error for out-of-range %s, got %v", in, h.At.Time)
		}
	}
	h = tsHolder{}
	if err := json.Unmarshal([]byte(`{"at":8640000000000000}`), &h); err != nil {
		t.Fatal(err)
	}
	if ve := h.At.Check("at", true); ve != nil {
		t.Fatalf("largest representable date must pass: %v", ve)
	}
	h = tsHolder{}
	_ = json.Unmarshal([]byte(`{}`), &h)
	if ve := h.At.Check("at", true); ve == nil {
		t.Fatalf("expected required error")
	}
}

func TestErrorsAggregate(t *testing.T) {
	var errs Errors
	if errs.Err() != nil {
		t.Fatalf("empty errors must be nil")
	}
	errs.Add(nil)
	errs.Add(&ValidationError{Field: "body", Reason: "is required"})
	errs.Prefix("choices[0]", Errors{{Field: "choice", Reason: "is required"}})

	err := errs.Err()
	if err == nil || !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "body" {
		t.Fatalf("expected first field body, got %+v", ve)
	}
	if len(errs) != 2 || errs[1].Field != "choices[0].choice" {
		t.Fatalf("unexpected prefixed errors %+v", errs)
	}
}
