// Package schema holds the JSON field types used by request bodies and the
// checks that turn them into validated domain values.
//
// Text fields are lenient: any JSON primitive is accepted and kept in its
// string form. Enum fields are strict: only an exact string from the allowed
// set passes. Neither type fails during decoding; problems surface from
// Check/Resolve as a ValidationError naming the field.
package schema

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"time"
)

var jsonNull = []byte("null")

// Text is a string field that coerces numbers and booleans to their string
// form. Objects and arrays are kept as invalid.
type Text struct {
	Value   string
	Set     bool
	invalid bool
}

// NewText returns a Text holding s.
func NewText(s string) Text {
	return Text{Value: s, Set: true}
}

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = Text{}
	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return nil
	}

	t.Set = true
	switch c := raw[0]; {
	case c == '"':
		return json.Unmarshal(raw, &t.Value)
	case c == 't' || c == 'f':
		t.Value = string(raw)
	case c == '-' || (c >= '0' && c <= '9'):
		t.Value = formatNumber(string(raw))
	default:
		t.invalid = true
	}
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Set || t.invalid {
		return jsonNull, nil
	}
	return json.Marshal(t.Value)
}

// Check validates presence and castability of the field.
func (t Text) Check(field string, required bool) *ValidationError {
	if t.invalid {
		return &ValidationError{Field: field, Reason: "cannot be cast to a string"}
	}
	if required && (!t.Set || t.Value == "") {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

// formatNumber renders a JSON number the way a JavaScript runtime would
// stringify it, so 1e3 becomes "1000" and 42.0 becomes "42".
func formatNumber(lit string) string {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return lit
	}
	if math.Abs(f) >= 1e21 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Enum keeps the raw JSON token of a closed-set field until it is resolved
// against the allowed values.
type Enum struct {
	raw json.RawMessage
}

// NewEnum returns an Enum holding the string s.
func NewEnum(s string) Enum {
	b, _ := json.Marshal(s)
	return Enum{raw: b}
}

func (e *Enum) UnmarshalJSON(b []byte) error {
	e.raw = append(e.raw[:0], b...)
	return nil
}

// Resolve returns the exact allowed value, "" when the field is unset or
// empty, or a ValidationError for anything else. Matching is case-sensitive
// and non-string tokens are never coerced.
func (e Enum) Resolve(field string, allowed []string) (string, *ValidationError) {
	raw := bytes.TrimSpace(e.raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return "", nil
	}

	var s string
	if raw[0] != '"' || json.Unmarshal(raw, &s) != nil {
		return "", &ValidationError{Field: field, Reason: "`" + string(raw) + "` is not a valid enum value"}
	}
	if s == "" {
		return "", nil
	}
	if !slices.Contains(allowed, s) {
		return "", &ValidationError{Field: field, Reason: "`" + s + "` is not a valid enum value"}
	}
	return s, nil
}

// maxDateMillis is the widest offset from the Unix epoch, in either
// direction, that a JavaScript Date can hold.
const maxDateMillis = 8.64e15

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp accepts RFC 3339 strings, bare dates, or a number of Unix
// milliseconds.
type Timestamp struct {
	Time    time.Time
	Set     bool
	invalid bool
}

// NewTimestamp returns a Timestamp holding t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Set: true}
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	*ts = Timestamp{}
	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return nil
	}

	ts.Set = true
	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		t, ok := parseTimestamp(s)
		if !ok {
			ts.invalid = true
			return nil
		}
		ts.Time = t
	case c == '-' || (c >= '0' && c <= '9'):
		ms, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || math.IsNaN(ms) || math.Abs(ms) > maxDateMillis {
			ts.invalid = true
			return nil
		}
		ts.Time = time.UnixMilli(int64(ms)).UTC()
	default:
		ts.invalid = true
	}
	return nil
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Check validates presence and castability of the field.
func (ts Timestamp) Check(field string, required bool) *ValidationError {
	if ts.invalid {
		return &ValidationError{Field: field, Reason: "cannot be cast to a date"}
	}
	if required && !ts.Set {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}
