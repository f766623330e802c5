package schema

import (
	"errors"
	"strings"
)

// ValidationError reports a single field that failed schema checks.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Errors collects every failing field of one record.
type Errors []*ValidationError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, ve := range e {
		parts = append(parts, ve.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Unwrap() []error {
	errs := make([]error, 0, len(e))
	for _, ve := range e {
		errs = append(errs, ve)
	}
	return errs
}

// Add appends ve when it is non-nil.
func (e *Errors) Add(ve *ValidationError) {
	if ve != nil {
		*e = append(*e, ve)
	}
}

// Prefix appends every error of other with its field nested under prefix.
func (e *Errors) Prefix(prefix string, other Errors) {
	for _, ve := range other {
		*e = append(*e, &ValidationError{Field: prefix + "." + ve.Field, Reason: ve.Reason})
	}
}

// Err returns nil when nothing failed, so callers can return it directly.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// IsValidation reports whether err carries at least one ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
