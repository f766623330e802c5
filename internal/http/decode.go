package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"polling-backend/internal/platform/apperr"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads one JSON object into dst, rejecting unknown fields and
// trailing data. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.BadRequest("invalid_input", "invalid body: "+err.Error(), err)
	}
	if dec.More() {
		return apperr.BadRequest("invalid_input", "invalid body: trailing data", nil)
	}
	return nil
}
