package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"polling-backend/internal/domain/auth"
)

type authRequest struct {
	Password json.RawMessage `json:"password" swaggertype:"string"`
}

// password returns the submitted password. Only a JSON string counts; numbers
// and other tokens never match the stored record.
func (req authRequest) password() (string, bool) {
	raw := bytes.TrimSpace(req.Password)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var pw string
	if err := json.Unmarshal(raw, &pw); err != nil {
		return "", false
	}
	return pw, true
}

// @Summary     Check the shared password
// @Tags        auth
// @Accept      json
// @Param       request  body  authRequest  true  "Password"
// @Success     200
// @Failure     403
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /auth [post]
func (h *Handler) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, err)
		return
	}

	pw, ok := req.password()
	if !ok {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	err := h.authSvc.Check(r.Context(), pw)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, auth.ErrForbidden):
		w.WriteHeader(http.StatusForbidden)
	default:
		errorResponse(w, err)
	}
}
