package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"polling-backend/internal/domain/response"
	"polling-backend/internal/domain/schema"
	"polling-backend/internal/metrics"
	"polling-backend/internal/worker"
)

type recordResponseRequest struct {
	Gender schema.Enum `json:"gender" swaggertype:"string" enums:"male,female,nonbinary,other,unknown"`
	Age    schema.Enum `json:"age" swaggertype:"string" enums:"<10,10-20,20-30,30-40,40-50,50-60,60+,unknown"`
	Race   schema.Enum `json:"race" swaggertype:"string" enums:"white,african american,asian,hispanic,american indian,other,unknown"`
}

// @Summary     List responses
// @Tags        responses
// @Produce     json
// @Success     200  {array}   response.Response
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /responses [get]
func (h *Handler) handleListResponses(w http.ResponseWriter, r *http.Request) {
	rs, err := h.responseSvc.List(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

// @Summary     Record a response for a choice
// @Tags        responses
// @Accept      json
// @Produce     json
// @Param       id       path      string                 true  "Choice ID"
// @Param       request  body      recordResponseRequest  false "Demographics"
// @Success     201      {object}  response.Response
// @Failure     400      {object}  map[string]string  "invalid body or validation error"
// @Failure     429      {object}  map[string]string  "rate limited"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /response/{id} [post]
func (h *Handler) handleRecordResponse(w http.ResponseWriter, r *http.Request) {
	choiceID := chi.URLParam(r, "id")

	var req recordResponseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, err)
		return
	}

	resp, linked, err := h.responseSvc.Record(r.Context(), response.RecordInput{
		ChoiceID: choiceID,
		Gender:   req.Gender,
		Age:      req.Age,
		Race:     req.Race,
	})
	if err != nil {
		errorResponse(w, err)
		return
	}

	metrics.IncResponse(!linked)
	if linked {
		worker.Publish(h.responseCh, worker.NewResponseEvent(choiceID, resp))
	}

	writeJSON(w, http.StatusCreated, resp)
}
