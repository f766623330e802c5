package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"polling-backend/internal/domain/question"
	"polling-backend/internal/domain/schema"
	"polling-backend/internal/metrics"
)

type choiceRequest struct {
	Choice schema.Text `json:"choice" swaggertype:"string"`
}

type createQuestionRequest struct {
	Body      schema.Text      `json:"body" swaggertype:"string"`
	DateAsked schema.Timestamp `json:"date_asked" swaggertype:"string" format:"date-time"`
	Choices   []choiceRequest  `json:"choices"`
}

// @Summary     List questions
// @Tags        questions
// @Produce     json
// @Success     200  {array}   question.Question
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /questions [get]
func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := h.questionSvc.List(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, qs)
}

// @Summary     Create a question with its choices
// @Tags        questions
// @Accept      json
// @Produce     json
// @Param       request  body      createQuestionRequest  true  "Question payload"
// @Success     201      {object}  question.Question
// @Failure     400      {object}  map[string]string  "invalid body or validation error"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /question [post]
func (h *Handler) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, err)
		return
	}

	in := question.CreateInput{
		Body:      req.Body,
		DateAsked: req.DateAsked,
		Choices:   make([]schema.Text, 0, len(req.Choices)),
	}
	for _, c := range req.Choices {
		in.Choices = append(in.Choices, c.Choice)
	}

	q, err := h.questionSvc.Create(r.Context(), in)
	if err != nil {
		errorResponse(w, err)
		return
	}
	metrics.IncQuestionsCreated()

	writeJSON(w, http.StatusCreated, q)
}

// @Summary     Vote totals for a question
// @Tags        reports
// @Produce     json
// @Param       id   path      string  true  "Question ID"
// @Success     200  {object}  report.Summary
// @Failure     404  {object}  map[string]string  "not found"
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /question/{id} [get]
func (h *Handler) handleQuestionSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.reportSvc.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// @Summary     Demographic breakdown for a question
// @Description Each entry maps one choice body to its gender, age and race counts.
// @Tags        reports
// @Produce     json
// @Param       id   path      string  true  "Question ID"
// @Success     200  {array}   report.Entry
// @Failure     404  {object}  map[string]string  "not found"
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /questionData/{id} [get]
func (h *Handler) handleQuestionData(w http.ResponseWriter, r *http.Request) {
	entries, err := h.reportSvc.Breakdown(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
