package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"polling-backend/internal/domain/auth"
	"polling-backend/internal/domain/question"
	"polling-backend/internal/domain/report"
	"polling-backend/internal/domain/response"
	"polling-backend/internal/worker"
)

// PingFunc reports whether the backing store answers.
type PingFunc func(ctx context.Context) error

type Options struct {
	ResponseCh      chan<- worker.ResponseEvent
	Ping            PingFunc
	ClientBuildPath string
	VotesPerMinute  int
	VoteBurst       int
}

type Handler struct {
	questionSvc *question.Service
	responseSvc *response.Service
	reportSvc   *report.Service
	authSvc     *auth.Service
	responseCh  chan<- worker.ResponseEvent
	ping        PingFunc
	clientDir   string
}

func NewRouter(
	questionSvc *question.Service,
	responseSvc *response.Service,
	reportSvc *report.Service,
	authSvc *auth.Service,
	opts Options,
) http.Handler {
	h := &Handler{
		questionSvc: questionSvc,
		responseSvc: responseSvc,
		reportSvc:   reportSvc,
		authSvc:     authSvc,
		responseCh:  opts.ResponseCh,
		ping:        opts.Ping,
		clientDir:   opts.ClientBuildPath,
	}

	perMinute := opts.VotesPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	burst := opts.VoteBurst
	if burst <= 0 {
		burst = 5
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(RequestLogger)
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Get("/questions", h.handleListQuestions)
	r.Get("/responses", h.handleListResponses)
	r.Get("/question/{id}", h.handleQuestionSummary)
	r.Post("/question", h.handleCreateQuestion)
	r.With(RateLimitVotes(rate.Every(time.Minute/time.Duration(perMinute)), burst)).
		Post("/response/{id}", h.handleRecordResponse)
	r.Get("/questionData/{id}", h.handleQuestionData)
	r.Post("/auth", h.handleAuth)

	r.Get("/*", h.handleStatic)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.ping == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "store_unavailable",
			"message": "store not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "store_unavailable",
			"message": "store not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
