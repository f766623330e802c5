package worker

import (
	"context"
	"log/slog"

	"polling-backend/internal/domain/response"
	"polling-backend/internal/metrics"
)

// ResponseEvent is published after a response is linked to a choice.
type ResponseEvent struct {
	ChoiceID string
	Gender   string
	Age      string
	Race     string
}

// NewResponseEvent copies the demographic fields of r.
func NewResponseEvent(choiceID string, r *response.Response) ResponseEvent {
	return ResponseEvent{ChoiceID: choiceID, Gender: r.Gender, Age: r.Age, Race: r.Race}
}

// ResponseWorker turns response events into per-bucket counters.
type ResponseWorker struct {
	Ch      <-chan ResponseEvent
	observe func(dimension, value string)
}

func NewResponseWorker(ch <-chan ResponseEvent) *ResponseWorker {
	return &ResponseWorker{Ch: ch, observe: metrics.ObserveBucket}
}

func (w *ResponseWorker) Run(ctx context.Context) {
	slog.Info("response worker started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("response worker stopped")
			return
		case ev, ok := <-w.Ch:
			if !ok {
				slog.Info("response worker channel closed")
				return
			}
			w.handle(ev)
		}
	}
}

func (w *ResponseWorker) handle(ev ResponseEvent) {
	w.observe("gender", bucket(ev.Gender))
	w.observe("age", bucket(ev.Age))
	w.observe("race", bucket(ev.Race))
	slog.Debug("response event processed", "choice_id", ev.ChoiceID)
}

func bucket(v string) string {
	if v == "" {
		return response.Unknown
	}
	return v
}

// Publish hands ev to the worker without blocking. It reports false when the
// queue is full and the event was dropped.
func Publish(ch chan<- ResponseEvent, ev ResponseEvent) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- ev:
		return true
	default:
		return false
	}
}
