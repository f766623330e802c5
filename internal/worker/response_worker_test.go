package worker

import (
	"context"
	"sync"
	"testing"
	"time"
)

type observed struct {
	mu   sync.Mutex
	seen []string
}

func (o *observed) observe(dimension, value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, dimension+"="+value)
}

func (o *observed) snapshot() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.seen...)
}

func TestWorkerObservesEveryDimension(t *testing.T) {
	ch := make(chan ResponseEvent, 1)
	obs := &observed{}
	w := &ResponseWorker{Ch: ch, observe: obs.observe}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	ch <- ResponseEvent{ChoiceID: "c1", Gender: "female", Age: "60+"}

	deadline := time.After(time.Second)
	for len(obs.snapshot()) < 3 {
		select {
		case <-deadline:
			t.Fatalf("worker did not process event, saw %v", obs.snapshot())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done

	want := []string{"gender=female", "age=60+", "race=unknown"}
	got := obs.snapshot()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestWorkerStopsOnClosedChannel(t *testing.T) {
	ch := make(chan ResponseEvent)
	w := &ResponseWorker{Ch: ch, observe: func(string, string) {}}
	close(ch)

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("worker did not stop")
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	ch := make(chan ResponseEvent, 1)
	if !Publish(ch, ResponseEvent{ChoiceID: "a"}) {
		t.Fatalf("first publish should succeed")
	}
	if Publish(ch, ResponseEvent{ChoiceID: "b"}) {
		t.Fatalf("publish on a full queue should drop")
	}
	if Publish(nil, ResponseEvent{}) {
		t.Fatalf("publish without a queue should drop")
	}
}
