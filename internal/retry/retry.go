package retry

import (
	"context"
	"log/slog"
	"time"
)

// Policy bounds a retry loop. Delay doubles after each failed attempt and is
// capped at MaxDelay when that is set.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// Startup is used when dialing stores at boot.
var Startup = Policy{Attempts: 8, BaseDelay: 250 * time.Millisecond, MaxDelay: 4 * time.Second}

// Do executes fn until it succeeds, the attempts run out or ctx is canceled.
// The last error from fn is returned. op names the operation in logs.
func Do(ctx context.Context, p Policy, op string, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	delay := p.BaseDelay

	for i := 1; i <= attempts; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if err != nil {
				return err
			}
			return ctxErr
		}

		if err = fn(ctx); err == nil {
			return nil
		}

		if i == attempts {
			break
		}

		slog.Warn("retrying", "op", op, "attempt", i, "next_in", delay, "error", err)

		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}

		delay *= 2
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return err
}
