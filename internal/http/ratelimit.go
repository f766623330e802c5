package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"polling-backend/internal/platform/apperr"
)

const (
	voterIdleTTL   = 10 * time.Minute
	voterSweepTick = time.Minute
)

type voterEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

// voterLimiter keeps one token bucket per client address.
type voterLimiter struct {
	mu        sync.Mutex
	voters    map[string]*voterEntry
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

func newVoterLimiter(limit rate.Limit, burst int) *voterLimiter {
	return &voterLimiter{
		voters: make(map[string]*voterEntry),
		limit:  limit,
		burst:  burst,
	}
}

// take consumes a token for addr. When none is available it returns false
// and the time until the next one.
func (l *voterLimiter) take(addr string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= voterSweepTick {
		for k, e := range l.voters {
			if now.Sub(e.seen) > voterIdleTTL {
				delete(l.voters, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.voters[addr]
	if !ok {
		e = &voterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.voters[addr] = e
	}
	e.seen = now

	res := e.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Minute
	}
	if wait := res.DelayFrom(now); wait > 0 {
		res.CancelAt(now)
		return false, wait
	}
	return true, 0
}

// RateLimitVotes limits requests per client address. RealIP must run first
// so RemoteAddr carries the forwarded address.
func RateLimitVotes(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	voters := newVoterLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := voters.take(remoteHost(r), time.Now())
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
				errorResponse(w, apperr.TooManyRequests("rate_limited", "too many responses, slow down", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func retryAfterSeconds(wait time.Duration) int {
	return max(1, int(wait.Round(time.Second)/time.Second))
}
