package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tenxcards/tenxcards-api/internal/api/shared"
)

// MsgRateLimited is the error body of a throttled request.
const MsgRateLimited = "Rate limit exceeded"

// KeyFunc derives the throttling key of a request. An empty key skips the limit.
type KeyFunc func(r *http.Request) string

// ByUser keys requests by the authenticated user, falling back to the client IP.
func ByUser(r *http.Request) string {
	if userID, ok := shared.UserIDFromContext(r.Context()); ok {
		return "user:" + userID.String()
	}
	return ByIP(r)
}

// ByIP keys requests by the client IP. Mount chi's RealIP first behind a proxy.
func ByIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter allows each key max requests per window, refilled evenly
// across the window.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	window   time.Duration
	key      KeyFunc
	now      func() time.Time
	lastScan time.Time
}

// NewRateLimiter creates a limiter of max requests per window and key.
func NewRateLimiter(max int, window time.Duration, key KeyFunc) *RateLimiter {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	if key == nil {
		key = ByUser
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(max)),
		burst:    max,
		window:   window,
		key:      key,
		now:      time.Now,
	}
}

// Handler rejects requests over the limit with 429 and a Retry-After header.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Requests without a key are not throttled
		key := l.key(r)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		ok, retryAfter := l.allow(key)
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, MsgRateLimited, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictIdle(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	// Reserve a token; a future reservation means the bucket is empty,
	// so hand the token back and report the wait.
	res := v.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// evictIdle drops keys idle for a full window; their buckets are full again.
// Runs at most once per window.
func (l *RateLimiter) evictIdle(now time.Time) {
	if now.Sub(l.lastScan) < l.window {
		return
	}
	l.lastScan = now
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) >= l.window {
			delete(l.visitors, k)
		}
	}
}

// Len reports the number of tracked keys.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
