package auth

import (
	"container/list"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"market-directory/internal/httpjson"
	"market-directory/internal/observability"
)

const defaultMaxClients = 5000

// RateLimiter allows each client a fixed number of requests per sliding
// window. At most maxKeys clients are tracked; when a new client arrives at
// capacity the least recently seen one is forgotten. State is per process.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	maxKeys int
	now     func() time.Time

	clients map[string]*list.Element
	recency *list.List // front is the most recently seen client
}

type clientWindow struct {
	key  string
	hits []time.Time // ascending
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}

	return &RateLimiter{
		limit:   limit,
		window:  window,
		maxKeys: defaultMaxClients,
		now:     time.Now,
		clients: make(map[string]*list.Element),
		recency: list.New(),
	}
}

// Middleware keys on observability.ClientIP, so it only sees proxy headers
// when the router trusts them.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter := l.Allow(observability.ClientIP(r))
		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			httpjson.WriteError(w, http.StatusTooManyRequests, "too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Allow records a request from key. Over the limit it returns false and the
// wait until the oldest request in the window expires.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	cw := l.touch(key)
	cw.expire(now.Add(-l.window))

	if len(cw.hits) >= l.limit {
		wait := cw.hits[0].Add(l.window).Sub(now)
		return false, max(wait, time.Second)
	}

	cw.hits = append(cw.hits, now)
	return true, 0
}

// Len reports how many clients are tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *RateLimiter) touch(key string) *clientWindow {
	if el, ok := l.clients[key]; ok {
		l.recency.MoveToFront(el)
		return el.Value.(*clientWindow)
	}

	for len(l.clients) >= l.maxKeys {
		oldest := l.recency.Back()
		l.recency.Remove(oldest)
		delete(l.clients, oldest.Value.(*clientWindow).key)
	}

	cw := &clientWindow{key: key}
	l.clients[key] = l.recency.PushFront(cw)
	return cw
}

func (cw *clientWindow) expire(cutoff time.Time) {
	i := 0
	for i < len(cw.hits) && !cw.hits[i].After(cutoff) {
		i++
	}
	if i > 0 {
		cw.hits = append(cw.hits[:0], cw.hits[i:]...)
	}
}
