package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"multitoko-be/internal/utils"

	"golang.org/x/time/rate"
)

type tier struct {
	name  string
	limit rate.Limit
	burst int
}

var (
	// checkout and login
	tierStrict = tier{"strict", rate.Limit(2), 5}

	tierGeneral = tier{"general", rate.Limit(10), 20}

	// storefront browsing clients
	tierFrontend = tier{"frontend", rate.Limit(20), 40}

	tierInternal = tier{"internal", rate.Limit(100), 200}
)

const idleAfter = 3 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per caller identity and tier. Buckets
// idle for longer than three minutes are dropped on a later request.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (rl *RateLimiter) allow(key string, t tier) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > time.Minute {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) > idleAfter {
				delete(rl.buckets, k)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(t.limit, t.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// Middleware rejects callers over their tier's rate with 429. It must run
// after AuthMiddleware so the identity is known.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := resolveTier(r)
		if !rl.allow(rateIdentity(r)+":"+t.name, t) {
			utils.WriteJSONError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateIdentity prefers the authenticated user, then the cart session, then
// the client IP.
func rateIdentity(r *http.Request) string {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		return "user:" + userID
	}
	if session := r.Header.Get("X-Cart-Session"); session != "" {
		return "cart:" + session
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

func resolveTier(r *http.Request) tier {
	switch {
	case utils.IsInternalRequest(r.Context()):
		return tierInternal
	case strings.HasSuffix(r.URL.Path, "/checkout"), r.Header.Get("X-Action") == "auth":
		return tierStrict
	case r.Header.Get("X-Client-Type") == "frontend-heavy":
		return tierFrontend
	default:
		return tierGeneral
	}
}
