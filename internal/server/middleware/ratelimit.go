package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	serr "github.com/IvanChernomyrdin/go-webchat/internal/shared/errors"
)

// idleTTL: через сколько удаляется лимитер клиента без запросов.
const idleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter: token bucket на каждого клиента (по IP или по пользователю).
type RateLimiter struct {
	rps    rate.Limit
	burst  int
	byUser bool

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter создаёт лимитер; key = "ip" | "user".
// Для "user" middleware должен стоять после AuthMiddleware,
// иначе ключом будет IP.
func NewRateLimiter(rps float64, burst int, key string) *RateLimiter {
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		byUser:   key == "user",
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Allow: можно ли пропустить очередной запрос клиента key.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > time.Minute {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > idleTTL {
				delete(rl.visitors, k)
			}
		}
		rl.lastSweep = now
	}

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Middleware отвечает 429, когда клиент исчерпал лимит.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(rl.key(r)) {
				retry := 1
				if rl.rps > 0 {
					retry = int(1/float64(rl.rps)) + 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				writeDetail(w, http.StatusTooManyRequests, serr.ErrTooManyRequests.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) key(r *http.Request) string {
	if rl.byUser {
		if u, ok := UserFromContext(r.Context()); ok {
			return "user:" + u.ID
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
