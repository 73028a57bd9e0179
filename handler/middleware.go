package handler

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"companion-backend/internal/auth"
	"companion-backend/internal/domain"
)

type contextKey int

const scopeKey contextKey = iota

// scopeFrom returns the scope the auth middleware resolved for this request.
func scopeFrom(ctx context.Context) (domain.Scope, bool) {
	scope, ok := ctx.Value(scopeKey).(domain.Scope)
	return scope, ok
}

// resolvePolicy maps decoded claims to an effective scope, one policy per
// protected route family.
type resolvePolicy func(*auth.Claims) (domain.Scope, error)

// bearerToken pulls the credential from a standard Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// entryToken pulls the credential from the dedicated feature-access header.
func entryToken(r *http.Request) string {
	return r.Header.Get("X-Entry-Token")
}

// authenticate decodes the credential, runs the route family's policy, and
// stores the resolved scope in the request context.
func (s *Server) authenticate(token func(*http.Request) string, policy resolvePolicy, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.DecodeToken(token(r), s.secret, time.Now)
		if err != nil {
			respondError(w, err)
			return
		}
		scope, err := policy(claims)
		if err != nil {
			s.logger.Warn("credential rejected", "path", r.URL.Path, "err", err)
			respondError(w, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), scopeKey, scope)))
	}
}

func (s *Server) requireAdminOrCreator(next http.HandlerFunc) http.HandlerFunc {
	return s.authenticate(bearerToken, auth.ResolveAdminOrCreator, next)
}

func (s *Server) requireEntry(next http.HandlerFunc) http.HandlerFunc {
	return s.authenticate(entryToken, auth.ResolveEntry, next)
}

func (s *Server) requireCreator(next http.HandlerFunc) http.HandlerFunc {
	return s.authenticate(bearerToken, auth.ResolveCreator, next)
}

// corsMiddleware allows the configured frontend origins. Requests without an
// Origin header (curl, health checks) pass through untouched.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Entry-Token")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.allowedOrigins {
		if strings.HasPrefix(origin, strings.TrimRight(allowed, "/")) {
			return true
		}
	}
	return false
}

// rateLimiter keeps one token bucket per client address.
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newRateLimiter(rps, burst int) *rateLimiter {
	return &rateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (rl *rateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	limiter, ok := rl.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			key = r.RemoteAddr
		}
		if !rl.limiterFor(key).Allow() {
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
