package middleware

import (
	"context"
	"net"
	"net/http"

	"go.uber.org/zap"
)

// ClientLimiter admits or rejects a request by client address
type ClientLimiter interface {
	Allow(ctx context.Context, addr string) (bool, error)
}

// RateLimit rejects requests over the client's allowance with 429
func RateLimit(limiter ClientLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := clientAddr(r)
			allowed, err := limiter.Allow(r.Context(), addr)
			if err != nil {
				logger.Warn("Rate limiter failed", zap.String("client", addr), zap.Error(err))
			}
			if err == nil && !allowed {
				logger.Info("Submission rate limited",
					zap.String("client", addr),
					zap.String("path", r.URL.Path),
				)
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte("Too Many Requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
