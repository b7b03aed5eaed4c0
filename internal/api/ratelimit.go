package api

import (
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// MsgTooManyRequests is returned when a client exceeds the auth rate limit.
const MsgTooManyRequests = "Too many requests. Please try again later."

// rateLimitAuth limits /user operations per client IP. RealIP has already
// replaced RemoteAddr with the forwarded address when one was sent.
func (s *Server) rateLimitAuth(ctx huma.Context, next func(huma.Context)) {
	key := clientIP(ctx.RemoteAddr())
	if !s.authRateLimiter.Allow(key) {
		s.logger.Warn("Rate limit exceeded",
			"ip", key,
			"path", ctx.URL().Path,
		)
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, MsgTooManyRequests)
		return
	}
	next(ctx)
}

// clientIP strips the port from a remote address.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
