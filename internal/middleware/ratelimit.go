package middleware

import (
	"MacroPull/internal/service/ratelimit"
	xhttp "MacroPull/pkg/http"
	xlogger "MacroPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RateLimit rejects a client with 429 once its bucket is empty. Clients are
// keyed by their real IP.
func RateLimit(l *ratelimit.Limiter, log *xlogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if !l.Allow(ip) {
				if log != nil {
					log.Warn("rate limited", xlogger.String("ip", ip), xlogger.String("path", c.Path()))
				}
				return xhttp.TooManyRequestsResponse(c)
			}
			return next(c)
		}
	}
}
