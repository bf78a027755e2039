package http

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MinkyAI/reviews-platform-sub001/internal/ratelimit"
	"github.com/MinkyAI/reviews-platform-sub001/internal/util"
)

// RateLimit caps requests per client IP on credential endpoints. The limiter
// fails open: losing Redis must not lock everyone out of login.
func RateLimit(limiter ratelimit.Limiter, name string, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil || limit <= 0 {
				return next(c)
			}

			key := name + ":" + c.RealIP()
			allowed, err := limiter.Allow(c.Request().Context(), key, limit, window)
			if err != nil {
				log.Printf("rate limit %s: %v", name, err)
				return next(c)
			}
			if !allowed {
				return c.JSON(http.StatusTooManyRequests, util.Error("too many requests"))
			}
			return next(c)
		}
	}
}
