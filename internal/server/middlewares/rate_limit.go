package middlewares

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/findit/internal/fierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimit throttles requests per client IP.
// rps lower or equal to zero disables the limiter.
func RateLimit(rps float64, burst int) echo.MiddlewareFunc {
	if rps <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(rps),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return fierror.NewWithTagCode(http.StatusForbidden, fierror.TagInvalidAuth, "Could not identify the client.")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logrus.WithField("ip", identifier).Warn("Rate limit exceeded")
			return fierror.NewWithTagCode(http.StatusTooManyRequests, fierror.TagTooManyRequests, "Too many requests, please retry later.")
		},
	})
}
