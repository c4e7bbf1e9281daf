package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type RequestRecorder interface {
	RecordRequest(route, method string, statusCode int, elapsed time.Duration)
}

// NewMetricsMiddleware records every request under its route template, so
// /api/posts/1 and /api/posts/2 share one series.
func NewMetricsMiddleware(rec RequestRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			rec.RecordRequest(route, c.Request().Method, status, time.Since(start))
			return err
		}
	}
}
