package middleware

import (
	"context"

	"simplecms/cmd/internal/domain/policy"
	"simplecms/cmd/internal/utils"

	"github.com/labstack/echo/v4"
)

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*policy.Authentication, string)
}

// NewSessionMiddleware attaches the caller named by the session cookie to every request.
// It never rejects: a missing or bad cookie makes the request anonymous.
func NewSessionMiddleware(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var token string
			if cookie, err := c.Cookie(utils.SessionCookieName); err == nil {
				token = cookie.Value
			}

			auth, sid := resolver.Resolve(c.Request().Context(), token)
			utils.SetSession(c, auth, sid)
			return next(c)
		}
	}
}
