package utils

import (
	"simplecms/cmd/internal/domain/policy"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const (
	authContextKey    = "auth"
	sessionContextKey = "sid"
)

// SetSession stores the resolved caller. A nil auth marks the request as anonymous.
func SetSession(c echo.Context, auth *policy.Authentication, sessionID string) {
	c.Set(authContextKey, auth)
	c.Set(sessionContextKey, sessionID)
}

// GetAuthFromContext returns the signed-in caller, or nil for anonymous requests.
func GetAuthFromContext(c echo.Context) *policy.Authentication {
	val := c.Get(authContextKey)
	if val == nil {
		return nil
	}

	auth, ok := val.(*policy.Authentication)
	if !ok {
		log.Warnf("expected authentication type at '%s' context key, got %T", authContextKey, val)
		return nil
	}
	return auth
}

// GetSessionIDFromContext returns the id of the session backing the request, if any.
func GetSessionIDFromContext(c echo.Context) string {
	sid, _ := c.Get(sessionContextKey).(string)
	return sid
}
