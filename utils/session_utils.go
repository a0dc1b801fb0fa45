package utils

import "github.com/google/uuid"

const (
	SessionCookieName = "session_id"
	// SessionCookieMaxAge is 24h, in seconds.
	SessionCookieMaxAge = 24 * 60 * 60

	AdminCookieName = "admin_auth"
	// AdminCookieMaxAge is 7 days, in seconds.
	AdminCookieMaxAge = 7 * 24 * 60 * 60

	// SessionContextKey is where the tracking middleware leaves the resolved
	// session id for later handlers.
	SessionContextKey = "session_id"
)

// GenerateSessionID returns a new random opaque session token.
func GenerateSessionID() string {
	return uuid.NewString()
}
