// Package middleware provides request middleware: session
// authentication, structured logging, rate limiting, and tracing.
package middleware

import (
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/session"

	"github.com/gofiber/fiber/v2"
)

const (
	// SessionCookie is the cookie carrying the opaque session ID.
	SessionCookie = "inkwell_session"

	// UserIDKey is the Locals key for the authenticated user's ID.
	UserIDKey = "userID"

	// SessionIDKey is the Locals key for the current session ID.
	SessionIDKey = "sessionID"
)

// sessionID extracts the opaque session ID from the request: the
// session cookie first, then a bearer token for non-browser clients.
func sessionID(c *fiber.Ctx) string {
	if id := c.Cookies(SessionCookie); id != "" {
		return id
	}
	auth := c.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// SessionRequired rejects requests that do not carry a live session.
// On success the user ID and session ID are stored in Locals.
func SessionRequired(store session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := sessionID(c)
		if id == "" {
			return models.RespondWithError(c, models.NewUnauthenticatedError("Login required"))
		}
		userID, ok, err := store.Get(c.Context(), id)
		if err != nil {
			return models.RespondWithError(c, models.NewInternalError(err))
		}
		if !ok {
			return models.RespondWithError(c, models.NewUnauthenticatedError("Session expired or invalid"))
		}
		c.Locals(UserIDKey, userID)
		c.Locals(SessionIDKey, id)
		return c.Next()
	}
}

// OptionalSession resolves a session when one is presented but lets
// anonymous requests through. Handlers that must distinguish a missing
// login from a missing resource run behind this instead of
// SessionRequired, so they control the order of their own checks.
func OptionalSession(store session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := sessionID(c)
		if id != "" {
			userID, ok, err := store.Get(c.Context(), id)
			if err == nil && ok {
				c.Locals(UserIDKey, userID)
				c.Locals(SessionIDKey, id)
			}
		}
		return c.Next()
	}
}

// CurrentUserID reads the authenticated user from Locals. ok is false
// for anonymous requests.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	uid, ok := c.Locals(UserIDKey).(uint)
	return uid, ok
}
