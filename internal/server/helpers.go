package server

import (
	"strconv"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/session"

	"github.com/gofiber/fiber/v2"
)

// actor builds the service-level actor from the request's session.
func actor(c *fiber.Ctx) service.Actor {
	uid, ok := middleware.CurrentUserID(c)
	return service.Actor{ID: uid, Authenticated: ok}
}

// uintParam parses a numeric route parameter.
func uintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, models.NewValidationError("Invalid " + name + " parameter")
	}
	return uint(id), nil
}

// seeOther answers a successful form submission: a 303 with the
// Location of the resource to load next, plus the payload for API
// clients that follow nothing.
func seeOther(c *fiber.Ctx, location string, payload interface{}) error {
	c.Set("Location", location)
	if payload == nil {
		return c.SendStatus(fiber.StatusSeeOther)
	}
	return c.Status(fiber.StatusSeeOther).JSON(payload)
}

// setSessionCookie hands the opaque session ID to the browser.
func setSessionCookie(c *fiber.Ctx, sessionID string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(session.DefaultTTL.Seconds()),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
