// Package handlers wires HTTP requests to the service layer. Mutating
// endpoints follow a flash-and-redirect flow; view endpoints return JSON
// payloads that include any pending notices, since page rendering is
// handled elsewhere.
package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

// currentUserID reads the identity placed in locals by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("user_id").(uint)
	return id
}

// paramID parses a numeric route parameter into a uint.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id < 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}

// saveSession persists the session, logging rather than failing the
// request when the store misbehaves.
func saveSession(sess *fibersession.Session) {
	if err := sess.Save(); err != nil {
		log.Printf("Failed to save session: %v", err)
	}
}
