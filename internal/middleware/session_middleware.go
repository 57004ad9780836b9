package middleware

import (
	"log"

	"gamestore/internal/session"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that loads the caller's session and
// requires a logged-in user. Requests without one are redirected to the
// login page rather than rejected with an error.
func AuthRequired(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			log.Printf("Failed to load session: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Session unavailable",
			})
		}

		userID, ok := session.UserID(sess)
		if !ok {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}

		// Identity for subsequent handlers.
		c.Locals("user_id", userID)
		c.Locals("username", session.Username(sess))
		c.Locals("gamertag", session.Gamertag(sess))
		c.Locals("is_admin", session.IsAdmin(sess))

		return c.Next()
	}
}

// AdminRequired gates admin-only routes. It assumes AuthRequired already
// ran; non-admins get a permission notice and land back on the catalog.
func AdminRequired(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, _ := c.Locals("is_admin").(bool); isAdmin {
			return c.Next()
		}

		if sess, err := store.Get(c); err == nil {
			session.AddFlash(sess, "danger", "You do not have permission to access this page.")
			if err := sess.Save(); err != nil {
				log.Printf("Failed to save session: %v", err)
			}
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}
