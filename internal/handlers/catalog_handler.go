package handlers

import (
	"errors"
	"log"

	"gamestore/internal/repositories"
	"gamestore/internal/services"
	"gamestore/internal/session"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles the storefront catalog views.
type CatalogHandler struct {
	catalog  *services.CatalogService
	sessions *session.Store
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *services.CatalogService, sessions *session.Store) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		sessions: sessions,
	}
}

// RegisterRoutes registers the catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleListGames)
	router.Get("/games/:id", h.HandleGetGame)
}

// HandleListGames returns the full catalog, the cart badge count and any
// pending notices.
func (h *CatalogHandler) HandleListGames(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}

	games, err := h.catalog.ListGames()
	if err != nil {
		log.Printf("Error listing games: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not retrieve games"})
	}

	flashes := session.Flashes(sess)
	cartCount := len(session.Cart(sess))
	saveSession(sess)

	return c.JSON(fiber.Map{
		"games":           games,
		"cart_item_count": cartCount,
		"messages":        flashes,
	})
}

// HandleGetGame returns a single game. An unknown ID sends the caller back
// to the catalog with a notice.
func (h *CatalogHandler) HandleGetGame(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid game ID"})
	}

	game, err := h.catalog.GetGame(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			if sess, serr := h.sessions.Get(c); serr == nil {
				session.AddFlash(sess, "danger", "Game not found.")
				saveSession(sess)
			}
			return c.Redirect("/", fiber.StatusSeeOther)
		}
		log.Printf("Error getting game %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not retrieve game"})
	}
	return c.JSON(game)
}
