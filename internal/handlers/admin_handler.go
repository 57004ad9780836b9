package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"gamestore/internal/models"
	"gamestore/internal/repositories"
	"gamestore/internal/services"
	"gamestore/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler composes the identity and catalog services behind the
// admin gate. It carries no logic of its own beyond the self-protection
// rules and form handling.
type AdminHandler struct {
	identity *services.IdentityService
	catalog  *services.CatalogService
	sessions *session.Store
	validate *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(identity *services.IdentityService, catalog *services.CatalogService, sessions *session.Store) *AdminHandler {
	return &AdminHandler{
		identity: identity,
		catalog:  catalog,
		sessions: sessions,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the admin routes. The caller is expected to
// mount these behind AuthRequired and AdminRequired.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleDashboard)
	router.Get("/users", h.HandleListUsers)
	router.Post("/users/:id/toggle", h.HandleToggleAdmin)
	router.Get("/games", h.HandleListGames)
	router.Post("/games", h.HandleAddGame)
}

// HandleDashboard returns store-wide counts.
func (h *AdminHandler) HandleDashboard(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}

	userCount, err := h.identity.CountUsers()
	if err != nil {
		log.Printf("Error counting users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not load dashboard"})
	}
	gameCount, err := h.catalog.CountGames()
	if err != nil {
		log.Printf("Error counting games: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not load dashboard"})
	}

	flashes := session.Flashes(sess)
	saveSession(sess)
	return c.JSON(fiber.Map{
		"user_count": userCount,
		"game_count": gameCount,
		"messages":   flashes,
	})
}

// HandleListUsers returns every registered user.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}

	users, err := h.identity.ListUsers()
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not retrieve users"})
	}

	flashes := session.Flashes(sess)
	saveSession(sess)
	return c.JSON(fiber.Map{
		"users":    users,
		"messages": flashes,
	})
}

// HandleToggleAdmin flips another user's administrator flag. Toggling
// yourself is rejected.
func (h *AdminHandler) HandleToggleAdmin(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}
	targetID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	target, err := h.identity.ToggleAdmin(currentUserID(c), targetID)
	switch {
	case err == nil:
		session.AddFlash(sess, "success",
			fmt.Sprintf("User %s's admin status updated to %s.", target.Username, strconv.FormatBool(target.IsAdmin)))
	case errors.Is(err, services.ErrSelfToggle):
		session.AddFlash(sess, "danger", "You cannot change your own admin status.")
	case errors.Is(err, repositories.ErrNotFound):
		session.AddFlash(sess, "danger", "User not found.")
	default:
		log.Printf("Error toggling admin flag for user %d: %v", targetID, err)
		session.AddFlash(sess, "danger", "Error updating admin status.")
	}
	saveSession(sess)
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// HandleListGames returns the catalog for the admin game list.
func (h *AdminHandler) HandleListGames(c *fiber.Ctx) error {
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
	saveSession(sess)
	return c.JSON(fiber.Map{
		"games":    games,
		"messages": flashes,
	})
}

// AddGameRequest carries the add-game form. It is echoed back verbatim on
// failure so the form can be redisplayed pre-filled.
type AddGameRequest struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
	Price       string `json:"price" form:"price" validate:"required"`
	Genre       string `json:"genre" form:"genre" validate:"required"`
	ReleaseDate string `json:"release_date" form:"release_date" validate:"required"`
	Developer   string `json:"developer" form:"developer" validate:"required"`
	ImageURL    string `json:"image_url" form:"image_url"`
}

// HandleAddGame validates and inserts a new catalog entry. Every field but
// the image reference is required and the price must parse as a
// non-negative number.
func (h *AdminHandler) HandleAddGame(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}

	var req AddGameRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-game request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "All fields except Image URL are required.",
			"form":    req,
		})
	}

	price, err := strconv.ParseFloat(req.Price, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid price format.",
			"form":    req,
		})
	}
	if price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Price cannot be negative.",
			"form":    req,
		})
	}

	game := &models.Game{
		Title:       req.Title,
		Description: req.Description,
		Price:       price,
		Genre:       req.Genre,
		ReleaseDate: req.ReleaseDate,
		Developer:   req.Developer,
		ImageURL:    req.ImageURL,
	}
	if err := h.catalog.AddGame(game); err != nil {
		log.Printf("Error adding game: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error adding game.",
			"form":    req,
		})
	}

	session.AddFlash(sess, "success", fmt.Sprintf("Game '%s' added successfully!", game.Title))
	saveSession(sess)
	return c.Redirect("/admin/games", fiber.StatusSeeOther)
}
