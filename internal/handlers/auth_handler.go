package handlers

import (
	"errors"
	"log"

	"gamestore/internal/repositories"
	"gamestore/internal/services"
	"gamestore/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	identity *services.IdentityService
	sessions *session.Store
	validate *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(identity *services.IdentityService, sessions *session.Store) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		sessions: sessions,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/register", h.HandleRegisterPage)
	router.Post("/register", h.HandleRegister)
	router.Get("/login", h.HandleLoginPage)
	router.Post("/login", h.HandleLogin)
	router.Get("/logout", h.HandleLogout)
}

// RegisterRequest is the registration form payload.
type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Gamertag string `json:"gamertag" form:"gamertag" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginRequest is the login form payload.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// HandleRegisterPage drains pending notices for the registration view.
func (h *AuthHandler) HandleRegisterPage(c *fiber.Ctx) error {
	return h.flashSink(c)
}

// HandleLoginPage drains pending notices for the login view.
func (h *AuthHandler) HandleLoginPage(c *fiber.Ctx) error {
	return h.flashSink(c)
}

func (h *AuthHandler) flashSink(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.JSON(fiber.Map{"messages": []session.Flash{}})
	}
	flashes := session.Flashes(sess)
	saveSession(sess)
	return c.JSON(fiber.Map{"messages": flashes})
}

// HandleRegister creates a new account and sends the caller to the login
// page. There is no auto-login.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		session.AddFlash(sess, "danger", "All fields are required!")
		saveSession(sess)
		return c.Redirect("/register", fiber.StatusSeeOther)
	}

	user, err := h.identity.Register(req.Username, req.Gamertag, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			session.AddFlash(sess, "danger", "Username already exists.")
		case errors.Is(err, services.ErrGamertagTaken):
			session.AddFlash(sess, "danger", "Gamertag already exists.")
		case errors.Is(err, repositories.ErrDuplicate):
			// Lost a race against a concurrent registration.
			session.AddFlash(sess, "danger", "An account with those details was just created. Please try again.")
		default:
			log.Printf("Error registering user: %v", err)
			session.AddFlash(sess, "danger", "An error occurred. Please try again.")
		}
		saveSession(sess)
		return c.Redirect("/register", fiber.StatusSeeOther)
	}

	if user.IsAdmin {
		session.AddFlash(sess, "success", "Registration successful! You are the first user and have been granted admin privileges. Please log in.")
	} else {
		session.AddFlash(sess, "success", "Registration successful! Please log in.")
	}
	saveSession(sess)
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// HandleLogin verifies credentials and establishes the session.
// Administrators land on the admin dashboard, everyone else on the
// catalog.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	user, err := h.identity.Authenticate(req.Username, req.Password)
	if err != nil {
		// Unknown username and wrong password read the same on purpose.
		session.AddFlash(sess, "danger", "Invalid username or password.")
		saveSession(sess)
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	session.SetUser(sess, user)
	session.AddFlash(sess, "success", "Logged in successfully!")
	saveSession(sess)

	if user.IsAdmin {
		return c.Redirect("/admin", fiber.StatusSeeOther)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// HandleLogout destroys the session unconditionally.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if sess, err := h.sessions.Get(c); err == nil {
		if err := sess.Destroy(); err != nil {
			log.Printf("Failed to destroy session: %v", err)
		}
	}
	if sess, err := h.sessions.Get(c); err == nil {
		session.AddFlash(sess, "info", "You have been logged out.")
		saveSession(sess)
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}
