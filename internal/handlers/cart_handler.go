package handlers

import (
	"errors"
	"fmt"
	"log"

	"gamestore/internal/repositories"
	"gamestore/internal/services"
	"gamestore/internal/session"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles the session cart, checkout and the library view.
type CartHandler struct {
	carts    *services.CartService
	sessions *session.Store
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *services.CartService, sessions *session.Store) *CartHandler {
	return &CartHandler{
		carts:    carts,
		sessions: sessions,
	}
}

// RegisterRoutes registers the cart, checkout and library routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/cart", h.HandleViewCart)
	router.Get("/cart/add/:id", h.HandleAddToCart)
	router.Get("/cart/remove/:id", h.HandleRemoveFromCart)
	router.Get("/checkout", h.HandleCheckoutPreview)
	router.Post("/checkout", h.HandleCheckoutConfirm)
	router.Get("/buy/:id", h.HandleBuyNow)
	router.Get("/library", h.HandleLibrary)
}

// HandleAddToCart puts a game in the cart. Adding it twice has no further
// effect.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid game ID"})
	}

	cart := session.Cart(sess)
	game, err := h.carts.AddToCart(cart, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			session.AddFlash(sess, "danger", "Game not found.")
		} else {
			log.Printf("Error adding game %d to cart: %v", id, err)
			session.AddFlash(sess, "danger", "An error occurred. Please try again.")
		}
		saveSession(sess)
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	session.SetCart(sess, cart)
	session.AddFlash(sess, "success", fmt.Sprintf("'%s' added to cart.", game.Title))
	saveSession(sess)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// HandleRemoveFromCart takes a game out of the cart; a missing entry only
// produces a notice.
func (h *CartHandler) HandleRemoveFromCart(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid game ID"})
	}

	cart := session.Cart(sess)
	if h.carts.RemoveFromCart(cart, id) {
		session.SetCart(sess, cart)
		session.AddFlash(sess, "info", "Item removed from cart.")
	} else {
		session.AddFlash(sess, "warning", "Item not found in cart.")
	}
	saveSession(sess)
	return c.Redirect("/cart", fiber.StatusSeeOther)
}

// HandleViewCart resolves the cart contents and totals their prices.
func (h *CartHandler) HandleViewCart(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}

	cart := session.Cart(sess)
	summary, err := h.carts.Summarize(cart)
	if err != nil {
		log.Printf("Error summarizing cart: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not load cart"})
	}

	flashes := session.Flashes(sess)
	saveSession(sess)
	return c.JSON(fiber.Map{
		"games_in_cart":   summary.Games,
		"total_price":     summary.TotalPrice,
		"cart_item_count": len(cart),
		"messages":        flashes,
	})
}

// HandleCheckoutPreview shows what a confirmation would purchase without
// mutating anything. An empty cart sends the caller back to the catalog.
func (h *CartHandler) HandleCheckoutPreview(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}

	cart := session.Cart(sess)
	if len(cart) == 0 {
		session.AddFlash(sess, "warning", "Your cart is empty.")
		saveSession(sess)
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	summary, err := h.carts.Summarize(cart)
	if err != nil {
		log.Printf("Error summarizing cart for checkout: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not load cart"})
	}

	flashes := session.Flashes(sess)
	saveSession(sess)
	return c.JSON(fiber.Map{
		"games_in_cart":   summary.Games,
		"total_price":     summary.TotalPrice,
		"cart_item_count": len(cart),
		"messages":        flashes,
	})
}

// HandleCheckoutConfirm converts the cart into purchases. Already-owned
// games are skipped with a notice each; a storage failure aborts the whole
// checkout and returns the caller to the cart with everything intact.
func (h *CartHandler) HandleCheckoutConfirm(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}

	cart := session.Cart(sess)
	result, err := h.carts.Checkout(currentUserID(c), cart)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			session.AddFlash(sess, "warning", "Your cart is empty.")
			saveSession(sess)
			return c.Redirect("/", fiber.StatusSeeOther)
		}
		log.Printf("Error during checkout: %v", err)
		session.AddFlash(sess, "danger", "An error occurred during purchase.")
		saveSession(sess)
		return c.Redirect("/cart", fiber.StatusSeeOther)
	}

	for _, title := range result.AlreadyOwned {
		session.AddFlash(sess, "info", fmt.Sprintf("You already own '%s'. It was not added again.", title))
	}
	if len(result.Purchased) > 0 {
		session.AddFlash(sess, "success", "Purchase successful! Games added to your library.")
	}
	session.ClearCart(sess)
	saveSession(sess)
	return c.Redirect("/library", fiber.StatusSeeOther)
}

// HandleBuyNow merges the game into the cart and enters the checkout flow.
func (h *CartHandler) HandleBuyNow(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid game ID"})
	}

	cart := session.Cart(sess)
	if _, err := h.carts.AddToCart(cart, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			session.AddFlash(sess, "danger", "Game not found.")
		} else {
			log.Printf("Error starting buy-now for game %d: %v", id, err)
			session.AddFlash(sess, "danger", "An error occurred. Please try again.")
		}
		saveSession(sess)
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	session.SetCart(sess, cart)
	saveSession(sess)
	return c.Redirect("/checkout", fiber.StatusSeeOther)
}

// HandleLibrary lists the caller's owned games, newest purchase first.
func (h *CartHandler) HandleLibrary(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}

	entries, err := h.carts.Library(currentUserID(c))
	if err != nil {
		log.Printf("Error loading library: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not load library"})
	}

	flashes := session.Flashes(sess)
	cartCount := len(session.Cart(sess))
	saveSession(sess)
	return c.JSON(fiber.Map{
		"library":         entries,
		"cart_item_count": cartCount,
		"messages":        flashes,
	})
}
