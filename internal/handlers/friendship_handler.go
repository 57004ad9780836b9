package handlers

import (
	"errors"
	"fmt"
	"log"

	"gamestore/internal/models"
	"gamestore/internal/repositories"
	"gamestore/internal/services"
	"gamestore/internal/session"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

// FriendshipHandler handles the friends list and the request lifecycle.
type FriendshipHandler struct {
	friendships *services.FriendshipService
	identity    *services.IdentityService
	sessions    *session.Store
}

// NewFriendshipHandler creates a new FriendshipHandler.
func NewFriendshipHandler(friendships *services.FriendshipService, identity *services.IdentityService, sessions *session.Store) *FriendshipHandler {
	return &FriendshipHandler{
		friendships: friendships,
		identity:    identity,
		sessions:    sessions,
	}
}

// RegisterRoutes registers the friendship routes.
func (h *FriendshipHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/friends", h.HandleOverview)
	router.Post("/friends/gamertag", h.HandleAddByGamertag)
	router.Post("/friends/code", h.HandleAddByCode)
	router.Get("/friends/accept/:id", h.HandleAccept)
	router.Get("/friends/reject/:id", h.HandleReject)
	router.Get("/friends/remove/:id", h.HandleRemove)
}

// HandleOverview returns the three disjoint friendship lists and refreshes
// the session's cached friend code.
func (h *FriendshipHandler) HandleOverview(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}

	userID := currentUserID(c)
	overview, err := h.friendships.Overview(userID)
	if err != nil {
		log.Printf("Error loading friendships for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not load friends"})
	}

	if user, err := h.identity.GetUser(userID); err == nil {
		session.SetFriendCode(sess, user.FriendCode)
	} else {
		// Session points at a user the store no longer knows; report it
		// instead of serving a stale code.
		log.Printf("Error refreshing friend code for user %d: %v", userID, err)
		session.AddFlash(sess, "danger", "Error fetching your user details. Please try logging out and back in.")
	}

	flashes := session.Flashes(sess)
	friendCode := session.FriendCode(sess)
	cartCount := len(session.Cart(sess))
	saveSession(sess)
	return c.JSON(fiber.Map{
		"friends":          overview.Friends,
		"pending_received": overview.PendingReceived,
		"pending_sent":     overview.PendingSent,
		"friend_code":      friendCode,
		"cart_item_count":  cartCount,
		"messages":         flashes,
	})
}

// AddFriendRequest is the payload for both friend request entry points.
type AddFriendRequest struct {
	Gamertag   string `json:"gamertag" form:"gamertag"`
	FriendCode string `json:"friend_code" form:"friend_code"`
}

// HandleAddByGamertag sends a friend request addressed by gamertag.
func (h *FriendshipHandler) HandleAddByGamertag(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}

	var req AddFriendRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing friend request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if req.Gamertag == "" {
		session.AddFlash(sess, "warning", "Gamertag cannot be empty.")
		saveSession(sess)
		return c.Redirect("/friends", fiber.StatusSeeOther)
	}

	target, err := h.friendships.SendRequestByGamertag(currentUserID(c), req.Gamertag)
	h.flashRequestOutcome(sess, target, err, fmt.Sprintf("User with gamertag %q not found.", req.Gamertag))
	saveSession(sess)
	return c.Redirect("/friends", fiber.StatusSeeOther)
}

// HandleAddByCode sends a friend request addressed by friend code.
func (h *FriendshipHandler) HandleAddByCode(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}

	var req AddFriendRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing friend request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if req.FriendCode == "" {
		session.AddFlash(sess, "warning", "Friend code cannot be empty.")
		saveSession(sess)
		return c.Redirect("/friends", fiber.StatusSeeOther)
	}

	target, err := h.friendships.SendRequestByCode(currentUserID(c), req.FriendCode)
	h.flashRequestOutcome(sess, target, err, fmt.Sprintf("User with friend code %q not found.", req.FriendCode))
	saveSession(sess)
	return c.Redirect("/friends", fiber.StatusSeeOther)
}

// flashRequestOutcome maps a send-request result onto the notice the
// caller sees. The existing-relationship cases are informational, not
// failures: no duplicate row was created.
func (h *FriendshipHandler) flashRequestOutcome(sess *fibersession.Session, target *models.User, err error, notFoundMsg string) {
	switch {
	case err == nil:
		session.AddFlash(sess, "success", fmt.Sprintf("Friend request sent to %s.", target.Gamertag))
	case errors.Is(err, repositories.ErrNotFound):
		session.AddFlash(sess, "danger", notFoundMsg)
	case errors.Is(err, services.ErrSelfFriend):
		session.AddFlash(sess, "warning", "You cannot add yourself as a friend.")
	case errors.Is(err, services.ErrAlreadyFriends):
		session.AddFlash(sess, "info", fmt.Sprintf("You are already friends with %s.", target.Gamertag))
	case errors.Is(err, services.ErrRequestAlreadySent):
		session.AddFlash(sess, "info", fmt.Sprintf("You already sent a friend request to %s.", target.Gamertag))
	case errors.Is(err, services.ErrRequestAlreadyReceived):
		session.AddFlash(sess, "info", fmt.Sprintf("%s has already sent you a friend request. Check your pending requests.", target.Gamertag))
	default:
		log.Printf("Error sending friend request: %v", err)
		session.AddFlash(sess, "danger", "An error occurred. Please try again.")
	}
}

// HandleAccept accepts a pending request sent by the user in the route
// parameter. A reversed or stale request changes nothing.
func (h *FriendshipHandler) HandleAccept(c *fiber.Ctx) error {
	return h.handleLifecycle(c, "Friend request accepted!", "success", h.friendships.AcceptRequest)
}

// HandleReject deletes a pending request sent by the user in the route
// parameter.
func (h *FriendshipHandler) HandleReject(c *fiber.Ctx) error {
	return h.handleLifecycle(c, "Friend request rejected.", "info", h.friendships.RejectRequest)
}

// HandleRemove deletes an accepted friendship with the user in the route
// parameter.
func (h *FriendshipHandler) HandleRemove(c *fiber.Ctx) error {
	return h.handleLifecycle(c, "Friend removed.", "info", func(otherID, userID uint) error {
		return h.friendships.RemoveFriend(userID, otherID)
	})
}

func (h *FriendshipHandler) handleLifecycle(c *fiber.Ctx, message, level string, op func(otherID, userID uint) error) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Session unavailable"})
	}
	otherID, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	if err := op(otherID, currentUserID(c)); err != nil {
		log.Printf("Error updating friendship with user %d: %v", otherID, err)
		session.AddFlash(sess, "danger", "An error occurred. Please try again.")
	} else {
		session.AddFlash(sess, level, message)
	}
	saveSession(sess)
	return c.Redirect("/friends", fiber.StatusSeeOther)
}
