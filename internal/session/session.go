// Package session wraps Fiber's session middleware with the payload this
// application keeps per login: the user's identity, their cached friend
// code, the transient cart and pending flash notices.
package session

import (
	"encoding/gob"
	"time"

	"gamestore/internal/models"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

const (
	keyUserID     = "user_id"
	keyUsername   = "username"
	keyGamertag   = "gamertag"
	keyIsAdmin    = "is_admin"
	keyFriendCode = "friend_code"
	keyCart       = "cart"
	keyFlashes    = "flashes"
)

// Flash is a one-shot notice carried across a redirect.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Store wraps the Fiber session store.
type Store struct {
	*fibersession.Store
}

// NewStore creates the session store backing all request sessions.
func NewStore() *Store {
	gob.Register(models.Cart{})
	gob.Register([]Flash{})
	return &Store{
		Store: fibersession.New(fibersession.Config{
			KeyLookup:      "cookie:gamestore_session",
			Expiration:     24 * time.Hour,
			CookieHTTPOnly: true,
		}),
	}
}

// Get returns the session for the current request.
func (s *Store) Get(c *fiber.Ctx) (*fibersession.Session, error) {
	return s.Store.Get(c)
}

// SetUser stores the identity payload for a fresh login and resets the cart.
func SetUser(sess *fibersession.Session, user *models.User) {
	sess.Set(keyUserID, user.ID)
	sess.Set(keyUsername, user.Username)
	sess.Set(keyGamertag, user.Gamertag)
	sess.Set(keyIsAdmin, user.IsAdmin)
	sess.Set(keyFriendCode, user.FriendCode)
	sess.Set(keyCart, models.Cart{})
}

// UserID returns the logged-in user's ID, if any.
func UserID(sess *fibersession.Session) (uint, bool) {
	id, ok := sess.Get(keyUserID).(uint)
	return id, ok
}

// Username returns the logged-in user's username.
func Username(sess *fibersession.Session) string {
	name, _ := sess.Get(keyUsername).(string)
	return name
}

// Gamertag returns the logged-in user's gamertag.
func Gamertag(sess *fibersession.Session) string {
	tag, _ := sess.Get(keyGamertag).(string)
	return tag
}

// IsAdmin reports whether the session belongs to an administrator.
func IsAdmin(sess *fibersession.Session) bool {
	isAdmin, _ := sess.Get(keyIsAdmin).(bool)
	return isAdmin
}

// FriendCode returns the session's cached friend code.
func FriendCode(sess *fibersession.Session) string {
	code, _ := sess.Get(keyFriendCode).(string)
	return code
}

// SetFriendCode refreshes the cached friend code.
func SetFriendCode(sess *fibersession.Session, code string) {
	sess.Set(keyFriendCode, code)
}

// Cart returns the session cart, never nil. Mutations must be written back
// with SetCart before saving the session.
func Cart(sess *fibersession.Session) models.Cart {
	if cart, ok := sess.Get(keyCart).(models.Cart); ok && cart != nil {
		return cart
	}
	return models.Cart{}
}

// SetCart stores the cart back into the session.
func SetCart(sess *fibersession.Session, cart models.Cart) {
	sess.Set(keyCart, cart)
}

// ClearCart empties the session cart.
func ClearCart(sess *fibersession.Session) {
	sess.Set(keyCart, models.Cart{})
}

// AddFlash queues a notice for the next view.
func AddFlash(sess *fibersession.Session, level, message string) {
	flashes, _ := sess.Get(keyFlashes).([]Flash)
	sess.Set(keyFlashes, append(flashes, Flash{Level: level, Message: message}))
}

// Flashes pops and returns all queued notices.
func Flashes(sess *fibersession.Session) []Flash {
	flashes, _ := sess.Get(keyFlashes).([]Flash)
	sess.Delete(keyFlashes)
	return flashes
}
