package services

import "errors"

// Business-rule errors surfaced to handlers. Handlers translate these into
// user-facing notices; anything not matched here is treated as an
// unexpected storage failure.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrGamertagTaken      = errors.New("gamertag already exists")

	ErrSelfFriend             = errors.New("cannot add yourself as a friend")
	ErrSelfToggle             = errors.New("cannot change your own admin status")
	ErrAlreadyFriends         = errors.New("already friends")
	ErrRequestAlreadySent     = errors.New("friend request already sent")
	ErrRequestAlreadyReceived = errors.New("friend request already received")

	ErrEmptyCart = errors.New("cart is empty")
)
