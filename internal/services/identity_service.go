package services

import (
	"errors"
	"fmt"

	"gamestore/internal/models"
	"gamestore/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// IdentityService handles registration, authentication and user
// administration.
type IdentityService struct {
	userRepo repositories.UserRepository
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(userRepo repositories.UserRepository) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
	}
}

// Register creates a new account. The password is stored only as a bcrypt
// hash, the friend code is a freshly generated UUID, and the very first
// account ever created becomes the administrator.
//
// Two concurrent registrations can both pass the existence checks; the
// unique indexes then fail the second insert, which is reported as
// repositories.ErrDuplicate and must be treated as a conflict, not a crash.
func (s *IdentityService) Register(username, gamertag, password string) (*models.User, error) {
	if username == "" || gamertag == "" || password == "" {
		return nil, fmt.Errorf("all fields are required")
	}

	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.userRepo.GetByGamertag(gamertag); err == nil {
		return nil, ErrGamertagTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check gamertag: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	count, err := s.userRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	user := &models.User{
		Username:     username,
		Gamertag:     gamertag,
		PasswordHash: string(hashedPassword),
		FriendCode:   uuid.New().String(),
		IsAdmin:      count == 0,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Authenticate verifies a username/password pair. An unknown username and
// a wrong password both return ErrInvalidCredentials so the caller cannot
// tell which one happened.
func (s *IdentityService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *IdentityService) GetUser(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// ListUsers retrieves all users for the admin user list.
func (s *IdentityService) ListUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// CountUsers returns the number of registered users.
func (s *IdentityService) CountUsers() (int64, error) {
	return s.userRepo.Count()
}

// ToggleAdmin flips another user's administrator flag. An administrator can
// never change their own status.
func (s *IdentityService) ToggleAdmin(actorID, targetID uint) (*models.User, error) {
	if actorID == targetID {
		return nil, ErrSelfToggle
	}
	target, err := s.userRepo.GetByID(targetID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetAdmin(target.ID, !target.IsAdmin); err != nil {
		return nil, err
	}
	target.IsAdmin = !target.IsAdmin
	return target, nil
}
