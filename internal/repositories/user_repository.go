package repositories

import "gamestore/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByGamertag(gamertag string) (*models.User, error)
	GetByFriendCode(code string) (*models.User, error)
	GetAll() ([]models.User, error)
	Count() (int64, error)
	SetAdmin(id uint, isAdmin bool) error
}
