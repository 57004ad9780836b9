package repositories

import "gamestore/internal/models"

// GameRepository defines the interface for catalog data access.
type GameRepository interface {
	GetAll() ([]models.Game, error)
	GetByID(id uint) (*models.Game, error)
	GetByIDs(ids []uint) ([]models.Game, error)
	Create(game *models.Game) error
	Count() (int64, error)
}
