package repositories

import (
	"errors"
	"fmt"

	"gamestore/internal/models"

	"gorm.io/gorm"
)

// GORMGameRepository is a GORM implementation of GameRepository.
type GORMGameRepository struct {
	db *gorm.DB
}

// NewGORMGameRepository creates a new instance of GORMGameRepository.
func NewGORMGameRepository(db *gorm.DB) *GORMGameRepository {
	return &GORMGameRepository{
		db: db,
	}
}

// GetAll retrieves all games in the catalog.
func (r *GORMGameRepository) GetAll() ([]models.Game, error) {
	var games []models.Game
	if err := r.db.Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to get all games: %w", err)
	}
	return games, nil
}

// GetByID retrieves a single game by its ID.
func (r *GORMGameRepository) GetByID(id uint) (*models.Game, error) {
	var game models.Game
	if err := r.db.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("game with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get game by ID %d: %w", id, err)
	}
	return &game, nil
}

// GetByIDs retrieves the games matching the given IDs in one query. IDs
// that do not resolve are simply absent from the result.
func (r *GORMGameRepository) GetByIDs(ids []uint) ([]models.Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var games []models.Game
	if err := r.db.Where("id IN ?", ids).Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to get games by IDs: %w", err)
	}
	return games, nil
}

// Create inserts a new game into the catalog.
func (r *GORMGameRepository) Create(game *models.Game) error {
	if err := r.db.Create(game).Error; err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

// Count returns the number of games in the catalog.
func (r *GORMGameRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Game{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}
