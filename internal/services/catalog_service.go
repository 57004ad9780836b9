package services

import (
	"strings"

	"gamestore/internal/models"
	"gamestore/internal/repositories"
)

const imagePrefix = "static/images/"

// CatalogService handles business logic for the game catalog.
type CatalogService struct {
	gameRepo repositories.GameRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(gameRepo repositories.GameRepository) *CatalogService {
	return &CatalogService{
		gameRepo: gameRepo,
	}
}

// ListGames retrieves all games in the catalog.
func (s *CatalogService) ListGames() ([]models.Game, error) {
	return s.gameRepo.GetAll()
}

// GetGame retrieves a single game by its ID.
func (s *CatalogService) GetGame(id uint) (*models.Game, error) {
	return s.gameRepo.GetByID(id)
}

// CountGames returns the number of games in the catalog.
func (s *CatalogService) CountGames() (int64, error) {
	return s.gameRepo.Count()
}

// AddGame inserts a new game, normalizing its image reference first.
// Field and price validation happen at the request boundary.
func (s *CatalogService) AddGame(game *models.Game) error {
	game.ImageURL = NormalizeImageURL(game.ImageURL)
	return s.gameRepo.Create(game)
}

// NormalizeImageURL rewrites the admin-submitted image reference to the
// canonical "static/images/" form. Accepted input shapes: already
// canonical, canonical with a leading slash, "images/..." and a bare file
// name. Empty input stays empty.
func NormalizeImageURL(raw string) string {
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, imagePrefix):
		return raw
	case strings.HasPrefix(raw, "/"+imagePrefix):
		return strings.TrimPrefix(raw, "/")
	case strings.HasPrefix(raw, "images/"):
		return "static/" + raw
	default:
		return imagePrefix + raw
	}
}
