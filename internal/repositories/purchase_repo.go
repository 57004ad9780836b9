package repositories

import "gamestore/internal/models"

// PurchaseRepository defines the interface for ownership records.
type PurchaseRepository interface {
	// CreateBatch inserts all purchases in a single statement; either all
	// rows are written or none are.
	CreateBatch(purchases []models.Purchase) error
	ListByUser(userID uint) ([]models.Purchase, error)
	ListGameIDs(userID uint) ([]uint, error)
}
