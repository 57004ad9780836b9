package repositories

import (
	"fmt"

	"gamestore/internal/models"

	"gorm.io/gorm"
)

// GORMPurchaseRepository is a GORM implementation of PurchaseRepository.
type GORMPurchaseRepository struct {
	db *gorm.DB
}

// NewGORMPurchaseRepository creates a new instance of GORMPurchaseRepository.
func NewGORMPurchaseRepository(db *gorm.DB) *GORMPurchaseRepository {
	return &GORMPurchaseRepository{
		db: db,
	}
}

// CreateBatch inserts all purchase rows in one multi-row insert. GORM runs
// the slice insert as a single statement inside one transaction, so a
// failure leaves no partial ownership records.
func (r *GORMPurchaseRepository) CreateBatch(purchases []models.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}
	if err := r.db.Create(&purchases).Error; err != nil {
		return fmt.Errorf("failed to create purchases: %w", err)
	}
	return nil
}

// ListByUser retrieves a user's purchases, most recent first.
func (r *GORMPurchaseRepository) ListByUser(userID uint) ([]models.Purchase, error) {
	var purchases []models.Purchase
	if err := r.db.Where("user_id = ?", userID).Order("purchase_date DESC").Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("failed to list purchases for user %d: %w", userID, err)
	}
	return purchases, nil
}

// ListGameIDs retrieves the IDs of every game the user owns.
func (r *GORMPurchaseRepository) ListGameIDs(userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.Purchase{}).Where("user_id = ?", userID).Pluck("game_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list owned game IDs for user %d: %w", userID, err)
	}
	return ids, nil
}
