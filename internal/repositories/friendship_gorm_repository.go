package repositories

import (
	"errors"
	"fmt"

	"gamestore/internal/models"

	"gorm.io/gorm"
)

// GORMFriendshipRepository is a GORM implementation of FriendshipRepository.
type GORMFriendshipRepository struct {
	db *gorm.DB
}

// NewGORMFriendshipRepository creates a new instance of GORMFriendshipRepository.
func NewGORMFriendshipRepository(db *gorm.DB) *GORMFriendshipRepository {
	return &GORMFriendshipRepository{
		db: db,
	}
}

// Create inserts a new friendship row. The composite primary key turns a
// racing duplicate request into ErrDuplicate.
func (r *GORMFriendshipRepository) Create(f *models.Friendship) error {
	if err := r.db.Create(f).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("friendship between %d and %d already exists: %w", f.UserID1, f.UserID2, ErrDuplicate)
		}
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

// GetPair retrieves the relationship row for an unordered pair of users,
// whichever position each occupies.
func (r *GORMFriendshipRepository) GetPair(userA, userB uint) (*models.Friendship, error) {
	var f models.Friendship
	err := r.db.
		Where("(user_id_1 = ? AND user_id_2 = ?) OR (user_id_1 = ? AND user_id_2 = ?)", userA, userB, userB, userA).
		First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("friendship between %d and %d: %w", userA, userB, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get friendship between %d and %d: %w", userA, userB, err)
	}
	return &f, nil
}

// AcceptPending transitions a pending request to accepted, matched exactly
// on sender and receiver positions. Matching nothing is not an error: a
// reversed or already-handled request simply has no effect.
func (r *GORMFriendshipRepository) AcceptPending(senderID, receiverID uint) error {
	err := r.db.Model(&models.Friendship{}).
		Where("user_id_1 = ? AND user_id_2 = ? AND status = ?", senderID, receiverID, models.FriendshipPending).
		Update("status", models.FriendshipAccepted).Error
	if err != nil {
		return fmt.Errorf("failed to accept friend request from %d to %d: %w", senderID, receiverID, err)
	}
	return nil
}

// DeletePending removes a pending request, matched exactly on sender and
// receiver positions. No-op if absent.
func (r *GORMFriendshipRepository) DeletePending(senderID, receiverID uint) error {
	err := r.db.
		Where("user_id_1 = ? AND user_id_2 = ? AND status = ?", senderID, receiverID, models.FriendshipPending).
		Delete(&models.Friendship{}).Error
	if err != nil {
		return fmt.Errorf("failed to reject friend request from %d to %d: %w", senderID, receiverID, err)
	}
	return nil
}

// DeleteAccepted removes an accepted friendship for an unordered pair.
// No-op if absent.
func (r *GORMFriendshipRepository) DeleteAccepted(userA, userB uint) error {
	err := r.db.
		Where("((user_id_1 = ? AND user_id_2 = ?) OR (user_id_1 = ? AND user_id_2 = ?)) AND status = ?",
			userA, userB, userB, userA, models.FriendshipAccepted).
		Delete(&models.Friendship{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove friendship between %d and %d: %w", userA, userB, err)
	}
	return nil
}

// ListAccepted retrieves the identities of the user's accepted friends,
// whichever position the user occupies in each row.
func (r *GORMFriendshipRepository) ListAccepted(userID uint) ([]models.FriendInfo, error) {
	var infos []models.FriendInfo
	err := r.db.Table("friends").
		Select("users.id, users.username, users.gamertag").
		Joins("JOIN users ON (users.id = friends.user_id_2 AND friends.user_id_1 = ?) OR (users.id = friends.user_id_1 AND friends.user_id_2 = ?)", userID, userID).
		Where("friends.status = ? AND users.id <> ?", models.FriendshipAccepted, userID).
		Scan(&infos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list friends of user %d: %w", userID, err)
	}
	return infos, nil
}

// ListPendingReceived retrieves the senders of requests waiting on the user.
func (r *GORMFriendshipRepository) ListPendingReceived(userID uint) ([]models.FriendInfo, error) {
	var infos []models.FriendInfo
	err := r.db.Table("friends").
		Select("users.id, users.username, users.gamertag").
		Joins("JOIN users ON users.id = friends.user_id_1").
		Where("friends.user_id_2 = ? AND friends.status = ?", userID, models.FriendshipPending).
		Scan(&infos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests received by user %d: %w", userID, err)
	}
	return infos, nil
}

// ListPendingSent retrieves the receivers of requests the user has sent.
func (r *GORMFriendshipRepository) ListPendingSent(userID uint) ([]models.FriendInfo, error) {
	var infos []models.FriendInfo
	err := r.db.Table("friends").
		Select("users.id, users.username, users.gamertag").
		Joins("JOIN users ON users.id = friends.user_id_2").
		Where("friends.user_id_1 = ? AND friends.status = ?", userID, models.FriendshipPending).
		Scan(&infos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests sent by user %d: %w", userID, err)
	}
	return infos, nil
}
