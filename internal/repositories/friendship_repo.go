package repositories

import "gamestore/internal/models"

// FriendshipRepository defines the interface for friendship rows. The
// sender of a request is always stored in the first position; Accept and
// DeletePending match on that exact ordering, while GetPair and
// DeleteAccepted treat the pair as unordered.
type FriendshipRepository interface {
	Create(f *models.Friendship) error
	GetPair(userA, userB uint) (*models.Friendship, error)
	AcceptPending(senderID, receiverID uint) error
	DeletePending(senderID, receiverID uint) error
	DeleteAccepted(userA, userB uint) error
	ListAccepted(userID uint) ([]models.FriendInfo, error)
	ListPendingReceived(userID uint) ([]models.FriendInfo, error)
	ListPendingSent(userID uint) ([]models.FriendInfo, error)
}
