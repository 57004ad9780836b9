package services

import (
	"errors"
	"fmt"

	"gamestore/internal/models"
	"gamestore/internal/repositories"
)

// FriendshipService manages the pairwise relationship state machine
// between users. A pair is in one of three states: no row, pending or
// accepted. Requests always store the sender in the first position.
type FriendshipService struct {
	userRepo   repositories.UserRepository
	friendRepo repositories.FriendshipRepository
}

// NewFriendshipService creates a new FriendshipService.
func NewFriendshipService(userRepo repositories.UserRepository, friendRepo repositories.FriendshipRepository) *FriendshipService {
	return &FriendshipService{
		userRepo:   userRepo,
		friendRepo: friendRepo,
	}
}

// SendRequestByGamertag sends a friend request to the user with the given
// gamertag. On the "already ..." errors the target is still returned so
// callers can name them in the notice.
func (s *FriendshipService) SendRequestByGamertag(senderID uint, gamertag string) (*models.User, error) {
	target, err := s.userRepo.GetByGamertag(gamertag)
	if err != nil {
		return nil, err
	}
	return s.sendRequest(senderID, target)
}

// SendRequestByCode sends a friend request to the user with the given
// friend code.
func (s *FriendshipService) SendRequestByCode(senderID uint, code string) (*models.User, error) {
	target, err := s.userRepo.GetByFriendCode(code)
	if err != nil {
		return nil, err
	}
	return s.sendRequest(senderID, target)
}

func (s *FriendshipService) sendRequest(senderID uint, target *models.User) (*models.User, error) {
	if target.ID == senderID {
		return nil, ErrSelfFriend
	}

	existing, err := s.friendRepo.GetPair(senderID, target.ID)
	if err == nil {
		switch {
		case existing.Status == models.FriendshipAccepted:
			return target, ErrAlreadyFriends
		case existing.UserID1 == senderID:
			return target, ErrRequestAlreadySent
		default:
			return target, ErrRequestAlreadyReceived
		}
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing friendship: %w", err)
	}

	f := &models.Friendship{
		UserID1: senderID,
		UserID2: target.ID,
		Status:  models.FriendshipPending,
	}
	if err := s.friendRepo.Create(f); err != nil {
		// Two requests for the same pair raced past the existence check;
		// the composite key kept a single row.
		if errors.Is(err, repositories.ErrDuplicate) {
			return target, ErrRequestAlreadySent
		}
		return nil, err
	}
	return target, nil
}

// AcceptRequest accepts a pending request sent by requesterID to
// receiverID. If no such row exists in exactly that orientation the call
// is a silent no-op.
func (s *FriendshipService) AcceptRequest(requesterID, receiverID uint) error {
	return s.friendRepo.AcceptPending(requesterID, receiverID)
}

// RejectRequest deletes a pending request sent by requesterID to
// receiverID. No-op if absent.
func (s *FriendshipService) RejectRequest(requesterID, receiverID uint) error {
	return s.friendRepo.DeletePending(requesterID, receiverID)
}

// RemoveFriend deletes an accepted friendship between the two users,
// whichever of them initiated it originally. No-op if absent.
func (s *FriendshipService) RemoveFriend(userID, friendID uint) error {
	return s.friendRepo.DeleteAccepted(userID, friendID)
}

// Overview returns the user's friendships as three disjoint lists:
// accepted friends, pending requests received and pending requests sent.
func (s *FriendshipService) Overview(userID uint) (*models.FriendsOverview, error) {
	friends, err := s.friendRepo.ListAccepted(userID)
	if err != nil {
		return nil, err
	}
	received, err := s.friendRepo.ListPendingReceived(userID)
	if err != nil {
		return nil, err
	}
	sent, err := s.friendRepo.ListPendingSent(userID)
	if err != nil {
		return nil, err
	}
	return &models.FriendsOverview{
		Friends:         friends,
		PendingReceived: received,
		PendingSent:     sent,
	}, nil
}
