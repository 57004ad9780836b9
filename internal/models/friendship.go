package models

import "time"

// FriendshipStatus represents the state of a friendship row.
type FriendshipStatus string

const (
	// FriendshipPending indicates a request that has not been accepted yet.
	FriendshipPending FriendshipStatus = "pending"
	// FriendshipAccepted indicates an established friendship.
	FriendshipAccepted FriendshipStatus = "accepted"
)

// Friendship is a relationship row between two users.
//
// Invariant relied upon throughout the friendship flows: UserID1 is always
// the user who sent the request and UserID2 the one who received it. The
// composite primary key prevents a second row for the same ordered pair;
// the service layer refuses to insert when a row exists in either order.
type Friendship struct {
	UserID1   uint             `json:"user_id_1" gorm:"primaryKey;autoIncrement:false"`
	UserID2   uint             `json:"user_id_2" gorm:"primaryKey;autoIncrement:false"`
	Status    FriendshipStatus `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TableName keeps the table name used by the store schema.
func (Friendship) TableName() string {
	return "friends"
}

// FriendInfo is the public identity of another user in a friendship listing.
type FriendInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Gamertag string `json:"gamertag"`
}

// FriendsOverview groups a user's friendships into three disjoint lists.
type FriendsOverview struct {
	Friends         []FriendInfo `json:"friends"`
	PendingReceived []FriendInfo `json:"pending_received"`
	PendingSent     []FriendInfo `json:"pending_sent"`
}
