package models

import "time"

// Purchase links a user to a game they own permanently.
//
// There is deliberately no uniqueness constraint on (UserID, GameID):
// checkout is responsible for not inserting a pair the user already owns.
type Purchase struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	GameID       uint      `json:"game_id" gorm:"not null;index"`
	PurchaseDate time.Time `json:"purchase_date" gorm:"autoCreateTime"`
}

// LibraryEntry is a game in a user's library together with when it was bought.
type LibraryEntry struct {
	Game        Game      `json:"game"`
	PurchasedAt time.Time `json:"purchased_at"`
}
