package models

import "gorm.io/gorm"

// User represents an account in the store.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Gamertag     string `json:"gamertag" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	PasswordHash string `json:"-" gorm:"type:varchar(255)"`
	FriendCode   string `json:"friend_code" gorm:"uniqueIndex;type:varchar(36)"`
	IsAdmin      bool   `json:"is_admin"`
	gorm.Model   `json:"-"`
}
