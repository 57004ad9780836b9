package models

import "gorm.io/gorm"

// Game represents a title in the catalog.
type Game struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required,max=2000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Genre       string  `json:"genre" validate:"required,max=100"`
	ReleaseDate string  `json:"release_date" validate:"required"`
	Developer   string  `json:"developer" validate:"required,max=200"`
	ImageURL    string  `json:"image_url" validate:"omitempty,max=500"`
	gorm.Model  `json:"-"`
}
