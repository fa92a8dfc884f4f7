package models

import (
	"time"

	"gorm.io/gorm"
)

// Package is a purchasable variant of an adventure: a fixed duration in days
// at a fixed price.
type Package struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	AdventureID uint `gorm:"column:adventure_id;index" json:"adventureId"`

	Title       string  `gorm:"column:title;size:64" json:"title"`
	Price       float64 `gorm:"column:price" json:"price"`
	Description string  `gorm:"column:description;size:1024" json:"description"`
	Duration    int     `gorm:"column:duration" json:"duration"`
}
