package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Adventure struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string `gorm:"column:title;size:64;uniqueIndex" json:"title"`
	Description string `gorm:"column:description;size:1024" json:"description"`

	// GeoJSON point, e.g. {"type":"Point","coordinates":[85.3,27.7]}
	Location datatypes.JSON `gorm:"column:location" json:"location,omitempty"`

	ImageURL string `gorm:"column:image_url" json:"imageUrl"`
	ImageAlt string `gorm:"column:image_alt" json:"imageAlt"`

	// [{"url":"...","position":1}, ...]
	Images datatypes.JSON `gorm:"column:images" json:"images,omitempty"`

	Packages []Package `gorm:"foreignKey:AdventureID" json:"packages"`
	Guides   []User    `gorm:"many2many:adventure_guides" json:"guides"`
}

func (a *Adventure) PackageByID(packageID uint) *Package {
	for i := range a.Packages {
		if a.Packages[i].ID == packageID {
			return &a.Packages[i]
		}
	}
	return nil
}

func (a *Adventure) HasGuide(guideID uint) bool {
	for _, g := range a.Guides {
		if g.ID == guideID {
			return true
		}
	}
	return false
}
