package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"adventure-backend/models"
	"adventure-backend/services"
)

// AdventureCatalog is the gorm-backed services.AdventureCatalog. It resolves
// the full association triple: the adventure must exist, the package must
// belong to it, and the guide must be enrolled in it.
type AdventureCatalog struct {
	DB *gorm.DB
}

func NewAdventureCatalog(db *gorm.DB) *AdventureCatalog {
	return &AdventureCatalog{DB: db}
}

func (c *AdventureCatalog) FindWithPackageAndGuide(adventureID, packageID, guideID uint) (*models.Adventure, error) {
	var adventure models.Adventure
	if err := c.DB.
		Preload("Packages").
		Preload("Guides").
		First(&adventure, adventureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find adventure: %w", err)
	}

	if adventure.PackageByID(packageID) == nil || !adventure.HasGuide(guideID) {
		return nil, services.ErrNotFound
	}
	return &adventure, nil
}
