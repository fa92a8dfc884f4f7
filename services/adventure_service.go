package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"adventure-backend/models"
)

const (
	adventuresCacheKey = "adventures:all"
	adventuresCacheTTL = 10 * time.Minute
)

// AdventureService manages the catalog: adventures, their packages and their
// enrolled guides. The full-list read goes through a redis cache because it
// backs the public landing page; every mutation drops the cached copy.
type AdventureService struct {
	DB    *gorm.DB
	Cache *redis.Client // nil disables caching
}

func NewAdventureService(db *gorm.DB, cache *redis.Client) *AdventureService {
	return &AdventureService{DB: db, Cache: cache}
}

func (s *AdventureService) GetAdventures(ctx context.Context) ([]models.Adventure, error) {
	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, adventuresCacheKey).Bytes()
		if err == nil {
			var adventures []models.Adventure
			if json.Unmarshal(cached, &adventures) == nil {
				return adventures, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("warning: adventure cache read failed: %v", err)
		}
	}

	var adventures []models.Adventure
	if err := s.DB.
		Preload("Packages").
		Preload("Guides").
		Order("created_at DESC").
		Find(&adventures).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve adventures: %w", err)
	}

	if s.Cache != nil {
		if b, err := json.Marshal(adventures); err == nil {
			if err := s.Cache.Set(ctx, adventuresCacheKey, b, adventuresCacheTTL).Err(); err != nil {
				log.Printf("warning: adventure cache write failed: %v", err)
			}
		}
	}
	return adventures, nil
}

func (s *AdventureService) GetAdventureByID(id uint) (*models.Adventure, error) {
	var adventure models.Adventure
	if err := s.DB.
		Preload("Packages").
		Preload("Guides").
		First(&adventure, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find adventure: %w", err)
	}
	return &adventure, nil
}

type AdventureInput struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	Location    datatypes.JSON `json:"location"`
	ImageURL    string         `json:"imageUrl"`
	ImageAlt    string         `json:"imageAlt"`
	Images      datatypes.JSON `json:"images"`
}

func (s *AdventureService) CreateAdventure(ctx context.Context, in AdventureInput) (*models.Adventure, error) {
	adventure := models.Adventure{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		ImageURL:    in.ImageURL,
		ImageAlt:    in.ImageAlt,
		Images:      in.Images,
	}
	if err := s.DB.Create(&adventure).Error; err != nil {
		return nil, fmt.Errorf("failed to create adventure: %w", err)
	}
	s.invalidateCache(ctx)
	return &adventure, nil
}

func (s *AdventureService) UpdateAdventure(ctx context.Context, id uint, in AdventureInput) (*models.Adventure, error) {
	adventure, err := s.GetAdventureByID(id)
	if err != nil {
		return nil, err
	}

	adventure.Title = in.Title
	adventure.Description = in.Description
	if in.Location != nil {
		adventure.Location = in.Location
	}
	if in.ImageURL != "" {
		adventure.ImageURL = in.ImageURL
	}
	if in.ImageAlt != "" {
		adventure.ImageAlt = in.ImageAlt
	}
	if in.Images != nil {
		adventure.Images = in.Images
	}

	if err := s.DB.Save(adventure).Error; err != nil {
		return nil, fmt.Errorf("failed to update adventure: %w", err)
	}
	s.invalidateCache(ctx)
	return adventure, nil
}

func (s *AdventureService) DeleteAdventure(ctx context.Context, id uint) error {
	result := s.DB.Delete(&models.Adventure{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete adventure: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	s.invalidateCache(ctx)
	return nil
}

// EnrollGuide adds a guide to an adventure's roster. The user must hold the
// GUIDE role; double enrollment is rejected.
func (s *AdventureService) EnrollGuide(ctx context.Context, adventureID uint, guide *models.User) error {
	if !guide.HasRole(models.RoleGuide) {
		return ErrNotFound
	}

	adventure, err := s.GetAdventureByID(adventureID)
	if err != nil {
		return err
	}
	if adventure.HasGuide(guide.ID) {
		return ErrGuideAlreadyEnrolled
	}

	if err := s.DB.Model(adventure).Association("Guides").Append(guide); err != nil {
		return fmt.Errorf("failed to enroll guide: %w", err)
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *AdventureService) UnenrollGuide(ctx context.Context, adventureID uint, guide *models.User) error {
	adventure, err := s.GetAdventureByID(adventureID)
	if err != nil {
		return err
	}
	if !adventure.HasGuide(guide.ID) {
		return ErrNotFound
	}

	if err := s.DB.Model(adventure).Association("Guides").Delete(guide); err != nil {
		return fmt.Errorf("failed to unenroll guide: %w", err)
	}
	s.invalidateCache(ctx)
	return nil
}

// AvailableGuides filters an adventure's roster down to guides free for the
// given interval. Only CONFIRMED bookings block; the candidate list is loaded
// in one query rather than per guide.
func (s *AdventureService) AvailableGuides(adventureID uint, startDate, endDate time.Time) ([]models.User, error) {
	adventure, err := s.GetAdventureByID(adventureID)
	if err != nil {
		return nil, err
	}
	if len(adventure.Guides) == 0 {
		return []models.User{}, nil
	}

	guideIDs := make([]uint, 0, len(adventure.Guides))
	for _, g := range adventure.Guides {
		guideIDs = append(guideIDs, g.ID)
	}

	var confirmed []models.Booking
	if err := s.DB.
		Where("guide_id IN ? AND status = ?", guideIDs, models.BookingStatusConfirmed).
		Where("start_date < ? AND end_date > ?", endDate, startDate).
		Find(&confirmed).Error; err != nil {
		return nil, fmt.Errorf("failed to load confirmed bookings: %w", err)
	}

	byGuide := make(map[uint][]models.Booking)
	for _, b := range confirmed {
		byGuide[b.GuideID] = append(byGuide[b.GuideID], b)
	}

	available := make([]models.User, 0, len(adventure.Guides))
	for _, g := range adventure.Guides {
		if !g.IsAvailable {
			continue
		}
		if IsGuideAvailable(startDate, endDate, byGuide[g.ID]) {
			available = append(available, g)
		}
	}
	return available, nil
}

type PackageInput struct {
	Title       string  `json:"title" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Description string  `json:"description"`
	Duration    int     `json:"duration" binding:"required,gt=0"`
}

func (s *AdventureService) CreatePackage(ctx context.Context, adventureID uint, in PackageInput) (*models.Package, error) {
	if _, err := s.GetAdventureByID(adventureID); err != nil {
		return nil, err
	}

	pkg := models.Package{
		AdventureID: adventureID,
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		Duration:    in.Duration,
	}
	if err := s.DB.Create(&pkg).Error; err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}
	s.invalidateCache(ctx)
	return &pkg, nil
}

func (s *AdventureService) UpdatePackage(ctx context.Context, adventureID, packageID uint, in PackageInput) (*models.Package, error) {
	var pkg models.Package
	if err := s.DB.
		Where("id = ? AND adventure_id = ?", packageID, adventureID).
		First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find package: %w", err)
	}

	pkg.Title = in.Title
	pkg.Price = in.Price
	pkg.Description = in.Description
	pkg.Duration = in.Duration

	if err := s.DB.Save(&pkg).Error; err != nil {
		return nil, fmt.Errorf("failed to update package: %w", err)
	}
	s.invalidateCache(ctx)
	return &pkg, nil
}

func (s *AdventureService) DeletePackage(ctx context.Context, adventureID, packageID uint) error {
	result := s.DB.
		Where("id = ? AND adventure_id = ?", packageID, adventureID).
		Delete(&models.Package{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete package: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *AdventureService) invalidateCache(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, adventuresCacheKey).Err(); err != nil {
		log.Printf("warning: adventure cache invalidation failed: %v", err)
	}
}
