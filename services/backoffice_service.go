package services

import (
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"adventure-backend/models"
)

const (
	interactionPageSize    = 20
	interactionMaxPageSize = 100
)

// BackofficeService records and pages the admin audit trail.
type BackofficeService struct {
	DB *gorm.DB
}

func NewBackofficeService(db *gorm.DB) *BackofficeService {
	return &BackofficeService{DB: db}
}

// LogInteraction records an admin action. Best effort: a failed write is
// logged, never surfaced, so auditing cannot break the action it describes.
func (s *BackofficeService) LogInteraction(userID uint, action, resource, resourceID string, data any) {
	entry := models.InteractionLog{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
	}
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			entry.Data = datatypes.JSON(b)
		}
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		log.Printf("warning: failed to record interaction %s/%s: %v", action, resource, err)
	}
}

type InteractionPage struct {
	Items      []models.InteractionLog `json:"items"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"pageSize"`
	TotalCount int64                   `json:"totalCount"`
}

// GetInteractions returns one page of the audit trail, newest first.
func (s *BackofficeService) GetInteractions(page, pageSize int) (*InteractionPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = interactionPageSize
	}
	if pageSize > interactionMaxPageSize {
		pageSize = interactionMaxPageSize
	}

	var total int64
	if err := s.DB.Model(&models.InteractionLog{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}

	var items []models.InteractionLog
	if err := s.DB.
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve interactions: %w", err)
	}

	return &InteractionPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}, nil
}
