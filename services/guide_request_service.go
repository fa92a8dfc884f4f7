package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"adventure-backend/models"
)

type GuideRequestService struct {
	DB *gorm.DB
}

func NewGuideRequestService(db *gorm.DB) *GuideRequestService {
	return &GuideRequestService{DB: db}
}

type GuideRequestInput struct {
	Type        string         `json:"type" binding:"required,oneof=INDIVIDUAL ORGANIZATION"`
	Name        string         `json:"name" binding:"required"`
	PhoneNumber string         `json:"phoneNumber" binding:"required,len=10,numeric"`
	Gender      string         `json:"gender"`
	DateOfBirth *time.Time     `json:"dateOfBirth"`
	Email       string         `json:"email"`
	Address     string         `json:"address"`
	Message     string         `json:"message"`
	Documents   datatypes.JSON `json:"documents"`
}

// Create files a new application. A logged-in applicant is linked so approval
// can promote them; anonymous applications are kept for manual follow-up.
func (s *GuideRequestService) Create(userID *uint, in GuideRequestInput) (*models.GuideRequest, error) {
	request := models.GuideRequest{
		UserID:      userID,
		Type:        in.Type,
		Name:        in.Name,
		PhoneNumber: in.PhoneNumber,
		Gender:      in.Gender,
		DateOfBirth: in.DateOfBirth,
		Email:       in.Email,
		Address:     in.Address,
		Message:     in.Message,
		Documents:   in.Documents,
		Status:      models.GuideRequestStatusPending,
	}
	if err := s.DB.Create(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to create guide request: %w", err)
	}
	return &request, nil
}

func (s *GuideRequestService) ListPending() ([]models.GuideRequest, error) {
	var requests []models.GuideRequest
	if err := s.DB.
		Where("status = ?", models.GuideRequestStatusPending).
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve guide requests: %w", err)
	}
	return requests, nil
}

func (s *GuideRequestService) GetByID(id uint) (*models.GuideRequest, error) {
	var request models.GuideRequest
	if err := s.DB.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find guide request: %w", err)
	}
	return &request, nil
}

// Approve marks the request approved and, when it is linked to a user, grants
// that user the GUIDE role in the same transaction.
func (s *GuideRequestService) Approve(id uint) (*models.GuideRequest, error) {
	request, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if request.Status != models.GuideRequestStatusPending {
		return nil, ErrAlreadyReviewed
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		request.Status = models.GuideRequestStatusApproved
		if err := tx.Save(request).Error; err != nil {
			return fmt.Errorf("failed to update guide request: %w", err)
		}

		if request.UserID == nil {
			return nil
		}
		var user models.User
		if err := tx.First(&user, *request.UserID).Error; err != nil {
			return fmt.Errorf("failed to find applicant: %w", err)
		}
		user.AddRole(models.RoleGuide)
		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("failed to promote applicant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *GuideRequestService) Reject(id uint) (*models.GuideRequest, error) {
	request, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if request.Status != models.GuideRequestStatusPending {
		return nil, ErrAlreadyReviewed
	}

	request.Status = models.GuideRequestStatusRejected
	if err := s.DB.Save(request).Error; err != nil {
		return nil, fmt.Errorf("failed to update guide request: %w", err)
	}
	return request, nil
}
