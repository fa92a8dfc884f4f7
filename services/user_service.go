package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"adventure-backend/models"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,15}$`)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

type UpdateProfileInput struct {
	Username    *string `json:"username"`
	IsAvailable *bool   `json:"isAvailable"`
}

// UpdateProfile applies the caller's own profile changes. Username changes
// are validated and collide with ErrUsernameTaken.
func (s *UserService) UpdateProfile(userID uint, in UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*in.Username))
		if !usernamePattern.MatchString(username) {
			return nil, ErrUsernameTaken
		}
		user.Username = username
	}
	if in.IsAvailable != nil {
		user.IsAvailable = *in.IsAvailable
	}

	if err := s.DB.Save(user).Error; err != nil {
		lc := strings.ToLower(err.Error())
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// ListGuides returns every user holding the GUIDE role. The roles column is
// a JSON array, so the filter happens in Go rather than SQL.
func (s *UserService) ListGuides() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Where("is_active = ?", true).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	guides := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.HasRole(models.RoleGuide) {
			guides = append(guides, u)
		}
	}
	return guides, nil
}
