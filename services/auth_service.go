package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"adventure-backend/models"
	"adventure-backend/utils"
)

const (
	GrantTypeAccess  = "ACCESS"
	GrantTypeRefresh = "REFRESH"

	accessTokenValidity  = 24 * time.Hour
	refreshTokenValidity = 30 * 24 * time.Hour

	otpLength   = 6
	otpValidity = 5 * time.Minute
)

var phoneNumberPattern = regexp.MustCompile(`^\d{10}$`)

type Claims struct {
	UserID uint   `json:"uid"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	return []byte(utils.EnvOrDefault("JWT_SECRET_KEY", ""))
}

// GenerateJWT issues an HS256 token for the given grant type.
func GenerateJWT(user *models.User, grantType string) (string, error) {
	validity := accessTokenValidity
	if grantType == GrantTypeRefresh {
		validity = refreshTokenValidity
	}

	claims := Claims{
		UserID: user.ID,
		Type:   grantType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ParseJWT validates a token's signature and expiry and returns its claims.
func ParseJWT(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// AuthService handles phone-OTP login and token issuance.
type AuthService struct {
	DB *gorm.DB

	// SMSEndpoint is overridable for tests; empty means the aakashsms API.
	SMSEndpoint string
	client      *http.Client
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		DB:          db,
		SMSEndpoint: "https://sms.aakashsms.com/sms/v3/send/",
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// RequestOTP creates (or fetches) the user behind the phone number,
// generates a fresh code and sends it by SMS. The code is stored
// bcrypt-hashed; only one active code exists per user.
func (s *AuthService) RequestOTP(ctx context.Context, phoneNumber string) (time.Time, error) {
	if !phoneNumberPattern.MatchString(phoneNumber) {
		return time.Time{}, ErrInvalidPhoneNumber
	}

	user, err := s.findOrCreateUserByPhone(phoneNumber)
	if err != nil {
		return time.Time{}, err
	}

	code, err := utils.GenerateOTP(otpLength)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to generate otp: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to hash otp: %w", err)
	}

	expiresAt := time.Now().Add(otpValidity)
	otp := models.Otp{
		UserID:    user.ID,
		Type:      models.OtpTypeAuth,
		CodeHash:  string(hash),
		ExpiresAt: expiresAt,
	}
	if err := s.DB.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}},
			UpdateAll: true,
		}).
		Create(&otp).Error; err != nil {
		return time.Time{}, fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.sendSMS(ctx, phoneNumber, fmt.Sprintf("Your login code is %s. It expires in 5 minutes.", code)); err != nil {
		return time.Time{}, err
	}
	return expiresAt, nil
}

// Login verifies the OTP for the phone number and issues an access/refresh
// token pair. The consumed code is deleted whether or not more attempts
// follow.
func (s *AuthService) Login(phoneNumber, method, code string) (access string, refresh string, user *models.User, err error) {
	if method != "phone" {
		return "", "", nil, ErrInvalidAuthMethod
	}

	var u models.User
	if err := s.DB.Where("phone_number = ?", phoneNumber).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", nil, ErrInvalidOTP
		}
		return "", "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	var otp models.Otp
	if err := s.DB.
		Where("user_id = ? AND type = ? AND expires_at > ?", u.ID, models.OtpTypeAuth, time.Now()).
		First(&otp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", nil, ErrInvalidOTP
		}
		return "", "", nil, fmt.Errorf("failed to find otp: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)) != nil {
		return "", "", nil, ErrInvalidOTP
	}

	_ = s.DB.Where("user_id = ? AND type = ?", u.ID, models.OtpTypeAuth).Delete(&models.Otp{}).Error

	access, err = GenerateJWT(&u, GrantTypeAccess)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err = GenerateJWT(&u, GrantTypeRefresh)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return access, refresh, &u, nil
}

// Refresh exchanges a valid REFRESH token for a new ACCESS token.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := ParseJWT(refreshToken)
	if err != nil {
		return "", ErrInvalidOTP
	}
	if claims.Type != GrantTypeRefresh {
		return "", ErrInvalidJWTType
	}

	var u models.User
	if err := s.DB.First(&u, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	return GenerateJWT(&u, GrantTypeAccess)
}

func (s *AuthService) findOrCreateUserByPhone(phoneNumber string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("phone_number = ?", phoneNumber).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// New user; retry username generation on the rare collision.
	for attempt := 0; attempt < 5; attempt++ {
		suffix, gErr := utils.GenerateSecureToken(4)
		if gErr != nil {
			return nil, gErr
		}
		user = models.User{
			PhoneNumber: &phoneNumber,
			Username:    "user_" + suffix,
			IsActive:    true,
			IsAvailable: true,
		}
		user.SetRoles([]string{models.RoleGeneral})

		cErr := s.DB.Create(&user).Error
		if cErr == nil {
			return &user, nil
		}
		lc := strings.ToLower(cErr.Error())
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") {
			continue
		}
		return nil, fmt.Errorf("failed to create user: %w", cErr)
	}
	return nil, errors.New("failed to create user after retries")
}

func (s *AuthService) sendSMS(ctx context.Context, phoneNumber, text string) error {
	apiKey := utils.EnvOrDefault("SMS_API_KEY", "")
	if apiKey == "" {
		log.Printf("warning: SMS_API_KEY not set; skipping SMS to %s", phoneNumber)
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"auth_token": apiKey,
		"to":         phoneNumber,
		"text":       text,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.SMSEndpoint, bytes.NewReader(body))
	if err != nil {
		return ErrCannotSendOTP
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return ErrCannotSendOTP
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ErrCannotSendOTP
	}
	return nil
}
