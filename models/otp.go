package models

import "time"

const OtpTypeAuth = "AUTH"

// Otp holds one active code per (user, type). The code itself is stored
// bcrypt-hashed; only the expiry is queryable.
type Otp struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID   uint   `gorm:"column:user_id;uniqueIndex:idx_otp_user_type" json:"userId"`
	Type     string `gorm:"column:type;size:16;uniqueIndex:idx_otp_user_type" json:"type"`
	CodeHash string `gorm:"column:code_hash;size:64" json:"-"`

	ExpiresAt time.Time `gorm:"column:expires_at" json:"expiresAt"`
}
