package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	GuideRequestStatusPending  = "PENDING"
	GuideRequestStatusApproved = "APPROVED"
	GuideRequestStatusRejected = "REJECTED"
)

const (
	GuideTypeIndividual   = "INDIVIDUAL"
	GuideTypeOrganization = "ORGANIZATION"
)

// GuideRequest is an application to become a guide, reviewed by an admin.
type GuideRequest struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID *uint `gorm:"column:user_id;index" json:"userId,omitempty"`

	Type        string     `gorm:"column:type;size:16" json:"type"`
	Name        string     `gorm:"column:name;size:64" json:"name"`
	PhoneNumber string     `gorm:"column:phone_number;size:10" json:"phoneNumber"`
	Gender      string     `gorm:"column:gender;size:16" json:"gender"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth" json:"dateOfBirth,omitempty"`
	Email       string     `gorm:"column:email;size:255" json:"email,omitempty"`
	Address     string     `gorm:"column:address;size:255" json:"address,omitempty"`
	Message     string     `gorm:"column:message;size:1024" json:"message,omitempty"`

	// [{"url":"...","type":"CITIZENSHIP"}, ...]
	Documents datatypes.JSON `gorm:"column:documents" json:"documents,omitempty"`

	Status string `gorm:"column:status;size:16;index" json:"status"`
}
