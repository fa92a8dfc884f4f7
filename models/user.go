package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleGeneral    = "GENERAL"
	RoleGuide      = "GUIDE"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Phone and email are both optional; at least one identity field must be
	// present before a user can log in. Pointers keep the unique indexes
	// sparse (multiple NULLs are fine, multiple "" are not).
	PhoneNumber *string `gorm:"column:phone_number;size:10;uniqueIndex" json:"phoneNumber,omitempty"`
	Email       *string `gorm:"column:email;size:255;uniqueIndex" json:"email,omitempty"`

	Username string         `gorm:"column:username;size:15;uniqueIndex" json:"username"`
	Roles    datatypes.JSON `gorm:"column:roles" json:"roles"`

	IsActive    bool `gorm:"column:is_active;default:true" json:"isActive"`
	IsAvailable bool `gorm:"column:is_available;default:true" json:"isAvailable"`
}

func (u *User) RoleList() []string {
	var roles []string
	if len(u.Roles) == 0 {
		return roles
	}
	_ = json.Unmarshal(u.Roles, &roles)
	return roles
}

func (u *User) SetRoles(roles []string) {
	b, _ := json.Marshal(roles)
	u.Roles = datatypes.JSON(b)
}

func (u *User) HasRole(wanted ...string) bool {
	for _, have := range u.RoleList() {
		for _, w := range wanted {
			if have == w {
				return true
			}
		}
	}
	return false
}

func (u *User) AddRole(role string) {
	if u.HasRole(role) {
		return
	}
	u.SetRoles(append(u.RoleList(), role))
}
