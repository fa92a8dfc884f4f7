package models

import (
	"time"

	"gorm.io/datatypes"
)

// Actions recorded in the interaction log.
const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionRead     = "read"
	ActionEnroll   = "enroll"
	ActionUnenroll = "unenroll"
)

// Resources recorded in the interaction log.
const (
	ResourceAdventure    = "adventure"
	ResourcePackage      = "package"
	ResourceUser         = "user"
	ResourceGuideRequest = "guideRequest"
)

// InteractionLog is the backoffice audit trail: who did what to which
// resource, with an optional data payload.
type InteractionLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID uint `gorm:"column:user_id;index" json:"userId"`
	User   User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Action     string `gorm:"column:action;size:16" json:"action"`
	Resource   string `gorm:"column:resource;size:32" json:"resource"`
	ResourceID string `gorm:"column:resource_id;size:64" json:"resourceId"`

	Data datatypes.JSON `gorm:"column:data" json:"data,omitempty"`
}
