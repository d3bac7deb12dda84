package models

import (
	"time"

	"github.com/google/uuid"
)

// Certificate is a link to proof of a skill, owned by a user and reviewed
// by an admin. The binary itself is never stored, only the URL.
type Certificate struct {
	UserID     uuid.UUID `json:"userId" gorm:"type:uuid;primaryKey"`
	CID        string    `json:"id" gorm:"primaryKey;column:cid"` // certificate id within the user
	SkillName  string    `json:"skill" gorm:"not null"`
	FileURL    string    `json:"fileUrl" gorm:"not null"`
	Status     string    `json:"status" gorm:"default:pending"` // registry.StatusPending | registry.StatusApproved
	UploadedAt int64     `json:"uploadedAt" gorm:"not null"`    // unix millis
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
