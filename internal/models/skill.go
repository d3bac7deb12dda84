package models

import (
	"time"

	"github.com/google/uuid"
)

// Skill is one claimed skill under a user. Once a certificate for it is
// approved, the record under the certificate's id carries verified=true.
type Skill struct {
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;primaryKey"`
	SID       string    `json:"id" gorm:"primaryKey;column:sid"` // skill id within the user
	Name      string    `json:"name" gorm:"not null"`
	Verified  bool      `json:"verified" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
