package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null"`
	Password   string    `json:"-"` // empty for Google-authenticated accounts
	Name       string    `json:"name"`
	PhotoURL   string    `json:"photoUrl"`
	Verified   bool      `json:"verified" gorm:"default:false"`
	VerifiedAt int64     `json:"verifiedAt,omitempty"` // unix millis, 0 = never verified
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
	Skills     []Skill   `json:"skills" gorm:"foreignKey:UserID"` // one-to-many relation
}
