package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefreshToken stores the hash of an issued refresh credential so it can be
// rotated once. A rotated token points at its successor via ReplacedByID.
type RefreshToken struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash    string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	ExpiresAt    time.Time  `gorm:"not null;index" json:"expires_at"`
	RevokedAt    *time.Time `gorm:"index" json:"revoked_at,omitempty"`
	ReplacedByID *uuid.UUID `gorm:"type:uuid" json:"replaced_by_id,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

// IsUsable reports whether the token may still be exchanged for a new pair.
func (rt *RefreshToken) IsUsable() bool {
	return !rt.IsExpired() && !rt.IsRevoked()
}

func (rt *RefreshToken) Revoke() {
	now := time.Now()
	rt.RevokedAt = &now
}

// RotateTo revokes the token and records its successor.
func (rt *RefreshToken) RotateTo(next uuid.UUID) {
	rt.Revoke()
	rt.ReplacedByID = &next
}

func (rt *RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = time.Now()
	}
	return nil
}
