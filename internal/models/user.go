package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// User owns a ledger of transactions and budgets. Email is the login handle.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	FirstName    string     `gorm:"type:varchar(150);not null;default:''" json:"first_name"`
	LastName     string     `gorm:"type:varchar(150);not null;default:''" json:"last_name"`
	LastLoginAt  *time.Time `gorm:"index" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`

	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	Transactions  []Transaction  `gorm:"foreignKey:UserID" json:"-"`
	Budgets       []Budget       `gorm:"foreignKey:UserID" json:"-"`
	AuditLogs     []AuditLog     `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	u.Email = NormalizeEmail(u.Email)

	// Set timestamps if not already set (for tests)
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	return u.Validate()
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	// Map-based updates only touch specific columns
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}

	return u.Validate()
}

func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}

	if !emailRegex.MatchString(u.Email) {
		return errors.New("invalid email format")
	}

	if len(u.FirstName) > 150 || len(u.LastName) > 150 {
		return errors.New("name fields must be at most 150 characters")
	}

	return nil
}

func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// FullName joins the optional name fields, skipping empty ones.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) TableName() string {
	return "users"
}

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
