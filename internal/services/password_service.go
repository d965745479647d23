package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultBCryptCost        = 12
	DefaultMinPasswordLength = 8
	MaxPasswordLength        = 72 // bcrypt ignores bytes past 72
)

var (
	ErrPasswordEmpty       = errors.New("password cannot be empty")
	ErrPasswordTooLong     = fmt.Errorf("password must not exceed %d characters", MaxPasswordLength)
	ErrPasswordAllNumeric  = errors.New("password cannot be entirely numeric")
	ErrPasswordTooCommon   = errors.New("password is too common")
	ErrPasswordMismatch    = errors.New("passwords don't match")
	errPasswordTooShortFmt = "password must be at least %d characters"

	numericOnlyRegex = regexp.MustCompile(`^[0-9]+$`)

	commonPasswords = map[string]struct{}{
		"password":    {},
		"password1":   {},
		"password123": {},
		"12345678":    {},
		"123456789":   {},
		"qwerty123":   {},
		"iloveyou":    {},
		"letmein1":    {},
		"welcome1":    {},
		"abc12345":    {},
	}
)

// ErrPasswordTooShort is returned for passwords under the configured length
type ErrPasswordTooShort struct {
	MinLength int
}

func (e ErrPasswordTooShort) Error() string {
	return fmt.Sprintf(errPasswordTooShortFmt, e.MinLength)
}

// PasswordService handles password hashing and validation
type PasswordService struct {
	cost      int
	minLength int
}

// NewPasswordService creates a password service. Non-positive arguments fall
// back to the defaults.
func NewPasswordService(cost, minLength int) PasswordServiceInterface {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBCryptCost
	}
	if minLength <= 0 {
		minLength = DefaultMinPasswordLength
	}

	return &PasswordService{
		cost:      cost,
		minLength: minLength,
	}
}

// ValidatePassword checks length, rejects all-digit passwords and a short
// list of well known ones
func (ps *PasswordService) ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordEmpty
	}

	if len(password) < ps.minLength {
		return ErrPasswordTooShort{MinLength: ps.minLength}
	}

	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}

	if numericOnlyRegex.MatchString(password) {
		return ErrPasswordAllNumeric
	}

	if _, common := commonPasswords[strings.ToLower(password)]; common {
		return ErrPasswordTooCommon
	}

	return nil
}

// HashPassword validates and hashes a password using bcrypt
func (ps *PasswordService) HashPassword(password string) (string, error) {
	if err := ps.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("password validation failed: %w", err)
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), ps.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// ComparePassword reports whether password matches the bcrypt hash
func (ps *PasswordService) ComparePassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
