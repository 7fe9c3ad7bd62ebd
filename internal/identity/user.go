package identity

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin = "Admin"

	MaxFailedAccessAttempts = 5
	DefaultLockoutDuration  = 5 * time.Minute
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
)

type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	AccessFailedCount int        `json:"-"`
	LockoutEnd        *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func (u *User) IsLockedOut(now time.Time) bool {
	return u.LockoutEnd != nil && u.LockoutEnd.After(now)
}

// NormalizeEmail gives the form used for the case-insensitive unique index.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
