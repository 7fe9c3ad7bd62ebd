package auth

import (
	"context"
	"errors"
)

// TokenHeader carries the session token issued on login/register.
const TokenHeader = "X-BEFIT-TOKEN"

var ErrNotLoggedIn = errors.New("not logged in")

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

type Checker interface {
	// UserID resolves the token to the id of the logged user.
	// ErrNotLoggedIn is returned for unknown or expired tokens.
	UserID(ctx context.Context, token string) (string, error)
}

// LoginTestChecker is an in-memory Checker, used in tests and local tooling.
type LoginTestChecker struct {
	LoggedSessions map[string]string // token -> user id
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		LoggedSessions: map[string]string{},
	}
}

func (c *LoginTestChecker) UserID(_ context.Context, token string) (string, error) {
	userID, ok := c.LoggedSessions[token]
	if !ok || userID == "" {
		return "", ErrNotLoggedIn
	}
	return userID, nil
}
