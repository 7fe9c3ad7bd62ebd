package ownership

import (
	"context"
	"errors"

	"github.com/2beens/befit/internal/auth"
	"github.com/2beens/befit/internal/gymstats/repo"
)

//go:generate mockgen -source=$GOFILE -destination=guard_mocks_test.go -package=ownership_test

var ErrUnauthenticated = errors.New("no authenticated user in context")

type ownershipStore interface {
	UserOwnsSession(ctx context.Context, userID string, sessionID int) (bool, error)
	UserOwnsExercise(ctx context.Context, userID string, exerciseID int) (bool, error)
}

// Guard answers "who is calling" and "does the caller own this".
// A false answer is meant to be reported as not found.
type Guard struct {
	store ownershipStore
}

func NewGuard(store ownershipStore) *Guard {
	return &Guard{
		store: store,
	}
}

// CurrentUserID returns the authenticated caller put in the context by the
// auth middleware.
func CurrentUserID(ctx context.Context) (string, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok || userID == "" {
		return "", ErrUnauthenticated
	}
	return userID, nil
}

func (g *Guard) CurrentUserID(ctx context.Context) (string, error) {
	return CurrentUserID(ctx)
}

func (g *Guard) OwnsSession(ctx context.Context, userID string, sessionID int) (bool, error) {
	if userID == "" || !repo.ValidID(sessionID) {
		return false, nil
	}
	return g.store.UserOwnsSession(ctx, userID, sessionID)
}

func (g *Guard) OwnsExercise(ctx context.Context, userID string, exerciseID int) (bool, error) {
	if userID == "" || !repo.ValidID(exerciseID) {
		return false, nil
	}
	return g.store.UserOwnsExercise(ctx, userID, exerciseID)
}
