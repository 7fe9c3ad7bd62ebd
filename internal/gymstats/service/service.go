package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/2beens/befit/internal/gymstats/repo"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=service_test

var (
	// ErrNotFound covers both absent and not owned resources.
	ErrNotFound = errors.New("not found")
	// ErrWriteConflict means a write touched no rows although the row still exists.
	ErrWriteConflict = errors.New("write conflict")
)

type sessionsRepo interface {
	ListSessions(ctx context.Context, userID string) ([]repo.TrainingSession, error)
	GetSession(ctx context.Context, userID string, id int) (*repo.TrainingSession, error)
	GetSessionWithExercises(ctx context.Context, userID string, id int) (*repo.TrainingSession, error)
	AddSession(ctx context.Context, session repo.TrainingSession) (*repo.TrainingSession, error)
	UpdateSession(ctx context.Context, session *repo.TrainingSession) error
	DeleteSession(ctx context.Context, userID string, id int) error
	SessionExists(ctx context.Context, id int) (bool, error)
}

type exercisesRepo interface {
	ListExercises(ctx context.Context, userID string) ([]repo.SessionExercise, error)
	GetExercise(ctx context.Context, userID string, id int) (*repo.SessionExercise, error)
	AddExercise(ctx context.Context, exercise repo.SessionExercise) (*repo.SessionExercise, error)
	UpdateExercise(ctx context.Context, userID string, exercise *repo.SessionExercise) error
	DeleteExercise(ctx context.Context, userID string, id int) (int, error)
	ExerciseExists(ctx context.Context, id int) (bool, error)
	ExerciseTypeExists(ctx context.Context, id int) (bool, error)
	ListExerciseTypes(ctx context.Context) ([]repo.ExerciseType, error)
	ListSessions(ctx context.Context, userID string) ([]repo.TrainingSession, error)
}

type exerciseTypesRepo interface {
	ListExerciseTypes(ctx context.Context) ([]repo.ExerciseType, error)
	GetExerciseType(ctx context.Context, id int) (*repo.ExerciseType, error)
	AddExerciseType(ctx context.Context, exerciseType repo.ExerciseType) (*repo.ExerciseType, error)
	UpdateExerciseType(ctx context.Context, exerciseType *repo.ExerciseType) error
	DeleteExerciseType(ctx context.Context, id int) error
}

type ownershipGuard interface {
	OwnsSession(ctx context.Context, userID string, sessionID int) (bool, error)
	OwnsExercise(ctx context.Context, userID string, exerciseID int) (bool, error)
}

// roundWeight keeps two decimal places, matching the NUMERIC(10,2) column.
func roundWeight(w float64) float64 {
	return math.Round(w*100) / 100
}

// NewDraft is the default input offered when a user starts a new session:
// now truncated to the minute, lasting one hour.
func NewDraft(now time.Time) SessionInput {
	start := now.Truncate(time.Minute)
	end := start.Add(time.Hour)
	return SessionInput{
		StartDateTime: &start,
		EndDateTime:   &end,
	}
}
