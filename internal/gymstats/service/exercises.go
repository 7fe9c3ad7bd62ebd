package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/befit/internal/gymstats/repo"
	"github.com/2beens/befit/internal/gymstats/validation"
	"github.com/2beens/befit/internal/telemetry/tracing"
	"github.com/2beens/befit/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	msgUnknownExerciseType = "The selected exercise type does not exist."
	sessionLabelLayout     = "02.01.2006 15:04"
	sessionLabelEndLayout  = "15:04"
)

type ExerciseInput struct {
	ExerciseTypeID    int     `json:"exerciseTypeId" validate:"required"`
	TrainingSessionID int     `json:"trainingSessionId"`
	Weight            float64 `json:"weight" validate:"min=0,max=1000"`
	Sets              int     `json:"sets" validate:"min=1,max=100"`
	Reps              int     `json:"reps" validate:"min=1,max=1000"`
	Notes             string  `json:"notes" validate:"max=200"`
}

type SessionOption struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// FormOptions holds what a client needs to fill an exercise form.
type FormOptions struct {
	ExerciseTypes []repo.ExerciseType `json:"exerciseTypes"`
	Sessions      []SessionOption     `json:"sessions"`
}

type ExercisesService struct {
	repo  exercisesRepo
	guard ownershipGuard
}

func NewExercisesService(repo exercisesRepo, guard ownershipGuard) *ExercisesService {
	return &ExercisesService{
		repo:  repo,
		guard: guard,
	}
}

func (s *ExercisesService) List(ctx context.Context, userID string) ([]repo.SessionExercise, error) {
	return s.repo.ListExercises(ctx, userID)
}

func (s *ExercisesService) Get(ctx context.Context, userID string, id int) (*repo.SessionExercise, error) {
	exercise, err := s.repo.GetExercise(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrExerciseNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// Create checks the target session belongs to the caller before anything
// else, so a foreign session is reported as not found and not as invalid input.
func (s *ExercisesService) Create(ctx context.Context, userID string, input ExerciseInput) (_ *repo.SessionExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exercises.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", input.TrainingSessionID))

	owns, err := s.guard.OwnsSession(ctx, userID, input.TrainingSessionID)
	if err != nil {
		return nil, fmt.Errorf("check session owner: %w", err)
	}
	if !owns {
		return nil, ErrNotFound
	}

	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	created, err := s.repo.AddExercise(ctx, toExercise(input))
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, unknownExerciseTypeError()
		}
		return nil, fmt.Errorf("add exercise: %w", err)
	}
	span.SetAttributes(attribute.Int("exercise.id", created.ID))

	return created, nil
}

// Update requires the caller to own both the exercise's current session and
// the session it is being moved to.
func (s *ExercisesService) Update(ctx context.Context, userID string, id int, input ExerciseInput) (_ *repo.SessionExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.exercises.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", id))

	owns, err := s.guard.OwnsExercise(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("check exercise owner: %w", err)
	}
	if !owns {
		return nil, ErrNotFound
	}

	owns, err = s.guard.OwnsSession(ctx, userID, input.TrainingSessionID)
	if err != nil {
		return nil, fmt.Errorf("check session owner: %w", err)
	}
	if !owns {
		return nil, ErrNotFound
	}

	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	exercise := toExercise(input)
	exercise.ID = id
	if err := s.repo.UpdateExercise(ctx, userID, &exercise); err != nil {
		switch {
		case errors.Is(err, repo.ErrExerciseNotFound):
			return nil, s.missingOrConflict(ctx, id)
		case pkg.IsForeignKeyViolationError(err):
			return nil, unknownExerciseTypeError()
		default:
			return nil, fmt.Errorf("update exercise: %w", err)
		}
	}

	return &exercise, nil
}

// Delete returns the id of the session the exercise belonged to.
func (s *ExercisesService) Delete(ctx context.Context, userID string, id int) (int, error) {
	sessionID, err := s.repo.DeleteExercise(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrExerciseNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return sessionID, nil
}

func (s *ExercisesService) FormOptions(ctx context.Context, userID string) (*FormOptions, error) {
	types, err := s.repo.ListExerciseTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercise types: %w", err)
	}
	sessions, err := s.repo.ListSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	options := make([]SessionOption, 0, len(sessions))
	for _, session := range sessions {
		options = append(options, SessionOption{
			ID:    session.ID,
			Label: SessionLabel(session),
		})
	}

	return &FormOptions{
		ExerciseTypes: types,
		Sessions:      options,
	}, nil
}

// SessionLabel renders a session as "02.01.2006 15:04 - 16:04".
func SessionLabel(session repo.TrainingSession) string {
	return session.StartDateTime.Format(sessionLabelLayout) + " - " + session.EndDateTime.Format(sessionLabelEndLayout)
}

func (s *ExercisesService) validate(ctx context.Context, input ExerciseInput) error {
	if errs := validation.Struct(input); errs.HasErrors() {
		return errs
	}

	if !repo.ValidID(input.ExerciseTypeID) {
		return unknownExerciseTypeError()
	}

	exists, err := s.repo.ExerciseTypeExists(ctx, input.ExerciseTypeID)
	if err != nil {
		return fmt.Errorf("check exercise type: %w", err)
	}
	if !exists {
		return unknownExerciseTypeError()
	}

	return nil
}

func (s *ExercisesService) missingOrConflict(ctx context.Context, id int) error {
	exists, err := s.repo.ExerciseExists(ctx, id)
	if err != nil {
		return fmt.Errorf("check exercise exists: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	log.Errorf("exercise [%d] update affected no rows while it still exists", id)
	return fmt.Errorf("exercise [%d]: %w", id, ErrWriteConflict)
}

func toExercise(input ExerciseInput) repo.SessionExercise {
	return repo.SessionExercise{
		ExerciseTypeID:    input.ExerciseTypeID,
		TrainingSessionID: input.TrainingSessionID,
		Weight:            roundWeight(input.Weight),
		Sets:              input.Sets,
		Reps:              input.Reps,
		Notes:             input.Notes,
	}
}

func unknownExerciseTypeError() validation.Errors {
	errs := validation.Errors{}
	errs.Add("exerciseTypeId", msgUnknownExerciseType)
	return errs
}
