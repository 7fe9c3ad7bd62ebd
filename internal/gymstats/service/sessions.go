package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/befit/internal/gymstats/ownership"
	"github.com/2beens/befit/internal/gymstats/repo"
	"github.com/2beens/befit/internal/gymstats/validation"
	"github.com/2beens/befit/internal/telemetry/tracing"
	"github.com/2beens/befit/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const msgEndBeforeStart = "End date and time must be after the start date and time."

type SessionInput struct {
	StartDateTime *time.Time `json:"startDateTime" validate:"required"`
	EndDateTime   *time.Time `json:"endDateTime" validate:"required"`
	Notes         string     `json:"notes" validate:"max=200"`
	// UserID is accepted for compatibility and ignored; the owner is always the caller.
	UserID string `json:"userId,omitempty" validate:"-"`
}

// Validate runs the field rules first and the start/end rule only when both
// dates are present.
func (in SessionInput) Validate() validation.Errors {
	errs := validation.Struct(in)
	if in.StartDateTime != nil && in.EndDateTime != nil && !in.EndDateTime.After(*in.StartDateTime) {
		errs.Add("endDateTime", msgEndBeforeStart)
	}
	return errs
}

type SessionsService struct {
	repo sessionsRepo
}

func NewSessionsService(repo sessionsRepo) *SessionsService {
	return &SessionsService{
		repo: repo,
	}
}

func (s *SessionsService) List(ctx context.Context, userID string) ([]repo.TrainingSession, error) {
	return s.repo.ListSessions(ctx, userID)
}

// Get returns the session with its exercises and their types.
func (s *SessionsService) Get(ctx context.Context, userID string, id int) (*repo.TrainingSession, error) {
	session, err := s.repo.GetSessionWithExercises(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrSessionNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *SessionsService) Create(ctx context.Context, userID string, input SessionInput) (_ *repo.TrainingSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if errs := input.Validate(); errs.HasErrors() {
		return nil, errs
	}

	created, err := s.repo.AddSession(ctx, repo.TrainingSession{
		StartDateTime: *input.StartDateTime,
		EndDateTime:   *input.EndDateTime,
		Notes:         input.Notes,
		UserID:        userID,
	})
	if err != nil {
		switch {
		case pkg.IsCheckViolationError(err):
			return nil, endBeforeStartError()
		case pkg.IsForeignKeyViolationError(err):
			// the caller's token outlived the user row
			log.Warnf("add session: owner [%s] no longer exists", userID)
			return nil, fmt.Errorf("session owner: %w", ownership.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("add session: %w", err)
	}
	span.SetAttributes(attribute.Int("session.id", created.ID))

	return created, nil
}

func (s *SessionsService) Update(ctx context.Context, userID string, id int, input SessionInput) (_ *repo.TrainingSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", id))

	session, err := s.repo.GetSession(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrSessionNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if errs := input.Validate(); errs.HasErrors() {
		return nil, errs
	}

	session.StartDateTime = *input.StartDateTime
	session.EndDateTime = *input.EndDateTime
	session.Notes = input.Notes

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		switch {
		case errors.Is(err, repo.ErrSessionNotFound):
			return nil, s.missingOrConflict(ctx, id)
		case pkg.IsCheckViolationError(err):
			return nil, endBeforeStartError()
		default:
			return nil, fmt.Errorf("update session: %w", err)
		}
	}

	return session, nil
}

// Delete removes the session and, by cascade, its exercises.
func (s *SessionsService) Delete(ctx context.Context, userID string, id int) error {
	if err := s.repo.DeleteSession(ctx, userID, id); err != nil {
		if errors.Is(err, repo.ErrSessionNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *SessionsService) missingOrConflict(ctx context.Context, id int) error {
	exists, err := s.repo.SessionExists(ctx, id)
	if err != nil {
		return fmt.Errorf("check session exists: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	log.Errorf("session [%d] update affected no rows while it still exists", id)
	return fmt.Errorf("session [%d]: %w", id, ErrWriteConflict)
}

func endBeforeStartError() validation.Errors {
	errs := validation.Errors{}
	errs.Add("endDateTime", msgEndBeforeStart)
	return errs
}
