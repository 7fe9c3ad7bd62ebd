package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/befit/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

const selectSessionSQL = `SELECT id, start_date_time, end_date_time, notes, user_id FROM training_session`

func scanSession(row pgx.Row) (TrainingSession, error) {
	var (
		s     TrainingSession
		notes *string
	)
	if err := row.Scan(&s.ID, &s.StartDateTime, &s.EndDateTime, &notes, &s.UserID); err != nil {
		return TrainingSession{}, err
	}
	s.Notes = fromNullable(notes)
	return s, nil
}

func (r *Repo) querySessions(ctx context.Context, sql string, args ...any) ([]TrainingSession, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("sessions [query]: %w", err)
	}
	defer rows.Close()

	sessions := []TrainingSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("sessions [rows scan]: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sessions [rows error]: %w", err)
	}

	return sessions, nil
}

// ListSessions returns the user's sessions, newest start first.
func (r *Repo) ListSessions(ctx context.Context, userID string) (_ []TrainingSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	return r.querySessions(
		ctx,
		selectSessionSQL+` WHERE user_id = $1 ORDER BY start_date_time DESC, id DESC;`,
		userID,
	)
}

func (r *Repo) GetSession(ctx context.Context, userID string, id int) (_ *TrainingSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.sessions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", id))

	s, err := scanSession(r.db.QueryRow(
		ctx,
		selectSessionSQL+` WHERE id = $1 AND user_id = $2;`,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session [query row]: %w", err)
	}

	return &s, nil
}

// GetSessionWithExercises loads the session together with its exercises,
// each with the exercise type attached.
func (r *Repo) GetSessionWithExercises(ctx context.Context, userID string, id int) (_ *TrainingSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.sessions.get_with_exercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := r.GetSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	exercises, err := r.queryExercises(
		ctx,
		selectExerciseSQL+` WHERE se.training_session_id = $1 ORDER BY se.id;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	session.Exercises = exercises

	return session, nil
}

// ListSessionsWithExercisesSince returns the user's sessions that started at
// or after from, with exercises and their types attached.
func (r *Repo) ListSessionsWithExercisesSince(ctx context.Context, userID string, from time.Time) (_ []TrainingSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.sessions.list_with_exercises_since")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("from", from.Format(time.RFC3339)),
	)

	sessions, err := r.querySessions(
		ctx,
		selectSessionSQL+` WHERE user_id = $1 AND start_date_time >= $2 ORDER BY start_date_time DESC, id DESC;`,
		userID, from,
	)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return sessions, nil
	}

	ids := make([]int, 0, len(sessions))
	idx := make(map[int]int, len(sessions))
	for i, s := range sessions {
		ids = append(ids, s.ID)
		idx[s.ID] = i
	}

	exercises, err := r.queryExercises(
		ctx,
		selectExerciseSQL+` WHERE se.training_session_id = ANY($1) ORDER BY se.id;`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	for _, e := range exercises {
		i := idx[e.TrainingSessionID]
		// the session row is already attached by the join; drop it to avoid a cycle
		e.TrainingSession = nil
		sessions[i].Exercises = append(sessions[i].Exercises, e)
	}

	return sessions, nil
}

func (r *Repo) AddSession(ctx context.Context, session TrainingSession) (_ *TrainingSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.sessions.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO training_session (start_date_time, end_date_time, notes, user_id)
			VALUES ($1, $2, $3, $4)
		RETURNING id;`,
		session.StartDateTime, session.EndDateTime, nullIfEmpty(session.Notes), session.UserID,
	).Scan(&session.ID)
	if err != nil {
		return nil, fmt.Errorf("add session: %w", err)
	}
	span.SetAttributes(attribute.Int("session.id", session.ID))

	return &session, nil
}

// UpdateSession writes the session if it still belongs to session.UserID.
func (r *Repo) UpdateSession(ctx context.Context, session *TrainingSession) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.sessions.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", session.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE training_session SET start_date_time = $1, end_date_time = $2, notes = $3
			WHERE id = $4 AND user_id = $5;`,
		session.StartDateTime, session.EndDateTime, nullIfEmpty(session.Notes), session.ID, session.UserID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// DeleteSession removes the session; its exercises go with it (FK cascade).
func (r *Repo) DeleteSession(ctx context.Context, userID string, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.sessions.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM training_session WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *Repo) SessionExists(ctx context.Context, id int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.sessions.exists")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var exists bool
	if err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM training_session WHERE id = $1);`,
		id,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("session exists: %w", err)
	}

	return exists, nil
}

func (r *Repo) UserOwnsSession(ctx context.Context, userID string, sessionID int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.sessions.user_owns")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", sessionID))

	var owns bool
	if err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM training_session WHERE id = $1 AND user_id = $2);`,
		sessionID, userID,
	).Scan(&owns); err != nil {
		return false, fmt.Errorf("user owns session: %w", err)
	}

	return owns, nil
}
