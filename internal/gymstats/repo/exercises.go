package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/befit/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

const selectExerciseSQL = `
	SELECT
		se.id, se.exercise_type_id, se.training_session_id, se.weight::float8, se.sets, se.reps, se.notes,
		et.id, et.name, et.description,
		ts.id, ts.start_date_time, ts.end_date_time, ts.notes, ts.user_id
	FROM session_exercise se
		JOIN training_session ts ON ts.id = se.training_session_id
		LEFT JOIN exercise_type et ON et.id = se.exercise_type_id`

func scanExercise(row pgx.Row) (SessionExercise, error) {
	var (
		e            SessionExercise
		notes        *string
		typeID       *int
		typeName     *string
		typeDesc     *string
		session      TrainingSession
		sessionNotes *string
	)
	err := row.Scan(
		&e.ID, &e.ExerciseTypeID, &e.TrainingSessionID, &e.Weight, &e.Sets, &e.Reps, &notes,
		&typeID, &typeName, &typeDesc,
		&session.ID, &session.StartDateTime, &session.EndDateTime, &sessionNotes, &session.UserID,
	)
	if err != nil {
		return SessionExercise{}, err
	}

	e.Notes = fromNullable(notes)
	if typeID != nil {
		e.ExerciseType = &ExerciseType{
			ID:          *typeID,
			Name:        fromNullable(typeName),
			Description: fromNullable(typeDesc),
		}
	}
	session.Notes = fromNullable(sessionNotes)
	e.TrainingSession = &session

	return e, nil
}

func (r *Repo) queryExercises(ctx context.Context, sql string, args ...any) ([]SessionExercise, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("exercises [query]: %w", err)
	}
	defer rows.Close()

	exercises := []SessionExercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("exercises [rows scan]: %w", err)
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("exercises [rows error]: %w", err)
	}

	return exercises, nil
}

// ListExercises returns every exercise of the user's sessions, with type and
// session attached, newest session first.
func (r *Repo) ListExercises(ctx context.Context, userID string) (_ []SessionExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	return r.queryExercises(
		ctx,
		selectExerciseSQL+` WHERE ts.user_id = $1 ORDER BY ts.start_date_time DESC, se.id;`,
		userID,
	)
}

func (r *Repo) GetExercise(ctx context.Context, userID string, id int) (_ *SessionExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", id))

	e, err := scanExercise(r.db.QueryRow(
		ctx,
		selectExerciseSQL+` WHERE se.id = $1 AND ts.user_id = $2;`,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("exercise [query row]: %w", err)
	}

	return &e, nil
}

func (r *Repo) AddExercise(ctx context.Context, exercise SessionExercise) (_ *SessionExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercises.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO session_exercise (exercise_type_id, training_session_id, weight, sets, reps, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;`,
		exercise.ExerciseTypeID, exercise.TrainingSessionID, exercise.Weight,
		exercise.Sets, exercise.Reps, nullIfEmpty(exercise.Notes),
	).Scan(&exercise.ID)
	if err != nil {
		return nil, fmt.Errorf("add exercise: %w", err)
	}
	span.SetAttributes(attribute.Int("exercise.id", exercise.ID))

	return &exercise, nil
}

// UpdateExercise writes the exercise only while its current parent session
// belongs to userID.
func (r *Repo) UpdateExercise(ctx context.Context, userID string, exercise *SessionExercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercises.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", exercise.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE session_exercise se
			SET exercise_type_id = $1, training_session_id = $2, weight = $3, sets = $4, reps = $5, notes = $6
			WHERE se.id = $7 AND EXISTS (
				SELECT 1 FROM training_session ts WHERE ts.id = se.training_session_id AND ts.user_id = $8
			);`,
		exercise.ExerciseTypeID, exercise.TrainingSessionID, exercise.Weight,
		exercise.Sets, exercise.Reps, nullIfEmpty(exercise.Notes),
		exercise.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}

	return nil
}

// DeleteExercise removes the exercise and returns the id of its parent session.
func (r *Repo) DeleteExercise(ctx context.Context, userID string, id int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercises.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", id))

	var sessionID int
	err = r.db.QueryRow(
		ctx,
		`DELETE FROM session_exercise se
			USING training_session ts
			WHERE se.id = $1 AND ts.id = se.training_session_id AND ts.user_id = $2
		RETURNING se.training_session_id;`,
		id, userID,
	).Scan(&sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrExerciseNotFound
		}
		return 0, fmt.Errorf("delete exercise: %w", err)
	}

	return sessionID, nil
}

func (r *Repo) ExerciseExists(ctx context.Context, id int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercises.exists")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var exists bool
	if err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM session_exercise WHERE id = $1);`,
		id,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("exercise exists: %w", err)
	}

	return exists, nil
}

// UserOwnsExercise reports whether the exercise exists and its parent session
// belongs to userID.
func (r *Repo) UserOwnsExercise(ctx context.Context, userID string, exerciseID int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercises.user_owns")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", exerciseID))

	var owns bool
	if err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (
			SELECT 1 FROM session_exercise se
				JOIN training_session ts ON ts.id = se.training_session_id
			WHERE se.id = $1 AND ts.user_id = $2
		);`,
		exerciseID, userID,
	).Scan(&owns); err != nil {
		return false, fmt.Errorf("user owns exercise: %w", err)
	}

	return owns, nil
}
