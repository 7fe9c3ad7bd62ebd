package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/befit/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

const selectExerciseTypeSQL = `SELECT id, name, description FROM exercise_type`

func scanExerciseType(row pgx.Row) (ExerciseType, error) {
	var (
		t    ExerciseType
		desc *string
	)
	if err := row.Scan(&t.ID, &t.Name, &desc); err != nil {
		return ExerciseType{}, err
	}
	t.Description = fromNullable(desc)
	return t, nil
}

func (r *Repo) ListExerciseTypes(ctx context.Context) (_ []ExerciseType, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercise_types.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, selectExerciseTypeSQL+` ORDER BY name, id;`)
	if err != nil {
		return nil, fmt.Errorf("exercise types [query]: %w", err)
	}
	defer rows.Close()

	types := []ExerciseType{}
	for rows.Next() {
		t, err := scanExerciseType(rows)
		if err != nil {
			return nil, fmt.Errorf("exercise types [rows scan]: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("exercise types [rows error]: %w", err)
	}

	return types, nil
}

func (r *Repo) GetExerciseType(ctx context.Context, id int) (_ *ExerciseType, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercise_types.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise_type.id", id))

	t, err := scanExerciseType(r.db.QueryRow(ctx, selectExerciseTypeSQL+` WHERE id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseTypeNotFound
		}
		return nil, fmt.Errorf("exercise type [query row]: %w", err)
	}

	return &t, nil
}

func (r *Repo) AddExerciseType(ctx context.Context, exerciseType ExerciseType) (_ *ExerciseType, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercise_types.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercise_type (name, description) VALUES ($1, $2) RETURNING id;`,
		exerciseType.Name, nullIfEmpty(exerciseType.Description),
	).Scan(&exerciseType.ID)
	if err != nil {
		return nil, fmt.Errorf("add exercise type: %w", err)
	}
	span.SetAttributes(attribute.Int("exercise_type.id", exerciseType.ID))

	return &exerciseType, nil
}

func (r *Repo) UpdateExerciseType(ctx context.Context, exerciseType *ExerciseType) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercise_types.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise_type.id", exerciseType.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE exercise_type SET name = $1, description = $2 WHERE id = $3;`,
		exerciseType.Name, nullIfEmpty(exerciseType.Description), exerciseType.ID,
	)
	if err != nil {
		return fmt.Errorf("update exercise type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseTypeNotFound
	}

	return nil
}

// DeleteExerciseType removes the type and, through the FK cascade, every
// session exercise of that type.
func (r *Repo) DeleteExerciseType(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercise_types.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise_type.id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise_type WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete exercise type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseTypeNotFound
	}

	return nil
}

func (r *Repo) ExerciseTypeExists(ctx context.Context, id int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercise_types.exists")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var exists bool
	if err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM exercise_type WHERE id = $1);`,
		id,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("exercise type exists: %w", err)
	}

	return exists, nil
}

// SeedExerciseTypes inserts the given types only when the table is empty.
// The table is locked for the duration of the transaction, so concurrent
// starts cannot both seed. Returns the number of inserted rows.
func (r *Repo) SeedExerciseTypes(ctx context.Context, types []ExerciseType) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercise_types.seed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `LOCK TABLE exercise_type IN SHARE ROW EXCLUSIVE MODE;`); err != nil {
		return 0, fmt.Errorf("lock exercise_type: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM exercise_type;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count exercise types: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, t := range types {
		batch.Queue(
			`INSERT INTO exercise_type (name, description) VALUES ($1, $2);`,
			t.Name, nullIfEmpty(t.Description),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("insert exercise types: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	span.SetAttributes(attribute.Int("inserted", len(types)))

	return len(types), nil
}
