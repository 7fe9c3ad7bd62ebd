package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/befit/internal/telemetry/tracing"
	"github.com/2beens/befit/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// Store keeps users, roles and role memberships in postgres.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) CreateUser(ctx context.Context, user *User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.identity.createUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", user.ID))

	_, err = s.db.Exec(
		ctx,
		`INSERT INTO users (id, email, normalized_email, password_hash, access_failed_count, lockout_end, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		user.ID, user.Email, NormalizeEmail(user.Email), user.PasswordHash,
		user.AccessFailedCount, user.LockoutEnd, user.CreatedAt,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrEmailTaken
		}
		return err
	}

	return nil
}

const selectUserSQL = `SELECT id, email, password_hash, access_failed_count, lockout_end, created_at FROM users`

func (s *Store) FindByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.identity.findByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.findOne(ctx, selectUserSQL+` WHERE normalized_email = $1;`, NormalizeEmail(email))
}

func (s *Store) FindByID(ctx context.Context, id string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.identity.findByID")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id))

	return s.findOne(ctx, selectUserSQL+` WHERE id = $1;`, id)
}

func (s *Store) findOne(ctx context.Context, sql string, arg any) (*User, error) {
	var u User
	err := s.db.QueryRow(ctx, sql, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.AccessFailedCount, &u.LockoutEnd, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *Store) UpdateAccessFailed(ctx context.Context, userID string, failedCount int, lockoutEnd *time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.identity.updateAccessFailed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))
	span.SetAttributes(attribute.Int("failed.count", failedCount))

	tag, err := s.db.Exec(
		ctx,
		`UPDATE users SET access_failed_count = $1, lockout_end = $2 WHERE id = $3;`,
		failedCount, lockoutEnd, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the user; sessions, exercises and role memberships go with it.
func (s *Store) DeleteUser(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.identity.deleteUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1;`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// EnsureRole returns the id of the role, creating it first if needed.
func (s *Store) EnsureRole(ctx context.Context, name string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.identity.ensureRole")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("role", name))

	var id int
	err = s.db.QueryRow(
		ctx,
		`INSERT INTO roles (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id;`,
		name,
	).Scan(&id)
	if err != nil {
		return -1, err
	}
	return id, nil
}

func (s *Store) AddToRole(ctx context.Context, userID string, roleID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.identity.addToRole")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = s.db.Exec(
		ctx,
		`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING;`,
		userID, roleID,
	)
	return err
}

func (s *Store) IsInRole(ctx context.Context, userID string, role string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.identity.isInRole")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var inRole bool
	err = s.db.QueryRow(
		ctx,
		`SELECT EXISTS (
			SELECT 1 FROM user_roles ur
				JOIN roles r ON r.id = ur.role_id
			WHERE ur.user_id = $1 AND r.name = $2
		);`,
		userID, role,
	).Scan(&inRole)
	if err != nil {
		return false, err
	}
	return inRole, nil
}

func (s *Store) Roles(ctx context.Context, userID string) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.identity.roles")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := s.db.Query(
		ctx,
		`SELECT r.name FROM user_roles ur
			JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY r.name;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		roles = append(roles, name)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return roles, nil
}
