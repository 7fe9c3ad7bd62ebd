package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Schema is applied in order; every statement is idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                  UUID PRIMARY KEY,
		email               VARCHAR(256) NOT NULL,
		normalized_email    VARCHAR(256) NOT NULL UNIQUE,
		password_hash       TEXT NOT NULL,
		access_failed_count INTEGER NOT NULL DEFAULT 0,
		lockout_end         TIMESTAMPTZ,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS roles (
		id   SERIAL PRIMARY KEY,
		name VARCHAR(256) NOT NULL UNIQUE
	);`,
	`CREATE TABLE IF NOT EXISTS user_roles (
		user_id UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		role_id INTEGER NOT NULL REFERENCES roles (id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, role_id)
	);`,
	`CREATE TABLE IF NOT EXISTS exercise_type (
		id          SERIAL PRIMARY KEY,
		name        VARCHAR(100) NOT NULL,
		description VARCHAR(500)
	);`,
	`CREATE TABLE IF NOT EXISTS training_session (
		id              SERIAL PRIMARY KEY,
		start_date_time TIMESTAMPTZ NOT NULL,
		end_date_time   TIMESTAMPTZ NOT NULL,
		notes           VARCHAR(200),
		user_id         UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		CONSTRAINT training_session_end_after_start CHECK (end_date_time > start_date_time)
	);`,
	`CREATE INDEX IF NOT EXISTS training_session_user_start_idx
		ON training_session (user_id, start_date_time DESC);`,
	`CREATE TABLE IF NOT EXISTS session_exercise (
		id                  SERIAL PRIMARY KEY,
		exercise_type_id    INTEGER NOT NULL REFERENCES exercise_type (id) ON DELETE CASCADE,
		training_session_id INTEGER NOT NULL REFERENCES training_session (id) ON DELETE CASCADE,
		weight              NUMERIC(10, 2) NOT NULL CHECK (weight >= 0 AND weight <= 1000),
		sets                INTEGER NOT NULL CHECK (sets BETWEEN 1 AND 100),
		reps                INTEGER NOT NULL CHECK (reps BETWEEN 1 AND 1000),
		notes               VARCHAR(200)
	);`,
	`CREATE INDEX IF NOT EXISTS session_exercise_session_idx
		ON session_exercise (training_session_id);`,
}

// ApplySchema creates all tables and indexes that do not exist yet.
func ApplySchema(ctx context.Context, db Execer) error {
	for i, stmt := range Schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	log.Debugf("db schema applied (%d statements)", len(Schema))
	return nil
}
