package repo

import (
	"errors"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrSessionNotFound      = errors.New("training session not found")
	ErrExerciseNotFound     = errors.New("session exercise not found")
	ErrExerciseTypeNotFound = errors.New("exercise type not found")
)

// Repo is the postgres gateway for exercise types, training sessions and
// session exercises. Methods taking a userID only ever see that user's rows.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// ValidID reports whether id fits the SERIAL (int4) key columns. Ids outside
// that range can never name a row.
func ValidID(id int) bool {
	return id > 0 && id <= math.MaxInt32
}

// nullIfEmpty keeps optional text columns NULL instead of ''.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNullable(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
