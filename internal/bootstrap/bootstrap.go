package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/befit/internal/gymstats/repo"
	"github.com/2beens/befit/internal/identity"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=bootstrap_mocks_test.go -package=bootstrap_test

const DefaultAdminEmail = "admin@befit.local"

// DefaultExerciseTypes is inserted into an empty exercise_type table.
var DefaultExerciseTypes = []repo.ExerciseType{
	{Name: "Barbell Squat", Description: "Leg exercise with a barbell"},
	{Name: "Bench Press", Description: "Chest exercise"},
	{Name: "Deadlift", Description: "Full body exercise"},
	{Name: "Barbell Row", Description: "Back exercise"},
	{Name: "Overhead Press", Description: "Shoulder exercise"},
	{Name: "Pull-up", Description: "Bodyweight back exercise"},
	{Name: "Push-up", Description: "Bodyweight chest exercise"},
	{Name: "Crunches", Description: "Abdominal exercise"},
	{Name: "Lunges", Description: "Leg exercise"},
	{Name: "Barbell Curl", Description: "Biceps exercise"},
}

type accountEnsurer interface {
	EnsureRole(ctx context.Context, name string) (int, error)
	EnsureAccount(ctx context.Context, email, password, role string) (*identity.User, bool, error)
}

type exerciseTypeSeeder interface {
	SeedExerciseTypes(ctx context.Context, types []repo.ExerciseType) (int, error)
}

type Params struct {
	AdminEmail    string
	AdminPassword string
}

// Run makes sure the admin role and account exist and seeds exercise types.
// Every step is safe to repeat on each start.
func Run(ctx context.Context, accounts accountEnsurer, seeder exerciseTypeSeeder, params Params) error {
	if err := EnsureAdmin(ctx, accounts, params.AdminEmail, params.AdminPassword); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	inserted, err := SeedExerciseTypes(ctx, seeder)
	if err != nil {
		return fmt.Errorf("seed exercise types: %w", err)
	}
	if inserted > 0 {
		log.Printf("seeded %d exercise types", inserted)
	} else {
		log.Debugln("exercise types already present, seed skipped")
	}

	return nil
}

func EnsureAdmin(ctx context.Context, accounts accountEnsurer, email, password string) error {
	if email == "" {
		email = DefaultAdminEmail
	}
	if password == "" {
		return errors.New("admin password not set")
	}

	if _, err := accounts.EnsureRole(ctx, identity.RoleAdmin); err != nil {
		return fmt.Errorf("role %s: %w", identity.RoleAdmin, err)
	}

	admin, created, err := accounts.EnsureAccount(ctx, email, password, identity.RoleAdmin)
	if err != nil {
		return fmt.Errorf("account %s: %w", email, err)
	}
	if created {
		log.Printf("admin account [%s] created: %s", admin.ID, email)
	}

	return nil
}

func SeedExerciseTypes(ctx context.Context, seeder exerciseTypeSeeder) (int, error) {
	return seeder.SeedExerciseTypes(ctx, DefaultExerciseTypes)
}
