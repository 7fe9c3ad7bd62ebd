package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/befit/internal/gymstats/repo"
	"github.com/2beens/befit/internal/gymstats/validation"
)

type ExerciseTypeInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type ExerciseTypesService struct {
	repo exerciseTypesRepo
}

func NewExerciseTypesService(repo exerciseTypesRepo) *ExerciseTypesService {
	return &ExerciseTypesService{
		repo: repo,
	}
}

func (s *ExerciseTypesService) List(ctx context.Context) ([]repo.ExerciseType, error) {
	return s.repo.ListExerciseTypes(ctx)
}

func (s *ExerciseTypesService) Get(ctx context.Context, id int) (*repo.ExerciseType, error) {
	t, err := s.repo.GetExerciseType(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrExerciseTypeNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *ExerciseTypesService) Create(ctx context.Context, input ExerciseTypeInput) (*repo.ExerciseType, error) {
	input.Name = strings.TrimSpace(input.Name)
	if errs := validation.Struct(input); errs.HasErrors() {
		return nil, errs
	}

	created, err := s.repo.AddExerciseType(ctx, repo.ExerciseType{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("add exercise type: %w", err)
	}
	return created, nil
}

func (s *ExerciseTypesService) Update(ctx context.Context, id int, input ExerciseTypeInput) (*repo.ExerciseType, error) {
	input.Name = strings.TrimSpace(input.Name)
	if errs := validation.Struct(input); errs.HasErrors() {
		return nil, errs
	}

	t := &repo.ExerciseType{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.repo.UpdateExerciseType(ctx, t); err != nil {
		if errors.Is(err, repo.ErrExerciseTypeNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update exercise type: %w", err)
	}
	return t, nil
}

// Delete removes the type together with every session exercise using it.
func (s *ExerciseTypesService) Delete(ctx context.Context, id int) error {
	if err := s.repo.DeleteExerciseType(ctx, id); err != nil {
		if errors.Is(err, repo.ErrExerciseTypeNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
