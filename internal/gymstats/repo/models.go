package repo

import "time"

type ExerciseType struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// TrainingSession is owned by exactly one user; Exercises is only
// populated by the eager-loading reads.
type TrainingSession struct {
	ID            int               `json:"id"`
	StartDateTime time.Time         `json:"startDateTime"`
	EndDateTime   time.Time         `json:"endDateTime"`
	Notes         string            `json:"notes,omitempty"`
	UserID        string            `json:"userId"`
	Exercises     []SessionExercise `json:"exercises,omitempty"`
}

type SessionExercise struct {
	ID                int     `json:"id"`
	ExerciseTypeID    int     `json:"exerciseTypeId"`
	TrainingSessionID int     `json:"trainingSessionId"`
	Weight            float64 `json:"weight"`
	Sets              int     `json:"sets"`
	Reps              int     `json:"reps"`
	Notes             string  `json:"notes,omitempty"`

	ExerciseType    *ExerciseType    `json:"exerciseType,omitempty"`
	TrainingSession *TrainingSession `json:"trainingSession,omitempty"`
}
