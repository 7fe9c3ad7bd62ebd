package stats

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/2beens/befit/internal/gymstats/repo"
	"github.com/2beens/befit/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=analyzer_mocks_test.go -package=stats_test

const (
	// Window is measured in elapsed time, not calendar days.
	Window = 28 * 24 * time.Hour

	UnknownExerciseType = "Unknown"
)

type sessionsRepo interface {
	ListSessionsWithExercisesSince(ctx context.Context, userID string, from time.Time) ([]repo.TrainingSession, error)
}

// ExerciseStats aggregates all sets of one exercise type inside the window.
type ExerciseStats struct {
	ExerciseType   string  `json:"exerciseType"`
	TimesPerformed int     `json:"timesPerformed"`
	TotalReps      int     `json:"totalReps"`
	AverageWeight  float64 `json:"averageWeight"`
	MaxWeight      float64 `json:"maxWeight"`
}

type Stats struct {
	Exercises      []ExerciseStats `json:"exercises"`
	TotalSessions  int             `json:"totalSessions"`
	TotalExercises int             `json:"totalExercises"`
	FromDate       time.Time       `json:"fromDate"`
	ToDate         time.Time       `json:"toDate"`
}

type Analyzer struct {
	repo sessionsRepo
}

func NewAnalyzer(repo sessionsRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// ComputeStats summarizes the user's sessions that started within the last
// 28 days before now.
func (a *Analyzer) ComputeStats(ctx context.Context, userID string, now time.Time) (_ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.gymstats.compute_stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	from := now.Add(-Window)
	sessions, err := a.repo.ListSessionsWithExercisesSince(ctx, userID, from)
	if err != nil {
		return nil, err
	}

	stats := Aggregate(sessions, from, now)
	span.SetAttributes(
		attribute.Int("sessions", stats.TotalSessions),
		attribute.Int("exercises", stats.TotalExercises),
	)

	return stats, nil
}

type group struct {
	count         int
	totalReps     int
	sumHundredths int64
	maxWeight     float64
}

// Aggregate groups the exercises of the sessions starting at or after from
// by exercise type name. Groups are ordered by how often they were performed,
// then by name.
func Aggregate(sessions []repo.TrainingSession, from, to time.Time) *Stats {
	stats := &Stats{
		Exercises: []ExerciseStats{},
		FromDate:  from,
		ToDate:    to,
	}

	groups := map[string]*group{}
	for _, session := range sessions {
		if session.StartDateTime.Before(from) {
			continue
		}
		stats.TotalSessions++

		for _, e := range session.Exercises {
			stats.TotalExercises++

			name := UnknownExerciseType
			if e.ExerciseType != nil && e.ExerciseType.Name != "" {
				name = e.ExerciseType.Name
			}

			g, ok := groups[name]
			if !ok {
				g = &group{}
				groups[name] = g
			}
			g.count++
			g.totalReps += e.Sets * e.Reps
			g.sumHundredths += toHundredths(e.Weight)
			if g.count == 1 || e.Weight > g.maxWeight {
				g.maxWeight = e.Weight
			}
		}
	}

	for name, g := range groups {
		stats.Exercises = append(stats.Exercises, ExerciseStats{
			ExerciseType:   name,
			TimesPerformed: g.count,
			TotalReps:      g.totalReps,
			AverageWeight:  float64(divRoundHalfEven(g.sumHundredths, int64(g.count))) / 100,
			MaxWeight:      g.maxWeight,
		})
	}
	sort.SliceStable(stats.Exercises, func(i, j int) bool {
		a, b := stats.Exercises[i], stats.Exercises[j]
		if a.TimesPerformed != b.TimesPerformed {
			return a.TimesPerformed > b.TimesPerformed
		}
		return a.ExerciseType < b.ExerciseType
	})

	return stats
}

func toHundredths(w float64) int64 {
	return int64(math.Round(w * 100))
}

// divRoundHalfEven divides non-negative n by d, rounding ties to the even quotient.
func divRoundHalfEven(n, d int64) int64 {
	q, r := n/d, n%d
	switch {
	case 2*r > d:
		q++
	case 2*r == d && q%2 == 1:
		q++
	}
	return q
}
