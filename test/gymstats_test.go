//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/befit/internal/gymstats/handlers"
	"github.com/2beens/befit/internal/gymstats/repo"
	"github.com/2beens/befit/internal/gymstats/service"
	"github.com/2beens/befit/internal/gymstats/stats"
	"github.com/2beens/befit/internal/identity"
	"github.com/2beens/befit/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) createSession(ctx context.Context, token string, start time.Time, duration time.Duration) repo.TrainingSession {
	end := start.Add(duration)
	resp := s.doRequest(ctx, http.MethodPost, "/sessions", token, service.SessionInput{
		StartDateTime: &start,
		EndDateTime:   &end,
		Notes:         "integration",
	})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	var created repo.TrainingSession
	s.decode(resp, &created)
	require.NotZero(s.T(), created.ID)
	return created
}

func (s *IntegrationTestSuite) createExercise(ctx context.Context, token string, input service.ExerciseInput) repo.SessionExercise {
	resp := s.doRequest(ctx, http.MethodPost, "/exercises", token, input)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	var created repo.SessionExercise
	s.decode(resp, &created)
	require.NotZero(s.T(), created.ID)
	return created
}

func (s *IntegrationTestSuite) TestSessions_CRUD() {
	t := s.T()
	ctx := context.Background()
	user := s.registerUser(ctx)

	start := time.Now().Add(-2 * time.Hour).Truncate(time.Minute)
	created := s.createSession(ctx, user.Token, start, time.Hour)
	assert.Equal(t, user.ID, created.UserID)

	resp := s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/sessions/%d", created.ID), user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got repo.TrainingSession
	s.decode(resp, &got)
	assert.True(t, start.Equal(got.StartDateTime))
	assert.Empty(t, got.Exercises)

	// end before start
	badEnd := start.Add(-time.Minute)
	resp = s.doRequest(ctx, http.MethodPut, fmt.Sprintf("/sessions/%d", created.ID), user.Token, service.SessionInput{
		StartDateTime: &start,
		EndDateTime:   &badEnd,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var vErr handlers.ValidationErrorResponse
	s.decode(resp, &vErr)
	assert.Contains(t, vErr.Errors, "endDateTime")

	newEnd := start.Add(90 * time.Minute)
	resp = s.doRequest(ctx, http.MethodPut, fmt.Sprintf("/sessions/%d", created.ID), user.Token, service.SessionInput{
		StartDateTime: &start,
		EndDateTime:   &newEnd,
		Notes:         "longer",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doRequest(ctx, http.MethodGet, "/sessions", user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sessions []repo.TrainingSession
	s.decode(resp, &sessions)
	require.Len(t, sessions, 1)
	assert.Equal(t, "longer", sessions[0].Notes)
	assert.True(t, newEnd.Equal(sessions[0].EndDateTime))

	resp = s.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/sessions/%d", created.ID), user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var delResp handlers.DeleteResponse
	s.decode(resp, &delResp)
	assert.Equal(t, created.ID, delResp.DeletedID)

	resp = s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/sessions/%d", created.ID), user.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *IntegrationTestSuite) TestSessions_OtherUserGetsNotFound() {
	t := s.T()
	ctx := context.Background()
	owner := s.registerUser(ctx)
	intruder := s.registerUser(ctx)

	start := time.Now().Add(-time.Hour)
	session := s.createSession(ctx, owner.Token, start, 30*time.Minute)

	end := start.Add(time.Hour)
	for _, req := range []struct {
		method string
		body   any
	}{
		{method: http.MethodGet},
		{method: http.MethodPut, body: service.SessionInput{StartDateTime: &start, EndDateTime: &end}},
		{method: http.MethodDelete},
	} {
		resp := s.doRequest(ctx, req.method, fmt.Sprintf("/sessions/%d", session.ID), intruder.Token, req.body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, req.method)
		resp.Body.Close()
	}

	resp := s.doRequest(ctx, http.MethodGet, "/sessions", intruder.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sessions []repo.TrainingSession
	s.decode(resp, &sessions)
	assert.Empty(t, sessions)

	// still there for the owner
	resp = s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/sessions/%d", session.ID), owner.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (s *IntegrationTestSuite) TestExercises_OwnershipAndCascade() {
	t := s.T()
	ctx := context.Background()
	owner := s.registerUser(ctx)
	intruder := s.registerUser(ctx)
	types := s.listExerciseTypes(ctx, owner.Token)
	require.NotEmpty(t, types)

	start := time.Now().Add(-3 * time.Hour)
	session := s.createSession(ctx, owner.Token, start, time.Hour)
	intruderSession := s.createSession(ctx, intruder.Token, start, time.Hour)

	input := service.ExerciseInput{
		ExerciseTypeID:    types[0].ID,
		TrainingSessionID: session.ID,
		Weight:            60,
		Sets:              3,
		Reps:              10,
	}

	// cannot add into someone else's session
	resp := s.doRequest(ctx, http.MethodPost, "/exercises", intruder.Token, input)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	exercise := s.createExercise(ctx, owner.Token, input)

	resp = s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/exercises/%d", exercise.ID), owner.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got repo.SessionExercise
	s.decode(resp, &got)
	require.NotNil(t, got.ExerciseType)
	assert.Equal(t, types[0].Name, got.ExerciseType.Name)

	resp = s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/exercises/%d", exercise.ID), intruder.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// moving it into a foreign session is rejected
	moved := input
	moved.TrainingSessionID = intruderSession.ID
	resp = s.doRequest(ctx, http.MethodPut, fmt.Sprintf("/exercises/%d", exercise.ID), owner.Token, moved)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// invalid values
	invalid := input
	invalid.Sets = 0
	invalid.Weight = 1001
	resp = s.doRequest(ctx, http.MethodPut, fmt.Sprintf("/exercises/%d", exercise.ID), owner.Token, invalid)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var vErr handlers.ValidationErrorResponse
	s.decode(resp, &vErr)
	assert.Contains(t, vErr.Errors, "sets")
	assert.Contains(t, vErr.Errors, "weight")

	// unknown exercise type
	unknownType := input
	unknownType.ExerciseTypeID = 999999
	resp = s.doRequest(ctx, http.MethodPost, "/exercises", owner.Token, unknownType)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	s.decode(resp, &vErr)
	assert.Contains(t, vErr.Errors, "exerciseTypeId")

	updated := input
	updated.Reps = 12
	resp = s.doRequest(ctx, http.MethodPut, fmt.Sprintf("/exercises/%d", exercise.ID), owner.Token, updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/sessions/%d", session.ID), owner.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var withExercises repo.TrainingSession
	s.decode(resp, &withExercises)
	require.Len(t, withExercises.Exercises, 1)
	assert.Equal(t, 12, withExercises.Exercises[0].Reps)

	resp = s.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/exercises/%d", exercise.ID), intruder.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// deleting the session takes its exercises with it
	second := s.createExercise(ctx, owner.Token, input)
	resp = s.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/sessions/%d", session.ID), owner.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.Zero(t, s.countRows(`SELECT count(*) FROM session_exercise WHERE training_session_id = $1`, session.ID))
	for _, id := range []int{exercise.ID, second.ID} {
		resp = s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/exercises/%d", id), owner.Token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	}
}

func (s *IntegrationTestSuite) TestUserDelete_CascadesSessionsAndExercises() {
	t := s.T()
	ctx := context.Background()
	user := s.registerUser(ctx)
	other := s.registerUser(ctx)
	types := s.listExerciseTypes(ctx, user.Token)
	require.NotEmpty(t, types)

	start := time.Now().Add(-5 * time.Hour)
	first := s.createSession(ctx, user.Token, start, time.Hour)
	second := s.createSession(ctx, user.Token, start.Add(2*time.Hour), time.Hour)
	otherSession := s.createSession(ctx, other.Token, start, time.Hour)
	for _, target := range []struct {
		token     string
		sessionID int
	}{
		{user.Token, first.ID},
		{user.Token, second.ID},
		{other.Token, otherSession.ID},
	} {
		s.createExercise(ctx, target.token, service.ExerciseInput{
			ExerciseTypeID:    types[0].ID,
			TrainingSessionID: target.sessionID,
			Weight:            40,
			Sets:              3,
			Reps:              8,
		})
	}
	require.Equal(t, 2, s.countRows(`SELECT count(*) FROM training_session WHERE user_id = $1`, user.ID))

	manager := identity.NewManager(identity.NewStore(s.dbPool), pkg.DefaultPasswordHashCost)
	require.NoError(t, manager.DeleteUser(ctx, user.ID))

	assert.Zero(t, s.countRows(`SELECT count(*) FROM users WHERE id = $1`, user.ID))
	assert.Zero(t, s.countRows(`SELECT count(*) FROM training_session WHERE user_id = $1`, user.ID))
	for _, sessionID := range []int{first.ID, second.ID} {
		assert.Zero(t, s.countRows(`SELECT count(*) FROM session_exercise WHERE training_session_id = $1`, sessionID))
	}

	// other users keep their data
	assert.Equal(t, 1, s.countRows(`SELECT count(*) FROM training_session WHERE user_id = $1`, other.ID))
	assert.Equal(t, 1, s.countRows(`SELECT count(*) FROM session_exercise WHERE training_session_id = $1`, otherSession.ID))

	// the token outlives the user row in redis; creating a session with it is unauthorized
	end := start.Add(time.Hour)
	resp := s.doRequest(ctx, http.MethodPost, "/sessions", user.Token, service.SessionInput{
		StartDateTime: &start,
		EndDateTime:   &end,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func (s *IntegrationTestSuite) TestIDsOutsideKeyRangeAreNotFound() {
	t := s.T()
	ctx := context.Background()
	user := s.registerUser(ctx)
	types := s.listExerciseTypes(ctx, user.Token)
	require.NotEmpty(t, types)

	for _, path := range []string{"/sessions/3000000000", "/sessions/99999999999999999999", "/exercises/3000000000"} {
		resp := s.doRequest(ctx, http.MethodGet, path, user.Token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		resp.Body.Close()
	}

	resp := s.doRequest(ctx, http.MethodPost, "/exercises", user.Token, service.ExerciseInput{
		ExerciseTypeID:    types[0].ID,
		TrainingSessionID: 3000000000,
		Weight:            40,
		Sets:              3,
		Reps:              8,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *IntegrationTestSuite) TestExercises_FormOptionsAndDelete() {
	t := s.T()
	ctx := context.Background()
	user := s.registerUser(ctx)
	types := s.listExerciseTypes(ctx, user.Token)
	require.NotEmpty(t, types)

	session := s.createSession(ctx, user.Token, time.Now().Add(-time.Hour), 45*time.Minute)

	resp := s.doRequest(ctx, http.MethodGet, "/exercises/options", user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var options service.FormOptions
	s.decode(resp, &options)
	assert.Len(t, options.ExerciseTypes, len(types))
	require.Len(t, options.Sessions, 1)
	assert.Equal(t, session.ID, options.Sessions[0].ID)
	assert.NotEmpty(t, options.Sessions[0].Label)

	exercise := s.createExercise(ctx, user.Token, service.ExerciseInput{
		ExerciseTypeID:    types[0].ID,
		TrainingSessionID: session.ID,
		Weight:            20.5,
		Sets:              2,
		Reps:              15,
	})

	resp = s.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/exercises/%d", exercise.ID), user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var delResp handlers.DeleteExerciseResponse
	s.decode(resp, &delResp)
	assert.Equal(t, exercise.ID, delResp.DeletedID)
	assert.Equal(t, session.ID, delResp.TrainingSessionID)
}

func (s *IntegrationTestSuite) TestStats_LastFourWeeks() {
	t := s.T()
	ctx := context.Background()
	user := s.registerUser(ctx)
	other := s.registerUser(ctx)
	types := s.listExerciseTypes(ctx, user.Token)
	require.NotEmpty(t, types)
	squat := types[0]

	now := time.Now()
	recent := s.createSession(ctx, user.Token, now.Add(-48*time.Hour), time.Hour)
	older := s.createSession(ctx, user.Token, now.Add(-10*24*time.Hour), time.Hour)
	outside := s.createSession(ctx, user.Token, now.Add(-30*24*time.Hour), time.Hour)
	othersSession := s.createSession(ctx, other.Token, now.Add(-24*time.Hour), time.Hour)

	for _, e := range []struct {
		token     string
		sessionID int
		weight    float64
		reps      int
	}{
		{user.Token, recent.ID, 80, 10},
		{user.Token, older.ID, 90, 8},
		{user.Token, outside.ID, 200, 1},
		{other.Token, othersSession.ID, 300, 1},
	} {
		s.createExercise(ctx, e.token, service.ExerciseInput{
			ExerciseTypeID:    squat.ID,
			TrainingSessionID: e.sessionID,
			Weight:            e.weight,
			Sets:              3,
			Reps:              e.reps,
		})
	}

	resp := s.doRequest(ctx, http.MethodGet, "/stats", user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st stats.Stats
	s.decode(resp, &st)

	assert.Equal(t, 2, st.TotalSessions)
	assert.Equal(t, 2, st.TotalExercises)
	require.Len(t, st.Exercises, 1)
	assert.Equal(t, squat.Name, st.Exercises[0].ExerciseType)
	assert.Equal(t, 2, st.Exercises[0].TimesPerformed)
	assert.Equal(t, 18, st.Exercises[0].TotalReps)
	assert.Equal(t, 85.0, st.Exercises[0].AverageWeight)
	assert.Equal(t, 90.0, st.Exercises[0].MaxWeight)
	assert.InDelta(t, stats.Window.Hours(), st.ToDate.Sub(st.FromDate).Hours(), 0.01)
}
