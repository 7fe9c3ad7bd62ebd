package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/2beens/befit/internal/gymstats/service"
	"github.com/2beens/befit/internal/telemetry/tracing"
	"github.com/2beens/befit/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

func (handler *Handler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercises.list")
	defer span.End()

	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	exercises, err := handler.exercises.List(ctx, userID)
	if err != nil {
		writeServiceError(w, err, "exercises")
		return
	}
	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))

	pkg.WriteJSON(w, exercises, http.StatusOK)
}

func (handler *Handler) HandleExerciseFormOptions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercises.options")
	defer span.End()

	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	options, err := handler.exercises.FormOptions(ctx, userID)
	if err != nil {
		writeServiceError(w, err, "exercise form options")
		return
	}

	pkg.WriteJSON(w, options, http.StatusOK)
}

func (handler *Handler) HandleGetExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercises.get")
	defer span.End()

	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("exercise.id", id))

	exercise, err := handler.exercises.Get(ctx, userID, id)
	if err != nil {
		writeServiceError(w, err, "exercise")
		return
	}

	pkg.WriteJSON(w, exercise, http.StatusOK)
}

func (handler *Handler) HandleCreateExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercises.create")
	defer span.End()

	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var input service.ExerciseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Tracef("create exercise, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := handler.exercises.Create(ctx, userID, input)
	if err != nil {
		writeServiceError(w, err, "exercise")
		return
	}
	handler.metricsManager.CounterExercisesCreated.Inc()
	log.Debugf("exercise [%d] added to session [%d]", created.ID, created.TrainingSessionID)

	pkg.WriteJSON(w, created, http.StatusCreated)
}

func (handler *Handler) HandleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercises.update")
	defer span.End()

	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input service.ExerciseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Tracef("update exercise, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := handler.exercises.Update(ctx, userID, id, input)
	if err != nil {
		writeServiceError(w, err, "exercise")
		return
	}

	pkg.WriteJSON(w, updated, http.StatusOK)
}

func (handler *Handler) HandleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercises.delete")
	defer span.End()

	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sessionID, err := handler.exercises.Delete(ctx, userID, id)
	if err != nil {
		writeServiceError(w, err, "exercise")
		return
	}

	pkg.WriteJSON(w, DeleteExerciseResponse{DeletedID: id, TrainingSessionID: sessionID}, http.StatusOK)
}
