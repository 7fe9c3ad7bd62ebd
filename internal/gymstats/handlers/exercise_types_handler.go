package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/2beens/befit/internal/gymstats/service"
	"github.com/2beens/befit/internal/telemetry/tracing"
	"github.com/2beens/befit/pkg"

	log "github.com/sirupsen/logrus"
)

func (handler *Handler) HandleListExerciseTypes(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercise_types.list")
	defer span.End()

	types, err := handler.exerciseTypes.List(ctx)
	if err != nil {
		writeServiceError(w, err, "exercise types")
		return
	}

	pkg.WriteJSON(w, types, http.StatusOK)
}

func (handler *Handler) HandleGetExerciseType(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercise_types.get")
	defer span.End()

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	t, err := handler.exerciseTypes.Get(ctx, id)
	if err != nil {
		writeServiceError(w, err, "exercise type")
		return
	}

	pkg.WriteJSON(w, t, http.StatusOK)
}

func (handler *Handler) HandleCreateExerciseType(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercise_types.create")
	defer span.End()

	var input service.ExerciseTypeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Tracef("create exercise type, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := handler.exerciseTypes.Create(ctx, input)
	if err != nil {
		writeServiceError(w, err, "exercise type")
		return
	}
	log.Printf("exercise type [%d] %s created", created.ID, created.Name)

	pkg.WriteJSON(w, created, http.StatusCreated)
}

func (handler *Handler) HandleUpdateExerciseType(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercise_types.update")
	defer span.End()

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input service.ExerciseTypeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Tracef("update exercise type, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := handler.exerciseTypes.Update(ctx, id, input)
	if err != nil {
		writeServiceError(w, err, "exercise type")
		return
	}

	pkg.WriteJSON(w, updated, http.StatusOK)
}

func (handler *Handler) HandleDeleteExerciseType(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercise_types.delete")
	defer span.End()

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := handler.exerciseTypes.Delete(ctx, id); err != nil {
		writeServiceError(w, err, "exercise type")
		return
	}
	log.Printf("exercise type [%d] deleted", id)

	pkg.WriteJSON(w, DeleteResponse{DeletedID: id}, http.StatusOK)
}
