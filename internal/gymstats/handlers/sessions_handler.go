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

func (handler *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.sessions.list")
	defer span.End()

	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	sessions, err := handler.sessions.List(ctx, userID)
	if err != nil {
		writeServiceError(w, err, "sessions")
		return
	}
	span.SetAttributes(attribute.Int("sessions.count", len(sessions)))

	pkg.WriteJSON(w, sessions, http.StatusOK)
}

func (handler *Handler) HandleNewSessionDraft(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerID(w, r); !ok {
		return
	}
	pkg.WriteJSON(w, service.NewDraft(handler.now()), http.StatusOK)
}

func (handler *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.sessions.get")
	defer span.End()

	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("session.id", id))

	session, err := handler.sessions.Get(ctx, userID, id)
	if err != nil {
		writeServiceError(w, err, "session")
		return
	}

	pkg.WriteJSON(w, session, http.StatusOK)
}

func (handler *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.sessions.create")
	defer span.End()

	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var input service.SessionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Tracef("create session, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := handler.sessions.Create(ctx, userID, input)
	if err != nil {
		writeServiceError(w, err, "session")
		return
	}
	handler.metricsManager.CounterSessionsCreated.Inc()
	log.Debugf("training session [%d] created by [%s]", created.ID, userID)

	pkg.WriteJSON(w, created, http.StatusCreated)
}

func (handler *Handler) HandleUpdateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.sessions.update")
	defer span.End()

	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input service.SessionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Tracef("update session, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := handler.sessions.Update(ctx, userID, id, input)
	if err != nil {
		writeServiceError(w, err, "session")
		return
	}

	pkg.WriteJSON(w, updated, http.StatusOK)
}

func (handler *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.sessions.delete")
	defer span.End()

	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := handler.sessions.Delete(ctx, userID, id); err != nil {
		writeServiceError(w, err, "session")
		return
	}
	log.Debugf("training session [%d] deleted by [%s]", id, userID)

	pkg.WriteJSON(w, DeleteResponse{DeletedID: id}, http.StatusOK)
}
