package handlers

import (
	"net/http"

	"github.com/2beens/befit/internal/telemetry/tracing"
	"github.com/2beens/befit/pkg"

	log "github.com/sirupsen/logrus"
)

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.stats")
	defer span.End()

	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	stats, err := handler.analyzer.ComputeStats(ctx, userID, handler.now())
	if err != nil {
		log.Errorf("compute stats for [%s]: %s", userID, err)
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, stats, http.StatusOK)
}
