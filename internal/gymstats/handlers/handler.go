package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/befit/internal/gymstats/ownership"
	"github.com/2beens/befit/internal/gymstats/repo"
	"github.com/2beens/befit/internal/gymstats/service"
	"github.com/2beens/befit/internal/gymstats/stats"
	"github.com/2beens/befit/internal/gymstats/validation"
	"github.com/2beens/befit/internal/identity"
	"github.com/2beens/befit/internal/middleware"
	"github.com/2beens/befit/internal/telemetry/metrics"
	"github.com/2beens/befit/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=handlers_test

type sessionsService interface {
	List(ctx context.Context, userID string) ([]repo.TrainingSession, error)
	Get(ctx context.Context, userID string, id int) (*repo.TrainingSession, error)
	Create(ctx context.Context, userID string, input service.SessionInput) (*repo.TrainingSession, error)
	Update(ctx context.Context, userID string, id int, input service.SessionInput) (*repo.TrainingSession, error)
	Delete(ctx context.Context, userID string, id int) error
}

type exercisesService interface {
	List(ctx context.Context, userID string) ([]repo.SessionExercise, error)
	Get(ctx context.Context, userID string, id int) (*repo.SessionExercise, error)
	Create(ctx context.Context, userID string, input service.ExerciseInput) (*repo.SessionExercise, error)
	Update(ctx context.Context, userID string, id int, input service.ExerciseInput) (*repo.SessionExercise, error)
	Delete(ctx context.Context, userID string, id int) (int, error)
	FormOptions(ctx context.Context, userID string) (*service.FormOptions, error)
}

type exerciseTypesService interface {
	List(ctx context.Context) ([]repo.ExerciseType, error)
	Get(ctx context.Context, id int) (*repo.ExerciseType, error)
	Create(ctx context.Context, input service.ExerciseTypeInput) (*repo.ExerciseType, error)
	Update(ctx context.Context, id int, input service.ExerciseTypeInput) (*repo.ExerciseType, error)
	Delete(ctx context.Context, id int) error
}

type statsAnalyzer interface {
	ComputeStats(ctx context.Context, userID string, now time.Time) (*stats.Stats, error)
}

type roleChecker interface {
	IsInRole(ctx context.Context, userID string, role string) (bool, error)
}

type ValidationErrorResponse struct {
	Errors validation.Errors `json:"errors"`
}

type DeleteResponse struct {
	DeletedID int `json:"deletedId"`
}

type DeleteExerciseResponse struct {
	DeletedID         int `json:"deletedId"`
	TrainingSessionID int `json:"trainingSessionId"`
}

type Handler struct {
	sessions       sessionsService
	exercises      exercisesService
	exerciseTypes  exerciseTypesService
	analyzer       statsAnalyzer
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewHandler(
	sessions sessionsService,
	exercises exercisesService,
	exerciseTypes exerciseTypesService,
	analyzer statsAnalyzer,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		sessions:       sessions,
		exercises:      exercises,
		exerciseTypes:  exerciseTypes,
		analyzer:       analyzer,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router, roles roleChecker) {
	sessionsRouter := mainRouter.PathPrefix("/sessions").Subrouter()
	sessionsRouter.HandleFunc("", handler.HandleListSessions).Methods("GET", "OPTIONS").Name("list-sessions")
	sessionsRouter.HandleFunc("/new", handler.HandleNewSessionDraft).Methods("GET", "OPTIONS").Name("new-session-draft")
	sessionsRouter.HandleFunc("", handler.HandleCreateSession).Methods("POST", "OPTIONS").Name("create-session")
	sessionsRouter.HandleFunc("/{id:[0-9]+}", handler.HandleGetSession).Methods("GET", "OPTIONS").Name("get-session")
	sessionsRouter.HandleFunc("/{id:[0-9]+}", handler.HandleUpdateSession).Methods("PUT", "OPTIONS").Name("update-session")
	sessionsRouter.HandleFunc("/{id:[0-9]+}", handler.HandleDeleteSession).Methods("DELETE", "OPTIONS").Name("delete-session")

	exercisesRouter := mainRouter.PathPrefix("/exercises").Subrouter()
	exercisesRouter.HandleFunc("", handler.HandleListExercises).Methods("GET", "OPTIONS").Name("list-exercises")
	exercisesRouter.HandleFunc("/options", handler.HandleExerciseFormOptions).Methods("GET", "OPTIONS").Name("exercise-form-options")
	exercisesRouter.HandleFunc("", handler.HandleCreateExercise).Methods("POST", "OPTIONS").Name("create-exercise")
	exercisesRouter.HandleFunc("/{id:[0-9]+}", handler.HandleGetExercise).Methods("GET", "OPTIONS").Name("get-exercise")
	exercisesRouter.HandleFunc("/{id:[0-9]+}", handler.HandleUpdateExercise).Methods("PUT", "OPTIONS").Name("update-exercise")
	exercisesRouter.HandleFunc("/{id:[0-9]+}", handler.HandleDeleteExercise).Methods("DELETE", "OPTIONS").Name("delete-exercise")

	adminOnly := middleware.RequireRole(roles, identity.RoleAdmin)
	typesRouter := mainRouter.PathPrefix("/exercise-types").Subrouter()
	typesRouter.HandleFunc("", handler.HandleListExerciseTypes).Methods("GET", "OPTIONS").Name("list-exercise-types")
	typesRouter.Handle("", adminOnly(http.HandlerFunc(handler.HandleCreateExerciseType))).Methods("POST", "OPTIONS").Name("create-exercise-type")
	typesRouter.HandleFunc("/{id:[0-9]+}", handler.HandleGetExerciseType).Methods("GET", "OPTIONS").Name("get-exercise-type")
	typesRouter.Handle("/{id:[0-9]+}", adminOnly(http.HandlerFunc(handler.HandleUpdateExerciseType))).Methods("PUT", "OPTIONS").Name("update-exercise-type")
	typesRouter.Handle("/{id:[0-9]+}", adminOnly(http.HandlerFunc(handler.HandleDeleteExerciseType))).Methods("DELETE", "OPTIONS").Name("delete-exercise-type")

	mainRouter.HandleFunc("/stats", handler.HandleStats).Methods("GET", "OPTIONS").Name("stats")
}

// callerID writes a 401 and returns false when no user is attached to the request.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := ownership.CurrentUserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		// the route only matches digits, so this is an id too large to parse
		if errors.Is(err, strconv.ErrRange) {
			http.Error(w, "not found", http.StatusNotFound)
			return 0, false
		}
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	if !repo.ValidID(id) {
		http.Error(w, "not found", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// writeServiceError maps service errors to status codes:
// not found (absent or not owned) 404, invalid input 400, an owner that no
// longer exists 401, the rest 500.
func writeServiceError(w http.ResponseWriter, err error, what string) {
	var vErrs validation.Errors
	switch {
	case errors.Is(err, ownership.ErrUnauthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, what+" not found", http.StatusNotFound)
	case errors.As(err, &vErrs):
		pkg.WriteJSON(w, ValidationErrorResponse{Errors: vErrs}, http.StatusBadRequest)
	case errors.Is(err, service.ErrWriteConflict):
		log.Errorf("%s write conflict: %s", what, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	default:
		log.Errorf("%s: %s", what, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
