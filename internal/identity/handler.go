package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/befit/internal/auth"
	"github.com/2beens/befit/internal/middleware"
	"github.com/2beens/befit/internal/telemetry/metrics"
	"github.com/2beens/befit/internal/telemetry/tracing"
	"github.com/2beens/befit/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=identity_test

type accountManager interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	PasswordSignIn(ctx context.Context, email string, password string) (*User, SignInResult, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Roles(ctx context.Context, userID string) ([]string, error)
}

type loginSessions interface {
	Login(ctx context.Context, userID string, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

const (
	msgInvalidCredentials = "Invalid email or password."
	msgLockedOut          = "Account temporarily locked. Try again later."
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type MeResponse struct {
	*User
	Roles []string `json:"roles"`
}

type ErrorsResponse struct {
	Errors []string `json:"errors"`
}

type Handler struct {
	manager        accountManager
	sessions       loginSessions
	metricsManager *metrics.Manager
}

func NewHandler(manager accountManager, sessions loginSessions, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		manager:        manager,
		sessions:       sessions,
		metricsManager: metricsManager,
	}
}

func (h *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	rateLimited := func(name string, hf http.HandlerFunc) http.Handler {
		return middleware.RateLimit(rateLimiter, name, allowedPerMin, h.metricsManager)(hf)
	}

	accountRouter := mainRouter.PathPrefix("/account").Subrouter()
	accountRouter.Handle("/register", rateLimited("register", h.HandleRegister)).Methods("POST", "OPTIONS").Name("register")
	accountRouter.Handle("/login", rateLimited("login", h.HandleLogin)).Methods("POST", "OPTIONS").Name("login")
	accountRouter.HandleFunc("/logout", h.HandleLogout).Methods("POST", "OPTIONS").Name("logout")
	accountRouter.HandleFunc("/me", h.HandleMe).Methods("GET", "OPTIONS").Name("me")
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.account.register")
	defer span.End()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("register, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.manager.Register(ctx, req)
	if err != nil {
		var regErr *RegistrationError
		if errors.As(err, &regErr) {
			pkg.WriteJSON(w, ErrorsResponse{Errors: regErr.Messages()}, http.StatusBadRequest)
			return
		}
		log.Errorf("register user: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	token, err := h.sessions.Login(ctx, user.ID, time.Now())
	if err != nil {
		log.Errorf("register, login new user [%s]: %s", user.ID, err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, TokenResponse{Token: token, User: user}, http.StatusCreated)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.account.login")
	defer span.End()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("login, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		pkg.WriteJSON(w, ErrorsResponse{Errors: []string{msgInvalidCredentials}}, http.StatusBadRequest)
		return
	}

	user, result, err := h.manager.PasswordSignIn(ctx, req.Email, req.Password)
	if err != nil {
		log.Errorf("login: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	span.SetAttributes(attribute.String("result", result.String()))

	switch result {
	case SignInSucceeded:
	case SignInLockedOut:
		h.metricsManager.CounterFailedLogins.Inc()
		log.Warnf("login attempt for a locked out account [%s]", req.Email)
		pkg.WriteJSON(w, ErrorsResponse{Errors: []string{msgLockedOut}}, http.StatusLocked)
		return
	default:
		h.metricsManager.CounterFailedLogins.Inc()
		log.Tracef("failed login attempt for [%s]", req.Email)
		pkg.WriteJSON(w, ErrorsResponse{Errors: []string{msgInvalidCredentials}}, http.StatusUnauthorized)
		return
	}

	token, err := h.sessions.Login(ctx, user.ID, time.Now())
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, TokenResponse{Token: token, User: user}, http.StatusOK)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.account.logout")
	defer span.End()

	token := r.Header.Get(auth.TokenHeader)
	if token == "" {
		http.Error(w, "no token", http.StatusBadRequest)
		return
	}

	loggedOut, err := h.sessions.Logout(ctx, token)
	if err != nil {
		log.Errorf("logout: %s", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}
	if !loggedOut {
		log.Tracef("logout for an unknown session")
	}

	pkg.WriteJSONResponseOK(w, `{"loggedOut":true}`)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.account.me")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.manager.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		log.Errorf("me, find user [%s]: %s", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	roles, err := h.manager.Roles(ctx, userID)
	if err != nil {
		log.Errorf("me, get roles [%s]: %s", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, MeResponse{User: user, Roles: roles}, http.StatusOK)
}
