package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/2beens/befit/internal/telemetry/tracing"
	"github.com/2beens/befit/pkg"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=manager_mocks_test.go -package=identity_test

type userStore interface {
	CreateUser(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	UpdateAccessFailed(ctx context.Context, userID string, failedCount int, lockoutEnd *time.Time) error
	DeleteUser(ctx context.Context, userID string) error
	EnsureRole(ctx context.Context, name string) (int, error)
	AddToRole(ctx context.Context, userID string, roleID int) error
	IsInRole(ctx context.Context, userID string, role string) (bool, error)
	Roles(ctx context.Context, userID string) ([]string, error)
}

type SignInResult int

const (
	SignInFailed SignInResult = iota
	SignInSucceeded
	SignInLockedOut
)

func (r SignInResult) String() string {
	switch r {
	case SignInSucceeded:
		return "succeeded"
	case SignInLockedOut:
		return "locked-out"
	default:
		return "failed"
	}
}

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=256"`
	Password        string `json:"password" validate:"required,min=6,max=100"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

type Manager struct {
	store           userStore
	validate        *validator.Validate
	hashCost        int
	lockoutDuration time.Duration
	now             func() time.Time
	newID           func() string
}

func NewManager(store userStore, hashCost int) *Manager {
	return &Manager{
		store:           store,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		hashCost:        hashCost,
		lockoutDuration: DefaultLockoutDuration,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// Register creates a new account. A *RegistrationError lists all the reasons
// when the request is refused.
func (m *Manager) Register(ctx context.Context, req RegisterRequest) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "identity.manager.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	req.Email = strings.TrimSpace(req.Email)
	if codes := m.validateRegisterRequest(req); len(codes) > 0 {
		return nil, &RegistrationError{Codes: codes}
	}

	return m.createUser(ctx, req.Email, req.Password)
}

func (m *Manager) createUser(ctx context.Context, email, password string) (*User, error) {
	var codes []ErrorCode
	_, err := m.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		codes = append(codes, CodeDuplicateUserName, CodeDuplicateEmail)
	case !errors.Is(err, ErrUserNotFound):
		return nil, fmt.Errorf("find by email: %w", err)
	}

	codes = append(codes, CheckPasswordPolicy(password)...)
	if len(codes) > 0 {
		return nil, &RegistrationError{Codes: codes}
	}

	passwordHash, err := pkg.HashPasswordWithCost(password, m.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           m.newID(),
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		CreatedAt:    m.now(),
	}
	if err := m.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, &RegistrationError{Codes: []ErrorCode{CodeDuplicateUserName, CodeDuplicateEmail}}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Infof("created new user account [%s]", user.ID)
	return user, nil
}

func (m *Manager) validateRegisterRequest(req RegisterRequest) []ErrorCode {
	err := m.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []ErrorCode{CodeInvalidEmail}
	}

	var codes []ErrorCode
	for _, fe := range validationErrs {
		switch fe.StructField() {
		case "Email":
			codes = append(codes, CodeInvalidEmail)
		case "Password":
			switch fe.Tag() {
			case "required":
				codes = append(codes, CodePasswordRequired)
			case "min":
				codes = append(codes, CodePasswordTooShort)
			case "max":
				codes = append(codes, CodePasswordTooLong)
			}
		case "ConfirmPassword":
			codes = append(codes, CodePasswordMismatch)
		}
	}
	return codes
}

// CheckPasswordPolicy: at least 6 characters, a digit, a lowercase letter,
// an uppercase letter and a non alphanumeric character.
func CheckPasswordPolicy(password string) []ErrorCode {
	var codes []ErrorCode
	if len([]rune(password)) < 6 {
		codes = append(codes, CodePasswordTooShort)
	}

	var hasNonAlphanumeric, hasDigit, hasLower, hasUpper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case !unicode.IsLetter(r):
			hasNonAlphanumeric = true
		}
	}

	if !hasNonAlphanumeric {
		codes = append(codes, CodePasswordRequiresNonAlphanumeric)
	}
	if !hasDigit {
		codes = append(codes, CodePasswordRequiresDigit)
	}
	if !hasLower {
		codes = append(codes, CodePasswordRequiresLower)
	}
	if !hasUpper {
		codes = append(codes, CodePasswordRequiresUpper)
	}
	return codes
}

// PasswordSignIn checks the credentials. Failed attempts are counted per user,
// and MaxFailedAccessAttempts in a row lock the account for the lockout duration.
func (m *Manager) PasswordSignIn(ctx context.Context, email string, password string) (_ *User, _ SignInResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "identity.manager.passwordSignIn")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := m.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, SignInFailed, nil
		}
		return nil, SignInFailed, fmt.Errorf("find by email: %w", err)
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	now := m.now()
	if user.IsLockedOut(now) {
		return nil, SignInLockedOut, nil
	}

	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		failedCount := user.AccessFailedCount + 1
		result := SignInFailed
		var lockoutEnd *time.Time
		if failedCount >= MaxFailedAccessAttempts {
			end := now.Add(m.lockoutDuration)
			lockoutEnd = &end
			failedCount = 0
			result = SignInLockedOut
			log.Warnf("user [%s] locked out until %s", user.ID, end.Format(time.RFC3339))
		}
		if err := m.store.UpdateAccessFailed(ctx, user.ID, failedCount, lockoutEnd); err != nil {
			return nil, SignInFailed, fmt.Errorf("update access failed count: %w", err)
		}
		return nil, result, nil
	}

	if user.AccessFailedCount > 0 || user.LockoutEnd != nil {
		if err := m.store.UpdateAccessFailed(ctx, user.ID, 0, nil); err != nil {
			return nil, SignInFailed, fmt.Errorf("reset access failed count: %w", err)
		}
		user.AccessFailedCount = 0
		user.LockoutEnd = nil
	}

	return user, SignInSucceeded, nil
}

func (m *Manager) EnsureRole(ctx context.Context, name string) (int, error) {
	return m.store.EnsureRole(ctx, name)
}

// EnsureAccount makes sure the account exists and is in the given role.
// An existing account keeps its password. The bool reports whether the account was created.
func (m *Manager) EnsureAccount(ctx context.Context, email, password, role string) (_ *User, created bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "identity.manager.ensureAccount")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := m.store.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		user, err = m.createUser(ctx, email, password)
		if err != nil {
			return nil, false, err
		}
		created = true
	case err != nil:
		return nil, false, fmt.Errorf("find by email: %w", err)
	}

	if role == "" {
		return user, created, nil
	}

	roleID, err := m.store.EnsureRole(ctx, role)
	if err != nil {
		return nil, false, fmt.Errorf("ensure role %s: %w", role, err)
	}

	inRole, err := m.store.IsInRole(ctx, user.ID, role)
	if err != nil {
		return nil, false, fmt.Errorf("check role %s: %w", role, err)
	}
	if !inRole {
		if err := m.store.AddToRole(ctx, user.ID, roleID); err != nil {
			return nil, false, fmt.Errorf("add to role %s: %w", role, err)
		}
		log.Infof("user [%s] added to role [%s]", user.ID, role)
	}

	return user, created, nil
}

func (m *Manager) IsInRole(ctx context.Context, userID string, role string) (bool, error) {
	return m.store.IsInRole(ctx, userID, role)
}

func (m *Manager) Roles(ctx context.Context, userID string) ([]string, error) {
	return m.store.Roles(ctx, userID)
}

func (m *Manager) FindByEmail(ctx context.Context, email string) (*User, error) {
	return m.store.FindByEmail(ctx, email)
}

func (m *Manager) FindByID(ctx context.Context, id string) (*User, error) {
	return m.store.FindByID(ctx, id)
}

// DeleteUser removes the user and, through the FK cascades, all of their data.
func (m *Manager) DeleteUser(ctx context.Context, userID string) error {
	return m.store.DeleteUser(ctx, userID)
}
