package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/civic-report/civic-report-service/internal/auth"
	"github.com/civic-report/civic-report-service/internal/config"
	"github.com/civic-report/civic-report-service/internal/domain"
	"github.com/civic-report/civic-report-service/internal/events"
	"github.com/civic-report/civic-report-service/internal/state"
	apperrors "github.com/civic-report/civic-report-service/pkg/util"
)

// AuthService coordinates registration and login flows. All validation lives
// here; the state machine behind the store assumes valid input.
type AuthService struct {
	store       *state.Store
	credentials *auth.CredentialStore
	tokenMgr    *auth.TokenManager
	dispatcher  events.Dispatcher
	bcryptCost  int
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	Store       *state.Store
	Credentials *auth.CredentialStore
	Dispatcher  events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		store:       deps.Store,
		credentials: deps.Credentials,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher:  deps.Dispatcher,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// RegisterCitizen creates a citizen account and logs it in.
func (s *AuthService) RegisterCitizen(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	user := domain.User{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Email: strings.ToLower(strings.TrimSpace(email)),
		Role:  domain.RoleCitizen,
	}
	return s.register(ctx, user, password)
}

// RegisterDepartmentAdmin creates a department-admin account for the
// department owning the given category, and logs it in.
func (s *AuthService) RegisterDepartmentAdmin(ctx context.Context, name, email, password, category string) (*domain.User, string, time.Time, error) {
	if !domain.ValidCategory(category) {
		return nil, "", time.Time{}, apperrors.NewValidationError("unknown category", map[string]any{"category": category})
	}
	department := domain.ResolveDepartment(category)
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Role:         domain.RoleDepartmentAdmin,
		Department:   department,
		DepartmentID: departmentSlug(department),
	}
	return s.register(ctx, user, password)
}

func (s *AuthService) register(ctx context.Context, user domain.User, password string) (*domain.User, string, time.Time, error) {
	if user.Name == "" || user.Email == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("name and email required", nil)
	}
	if len(password) < 6 {
		return nil, "", time.Time{}, apperrors.NewValidationError("password must be at least 6 characters", nil)
	}
	if _, exists := s.store.State().UserByEmail(user.Email); exists {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", map[string]any{"email": user.Email})
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	s.credentials.Set(user.Email, hash)

	s.store.Dispatch(state.RegisterUser{User: user})
	s.store.Dispatch(state.Login{User: user})

	token, exp, err := s.tokenMgr.GenerateToken(&user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:  events.EventUserRegistered,
		Actor: events.Actor{UserID: user.ID, Role: user.Role},
		Payload: events.UserRegisteredPayload{
			Role:       user.Role,
			Department: user.Department,
		},
	})
	return &user, token, exp, nil
}

// Login verifies credentials and sets the session user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, ok := s.store.State().UserByEmail(email)
	if !ok {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
	}
	hash, ok := s.credentials.Get(email)
	if !ok {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
	}
	if err := auth.ComparePassword(hash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
	}

	s.store.Dispatch(state.Login{User: user})

	token, exp, err := s.tokenMgr.GenerateToken(&user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return &user, token, exp, nil
}

// Logout clears the session user. Idempotent.
func (s *AuthService) Logout(_ context.Context) {
	s.store.Dispatch(state.Logout{})
}

// UpdateProfile replaces the caller's name. Email and role are fixed; a
// changed name is not re-synced onto past complaints.
func (s *AuthService) UpdateProfile(_ context.Context, userID, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	user, ok := s.store.State().UserByID(userID)
	if !ok {
		return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
	}
	user.Name = name
	next := s.store.Dispatch(state.UpdateUser{User: user})
	updated, _ := next.UserByID(userID)
	return &updated, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func departmentSlug(department string) string {
	slug := strings.ToLower(department)
	slug = strings.ReplaceAll(slug, " ", "_")
	return slug + "_001"
}
