package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/civic-report/civic-report-service/internal/auth"
	"github.com/civic-report/civic-report-service/internal/config"
	"github.com/civic-report/civic-report-service/internal/domain"
	"github.com/civic-report/civic-report-service/internal/state"
)

func newAuthService(t *testing.T) (*AuthService, *state.Store) {
	t.Helper()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
	}
	store := state.NewStore(domain.DefaultState())
	svc := NewAuthService(cfg, AuthDependencies{
		Store:       store,
		Credentials: auth.NewCredentialStore(),
	})
	return svc, store
}

func TestRegisterCitizenLogsIn(t *testing.T) {
	svc, store := newAuthService(t)

	user, token, exp, err := svc.RegisterCitizen(context.Background(), "Alice Resident", "Alice@Example.com ", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.RoleCitizen, user.Role)

	current := store.State()
	assert.True(t, current.IsAuthenticated)
	require.NotNil(t, current.CurrentUser)
	assert.Equal(t, user.ID, current.CurrentUser.ID)
	_, ok := current.UserByEmail("alice@example.com")
	assert.True(t, ok)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, _, err := svc.RegisterCitizen(context.Background(), "", "a@example.com", "hunter2")
	assertDomainErrorCode(t, err, "VALIDATION_FAILED")

	_, _, _, err = svc.RegisterCitizen(context.Background(), "Alice", "a@example.com", "short")
	assertDomainErrorCode(t, err, "VALIDATION_FAILED")
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newAuthService(t)

	// user@demo.com is seeded in the default state.
	_, _, _, err := svc.RegisterCitizen(context.Background(), "Impostor", "user@demo.com", "hunter2")
	assertDomainErrorCode(t, err, "CONFLICT")
}

func TestRegisterDepartmentAdminDerivesDepartment(t *testing.T) {
	svc, _ := newAuthService(t)

	user, _, _, err := svc.RegisterDepartmentAdmin(context.Background(), "Bob Clerk", "bob@example.com", "hunter2", "Water Supply")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDepartmentAdmin, user.Role)
	assert.Equal(t, "Water Department", user.Department)
	assert.Equal(t, "water_department_001", user.DepartmentID)

	_, _, _, err = svc.RegisterDepartmentAdmin(context.Background(), "Eve Clerk", "eve@example.com", "hunter2", "Sidewalk Art")
	assertDomainErrorCode(t, err, "VALIDATION_FAILED")
}

func TestLoginFlow(t *testing.T) {
	svc, store := newAuthService(t)
	_, _, _, err := svc.RegisterCitizen(context.Background(), "Alice Resident", "alice@example.com", "hunter2")
	require.NoError(t, err)
	svc.Logout(context.Background())
	require.False(t, store.State().IsAuthenticated)

	user, token, _, err := svc.Login(context.Background(), "ALICE@example.com", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, store.State().IsAuthenticated)

	_, _, _, err = svc.Login(context.Background(), "alice@example.com", "wrong-password")
	assertDomainErrorCode(t, err, "UNAUTHORIZED")

	_, _, _, err = svc.Login(context.Background(), "nobody@example.com", "hunter2")
	assertDomainErrorCode(t, err, "UNAUTHORIZED")
}

func TestLoginTokenRoundTrips(t *testing.T) {
	svc, _ := newAuthService(t)
	user, token, _, err := svc.RegisterCitizen(context.Background(), "Alice Resident", "alice@example.com", "hunter2")
	require.NoError(t, err)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleCitizen, claims.Role)
}

func TestUpdateProfileRenamesDoesNotResyncComplaints(t *testing.T) {
	svc, store := newAuthService(t)
	complaints := NewComplaintService(ComplaintDependencies{Store: store})
	user, _, _, err := svc.RegisterCitizen(context.Background(), "Alice Resident", "alice@example.com", "hunter2")
	require.NoError(t, err)

	created, err := complaints.Submit(context.Background(), *user, SubmitInput{
		Description: "Deep road pothole near the school entrance",
		Category:    "Road Infrastructure",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, "Alice Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Alice Renamed", updated.Name)

	kept, err := complaints.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Resident", kept.UserName, "denormalized reporter name stays frozen")

	_, err = svc.UpdateProfile(context.Background(), user.ID, "  ")
	assertDomainErrorCode(t, err, "VALIDATION_FAILED")

	_, err = svc.UpdateProfile(context.Background(), "ghost", "Name")
	assertDomainErrorCode(t, err, "NOT_FOUND")
}
