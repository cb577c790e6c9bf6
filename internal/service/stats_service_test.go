package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-report/civic-report-service/internal/domain"
	"github.com/civic-report/civic-report-service/internal/state"
)

func statsFixture(t *testing.T) (*StatsService, *state.Store) {
	t.Helper()
	raised := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	seed := domain.AppState{Complaints: []domain.Complaint{
		{
			ID: "c-1", UserID: "user123", Category: "Road Infrastructure", Department: "PWD",
			Status: domain.ComplaintStatusResolved, AssignedAdminID: "admin123",
			Feedback: &domain.Feedback{Rating: 5}, DateRaised: raised, UpvotedBy: []string{},
		},
		{
			ID: "c-2", UserID: "user123", Category: "Road Infrastructure", Department: "PWD",
			Status: domain.ComplaintStatusResolved, AssignedAdminID: "admin999",
			Feedback: &domain.Feedback{Rating: 4}, DateRaised: raised, UpvotedBy: []string{},
		},
		{
			ID: "c-3", UserID: "user456", Category: "Road Infrastructure", Department: "PWD",
			Status: domain.ComplaintStatusInProgress, AssignedAdminID: "admin123",
			DateRaised: raised, UpvotedBy: []string{}, IsCritical: true,
		},
		{
			ID: "c-4", UserID: "user456", Category: "Road Infrastructure", Department: "PWD",
			Status: domain.ComplaintStatusPending, DateRaised: raised, UpvotedBy: []string{},
		},
		{
			ID: "c-5", UserID: "user789", Category: "Water Supply", Department: "Water Department",
			Status: domain.ComplaintStatusPending, DateRaised: raised, UpvotedBy: []string{},
		},
	}}
	store := state.NewStore(seed)
	return NewStatsService(store), store
}

func TestForCitizen(t *testing.T) {
	svc, _ := statsFixture(t)

	stats := svc.ForCitizen(context.Background(), "user123")
	assert.Equal(t, CitizenStats{Total: 2, Resolved: 2}, stats)

	stats = svc.ForCitizen(context.Background(), "user456")
	assert.Equal(t, CitizenStats{Total: 2, Pending: 1, InProgress: 1}, stats)

	assert.Zero(t, svc.ForCitizen(context.Background(), "nobody").Total)
}

func TestForDepartment(t *testing.T) {
	svc, _ := statsFixture(t)
	admin := domain.User{ID: "admin123", Role: domain.RoleDepartmentAdmin, Department: "PWD"}

	stats, err := svc.ForDepartment(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, "PWD", stats.Department)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Solved)
	assert.Equal(t, 1, stats.SolvedByMe)
	assert.Equal(t, 1, stats.YetToAttend)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.CriticalComplaints)
	assert.Equal(t, 2, stats.ReviewCount)
	assert.InDelta(t, 4.5, stats.AverageRating, 0.001)
	assert.Equal(t, map[int]int{4: 1, 5: 1}, stats.RatingCounts)
	assert.Equal(t, 50, stats.ResolutionRatePct)
}

func TestForDepartmentRequiresAdmin(t *testing.T) {
	svc, _ := statsFixture(t)
	_, err := svc.ForDepartment(context.Background(), domain.User{ID: "u", Role: domain.RoleCitizen})
	assertDomainErrorCode(t, err, "FORBIDDEN")
}

func TestForCommunity(t *testing.T) {
	svc, _ := statsFixture(t)

	stats := svc.ForCommunity(context.Background(), CommunityFilter{})
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 3, stats.UniqueReporters)
	assert.Equal(t, 2, stats.Solved)
	assert.Equal(t, 3, stats.Open)
	assert.Equal(t, map[string]int{"Road Infrastructure": 4, "Water Supply": 1}, stats.ByCategory)
	assert.Equal(t, 40, stats.ResolutionRatePct)

	filtered := svc.ForCommunity(context.Background(), CommunityFilter{Category: "Water Supply"})
	assert.Equal(t, 1, filtered.Total)
	assert.Equal(t, 0, filtered.Solved)
	assert.Equal(t, 0, filtered.ResolutionRatePct)
}
