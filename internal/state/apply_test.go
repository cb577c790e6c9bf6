package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-report/civic-report-service/internal/domain"
)

func newComplaint(id string, raised time.Time) domain.Complaint {
	return domain.Complaint{
		ID:          id,
		UserID:      "citizen-1",
		UserName:    "John Citizen",
		Description: "Large pothole on the road near the market",
		Category:    "Road Infrastructure",
		Status:      domain.ComplaintStatusPending,
		DateRaised:  raised,
		SLADeadline: raised.Add(domain.DefaultSLA),
		UpvotedBy:   []string{},
		Department:  "PWD",
	}
}

func stateWith(complaints ...domain.Complaint) domain.AppState {
	st := domain.DefaultState()
	st.Complaints = append(st.Complaints, complaints...)
	return st
}

func TestLoginLogout(t *testing.T) {
	st := domain.DefaultState()
	user := st.Users[0]

	next := Apply(st, Login{User: user})
	require.NotNil(t, next.CurrentUser)
	assert.Equal(t, user.ID, next.CurrentUser.ID)
	assert.True(t, next.IsAuthenticated)

	next = Apply(next, Logout{})
	assert.Nil(t, next.CurrentUser)
	assert.False(t, next.IsAuthenticated)

	// Logging out while logged out is harmless.
	again := Apply(next, Logout{})
	assert.Equal(t, next, again)
}

func TestRegisterUserAppends(t *testing.T) {
	st := domain.DefaultState()
	user := domain.User{ID: "u-9", Name: "New User", Email: "new@example.com", Role: domain.RoleCitizen}

	next := Apply(st, RegisterUser{User: user})
	require.Len(t, next.Users, len(st.Users)+1)
	got, ok := next.UserByID("u-9")
	require.True(t, ok)
	assert.Equal(t, user, got)
}

func TestRegisterUserDuplicateEmailIsNoOp(t *testing.T) {
	st := domain.DefaultState()
	dup := domain.User{ID: "u-9", Name: "Impostor", Email: "user@demo.com", Role: domain.RoleCitizen}

	next := Apply(st, RegisterUser{User: dup})
	assert.Equal(t, st, next)
}

func TestUpdateUserReplacesRecordAndSession(t *testing.T) {
	st := domain.DefaultState()
	st = Apply(st, Login{User: st.Users[0]})

	updated := st.Users[0]
	updated.Name = "John Renamed"
	next := Apply(st, UpdateUser{User: updated})

	got, ok := next.UserByID(updated.ID)
	require.True(t, ok)
	assert.Equal(t, "John Renamed", got.Name)
	require.NotNil(t, next.CurrentUser)
	assert.Equal(t, "John Renamed", next.CurrentUser.Name)
}

func TestUpdateUserUnknownIDIsNoOp(t *testing.T) {
	st := domain.DefaultState()
	next := Apply(st, UpdateUser{User: domain.User{ID: "missing", Email: "x@example.com"}})
	assert.Equal(t, st, next)
}

func TestSubmitComplaintNormalizesLifecycleFields(t *testing.T) {
	raised := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	payload := newComplaint("c-1", raised)
	// Tampered fields the machine must reset regardless of payload.
	payload.Status = domain.ComplaintStatusResolved
	payload.IsCritical = true
	payload.Upvotes = 99
	payload.UpvotedBy = []string{"x"}
	payload.Department = "Bogus"

	next := Apply(domain.DefaultState(), SubmitComplaint{Complaint: payload})
	created, ok := next.ComplaintByID("c-1")
	require.True(t, ok)
	assert.Equal(t, domain.ComplaintStatusPending, created.Status)
	assert.Equal(t, "PWD", created.Department)
	assert.False(t, created.IsCritical)
	assert.Zero(t, created.Upvotes)
	assert.Empty(t, created.UpvotedBy)
	assert.Equal(t, raised.Add(domain.DefaultSLA), created.SLADeadline)
}

func TestSubmitComplaintUnmappedCategoryFallsBack(t *testing.T) {
	c := newComplaint("c-1", time.Now())
	c.Category = "Sidewalk Art"

	next := Apply(domain.DefaultState(), SubmitComplaint{Complaint: c})
	created, ok := next.ComplaintByID("c-1")
	require.True(t, ok)
	assert.Equal(t, domain.DefaultDepartment, created.Department)
}

func TestUpvoteIsIdempotentPerUser(t *testing.T) {
	st := stateWith(newComplaint("c-1", time.Now()))

	next := Apply(st, UpvoteComplaint{ComplaintID: "c-1", UserID: "voter-1"})
	c, _ := next.ComplaintByID("c-1")
	assert.Equal(t, 1, c.Upvotes)
	assert.Equal(t, []string{"voter-1"}, c.UpvotedBy)

	again := Apply(next, UpvoteComplaint{ComplaintID: "c-1", UserID: "voter-1"})
	assert.Equal(t, next, again)
}

func TestUpvoteCrossingThresholdPromotesToCritical(t *testing.T) {
	raised := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	complaint := newComplaint("c-1", raised)
	for i := 0; i < domain.CriticalUpvoteThreshold-1; i++ {
		complaint.Upvotes++
		complaint.UpvotedBy = append(complaint.UpvotedBy, fmt.Sprintf("voter-%d", i))
	}
	st := stateWith(complaint)

	next := Apply(st, UpvoteComplaint{ComplaintID: "c-1", UserID: "voter-final"})
	c, _ := next.ComplaintByID("c-1")
	assert.Equal(t, domain.CriticalUpvoteThreshold, c.Upvotes)
	assert.True(t, c.IsCritical)
	assert.Equal(t, raised.Add(domain.CriticalSLA), c.SLADeadline)

	// Further upvotes never touch the deadline again.
	next = Apply(next, UpvoteComplaint{ComplaintID: "c-1", UserID: "voter-extra"})
	c, _ = next.ComplaintByID("c-1")
	assert.Equal(t, domain.CriticalUpvoteThreshold+1, c.Upvotes)
	assert.Equal(t, raised.Add(domain.CriticalSLA), c.SLADeadline)
}

func TestAssignComplaint(t *testing.T) {
	st := stateWith(newComplaint("c-1", time.Now()))

	next := Apply(st, AssignComplaint{ComplaintID: "c-1", AdminID: "admin123", AdminName: "Sarah Wilson"})
	c, _ := next.ComplaintByID("c-1")
	assert.Equal(t, domain.ComplaintStatusAssigned, c.Status)
	assert.Equal(t, "admin123", c.AssignedAdminID)
	assert.Equal(t, "Sarah Wilson", c.AssignedAdminName)
}

func TestUpdateProgress(t *testing.T) {
	st := stateWith(newComplaint("c-1", time.Now()))
	steps := domain.ProgressSteps{Step1: true, Step2: true}

	next := Apply(st, UpdateProgress{ComplaintID: "c-1", Steps: steps, CurrentStep: "Work in progress"})
	c, _ := next.ComplaintByID("c-1")
	assert.Equal(t, domain.ComplaintStatusInProgress, c.Status)
	assert.Equal(t, steps, c.ProgressSteps)
	assert.Equal(t, "Work in progress", c.CurrentStep)
}

func TestResolveKeepsAssignee(t *testing.T) {
	complaint := newComplaint("c-1", time.Now())
	complaint.Status = domain.ComplaintStatusInProgress
	complaint.AssignedAdminID = "admin123"
	complaint.AssignedAdminName = "Sarah Wilson"
	st := stateWith(complaint)

	next := Apply(st, ResolveComplaint{ComplaintID: "c-1"})
	c, _ := next.ComplaintByID("c-1")
	assert.Equal(t, domain.ComplaintStatusResolved, c.Status)
	assert.Equal(t, "admin123", c.AssignedAdminID)
}

func TestResolveThenFeedbackRoundTrip(t *testing.T) {
	complaint := newComplaint("c-1", time.Now())
	complaint.Status = domain.ComplaintStatusResolved
	st := stateWith(complaint)

	next := Apply(st, AddFeedback{ComplaintID: "c-1", Feedback: domain.Feedback{Rating: 5, Comment: "great"}})
	c, _ := next.ComplaintByID("c-1")
	require.NotNil(t, c.Feedback)
	assert.Equal(t, domain.Feedback{Rating: 5, Comment: "great"}, *c.Feedback)

	// No other field changed.
	c.Feedback = nil
	assert.Equal(t, complaint, c)
}

func TestUpdateComplaintPatchesOnlyFreeFields(t *testing.T) {
	st := stateWith(newComplaint("c-1", time.Now()))
	description := "Larger pothole than first reported, road partially blocked"
	location := "Main Street intersection"

	next := Apply(st, UpdateComplaint{ComplaintID: "c-1", Description: &description, Location: &location})
	c, _ := next.ComplaintByID("c-1")
	assert.Equal(t, description, c.Description)
	assert.Equal(t, location, c.Location)
	assert.Equal(t, domain.ComplaintStatusPending, c.Status)
}

func TestUnknownComplaintIDIsSilentNoOp(t *testing.T) {
	st := stateWith(newComplaint("c-1", time.Now()))
	actions := []Action{
		UpvoteComplaint{ComplaintID: "ghost", UserID: "voter-1"},
		AssignComplaint{ComplaintID: "ghost", AdminID: "a", AdminName: "A"},
		UpdateProgress{ComplaintID: "ghost", Steps: domain.ProgressSteps{Step1: true}},
		ResolveComplaint{ComplaintID: "ghost"},
		AddFeedback{ComplaintID: "ghost", Feedback: domain.Feedback{Rating: 3}},
		UpdateComplaint{ComplaintID: "ghost"},
	}

	for _, action := range actions {
		next := Apply(st, action)
		assert.Equal(t, st, next, "%T must not materialize state for an unknown id", action)
		assert.Len(t, next.Complaints, 1)
	}
}

func TestLoadStateReplacesAggregateWholesale(t *testing.T) {
	replacement := stateWith(newComplaint("c-42", time.Now()))
	replacement.IsAuthenticated = true
	replacement.CurrentUser = &replacement.Users[0]

	next := Apply(domain.AppState{}, LoadState{State: replacement})
	assert.Equal(t, replacement, next)
}

func TestApplyDoesNotAliasInputState(t *testing.T) {
	st := stateWith(newComplaint("c-1", time.Now()))
	before, _ := st.ComplaintByID("c-1")

	next := Apply(st, UpvoteComplaint{ComplaintID: "c-1", UserID: "voter-1"})
	// Mutating the result must never leak back into the input.
	next.Complaints[0].UpvotedBy[0] = "tampered"
	next.Complaints[0].Description = "tampered"

	after, _ := st.ComplaintByID("c-1")
	assert.Equal(t, before, after)
}
