package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/civic-report/civic-report-service/internal/domain"
	"github.com/civic-report/civic-report-service/internal/events"
	"github.com/civic-report/civic-report-service/internal/state"
	apperrors "github.com/civic-report/civic-report-service/pkg/util"
)

// DefaultLocation is recorded when the citizen leaves the location blank.
const DefaultLocation = "Location not specified"

const minDescriptionLength = 20

// ComplaintService coordinates complaint workflows. Preconditions with a
// user-visible error (duplicate category, wrong status, wrong department) are
// checked here before dispatch; the state machine stays permissive and
// absorbs unknown ids as no-ops.
type ComplaintService struct {
	store      *state.Store
	dispatcher events.Dispatcher
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	Store      *state.Store
	Dispatcher events.Dispatcher
}

// SubmitInput describes a new complaint payload.
type SubmitInput struct {
	Description string
	Category    string
	Photo       string
	Location    string
}

// ProgressInput describes a progress update payload.
type ProgressInput struct {
	Steps       domain.ProgressSteps
	CurrentStep string
}

// CommunityFilter narrows the public complaint feed.
type CommunityFilter struct {
	Category string
	Status   domain.ComplaintStatus
	Since    *time.Time
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{store: deps.Store, dispatcher: deps.Dispatcher}
}

// Submit validates and records a new complaint for the citizen.
func (s *ComplaintService) Submit(ctx context.Context, citizen domain.User, input SubmitInput) (*domain.Complaint, error) {
	description := strings.TrimSpace(input.Description)
	if !domain.ValidCategory(input.Category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}
	if len(description) < minDescriptionLength {
		return nil, apperrors.NewValidationError("description too short, provide more details about the issue", nil)
	}
	if !descriptionMatchesCategory(description, input.Category) {
		return nil, apperrors.NewValidationError("description does not seem to match the selected category", nil)
	}
	for _, c := range s.store.State().Complaints {
		if c.UserID == citizen.ID && c.Category == input.Category && c.Open() {
			return nil, apperrors.NewConflict("unresolved complaint already exists in this category",
				map[string]any{"complaint_id": c.ID, "category": input.Category})
		}
	}

	location := strings.TrimSpace(input.Location)
	if location == "" {
		location = DefaultLocation
	}
	now := time.Now()
	complaint := domain.Complaint{
		ID:          uuid.NewString(),
		UserID:      citizen.ID,
		UserName:    citizen.Name,
		Description: description,
		Category:    input.Category,
		Photo:       input.Photo,
		Location:    location,
		DateRaised:  now,
		SLADeadline: now.Add(domain.DefaultSLA),
	}

	next := s.store.Dispatch(state.SubmitComplaint{Complaint: complaint})
	created, _ := next.ComplaintByID(complaint.ID)

	s.publish(ctx, events.Event{
		Type:        events.EventComplaintSubmitted,
		ComplaintID: created.ID,
		Actor:       events.Actor{UserID: citizen.ID, Role: citizen.Role},
		Payload: events.ComplaintSubmittedPayload{
			Category:    created.Category,
			Department:  created.Department,
			Location:    created.Location,
			SLADeadline: created.SLADeadline,
		},
	})
	return &created, nil
}

// Upvote records one upvote for the user. A repeat upvote is a conflict at
// this layer even though the machine would absorb it silently.
func (s *ComplaintService) Upvote(ctx context.Context, user domain.User, complaintID string) (*domain.Complaint, error) {
	current, ok := s.store.State().ComplaintByID(complaintID)
	if !ok {
		return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
	}
	if current.UpvotedByUser(user.ID) {
		return nil, apperrors.NewConflict("already upvoted", map[string]any{"complaint_id": complaintID})
	}

	wasCritical := current.IsCritical
	next := s.store.Dispatch(state.UpvoteComplaint{ComplaintID: complaintID, UserID: user.ID})
	updated, _ := next.ComplaintByID(complaintID)

	s.publish(ctx, events.Event{
		Type:        events.EventComplaintUpvoted,
		ComplaintID: complaintID,
		Actor:       events.Actor{UserID: user.ID, Role: user.Role},
		Payload: events.ComplaintUpvotedPayload{
			Upvotes:    updated.Upvotes,
			IsCritical: updated.IsCritical,
		},
	})
	if updated.IsCritical && !wasCritical {
		s.publish(ctx, events.Event{
			Type:        events.EventComplaintBecameCritical,
			ComplaintID: complaintID,
			Actor:       events.Actor{UserID: user.ID, Role: user.Role},
			Payload: events.ComplaintBecameCriticalPayload{
				Upvotes:     updated.Upvotes,
				SLADeadline: updated.SLADeadline,
			},
		})
	}
	return &updated, nil
}

// Assign hands a pending complaint to the calling department admin.
func (s *ComplaintService) Assign(ctx context.Context, admin domain.User, complaintID string) (*domain.Complaint, error) {
	if !admin.IsDepartmentAdmin() {
		return nil, apperrors.NewForbidden("department admin required")
	}
	current, ok := s.store.State().ComplaintByID(complaintID)
	if !ok {
		return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
	}
	if current.Department != admin.Department {
		return nil, apperrors.NewForbidden("complaint belongs to another department")
	}
	if current.Status != domain.ComplaintStatusPending {
		return nil, apperrors.NewConflict("complaint already assigned",
			map[string]any{"complaint_id": complaintID, "status": current.Status})
	}

	next := s.store.Dispatch(state.AssignComplaint{
		ComplaintID: complaintID,
		AdminID:     admin.ID,
		AdminName:   admin.Name,
	})
	updated, _ := next.ComplaintByID(complaintID)

	s.publish(ctx, events.Event{
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaintID,
		Actor:       events.Actor{UserID: admin.ID, Role: admin.Role},
		Payload: events.ComplaintAssignedPayload{
			AdminID:    admin.ID,
			AdminName:  admin.Name,
			Department: updated.Department,
		},
	})
	return &updated, nil
}

// UpdateProgress replaces the progress steps on a complaint assigned to the
// caller. When no current-step text is supplied it is derived from the
// completed-step count.
func (s *ComplaintService) UpdateProgress(ctx context.Context, admin domain.User, complaintID string, input ProgressInput) (*domain.Complaint, error) {
	current, err := s.assignedTo(admin, complaintID)
	if err != nil {
		return nil, err
	}

	currentStep := strings.TrimSpace(input.CurrentStep)
	if currentStep == "" {
		currentStep = progressMessage(input.Steps.Completed())
	}

	next := s.store.Dispatch(state.UpdateProgress{
		ComplaintID: current.ID,
		Steps:       input.Steps,
		CurrentStep: currentStep,
	})
	updated, _ := next.ComplaintByID(complaintID)

	s.publish(ctx, events.Event{
		Type:        events.EventComplaintProgress,
		ComplaintID: complaintID,
		Actor:       events.Actor{UserID: admin.ID, Role: admin.Role},
		Payload: events.ComplaintProgressPayload{
			CompletedSteps: updated.ProgressSteps.Completed(),
			CurrentStep:    updated.CurrentStep,
		},
	})
	return &updated, nil
}

// Resolve marks a complaint assigned to the caller as resolved. The assignee
// is kept on the record.
func (s *ComplaintService) Resolve(ctx context.Context, admin domain.User, complaintID string) (*domain.Complaint, error) {
	if _, err := s.assignedTo(admin, complaintID); err != nil {
		return nil, err
	}

	next := s.store.Dispatch(state.ResolveComplaint{ComplaintID: complaintID})
	updated, _ := next.ComplaintByID(complaintID)

	s.publish(ctx, events.Event{
		Type:        events.EventComplaintResolved,
		ComplaintID: complaintID,
		Actor:       events.Actor{UserID: admin.ID, Role: admin.Role},
		Payload:     events.ComplaintResolvedPayload{Department: updated.Department},
	})
	return &updated, nil
}

// AddFeedback attaches the submitting citizen's rating to a resolved
// complaint. Settable only once.
func (s *ComplaintService) AddFeedback(ctx context.Context, user domain.User, complaintID string, feedback domain.Feedback) (*domain.Complaint, error) {
	if feedback.Rating < 1 || feedback.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": feedback.Rating})
	}
	current, ok := s.store.State().ComplaintByID(complaintID)
	if !ok {
		return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
	}
	if current.UserID != user.ID {
		return nil, apperrors.NewForbidden("only the submitter may leave feedback")
	}
	if current.Status != domain.ComplaintStatusResolved {
		return nil, apperrors.NewConflict("complaint not resolved yet",
			map[string]any{"complaint_id": complaintID, "status": current.Status})
	}
	if current.Feedback != nil {
		return nil, apperrors.NewConflict("feedback already recorded", map[string]any{"complaint_id": complaintID})
	}

	next := s.store.Dispatch(state.AddFeedback{ComplaintID: complaintID, Feedback: feedback})
	updated, _ := next.ComplaintByID(complaintID)

	s.publish(ctx, events.Event{
		Type:        events.EventFeedbackAdded,
		ComplaintID: complaintID,
		Actor:       events.Actor{UserID: user.ID, Role: user.Role},
		Payload:     events.FeedbackAddedPayload{Rating: feedback.Rating},
	})
	return &updated, nil
}

// UpdateDetails patches the invariant-free fields of the caller's own
// complaint.
func (s *ComplaintService) UpdateDetails(_ context.Context, user domain.User, complaintID string, description, location, photo *string) (*domain.Complaint, error) {
	current, ok := s.store.State().ComplaintByID(complaintID)
	if !ok {
		return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
	}
	if current.UserID != user.ID {
		return nil, apperrors.NewForbidden("only the submitter may edit a complaint")
	}

	next := s.store.Dispatch(state.UpdateComplaint{
		ComplaintID: complaintID,
		Description: description,
		Location:    location,
		Photo:       photo,
	})
	updated, _ := next.ComplaintByID(complaintID)
	return &updated, nil
}

// Get returns a single complaint.
func (s *ComplaintService) Get(_ context.Context, complaintID string) (*domain.Complaint, error) {
	complaint, ok := s.store.State().ComplaintByID(complaintID)
	if !ok {
		return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
	}
	return &complaint, nil
}

// ListMine returns the citizen's complaints, newest first.
func (s *ComplaintService) ListMine(_ context.Context, userID string) []domain.Complaint {
	return filterComplaints(s.store.State().Complaints, func(c domain.Complaint) bool {
		return c.UserID == userID
	})
}

// ListDepartment returns the complaints owned by the admin's department,
// newest first.
func (s *ComplaintService) ListDepartment(_ context.Context, admin domain.User) ([]domain.Complaint, error) {
	if !admin.IsDepartmentAdmin() {
		return nil, apperrors.NewForbidden("department admin required")
	}
	return filterComplaints(s.store.State().Complaints, func(c domain.Complaint) bool {
		return c.Department == admin.Department
	}), nil
}

// ListCommunity returns the public feed, optionally filtered, newest first.
func (s *ComplaintService) ListCommunity(_ context.Context, filter CommunityFilter) []domain.Complaint {
	return filterComplaints(s.store.State().Complaints, func(c domain.Complaint) bool {
		if filter.Category != "" && c.Category != filter.Category {
			return false
		}
		if filter.Status != "" && c.Status != filter.Status {
			return false
		}
		if filter.Since != nil && c.DateRaised.Before(*filter.Since) {
			return false
		}
		return true
	})
}

func (s *ComplaintService) assignedTo(admin domain.User, complaintID string) (*domain.Complaint, error) {
	if !admin.IsDepartmentAdmin() {
		return nil, apperrors.NewForbidden("department admin required")
	}
	current, ok := s.store.State().ComplaintByID(complaintID)
	if !ok {
		return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
	}
	if current.AssignedAdminID != admin.ID {
		return nil, apperrors.NewForbidden("complaint not assigned to you")
	}
	return &current, nil
}

func (s *ComplaintService) publish(ctx context.Context, event events.Event) {
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

func descriptionMatchesCategory(description, category string) bool {
	firstWord := strings.ToLower(strings.SplitN(category, " ", 2)[0])
	return strings.Contains(strings.ToLower(description), firstWord)
}

func progressMessage(completed int) string {
	switch completed {
	case 1:
		return "Initial assessment completed"
	case 2:
		return "Work in progress"
	case 3:
		return "Final stage - nearing completion"
	default:
		return "Work assigned and started"
	}
}

func filterComplaints(complaints []domain.Complaint, keep func(domain.Complaint) bool) []domain.Complaint {
	result := make([]domain.Complaint, 0, len(complaints))
	for _, c := range complaints {
		if keep(c) {
			result = append(result, c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DateRaised.After(result[j].DateRaised)
	})
	return result
}
