package state

import "github.com/civic-report/civic-report-service/internal/domain"

// Action is the closed set of state transitions. Concrete actions are the
// only way to mutate the aggregate; each carries exactly the fields its
// transition needs.
type Action interface {
	isAction()
}

// Login sets the session user.
type Login struct {
	User domain.User
}

// Logout clears the session. Idempotent.
type Logout struct{}

// RegisterUser appends a new account. Skipped when the email is already
// registered, keeping the machine total over its inputs.
type RegisterUser struct {
	User domain.User
}

// UpdateUser replaces the matching user record, and the session user when it
// has the same id.
type UpdateUser struct {
	User domain.User
}

// SubmitComplaint appends a new complaint. The machine normalizes the
// lifecycle fields (status, department, vote counters); the SLA deadline must
// already be computed by the caller.
type SubmitComplaint struct {
	Complaint domain.Complaint
}

// UpdateComplaint patches fields that carry no lifecycle invariant. Every
// field with an invariant has its own action.
type UpdateComplaint struct {
	ComplaintID string
	Description *string
	Location    *string
	Photo       *string
}

// UpvoteComplaint records one upvote per user and promotes the complaint to
// critical at the threshold.
type UpvoteComplaint struct {
	ComplaintID string
	UserID      string
}

// AssignComplaint hands the complaint to a department admin.
type AssignComplaint struct {
	ComplaintID string
	AdminID     string
	AdminName   string
}

// UpdateProgress replaces the progress steps and the current-step message.
type UpdateProgress struct {
	ComplaintID string
	Steps       domain.ProgressSteps
	CurrentStep string
}

// ResolveComplaint marks the complaint resolved. The assignee is kept.
type ResolveComplaint struct {
	ComplaintID string
}

// AddFeedback attaches the citizen's rating to a complaint.
type AddFeedback struct {
	ComplaintID string
	Feedback    domain.Feedback
}

// LoadState replaces the entire aggregate. Used only by the persistence
// adapter at startup.
type LoadState struct {
	State domain.AppState
}

func (Login) isAction()            {}
func (Logout) isAction()           {}
func (RegisterUser) isAction()     {}
func (UpdateUser) isAction()       {}
func (SubmitComplaint) isAction()  {}
func (UpdateComplaint) isAction()  {}
func (UpvoteComplaint) isAction()  {}
func (AssignComplaint) isAction()  {}
func (UpdateProgress) isAction()   {}
func (ResolveComplaint) isAction() {}
func (AddFeedback) isAction()      {}
func (LoadState) isAction()        {}
