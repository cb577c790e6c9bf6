package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusAssigned   ComplaintStatus = "assigned"
	ComplaintStatusInProgress ComplaintStatus = "in-progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusEscalated  ComplaintStatus = "escalated"
)

// SLA durations. The default deadline is set at submission time; the critical
// deadline replaces it once, when a complaint crosses the upvote threshold.
const (
	DefaultSLA  = 14 * 24 * time.Hour
	CriticalSLA = 7 * 24 * time.Hour

	// CriticalUpvoteThreshold is the upvote count at which a complaint is
	// promoted to critical.
	CriticalUpvoteThreshold = 20
)

// ProgressSteps tracks the three independent resolution stages.
type ProgressSteps struct {
	Step1 bool `json:"step1"`
	Step2 bool `json:"step2"`
	Step3 bool `json:"step3"`
}

// Completed returns the number of finished steps.
func (p ProgressSteps) Completed() int {
	count := 0
	for _, done := range []bool{p.Step1, p.Step2, p.Step3} {
		if done {
			count++
		}
	}
	return count
}

// Feedback is the citizen's rating of a resolved complaint.
type Feedback struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Complaint is the aggregate for a citizen-submitted civic issue report.
// UserName is denormalized at submission time and never re-synced.
type Complaint struct {
	ID                string          `json:"id"`
	UserID            string          `json:"userId"`
	UserName          string          `json:"userName"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Photo             string          `json:"photo,omitempty"`
	Location          string          `json:"location,omitempty"`
	Status            ComplaintStatus `json:"status"`
	DateRaised        time.Time       `json:"dateRaised"`
	SLADeadline       time.Time       `json:"slaDeadline"`
	Upvotes           int             `json:"upvotes"`
	UpvotedBy         []string        `json:"upvotedBy"`
	AssignedAdminID   string          `json:"assignedAdminId,omitempty"`
	AssignedAdminName string          `json:"assignedAdminName,omitempty"`
	ProgressSteps     ProgressSteps   `json:"progressSteps"`
	CurrentStep       string          `json:"currentStep,omitempty"`
	Feedback          *Feedback       `json:"feedback,omitempty"`
	Department        string          `json:"department"`
	IsCritical        bool            `json:"isCritical"`
}

// UpvotedByUser reports whether the given user already upvoted this complaint.
func (c Complaint) UpvotedByUser(userID string) bool {
	for _, id := range c.UpvotedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Open reports whether the complaint still awaits resolution.
func (c Complaint) Open() bool {
	return c.Status != ComplaintStatusResolved
}
