package events

import (
	"time"

	"github.com/civic-report/civic-report-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintSubmitted      EventType = "complaint_submitted"
	EventComplaintUpvoted        EventType = "complaint_upvoted"
	EventComplaintBecameCritical EventType = "complaint_became_critical"
	EventComplaintAssigned       EventType = "complaint_assigned"
	EventComplaintProgress       EventType = "complaint_progress"
	EventComplaintResolved       EventType = "complaint_resolved"
	EventFeedbackAdded           EventType = "feedback_added"
	EventUserRegistered          EventType = "user_registered"
)

// AllEventTypes lists every published event type, for cross-cutting
// subscribers such as metrics.
var AllEventTypes = []EventType{
	EventComplaintSubmitted,
	EventComplaintUpvoted,
	EventComplaintBecameCritical,
	EventComplaintAssigned,
	EventComplaintProgress,
	EventComplaintResolved,
	EventFeedbackAdded,
	EventUserRegistered,
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id,omitempty"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintSubmittedPayload payload.
type ComplaintSubmittedPayload struct {
	Category    string    `json:"category"`
	Department  string    `json:"department"`
	Location    string    `json:"location,omitempty"`
	SLADeadline time.Time `json:"sla_deadline"`
}

// ComplaintUpvotedPayload payload.
type ComplaintUpvotedPayload struct {
	Upvotes    int  `json:"upvotes"`
	IsCritical bool `json:"is_critical"`
}

// ComplaintBecameCriticalPayload payload.
type ComplaintBecameCriticalPayload struct {
	Upvotes     int       `json:"upvotes"`
	SLADeadline time.Time `json:"sla_deadline"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	AdminID    string `json:"admin_id"`
	AdminName  string `json:"admin_name"`
	Department string `json:"department"`
}

// ComplaintProgressPayload payload.
type ComplaintProgressPayload struct {
	CompletedSteps int    `json:"completed_steps"`
	CurrentStep    string `json:"current_step"`
}

// ComplaintResolvedPayload payload.
type ComplaintResolvedPayload struct {
	Department string `json:"department"`
}

// FeedbackAddedPayload payload.
type FeedbackAddedPayload struct {
	Rating int `json:"rating"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Role       domain.Role `json:"role"`
	Department string      `json:"department,omitempty"`
}
