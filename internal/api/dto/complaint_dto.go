package dto

import (
	"time"

	"github.com/civic-report/civic-report-service/internal/domain"
)

// CreateComplaintRequest payload for a new complaint.
type CreateComplaintRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Photo       string `json:"photo,omitempty"`
	Location    string `json:"location,omitempty"`
}

// UpdateComplaintRequest patches invariant-free fields.
type UpdateComplaintRequest struct {
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Photo       *string `json:"photo,omitempty"`
}

// ProgressRequest payload for a progress update.
type ProgressRequest struct {
	Step1       bool   `json:"step1"`
	Step2       bool   `json:"step2"`
	Step3       bool   `json:"step3"`
	CurrentStep string `json:"current_step,omitempty"`
}

// FeedbackRequest payload for citizen feedback.
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// FeedbackResponse mirrors recorded feedback.
type FeedbackResponse struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ComplaintResponse is the full complaint representation.
type ComplaintResponse struct {
	ID                string                 `json:"id"`
	UserID            string                 `json:"user_id"`
	UserName          string                 `json:"user_name"`
	Description       string                 `json:"description"`
	Category          string                 `json:"category"`
	Photo             string                 `json:"photo,omitempty"`
	Location          string                 `json:"location,omitempty"`
	Status            domain.ComplaintStatus `json:"status"`
	DateRaised        time.Time              `json:"date_raised"`
	SLADeadline       time.Time              `json:"sla_deadline"`
	Upvotes           int                    `json:"upvotes"`
	AssignedAdminID   string                 `json:"assigned_admin_id,omitempty"`
	AssignedAdminName string                 `json:"assigned_admin_name,omitempty"`
	ProgressSteps     domain.ProgressSteps   `json:"progress_steps"`
	CurrentStep       string                 `json:"current_step,omitempty"`
	Feedback          *FeedbackResponse      `json:"feedback,omitempty"`
	Department        string                 `json:"department"`
	IsCritical        bool                   `json:"is_critical"`
}

// NewComplaintResponse maps a domain complaint.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	resp := ComplaintResponse{
		ID:                c.ID,
		UserID:            c.UserID,
		UserName:          c.UserName,
		Description:       c.Description,
		Category:          c.Category,
		Photo:             c.Photo,
		Location:          c.Location,
		Status:            c.Status,
		DateRaised:        c.DateRaised,
		SLADeadline:       c.SLADeadline,
		Upvotes:           c.Upvotes,
		AssignedAdminID:   c.AssignedAdminID,
		AssignedAdminName: c.AssignedAdminName,
		ProgressSteps:     c.ProgressSteps,
		CurrentStep:       c.CurrentStep,
		Department:        c.Department,
		IsCritical:        c.IsCritical,
	}
	if c.Feedback != nil {
		resp.Feedback = &FeedbackResponse{Rating: c.Feedback.Rating, Comment: c.Feedback.Comment}
	}
	return resp
}
