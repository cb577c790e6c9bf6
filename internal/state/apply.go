package state

import (
	"github.com/civic-report/civic-report-service/internal/domain"
)

// Apply computes the next aggregate state for an action. It is pure and
// deterministic: no I/O, no clock reads, and the returned state shares no
// mutable memory with the input. The machine never errors; an action whose
// target does not exist returns the input state unchanged.
func Apply(s domain.AppState, action Action) domain.AppState {
	switch a := action.(type) {
	case Login:
		next := cloneState(s)
		user := a.User
		next.CurrentUser = &user
		next.IsAuthenticated = true
		return next

	case Logout:
		next := cloneState(s)
		next.CurrentUser = nil
		next.IsAuthenticated = false
		return next

	case RegisterUser:
		if _, exists := s.UserByEmail(a.User.Email); exists {
			return s
		}
		next := cloneState(s)
		next.Users = append(next.Users, a.User)
		return next

	case UpdateUser:
		if _, exists := s.UserByID(a.User.ID); !exists {
			return s
		}
		next := cloneState(s)
		for i := range next.Users {
			if next.Users[i].ID == a.User.ID {
				next.Users[i] = a.User
			}
		}
		if next.CurrentUser != nil && next.CurrentUser.ID == a.User.ID {
			user := a.User
			next.CurrentUser = &user
		}
		return next

	case SubmitComplaint:
		next := cloneState(s)
		complaint := cloneComplaint(a.Complaint)
		complaint.Status = domain.ComplaintStatusPending
		complaint.Department = domain.ResolveDepartment(complaint.Category)
		complaint.IsCritical = false
		complaint.Upvotes = 0
		complaint.UpvotedBy = []string{}
		next.Complaints = append(next.Complaints, complaint)
		return next

	case UpdateComplaint:
		return patchComplaint(s, a.ComplaintID, func(c *domain.Complaint) {
			if a.Description != nil {
				c.Description = *a.Description
			}
			if a.Location != nil {
				c.Location = *a.Location
			}
			if a.Photo != nil {
				c.Photo = *a.Photo
			}
		})

	case UpvoteComplaint:
		existing, ok := s.ComplaintByID(a.ComplaintID)
		if !ok || existing.UpvotedByUser(a.UserID) {
			return s
		}
		return patchComplaint(s, a.ComplaintID, func(c *domain.Complaint) {
			c.Upvotes++
			c.UpvotedBy = append(c.UpvotedBy, a.UserID)
			if c.Upvotes >= domain.CriticalUpvoteThreshold && !c.IsCritical {
				c.IsCritical = true
				c.SLADeadline = c.DateRaised.Add(domain.CriticalSLA)
			}
		})

	case AssignComplaint:
		return patchComplaint(s, a.ComplaintID, func(c *domain.Complaint) {
			c.Status = domain.ComplaintStatusAssigned
			c.AssignedAdminID = a.AdminID
			c.AssignedAdminName = a.AdminName
		})

	case UpdateProgress:
		return patchComplaint(s, a.ComplaintID, func(c *domain.Complaint) {
			c.Status = domain.ComplaintStatusInProgress
			c.ProgressSteps = a.Steps
			c.CurrentStep = a.CurrentStep
		})

	case ResolveComplaint:
		return patchComplaint(s, a.ComplaintID, func(c *domain.Complaint) {
			c.Status = domain.ComplaintStatusResolved
		})

	case AddFeedback:
		return patchComplaint(s, a.ComplaintID, func(c *domain.Complaint) {
			feedback := a.Feedback
			c.Feedback = &feedback
		})

	case LoadState:
		return cloneState(a.State)
	}
	return s
}

// patchComplaint applies mutate to the matching complaint on a fresh clone.
// Unknown ids leave the state untouched.
func patchComplaint(s domain.AppState, complaintID string, mutate func(*domain.Complaint)) domain.AppState {
	if _, ok := s.ComplaintByID(complaintID); !ok {
		return s
	}
	next := cloneState(s)
	for i := range next.Complaints {
		if next.Complaints[i].ID == complaintID {
			mutate(&next.Complaints[i])
		}
	}
	return next
}

func cloneState(s domain.AppState) domain.AppState {
	next := domain.AppState{
		IsAuthenticated: s.IsAuthenticated,
		Users:           make([]domain.User, len(s.Users)),
		Complaints:      make([]domain.Complaint, 0, len(s.Complaints)),
	}
	copy(next.Users, s.Users)
	if s.CurrentUser != nil {
		user := *s.CurrentUser
		next.CurrentUser = &user
	}
	for _, c := range s.Complaints {
		next.Complaints = append(next.Complaints, cloneComplaint(c))
	}
	return next
}

func cloneComplaint(c domain.Complaint) domain.Complaint {
	clone := c
	if c.UpvotedBy != nil {
		clone.UpvotedBy = make([]string, len(c.UpvotedBy))
		copy(clone.UpvotedBy, c.UpvotedBy)
	}
	if c.Feedback != nil {
		feedback := *c.Feedback
		clone.Feedback = &feedback
	}
	return clone
}

// Clone returns a deep copy of the aggregate, safe to hand to readers.
func Clone(s domain.AppState) domain.AppState {
	return cloneState(s)
}
