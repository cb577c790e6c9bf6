package service

import (
	"context"
	"math"

	"github.com/civic-report/civic-report-service/internal/domain"
	"github.com/civic-report/civic-report-service/internal/state"
	apperrors "github.com/civic-report/civic-report-service/pkg/util"
)

// StatsService computes the read-side aggregations the dashboards show.
// Everything is derived on demand from the aggregate; nothing is stored.
type StatsService struct {
	store *state.Store
}

// NewStatsService constructs the service.
func NewStatsService(store *state.Store) *StatsService {
	return &StatsService{store: store}
}

// CitizenStats summarizes a citizen's own complaints.
type CitizenStats struct {
	Total      int `json:"total"`
	Resolved   int `json:"resolved"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Escalated  int `json:"escalated"`
}

// DepartmentStats summarizes a department admin's workload.
type DepartmentStats struct {
	Department         string      `json:"department"`
	Total              int         `json:"total"`
	Solved             int         `json:"solved"`
	YetToAttend        int         `json:"yet_to_attend"`
	Pending            int         `json:"pending"`
	SolvedByMe         int         `json:"solved_by_me"`
	AverageRating      float64     `json:"average_rating"`
	RatingCounts       map[int]int `json:"rating_counts"`
	ResolutionRatePct  int         `json:"resolution_rate_pct"`
	ReviewCount        int         `json:"review_count"`
	CriticalComplaints int         `json:"critical_complaints"`
}

// CommunityStats summarizes the public feed.
type CommunityStats struct {
	Total             int            `json:"total"`
	UniqueReporters   int            `json:"unique_reporters"`
	Solved            int            `json:"solved"`
	Open              int            `json:"open"`
	ByCategory        map[string]int `json:"by_category"`
	ResolutionRatePct int            `json:"resolution_rate_pct"`
}

// ForCitizen computes stats over the user's own complaints.
func (s *StatsService) ForCitizen(_ context.Context, userID string) CitizenStats {
	stats := CitizenStats{}
	for _, c := range s.store.State().Complaints {
		if c.UserID != userID {
			continue
		}
		stats.Total++
		switch c.Status {
		case domain.ComplaintStatusResolved:
			stats.Resolved++
		case domain.ComplaintStatusPending:
			stats.Pending++
		case domain.ComplaintStatusAssigned, domain.ComplaintStatusInProgress:
			stats.InProgress++
		case domain.ComplaintStatusEscalated:
			stats.Escalated++
		}
	}
	return stats
}

// ForDepartment computes the admin dashboard numbers.
func (s *StatsService) ForDepartment(_ context.Context, admin domain.User) (*DepartmentStats, error) {
	if !admin.IsDepartmentAdmin() {
		return nil, apperrors.NewForbidden("department admin required")
	}

	stats := &DepartmentStats{
		Department:   admin.Department,
		RatingCounts: make(map[int]int),
	}
	ratingSum := 0
	for _, c := range s.store.State().Complaints {
		if c.Department != admin.Department {
			continue
		}
		stats.Total++
		if c.IsCritical {
			stats.CriticalComplaints++
		}
		if c.Status == domain.ComplaintStatusResolved {
			stats.Solved++
			if c.AssignedAdminID == admin.ID {
				stats.SolvedByMe++
			}
			if c.Feedback != nil {
				stats.ReviewCount++
				stats.RatingCounts[c.Feedback.Rating]++
				ratingSum += c.Feedback.Rating
			}
		}
		if c.AssignedAdminID == "" && c.Status == domain.ComplaintStatusPending {
			stats.YetToAttend++
		}
		if c.AssignedAdminID == admin.ID &&
			(c.Status == domain.ComplaintStatusAssigned || c.Status == domain.ComplaintStatusInProgress) {
			stats.Pending++
		}
	}
	if stats.ReviewCount > 0 {
		stats.AverageRating = math.Round(float64(ratingSum)/float64(stats.ReviewCount)*10) / 10
	}
	if stats.Total > 0 {
		stats.ResolutionRatePct = int(math.Round(float64(stats.Solved) / float64(stats.Total) * 100))
	}
	return stats, nil
}

// ForCommunity computes the public dashboard numbers over an optionally
// filtered feed.
func (s *StatsService) ForCommunity(_ context.Context, filter CommunityFilter) CommunityStats {
	stats := CommunityStats{ByCategory: make(map[string]int)}
	reporters := make(map[string]struct{})

	for _, c := range s.store.State().Complaints {
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Since != nil && c.DateRaised.Before(*filter.Since) {
			continue
		}
		stats.Total++
		reporters[c.UserID] = struct{}{}
		stats.ByCategory[c.Category]++
		if c.Status == domain.ComplaintStatusResolved {
			stats.Solved++
		} else {
			stats.Open++
		}
	}
	stats.UniqueReporters = len(reporters)
	if stats.Total > 0 {
		stats.ResolutionRatePct = int(math.Round(float64(stats.Solved) / float64(stats.Total) * 100))
	}
	return stats
}
