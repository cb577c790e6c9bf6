package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civic-report/civic-report-service/internal/auth"
	"github.com/civic-report/civic-report-service/internal/service"
	apperrors "github.com/civic-report/civic-report-service/pkg/util"
)

// StatsHandler exposes the dashboard aggregations.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{service: statsService}
}

// Me GET /stats/me.
func (h *StatsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	stats := h.service.ForCitizen(c.Context(), principal.User.ID)
	return c.JSON(fiber.Map{"data": stats})
}

// Department GET /stats/department.
func (h *StatsHandler) Department(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	stats, err := h.service.ForDepartment(c.Context(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Community GET /stats/community.
func (h *StatsHandler) Community(c *fiber.Ctx) error {
	stats := h.service.ForCommunity(c.Context(), parseCommunityFilter(c))
	return c.JSON(fiber.Map{"data": stats})
}
