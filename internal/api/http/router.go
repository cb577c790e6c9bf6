package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civic-report/civic-report-service/internal/api/http/handlers"
	"github.com/civic-report/civic-report-service/internal/auth"
	"github.com/civic-report/civic-report-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/register/admin", cfg.Auth.RegisterAdmin)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Put("/profile", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.UpdateProfile)

	complaints := app.Group("/complaints")
	complaints.Get("", cfg.Complaints.ListCommunity)
	complaints.Get("/mine", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleCitizen), cfg.Complaints.ListMine)
	complaints.Get("/department", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleDepartmentAdmin, domain.RoleSuperAdmin), cfg.Complaints.ListDepartment)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Post("", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleCitizen), cfg.Complaints.Create)
	complaints.Put("/:id", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleCitizen), cfg.Complaints.Update)
	complaints.Post("/:id/upvote", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Complaints.Upvote)
	complaints.Post("/:id/assign", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleDepartmentAdmin), cfg.Complaints.Assign)
	complaints.Put("/:id/progress", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleDepartmentAdmin), cfg.Complaints.UpdateProgress)
	complaints.Post("/:id/resolve", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleDepartmentAdmin), cfg.Complaints.Resolve)
	complaints.Post("/:id/feedback", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleCitizen), cfg.Complaints.AddFeedback)

	stats := app.Group("/stats")
	stats.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Stats.Me)
	stats.Get("/department", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleDepartmentAdmin, domain.RoleSuperAdmin), cfg.Stats.Department)
	stats.Get("/community", cfg.Stats.Community)
}
