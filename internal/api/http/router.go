package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/membership-service/internal/api/http/handlers"
	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/verify", cfg.Auth.Verify)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	users.Get("/:id", cfg.Users.GetByID)
	users.Put("/:id", cfg.Users.Update)

	admin := users.Group("", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/", cfg.Users.List)
	admin.Delete("/:id", cfg.Users.Delete)
	admin.Put("/:id/roles", cfg.Users.AssignRoles)
}
