package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// RequireAuthenticated ensures the caller presented a valid token.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireRole ensures the principal holds at least one of the allowed roles.
func RequireRole(allowed ...string) fiber.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		for _, role := range principal.Claims.RoleNames() {
			if _, exists := allowedSet[role]; exists {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("insufficient role")
	}
}
