package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/membership-service/internal/api/dto"
	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/service"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// AuthHandler exposes login, registration and token endpoints.
type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{auth: authService, users: userService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	result, err := h.auth.Authenticate(c.UserContext(), req.UserName, req.Password, req.RememberMe)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		UserName:  result.UserName,
		FirstName: result.FirstName,
		LastName:  result.LastName,
	}})
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	user, err := h.users.Register(c.UserContext(), service.RegisterInput{
		UserName:  req.UserName,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		DOB:       req.DOB,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewUserResponse(user, nil),
	})
}

// Verify handles POST /auth/verify.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	claims, err := h.auth.VerifyToken(req.Token)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.ClaimsResponse{
		Subject:   claims.Subject,
		Email:     claims.Email,
		GivenName: claims.GivenName,
		Roles:     claims.RoleNames(),
		Name:      claims.Name,
	}})
}

// ChangePassword handles POST /auth/password/change for the caller.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	if err := h.auth.ChangePassword(c.UserContext(), principal.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
