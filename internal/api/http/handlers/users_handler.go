package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/membership-service/internal/api/dto"
	"github.com/spec-kit/membership-service/internal/service"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// UsersHandler exposes directory and role assignment endpoints.
type UsersHandler struct {
	users       *service.UserService
	assignments *service.RoleAssignmentService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, assignmentService *service.RoleAssignmentService) *UsersHandler {
	return &UsersHandler{users: userService, assignments: assignmentService}
}

// GetByID handles GET /users/:id.
func (h *UsersHandler) GetByID(c *fiber.Ctx) error {
	profile, err := h.users.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(profile.User, profile.Roles)})
}

// List handles GET /users with keyword and 1-indexed pagination.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	keyword := c.Query("keyword")
	pageIndex := c.QueryInt("page_index", 1)
	pageSize := c.QueryInt("page_size", 10)

	page, err := h.users.GetPaging(c.UserContext(), keyword, pageIndex, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPagedUsersResponse(page)})
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	err := h.users.Update(c.UserContext(), service.UpdateInput{
		ID:        c.Params("id"),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		DOB:       req.DOB,
	})
	if err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AssignRoles handles PUT /users/:id/roles.
func (h *UsersHandler) AssignRoles(c *fiber.Ctx) error {
	var req dto.RoleAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	if err := h.assignments.Assign(c.UserContext(), c.Params("id"), req.Roles); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
