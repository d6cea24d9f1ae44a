package dto

import (
	"time"

	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/service"
)

// LoginRequest payload for authentication.
type LoginRequest struct {
	UserName   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	UserName  string     `json:"username" validate:"required,min=3"`
	Email     string     `json:"email" validate:"required,email"`
	Password  string     `json:"password" validate:"required,min=8"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone"`
	DOB       *time.Time `json:"dob"`
}

// UserUpdateRequest payload for profile updates.
type UserUpdateRequest struct {
	Email     string     `json:"email" validate:"required,email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone"`
	DOB       *time.Time `json:"dob"`
}

// RoleAssignRequest payload expressing desired role membership.
type RoleAssignRequest struct {
	Roles []domain.RoleSelection `json:"roles" validate:"required,min=1"`
}

// ChangePasswordRequest payload for password changes.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// VerifyTokenRequest payload for token verification.
type VerifyTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserName  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// ClaimsResponse echoes a verified token's claim set.
type ClaimsResponse struct {
	Subject   string   `json:"sub"`
	Email     string   `json:"email"`
	GivenName string   `json:"given_name"`
	Roles     []string `json:"roles"`
	Name      string   `json:"name"`
}

// UserResponse is the public shape of a user record.
type UserResponse struct {
	ID        string     `json:"id"`
	UserName  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone"`
	DOB       *time.Time `json:"dob,omitempty"`
	Roles     []string   `json:"roles,omitempty"`
}

// PagedUsersResponse is one page of users plus the total row count.
type PagedUsersResponse struct {
	Items        []UserResponse `json:"items"`
	PageIndex    int            `json:"page_index"`
	PageSize     int            `json:"page_size"`
	TotalRecords int            `json:"total_records"`
}

// NewUserResponse maps a domain user onto its public shape.
func NewUserResponse(user *domain.User, roles []string) UserResponse {
	return UserResponse{
		ID:        user.ID,
		UserName:  user.UserName,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		DOB:       user.DOB,
		Roles:     roles,
	}
}

// NewPagedUsersResponse maps a service page onto the response shape.
func NewPagedUsersResponse(page *service.PagedUsers) PagedUsersResponse {
	items := make([]UserResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, NewUserResponse(&page.Items[i], nil))
	}
	return PagedUsersResponse{
		Items:        items,
		PageIndex:    page.PageIndex,
		PageSize:     page.PageSize,
		TotalRecords: page.TotalRecords,
	}
}
