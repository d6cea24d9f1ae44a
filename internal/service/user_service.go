package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/events"
	"github.com/spec-kit/membership-service/internal/repository"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

const defaultPageSize = 10

// RegisterInput carries the fields required to create a member account.
type RegisterInput struct {
	UserName  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	DOB       *time.Time
}

// UpdateInput carries the mutable profile fields.
type UpdateInput struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	DOB       *time.Time
}

// UserProfile is a user record together with its role names.
type UserProfile struct {
	User  *domain.User
	Roles []string
}

// PagedUsers is one page of user records plus the total row count.
type PagedUsers struct {
	Items        []domain.User
	PageIndex    int
	PageSize     int
	TotalRecords int
}

// UserService implements directory operations over member accounts.
type UserService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository, dispatcher events.Dispatcher, bcryptCost int) *UserService {
	return &UserService{users: users, roles: roles, dispatcher: dispatcher, bcryptCost: bcryptCost}
}

// Register creates a new account. Duplicate usernames and duplicate emails
// are rejected with distinct messages, username checked first. The unique
// indexes on the users table backstop the check-then-create race.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.UserName == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("username, email and password are required", nil)
	}

	if _, err := s.users.GetByUserName(ctx, input.UserName); err == nil {
		return nil, apperrors.NewConflict("username already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		UserName:     input.UserName,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		DOB:          input.DOB,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		UserName: user.UserName,
		Email:    user.Email,
	})
	return user, nil
}

// Update copies the mutable profile fields onto an existing account. The
// target email must not belong to another user; the user's own record is
// excluded from that check.
func (s *UserService) Update(ctx context.Context, input UpdateInput) error {
	if owner, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		if owner.ID != input.ID {
			return apperrors.NewConflict("email already exists", nil)
		}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}

	user, err := s.users.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}

	user.Email = input.Email
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Phone = input.Phone
	user.DOB = input.DOB

	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventUserUpdated, user.ID, events.UserUpdatedPayload{Email: user.Email})
	return nil
}

// Delete removes an account permanently.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventUserDeleted, id, events.UserDeletedPayload{UserName: user.UserName})
	return nil
}

// GetByID returns the profile and current role names for an account.
func (s *UserService) GetByID(ctx context.Context, id string) (*UserProfile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}

	roles, err := s.roles.ListNamesForUser(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &UserProfile{User: user, Roles: roles}, nil
}

// GetPaging returns one 1-indexed page of accounts. The keyword filters by
// substring match on username or phone.
func (s *UserService) GetPaging(ctx context.Context, keyword string, pageIndex, pageSize int) (*PagedUsers, error) {
	if pageIndex < 1 {
		pageIndex = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	total, err := s.users.Count(ctx, keyword)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	items, err := s.users.List(ctx, keyword, pageSize, (pageIndex-1)*pageSize)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &PagedUsers{
		Items:        items,
		PageIndex:    pageIndex,
		PageSize:     pageSize,
		TotalRecords: total,
	}, nil
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
