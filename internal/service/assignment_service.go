package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/events"
	"github.com/spec-kit/membership-service/internal/repository"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// RoleAssignmentService reconciles a user's role membership against a
// desired-state request.
type RoleAssignmentService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	dispatcher events.Dispatcher
}

// NewRoleAssignmentService builds the service.
func NewRoleAssignmentService(users repository.UserRepository, roles repository.RoleRepository, dispatcher events.Dispatcher) *RoleAssignmentService {
	return &RoleAssignmentService{users: users, roles: roles, dispatcher: dispatcher}
}

// Assign applies the desired membership set to the user. Removals are
// applied before additions; both halves are idempotent, so applying the
// same request twice leaves membership identical to applying it once.
// There is no rollback across the two halves: on partial failure the store
// keeps the applied half and the caller retries.
func (s *RoleAssignmentService) Assign(ctx context.Context, userID string, desired []domain.RoleSelection) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}

	toRemove, toAdd := splitSelections(desired)

	if err := s.roles.RemoveUserFromRoles(ctx, userID, toRemove); err != nil {
		return apperrors.MapError(err)
	}

	roleIDs := make([]string, 0, len(toAdd))
	for _, name := range toAdd {
		role, err := s.roles.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("role", map[string]any{"role": name})
			}
			return apperrors.MapError(err)
		}
		roleIDs = append(roleIDs, role.ID)
	}

	if err := s.roles.AddUserToRoles(ctx, userID, roleIDs); err != nil {
		return apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventRolesAssigned,
			UserID:    userID,
			Timestamp: time.Now().UTC(),
			Payload:   events.RolesAssignedPayload{Added: toAdd, Removed: toRemove},
		})
	}
	return nil
}

// splitSelections partitions the desired set into removals and additions.
// Duplicate role names within one request resolve last-value-wins. The
// results are sorted so the reconciliation order is deterministic.
func splitSelections(desired []domain.RoleSelection) (toRemove, toAdd []string) {
	selected := make(map[string]bool, len(desired))
	for _, sel := range desired {
		selected[sel.Name] = sel.Selected
	}

	for name, keep := range selected {
		if keep {
			toAdd = append(toAdd, name)
		} else {
			toRemove = append(toRemove, name)
		}
	}
	sort.Strings(toRemove)
	sort.Strings(toAdd)
	return toRemove, toAdd
}
