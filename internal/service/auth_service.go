package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/events"
	"github.com/spec-kit/membership-service/internal/repository"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// AuthResult carries the issued token plus display fields for the caller.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	UserName  string
	FirstName string
	LastName  string
}

// AuthService coordinates credential verification and token issuance.
type AuthService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	tokens     *auth.TokenManager
	signIns    *SignInRecorder
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for auth flows.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	RoleRepo       repository.RoleRepository
	TokenManager   *auth.TokenManager
	SignInRecorder *SignInRecorder
	Dispatcher     events.Dispatcher
	BcryptCost     int
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		roles:      deps.RoleRepo,
		tokens:     deps.TokenManager,
		signIns:    deps.SignInRecorder,
		dispatcher: deps.Dispatcher,
		bcryptCost: deps.BcryptCost,
	}
}

// Authenticate verifies the credential pair and issues a signed token.
// A missing user and a wrong password produce the identical error so that
// usernames cannot be enumerated.
func (s *AuthService) Authenticate(ctx context.Context, userName, password string, rememberMe bool) (*AuthResult, error) {
	if userName == "" || password == "" {
		return nil, apperrors.NewInvalidCredentials()
	}

	user, err := s.users.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.MapError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.signIns.RecordFailure(ctx, user.ID)
		return nil, apperrors.NewInvalidCredentials()
	}

	roles, err := s.roles.ListNamesForUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	token, expiresAt, err := s.tokens.Issue(auth.BuildClaims(user, roles))
	if err != nil {
		return nil, apperrors.NewTokenIssuanceError(err)
	}

	s.signIns.RecordSuccess(ctx, user.ID, rememberMe)
	s.publish(ctx, events.EventUserAuthenticated, user.ID, events.UserAuthenticatedPayload{
		UserName:   user.UserName,
		RememberMe: rememberMe,
	})

	return &AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		UserName:  user.UserName,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

// VerifyToken checks a previously issued token and returns its claim set.
func (s *AuthService) VerifyToken(tokenStr string) (*auth.ClaimSet, error) {
	claims, err := s.tokens.Verify(tokenStr)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			return nil, apperrors.NewUnauthorized("token expired")
		case errors.Is(err, auth.ErrTokenSignatureInvalid):
			return nil, apperrors.NewUnauthorized("token signature invalid")
		default:
			return nil, apperrors.NewUnauthorized("token malformed")
		}
	}
	return claims, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}

	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
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
