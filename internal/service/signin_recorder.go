package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/membership-service/internal/persistence"
)

const (
	lastLoginKeyPrefix     = "signin:last:"
	failedAttemptKeyPrefix = "signin:failed:"

	lastLoginTTL         = 30 * 24 * time.Hour
	lastLoginRememberTTL = 90 * 24 * time.Hour
	failedAttemptTTL     = 15 * time.Minute
)

// SignInRecorder tracks sign-in activity in Redis. Recording is strictly
// best-effort: a Redis outage never fails an authentication.
type SignInRecorder struct {
	client *redis.Client
	logger *zap.Logger
}

// NewSignInRecorder builds a recorder over the shared Redis connection.
func NewSignInRecorder(r *persistence.Redis, logger *zap.Logger) *SignInRecorder {
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	return &SignInRecorder{client: client, logger: logger}
}

// RecordSuccess stores the last-login timestamp and clears the failed
// attempt counter. rememberMe extends how long the record is kept.
func (s *SignInRecorder) RecordSuccess(ctx context.Context, userID string, rememberMe bool) {
	if s == nil || s.client == nil {
		return
	}

	ttl := lastLoginTTL
	if rememberMe {
		ttl = lastLoginRememberTTL
	}

	if err := s.client.Set(ctx, lastLoginKeyPrefix+userID, time.Now().UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		s.logger.Warn("record last login", zap.String("user_id", userID), zap.Error(err))
	}
	if err := s.client.Del(ctx, failedAttemptKeyPrefix+userID).Err(); err != nil {
		s.logger.Warn("clear failed attempts", zap.String("user_id", userID), zap.Error(err))
	}
}

// RecordFailure increments the failed attempt counter for the user.
func (s *SignInRecorder) RecordFailure(ctx context.Context, userID string) {
	if s == nil || s.client == nil {
		return
	}

	key := failedAttemptKeyPrefix + userID
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		s.logger.Warn("record failed attempt", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, failedAttemptTTL).Err(); err != nil {
			s.logger.Warn("expire failed attempts", zap.String("user_id", userID), zap.Error(err))
		}
	}
}

// FailedAttempts returns the current failed attempt count for the user.
func (s *SignInRecorder) FailedAttempts(ctx context.Context, userID string) (int64, error) {
	if s == nil || s.client == nil {
		return 0, nil
	}

	count, err := s.client.Get(ctx, failedAttemptKeyPrefix+userID).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return count, err
}
