package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/membership-service/internal/config"
	"github.com/spec-kit/membership-service/internal/events"
)

// AuditService records an audit trail for account and role changes.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger, cfg: cfg}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleUserRegistered)
	a.dispatcher.Subscribe(events.EventUserAuthenticated, a.handleUserAuthenticated)
	a.dispatcher.Subscribe(events.EventUserUpdated, a.handleUserChanged)
	a.dispatcher.Subscribe(events.EventUserDeleted, a.handleUserChanged)
	a.dispatcher.Subscribe(events.EventRolesAssigned, a.handleRolesAssigned)
}

func (a *AuditService) handleUserRegistered(ctx context.Context, event events.Event) error {
	a.logger.Info("UserRegistered", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	a.sendEmailNotificationStub(ctx, event)
	return nil
}

func (a *AuditService) handleUserAuthenticated(ctx context.Context, event events.Event) error {
	a.logger.Info("UserAuthenticated", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleUserChanged(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type), zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	a.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (a *AuditService) handleRolesAssigned(ctx context.Context, event events.Event) error {
	a.logger.Info("RolesAssigned", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	a.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (a *AuditService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.EmailFrom) == "" {
		return
	}
	a.logger.Debug("sendEmailNotificationStub",
		zap.String("from", a.cfg.EmailFrom),
		zap.String("user_id", event.UserID),
		zap.String("event_type", string(event.Type)))
}

func (a *AuditService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}
	a.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", a.cfg.WebhookURL),
		zap.String("user_id", event.UserID),
		zap.String("event_type", string(event.Type)))
}
