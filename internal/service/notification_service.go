package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/crisis-followup-service/internal/config"
	"github.com/spec-kit/crisis-followup-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
// Delivery transport is out of scope; the stubs log what would be sent.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCrisisEventCreated, n.handleCrisisEventCreated)
	n.dispatcher.Subscribe(events.EventContactLogged, n.handleContactLogged)
	n.dispatcher.Subscribe(events.EventFollowUpCompleted, n.handleFollowUpCompleted)
}

func (n *NotificationService) handleCrisisEventCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("CrisisEventCreated", zap.String("event_id", event.EventID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleContactLogged(ctx context.Context, event events.Event) error {
	n.logger.Info("ContactLogged", zap.String("event_id", event.EventID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleFollowUpCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("FollowUpCompleted", zap.String("event_id", event.EventID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_id", event.EventID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_id", event.EventID),
		zap.String("event_type", string(event.Type)))
}
