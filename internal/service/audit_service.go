package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/wallet-service/internal/events"
)

// AuditService records domain events as structured log entries.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.record)
	a.dispatcher.Subscribe(events.EventUserDeleted, a.record)
	a.dispatcher.Subscribe(events.EventGroupCreated, a.record)
	a.dispatcher.Subscribe(events.EventGroupMembersChanged, a.record)
	a.dispatcher.Subscribe(events.EventGroupDeleted, a.record)
	a.dispatcher.Subscribe(events.EventTransactionRecorded, a.record)
	a.dispatcher.Subscribe(events.EventTransactionsDeleted, a.record)
}

// publish emits an event through the dispatcher. A nil dispatcher means
// auditing is disabled for the caller.
func publish(ctx context.Context, d events.Dispatcher, eventType events.EventType, subject string, payload interface{}) {
	if d == nil {
		return
	}
	_ = d.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}

func (a *AuditService) record(_ context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("subject", event.Subject),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload),
	)
	return nil
}
