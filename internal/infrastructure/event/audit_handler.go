package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/openbiz/backend/internal/domain/shared"
	"github.com/openbiz/backend/internal/infrastructure/logger"
)

// AuditLogHandler writes one structured log line per domain event
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates the handler. It subscribes to every event type.
func NewAuditLogHandler(l *zap.Logger) *AuditLogHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &AuditLogHandler{logger: l.Named("audit")}
}

func (h *AuditLogHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", evt.EventType()),
		zap.String("event_id", evt.EventID().String()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.String("tenant_id", evt.TenantID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	}
	if id := logger.RequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	h.logger.Info("domain event", fields...)
	return nil
}

func (h *AuditLogHandler) EventTypes() []string { return nil }
