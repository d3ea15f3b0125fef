package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"influencer-dashboard/internal/models"
	"influencer-dashboard/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events. A nil publisher or one
// without a producer drops events, so exports work without Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer, logger: util.GetLogger()}
}

// NewReportExportedEvent builds the event recorded for one CSV download
func NewReportExportedEvent(kind string, rows int, sessionID string, sel models.Selection) *models.ReportExportedEvent {
	return &models.ReportExportedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeReportExported,
			Timestamp: time.Now().UTC(),
		},
		ExportKind: kind,
		Rows:       rows,
		SessionID:  sessionID,
		Selection:  sel,
	}
}

// PublishReportExported publishes ReportExported event
func (ep *EventPublisher) PublishReportExported(ctx context.Context, event *models.ReportExportedEvent) error {
	if ep == nil || ep.producer == nil {
		return nil
	}
	key := fmt.Sprintf("export-%s", event.ExportKind)
	if err := ep.producer.PublishEvent(ctx, key, event); err != nil {
		util.ExportEventsFailedTotal.Inc()
		return err
	}
	return nil
}

// EventHandler handles incoming events
type EventHandler struct {
	onReportExported func(context.Context, *models.ReportExportedEvent) error
	logger           *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnReportExported registers a handler for ReportExported events
func (eh *EventHandler) OnReportExported(handler func(context.Context, *models.ReportExportedEvent) error) {
	eh.onReportExported = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeReportExported:
		if eh.onReportExported != nil {
			var event models.ReportExportedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ReportExported event: %w", err)
			}
			return eh.onReportExported(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
