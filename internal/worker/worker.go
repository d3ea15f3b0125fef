package worker

import (
	"context"

	"influencer-dashboard/internal/broker"
	"influencer-dashboard/internal/models"
	"influencer-dashboard/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// AuditRecorder persists export events
type AuditRecorder interface {
	RecordExport(ctx context.Context, event *models.ReportExportedEvent) (bool, error)
}

// MessageSource delivers messages to a handler until ctx is cancelled
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// AuditWorker records every downloaded export in the audit table
type AuditWorker struct {
	consumer     MessageSource
	eventHandler *broker.EventHandler
	recorder     AuditRecorder
	logger       *zap.Logger
}

// NewAuditWorker creates a new audit worker
func NewAuditWorker(consumer MessageSource, recorder AuditRecorder) *AuditWorker {
	w := &AuditWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		recorder:     recorder,
		logger:       util.GetLogger(),
	}
	w.eventHandler.OnReportExported(w.handleReportExported)
	return w
}

// Start starts the worker
func (w *AuditWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting audit worker")
	return w.consumer.StartConsuming(ctx, w.HandleMessage)
}

// HandleMessage processes one consumed message
func (w *AuditWorker) HandleMessage(ctx context.Context, msg kafka.Message) error {
	return w.eventHandler.HandleMessage(ctx, msg)
}

// Stop stops the worker
func (w *AuditWorker) Stop() error {
	w.logger.Info("Stopping audit worker")
	return w.consumer.Close()
}

func (w *AuditWorker) handleReportExported(ctx context.Context, event *models.ReportExportedEvent) error {
	ctx, span := util.StartSpan(ctx, "AuditWorker.HandleReportExported")
	defer span.End()

	recorded, err := w.recorder.RecordExport(ctx, event)
	if err != nil {
		return err
	}
	if !recorded {
		w.logger.Info("Export event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	util.ExportAuditsRecordedTotal.Inc()
	w.logger.Info("Export recorded",
		zap.String("event_id", event.EventID),
		zap.String("kind", event.ExportKind),
		zap.Int("rows", event.Rows))
	return nil
}
