package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"influencer-dashboard/internal/broker"
	"influencer-dashboard/internal/export"
	"influencer-dashboard/internal/models"
	"influencer-dashboard/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

func setCSVHeaders(c *gin.Context, filename string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
}

// exportFilteredTracking downloads the filtered tracking rows
func (h *Handler) exportFilteredTracking(c *gin.Context) {
	ctx, span := util.StartSpan(c.Request.Context(), "Handler.ExportFilteredTracking")
	defer span.End()

	sel := h.resolveSelection(c)
	report, err := h.reports.Run(ctx, sel)
	if err != nil {
		h.respondReportError(c, "Failed to build export", err)
		return
	}

	setCSVHeaders(c, export.FilteredTrackingFile)
	c.Status(http.StatusOK)
	rows, err := export.WriteFilteredTracking(c.Writer, report.Dataset.TrackingExportColumns(), report.View.Tracking)
	if err != nil {
		h.logger.Error("Failed to write export", zap.String("kind", models.ExportFilteredTracking), zap.Error(err))
		return
	}
	h.exported(ctx, c, models.ExportFilteredTracking, rows, sel)
}

// exportInfluencerROAS downloads the per-influencer metric table
func (h *Handler) exportInfluencerROAS(c *gin.Context) {
	ctx, span := util.StartSpan(c.Request.Context(), "Handler.ExportInfluencerROAS")
	defer span.End()

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid export format",
			"details": err.Error(),
		})
		return
	}

	sel := h.resolveSelection(c)
	report, err := h.reports.Run(ctx, sel)
	if err != nil {
		h.respondReportError(c, "Failed to build export", err)
		return
	}

	setCSVHeaders(c, export.InfluencerROASFile)
	c.Status(http.StatusOK)
	rows, err := export.WriteInfluencerROAS(c.Writer, format, report.Metrics)
	if err != nil {
		h.logger.Error("Failed to write export", zap.String("kind", models.ExportInfluencerROAS), zap.Error(err))
		return
	}
	h.exported(ctx, c, models.ExportInfluencerROAS, rows, sel)
}

// exported counts the download and publishes its event. Publishing never
// fails the download.
func (h *Handler) exported(ctx context.Context, c *gin.Context, kind string, rows int, sel models.Selection) {
	util.ExportsTotal.WithLabelValues(kind).Inc()

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := broker.NewReportExportedEvent(kind, rows, sessionID(c), sel)
	if err := h.events.PublishReportExported(pubCtx, event); err != nil {
		h.logger.Warn("Failed to publish export event",
			zap.String("kind", kind),
			zap.String("event_id", event.EventID),
			zap.Error(err))
	}
}
