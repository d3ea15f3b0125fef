package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"influencer-dashboard/internal/broker"
	"influencer-dashboard/internal/loader"
	"influencer-dashboard/internal/models"
	"influencer-dashboard/internal/redisclient"
	"influencer-dashboard/internal/service"
	"influencer-dashboard/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ReadinessChecker reports whether the dataset has been loaded
type ReadinessChecker interface {
	Ready() bool
}

// ExportHistory lists recorded exports
type ExportHistory interface {
	ListExports(ctx context.Context, limit int) ([]models.ExportAudit, error)
}

// Handler contains HTTP handlers
type Handler struct {
	reports    *service.ReportService
	selections redisclient.SelectionStore
	events     *broker.EventPublisher
	readiness  ReadinessChecker
	history    ExportHistory
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler. events and history may be nil.
func NewHandler(
	reports *service.ReportService,
	selections redisclient.SelectionStore,
	events *broker.EventPublisher,
	readiness ReadinessChecker,
	history ExportHistory,
) *Handler {
	return &Handler{
		reports:    reports,
		selections: selections,
		events:     events,
		readiness:  readiness,
		history:    history,
		logger:     util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(sessionMiddleware())
	{
		v1.GET("/sections", h.listSections)
		v1.GET("/sections/:section", h.getSection)
		v1.GET("/filters", h.getFilters)

		v1.GET("/selection", h.getSelection)
		v1.PUT("/selection", h.putSelection)
		v1.DELETE("/selection", h.deleteSelection)

		v1.GET("/exports/filtered-tracking.csv", h.exportFilteredTracking)
		v1.GET("/exports/influencer-roas.csv", h.exportInfluencerROAS)
		v1.GET("/exports/history", h.exportHistory)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once the dataset is loaded
func (h *Handler) readinessCheck(c *gin.Context) {
	if h.readiness != nil && !h.readiness.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"time":   time.Now().Unix(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listSections returns the navigation in display order
func (h *Handler) listSections(c *gin.Context) {
	sections := make([]gin.H, 0, len(models.Sections()))
	for _, s := range models.Sections() {
		sections = append(sections, gin.H{
			"slug":  s,
			"title": s.Title(),
			"path":  "/api/v1/sections/" + string(s),
		})
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// getSection renders one section for the request's selection
func (h *Handler) getSection(c *gin.Context) {
	section, err := models.ParseSection(c.Param("section"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Unknown section",
			"details": err.Error(),
		})
		return
	}

	sel := h.resolveSelection(c)
	payload, err := h.reports.Section(c.Request.Context(), section, sel)
	if err != nil {
		h.respondReportError(c, "Failed to build section", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"section":   section,
		"title":     section.Title(),
		"selection": sel,
		"data":      payload,
	})
}

// getFilters returns the available filter values, which are also the defaults.
// An empty option is requested in a query string as BlankQueryValue.
func (h *Handler) getFilters(c *gin.Context) {
	opts, err := h.reports.Options(c.Request.Context())
	if err != nil {
		h.respondReportError(c, "Failed to load filters", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"options":           opts,
		"defaults":          opts,
		"blank_query_value": BlankQueryValue,
	})
}

// exportHistory lists the most recent recorded exports
func (h *Handler) exportHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Export history is not enabled",
		})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit",
			})
			return
		}
		limit = n
	}

	audits, err := h.history.ListExports(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list exports",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exports": audits})
}

func (h *Handler) respondReportError(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, loader.ErrDatasetUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, models.ErrUnknownSection):
		status = http.StatusNotFound
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
	}
	c.JSON(status, gin.H{
		"error":   msg,
		"details": err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
