package service

import (
	"context"
	"fmt"
	"time"

	"influencer-dashboard/internal/models"
	"influencer-dashboard/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultPreviewRows caps each Home dataset preview
const DefaultPreviewRows = 50

// DatasetProvider returns the loaded, brand-normalized dataset
type DatasetProvider interface {
	Dataset(ctx context.Context) (*models.Dataset, error)
}

// Report is the result of one filter and aggregate pass
type Report struct {
	Dataset   *models.Dataset
	Selection models.Selection
	Options   models.FilterOptions
	View      models.FilteredView
	Names     map[string]string
	Metrics   []models.InfluencerMetric
	Summary   models.Summary
}

// ReportService runs the dashboard pipeline for a selection
type ReportService struct {
	datasets    DatasetProvider
	previewRows int
	logger      *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(datasets DatasetProvider, previewRows int) *ReportService {
	if previewRows <= 0 {
		previewRows = DefaultPreviewRows
	}
	return &ReportService{
		datasets:    datasets,
		previewRows: previewRows,
		logger:      util.GetLogger(),
	}
}

// Options returns the filter values available in the full dataset
func (s *ReportService) Options(ctx context.Context) (models.FilterOptions, error) {
	ds, err := s.datasets.Dataset(ctx)
	if err != nil {
		return models.FilterOptions{}, err
	}
	return Options(ds.Tracking), nil
}

// Run filters the dataset and computes the per-influencer metric table and
// the global summary shared by every section
func (s *ReportService) Run(ctx context.Context, sel models.Selection) (*Report, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.Run")
	defer span.End()

	ds, err := s.datasets.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	_, filterSpan := util.StartSpan(ctx, "ReportService.Filter")
	view := ApplyFilters(ds, sel)
	filterSpan.SetAttributes(
		attribute.Int("tracking_rows", len(view.Tracking)),
		attribute.Int("payout_rows", len(view.Payouts)),
	)
	filterSpan.End()

	_, aggSpan := util.StartSpan(ctx, "ReportService.Aggregate")
	names := ds.InfluencerNames()
	metrics := InfluencerMetrics(view, names)
	summary := Summarize(view, metrics)
	aggSpan.End()

	util.ReportRunLatency.Observe(time.Since(start).Seconds())
	util.FilteredRows.Observe(float64(len(view.Tracking)))

	s.logger.Debug("Report computed",
		zap.Int("tracking_rows", len(view.Tracking)),
		zap.Int("payout_rows", len(view.Payouts)),
		zap.Int("influencers", len(metrics)))

	return &Report{
		Dataset:   ds,
		Selection: sel,
		Options:   Options(ds.Tracking),
		View:      view,
		Names:     names,
		Metrics:   metrics,
		Summary:   summary,
	}, nil
}

// Section runs the pipeline and builds the payload of one section
func (s *ReportService) Section(ctx context.Context, section models.Section, sel models.Selection) (interface{}, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.Section", attribute.String("section", string(section)))
	defer span.End()

	if section.Title() == "" {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownSection, section)
	}

	report, err := s.Run(ctx, sel)
	if err != nil {
		return nil, err
	}
	util.ReportRunsTotal.WithLabelValues(string(section)).Inc()

	switch section {
	case models.SectionHome:
		return BuildHome(report.Dataset, s.previewRows), nil
	case models.SectionKeyMetrics:
		return BuildKeyMetrics(report), nil
	case models.SectionInfluencerRevenue:
		return BuildInfluencerRevenue(report), nil
	case models.SectionPlatformTrends:
		return BuildPlatformTrends(report), nil
	case models.SectionInsights:
		return BuildInsights(report), nil
	default:
		return BuildDownloads(report), nil
	}
}
