package service

import (
	"fmt"
	"strings"

	"influencer-dashboard/internal/models"
)

// Export download locations served by the HTTP API
const (
	FilteredTrackingPath = "/api/v1/exports/filtered-tracking.csv"
	InfluencerROASPath   = "/api/v1/exports/influencer-roas.csv"
)

var objectives = []string{
	"Monitor campaign performance across platforms and brands",
	"Track influencer payouts and revenues",
	"Calculate ROI and Incremental ROAS",
	"Provide actionable insights for decision-making",
}

// TablePreview is the first rows of one input table rendered as text
type TablePreview struct {
	Name      string     `json:"name"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"`
}

// DatasetCounts are the Home summary figures over the unfiltered dataset
type DatasetCounts struct {
	Influencers int `json:"influencers"`
	Posts       int `json:"posts"`
	Products    int `json:"products"`
}

// HomeSection introduces the dashboard. It ignores filters.
type HomeSection struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Objectives  []string       `json:"objectives"`
	Counts      DatasetCounts  `json:"counts"`
	Previews    []TablePreview `json:"previews"`
}

// SummaryDisplay is the Summary formatted the way the metric cards show it
type SummaryDisplay struct {
	TotalRevenue    string `json:"total_revenue"`
	TotalPayout     string `json:"total_payout"`
	ROAS            string `json:"roas"`
	IncrementalROAS string `json:"incremental_roas"`
	TopInfluencer   string `json:"top_influencer"`
	AvgROAS         string `json:"avg_roas"`
}

type KeyMetricsSection struct {
	Summary         models.Summary       `json:"summary"`
	Display         SummaryDisplay       `json:"display"`
	RevenueOverTime []models.DatePoint   `json:"revenue_over_time"`
	OrdersOverTime  []models.DatePoint   `json:"orders_over_time"`
	RevenueByBrand  []models.SeriesPoint `json:"revenue_by_brand"`
}

// ROASTableRow is the per-influencer table with display column names
type ROASTableRow struct {
	Influencer string        `json:"Influencer"`
	Revenue    float64       `json:"Revenue"`
	Payout     models.Number `json:"Payout"`
	ROAS       models.Number `json:"ROAS (x)"`
}

type InfluencerRevenueSection struct {
	TopInfluencers []models.InfluencerAmount `json:"top_influencers"`
	ROASTable      []ROASTableRow            `json:"roas_table"`
	Scatter        []models.ScatterPoint     `json:"revenue_vs_payout"`
}

type PlatformTrendsSection struct {
	RevenueByPlatform []models.SeriesPoint        `json:"revenue_by_platform"`
	IncrementalROAS   []models.IncrementalROASRow `json:"incremental_roas"`
	Heatmap           []models.HeatmapCell        `json:"campaign_platform_heatmap"`
}

type InsightsSection struct {
	Lines             []string                 `json:"lines"`
	TopPlatforms      []string                 `json:"top_platforms"`
	HighestROAS       *models.InfluencerMetric `json:"highest_roas,omitempty"`
	AvgROAS           models.Number            `json:"avg_roas"`
	ActiveInfluencers int                      `json:"active_influencers"`
}

// ExportLink describes one CSV download
type ExportLink struct {
	Kind     string `json:"kind"`
	Label    string `json:"label"`
	FileName string `json:"file_name"`
	Path     string `json:"path"`
	Rows     int    `json:"rows"`
}

type DownloadsSection struct {
	Exports []ExportLink `json:"exports"`
}

// BuildHome renders the objectives, counts and dataset previews
func BuildHome(ds *models.Dataset, previewRows int) HomeSection {
	return HomeSection{
		Title:       "Influencer Campaign Dashboard",
		Description: "An interactive dashboard to monitor influencer campaign performance, payouts, and brand ROI.",
		Objectives:  objectives,
		Counts: DatasetCounts{
			Influencers: len(ds.Influencers),
			Posts:       len(ds.Posts),
			Products:    ds.DistinctProducts(),
		},
		Previews: []TablePreview{
			preview("Influencers", ds.InfluencerColumns, len(ds.Influencers), previewRows, func(i int) func(string) string {
				return ds.Influencers[i].Cell
			}),
			preview("Posts", ds.PostColumns, len(ds.Posts), previewRows, func(i int) func(string) string {
				return ds.Posts[i].Cell
			}),
			preview("Tracking", ds.TrackingExportColumns(), len(ds.Tracking), previewRows, func(i int) func(string) string {
				return ds.Tracking[i].Cell
			}),
			preview("Payouts", ds.PayoutColumns, len(ds.Payouts), previewRows, func(i int) func(string) string {
				return ds.Payouts[i].Cell
			}),
		},
	}
}

func preview(name string, columns []string, total, limit int, row func(int) func(string) string) TablePreview {
	n := total
	if limit > 0 && n > limit {
		n = limit
	}
	p := TablePreview{
		Name:      name,
		Columns:   columns,
		Rows:      make([][]string, 0, n),
		TotalRows: total,
	}
	for i := 0; i < n; i++ {
		cell := row(i)
		values := make([]string, len(columns))
		for j, col := range columns {
			values[j] = cell(col)
		}
		p.Rows = append(p.Rows, values)
	}
	return p
}

// BuildKeyMetrics renders the summary cards and time series
func BuildKeyMetrics(r *Report) KeyMetricsSection {
	return KeyMetricsSection{
		Summary: r.Summary,
		Display: SummaryDisplay{
			TotalRevenue:    FormatCurrency(r.Summary.TotalRevenue),
			TotalPayout:     FormatCurrency(r.Summary.TotalPayout),
			ROAS:            FormatRatio(r.Summary.ROAS),
			IncrementalROAS: FormatRatio(r.Summary.IncrementalROAS),
			TopInfluencer:   r.Summary.TopInfluencer,
			AvgROAS:         FormatRatio(float64(r.Summary.AvgROAS)),
		},
		RevenueOverTime: RevenueOverTime(r.View.Tracking),
		OrdersOverTime:  OrdersOverTime(r.View.Tracking),
		RevenueByBrand:  RevenueByBrand(r.View.Tracking),
	}
}

// ROASTable renames the metric table columns for display
func ROASTable(metrics []models.InfluencerMetric) []ROASTableRow {
	rows := make([]ROASTableRow, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, ROASTableRow{
			Influencer: m.Name,
			Revenue:    m.Revenue,
			Payout:     m.TotalPayout,
			ROAS:       m.ROAS,
		})
	}
	return rows
}

func BuildInfluencerRevenue(r *Report) InfluencerRevenueSection {
	return InfluencerRevenueSection{
		TopInfluencers: TopInfluencersByRevenue(r.View.Tracking, r.Names, topInfluencerLimit),
		ROASTable:      ROASTable(r.Metrics),
		Scatter:        RevenuePayoutScatter(r.Metrics),
	}
}

func BuildPlatformTrends(r *Report) PlatformTrendsSection {
	return PlatformTrendsSection{
		RevenueByPlatform: RevenueByPlatform(r.View.Tracking),
		IncrementalROAS:   IncrementalROAS(r.View, r.Names),
		Heatmap:           CampaignPlatformHeatmap(r.View.Tracking),
	}
}

// BuildInsights renders the four insight lines
func BuildInsights(r *Report) InsightsSection {
	s := InsightsSection{
		TopPlatforms:      []string{},
		AvgROAS:           r.Summary.AvgROAS,
		ActiveInfluencers: r.Summary.NumInfluencers,
	}
	if len(r.View.Tracking) > 0 {
		s.TopPlatforms = append(s.TopPlatforms, TopPlatform(r.View.Tracking))
	}

	s.Lines = append(s.Lines, fmt.Sprintf("Most revenue is generated on platform(s): %s", strings.Join(s.TopPlatforms, ", ")))
	if best, ok := HighestROAS(r.Metrics); ok {
		s.HighestROAS = &best
		s.Lines = append(s.Lines, fmt.Sprintf("Influencer with highest ROAS: %s (%s)", best.Name, FormatRatio(float64(best.ROAS))))
	} else {
		s.Lines = append(s.Lines, "No influencer data available.")
	}
	s.Lines = append(s.Lines,
		fmt.Sprintf("Average ROAS across all influencers: %s", FormatRatio(float64(r.Summary.AvgROAS))),
		fmt.Sprintf("Number of unique influencers active: %d", r.Summary.NumInfluencers),
	)
	return s
}

// BuildDownloads lists the two CSV exports for the current selection
func BuildDownloads(r *Report) DownloadsSection {
	return DownloadsSection{
		Exports: []ExportLink{
			{
				Kind:     models.ExportFilteredTracking,
				Label:    "Download Filtered Tracking CSV",
				FileName: "filtered_tracking.csv",
				Path:     FilteredTrackingPath,
				Rows:     len(r.View.Tracking),
			},
			{
				Kind:     models.ExportInfluencerROAS,
				Label:    "Download Influencer ROAS Summary",
				FileName: "influencer_roas.csv",
				Path:     InfluencerROASPath,
				Rows:     len(r.Metrics),
			},
		},
	}
}
