package models

import (
	"errors"
	"time"
)

// Selection is the user's filter state. A nil dimension selects every
// available value; an empty non-nil dimension selects nothing.
type Selection struct {
	Platforms []string `json:"platforms"`
	Campaigns []string `json:"campaigns"`
	Brands    []string `json:"brands"`
}

// FilterOptions lists the distinct values available per filter dimension
type FilterOptions struct {
	Platforms []string `json:"platforms"`
	Campaigns []string `json:"campaigns"`
	Brands    []string `json:"brands"`
}

// FilteredView is the result of applying a Selection to a Dataset
type FilteredView struct {
	Tracking []TrackingRecord
	Payouts  []PayoutRecord
}

// InfluencerMetric is a derived per-influencer row, never persisted
type InfluencerMetric struct {
	InfluencerID string  `json:"influencer_id"`
	Name         string  `json:"name"`
	Revenue      float64 `json:"revenue"`
	TotalPayout  Number  `json:"total_payout"`
	ROAS         Number  `json:"roas"`
}

// InfluencerAmount is an influencer id with a summed amount
type InfluencerAmount struct {
	InfluencerID string  `json:"influencer_id"`
	Name         string  `json:"name,omitempty"`
	Amount       float64 `json:"amount"`
}

// Summary holds the global Key Metrics figures
type Summary struct {
	TotalRevenue    float64 `json:"total_revenue"`
	TotalPayout     float64 `json:"total_payout"`
	ROAS            float64 `json:"roas"`
	BaselineRevenue float64 `json:"baseline_revenue"`
	IncrementalROAS float64 `json:"incremental_roas"`
	NumInfluencers  int     `json:"num_influencers"`
	TopInfluencer   string  `json:"top_influencer"`
	AvgROAS         Number  `json:"avg_roas"`
}

// IncrementalROASRow is the platform-trends iROAS summary per influencer.
// It uses the 0.9 revenue multiplier and is unrelated to Summary.IncrementalROAS.
type IncrementalROASRow struct {
	InfluencerID       string  `json:"influencer_id"`
	Name               string  `json:"name"`
	IncrementalRevenue float64 `json:"incremental_revenue"`
	TotalPayout        float64 `json:"total_payout"`
	IROAS              Number  `json:"iroas"`
}

// SeriesPoint is one point of a chart series keyed by label
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// DatePoint is one point of a time series
type DatePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// HeatmapCell is revenue for one campaign/platform pair
type HeatmapCell struct {
	Campaign string  `json:"campaign"`
	Source   string  `json:"source"`
	Revenue  float64 `json:"revenue"`
}

// ScatterPoint is one influencer on the revenue vs payout chart
type ScatterPoint struct {
	Name        string  `json:"name"`
	TotalPayout Number  `json:"total_payout"`
	Revenue     float64 `json:"revenue"`
	ROAS        Number  `json:"roas"`
}

// Section is one of the fixed navigation entries
type Section string

const (
	SectionHome              Section = "home"
	SectionKeyMetrics        Section = "key-metrics"
	SectionInfluencerRevenue Section = "influencer-revenue"
	SectionPlatformTrends    Section = "platform-trends"
	SectionInsights          Section = "insights"
	SectionDownloads         Section = "downloads"
)

// ErrUnknownSection is returned for a section slug outside the navigation
var ErrUnknownSection = errors.New("unknown section")

var sectionTitles = map[Section]string{
	SectionHome:              "Home",
	SectionKeyMetrics:        "Key Metrics",
	SectionInfluencerRevenue: "Influencer Revenue",
	SectionPlatformTrends:    "Platform Trends",
	SectionInsights:          "Insights",
	SectionDownloads:         "Downloads",
}

// Sections returns the navigation entries in display order
func Sections() []Section {
	return []Section{
		SectionHome,
		SectionKeyMetrics,
		SectionInfluencerRevenue,
		SectionPlatformTrends,
		SectionInsights,
		SectionDownloads,
	}
}

// Title returns the display name of the section
func (s Section) Title() string {
	return sectionTitles[s]
}

// ParseSection resolves a slug or display title to a Section
func ParseSection(v string) (Section, error) {
	for _, s := range Sections() {
		if v == string(s) || v == s.Title() {
			return s, nil
		}
	}
	return "", ErrUnknownSection
}

// Export kinds
const (
	ExportFilteredTracking = "filtered_tracking"
	ExportInfluencerROAS   = "influencer_roas"
)
