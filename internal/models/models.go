package models

import (
	"time"
)

// Influencer is a row of the influencers table
type Influencer struct {
	ID    string            `db:"influencer_id" json:"influencer_id"`
	Name  string            `db:"name" json:"name"`
	Extra map[string]string `db:"-" json:"extra,omitempty"`
}

// Post is a row of the posts table. Only used for counts.
type Post struct {
	InfluencerID string            `db:"influencer_id" json:"influencer_id"`
	Platform     string            `db:"platform" json:"platform"`
	Extra        map[string]string `db:"-" json:"extra,omitempty"`
}

// TrackingRecord is one attributed event tying a platform, campaign and influencer
// to revenue. Blank Revenue and Orders cells are NaN.
type TrackingRecord struct {
	InfluencerID string    `db:"influencer_id" json:"influencer_id"`
	Date         time.Time `db:"date" json:"date"`
	Source       string    `db:"source" json:"source"`
	Campaign     string    `db:"campaign" json:"campaign"`
	Product      string    `db:"product" json:"product"`
	BrandName    string    `db:"brand_name" json:"brand_name,omitempty"`
	Brand        string    `db:"-" json:"brand"`
	Revenue      float64   `db:"revenue" json:"revenue"`
	Orders       float64   `db:"orders" json:"orders"`

	// HasProduct is false when the product cell was missing
	HasProduct bool              `db:"-" json:"-"`
	Extra      map[string]string `db:"-" json:"extra,omitempty"`
}

// PayoutRecord is a pre-aggregated payout for an influencer. A blank payout is NaN.
type PayoutRecord struct {
	InfluencerID string            `db:"influencer_id" json:"influencer_id"`
	TotalPayout  float64           `db:"total_payout" json:"total_payout"`
	Extra        map[string]string `db:"-" json:"extra,omitempty"`
}

// Dataset holds the four input tables. It is read-only once loaded.
type Dataset struct {
	Influencers []Influencer
	Posts       []Post
	Tracking    []TrackingRecord
	Payouts     []PayoutRecord

	// Header order of each table as read, used by exports and previews
	InfluencerColumns []string
	PostColumns       []string
	TrackingColumns   []string
	PayoutColumns     []string

	LoadedAt time.Time
}

// InfluencerNames returns an id -> name lookup
func (d *Dataset) InfluencerNames() map[string]string {
	names := make(map[string]string, len(d.Influencers))
	for _, inf := range d.Influencers {
		if _, ok := names[inf.ID]; !ok {
			names[inf.ID] = inf.Name
		}
	}
	return names
}

// DistinctProducts counts distinct product values over the full tracking table
func (d *Dataset) DistinctProducts() int {
	seen := make(map[string]struct{})
	for _, rec := range d.Tracking {
		if !rec.HasProduct {
			continue
		}
		seen[rec.Product] = struct{}{}
	}
	return len(seen)
}

// Table names as stored on disk, in S3 and in Postgres
const (
	TableInfluencers = "influencers"
	TablePosts       = "posts"
	TableTracking    = "tracking_data"
	TablePayouts     = "payouts"
)

// Tracking column names
const (
	ColInfluencerID = "influencer_id"
	ColName         = "name"
	ColPlatform     = "platform"
	ColDate         = "date"
	ColSource       = "source"
	ColCampaign     = "campaign"
	ColProduct      = "product"
	ColBrandName    = "brand_name"
	ColBrand        = "brand"
	ColRevenue      = "revenue"
	ColOrders       = "orders"
	ColTotalPayout  = "total_payout"
)
