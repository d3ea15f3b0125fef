package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"influencer-dashboard/internal/models"
)

// influencer ids are numeric columns read as text; ordering uses the column
const (
	selectInfluencers = `SELECT influencer_id::text AS influencer_id, name FROM influencers ORDER BY influencers.influencer_id`
	selectPosts       = `SELECT influencer_id::text AS influencer_id, platform FROM posts ORDER BY id`
	selectTracking    = `
		SELECT influencer_id::text AS influencer_id, date, source, campaign, product, brand_name, revenue, orders
		FROM tracking_data
		ORDER BY id`
	selectPayouts = `SELECT influencer_id::text AS influencer_id, total_payout FROM payouts ORDER BY payouts.influencer_id`
)

type influencerRow struct {
	InfluencerID string         `db:"influencer_id"`
	Name         sql.NullString `db:"name"`
}

type postRow struct {
	InfluencerID string         `db:"influencer_id"`
	Platform     sql.NullString `db:"platform"`
}

type trackingRow struct {
	InfluencerID string          `db:"influencer_id"`
	Date         sql.NullTime    `db:"date"`
	Source       sql.NullString  `db:"source"`
	Campaign     sql.NullString  `db:"campaign"`
	Product      sql.NullString  `db:"product"`
	BrandName    sql.NullString  `db:"brand_name"`
	Revenue      sql.NullFloat64 `db:"revenue"`
	Orders       sql.NullFloat64 `db:"orders"`
}

type payoutRow struct {
	InfluencerID string          `db:"influencer_id"`
	TotalPayout  sql.NullFloat64 `db:"total_payout"`
}

func nullFloat(n sql.NullFloat64) float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Float64
}

// LoadDataset reads the four dashboard tables. NULL numbers read as NaN
// and a NULL product is treated as missing, matching the CSV loader.
func (s *Store) LoadDataset(ctx context.Context) (*models.Dataset, error) {
	ds := &models.Dataset{
		InfluencerColumns: []string{models.ColInfluencerID, models.ColName},
		PostColumns:       []string{models.ColInfluencerID, models.ColPlatform},
		TrackingColumns: []string{
			models.ColInfluencerID, models.ColDate, models.ColSource, models.ColCampaign,
			models.ColProduct, models.ColBrandName, models.ColRevenue, models.ColOrders,
		},
		PayoutColumns: []string{models.ColInfluencerID, models.ColTotalPayout},
	}

	var influencers []influencerRow
	if err := s.db.SelectContext(ctx, &influencers, selectInfluencers); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", models.TableInfluencers, err)
	}
	ds.Influencers = make([]models.Influencer, 0, len(influencers))
	for _, r := range influencers {
		ds.Influencers = append(ds.Influencers, models.Influencer{ID: r.InfluencerID, Name: r.Name.String})
	}

	var posts []postRow
	if err := s.db.SelectContext(ctx, &posts, selectPosts); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", models.TablePosts, err)
	}
	ds.Posts = make([]models.Post, 0, len(posts))
	for _, r := range posts {
		ds.Posts = append(ds.Posts, models.Post{InfluencerID: r.InfluencerID, Platform: r.Platform.String})
	}

	var tracking []trackingRow
	if err := s.db.SelectContext(ctx, &tracking, selectTracking); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", models.TableTracking, err)
	}
	ds.Tracking = make([]models.TrackingRecord, 0, len(tracking))
	for _, r := range tracking {
		rec := models.TrackingRecord{
			InfluencerID: r.InfluencerID,
			Source:       r.Source.String,
			Campaign:     r.Campaign.String,
			Product:      r.Product.String,
			HasProduct:   r.Product.Valid && r.Product.String != "",
			BrandName:    r.BrandName.String,
			Revenue:      nullFloat(r.Revenue),
			Orders:       nullFloat(r.Orders),
		}
		if r.Date.Valid {
			rec.Date = r.Date.Time.UTC().Truncate(24 * time.Hour)
		}
		ds.Tracking = append(ds.Tracking, rec)
	}

	var payouts []payoutRow
	if err := s.db.SelectContext(ctx, &payouts, selectPayouts); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", models.TablePayouts, err)
	}
	ds.Payouts = make([]models.PayoutRecord, 0, len(payouts))
	for _, r := range payouts {
		ds.Payouts = append(ds.Payouts, models.PayoutRecord{InfluencerID: r.InfluencerID, TotalPayout: nullFloat(r.TotalPayout)})
	}

	ds.LoadedAt = time.Now()
	return ds, nil
}
