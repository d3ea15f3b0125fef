package service

import (
	"math"
	"sort"
	"strconv"
	"time"

	"influencer-dashboard/internal/models"
)

const (
	// BaselineRevenueFraction is the share of revenue assumed to happen
	// without influencer activity in the Key Metrics summary.
	BaselineRevenueFraction = 0.4

	// IncrementalRevenueMultiplier is applied per tracking row in the
	// platform trends iROAS table.
	IncrementalRevenueMultiplier = 0.9

	// NoInfluencer is shown as top influencer when there is no data
	NoInfluencer = "-"

	topInfluencerLimit = 10
)

// compareIDs orders influencer ids numerically when both are integers
func compareIDs(a, b string) bool {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	if aerr == nil {
		return true
	}
	if berr == nil {
		return false
	}
	return a < b
}

// present maps a missing amount to 0 so sums skip it
func present(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return f
}

// grouped sums amounts per key, remembering first-appearance order
type grouped struct {
	keys   []string
	totals map[string]float64
}

func (g *grouped) add(key string, amount float64) {
	if g.totals == nil {
		g.totals = make(map[string]float64)
	}
	if _, ok := g.totals[key]; !ok {
		g.keys = append(g.keys, key)
	}
	// missing amounts are skipped, as a sum over present values
	if !math.IsNaN(amount) {
		g.totals[key] += amount
	}
}

func (g *grouped) sortKeys(less func(a, b string) bool) {
	sort.SliceStable(g.keys, func(i, j int) bool { return less(g.keys[i], g.keys[j]) })
}

// RevenueByInfluencer sums filtered tracking revenue per influencer
func RevenueByInfluencer(tracking []models.TrackingRecord) []models.InfluencerAmount {
	var g grouped
	for _, rec := range tracking {
		g.add(rec.InfluencerID, rec.Revenue)
	}
	g.sortKeys(compareIDs)

	out := make([]models.InfluencerAmount, 0, len(g.keys))
	for _, id := range g.keys {
		out = append(out, models.InfluencerAmount{InfluencerID: id, Amount: g.totals[id]})
	}
	return out
}

// PayoutByInfluencer sums filtered payouts per influencer
func PayoutByInfluencer(payouts []models.PayoutRecord) []models.InfluencerAmount {
	var g grouped
	for _, p := range payouts {
		g.add(p.InfluencerID, p.TotalPayout)
	}
	g.sortKeys(compareIDs)

	out := make([]models.InfluencerAmount, 0, len(g.keys))
	for _, id := range g.keys {
		out = append(out, models.InfluencerAmount{InfluencerID: id, Amount: g.totals[id]})
	}
	return out
}

// InfluencerMetrics joins revenue and payout per influencer. Revenue drives
// the join: an influencer without payout keeps a missing payout and a NaN
// ROAS. A zero payout yields an infinite ROAS; it is not guarded here.
func InfluencerMetrics(view models.FilteredView, names map[string]string) []models.InfluencerMetric {
	revenue := RevenueByInfluencer(view.Tracking)
	payouts := make(map[string]float64)
	for _, p := range PayoutByInfluencer(view.Payouts) {
		payouts[p.InfluencerID] = p.Amount
	}

	out := make([]models.InfluencerMetric, 0, len(revenue))
	for _, r := range revenue {
		m := models.InfluencerMetric{
			InfluencerID: r.InfluencerID,
			Name:         names[r.InfluencerID],
			Revenue:      r.Amount,
			TotalPayout:  models.Missing(),
			ROAS:         models.Missing(),
		}
		if payout, ok := payouts[r.InfluencerID]; ok {
			m.TotalPayout = models.Number(payout)
			m.ROAS = models.Number(Round2(r.Amount / payout))
		}
		out = append(out, m)
	}
	return out
}

// AverageROAS is the mean of per-influencer ROAS skipping missing values,
// rounded to two decimals. It is 0 for an empty table.
func AverageROAS(metrics []models.InfluencerMetric) models.Number {
	if len(metrics) == 0 {
		return 0
	}
	var sum float64
	var n int
	for _, m := range metrics {
		if m.ROAS.IsNaN() {
			continue
		}
		sum += float64(m.ROAS)
		n++
	}
	if n == 0 {
		return models.Missing()
	}
	return models.Number(Round2(sum / float64(n)))
}

// TopInfluencer returns the name of the highest revenue influencer. Ties
// keep the first row.
func TopInfluencer(metrics []models.InfluencerMetric) string {
	if len(metrics) == 0 {
		return NoInfluencer
	}
	best := 0
	for i := 1; i < len(metrics); i++ {
		if metrics[i].Revenue > metrics[best].Revenue {
			best = i
		}
	}
	return metrics[best].Name
}

// guardedRatio divides and substitutes 0 for a zero denominator
func guardedRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return Round2(num / den)
}

// Summarize computes the global Key Metrics figures
func Summarize(view models.FilteredView, metrics []models.InfluencerMetric) models.Summary {
	var s models.Summary
	ids := make(map[string]struct{})
	for _, rec := range view.Tracking {
		s.TotalRevenue += present(rec.Revenue)
		ids[rec.InfluencerID] = struct{}{}
	}
	for _, p := range view.Payouts {
		s.TotalPayout += present(p.TotalPayout)
	}

	s.ROAS = guardedRatio(s.TotalRevenue, s.TotalPayout)
	s.BaselineRevenue = s.TotalRevenue * BaselineRevenueFraction
	s.IncrementalROAS = guardedRatio(s.TotalRevenue-s.BaselineRevenue, s.TotalPayout)
	s.NumInfluencers = len(ids)
	s.TopInfluencer = TopInfluencer(metrics)
	s.AvgROAS = AverageROAS(metrics)
	return s
}

// IncrementalROAS builds the platform trends iROAS table. Each tracking row
// is joined to every payout row of its influencer; rows without payout keep
// a missing payout. Results are grouped by influencer and rounded.
func IncrementalROAS(view models.FilteredView, names map[string]string) []models.IncrementalROASRow {
	payouts := make(map[string][]float64)
	for _, p := range view.Payouts {
		payouts[p.InfluencerID] = append(payouts[p.InfluencerID], p.TotalPayout)
	}

	type acc struct {
		incremental float64
		payout      float64
		iroasSum    float64
		iroasN      int
	}
	var keys []string
	groups := make(map[string]*acc)

	for _, rec := range view.Tracking {
		g, ok := groups[rec.InfluencerID]
		if !ok {
			g = &acc{}
			groups[rec.InfluencerID] = g
			keys = append(keys, rec.InfluencerID)
		}

		incremental := rec.Revenue * IncrementalRevenueMultiplier
		matches := payouts[rec.InfluencerID]
		if len(matches) == 0 {
			// unmatched payout: iROAS is missing and payout adds nothing
			g.incremental += present(incremental)
			continue
		}
		for _, payout := range matches {
			g.incremental += present(incremental)
			g.payout += present(payout)
			// a blank revenue or payout leaves iROAS missing
			iroas := incremental / payout
			if !math.IsNaN(iroas) {
				g.iroasSum += iroas
				g.iroasN++
			}
		}
	}
	sort.SliceStable(keys, func(i, j int) bool { return compareIDs(keys[i], keys[j]) })

	out := make([]models.IncrementalROASRow, 0, len(keys))
	for _, id := range keys {
		g := groups[id]
		iroas := models.Missing()
		if g.iroasN > 0 {
			iroas = models.Number(Round2(g.iroasSum / float64(g.iroasN)))
		}
		out = append(out, models.IncrementalROASRow{
			InfluencerID:       id,
			Name:               names[id],
			IncrementalRevenue: Round2(g.incremental),
			TotalPayout:        Round2(g.payout),
			IROAS:              iroas,
		})
	}
	return out
}

// RevenueOverTime sums revenue per date in ascending date order
func RevenueOverTime(tracking []models.TrackingRecord) []models.DatePoint {
	return sumByDate(tracking, func(rec models.TrackingRecord) float64 { return rec.Revenue })
}

// OrdersOverTime sums orders per date in ascending date order
func OrdersOverTime(tracking []models.TrackingRecord) []models.DatePoint {
	return sumByDate(tracking, func(rec models.TrackingRecord) float64 { return rec.Orders })
}

func sumByDate(tracking []models.TrackingRecord, value func(models.TrackingRecord) float64) []models.DatePoint {
	totals := make(map[time.Time]float64)
	var dates []time.Time
	for _, rec := range tracking {
		if rec.Date.IsZero() {
			continue
		}
		if _, ok := totals[rec.Date]; !ok {
			dates = append(dates, rec.Date)
		}
		totals[rec.Date] += present(value(rec))
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := make([]models.DatePoint, 0, len(dates))
	for _, d := range dates {
		out = append(out, models.DatePoint{Date: d, Value: totals[d]})
	}
	return out
}

// RevenueByBrand sums revenue per brand, highest first
func RevenueByBrand(tracking []models.TrackingRecord) []models.SeriesPoint {
	var g grouped
	for _, rec := range tracking {
		g.add(rec.Brand, rec.Revenue)
	}
	g.sortKeys(func(a, b string) bool { return a < b })
	points := g.points()
	sort.SliceStable(points, func(i, j int) bool { return points[i].Value > points[j].Value })
	return points
}

// RevenueByPlatform sums revenue per source
func RevenueByPlatform(tracking []models.TrackingRecord) []models.SeriesPoint {
	var g grouped
	for _, rec := range tracking {
		g.add(rec.Source, rec.Revenue)
	}
	g.sortKeys(func(a, b string) bool { return a < b })
	return g.points()
}

func (g *grouped) points() []models.SeriesPoint {
	out := make([]models.SeriesPoint, 0, len(g.keys))
	for _, k := range g.keys {
		out = append(out, models.SeriesPoint{Label: k, Value: g.totals[k]})
	}
	return out
}

// TopInfluencersByRevenue ranks influencers by filtered revenue
func TopInfluencersByRevenue(tracking []models.TrackingRecord, names map[string]string, limit int) []models.InfluencerAmount {
	ranked := RevenueByInfluencer(tracking)
	for i := range ranked {
		ranked[i].Name = names[ranked[i].InfluencerID]
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Amount > ranked[j].Amount })
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// CampaignPlatformHeatmap sums revenue per campaign and source
func CampaignPlatformHeatmap(tracking []models.TrackingRecord) []models.HeatmapCell {
	type key struct{ campaign, source string }
	totals := make(map[key]float64)
	var keys []key
	for _, rec := range tracking {
		k := key{rec.Campaign, rec.Source}
		if _, ok := totals[k]; !ok {
			keys = append(keys, k)
		}
		totals[k] += present(rec.Revenue)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].campaign != keys[j].campaign {
			return keys[i].campaign < keys[j].campaign
		}
		return keys[i].source < keys[j].source
	})

	out := make([]models.HeatmapCell, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.HeatmapCell{Campaign: k.campaign, Source: k.source, Revenue: totals[k]})
	}
	return out
}

// RevenuePayoutScatter projects the metric table onto the scatter chart
func RevenuePayoutScatter(metrics []models.InfluencerMetric) []models.ScatterPoint {
	out := make([]models.ScatterPoint, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, models.ScatterPoint{
			Name:        m.Name,
			TotalPayout: m.TotalPayout,
			Revenue:     m.Revenue,
			ROAS:        m.ROAS,
		})
	}
	return out
}

// HighestROAS returns the influencer with the largest ROAS. Missing values
// rank last; ok is false for an empty table.
func HighestROAS(metrics []models.InfluencerMetric) (models.InfluencerMetric, bool) {
	if len(metrics) == 0 {
		return models.InfluencerMetric{}, false
	}
	best := -1
	for i, m := range metrics {
		if m.ROAS.IsNaN() {
			continue
		}
		if best < 0 || float64(m.ROAS) > float64(metrics[best].ROAS) {
			best = i
		}
	}
	if best < 0 {
		best = 0
	}
	return metrics[best], true
}

// TopPlatform returns the source with the most filtered revenue, or "" when empty
func TopPlatform(tracking []models.TrackingRecord) string {
	points := RevenueByPlatform(tracking)
	if len(points) == 0 {
		return ""
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.Value > best.Value {
			best = p
		}
	}
	return best.Label
}
