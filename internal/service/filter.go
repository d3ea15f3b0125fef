package service

import (
	"influencer-dashboard/internal/models"
)

// Options returns the distinct platform, campaign and brand values in
// first-appearance order. These are also the default selections.
func Options(tracking []models.TrackingRecord) models.FilterOptions {
	opts := models.FilterOptions{
		Platforms: []string{},
		Campaigns: []string{},
		Brands:    []string{},
	}
	platforms := make(map[string]struct{})
	campaigns := make(map[string]struct{})
	brands := make(map[string]struct{})

	for _, rec := range tracking {
		if _, ok := platforms[rec.Source]; !ok {
			platforms[rec.Source] = struct{}{}
			opts.Platforms = append(opts.Platforms, rec.Source)
		}
		if _, ok := campaigns[rec.Campaign]; !ok {
			campaigns[rec.Campaign] = struct{}{}
			opts.Campaigns = append(opts.Campaigns, rec.Campaign)
		}
		if _, ok := brands[rec.Brand]; !ok {
			brands[rec.Brand] = struct{}{}
			opts.Brands = append(opts.Brands, rec.Brand)
		}
	}
	return opts
}

// memberSet is nil when every value is accepted
type memberSet map[string]struct{}

func newMemberSet(values []string) memberSet {
	if values == nil {
		return nil
	}
	set := make(memberSet, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func (s memberSet) has(v string) bool {
	if s == nil {
		return true
	}
	_, ok := s[v]
	return ok
}

// ApplyFilters returns the tracking rows matching every dimension of sel and
// the payout rows of influencers present in those tracking rows. Input slices
// are never modified and input order is preserved.
func ApplyFilters(ds *models.Dataset, sel models.Selection) models.FilteredView {
	platforms := newMemberSet(sel.Platforms)
	campaigns := newMemberSet(sel.Campaigns)
	brands := newMemberSet(sel.Brands)

	view := models.FilteredView{
		Tracking: []models.TrackingRecord{},
		Payouts:  []models.PayoutRecord{},
	}

	influencers := make(map[string]struct{})
	for _, rec := range ds.Tracking {
		if !platforms.has(rec.Source) || !campaigns.has(rec.Campaign) || !brands.has(rec.Brand) {
			continue
		}
		view.Tracking = append(view.Tracking, rec)
		influencers[rec.InfluencerID] = struct{}{}
	}

	for _, p := range ds.Payouts {
		if _, ok := influencers[p.InfluencerID]; ok {
			view.Payouts = append(view.Payouts, p)
		}
	}
	return view
}

// FilterView re-applies sel to an already filtered view
func FilterView(view models.FilteredView, sel models.Selection) models.FilteredView {
	return ApplyFilters(&models.Dataset{Tracking: view.Tracking, Payouts: view.Payouts}, sel)
}
