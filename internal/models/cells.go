package models

import (
	"strings"
)

// DateLayout is used whenever a tracking date is rendered as text
const DateLayout = "2006-01-02"

// Cell renders one column of the influencer row as text
func (i Influencer) Cell(col string) string {
	switch strings.ToLower(col) {
	case ColInfluencerID, "id":
		return i.ID
	case ColName:
		return i.Name
	}
	return i.Extra[col]
}

// Cell renders one column of the post row as text
func (p Post) Cell(col string) string {
	switch strings.ToLower(col) {
	case ColInfluencerID:
		return p.InfluencerID
	case ColPlatform:
		return p.Platform
	}
	return p.Extra[col]
}

// Cell renders one column of the tracking row as text
func (r TrackingRecord) Cell(col string) string {
	switch strings.ToLower(col) {
	case ColInfluencerID:
		return r.InfluencerID
	case ColDate:
		if r.Date.IsZero() {
			return ""
		}
		return r.Date.Format(DateLayout)
	case ColSource:
		return r.Source
	case ColCampaign:
		return r.Campaign
	case ColProduct:
		if !r.HasProduct {
			return ""
		}
		return r.Product
	case ColBrandName:
		return r.BrandName
	case ColBrand:
		return r.Brand
	case ColRevenue:
		return FormatFloatCSV(r.Revenue)
	case ColOrders:
		return FormatFloatCSV(r.Orders)
	}
	return r.Extra[col]
}

// Cell renders one column of the payout row as text
func (p PayoutRecord) Cell(col string) string {
	switch strings.ToLower(col) {
	case ColInfluencerID:
		return p.InfluencerID
	case ColTotalPayout:
		return FormatFloatCSV(p.TotalPayout)
	}
	return p.Extra[col]
}

// TrackingExportColumns is the tracking header with the derived brand
// column appended when the file did not carry one
func (d *Dataset) TrackingExportColumns() []string {
	cols := make([]string, 0, len(d.TrackingColumns)+1)
	hasBrand := false
	for _, c := range d.TrackingColumns {
		if strings.EqualFold(c, ColBrand) {
			hasBrand = true
		}
		cols = append(cols, c)
	}
	if !hasBrand {
		cols = append(cols, ColBrand)
	}
	return cols
}
