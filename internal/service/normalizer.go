package service

import (
	"strings"

	"influencer-dashboard/internal/models"
)

// MissingBrand is the text form of a missing product, used as its brand
const MissingBrand = "nan"

// DeriveBrand returns the brand for a tracking row: the explicit brand name
// when populated, otherwise the first space-delimited token of the product.
// A missing product yields MissingBrand.
func DeriveBrand(brandName, product string, hasProduct bool) string {
	if brandName != "" {
		return brandName
	}
	if !hasProduct {
		return MissingBrand
	}
	return strings.Split(product, " ")[0]
}

// NormalizeBrands returns a copy of records with Brand populated
func NormalizeBrands(records []models.TrackingRecord) []models.TrackingRecord {
	out := make([]models.TrackingRecord, len(records))
	for i, rec := range records {
		rec.Brand = DeriveBrand(rec.BrandName, rec.Product, rec.HasProduct)
		out[i] = rec
	}
	return out
}
