package service

import (
	"testing"

	"influencer-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDeriveBrand(t *testing.T) {
	tests := []struct {
		name       string
		brandName  string
		product    string
		hasProduct bool
		want       string
	}{
		{"explicit brand wins", "MuscleBlaze", "HK Vitals Fish Oil", true, "MuscleBlaze"},
		{"first product token", "", "Acme Whey 1kg", true, "Acme"},
		{"single word product", "", "Gritzo", true, "Gritzo"},
		{"case preserved", "", "hkVitals multivitamin", true, "hkVitals"},
		{"leading space gives empty brand", "", " Acme", true, ""},
		{"missing product", "", "", false, "nan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveBrand(tt.brandName, tt.product, tt.hasProduct))
		})
	}
}

func TestNormalizeBrandsDoesNotMutateInput(t *testing.T) {
	in := []models.TrackingRecord{
		{InfluencerID: "1", Product: "Acme Whey", HasProduct: true},
	}

	out := NormalizeBrands(in)

	assert.Equal(t, "Acme", out[0].Brand)
	assert.Equal(t, "", in[0].Brand)
}
