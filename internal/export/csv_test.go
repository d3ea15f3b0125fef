package export

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"influencer-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFilteredTracking(t *testing.T) {
	ds := &models.Dataset{TrackingColumns: []string{"influencer_id", "date", "source", "campaign", "product", "revenue", "orders", "coupon"}}
	tracking := []models.TrackingRecord{
		{
			InfluencerID: "1",
			Date:         time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			Source:       "IG",
			Campaign:     "Summer, 2024",
			Product:      "Acme Whey",
			HasProduct:   true,
			Brand:        "Acme",
			Revenue:      1234.5,
			Orders:       3,
			Extra:        map[string]string{"coupon": "HK10"},
		},
	}

	var buf bytes.Buffer
	n, err := WriteFilteredTracking(&buf, ds.TrackingExportColumns(), tracking)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t,
		"influencer_id,date,source,campaign,product,revenue,orders,coupon,brand\n"+
			"1,2024-03-05,IG,\"Summer, 2024\",Acme Whey,1234.5,3,HK10,Acme\n",
		buf.String())
}

func TestWriteFilteredTrackingEmpty(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteFilteredTracking(&buf, []string{"influencer_id", "brand"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "influencer_id,brand\n", buf.String())
}

func TestWriteInfluencerROAS(t *testing.T) {
	metrics := []models.InfluencerMetric{
		{InfluencerID: "1", Name: "A", Revenue: 1000, TotalPayout: 800, ROAS: 1.25},
		{InfluencerID: "2", Name: "B", Revenue: 500, TotalPayout: 0, ROAS: models.Number(math.Inf(1))},
		{InfluencerID: "3", Name: "", Revenue: 50, TotalPayout: models.Missing(), ROAS: models.Missing()},
	}

	var raw bytes.Buffer
	n, err := WriteInfluencerROAS(&raw, FormatRaw, metrics)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t,
		"influencer_id,revenue,total_payout,name,ROAS\n"+
			"1,1000,800,A,1.25\n"+
			"2,500,0,B,inf\n"+
			"3,50,,,\n",
		raw.String())

	var display bytes.Buffer
	_, err = WriteInfluencerROAS(&display, FormatDisplay, metrics[:1])
	require.NoError(t, err)
	assert.Equal(t, "Influencer,Revenue,Payout,ROAS (x)\nA,1000,800,1.25\n", display.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriteInfluencerROASWriterError(t *testing.T) {
	_, err := WriteInfluencerROAS(failingWriter{}, FormatRaw, []models.InfluencerMetric{{InfluencerID: "1"}})
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatRaw, f)

	f, err = ParseFormat("display")
	require.NoError(t, err)
	assert.Equal(t, FormatDisplay, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}
