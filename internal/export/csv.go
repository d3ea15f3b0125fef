package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"influencer-dashboard/internal/models"
)

// File names offered to the browser
const (
	FilteredTrackingFile = "filtered_tracking.csv"
	InfluencerROASFile   = "influencer_roas.csv"
)

// ROAS export layouts
const (
	FormatRaw     = "raw"
	FormatDisplay = "display"
)

var (
	roasRawHeader     = []string{"influencer_id", "revenue", "total_payout", "name", "ROAS"}
	roasDisplayHeader = []string{"Influencer", "Revenue", "Payout", "ROAS (x)"}
)

// WriteFilteredTracking writes the filtered tracking rows with the columns
// of the source file plus the derived brand. It returns the data row count.
func WriteFilteredTracking(w io.Writer, columns []string, tracking []models.TrackingRecord) (int, error) {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(columns))
	for n, rec := range tracking {
		for i, col := range columns {
			record[i] = rec.Cell(col)
		}
		if err := writer.Write(record); err != nil {
			return n, fmt.Errorf("failed to write row %d: %w", n+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return len(tracking), fmt.Errorf("failed to flush csv: %w", err)
	}
	return len(tracking), nil
}

// WriteInfluencerROAS writes the per-influencer metric table. The display
// format uses the renamed ROAS table columns.
func WriteInfluencerROAS(w io.Writer, format string, metrics []models.InfluencerMetric) (int, error) {
	writer := csv.NewWriter(w)

	header := roasRawHeader
	if format == FormatDisplay {
		header = roasDisplayHeader
	}
	if err := writer.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	for n, m := range metrics {
		var record []string
		if format == FormatDisplay {
			record = []string{m.Name, models.FormatFloatCSV(m.Revenue), m.TotalPayout.CSV(), m.ROAS.CSV()}
		} else {
			record = []string{m.InfluencerID, models.FormatFloatCSV(m.Revenue), m.TotalPayout.CSV(), m.Name, m.ROAS.CSV()}
		}
		if err := writer.Write(record); err != nil {
			return n, fmt.Errorf("failed to write row %d: %w", n+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return len(metrics), fmt.Errorf("failed to flush csv: %w", err)
	}
	return len(metrics), nil
}

// ParseFormat validates the ROAS export format query value
func ParseFormat(v string) (string, error) {
	switch v {
	case "", FormatRaw:
		return FormatRaw, nil
	case FormatDisplay:
		return FormatDisplay, nil
	}
	return "", fmt.Errorf("unsupported export format %q", v)
}
