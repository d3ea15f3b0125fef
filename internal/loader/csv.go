package loader

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"influencer-dashboard/internal/models"
)

// NewDirSource reads <dir>/<table>.csv for each table
func NewDirSource(dir string) Source {
	return NewCSVSource("csv:"+dir, func(_ context.Context, table string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(dir, table+".csv"))
	})
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"02-01-2006",
}

// table is a parsed CSV file with a case-insensitive column index
type table struct {
	name   string
	header []string
	index  map[string]int
	rows   [][]string
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	return br
}

func readTable(r io.Reader, name string) (*table, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s: empty file", name)
		}
		return nil, fmt.Errorf("%s: failed to read header: %w", name, err)
	}

	t := &table{name: name, index: make(map[string]int, len(header))}
	for i, col := range header {
		col = strings.TrimSpace(col)
		t.header = append(t.header, col)
		key := strings.ToLower(col)
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read rows: %w", name, err)
	}
	t.rows = rows
	return t, nil
}

// col returns the index of the first matching column name, or -1
func (t *table) col(names ...string) int {
	for _, n := range names {
		if i, ok := t.index[n]; ok {
			return i
		}
	}
	return -1
}

func (t *table) require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if t.col(c) < 0 {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing required columns %v", t.name, missing)
	}
	return nil
}

func cell(row []string, i int) (string, bool) {
	if i < 0 || i >= len(row) {
		return "", false
	}
	return row[i], true
}

func (t *table) str(row []string, i int) string {
	v, _ := cell(row, i)
	return strings.TrimSpace(v)
}

// number parses a numeric cell; a blank cell is missing (NaN)
func (t *table) number(row []string, i, line int) (float64, error) {
	v := t.str(row, i)
	if v == "" {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: column %q: invalid number %q", t.name, line, t.header[i], v)
	}
	return f, nil
}

func (t *table) date(row []string, i, line int) (time.Time, error) {
	v := t.str(row, i)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, v); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s line %d: column %q: invalid date %q", t.name, line, t.header[i], v)
}

// extras collects the cells of columns not in known
func (t *table) extras(row []string, known map[int]bool) map[string]string {
	var out map[string]string
	for i, col := range t.header {
		if known[i] {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		v, _ := cell(row, i)
		out[col] = v
	}
	return out
}

func knownSet(indexes ...int) map[int]bool {
	known := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		if i >= 0 {
			known[i] = true
		}
	}
	return known
}

func parseInfluencers(r io.Reader, ds *models.Dataset) error {
	t, err := readTable(r, models.TableInfluencers)
	if err != nil {
		return err
	}
	idCol := t.col(models.ColInfluencerID, "id")
	if idCol < 0 {
		return fmt.Errorf("%s: missing required columns [%s]", t.name, models.ColInfluencerID)
	}
	if err := t.require(models.ColName); err != nil {
		return err
	}
	nameCol := t.col(models.ColName)
	known := knownSet(idCol, nameCol)

	ds.InfluencerColumns = t.header
	ds.Influencers = make([]models.Influencer, 0, len(t.rows))
	for _, row := range t.rows {
		ds.Influencers = append(ds.Influencers, models.Influencer{
			ID:    t.str(row, idCol),
			Name:  t.str(row, nameCol),
			Extra: t.extras(row, known),
		})
	}
	return nil
}

func parsePosts(r io.Reader, ds *models.Dataset) error {
	t, err := readTable(r, models.TablePosts)
	if err != nil {
		return err
	}
	if err := t.require(models.ColInfluencerID, models.ColPlatform); err != nil {
		return err
	}
	idCol, platformCol := t.col(models.ColInfluencerID), t.col(models.ColPlatform)
	known := knownSet(idCol, platformCol)

	ds.PostColumns = t.header
	ds.Posts = make([]models.Post, 0, len(t.rows))
	for _, row := range t.rows {
		ds.Posts = append(ds.Posts, models.Post{
			InfluencerID: t.str(row, idCol),
			Platform:     t.str(row, platformCol),
			Extra:        t.extras(row, known),
		})
	}
	return nil
}

func parseTracking(r io.Reader, ds *models.Dataset) error {
	t, err := readTable(r, models.TableTracking)
	if err != nil {
		return err
	}
	if err := t.require(models.ColInfluencerID, models.ColDate, models.ColSource, models.ColCampaign,
		models.ColProduct, models.ColRevenue, models.ColOrders); err != nil {
		return err
	}

	var (
		idCol       = t.col(models.ColInfluencerID)
		dateCol     = t.col(models.ColDate)
		sourceCol   = t.col(models.ColSource)
		campaignCol = t.col(models.ColCampaign)
		productCol  = t.col(models.ColProduct)
		brandCol    = t.col(models.ColBrandName)
		revenueCol  = t.col(models.ColRevenue)
		ordersCol   = t.col(models.ColOrders)
		// a derived brand column in the file is replaced by normalization
		derivedCol = t.col(models.ColBrand)
	)
	known := knownSet(idCol, dateCol, sourceCol, campaignCol, productCol, brandCol, revenueCol, ordersCol, derivedCol)

	ds.TrackingColumns = t.header
	ds.Tracking = make([]models.TrackingRecord, 0, len(t.rows))
	for n, row := range t.rows {
		line := n + 2

		date, err := t.date(row, dateCol, line)
		if err != nil {
			return err
		}
		revenue, err := t.number(row, revenueCol, line)
		if err != nil {
			return err
		}
		orders, err := t.number(row, ordersCol, line)
		if err != nil {
			return err
		}
		product, hasProduct := cell(row, productCol)
		if strings.TrimSpace(product) == "" {
			hasProduct = false
		}

		ds.Tracking = append(ds.Tracking, models.TrackingRecord{
			InfluencerID: t.str(row, idCol),
			Date:         date,
			Source:       t.str(row, sourceCol),
			Campaign:     t.str(row, campaignCol),
			Product:      product,
			HasProduct:   hasProduct,
			BrandName:    t.str(row, brandCol),
			Revenue:      revenue,
			Orders:       orders,
			Extra:        t.extras(row, known),
		})
	}
	return nil
}

func parsePayouts(r io.Reader, ds *models.Dataset) error {
	t, err := readTable(r, models.TablePayouts)
	if err != nil {
		return err
	}
	if err := t.require(models.ColInfluencerID, models.ColTotalPayout); err != nil {
		return err
	}
	idCol, payoutCol := t.col(models.ColInfluencerID), t.col(models.ColTotalPayout)
	known := knownSet(idCol, payoutCol)

	ds.PayoutColumns = t.header
	ds.Payouts = make([]models.PayoutRecord, 0, len(t.rows))
	for n, row := range t.rows {
		payout, err := t.number(row, payoutCol, n+2)
		if err != nil {
			return err
		}
		ds.Payouts = append(ds.Payouts, models.PayoutRecord{
			InfluencerID: t.str(row, idCol),
			TotalPayout:  payout,
			Extra:        t.extras(row, known),
		})
	}
	return nil
}
