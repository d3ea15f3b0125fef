package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"influencer-dashboard/internal/models"
)

// ErrDatasetUnavailable wraps every failure to produce the four tables
var ErrDatasetUnavailable = errors.New("dataset unavailable")

// Source produces the raw dataset. Brand normalization is applied by the Cache.
type Source interface {
	Load(ctx context.Context) (*models.Dataset, error)
	Name() string
}

// TableOpener opens one named CSV table
type TableOpener func(ctx context.Context, table string) (io.ReadCloser, error)

// csvSource reads the four tables through an opener and parses them as CSV
type csvSource struct {
	name string
	open TableOpener
}

// NewCSVSource builds a Source reading each table from open(table)
func NewCSVSource(name string, open TableOpener) Source {
	return &csvSource{name: name, open: open}
}

func (s *csvSource) Name() string {
	return s.name
}

// Load reads and parses all four tables; any failure is fatal
func (s *csvSource) Load(ctx context.Context) (*models.Dataset, error) {
	ds := &models.Dataset{}

	steps := []struct {
		table string
		parse func(io.Reader, *models.Dataset) error
	}{
		{models.TableInfluencers, parseInfluencers},
		{models.TablePosts, parsePosts},
		{models.TableTracking, parseTracking},
		{models.TablePayouts, parsePayouts},
	}

	for _, step := range steps {
		if err := s.loadTable(ctx, step.table, ds, step.parse); err != nil {
			return nil, err
		}
	}

	ds.LoadedAt = time.Now()
	return ds, nil
}

func (s *csvSource) loadTable(ctx context.Context, table string, ds *models.Dataset, parse func(io.Reader, *models.Dataset) error) error {
	rc, err := s.open(ctx, table)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %v", ErrDatasetUnavailable, table, err)
	}
	defer rc.Close()

	if err := parse(rc, ds); err != nil {
		return fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	return nil
}
