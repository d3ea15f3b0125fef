package loader

import (
	"context"
	"fmt"

	"influencer-dashboard/internal/models"
)

// DatasetStore reads the four tables from a database
type DatasetStore interface {
	LoadDataset(ctx context.Context) (*models.Dataset, error)
}

type storeSource struct {
	store DatasetStore
}

// NewStoreSource adapts a DatasetStore to a Source
func NewStoreSource(store DatasetStore) Source {
	return &storeSource{store: store}
}

func (s *storeSource) Name() string {
	return "postgres"
}

func (s *storeSource) Load(ctx context.Context) (*models.Dataset, error) {
	ds, err := s.store.LoadDataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	return ds, nil
}
