package loader

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"influencer-dashboard/internal/models"
	"influencer-dashboard/internal/service"
	"influencer-dashboard/internal/util"

	"go.uber.org/zap"
)

// Cache loads the dataset once per process and serves the same read-only
// copy afterwards. A failed load is remembered; restart to retry.
type Cache struct {
	source Source
	logger *zap.Logger

	mu      sync.Mutex
	loaded  bool
	ready   atomic.Bool
	dataset *models.Dataset
	err     error
}

// NewCache creates a dataset cache over source
func NewCache(source Source) *Cache {
	return &Cache{
		source: source,
		logger: util.GetLogger(),
	}
}

// Dataset returns the cached dataset, loading it on first use
func (c *Cache) Dataset(ctx context.Context) (*models.Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		c.dataset, c.err = c.load(ctx)
		c.loaded = true
		c.ready.Store(c.err == nil)
	}
	return c.dataset, c.err
}

// Ready reports whether a dataset has been loaded successfully
func (c *Cache) Ready() bool {
	return c.ready.Load()
}

func (c *Cache) load(ctx context.Context) (*models.Dataset, error) {
	ctx, span := util.StartSpan(ctx, "Cache.Load")
	defer span.End()

	start := time.Now()
	ds, err := c.source.Load(ctx)
	util.DatasetLoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		util.DatasetLoadFailuresTotal.Inc()
		span.RecordError(err)
		c.logger.Error("Failed to load dataset",
			zap.String("source", c.source.Name()),
			zap.Error(err))
		return nil, err
	}

	ds.Tracking = service.NormalizeBrands(ds.Tracking)

	util.DatasetRows.WithLabelValues(models.TableInfluencers).Set(float64(len(ds.Influencers)))
	util.DatasetRows.WithLabelValues(models.TablePosts).Set(float64(len(ds.Posts)))
	util.DatasetRows.WithLabelValues(models.TableTracking).Set(float64(len(ds.Tracking)))
	util.DatasetRows.WithLabelValues(models.TablePayouts).Set(float64(len(ds.Payouts)))

	c.logger.Info("Dataset loaded",
		zap.String("source", c.source.Name()),
		zap.Int("influencers", len(ds.Influencers)),
		zap.Int("posts", len(ds.Posts)),
		zap.Int("tracking", len(ds.Tracking)),
		zap.Int("payouts", len(ds.Payouts)),
		zap.Duration("duration", time.Since(start)))
	return ds, nil
}
