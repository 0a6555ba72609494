package ledger

import (
	"context"
	"time"

	"github.com/xelth-com/freshroute/internal/cache"
	"github.com/xelth-com/freshroute/internal/models"
)

// Cached wraps a Source with independent short-TTL caches for the base stock
// snapshot and the entries list, shared by every breakdown within the window.
type Cached struct {
	src     Source
	base    *cache.Value[[]models.BaseStock]
	entries *cache.Value[[]models.StockEntry]
}

// NewCached wraps src with the given TTL.
func NewCached(src Source, ttl time.Duration) *Cached {
	return &Cached{
		src:     src,
		base:    cache.NewValue[[]models.BaseStock](ttl),
		entries: cache.NewValue[[]models.StockEntry](ttl),
	}
}

// WithClock replaces the clock of both caches, for tests.
func (c *Cached) WithClock(now func() time.Time) *Cached {
	c.base.WithClock(now)
	c.entries.WithClock(now)
	return c
}

func (c *Cached) BaseStock(ctx context.Context) ([]models.BaseStock, error) {
	return c.base.Get(ctx, c.src.BaseStock)
}

func (c *Cached) StockEntries(ctx context.Context) ([]models.StockEntry, error) {
	return c.entries.Get(ctx, c.src.StockEntries)
}
