// Package catalog reads the product and route catalogs consumed by the
// planning services. Both are maintained by out-of-scope admin screens.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/xelth-com/freshroute/internal/cache"
	"github.com/xelth-com/freshroute/internal/models"
	"gorm.io/gorm"
)

// Products resolves catalog entries by product code.
type Products interface {
	Products(ctx context.Context) (map[string]models.Product, error)
}

// Routes lists the route catalog.
type Routes interface {
	Routes(ctx context.Context) ([]models.Route, error)
}

// GormProducts loads active products, cached for ttl.
type GormProducts struct {
	db    *gorm.DB
	cache *cache.Value[map[string]models.Product]
}

func NewGormProducts(db *gorm.DB, ttl time.Duration) *GormProducts {
	return &GormProducts{db: db, cache: cache.NewValue[map[string]models.Product](ttl)}
}

func (p *GormProducts) Products(ctx context.Context) (map[string]models.Product, error) {
	return p.cache.Get(ctx, func(ctx context.Context) (map[string]models.Product, error) {
		var products []models.Product
		if err := p.db.WithContext(ctx).Where("active = ?", true).Find(&products).Error; err != nil {
			return nil, fmt.Errorf("failed to load products: %w", err)
		}
		byCode := make(map[string]models.Product, len(products))
		for _, prod := range products {
			byCode[prod.Code] = prod
		}
		return byCode, nil
	})
}

// GormRoutes reads the route catalog on every call; it is small and rarely read.
type GormRoutes struct {
	db *gorm.DB
}

func NewGormRoutes(db *gorm.DB) *GormRoutes {
	return &GormRoutes{db: db}
}

func (r *GormRoutes) Routes(ctx context.Context) ([]models.Route, error) {
	var routes []models.Route
	if err := r.db.WithContext(ctx).Order("route_name").Find(&routes).Error; err != nil {
		return nil, fmt.Errorf("failed to load routes: %w", err)
	}
	return routes, nil
}

// StaticProducts is an in-memory product catalog.
type StaticProducts map[string]models.Product

func (s StaticProducts) Products(ctx context.Context) (map[string]models.Product, error) {
	return s, nil
}

// StaticRoutes is an in-memory route catalog.
type StaticRoutes []models.Route

func (s StaticRoutes) Routes(ctx context.Context) ([]models.Route, error) {
	return s, nil
}
