package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/xelth-com/freshroute/internal/models"
	"gorm.io/gorm"
)

// GormSource reads the ledger from the base_stock and stock_entries tables.
// It serves deployments without a spreadsheet and the seeded demo database.
type GormSource struct {
	db  *gorm.DB
	loc *time.Location
}

func NewGormSource(db *gorm.DB, loc *time.Location) *GormSource {
	if loc == nil {
		loc = time.UTC
	}
	return &GormSource{db: db, loc: loc}
}

func (s *GormSource) BaseStock(ctx context.Context) ([]models.BaseStock, error) {
	var rows []models.BaseStock
	if err := s.db.WithContext(ctx).Order("product_code").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read base stock: %w", err)
	}
	return rows, nil
}

func (s *GormSource) StockEntries(ctx context.Context) ([]models.StockEntry, error) {
	var rows []models.StockEntry
	if err := s.db.WithContext(ctx).Order("entry_date, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read stock entries: %w", err)
	}
	for i := range rows {
		// date columns come back as UTC midnight; keep the calendar day
		y, m, d := rows[i].EntryDate.Date()
		rows[i].EntryDate = time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	}
	return rows, nil
}
