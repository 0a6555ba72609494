// Package ledger reads the physical stock ledger: the "as of today" base
// stock snapshot and the dated incoming-stock entries.
package ledger

import (
	"context"

	"github.com/xelth-com/freshroute/internal/models"
)

// Source is read-only access to the stock ledger.
type Source interface {
	BaseStock(ctx context.Context) ([]models.BaseStock, error)
	StockEntries(ctx context.Context) ([]models.StockEntry, error)
}

// Static is an in-memory ledger, used when no spreadsheet is configured and in tests.
type Static struct {
	Base    []models.BaseStock
	Entries []models.StockEntry
}

func (s *Static) BaseStock(ctx context.Context) ([]models.BaseStock, error) {
	return s.Base, nil
}

func (s *Static) StockEntries(ctx context.Context) ([]models.StockEntry, error) {
	return s.Entries, nil
}
