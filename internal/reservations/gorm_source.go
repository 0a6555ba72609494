package reservations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xelth-com/freshroute/internal/models"
	"gorm.io/gorm"
)

// GormSource reads orders through gorm.
type GormSource struct {
	db  *gorm.DB
	loc *time.Location
}

// NewGormSource creates a gorm-backed order source. loc is the calendar used
// for delivery dates.
func NewGormSource(db *gorm.DB, loc *time.Location) *GormSource {
	if loc == nil {
		loc = time.UTC
	}
	return &GormSource{db: db, loc: loc}
}

// QueryOrders fetches and decodes orders. Status filtering uses every stored
// alias of the requested statuses, then re-checks the normalized value.
func (s *GormSource) QueryOrders(ctx context.Context, q Query) ([]models.Order, error) {
	tx := s.db.WithContext(ctx).Model(&models.OrderRecord{})

	if len(q.StatusIn) > 0 {
		tx = tx.Where("lower(trim(status)) IN ?", models.RawAliases(q.StatusIn))
	}

	var conds []string
	var args []interface{}
	if q.DeliveryDateOn != "" {
		conds = append(conds, "delivery_date = ?")
		args = append(args, q.DeliveryDateOn)
	}
	if q.DeliveryDateGte != "" {
		conds = append(conds, "delivery_date >= ?")
		args = append(args, q.DeliveryDateGte)
	}
	if q.DeliveryDateLte != "" {
		conds = append(conds, "delivery_date <= ?")
		args = append(args, q.DeliveryDateLte)
	}
	if len(conds) > 0 {
		clause := strings.Join(conds, " AND ")
		if q.IncludeUndated {
			clause = "((" + clause + ") OR delivery_date IS NULL)"
		}
		tx = tx.Where(clause, args...)
	}

	var records []models.OrderRecord
	if err := tx.Order("delivery_date, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	orders := make([]models.Order, 0, len(records))
	for _, rec := range records {
		o := Decode(rec, s.loc)
		// aliases with odd spacing/accents can slip past the SQL filter
		if len(q.StatusIn) > 0 && !models.StatusIn(o.Status, q.StatusIn) {
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}
