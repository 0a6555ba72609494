// Package reservations reads committed orders from the relational store and
// decodes them into typed orders at the boundary.
package reservations

import (
	"context"
	"log"
	"time"

	"github.com/xelth-com/freshroute/internal/models"
	"github.com/xelth-com/freshroute/internal/utils"
)

// Query selects orders. Date bounds are inclusive YYYY-MM-DD keys; an empty
// bound is unset. Orders without a delivery date only match when no date
// bound is set or IncludeUndated is true.
type Query struct {
	StatusIn        []models.OrderStatus
	DeliveryDateOn  string
	DeliveryDateGte string
	DeliveryDateLte string
	IncludeUndated  bool
}

// Source is read-only access to orders.
type Source interface {
	QueryOrders(ctx context.Context, q Query) ([]models.Order, error)
}

// Decode turns a stored row into a typed order. An undecodable item payload
// yields an order with no items and ItemsMalformed set.
func Decode(rec models.OrderRecord, loc *time.Location) models.Order {
	o := models.Order{
		ID:            rec.ID,
		OrderNumber:   rec.OrderNumber,
		ClientName:    rec.ClientName,
		RouteName:     rec.RouteName,
		Status:        models.NormalizeOrderStatus(rec.Status),
		TotalWeightKg: rec.TotalWeightKg,
		TotalValue:    rec.TotalValue,
	}
	if rec.DeliveryDate != nil && !rec.DeliveryDate.IsZero() {
		// date columns come back as UTC midnight; keep the calendar day
		y, m, d := rec.DeliveryDate.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)
		o.DeliveryDate = &day
		o.DeliveryDateKey = utils.DateKey(day)
	}

	items, err := DecodeItems(rec.Items)
	if err != nil {
		log.Printf("⚠️  Order %d: %v, counting it with no items", rec.ID, err)
		o.ItemsMalformed = true
		return o
	}
	o.Items = items
	return o
}

// Matches applies q to an already decoded order.
func (q Query) Matches(o models.Order) bool {
	if len(q.StatusIn) > 0 && !models.StatusIn(o.Status, q.StatusIn) {
		return false
	}
	dated := q.DeliveryDateOn != "" || q.DeliveryDateGte != "" || q.DeliveryDateLte != ""
	if o.DeliveryDateKey == "" {
		return !dated || q.IncludeUndated
	}
	if q.DeliveryDateOn != "" && o.DeliveryDateKey != q.DeliveryDateOn {
		return false
	}
	if q.DeliveryDateGte != "" && o.DeliveryDateKey < q.DeliveryDateGte {
		return false
	}
	if q.DeliveryDateLte != "" && o.DeliveryDateKey > q.DeliveryDateLte {
		return false
	}
	return true
}

// Static is an in-memory order source, used in tests and demos.
type Static struct {
	Orders []models.Order
	Err    error
}

func (s *Static) QueryOrders(ctx context.Context, q Query) ([]models.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []models.Order
	for _, o := range s.Orders {
		if q.Matches(o) {
			out = append(out, o)
		}
	}
	return out, nil
}
