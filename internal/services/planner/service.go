package planner

import (
	"context"
	"log"

	"github.com/xelth-com/freshroute/internal/metrics"
	"github.com/xelth-com/freshroute/internal/models"
	"github.com/xelth-com/freshroute/internal/reservations"
)

// FleetSource supplies the current fleet.
type FleetSource interface {
	Vehicles() []models.Vehicle
}

// Service loads orders, fleet and products and builds the dashboard.
type Service struct {
	orders  reservations.Source
	fleet   FleetSource
	metrics *metrics.Calculator
	planner *Planner
}

func NewService(orders reservations.Source, fleet FleetSource, calc *metrics.Calculator, p *Planner) *Service {
	return &Service{orders: orders, fleet: fleet, metrics: calc, planner: p}
}

// Dashboard plans the orders delivered between from and to (inclusive
// YYYY-MM-DD keys, either may be empty). Undated orders are always included.
// A failed order fetch yields an empty, degraded dashboard.
func (s *Service) Dashboard(ctx context.Context, from, to string) *Dashboard {
	q := reservations.Query{
		StatusIn:        models.PlanningStatuses(),
		DeliveryDateGte: from,
		DeliveryDateLte: to,
		IncludeUndated:  true,
	}
	degraded := false
	orders, err := s.orders.QueryOrders(ctx, q)
	if err != nil {
		log.Printf("⚠️  Planner: orders unavailable: %v", err)
		orders = nil
		degraded = true
	}
	products, ok := s.metrics.Products(ctx)
	if !ok {
		degraded = true
	}

	dash := s.planner.BuildDashboardData(orders, s.fleet.Vehicles(), products)
	dash.Degraded = degraded
	return dash
}
