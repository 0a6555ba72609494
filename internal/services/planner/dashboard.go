// Package planner turns committed orders into a Day -> Route -> Vehicle
// planning view with load percentages and capacity signals.
package planner

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xelth-com/freshroute/internal/metrics"
	"github.com/xelth-com/freshroute/internal/models"
	"github.com/xelth-com/freshroute/internal/utils"
)

const (
	DefaultRouteTargetCapacityKg = 5000
	DefaultExtraTruckThresholdKg = 2500

	// UnassignedRouteKey buckets orders without a route name.
	UnassignedRouteKey = "NO ROUTE"
)

type ClientLoad struct {
	ClientName       string          `json:"client_name"`
	WeightKg         float64         `json:"weight_kg"`
	Value            decimal.Decimal `json:"value"`
	Orders           int             `json:"orders"`
	ExceedsThreshold bool            `json:"exceeds_threshold,omitempty"`
}

type ProductLoad struct {
	ProductCode string  `json:"product_code"`
	Quantity    float64 `json:"quantity"`
	WeightKg    float64 `json:"weight_kg"`
}

// RouteBucket aggregates one route on one day.
type RouteBucket struct {
	Key                   string          `json:"key"`
	DisplayName           string          `json:"display_name"`
	Type                  RouteType       `json:"type"`
	TotalWeightKg         float64         `json:"total_weight_kg"`
	TotalValue            decimal.Decimal `json:"total_value"`
	OrderCount            int             `json:"order_count"`
	OrderIDs              []uint          `json:"order_ids"`
	Clients               []ClientLoad    `json:"clients"`
	Products              []ProductLoad   `json:"products"`
	BaseVehicle           *models.Vehicle `json:"base_vehicle,omitempty"`
	Vehicle               *models.Vehicle `json:"vehicle,omitempty"`
	AssignmentReason      string          `json:"assignment_reason,omitempty"`
	VehicleShared         bool            `json:"vehicle_shared,omitempty"`
	TargetPercent         float64         `json:"target_percent"`
	VehiclePercent        float64         `json:"vehicle_percent"`
	TargetSignal          Signal          `json:"target_signal"`
	VehicleSignal         Signal          `json:"vehicle_signal"`
	OverCapacity          bool            `json:"over_capacity"`
	ExtraTruckRequired    bool            `json:"extra_truck_required"`
	VanSuggestionRejected bool            `json:"van_suggestion_rejected,omitempty"`

	clients  map[string]*ClientLoad
	products map[string]*ProductLoad
}

type DayBucket struct {
	Date          string          `json:"date"`
	Routes        []*RouteBucket  `json:"routes"`
	TotalWeightKg float64         `json:"total_weight_kg"`
	TotalValue    decimal.Decimal `json:"total_value"`
	OrderCount    int             `json:"order_count"`
}

type Totals struct {
	WeightKg           float64         `json:"weight_kg"`
	Value              decimal.Decimal `json:"value"`
	Orders             int             `json:"orders"`
	Days               int             `json:"days"`
	Routes             int             `json:"routes"`
	OverCapacityRoutes int             `json:"over_capacity_routes"`
	ExtraTruckRoutes   int             `json:"extra_truck_routes"`
}

type Dashboard struct {
	Days     []*DayBucket `json:"days"`
	Totals   Totals       `json:"totals"`
	Degraded bool         `json:"degraded,omitempty"`
}

// Planner holds the planning constants.
type Planner struct {
	RouteTargetCapacityKg float64
	ExtraTruckThresholdKg float64
}

func New(targetKg, extraTruckKg float64) *Planner {
	if targetKg <= 0 {
		targetKg = DefaultRouteTargetCapacityKg
	}
	if extraTruckKg <= 0 {
		extraTruckKg = DefaultExtraTruckThresholdKg
	}
	return &Planner{RouteTargetCapacityKg: targetKg, ExtraTruckThresholdKg: extraTruckKg}
}

// BuildDashboardData groups planning-status orders by day and normalized
// route, assigns vehicles and derives signals. Orders outside the planning
// statuses are ignored; products resolves weights for orders without totals.
func (p *Planner) BuildDashboardData(orders []models.Order, fleet []models.Vehicle, products metrics.Products) *Dashboard {
	days := make(map[string]*DayBucket)
	routes := make(map[string]map[string]*RouteBucket)

	for _, o := range orders {
		if !models.StatusIn(o.Status, models.PlanningStatuses()) {
			continue
		}
		dayKey := o.DeliveryDateKey
		if dayKey == "" {
			dayKey = utils.NoDateKey
		}
		day, ok := days[dayKey]
		if !ok {
			day = &DayBucket{Date: dayKey, TotalValue: decimal.Zero}
			days[dayKey] = day
			routes[dayKey] = make(map[string]*RouteBucket)
		}

		routeKey := utils.NormalizeRouteName(o.RouteName)
		if routeKey == "" {
			routeKey = UnassignedRouteKey
		}
		bucket, ok := routes[dayKey][routeKey]
		if !ok {
			display := strings.TrimSpace(o.RouteName)
			if display == "" {
				display = UnassignedRouteKey
			}
			bucket = &RouteBucket{
				Key:         routeKey,
				DisplayName: display,
				Type:        ClassifyRoute(display),
				TotalValue:  decimal.Zero,
				clients:     make(map[string]*ClientLoad),
				products:    make(map[string]*ProductLoad),
			}
			routes[dayKey][routeKey] = bucket
			day.Routes = append(day.Routes, bucket)
		}
		bucket.add(o, products)
	}

	dash := &Dashboard{Days: make([]*DayBucket, 0, len(days)), Totals: Totals{Value: decimal.Zero}}
	view := newFleetView(fleet)
	for _, day := range days {
		sortRoutes(day.Routes)
		view.assignDay(day.Routes)
		for _, r := range day.Routes {
			p.finish(r)
			day.TotalWeightKg += r.TotalWeightKg
			day.TotalValue = day.TotalValue.Add(r.TotalValue)
			day.OrderCount += r.OrderCount

			dash.Totals.Routes++
			if r.OverCapacity {
				dash.Totals.OverCapacityRoutes++
			}
			if r.ExtraTruckRequired {
				dash.Totals.ExtraTruckRoutes++
			}
		}
		dash.Totals.WeightKg += day.TotalWeightKg
		dash.Totals.Value = dash.Totals.Value.Add(day.TotalValue)
		dash.Totals.Orders += day.OrderCount
		dash.Days = append(dash.Days, day)
	}
	dash.Totals.Days = len(dash.Days)

	sort.Slice(dash.Days, func(i, j int) bool {
		a, b := dash.Days[i].Date, dash.Days[j].Date
		if a == utils.NoDateKey || b == utils.NoDateKey {
			return b == utils.NoDateKey && a != utils.NoDateKey
		}
		return a < b
	})
	return dash
}

func (r *RouteBucket) add(o models.Order, products metrics.Products) {
	weight := products.OrderWeight(o)
	value := products.OrderValue(o)

	r.TotalWeightKg += weight
	r.TotalValue = r.TotalValue.Add(value)
	r.OrderCount++
	r.OrderIDs = append(r.OrderIDs, o.ID)

	name := strings.TrimSpace(o.ClientName)
	clientKey := utils.NormalizeKey(name)
	c, ok := r.clients[clientKey]
	if !ok {
		c = &ClientLoad{ClientName: name, Value: decimal.Zero}
		r.clients[clientKey] = c
	}
	c.WeightKg += weight
	c.Value = c.Value.Add(value)
	c.Orders++

	for _, m := range products.Items(o.Items) {
		pl, ok := r.products[m.ProductCode]
		if !ok {
			pl = &ProductLoad{ProductCode: m.ProductCode}
			r.products[m.ProductCode] = pl
		}
		pl.Quantity += m.Quantity
		pl.WeightKg += m.EstimatedWeightKg
	}
}

// finish computes percentages and signals and flattens the breakdowns.
func (p *Planner) finish(r *RouteBucket) {
	r.TargetPercent = Percent(r.TotalWeightKg, p.RouteTargetCapacityKg)
	if r.Vehicle != nil {
		r.VehiclePercent = Percent(r.TotalWeightKg, r.Vehicle.CapacityKg)
	}
	r.TargetSignal = CapacitySignal(r.TargetPercent)
	r.VehicleSignal = CapacitySignal(r.VehiclePercent)
	r.OverCapacity = r.TargetPercent > 100

	r.Clients = make([]ClientLoad, 0, len(r.clients))
	for _, c := range r.clients {
		c.ExceedsThreshold = c.WeightKg > p.ExtraTruckThresholdKg
		if c.ExceedsThreshold {
			r.ExtraTruckRequired = true
		}
		r.Clients = append(r.Clients, *c)
	}
	sort.Slice(r.Clients, func(i, j int) bool {
		if r.Clients[i].WeightKg != r.Clients[j].WeightKg {
			return r.Clients[i].WeightKg > r.Clients[j].WeightKg
		}
		return r.Clients[i].ClientName < r.Clients[j].ClientName
	})

	r.Products = make([]ProductLoad, 0, len(r.products))
	for _, pl := range r.products {
		r.Products = append(r.Products, *pl)
	}
	sort.Slice(r.Products, func(i, j int) bool {
		if r.Products[i].WeightKg != r.Products[j].WeightKg {
			return r.Products[i].WeightKg > r.Products[j].WeightKg
		}
		return r.Products[i].ProductCode < r.Products[j].ProductCode
	})
}

func sortRoutes(routes []*RouteBucket) {
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].TotalWeightKg != routes[j].TotalWeightKg {
			return routes[i].TotalWeightKg > routes[j].TotalWeightKg
		}
		return routes[i].Key < routes[j].Key
	})
}
