// Package routecapacity answers checkout-time capacity questions for a
// route on a date and suggests the next valid delivery date when full.
package routecapacity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/xelth-com/freshroute/internal/catalog"
	"github.com/xelth-com/freshroute/internal/metrics"
	"github.com/xelth-com/freshroute/internal/models"
	"github.com/xelth-com/freshroute/internal/reservations"
	"github.com/xelth-com/freshroute/internal/services/planner"
	"github.com/xelth-com/freshroute/internal/utils"
)

// DefaultSearchDays bounds the delivery-date search.
const DefaultSearchDays = 60

// DefaultPendingClient names the order being checked out when no client is given.
const DefaultPendingClient = "Pending order"

var (
	ErrRouteNotFound  = errors.New("route not found")
	ErrRouteAmbiguous = errors.New("route name matches more than one route")
)

// SnapshotRequest describes a prospective order.
type SnapshotRequest struct {
	DeliveryDate      time.Time
	RouteName         string
	PendingWeightKg   float64
	PendingClientName string
}

type ClientLoad struct {
	ClientName string  `json:"client_name"`
	WeightKg   float64 `json:"weight_kg"`
	Orders     int     `json:"orders"`
	Pending    bool    `json:"pending,omitempty"`
}

type Snapshot struct {
	DeliveryDate      string         `json:"delivery_date"`
	RouteName         string         `json:"route_name"`
	TargetCapacityKg  float64        `json:"target_capacity_kg"`
	CurrentWeightKg   float64        `json:"current_weight_kg"`
	PendingWeightKg   float64        `json:"pending_weight_kg"`
	ProjectedWeightKg float64        `json:"projected_weight_kg"`
	CurrentPercent    float64        `json:"current_percent"`
	ProjectedPercent  float64        `json:"projected_percent"`
	CurrentSignal     planner.Signal `json:"current_signal"`
	ProjectedSignal   planner.Signal `json:"projected_signal"`
	OrderCount        int            `json:"order_count"`
	Clients           []ClientLoad   `json:"clients"`
	IsOverCapacity    bool           `json:"is_over_capacity"`
	Ambiguous         bool           `json:"ambiguous,omitempty"`
	Reason            string         `json:"reason,omitempty"`
	Degraded          bool           `json:"degraded,omitempty"`
}

// DeliverySuggestion is the next weekday/cutoff-eligible date for a route.
// Capacity on SuggestedDate is not checked.
type DeliverySuggestion struct {
	RouteName     string  `json:"route_name"`
	MatchedRoute  string  `json:"matched_route,omitempty"`
	FromDate      string  `json:"from_date"`
	SuggestedDate *string `json:"suggested_date"`
	RouteFound    bool    `json:"route_found"`
	Reason        string  `json:"reason,omitempty"`
	Degraded      bool    `json:"degraded,omitempty"`
}

// CheckResult combines a snapshot with a suggestion when over capacity.
type CheckResult struct {
	Snapshot   Snapshot            `json:"snapshot"`
	Suggestion *DeliverySuggestion `json:"suggestion,omitempty"`
	Message    string              `json:"message,omitempty"`
}

type Service struct {
	orders     reservations.Source
	routes     catalog.Routes
	metrics    *metrics.Calculator
	targetKg   float64
	loc        *time.Location
	now        func() time.Time
	searchDays int
}

func NewService(orders reservations.Source, routes catalog.Routes, calc *metrics.Calculator, targetKg float64, loc *time.Location) *Service {
	if targetKg <= 0 {
		targetKg = planner.DefaultRouteTargetCapacityKg
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		orders:     orders,
		routes:     routes,
		metrics:    calc,
		targetKg:   targetKg,
		loc:        loc,
		now:        time.Now,
		searchDays: DefaultSearchDays,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) WithSearchDays(days int) *Service {
	if days > 0 {
		s.searchDays = days
	}
	return s
}

// GetCapacitySnapshot sums the committed load of the route on the date and
// projects the pending order on top of it. A name matching several distinct
// routes sums nothing and sets Ambiguous.
func (s *Service) GetCapacitySnapshot(ctx context.Context, req SnapshotRequest) (Snapshot, error) {
	if strings.TrimSpace(req.RouteName) == "" {
		return Snapshot{}, ErrRouteNotFound
	}
	day := utils.StartOfDay(req.DeliveryDate.In(s.loc))
	snap := Snapshot{
		DeliveryDate:     utils.DateKey(day),
		RouteName:        strings.TrimSpace(req.RouteName),
		TargetCapacityKg: s.targetKg,
		PendingWeightKg:  req.PendingWeightKg,
	}

	orders, err := s.orders.QueryOrders(ctx, reservations.Query{
		StatusIn:       models.CommittedStatuses(),
		DeliveryDateOn: snap.DeliveryDate,
	})
	if err != nil {
		log.Printf("⚠️  RouteCapacity: orders unavailable for %s, assuming empty route: %v", snap.DeliveryDate, err)
		snap.Degraded = true
		orders = nil
	}
	products, ok := s.metrics.Products(ctx)
	if !ok {
		snap.Degraded = true
	}

	matched, ok := ordersOnRoute(orders, req.RouteName)
	if !ok {
		log.Printf("⚠️  RouteCapacity: %q matches several routes on %s, not summing them", snap.RouteName, snap.DeliveryDate)
		snap.Ambiguous = true
		snap.Reason = ErrRouteAmbiguous.Error()
	}

	clients := make(map[string]*ClientLoad)
	var order []string
	for _, o := range matched {
		weight := products.OrderWeight(o)
		snap.CurrentWeightKg += weight
		snap.OrderCount++

		key := utils.NormalizeKey(o.ClientName)
		c, seen := clients[key]
		if !seen {
			c = &ClientLoad{ClientName: strings.TrimSpace(o.ClientName)}
			clients[key] = c
			order = append(order, key)
		}
		c.WeightKg += weight
		c.Orders++
	}

	snap.Clients = make([]ClientLoad, 0, len(order)+1)
	for _, key := range order {
		snap.Clients = append(snap.Clients, *clients[key])
	}
	sort.SliceStable(snap.Clients, func(i, j int) bool {
		return snap.Clients[i].WeightKg > snap.Clients[j].WeightKg
	})
	if req.PendingWeightKg > 0 {
		name := strings.TrimSpace(req.PendingClientName)
		if name == "" {
			name = DefaultPendingClient
		}
		snap.Clients = append(snap.Clients, ClientLoad{ClientName: name, WeightKg: req.PendingWeightKg, Orders: 1, Pending: true})
	}

	snap.ProjectedWeightKg = snap.CurrentWeightKg + req.PendingWeightKg
	snap.CurrentPercent = planner.Percent(snap.CurrentWeightKg, s.targetKg)
	snap.ProjectedPercent = planner.Percent(snap.ProjectedWeightKg, s.targetKg)
	snap.CurrentSignal = planner.CapacitySignal(snap.CurrentPercent)
	snap.ProjectedSignal = planner.CapacitySignal(snap.ProjectedPercent)
	snap.IsOverCapacity = snap.ProjectedPercent > 100
	return snap, nil
}

// ordersOnRoute keeps the orders of exactly one route. When some order's
// normalized route equals the requested name, that route and its longer
// variants ("Porto Alegre - Centro") are kept. Otherwise every containment
// match must share one normalized route name, or ok is false.
func ordersOnRoute(orders []models.Order, name string) (matched []models.Order, ok bool) {
	key := utils.NormalizeRouteName(name)
	var exact, longer, partial []models.Order
	keys := make(map[string]struct{})
	for _, o := range orders {
		if !utils.RouteNamesMatch(o.RouteName, name) {
			continue
		}
		k := utils.NormalizeRouteName(o.RouteName)
		switch {
		case k == key:
			exact = append(exact, o)
		case strings.Contains(k, key):
			longer = append(longer, o)
		}
		partial = append(partial, o)
		keys[k] = struct{}{}
	}
	if len(exact) > 0 {
		return append(exact, longer...), true
	}
	if len(keys) > 1 {
		return nil, false
	}
	return partial, true
}

// FindRoute resolves a route name against the catalog: normalized equality
// first, then containment in either direction.
func FindRoute(routes []models.Route, name string) (models.Route, error) {
	key := utils.NormalizeRouteName(name)
	if key == "" {
		return models.Route{}, ErrRouteNotFound
	}
	if m, err := single(routes, func(r models.Route) bool {
		return utils.NormalizeRouteName(r.RouteName) == key
	}); !errors.Is(err, ErrRouteNotFound) {
		return m, err
	}
	return single(routes, func(r models.Route) bool {
		return utils.RouteNamesMatch(r.RouteName, name)
	})
}

func single(routes []models.Route, match func(models.Route) bool) (models.Route, error) {
	var found []models.Route
	for _, r := range routes {
		if match(r) {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return models.Route{}, ErrRouteNotFound
	case 1:
		return found[0], nil
	default:
		return models.Route{}, ErrRouteAmbiguous
	}
}

// ScheduleFor builds the delivery schedule of a catalog route.
func ScheduleFor(r models.Route) Schedule {
	days, ok := ParseDeliveryDays(r.DeliveryDaysRaw)
	if !ok {
		log.Printf("⚠️  RouteCapacity: unreadable delivery days %q for %s, assuming every day", r.DeliveryDaysRaw, r.RouteName)
	}
	sched := Schedule{Days: days}
	if strings.TrimSpace(r.CutoffTime) != "" {
		h, m, err := ParseCutoff(r.CutoffTime)
		if err != nil {
			log.Printf("⚠️  RouteCapacity: %v for %s, ignoring cutoff", err, r.RouteName)
		} else {
			sched.HasCutoff = true
			sched.CutoffHour = h
			sched.CutoffMinute = m
		}
	}
	return sched
}

// SuggestNextValidDeliveryDate returns the first date strictly after
// fromDate on which the route delivers and whose cutoff has not passed.
// An unknown or ambiguous route is reported in the result, not as an error.
func (s *Service) SuggestNextValidDeliveryDate(ctx context.Context, routeName string, fromDate time.Time) DeliverySuggestion {
	from := utils.StartOfDay(fromDate.In(s.loc))
	out := DeliverySuggestion{RouteName: strings.TrimSpace(routeName), FromDate: utils.DateKey(from)}

	routes, err := s.routes.Routes(ctx)
	if err != nil {
		log.Printf("⚠️  RouteCapacity: route catalog unavailable: %v", err)
		out.Degraded = true
		out.Reason = "route catalog unavailable"
		return out
	}
	route, err := FindRoute(routes, routeName)
	if err != nil {
		out.Reason = err.Error()
		return out
	}
	out.RouteFound = true
	out.MatchedRoute = route.RouteName

	next, ok := ScheduleFor(route).Next(from, s.now().In(s.loc), s.searchDays)
	if !ok {
		out.Reason = fmt.Sprintf("no delivery date within %d days", s.searchDays)
		return out
	}
	key := utils.DateKey(next)
	out.SuggestedDate = &key
	return out
}

// Check runs a snapshot and, when the route would be over capacity, looks
// for the next delivery date and builds the block message.
func (s *Service) Check(ctx context.Context, req SnapshotRequest) (CheckResult, error) {
	snap, err := s.GetCapacitySnapshot(ctx, req)
	if err != nil {
		return CheckResult{}, err
	}
	res := CheckResult{Snapshot: snap}
	if !snap.IsOverCapacity {
		return res, nil
	}
	suggestion := s.SuggestNextValidDeliveryDate(ctx, req.RouteName, req.DeliveryDate)
	res.Suggestion = &suggestion
	res.Message = FormatCapacityBlockMessage(snap, &suggestion)
	return res, nil
}

// FormatCapacityBlockMessage is the one-line message shown when an order is
// blocked. It is empty when the snapshot is within capacity.
func FormatCapacityBlockMessage(snap Snapshot, suggestion *DeliverySuggestion) string {
	if !snap.IsOverCapacity {
		return ""
	}
	msg := fmt.Sprintf("Route %s is full on %s: %.0f kg projected (%.0f%% of %.0f kg).",
		snap.RouteName, snap.DeliveryDate, snap.ProjectedWeightKg, snap.ProjectedPercent, snap.TargetCapacityKg)
	if suggestion != nil && suggestion.SuggestedDate != nil {
		return msg + " Next available delivery date: " + *suggestion.SuggestedDate + "."
	}
	return msg + " Choose another delivery date."
}

// Today is midnight of the current day in the service's location.
func (s *Service) Today() time.Time {
	return utils.StartOfDay(s.now().In(s.loc))
}
