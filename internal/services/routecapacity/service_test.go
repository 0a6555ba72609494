package routecapacity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xelth-com/freshroute/internal/catalog"
	"github.com/xelth-com/freshroute/internal/metrics"
	"github.com/xelth-com/freshroute/internal/models"
	"github.com/xelth-com/freshroute/internal/reservations"
	"github.com/xelth-com/freshroute/internal/utils"
)

// 2026-03-10 is a Tuesday.
var tuesday = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func committed(id uint, route, client string, kg float64) models.Order {
	d := tuesday
	return models.Order{
		ID:              id,
		RouteName:       route,
		ClientName:      client,
		DeliveryDate:    &d,
		DeliveryDateKey: utils.DateKey(d),
		Status:          models.OrderStatusConfirmed,
		TotalWeightKg:   kg,
	}
}

func newService(orders reservations.Source, routes []models.Route, now time.Time) *Service {
	return NewService(orders, catalog.StaticRoutes(routes), metrics.NewCalculator(nil), 5000, time.UTC).
		WithClock(func() time.Time { return now })
}

func TestSnapshotPortoAlegreOverCapacity(t *testing.T) {
	orders := &reservations.Static{Orders: []models.Order{
		committed(1, "Porto Alegre", "Mercado A", 2500),
		committed(2, "PORTO ALEGRE", "Mercado B", 1500),
		committed(3, "Pôrto Alegre - Centro", "Mercado C", 1200),
		committed(4, "Canoas", "Outro", 900),
	}}
	svc := newService(orders, nil, tuesday)

	snap, err := svc.GetCapacitySnapshot(context.Background(), SnapshotRequest{
		DeliveryDate:      tuesday,
		RouteName:         "Porto Alegre",
		PendingWeightKg:   100,
		PendingClientName: "Novo Cliente",
	})
	if err != nil {
		t.Fatal(err)
	}
	if snap.CurrentWeightKg != 5200 || snap.CurrentPercent != 104 {
		t.Errorf("current = %v kg %v%%, want 5200 kg 104%%", snap.CurrentWeightKg, snap.CurrentPercent)
	}
	if !snap.IsOverCapacity {
		t.Error("expected over capacity")
	}
	last := snap.Clients[len(snap.Clients)-1]
	if !last.Pending || last.ClientName != "Novo Cliente" || last.WeightKg != 100 {
		t.Errorf("pending client entry = %+v", last)
	}
	if len(snap.Clients) != 4 {
		t.Errorf("got %d clients, want 3 plus pending", len(snap.Clients))
	}
}

func TestSnapshotWithinCapacity(t *testing.T) {
	orders := &reservations.Static{Orders: []models.Order{committed(1, "Canoas", "A", 1000)}}
	snap, err := newService(orders, nil, tuesday).GetCapacitySnapshot(context.Background(), SnapshotRequest{
		DeliveryDate: tuesday, RouteName: "canoas", PendingWeightKg: 500,
	})
	if err != nil {
		t.Fatal(err)
	}
	if snap.IsOverCapacity || snap.ProjectedPercent != 30 {
		t.Errorf("got %v%% over=%v, want 30%% within capacity", snap.ProjectedPercent, snap.IsOverCapacity)
	}
	if snap.Clients[len(snap.Clients)-1].ClientName != DefaultPendingClient {
		t.Errorf("pending client should get the default name")
	}
	if FormatCapacityBlockMessage(snap, nil) != "" {
		t.Error("no message expected within capacity")
	}
}

func TestSnapshotDoesNotSumDistinctRoutes(t *testing.T) {
	orders := &reservations.Static{Orders: []models.Order{
		committed(1, "Porto Alegre", "Mercado A", 3000),
		committed(2, "Porto Velho", "Mercado B", 3000),
	}}
	svc := newService(orders, nil, tuesday)
	ctx := context.Background()

	snap, err := svc.GetCapacitySnapshot(ctx, SnapshotRequest{DeliveryDate: tuesday, RouteName: "Porto", PendingWeightKg: 100})
	if err != nil {
		t.Fatal(err)
	}
	if !snap.Ambiguous || snap.Reason == "" {
		t.Errorf("expected an ambiguous snapshot, got %+v", snap)
	}
	if snap.CurrentWeightKg != 0 || snap.OrderCount != 0 || snap.IsOverCapacity {
		t.Errorf("ambiguous name summed %v kg over %d orders (over=%v)", snap.CurrentWeightKg, snap.OrderCount, snap.IsOverCapacity)
	}

	snap, err = svc.GetCapacitySnapshot(ctx, SnapshotRequest{DeliveryDate: tuesday, RouteName: "porto velho", PendingWeightKg: 100})
	if err != nil {
		t.Fatal(err)
	}
	if snap.Ambiguous || snap.CurrentWeightKg != 3000 || snap.OrderCount != 1 {
		t.Errorf("exact name: got %+v, want 3000 kg from one order", snap)
	}

	snap, err = svc.GetCapacitySnapshot(ctx, SnapshotRequest{DeliveryDate: tuesday, RouteName: "Velho"})
	if err != nil {
		t.Fatal(err)
	}
	if snap.Ambiguous || snap.CurrentWeightKg != 3000 {
		t.Errorf("single partial match: got %+v, want 3000 kg", snap)
	}
}

func TestSnapshotDegradesOnOrderFailure(t *testing.T) {
	svc := newService(&reservations.Static{Err: errors.New("down")}, nil, tuesday)
	snap, err := svc.GetCapacitySnapshot(context.Background(), SnapshotRequest{DeliveryDate: tuesday, RouteName: "Canoas", PendingWeightKg: 10})
	if err != nil {
		t.Fatal(err)
	}
	if !snap.Degraded || snap.CurrentWeightKg != 0 {
		t.Errorf("got %+v, want degraded empty route", snap)
	}
}

func TestFindRoute(t *testing.T) {
	routes := []models.Route{
		{RouteName: "Porto Alegre"},
		{RouteName: "Porto Alegre Zona Norte"},
		{RouteName: "Canoas"},
		{RouteName: "Gravataí"},
		{RouteName: "GRAVATAI"},
	}
	tests := []struct {
		name    string
		want    string
		wantErr error
	}{
		{"pôrto  alegre", "Porto Alegre", nil},
		{"Canoas Centro", "Canoas", nil},
		{"Gravatai", "", ErrRouteAmbiguous},
		{"Alegre", "", ErrRouteAmbiguous},
		{"Pelotas", "", ErrRouteNotFound},
		{"", "", ErrRouteNotFound},
	}
	for _, tt := range tests {
		got, err := FindRoute(routes, tt.name)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("FindRoute(%q) err = %v, want %v", tt.name, err, tt.wantErr)
			continue
		}
		if got.RouteName != tt.want {
			t.Errorf("FindRoute(%q) = %q, want %q", tt.name, got.RouteName, tt.want)
		}
	}
}

func TestParseDeliveryDays(t *testing.T) {
	tests := []struct {
		raw  string
		want []time.Weekday
	}{
		{"seg, qua, sex", []time.Weekday{time.Monday, time.Wednesday, time.Friday}},
		{"Segunda-feira a Quarta-feira", []time.Weekday{time.Monday, time.Tuesday, time.Wednesday}},
		{"mon-fri", []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}},
		{"1,3,5", []time.Weekday{time.Monday, time.Wednesday, time.Friday}},
		{"Sábado", []time.Weekday{time.Saturday}},
	}
	for _, tt := range tests {
		days, ok := ParseDeliveryDays(tt.raw)
		if !ok {
			t.Errorf("ParseDeliveryDays(%q) not ok", tt.raw)
			continue
		}
		var want Weekdays
		for _, d := range tt.want {
			want[d] = true
		}
		if days != want {
			t.Errorf("ParseDeliveryDays(%q) = %v, want %v", tt.raw, days, want)
		}
	}

	if days, ok := ParseDeliveryDays(""); !ok || days != EveryDay {
		t.Error("empty input should mean every day")
	}
	if days, ok := ParseDeliveryDays("sempre"); ok || days != EveryDay {
		t.Error("unreadable input should fall back to every day and report it")
	}
}

func TestParseCutoff(t *testing.T) {
	if h, m, err := ParseCutoff("14:30"); err != nil || h != 14 || m != 30 {
		t.Errorf("14:30 = %d:%d %v", h, m, err)
	}
	if h, m, err := ParseCutoff("16h"); err != nil || h != 16 || m != 0 {
		t.Errorf("16h = %d:%d %v", h, m, err)
	}
	if _, _, err := ParseCutoff("25:00"); err == nil {
		t.Error("expected error for 25:00")
	}
}

func TestSuggestNextValidDeliveryDate(t *testing.T) {
	routes := []models.Route{
		{RouteName: "Pelotas", DeliveryDaysRaw: "ter, sex", CutoffTime: "14:00"},
		{RouteName: "Canoas"},
	}
	ctx := context.Background()

	t.Run("next delivery weekday", func(t *testing.T) {
		now := tuesday.Add(10 * time.Hour)
		s := newService(&reservations.Static{}, routes, now).SuggestNextValidDeliveryDate(ctx, "pelotas", tuesday)
		if !s.RouteFound || s.SuggestedDate == nil || *s.SuggestedDate != "2026-03-13" {
			t.Errorf("got %+v, want Friday 2026-03-13", s)
		}
	})

	t.Run("cutoff passed on the day before", func(t *testing.T) {
		// Thursday 15:00: Friday's cutoff is gone, next is Tuesday.
		now := tuesday.AddDate(0, 0, 2).Add(15 * time.Hour)
		s := newService(&reservations.Static{}, routes, now).SuggestNextValidDeliveryDate(ctx, "Pelotas", tuesday)
		if s.SuggestedDate == nil || *s.SuggestedDate != "2026-03-17" {
			t.Errorf("got %v, want 2026-03-17", s.SuggestedDate)
		}
	})

	t.Run("every day without cutoff", func(t *testing.T) {
		s := newService(&reservations.Static{}, routes, tuesday).SuggestNextValidDeliveryDate(ctx, "Canoas", tuesday)
		if s.SuggestedDate == nil || *s.SuggestedDate != "2026-03-11" {
			t.Errorf("got %v, want 2026-03-11", s.SuggestedDate)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		s := newService(&reservations.Static{}, routes, tuesday).SuggestNextValidDeliveryDate(ctx, "Curitiba", tuesday)
		if s.RouteFound || s.SuggestedDate != nil || s.Reason != ErrRouteNotFound.Error() {
			t.Errorf("got %+v, want no route", s)
		}
	})
}

func TestCheckBuildsBlockMessage(t *testing.T) {
	orders := &reservations.Static{Orders: []models.Order{committed(1, "Pelotas", "A", 4950)}}
	routes := []models.Route{{RouteName: "Pelotas", DeliveryDaysRaw: "ter, sex", CutoffTime: "14:00"}}
	svc := newService(orders, routes, tuesday.Add(-12*time.Hour))

	res, err := svc.Check(context.Background(), SnapshotRequest{DeliveryDate: tuesday, RouteName: "Pelotas", PendingWeightKg: 100})
	if err != nil {
		t.Fatal(err)
	}
	if res.Suggestion == nil || res.Suggestion.SuggestedDate == nil {
		t.Fatalf("expected a suggestion, got %+v", res)
	}
	for _, part := range []string{"Pelotas", "2026-03-10", "5050 kg", "101%", "2026-03-13"} {
		if !strings.Contains(res.Message, part) {
			t.Errorf("message %q missing %q", res.Message, part)
		}
	}
}
