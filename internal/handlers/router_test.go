package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xelth-com/freshroute/internal/catalog"
	"github.com/xelth-com/freshroute/internal/fleet"
	"github.com/xelth-com/freshroute/internal/ledger"
	"github.com/xelth-com/freshroute/internal/metrics"
	"github.com/xelth-com/freshroute/internal/models"
	"github.com/xelth-com/freshroute/internal/reservations"
	"github.com/xelth-com/freshroute/internal/services/availability"
	"github.com/xelth-com/freshroute/internal/services/planner"
	"github.com/xelth-com/freshroute/internal/services/routecapacity"
	"github.com/xelth-com/freshroute/internal/utils"
)

const testSecret = "test-secret"

var today = time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

func testRouter(t *testing.T) *Router {
	t.Helper()
	delivery := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	orders := &reservations.Static{Orders: []models.Order{{
		ID:              1,
		RouteName:       "Porto Alegre",
		ClientName:      "Mercado A",
		DeliveryDate:    &delivery,
		DeliveryDateKey: "2026-03-10",
		Status:          models.OrderStatusConfirmed,
		Items:           []models.OrderItem{{ProductCode: "ALF", Quantity: 8}},
		TotalWeightKg:   4950,
	}}}
	stock := &ledger.Static{Base: []models.BaseStock{{ProductCode: "ALF", Quantity: 10}}}
	routes := catalog.StaticRoutes{{RouteName: "Porto Alegre", DeliveryDaysRaw: "ter, qui"}}
	calc := metrics.NewCalculator(catalog.StaticProducts{})
	clock := func() time.Time { return today }

	return NewRouter(Deps{
		Availability: availability.NewEngine(stock, orders, time.UTC).WithClock(clock),
		Capacity:     routecapacity.NewService(orders, routes, calc, 5000, time.UTC).WithClock(clock),
		Planning:     planner.NewService(orders, fleet.NewRegistry(fleet.NewMemoryStore()), calc, planner.New(5000, 2500)),
		Fleet:        fleet.NewRegistry(fleet.NewMemoryStore()),
		JWTSecret:    testSecret,
		Location:     time.UTC,
	})
}

func do(t *testing.T, r *Router, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func adminHeader(t *testing.T) map[string]string {
	t.Helper()
	token, err := utils.GenerateAdminToken("planner", "admin", testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestRequestIDEcho(t *testing.T) {
	r := testRouter(t)
	rec := do(t, r, "GET", "/health", "", map[string]string{"X-Request-ID": "req-42"})
	if got := rec.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("echoed id = %q, want req-42", got)
	}
	rec = do(t, r, "GET", "/health", "", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated request id")
	}
}

func TestAvailabilityEndpoints(t *testing.T) {
	r := testRouter(t)

	rec := do(t, r, "GET", "/api/availability/ALF?date=2026-03-10", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var b availability.Breakdown
	json.NewDecoder(rec.Body).Decode(&b)
	if b.Available != 2 || b.Orders != 8 {
		t.Errorf("breakdown = %+v", b)
	}

	rec = do(t, r, "POST", "/api/availability/batch", `{"codes":["ALF","XYZ"],"date":"09/03/2026"}`, nil)
	var batch availability.Batch
	json.NewDecoder(rec.Body).Decode(&batch)
	if batch.Available["ALF"] != 10 || batch.Available["XYZ"] != 0 {
		t.Errorf("batch = %+v", batch.Available)
	}

	rec = do(t, r, "GET", "/api/availability/ALF/alternative?qty=5&from=2026-03-10", "", nil)
	var s availability.Suggestion
	json.NewDecoder(rec.Body).Decode(&s)
	if s.IsValid || s.SuggestedDate != nil {
		t.Errorf("suggestion = %+v, want no availability", s)
	}

	rec = do(t, r, "GET", "/api/availability/ALF/week", "", nil)
	var week availability.WeeklySchedule
	json.NewDecoder(rec.Body).Decode(&week)
	if len(week.Days) != 7 || week.Days[0].Date != "2026-03-09" {
		t.Errorf("week = %+v", week.Days)
	}

	if rec := do(t, r, "GET", "/api/availability/ALF?date=someday", "", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d", rec.Code)
	}
}

func TestCapacityCheckOverCapacity(t *testing.T) {
	r := testRouter(t)
	rec := do(t, r, "GET", "/api/capacity/check?date=2026-03-10&route=porto%20alegre&pendingKg=100&client=Novo", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var res routecapacity.CheckResult
	json.NewDecoder(rec.Body).Decode(&res)
	if !res.Snapshot.IsOverCapacity {
		t.Fatalf("expected over capacity: %+v", res.Snapshot)
	}
	if res.Suggestion == nil || res.Suggestion.SuggestedDate == nil || *res.Suggestion.SuggestedDate != "2026-03-12" {
		t.Errorf("suggestion = %+v, want Thursday 2026-03-12", res.Suggestion)
	}
	if res.Message == "" {
		t.Error("expected a block message")
	}

	if rec := do(t, r, "GET", "/api/capacity/snapshot?route=x", "", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing date status = %d", rec.Code)
	}
}

func TestNumericParamsRejectNonFinite(t *testing.T) {
	r := testRouter(t)
	targets := []string{
		"/api/capacity/check?date=2026-03-10&route=porto%20alegre&pendingKg=NaN",
		"/api/capacity/snapshot?date=2026-03-10&route=porto%20alegre&pendingKg=Inf",
		"/api/capacity/snapshot?date=2026-03-10&route=porto%20alegre&pendingKg=-1",
		"/api/availability/ALF/alternative?qty=NaN",
		"/api/availability/ALF/alternative?qty=%2BInf",
	}
	for _, target := range targets {
		rec := do(t, r, "GET", target, "", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400 (body %q)", target, rec.Code, rec.Body)
		}
	}

	rec := do(t, r, "GET", "/api/capacity/snapshot?date=2026-03-10&route=porto%20alegre&pendingKg=12,5", "", nil)
	var snap routecapacity.Snapshot
	json.NewDecoder(rec.Body).Decode(&snap)
	if rec.Code != http.StatusOK || snap.PendingWeightKg != 12.5 {
		t.Errorf("decimal comma: status %d pending %v", rec.Code, snap.PendingWeightKg)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := testRouter(t)
	if rec := do(t, r, "GET", "/api/fleet", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("fleet without token = %d", rec.Code)
	}

	rec := do(t, r, "GET", "/api/planning/dashboard?from=2026-03-10&to=2026-03-10", "", adminHeader(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status %d: %s", rec.Code, rec.Body)
	}
	var d planner.Dashboard
	json.NewDecoder(rec.Body).Decode(&d)
	if d.Totals.Orders != 1 || d.Totals.WeightKg != 4950 {
		t.Errorf("totals = %+v", d.Totals)
	}
}

func TestFleetEndpoints(t *testing.T) {
	r := testRouter(t)
	h := adminHeader(t)

	rec := do(t, r, "PUT", "/api/fleet", `[{"name":"Kombi","capacity_kg":900,"active":true}]`, h)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status %d: %s", rec.Code, rec.Body)
	}
	var saved []models.Vehicle
	json.NewDecoder(rec.Body).Decode(&saved)
	if len(saved) != 1 || saved[0].ID == "" {
		t.Errorf("saved = %+v", saved)
	}

	if rec := do(t, r, "PUT", "/api/fleet", `[{"name":"Broken","capacity_kg":0}]`, h); rec.Code != http.StatusBadRequest {
		t.Errorf("empty fleet status = %d", rec.Code)
	}

	rec = do(t, r, "POST", "/api/fleet/reset", "", h)
	var reset []models.Vehicle
	json.NewDecoder(rec.Body).Decode(&reset)
	if len(reset) != 5 {
		t.Errorf("reset returned %d vehicles", len(reset))
	}
}
