// Package availability computes per-product, per-date stock availability by
// reconciling the stock ledger with committed orders at read time.
package availability

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/xelth-com/freshroute/internal/ledger"
	"github.com/xelth-com/freshroute/internal/models"
	"github.com/xelth-com/freshroute/internal/reservations"
	"github.com/xelth-com/freshroute/internal/utils"
)

// DefaultSearchDays bounds the forward search for an alternative date.
const DefaultSearchDays = 30

// WeekDays is the length of the weekly schedule.
const WeekDays = 7

var ErrEmptyProductCode = errors.New("product code is required")

// Breakdown is the availability of one product on one date.
// Base is the undated "as of today" snapshot and is applied to every date.
type Breakdown struct {
	ProductCode  string  `json:"product_code"`
	Date         string  `json:"date"`
	Base         float64 `json:"base"`
	Entries      float64 `json:"entries"`
	Orders       float64 `json:"orders"`
	Available    float64 `json:"available"`
	RawAvailable float64 `json:"raw_available"`
	Degraded     bool    `json:"degraded,omitempty"`
}

// Batch maps product codes to their floored availability on Date.
type Batch struct {
	Date      string             `json:"date"`
	Available map[string]float64 `json:"available"`
	Degraded  bool               `json:"degraded,omitempty"`
}

// Suggestion is the outcome of a forward search. SuggestedDate is nil when
// fromDate already suffices or when the horizon was exhausted.
type Suggestion struct {
	ProductCode   string  `json:"product_code"`
	DesiredQty    float64 `json:"desired_qty"`
	IsValid       bool    `json:"is_valid"`
	AvailableQty  float64 `json:"available_qty"`
	SuggestedDate *string `json:"suggested_date"`
	DaysAhead     *int    `json:"days_ahead"`
	Degraded      bool    `json:"degraded,omitempty"`
}

// DayQuantity is one entry of the weekly schedule.
type DayQuantity struct {
	Date     string  `json:"date"`
	Quantity float64 `json:"qty"`
}

type WeeklySchedule struct {
	ProductCode string        `json:"product_code"`
	Days        []DayQuantity `json:"days"`
	Degraded    bool          `json:"degraded,omitempty"`
}

// Engine composes ledger facts and committed orders. It holds no state of its
// own; caching lives in the injected ledger source.
type Engine struct {
	ledger     ledger.Source
	orders     reservations.Source
	loc        *time.Location
	now        func() time.Time
	searchDays int
}

func NewEngine(l ledger.Source, o reservations.Source, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{
		ledger:     l,
		orders:     o,
		loc:        loc,
		now:        time.Now,
		searchDays: DefaultSearchDays,
	}
}

// WithClock sets the clock used for "today".
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// WithSearchDays sets the forward-search horizon.
func (e *Engine) WithSearchDays(days int) *Engine {
	if days > 0 {
		e.searchDays = days
	}
	return e
}

// Today is midnight of the current day in the engine's location.
func (e *Engine) Today() time.Time {
	return utils.StartOfDay(e.now().In(e.loc))
}

// GetBreakdown returns the availability of code on date.
func (e *Engine) GetBreakdown(ctx context.Context, code string, date time.Time) (Breakdown, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Breakdown{}, ErrEmptyProductCode
	}
	day := e.day(date)
	snap := e.load(ctx, day)
	return snap.breakdown(code, day), nil
}

// GetBatchAvailability fetches the ledger and orders once and distributes
// the sums per code. Blank codes are ignored.
func (e *Engine) GetBatchAvailability(ctx context.Context, codes []string, date time.Time) (Batch, error) {
	day := e.day(date)
	snap := e.load(ctx, day)

	out := Batch{
		Date:      utils.DateKey(day),
		Available: make(map[string]float64, len(codes)),
		Degraded:  snap.degraded,
	}
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		out.Available[code] = snap.breakdown(code, day).Available
	}
	return out, nil
}

// SuggestAlternativeDate checks fromDate, then scans the days strictly after
// it and returns the first one with at least desiredQty available.
func (e *Engine) SuggestAlternativeDate(ctx context.Context, code string, desiredQty float64, fromDate time.Time) (Suggestion, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Suggestion{}, ErrEmptyProductCode
	}
	from := e.day(fromDate)
	horizon := utils.AddDays(from, e.searchDays)
	snap := e.load(ctx, horizon)

	first := snap.breakdown(code, from)
	s := Suggestion{
		ProductCode:  code,
		DesiredQty:   desiredQty,
		AvailableQty: first.Available,
		Degraded:     snap.degraded,
	}
	if first.Available >= desiredQty {
		s.IsValid = true
		return s, nil
	}

	for i := 1; i <= e.searchDays; i++ {
		candidate := utils.AddDays(from, i)
		b := snap.breakdown(code, candidate)
		if b.Available >= desiredQty {
			key := b.Date
			ahead := i
			s.SuggestedDate = &key
			s.DaysAhead = &ahead
			s.AvailableQty = b.Available
			return s, nil
		}
	}
	return s, nil
}

// GetWeeklySchedule returns the availability for today and the six days after.
func (e *Engine) GetWeeklySchedule(ctx context.Context, code string) (WeeklySchedule, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return WeeklySchedule{}, ErrEmptyProductCode
	}
	today := e.Today()
	snap := e.load(ctx, utils.AddDays(today, WeekDays-1))

	out := WeeklySchedule{ProductCode: code, Days: make([]DayQuantity, 0, WeekDays), Degraded: snap.degraded}
	for i := 0; i < WeekDays; i++ {
		day := utils.AddDays(today, i)
		out.Days = append(out.Days, DayQuantity{
			Date:     utils.DateKey(day),
			Quantity: snap.breakdown(code, day).Available,
		})
	}
	return out, nil
}

func (e *Engine) day(t time.Time) time.Time {
	if t.IsZero() {
		return e.Today()
	}
	return utils.StartOfDay(t.In(e.loc))
}

// snapshot holds the raw facts needed to answer queries up to a date.
type snapshot struct {
	base     map[string]float64
	entries  []models.StockEntry
	orders   []models.Order
	degraded bool
}

// load fetches every fact needed for dates up to and including upTo.
// Fetch failures are logged and treated as empty sets.
func (e *Engine) load(ctx context.Context, upTo time.Time) *snapshot {
	snap := &snapshot{base: make(map[string]float64)}

	base, err := e.ledger.BaseStock(ctx)
	if err != nil {
		log.Printf("⚠️  Availability: base stock unavailable, assuming none: %v", err)
		snap.degraded = true
	}
	for _, b := range base {
		snap.base[b.ProductCode] += b.Quantity
	}

	entries, err := e.ledger.StockEntries(ctx)
	if err != nil {
		log.Printf("⚠️  Availability: stock entries unavailable, assuming none: %v", err)
		snap.degraded = true
	}
	snap.entries = entries

	orders, err := e.orders.QueryOrders(ctx, reservations.Query{
		StatusIn:        models.CommittedStatuses(),
		DeliveryDateLte: utils.DateKey(upTo),
	})
	if err != nil {
		log.Printf("⚠️  Availability: orders unavailable, assuming no reservations: %v", err)
		snap.degraded = true
		orders = nil
	}
	snap.orders = orders
	return snap
}

func (s *snapshot) breakdown(code string, day time.Time) Breakdown {
	key := utils.DateKey(day)
	b := Breakdown{
		ProductCode: code,
		Date:        key,
		Base:        s.base[code],
		Degraded:    s.degraded,
	}
	for _, entry := range s.entries {
		if entry.ProductCode == code && utils.DateKey(entry.EntryDate) <= key {
			b.Entries += entry.Quantity
		}
	}
	for _, o := range s.orders {
		if o.DeliveryDateKey == "" || o.DeliveryDateKey > key || !o.Status.IsCommitted() {
			continue
		}
		for _, item := range o.Items {
			if item.ProductCode == code {
				b.Orders += item.Quantity
			}
		}
	}
	b.RawAvailable = b.Base + b.Entries - b.Orders
	b.Available = b.RawAvailable
	if b.Available < 0 {
		b.Available = 0
	}
	return b
}
