// Package metrics normalizes order line items into weight and value figures.
// The capacity planner relies on this exact normalization whenever an order
// has no stored total.
package metrics

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"github.com/xelth-com/freshroute/internal/catalog"
	"github.com/xelth-com/freshroute/internal/models"
)

// BaseTier is the price tier used when an item carries no price of its own.
const BaseTier = "base"

// ItemMetric is the normalized view of one line item.
type ItemMetric struct {
	ProductCode       string          `json:"product_code"`
	Quantity          float64         `json:"quantity"`
	UnitType          models.UnitType `json:"unit_type"`
	AverageWeightKg   float64         `json:"average_weight_kg"`
	PricePerKg        decimal.Decimal `json:"price_per_kg"`
	EstimatedWeightKg float64         `json:"estimated_weight_kg"`
	EstimatedValue    decimal.Decimal `json:"estimated_value"`
}

// Products is a product table keyed by code.
type Products map[string]models.Product

// Item normalizes a single item. Item-level values win over catalog values.
func (p Products) Item(item models.OrderItem) ItemMetric {
	prod, known := p[item.ProductCode]

	m := ItemMetric{
		ProductCode:     item.ProductCode,
		Quantity:        item.Quantity,
		UnitType:        item.UnitType,
		AverageWeightKg: item.AverageWeightKg,
		PricePerKg:      item.PricePerKg,
	}
	if m.UnitType == "" {
		m.UnitType = models.UnitTypeUnit
		if known && prod.UnitType != "" {
			m.UnitType = prod.UnitType
		}
	}
	if m.AverageWeightKg <= 0 && known {
		m.AverageWeightKg = prod.AverageWeightKg
	}
	if !m.PricePerKg.IsPositive() && known {
		m.PricePerKg = tierPrice(prod)
	}

	if m.UnitType == models.UnitTypeKilogram {
		m.EstimatedWeightKg = m.Quantity
	} else {
		m.EstimatedWeightKg = m.Quantity * m.AverageWeightKg
	}
	m.EstimatedValue = decimal.NewFromFloat(m.EstimatedWeightKg).Mul(m.PricePerKg).Round(2)
	return m
}

func tierPrice(prod models.Product) decimal.Decimal {
	tiers, err := prod.Tiers()
	if err != nil || len(tiers) == 0 {
		return decimal.Zero
	}
	if base, ok := tiers[BaseTier]; ok {
		return base
	}
	lowest := decimal.Zero
	first := true
	for _, price := range tiers {
		if first || price.LessThan(lowest) {
			lowest = price
			first = false
		}
	}
	return lowest
}

// Items normalizes every item of an order.
func (p Products) Items(items []models.OrderItem) []ItemMetric {
	out := make([]ItemMetric, len(items))
	for i, item := range items {
		out[i] = p.Item(item)
	}
	return out
}

// OrderWeight is the stored total when positive, otherwise the item estimate.
func (p Products) OrderWeight(o models.Order) float64 {
	if o.TotalWeightKg > 0 {
		return o.TotalWeightKg
	}
	total := 0.0
	for _, m := range p.Items(o.Items) {
		total += m.EstimatedWeightKg
	}
	return total
}

// OrderValue is the stored total when positive, otherwise the item estimate.
func (p Products) OrderValue(o models.Order) decimal.Decimal {
	if o.TotalValue.IsPositive() {
		return o.TotalValue
	}
	total := decimal.Zero
	for _, m := range p.Items(o.Items) {
		total = total.Add(m.EstimatedValue)
	}
	return total
}

// Calculator loads the product table for a computation.
type Calculator struct {
	catalog catalog.Products
}

func NewCalculator(c catalog.Products) *Calculator {
	return &Calculator{catalog: c}
}

// Products returns the current product table. A catalog failure degrades to
// an empty table, so orders without stored totals weigh zero until it recovers.
func (c *Calculator) Products(ctx context.Context) (Products, bool) {
	if c == nil || c.catalog == nil {
		return Products{}, true
	}
	products, err := c.catalog.Products(ctx)
	if err != nil {
		log.Printf("⚠️  Metrics: product catalog unavailable: %v", err)
		return Products{}, false
	}
	return Products(products), true
}
