package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderRecord is the stored order row written by checkout. Status holds the
// raw (possibly legacy) spelling and Items the raw line-item payload; both are
// decoded by the reservations package, never read directly by the services.
type OrderRecord struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderNumber   string          `gorm:"index" json:"order_number"`
	ClientName    string          `gorm:"index" json:"client_name"`
	RouteName     string          `gorm:"index" json:"route_name"`
	DeliveryDate  *time.Time      `gorm:"type:date;index" json:"delivery_date,omitempty"`
	Status        string          `gorm:"index" json:"status"`
	Items         datatypes.JSON  `json:"items"`
	TotalWeightKg float64         `json:"total_weight_kg"`
	TotalValue    decimal.Decimal `gorm:"type:numeric(14,2)" json:"total_value"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for OrderRecord
func (OrderRecord) TableName() string {
	return "orders"
}

// OrderItem is one decoded line item.
type OrderItem struct {
	ProductCode     string          `json:"product_code"`
	Quantity        float64         `json:"quantity"`
	UnitType        UnitType        `json:"unit_type,omitempty"`
	AverageWeightKg float64         `json:"average_weight_kg,omitempty"`
	PricePerKg      decimal.Decimal `json:"price_per_kg"`
}

// Order is a decoded order (a reservation once committed).
type Order struct {
	ID              uint            `json:"id"`
	OrderNumber     string          `json:"order_number"`
	ClientName      string          `json:"client_name"`
	RouteName       string          `json:"route_name"`
	DeliveryDate    *time.Time      `json:"delivery_date,omitempty"`
	DeliveryDateKey string          `json:"delivery_date_key"`
	Status          OrderStatus     `json:"status"`
	Items           []OrderItem     `json:"items"`
	ItemsMalformed  bool            `json:"items_malformed,omitempty"`
	TotalWeightKg   float64         `json:"total_weight_kg"`
	TotalValue      decimal.Decimal `json:"total_value"`
}
