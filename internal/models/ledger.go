package models

import "time"

// BaseStock is the "as of today" physical quantity of a product.
type BaseStock struct {
	ProductCode string  `gorm:"primaryKey" json:"product_code"`
	Quantity    float64 `json:"quantity"`
}

// TableName specifies the table name for BaseStock
func (BaseStock) TableName() string {
	return "base_stock"
}

// StockEntry is a dated addition to stock.
type StockEntry struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	ProductCode string    `gorm:"index" json:"product_code"`
	EntryDate   time.Time `gorm:"type:date;index" json:"entry_date"`
	Quantity    float64   `json:"quantity"`
}

// TableName specifies the table name for StockEntry
func (StockEntry) TableName() string {
	return "stock_entries"
}
