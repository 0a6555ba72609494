package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// UnitType is how a product is sold
type UnitType string

const (
	UnitTypeUnit     UnitType = "UNIT"
	UnitTypeBox      UnitType = "BOX"
	UnitTypePackage  UnitType = "PACKAGE"
	UnitTypeKilogram UnitType = "KILOGRAM"
)

// ParseUnitType accepts canonical names and the common legacy abbreviations.
func ParseUnitType(raw string) (UnitType, bool) {
	switch enumKey(raw) {
	case "UNIT", "UN", "UND", "UNIDADE":
		return UnitTypeUnit, true
	case "BOX", "CX", "CAIXA":
		return UnitTypeBox, true
	case "PACKAGE", "PCT", "PACOTE", "PKG":
		return UnitTypePackage, true
	case "KILOGRAM", "KG", "QUILO", "KILO":
		return UnitTypeKilogram, true
	}
	return "", false
}

// Product is a catalog entry. Code is the business key.
type Product struct {
	Code            string         `gorm:"primaryKey" json:"code"`
	Name            string         `json:"name"`
	AverageWeightKg float64        `json:"average_weight_kg"`
	UnitType        UnitType       `gorm:"default:UNIT" json:"unit_type"`
	PriceTiers      datatypes.JSON `json:"price_tiers"` // tier name -> price/kg
	Active          bool           `gorm:"default:true" json:"active"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// Tiers decodes the price table.
func (p Product) Tiers() (map[string]decimal.Decimal, error) {
	tiers := map[string]decimal.Decimal{}
	if len(p.PriceTiers) == 0 {
		return tiers, nil
	}
	if err := json.Unmarshal(p.PriceTiers, &tiers); err != nil {
		return nil, fmt.Errorf("invalid price tiers for %s: %w", p.Code, err)
	}
	return tiers, nil
}
