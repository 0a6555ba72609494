package reservations

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xelth-com/freshroute/internal/models"
	"github.com/xelth-com/freshroute/internal/utils"
)

// ErrMalformedItems marks an item payload that could not be decoded at all.
var ErrMalformedItems = errors.New("malformed order items")

type itemField int

const (
	fieldProductCode itemField = iota
	fieldQuantity
	fieldUnitType
	fieldAverageWeight
	fieldPricePerKg
)

// itemFieldAliases maps legacy item keys to canonical fields, in priority
// order: when a payload carries several aliases of one field, the earliest wins.
var itemFieldAliases = []struct {
	key   string
	field itemField
}{
	{"productcode", fieldProductCode},
	{"product_code", fieldProductCode},
	{"code", fieldProductCode},
	{"codigo", fieldProductCode},
	{"sku", fieldProductCode},
	{"produto", fieldProductCode},
	{"quantity", fieldQuantity},
	{"qty", fieldQuantity},
	{"quantidade", fieldQuantity},
	{"qtd", fieldQuantity},
	{"amount", fieldQuantity},
	{"unittype", fieldUnitType},
	{"unit_type", fieldUnitType},
	{"unit", fieldUnitType},
	{"unidade", fieldUnitType},
	{"tipo", fieldUnitType},
	{"averageweightkg", fieldAverageWeight},
	{"average_weight", fieldAverageWeight},
	{"avg_weight", fieldAverageWeight},
	{"peso_medio", fieldAverageWeight},
	{"priceperkg", fieldPricePerKg},
	{"price_per_kg", fieldPricePerKg},
	{"preco_kg", fieldPricePerKg},
	{"preco", fieldPricePerKg},
	{"price", fieldPricePerKg},
}

// DecodeItems decodes a raw item payload: a JSON array of objects, or a JSON
// string that itself contains such an array. Entries without a product code or
// with a non-positive quantity are skipped. A payload that is not an array in
// either form returns ErrMalformedItems; non-object elements are skipped.
func DecodeItems(raw []byte) ([]models.OrderItem, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &elems); err != nil {
		var inner string
		if json.Unmarshal([]byte(trimmed), &inner) != nil {
			return nil, ErrMalformedItems
		}
		if strings.TrimSpace(inner) == "" {
			return nil, nil
		}
		elems = nil
		if json.Unmarshal([]byte(inner), &elems) != nil {
			return nil, ErrMalformedItems
		}
	}

	items := make([]models.OrderItem, 0, len(elems))
	for _, elem := range elems {
		var entry map[string]json.RawMessage
		if json.Unmarshal(elem, &entry) != nil {
			continue
		}
		if item, ok := decodeItem(entry); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func decodeItem(entry map[string]json.RawMessage) (models.OrderItem, bool) {
	lowered := make(map[string]json.RawMessage, len(entry))
	for k, v := range entry {
		lowered[strings.ToLower(k)] = v
	}

	var item models.OrderItem
	seen := map[itemField]bool{}
	for _, alias := range itemFieldAliases {
		raw, ok := lowered[alias.key]
		if !ok || seen[alias.field] {
			continue
		}
		switch alias.field {
		case fieldProductCode:
			if s, ok := utils.StringFromJSON(raw); ok {
				item.ProductCode = s
				seen[alias.field] = true
			}
		case fieldQuantity:
			if f, ok := utils.NumberFromJSON(raw); ok {
				item.Quantity = f
				seen[alias.field] = true
			}
		case fieldUnitType:
			if s, ok := utils.StringFromJSON(raw); ok {
				if u, ok := models.ParseUnitType(s); ok {
					item.UnitType = u
					seen[alias.field] = true
				}
			}
		case fieldAverageWeight:
			if f, ok := utils.NumberFromJSON(raw); ok && f > 0 {
				item.AverageWeightKg = f
				seen[alias.field] = true
			}
		case fieldPricePerKg:
			if f, ok := utils.NumberFromJSON(raw); ok && f > 0 {
				item.PricePerKg = decimal.NewFromFloat(f)
				seen[alias.field] = true
			}
		}
	}
	if item.ProductCode == "" || item.Quantity <= 0 {
		return models.OrderItem{}, false
	}
	return item, true
}
