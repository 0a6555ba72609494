package ledger

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/xelth-com/freshroute/internal/models"
	"github.com/xelth-com/freshroute/internal/utils"
)

func cellString(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

// ParseBaseStockRows reads [code, quantity] rows. Malformed rows are skipped.
func ParseBaseStockRows(rows [][]interface{}) []models.BaseStock {
	out := make([]models.BaseStock, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		code := cellString(row, 0)
		qty, err := utils.ParseQuantity(cellString(row, 1))
		if code == "" || err != nil {
			skipped++
			continue
		}
		out = append(out, models.BaseStock{ProductCode: code, Quantity: qty})
	}
	if skipped > 0 {
		log.Printf("⚠️  Ledger: skipped %d malformed base stock rows", skipped)
	}
	return out
}

// ParseEntryRows reads [code, date, quantity] rows. Malformed rows are skipped.
func ParseEntryRows(rows [][]interface{}, loc *time.Location) []models.StockEntry {
	out := make([]models.StockEntry, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		code := cellString(row, 0)
		date, dateErr := utils.ParseDate(cellString(row, 1), loc)
		qty, qtyErr := utils.ParseQuantity(cellString(row, 2))
		if code == "" || dateErr != nil || qtyErr != nil {
			skipped++
			continue
		}
		out = append(out, models.StockEntry{ProductCode: code, EntryDate: date, Quantity: qty})
	}
	if skipped > 0 {
		log.Printf("⚠️  Ledger: skipped %d malformed stock entry rows", skipped)
	}
	return out
}
