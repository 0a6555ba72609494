package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xelth-com/freshroute/internal/config"
	"github.com/xelth-com/freshroute/internal/database"
	"github.com/xelth-com/freshroute/internal/models"
	"github.com/xelth-com/freshroute/internal/utils"
	"gorm.io/datatypes"
)

func main() {
	fmt.Println("🌱 FreshRoute Demo Data Seeder")
	fmt.Println(strings.Repeat("=", 60))

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	loc := cfg.Location()

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")
	fmt.Println()

	// Run migrations first
	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.OrderRecord{},
		&models.Product{},
		&models.Route{},
		&models.BaseStock{},
		&models.StockEntry{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")
	fmt.Println()

	// Check if data already exists
	var orderCount int64
	db.Model(&models.OrderRecord{}).Count(&orderCount)
	if orderCount > 0 {
		fmt.Printf("⚠️  Database already has %d orders. Clear it first? (y/N): ", orderCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}

		// Clear existing data
		fmt.Println("🗑️  Clearing existing data...")
		for _, table := range []string{"orders", "stock_entries", "base_stock", "routes", "products"} {
			db.Exec("TRUNCATE TABLE " + table + " CASCADE")
		}
		fmt.Println("✅ Data cleared")
	}

	fmt.Println()
	fmt.Println("📦 Creating demo data...")
	fmt.Println()

	// 1. Products
	fmt.Println("🥬 Creating products...")
	products := []models.Product{
		{Code: "ALF-CRESPA", Name: "Alface Crespa", AverageWeightKg: 0.35, UnitType: models.UnitTypeUnit, PriceTiers: datatypes.JSON(`{"base": 9.90, "atacado": 8.50}`), Active: true},
		{Code: "TOM-ITALIANO", Name: "Tomate Italiano", AverageWeightKg: 20, UnitType: models.UnitTypeBox, PriceTiers: datatypes.JSON(`{"base": 6.80, "atacado": 5.90}`), Active: true},
		{Code: "BAT-INGLESA", Name: "Batata Inglesa", UnitType: models.UnitTypeKilogram, PriceTiers: datatypes.JSON(`{"base": 4.20}`), Active: true},
		{Code: "CEB-ROXA", Name: "Cebola Roxa", AverageWeightKg: 1, UnitType: models.UnitTypePackage, PriceTiers: datatypes.JSON(`{"varejo": 7.50, "atacado": 6.40}`), Active: true},
		{Code: "MOR-BANDEJA", Name: "Morango Bandeja", AverageWeightKg: 0.25, UnitType: models.UnitTypeUnit, PriceTiers: datatypes.JSON(`{"base": 32.00}`), Active: true},
	}
	for _, p := range products {
		if err := db.Create(&p).Error; err != nil {
			log.Printf("⚠️  Failed to create product %s: %v", p.Code, err)
		} else {
			fmt.Printf("   ✓ Created product: [%s] %s\n", p.Code, p.Name)
		}
	}
	fmt.Printf("✅ Created %d products\n\n", len(products))

	// 2. Routes
	fmt.Println("🗺️  Creating routes...")
	routes := []models.Route{
		{RouteName: "Porto Alegre", DeliveryDaysRaw: "seg a sex", CutoffTime: "16:00", City: "Porto Alegre"},
		{RouteName: "Canoas", DeliveryDaysRaw: "seg, qua, sex", CutoffTime: "14:00", City: "Canoas"},
		{RouteName: "Pelotas", DeliveryDaysRaw: "ter, qui", CutoffTime: "12:00", City: "Pelotas"},
		{RouteName: "Santa Maria", DeliveryDaysRaw: "qua", CutoffTime: "12:00", City: "Santa Maria"},
		{RouteName: "Transferência Interna", City: "Porto Alegre"},
	}
	for _, r := range routes {
		if err := db.Create(&r).Error; err != nil {
			log.Printf("⚠️  Failed to create route %s: %v", r.RouteName, err)
		} else {
			fmt.Printf("   ✓ Created route: %s (%s)\n", r.RouteName, r.DeliveryDaysRaw)
		}
	}
	fmt.Printf("✅ Created %d routes\n\n", len(routes))

	// 3. Stock ledger
	fmt.Println("📊 Creating stock ledger...")
	today := utils.StartOfDay(time.Now().In(loc))
	base := []models.BaseStock{
		{ProductCode: "ALF-CRESPA", Quantity: 400},
		{ProductCode: "TOM-ITALIANO", Quantity: 120},
		{ProductCode: "BAT-INGLESA", Quantity: 3000},
		{ProductCode: "CEB-ROXA", Quantity: 250},
		{ProductCode: "MOR-BANDEJA", Quantity: 60},
	}
	entries := []models.StockEntry{
		{ProductCode: "TOM-ITALIANO", EntryDate: utils.AddDays(today, 2), Quantity: 80},
		{ProductCode: "MOR-BANDEJA", EntryDate: utils.AddDays(today, 3), Quantity: 100},
		{ProductCode: "BAT-INGLESA", EntryDate: utils.AddDays(today, 5), Quantity: 1500},
	}
	if err := db.Create(&base).Error; err != nil {
		log.Printf("⚠️  Failed to create base stock: %v", err)
	}
	if err := db.Create(&entries).Error; err != nil {
		log.Printf("⚠️  Failed to create stock entries: %v", err)
	}
	fmt.Printf("✅ Created %d base stock facts and %d entries\n\n", len(base), len(entries))

	// 4. Orders, with legacy statuses and item spellings as checkout writes them
	fmt.Println("🧾 Creating orders...")
	orders := []models.OrderRecord{
		order("PED-1001", "Mercado Bom Preço", "Porto Alegre", utils.AddDays(today, 1), "confirmado", `[{"codigo":"TOM-ITALIANO","quantidade":40},{"codigo":"BAT-INGLESA","quantidade":"500"}]`, 0),
		order("PED-1002", "Restaurante Sabor", "PORTO  ALEGRE", utils.AddDays(today, 1), "Enviado", `[{"code":"ALF-CRESPA","qty":120},{"code":"MOR-BANDEJA","qty":30}]`, 0),
		order("PED-1003", "Hortifruti Central", "Pôrto Alegre", utils.AddDays(today, 1), "em rota", `"[{\"sku\":\"CEB-ROXA\",\"qtd\":\"80,5\"}]"`, 0),
		order("PED-1004", "Atacadão Sul", "Pelotas", utils.AddDays(today, 2), "confirmed", `[{"product_code":"BAT-INGLESA","quantity":2600}]`, 2600),
		order("PED-1005", "Feira do Bairro", "Canoas", utils.AddDays(today, 1), "pendente", `[{"codigo":"ALF-CRESPA","quantidade":50}]`, 0),
		order("PED-1006", "Mercado Norte", "Santa Maria", utils.AddDays(today, 2), "aprovado", `[{"codigo":"TOM-ITALIANO","quantidade":150}]`, 0),
		order("PED-1007", "Cliente Cancelado", "Canoas", utils.AddDays(today, 1), "cancelado", `[{"codigo":"MOR-BANDEJA","quantidade":50}]`, 0),
		order("PED-1008", "Loja Matriz", "Transferência Interna", utils.AddDays(today, 1), "confirmado", `[{"codigo":"CEB-ROXA","quantidade":20}]`, 0),
	}
	for _, o := range orders {
		if err := db.Create(&o).Error; err != nil {
			log.Printf("⚠️  Failed to create order %s: %v", o.OrderNumber, err)
		} else {
			fmt.Printf("   ✓ Created order: %s → %s (%s)\n", o.OrderNumber, o.RouteName, o.Status)
		}
	}
	fmt.Printf("✅ Created %d orders\n\n", len(orders))

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("🎉 Demo data seeded successfully!")
	fmt.Println()
	fmt.Println("Try:")
	fmt.Printf("   GET /api/availability/TOM-ITALIANO?date=%s\n", utils.DateKey(utils.AddDays(today, 2)))
	fmt.Printf("   GET /api/capacity/check?date=%s&route=Pelotas&pendingKg=2500\n", utils.DateKey(utils.AddDays(today, 2)))
}

func order(number, client, route string, day time.Time, status, items string, totalKg float64) models.OrderRecord {
	d := day
	return models.OrderRecord{
		OrderNumber:   number,
		ClientName:    client,
		RouteName:     route,
		DeliveryDate:  &d,
		Status:        status,
		Items:         datatypes.JSON(items),
		TotalWeightKg: totalKg,
		TotalValue:    decimal.Zero,
	}
}
