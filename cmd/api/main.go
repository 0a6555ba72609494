package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xelth-com/freshroute/internal/catalog"
	"github.com/xelth-com/freshroute/internal/config"
	"github.com/xelth-com/freshroute/internal/database"
	"github.com/xelth-com/freshroute/internal/fleet"
	"github.com/xelth-com/freshroute/internal/handlers"
	"github.com/xelth-com/freshroute/internal/ledger"
	"github.com/xelth-com/freshroute/internal/metrics"
	"github.com/xelth-com/freshroute/internal/models"
	"github.com/xelth-com/freshroute/internal/notify"
	"github.com/xelth-com/freshroute/internal/reservations"
	"github.com/xelth-com/freshroute/internal/services/availability"
	"github.com/xelth-com/freshroute/internal/services/planner"
	"github.com/xelth-com/freshroute/internal/services/routecapacity"
	"github.com/xelth-com/freshroute/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	loc := cfg.Location()

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.OrderRecord{},
		&models.Product{},
		&models.Route{},
		&models.BaseStock{},
		&models.StockEntry{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}
	if err := notify.InstallTrigger(db.DB, cfg.Notify.Channel); err != nil {
		log.Printf("⚠️ %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 4. Stock ledger: spreadsheet when configured, database tables otherwise
	var stock ledger.Source
	if cfg.Sheets.SpreadsheetID != "" {
		sheets, err := ledger.NewSheetsSource(ctx, cfg.Sheets, loc)
		if err != nil {
			log.Fatalf("Failed to init stock ledger: %v", err)
		}
		log.Printf("📊 Stock ledger: spreadsheet %s", cfg.Sheets.SpreadsheetID)
		stock = sheets
	} else {
		log.Println("📊 Stock ledger: database tables (SHEETS_SPREADSHEET_ID not set)")
		stock = ledger.NewGormSource(db.DB, loc)
	}
	stock = ledger.NewCached(stock, cfg.Cache.LedgerTTL)

	// 5. Services
	orders := reservations.NewGormSource(db.DB, loc)
	calc := metrics.NewCalculator(catalog.NewGormProducts(db.DB, cfg.Cache.CatalogTTL))
	fleetRegistry := fleet.NewRegistry(fleet.FileStore{Dir: cfg.Fleet.StoreDir})

	engine := availability.NewEngine(stock, orders, loc).
		WithSearchDays(cfg.Planning.AvailabilitySearchDays)
	capacity := routecapacity.NewService(orders, catalog.NewGormRoutes(db.DB), calc, cfg.Planning.RouteTargetCapacityKg, loc).
		WithSearchDays(cfg.Planning.DeliverySearchDays)
	planning := planner.NewService(orders, fleetRegistry, calc,
		planner.New(cfg.Planning.RouteTargetCapacityKg, cfg.Planning.ExtraTruckThresholdKg))

	// 6. Push channel: Postgres NOTIFY -> WebSocket sessions
	hub := websocket.NewHub()
	go hub.Run()
	go notify.NewListener(db.DSN, cfg.Notify.Channel, hub).Run(ctx)

	router := handlers.NewRouter(handlers.Deps{
		Availability: engine,
		Capacity:     capacity,
		Planning:     planning,
		Fleet:        fleetRegistry,
		Hub:          hub,
		JWTSecret:    cfg.JWTSecret,
		Location:     loc,
	})

	// 7. Start server with graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server (%s) starting on port %s\n", cfg.NodeEnv, cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	// Stop the notification listener
	stop()

	// Create context with timeout for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
