package config

import (
	"testing"
	"time"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("LEDGER_CACHE_TTL_SECONDS", "")
	t.Setenv("ROUTE_TARGET_CAPACITY_KG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Cache.LedgerTTL != 60*time.Second {
		t.Errorf("LedgerTTL: got %v, want 60s", cfg.Cache.LedgerTTL)
	}
	if cfg.Cache.CatalogTTL != 5*time.Minute {
		t.Errorf("CatalogTTL: got %v, want 5m", cfg.Cache.CatalogTTL)
	}
	if cfg.Planning.RouteTargetCapacityKg != 5000 {
		t.Errorf("RouteTargetCapacityKg: got %v, want 5000", cfg.Planning.RouteTargetCapacityKg)
	}
	if cfg.Planning.AvailabilitySearchDays != 30 {
		t.Errorf("AvailabilitySearchDays: got %d, want 30", cfg.Planning.AvailabilitySearchDays)
	}
}

func TestLoadMalformedNumbersFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("LEDGER_CACHE_TTL_SECONDS", "soon")
	t.Setenv("EXTRA_TRUCK_THRESHOLD_KG", "-4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Cache.LedgerTTL != 60*time.Second {
		t.Errorf("LedgerTTL: got %v, want fallback 60s", cfg.Cache.LedgerTTL)
	}
	if cfg.Planning.ExtraTruckThresholdKg != 2500 {
		t.Errorf("ExtraTruckThresholdKg: got %v, want fallback 2500", cfg.Planning.ExtraTruckThresholdKg)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{Timezone: "Nowhere/Invalid"}
	if cfg.Location() != time.UTC {
		t.Error("expected UTC for unknown timezone")
	}
}
