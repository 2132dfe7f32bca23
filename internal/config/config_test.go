package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Banks != 3 {
		t.Fatalf("expected default 3 banks, got %d", cfg.Banks)
	}
	if cfg.Customers != 10 {
		t.Fatalf("expected default 10 customers, got %d", cfg.Customers)
	}
	if cfg.Steps != 1000 {
		t.Fatalf("expected default 1000 steps, got %d", cfg.Steps)
	}
	if cfg.GridWidth != 40 || cfg.GridHeight != 40 {
		t.Fatalf("expected default 40x40 grid, got %dx%d", cfg.GridWidth, cfg.GridHeight)
	}
	if cfg.MaxDepositUnits != 10_000 {
		t.Fatalf("expected default max deposit 10000 units, got %d", cfg.MaxDepositUnits)
	}
	if cfg.Seed != 0 {
		t.Fatalf("expected unset seed, got %d", cfg.Seed)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %s", cfg.Address())
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("NUM_BANKS", "5")
	t.Setenv("NUM_CUSTOMERS", "25")
	t.Setenv("NUM_STEPS", "50")
	t.Setenv("GRID_WIDTH", "10")
	t.Setenv("GRID_HEIGHT", "12")
	t.Setenv("MAX_DEPOSIT_UNITS", "200")
	t.Setenv("RNG_SEED", "1234")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("PORT", ":9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Banks != 5 || cfg.Customers != 25 || cfg.Steps != 50 {
		t.Fatalf("unexpected sizing: %+v", cfg)
	}
	if cfg.GridWidth != 10 || cfg.GridHeight != 12 {
		t.Fatalf("unexpected grid: %dx%d", cfg.GridWidth, cfg.GridHeight)
	}
	if cfg.MaxDepositUnits != 200 {
		t.Fatalf("unexpected max deposit: %d", cfg.MaxDepositUnits)
	}
	if cfg.Seed != 1234 {
		t.Fatalf("unexpected seed: %d", cfg.Seed)
	}
	if cfg.ShutdownPeriod != 3*time.Second {
		t.Fatalf("unexpected shutdown period: %v", cfg.ShutdownPeriod)
	}
	if cfg.Address() != ":9999" {
		t.Fatalf("unexpected address %s", cfg.Address())
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("NUM_BANKS", "zero")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric NUM_BANKS")
	}
}

func TestLoad_RejectsBadSizing(t *testing.T) {
	t.Setenv("NUM_CUSTOMERS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero customers")
	}
}
