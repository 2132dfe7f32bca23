package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName         = "ClearSim"
	defaultLogLevel        = "info"
	defaultBanks           = 3
	defaultCustomers       = 10
	defaultSteps           = 1000
	defaultGridWidth       = 40
	defaultGridHeight      = 40
	defaultMaxDepositUnits = 10_000
	defaultPort            = "8080"
	defaultShutdownDelay   = 10 * time.Second
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Config captures runtime configuration loaded from environment variables.
// CLI flags may override individual fields after Load.
type Config struct {
	AppName  string
	LogLevel string

	// Simulation sizing.
	Banks           int
	Customers       int
	Steps           int
	GridWidth       int
	GridHeight      int
	MaxDepositUnits int64

	// Seed for the simulation's random source. Zero means derive one from
	// the clock at startup.
	Seed int64

	// Reporting server (serve mode only).
	Port           string
	ShutdownPeriod time.Duration
}

// Load reads configuration values from the environment and populates a
// Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		Port:           getEnv("PORT", defaultPort),
		ShutdownPeriod: defaultShutdownDelay,
	}

	var err error
	if cfg.Banks, err = getEnvInt("NUM_BANKS", defaultBanks); err != nil {
		return Config{}, err
	}
	if cfg.Customers, err = getEnvInt("NUM_CUSTOMERS", defaultCustomers); err != nil {
		return Config{}, err
	}
	if cfg.Steps, err = getEnvInt("NUM_STEPS", defaultSteps); err != nil {
		return Config{}, err
	}
	if cfg.GridWidth, err = getEnvInt("GRID_WIDTH", defaultGridWidth); err != nil {
		return Config{}, err
	}
	if cfg.GridHeight, err = getEnvInt("GRID_HEIGHT", defaultGridHeight); err != nil {
		return Config{}, err
	}

	maxDeposit, err := getEnvInt("MAX_DEPOSIT_UNITS", defaultMaxDepositUnits)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxDepositUnits = int64(maxDeposit)

	if v := os.Getenv("RNG_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RNG_SEED: %w", err)
		}
		cfg.Seed = seed
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	return cfg, cfg.Validate()
}

// Validate checks that the simulation sizing makes sense.
func (c Config) Validate() error {
	if c.Banks <= 0 {
		return fmt.Errorf("NUM_BANKS must be positive, got %d", c.Banks)
	}
	if c.Customers <= 0 {
		return fmt.Errorf("NUM_CUSTOMERS must be positive, got %d", c.Customers)
	}
	if c.Steps < 0 {
		return fmt.Errorf("NUM_STEPS must be non-negative, got %d", c.Steps)
	}
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", c.GridWidth, c.GridHeight)
	}
	if c.MaxDepositUnits <= 0 {
		return fmt.Errorf("MAX_DEPOSIT_UNITS must be positive, got %d", c.MaxDepositUnits)
	}
	return nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
