// Package config loads the server configuration.
//
// Values come from, in increasing priority: built-in defaults, an optional
// YAML file, a .env file and SHIFTPAY_* environment variables. Command
// line flags are applied by the caller after Load.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/warp/shift-pay-engine/generic"
)

// Config is the server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Rates   RatesConfig   `yaml:"rates"`
	Recalc  RecalcConfig  `yaml:"recalc"`
	Payroll PayrollConfig `yaml:"payroll"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	DBPath          string        `yaml:"dbPath" validate:"required"`
	AllowedOrigins  []string      `yaml:"allowedOrigins" validate:"dive,required"`
	ReadTimeout     time.Duration `yaml:"readTimeout" validate:"min=0"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" validate:"min=0"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" validate:"min=0"`
}

type LoggingConfig struct {
	Env   string `yaml:"env" validate:"required,oneof=dev test prod"`
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	File  string `yaml:"file,omitempty"`
}

type RatesConfig struct {
	// File is a YAML or JSON rate file seeded on first start. Empty uses
	// the built-in rates.
	File string `yaml:"file,omitempty"`
}

type RecalcConfig struct {
	Workers  int           `yaml:"workers" validate:"min=1,max=64"`
	Interval time.Duration `yaml:"interval" validate:"min=0"`
	Batch    int           `yaml:"batch" validate:"min=1"`
}

// PayrollConfig sets the pay cycle used for period timesheets.
type PayrollConfig struct {
	Cycle  string `yaml:"cycle" validate:"oneof=weekly fortnightly monthly"`
	Anchor string `yaml:"anchor" validate:"omitempty,datetime=2006-01-02"` // first day of any one period
}

// PeriodConfig converts the pay cycle for the roster service.
func (p PayrollConfig) PeriodConfig() (generic.PeriodConfig, error) {
	cycle, err := generic.ParsePeriodType(p.Cycle)
	if err != nil {
		return generic.PeriodConfig{}, err
	}
	pc := generic.PeriodConfig{Type: cycle}
	if p.Anchor != "" {
		if pc.Anchor, err = generic.ParseDate(p.Anchor); err != nil {
			return generic.PeriodConfig{}, err
		}
	}
	if cycle != generic.PeriodMonthly && pc.Anchor.IsZero() {
		return generic.PeriodConfig{}, &generic.ConfigError{Field: "payroll.anchor", Reason: "required for " + p.Cycle + " cycles"}
	}
	return pc, nil
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			DBPath:          "shiftpay.db",
			AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Env: "dev", Level: "info"},
		Recalc:  RecalcConfig{Workers: 4, Interval: time.Minute, Batch: 200},
		Payroll: PayrollConfig{Cycle: "fortnightly", Anchor: "2025-01-06"},
	}
}

// Load builds the configuration. path may be empty. A missing .env file
// is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate runs struct validation.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("SHIFTPAY_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SHIFTPAY_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("SHIFTPAY_DB"); v != "" {
		cfg.Server.DBPath = v
	}
	if v := os.Getenv("SHIFTPAY_ENV"); v != "" {
		cfg.Logging.Env = v
	}
	if v := os.Getenv("SHIFTPAY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SHIFTPAY_RATES"); v != "" {
		cfg.Rates.File = v
	}
	return nil
}

// Addr is the listen address for the configured port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
