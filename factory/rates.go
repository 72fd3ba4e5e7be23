/*
Package factory provides YAML/JSON to Go rate table conversion.

PURPOSE:
  Converts rate file definitions into an immutable payrate.RateTable and
  payrate.NDISCatalogue. Award rates and the NDIS price guide change every
  year; the factory lets an operator load new rates without a release.

FILE SCHEMA (YAML shown, JSON accepted):
  name: SCHADS 2025-26
  staff:
    weekday_day: 42.00
    weekday_evening: 44.50
    sleepover_default: 175.00     # flat per sleepover
  ndis:
    weekday_day:
      code: 01_011_0107_1_1
      description: Assistance With Self-Care Activities - Standard - Weekday Daytime
      rate: 67.56
      unit: hour
    sleepover_default:
      code: 01_010_0107_1_1
      rate: 297.60
      unit: each

KEY FEATURES:
  - Detects JSON vs YAML from the first non-space byte
  - Struct validation with go-playground/validator
  - Unknown bands and negative rates rejected up front
  - Missing bands are allowed; they fail the first calculation that
    needs them

USAGE:
  f := factory.NewRateFactory()
  settings, err := f.ParseRates(data)
  calc := settings.Calculator(holidays)

SEE ALSO:
  - payrate/ratetable.go: RateTable and NDISCatalogue
  - payrate/defaults.go: Compiled-in rates
*/
package factory

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/shift-pay-engine/generic"
	"github.com/warp/shift-pay-engine/payrate"
)

//go:embed default_rates.yaml
var defaultRatesYAML []byte

// =============================================================================
// FILE SCHEMA TYPES
// =============================================================================

// RatesFile is the serialised form of a rate configuration.
type RatesFile struct {
	Name  string                     `json:"name" yaml:"name" validate:"required"`
	Staff map[string]decimal.Decimal `json:"staff" yaml:"staff" validate:"required,min=1"`
	NDIS  map[string]NDISItemFile    `json:"ndis,omitempty" yaml:"ndis,omitempty" validate:"omitempty,dive"`
}

// NDISItemFile is one support item in a rate file.
type NDISItemFile struct {
	Code        string          `json:"code" yaml:"code" validate:"required"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Rate        decimal.Decimal `json:"rate" yaml:"rate"`
	Unit        string          `json:"unit,omitempty" yaml:"unit,omitempty" validate:"omitempty,oneof=hour each"`
}

// RateSettings is a parsed, validated rate configuration.
type RateSettings struct {
	Name    string
	Version int // assigned when stored; 0 until then
	Staff   payrate.RateTable
	NDIS    payrate.NDISCatalogue
}

// Calculator returns a calculator over these rates.
func (s *RateSettings) Calculator(holidays generic.HolidayCalendar) *payrate.Calculator {
	return payrate.NewCalculator(s.Staff, payrate.WithNDIS(s.NDIS), payrate.WithHolidays(holidays))
}

// =============================================================================
// RATE FACTORY
// =============================================================================

// RateFactory converts rate files to rate settings.
type RateFactory struct {
	validate *validator.Validate
}

func NewRateFactory() *RateFactory {
	return &RateFactory{validate: validator.New()}
}

// ParseRates parses a JSON or YAML rate file.
func (f *RateFactory) ParseRates(data []byte) (*RateSettings, error) {
	var rf RatesFile
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &generic.ConfigError{Field: "rates", Reason: "empty rate file"}
	}
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &rf); err != nil {
			return nil, &generic.ConfigError{Field: "rates", Reason: fmt.Sprintf("parse JSON: %v", err)}
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &rf); err != nil {
			return nil, &generic.ConfigError{Field: "rates", Reason: fmt.Sprintf("parse YAML: %v", err)}
		}
	}
	return f.FromFile(rf)
}

// FromFile validates a RatesFile and builds the immutable tables.
func (f *RateFactory) FromFile(rf RatesFile) (*RateSettings, error) {
	if err := f.validate.Struct(rf); err != nil {
		return nil, &generic.ConfigError{Field: "rates", Reason: err.Error()}
	}

	staff := make(map[payrate.Band]decimal.Decimal, len(rf.Staff))
	for name, rate := range rf.Staff {
		band, err := parseBand("staff", name)
		if err != nil {
			return nil, err
		}
		staff[band] = rate
	}
	table, err := payrate.NewRateTable(staff)
	if err != nil {
		return nil, err
	}

	items := make(map[payrate.Band]payrate.NDISItem, len(rf.NDIS))
	for name, item := range rf.NDIS {
		band, err := parseBand("ndis", name)
		if err != nil {
			return nil, err
		}
		items[band] = payrate.NDISItem{
			Code:        item.Code,
			Description: item.Description,
			Rate:        item.Rate,
			Unit:        payrate.NDISUnit(item.Unit),
		}
	}
	catalogue, err := payrate.NewNDISCatalogue(items)
	if err != nil {
		return nil, err
	}

	return &RateSettings{Name: rf.Name, Staff: table, NDIS: catalogue}, nil
}

// ToFile converts settings back to their file form.
func (f *RateFactory) ToFile(s *RateSettings) RatesFile {
	rf := RatesFile{
		Name:  s.Name,
		Staff: make(map[string]decimal.Decimal),
	}
	for _, band := range s.Staff.Bands() {
		rate, _ := s.Staff.Rate(band)
		rf.Staff[string(band)] = rate
	}
	for _, band := range s.NDIS.Bands() {
		if rf.NDIS == nil {
			rf.NDIS = make(map[string]NDISItemFile)
		}
		item, _ := s.NDIS.Item(band)
		rf.NDIS[string(band)] = NDISItemFile{
			Code:        item.Code,
			Description: item.Description,
			Rate:        item.Rate,
			Unit:        string(item.Unit),
		}
	}
	return rf
}

// MarshalRates encodes settings as JSON for storage.
func (f *RateFactory) MarshalRates(s *RateSettings) ([]byte, error) {
	return json.Marshal(f.ToFile(s))
}

// LoadRatesFile reads and parses a rate file from disk.
func (f *RateFactory) LoadRatesFile(path string) (*RateSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rate file %s: %w", path, err)
	}
	return f.ParseRates(data)
}

// Defaults parses the embedded default rate file.
func (f *RateFactory) Defaults() *RateSettings {
	s, err := f.ParseRates(defaultRatesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default rates: %v", err))
	}
	return s
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseBand(table, name string) (payrate.Band, error) {
	band, err := payrate.ParseBand(name)
	if err != nil {
		return "", &generic.ConfigError{Field: table + "." + name, Reason: "unknown pay band"}
	}
	return band, nil
}
