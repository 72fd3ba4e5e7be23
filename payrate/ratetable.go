/*
ratetable.go - Staff rate table and NDIS support item catalogue

PURPOSE:
  Holds the two independent price lists a calculation reads:
  - RateTable: what the worker is paid, per band
  - NDISCatalogue: what the client is charged, per band, with the NDIS
    support item code and description for the invoice line

IMMUTABILITY:
  Both types wrap an unexported map that is copied on construction and
  never handed out. A table passed to a calculation is therefore a
  snapshot: concurrent callers can share it without locking, and editing
  the source map after construction changes nothing.

MISSING BANDS:
  A lookup for a band the table doesn't carry returns a MissingRateError
  (wrapping generic.ErrConfiguration). Tables are checked lazily: a
  weekday-only roster works against a table without weekend rates, but
  the first Saturday shift fails loudly instead of pricing at $0.

SEE ALSO:
  - defaults.go: Built-in rate values
  - factory/rates.go: Rate tables from YAML/JSON
*/
package payrate

import (
	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay-engine/generic"
)

// =============================================================================
// STAFF RATE TABLE
// =============================================================================

// RateTable maps bands to staff rates. Hourly for every band except
// BandSleepover, which is a flat amount per sleepover.
type RateTable struct {
	rates map[Band]decimal.Decimal
}

// NewRateTable copies rates into an immutable table.
func NewRateTable(rates map[Band]decimal.Decimal) (RateTable, error) {
	copied := make(map[Band]decimal.Decimal, len(rates))
	for band, rate := range rates {
		if !band.Valid() {
			return RateTable{}, &generic.ConfigError{Field: "staff." + string(band), Reason: "unknown pay band"}
		}
		if rate.IsNegative() {
			return RateTable{}, &generic.ConfigError{Field: "staff." + string(band), Reason: "rate must not be negative"}
		}
		copied[band] = rate
	}
	return RateTable{rates: copied}, nil
}

// MustRateTable is NewRateTable for compiled-in tables; it panics on error.
func MustRateTable(rates map[Band]decimal.Decimal) RateTable {
	t, err := NewRateTable(rates)
	if err != nil {
		panic(err)
	}
	return t
}

// Rate returns the rate for a band.
func (t RateTable) Rate(b Band) (decimal.Decimal, error) {
	rate, ok := t.rates[b]
	if !ok {
		return decimal.Zero, &generic.MissingRateError{Table: "staff", Band: string(b)}
	}
	return rate, nil
}

func (t RateTable) Has(b Band) bool {
	_, ok := t.rates[b]
	return ok
}

// Bands returns the bands present, in AllBands order.
func (t RateTable) Bands() []Band {
	var bands []Band
	for _, b := range AllBands {
		if t.Has(b) {
			bands = append(bands, b)
		}
	}
	return bands
}

// With returns a copy of the table with one rate replaced.
func (t RateTable) With(b Band, rate decimal.Decimal) (RateTable, error) {
	next := make(map[Band]decimal.Decimal, len(t.rates)+1)
	for k, v := range t.rates {
		next[k] = v
	}
	next[b] = rate
	return NewRateTable(next)
}

// Require checks that every listed band is present.
func (t RateTable) Require(bands ...Band) error {
	for _, b := range bands {
		if !t.Has(b) {
			return &generic.MissingRateError{Table: "staff", Band: string(b)}
		}
	}
	return nil
}

// =============================================================================
// NDIS CATALOGUE
// =============================================================================

// NDISUnit is the claim unit of a support item.
type NDISUnit string

const (
	NDISUnitHour NDISUnit = "hour"
	NDISUnitEach NDISUnit = "each"
)

// NDISItem is a support item from the NDIS price guide.
type NDISItem struct {
	Code        string
	Description string
	Rate        decimal.Decimal
	Unit        NDISUnit
}

// NDISCatalogue maps bands to NDIS support items.
type NDISCatalogue struct {
	items map[Band]NDISItem
}

// NewNDISCatalogue copies items into an immutable catalogue.
func NewNDISCatalogue(items map[Band]NDISItem) (NDISCatalogue, error) {
	copied := make(map[Band]NDISItem, len(items))
	for band, item := range items {
		field := "ndis." + string(band)
		if !band.Valid() {
			return NDISCatalogue{}, &generic.ConfigError{Field: field, Reason: "unknown pay band"}
		}
		if item.Code == "" {
			return NDISCatalogue{}, &generic.ConfigError{Field: field + ".code", Reason: "required"}
		}
		if item.Rate.IsNegative() {
			return NDISCatalogue{}, &generic.ConfigError{Field: field + ".rate", Reason: "rate must not be negative"}
		}
		if item.Unit == "" {
			item.Unit = NDISUnitHour
			if band == BandSleepover {
				item.Unit = NDISUnitEach
			}
		}
		copied[band] = item
	}
	return NDISCatalogue{items: copied}, nil
}

func MustNDISCatalogue(items map[Band]NDISItem) NDISCatalogue {
	c, err := NewNDISCatalogue(items)
	if err != nil {
		panic(err)
	}
	return c
}

// Item returns the support item for a band.
func (c NDISCatalogue) Item(b Band) (NDISItem, error) {
	item, ok := c.items[b]
	if !ok {
		return NDISItem{}, &generic.MissingRateError{Table: "ndis", Band: string(b)}
	}
	return item, nil
}

func (c NDISCatalogue) Has(b Band) bool {
	_, ok := c.items[b]
	return ok
}

// Bands returns the bands present, in AllBands order.
func (c NDISCatalogue) Bands() []Band {
	var bands []Band
	for _, b := range AllBands {
		if c.Has(b) {
			bands = append(bands, b)
		}
	}
	return bands
}

// With returns a copy of the catalogue with one item replaced.
func (c NDISCatalogue) With(b Band, item NDISItem) (NDISCatalogue, error) {
	next := make(map[Band]NDISItem, len(c.items)+1)
	for k, v := range c.items {
		next[k] = v
	}
	next[b] = item
	return NewNDISCatalogue(next)
}
