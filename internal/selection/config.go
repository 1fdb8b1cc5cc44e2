// Package selection implements strike selection for vertical spreads and
// long options: ITM/ATM/OTM anchor discovery, spread pairing, risk metrics,
// liquidity filtering, and quality ranking.
package selection

import "github.com/shopspring/decimal"

// Config holds the thresholds consumed by the selection engine. All values
// are read-only at call time; callers supply overrides per call where the
// API allows it.
type Config struct {
	// IV regime boundaries, in IV-rank percent.
	IVHighThreshold decimal.Decimal
	IVLowThreshold  decimal.Decimal

	// ATM classification distance as percent of the underlying price.
	ATMThresholdPct decimal.Decimal

	// Liquidity floors for tradeable contracts.
	MinOpenInterest int64
	MinVolume       int64
	MinMarkPrice    decimal.Decimal

	// Minimum credit as percent of spread width for credit spreads.
	MinCreditPct decimal.Decimal

	// Spread width by underlying price tier, in strike points.
	WidthLowPriceMax int
	WidthMidPrice    int
	WidthHighPriceMax int

	// Tolerance for realized width vs target width (fraction, e.g. 0.20).
	WidthTolerancePct decimal.Decimal
}

// DefaultConfig returns the default selection thresholds.
func DefaultConfig() Config {
	return Config{
		IVHighThreshold:   decimal.NewFromInt(50),
		IVLowThreshold:    decimal.NewFromInt(25),
		ATMThresholdPct:   decimal.NewFromInt(2),
		MinOpenInterest:   10,
		MinVolume:         5,
		MinMarkPrice:      decimal.NewFromFloat(0.01),
		MinCreditPct:      decimal.NewFromInt(25),
		WidthLowPriceMax:  5,
		WidthMidPrice:     5,
		WidthHighPriceMax: 10,
		WidthTolerancePct: decimal.NewFromFloat(0.20),
	}
}

// Selector runs strike selection against a configured set of thresholds.
// It is stateless apart from its read-only config and safe for concurrent
// use.
type Selector struct {
	cfg Config
}

// NewSelector creates a selector with the given thresholds.
func NewSelector(cfg Config) *Selector {
	return &Selector{cfg: cfg}
}

// Config returns the thresholds the selector was built with.
func (s *Selector) Config() Config {
	return s.cfg
}
