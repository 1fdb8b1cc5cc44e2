// Package models defines the shared domain types for the options advisor.
package models

import (
	"fmt"
	"strings"
)

// OptionType identifies a call or put contract.
type OptionType string

// Supported option types.
const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// ParseOptionType parses an option type string.
func ParseOptionType(s string) (OptionType, error) {
	switch OptionType(strings.ToLower(s)) {
	case Call:
		return Call, nil
	case Put:
		return Put, nil
	default:
		return "", fmt.Errorf("invalid option type: %q (must be 'call' or 'put')", s)
	}
}

// Bias is the trader's directional view on the underlying.
type Bias string

// Supported directional biases.
const (
	Bullish Bias = "bullish"
	Bearish Bias = "bearish"
	Neutral Bias = "neutral"
)

// ParseBias parses a bias string.
func ParseBias(s string) (Bias, error) {
	switch Bias(strings.ToLower(s)) {
	case Bullish:
		return Bullish, nil
	case Bearish:
		return Bearish, nil
	case Neutral:
		return Neutral, nil
	default:
		return "", fmt.Errorf("invalid bias: %q (must be 'bullish', 'bearish', or 'neutral')", s)
	}
}

// BiasReason labels the setup that produced a directional bias.
type BiasReason string

// Recognized bias reasons. SSL/BSL sweeps carry directional semantics;
// UserManual means the trader supplied the bias with no setup context.
const (
	SSLSweep       BiasReason = "ssl_sweep"
	BSLSweep       BiasReason = "bsl_sweep"
	FVGRetest      BiasReason = "fvg_retest"
	StructureShift BiasReason = "structure_shift"
	UserManual     BiasReason = "user_manual"
)

// StrikePosition classifies a strike relative to the underlying price.
type StrikePosition string

// Strike positions.
const (
	ITM StrikePosition = "itm"
	ATM StrikePosition = "atm"
	OTM StrikePosition = "otm"
)

// IVRegime classifies the implied volatility environment from IV rank.
type IVRegime string

// IV regimes.
const (
	IVHigh    IVRegime = "high"
	IVNeutral IVRegime = "neutral"
	IVLow     IVRegime = "low"
)

// ParseIVRegime parses an IV regime string.
func ParseIVRegime(s string) (IVRegime, error) {
	switch IVRegime(strings.ToLower(s)) {
	case IVHigh:
		return IVHigh, nil
	case IVNeutral:
		return IVNeutral, nil
	case IVLow:
		return IVLow, nil
	default:
		return "", fmt.Errorf("invalid IV regime: %q (must be 'high', 'neutral', or 'low')", s)
	}
}

// StrategyFamily classifies the recommended position structure.
type StrategyFamily string

// Strategy families.
const (
	VerticalCredit StrategyFamily = "vertical_credit"
	VerticalDebit  StrategyFamily = "vertical_debit"
	LongCallFamily StrategyFamily = "long_call"
	LongPutFamily  StrategyFamily = "long_put"
)

// IsSpread reports whether the family is a two-leg vertical.
func (f StrategyFamily) IsSpread() bool {
	return f == VerticalCredit || f == VerticalDebit
}

// IsLongOption reports whether the family is a single long option.
func (f StrategyFamily) IsLongOption() bool {
	return f == LongCallFamily || f == LongPutFamily
}

// ParseStrategyFamily parses a strategy family string.
func ParseStrategyFamily(s string) (StrategyFamily, error) {
	switch StrategyFamily(strings.ToLower(s)) {
	case VerticalCredit:
		return VerticalCredit, nil
	case VerticalDebit:
		return VerticalDebit, nil
	case LongCallFamily:
		return LongCallFamily, nil
	case LongPutFamily:
		return LongPutFamily, nil
	default:
		return "", fmt.Errorf("invalid strategy family: %q", s)
	}
}
