package recommend

import (
	"fmt"

	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
)

var (
	tenThousand        = decimal.NewFromInt(10000)
	twentyFiveThousand = decimal.NewFromInt(25000)
)

// SelectStrategyFamily maps (IV regime, bias, prefer_credit) to a strategy
// family and the option type it trades. The reasoning string explains the
// branch taken. Rules are evaluated in order; the first match wins. A
// prefer_credit=false request with a neutral bias has no debit mapping and
// falls through to the IV-based rules.
func SelectStrategyFamily(regime *models.IVRegime, bias models.Bias, preferCredit *bool) (models.StrategyFamily, models.OptionType, string) {
	if preferCredit != nil && *preferCredit {
		switch bias {
		case models.Bullish:
			return models.VerticalCredit, models.Put,
				"Credit preference with bullish bias: sell put spread below support"
		case models.Bearish:
			return models.VerticalCredit, models.Call,
				"Credit preference with bearish bias: sell call spread above resistance"
		default:
			return models.VerticalCredit, models.Call,
				"Credit preference with neutral bias: sell call spread to collect premium"
		}
	}

	if preferCredit != nil && !*preferCredit {
		switch bias {
		case models.Bullish:
			return models.VerticalDebit, models.Call,
				"Debit preference with bullish bias: buy call spread for defined-risk upside"
		case models.Bearish:
			return models.VerticalDebit, models.Put,
				"Debit preference with bearish bias: buy put spread for defined-risk downside"
		}
		// Neutral bias has no debit mapping; fall through to IV logic.
	}

	if regime != nil && *regime == models.IVHigh {
		switch bias {
		case models.Bullish:
			return models.VerticalCredit, models.Put,
				"High IV favors selling premium: put credit spread aligns with bullish bias"
		case models.Bearish:
			return models.VerticalCredit, models.Call,
				"High IV favors selling premium: call credit spread aligns with bearish bias"
		default:
			return models.VerticalCredit, models.Call,
				"High IV with neutral bias: call credit spread to harvest elevated premium"
		}
	}

	if regime != nil && *regime == models.IVLow {
		switch bias {
		case models.Bullish:
			return models.LongCallFamily, models.Call,
				"Low IV favors buying premium: long call captures upside with cheap options"
		case models.Bearish:
			return models.LongPutFamily, models.Put,
				"Low IV favors buying premium: long put captures downside with cheap options"
		default:
			return models.VerticalDebit, models.Call,
				"Low IV with neutral bias: call debit spread limits cost while awaiting direction"
		}
	}

	switch bias {
	case models.Bullish:
		return models.VerticalDebit, models.Call,
			"Neutral IV with bullish bias: call debit spread for defined-risk upside"
	case models.Bearish:
		return models.VerticalDebit, models.Put,
			"Neutral IV with bearish bias: put debit spread for defined-risk downside"
	default:
		return models.VerticalDebit, models.Call,
			"Neutral IV and neutral bias: call debit spread as conservative default"
	}
}

// ApplyDTEPreferences converts long-option families into spreads when the
// account tier and DTE make outright premium ownership capital-inefficient.
// Returns the (possibly changed) family and option type plus an annotation
// describing the override, or "" when nothing changed. A credit conversion
// flips the option type: a bullish long call becomes a put credit spread
// and a bearish long put a call credit spread. Spread families are never
// changed, only annotated.
func ApplyDTEPreferences(family models.StrategyFamily, optType models.OptionType, bias models.Bias, dte int, accountSize *decimal.Decimal) (models.StrategyFamily, models.OptionType, string) {
	tier := accountTier(accountSize)

	if family.IsLongOption() {
		if dte <= 7 {
			if tier == tierSmall || tier == tierMedium {
				converted := models.VerticalCredit
				newType := models.Call
				if bias == models.Bullish {
					newType = models.Put
				}
				return converted, newType, fmt.Sprintf(
					"Converted %s to %s for the 0-7 DTE window: theta decay is too punishing for outright longs in a %s account",
					family, converted, tier)
			}
			return family, optType, fmt.Sprintf(
				"Holding %s through the 0-7 DTE window: large account can absorb rapid theta decay", family)
		}
		if dte >= 14 && dte <= 45 && (tier == tierSmall || tier == tierMedium) {
			converted := models.VerticalDebit
			return converted, optType, fmt.Sprintf(
				"Converted %s to %s: debit spread cuts IV-crush exposure and capital outlay for a %s account over %d DTE",
				family, converted, tier, dte)
		}
		if dte >= 8 && dte <= 13 {
			return family, optType, fmt.Sprintf("%d DTE sits between short-dated and swing windows; monitor theta closely", dte)
		}
		if dte > 45 {
			return family, optType, fmt.Sprintf("%d DTE long option carries slow theta but large vega exposure", dte)
		}
		return family, optType, ""
	}

	if dte <= 7 {
		return family, optType, fmt.Sprintf("%d DTE spread: gamma risk is elevated near expiration", dte)
	}
	if dte >= 14 && dte <= 45 {
		return family, optType, fmt.Sprintf("%d DTE spread sits in the prime theta-harvesting window", dte)
	}
	return family, optType, ""
}

// BiasContextReasoning renders the bias setup label into prose, flagging
// sweep signals that conflict with the bias direction. Manual or unset
// reasons produce no prose.
func BiasContextReasoning(bias models.Bias, reason models.BiasReason) string {
	switch reason {
	case models.SSLSweep:
		if bias == models.Bearish {
			return "SSL sweep noted, but sweeps of sell-side liquidity usually resolve bullish; a bearish bias runs against the signal. "
		}
		return "Sell-side liquidity sweep: stops below a prior low were taken, often preceding a move up. "
	case models.BSLSweep:
		if bias == models.Bullish {
			return "BSL sweep noted, but sweeps of buy-side liquidity usually resolve bearish; a bullish bias runs against the signal. "
		}
		return "Buy-side liquidity sweep: stops above a prior high were taken, often preceding a move down. "
	case models.FVGRetest:
		return fmt.Sprintf("Fair value gap retest supports the %s bias if price respects the gap. ", bias)
	case models.StructureShift:
		return fmt.Sprintf("Market structure shift confirms the %s bias on the working timeframe. ", bias)
	default:
		return ""
	}
}

type accountTierKind string

const (
	tierSmall  accountTierKind = "small"
	tierMedium accountTierKind = "medium"
	tierLarge  accountTierKind = "large"
)

// accountTier buckets the account size. An unspecified size is treated as
// large: assume sufficient capital rather than forcing conversions.
func accountTier(accountSize *decimal.Decimal) accountTierKind {
	if accountSize == nil {
		return tierLarge
	}
	if accountSize.LessThan(tenThousand) {
		return tierSmall
	}
	if accountSize.LessThan(twentyFiveThousand) {
		return tierMedium
	}
	return tierLarge
}
