package selection

import (
	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// SpreadMetrics holds the computed risk numbers for a vertical spread.
// NetPremium is total dollars for one spread (per-share premium x 100),
// signed: positive is a debit, negative is a credit.
type SpreadMetrics struct {
	NetPremium decimal.Decimal
	Breakeven  decimal.Decimal
	MaxProfit  decimal.Decimal
	MaxLoss    decimal.Decimal
	RiskReward decimal.Decimal
	POPProxy   *decimal.Decimal
}

// CalculateSpreadMetrics computes risk metrics for a vertical spread from
// its two legs. MaxProfit + MaxLoss always equals the width in dollars, for
// both debit and credit spreads. RiskReward is 0 when MaxLoss is 0.
//
// The POP proxy is only computed when both deltas are supplied: for debits
// it is |longDelta - shortDelta| x 100, for credits the complement. It is a
// heuristic, not a rigorous probability, and is not clamped; deltas outside
// [-1, 1] produce out-of-range values.
func CalculateSpreadMetrics(
	longStrike, shortStrike decimal.Decimal,
	longPremium, shortPremium decimal.Decimal,
	optionType models.OptionType,
	longDelta, shortDelta *decimal.Decimal,
) SpreadMetrics {
	netPremium := longPremium.Sub(shortPremium).Mul(hundred)
	widthDollars := longStrike.Sub(shortStrike).Abs().Mul(hundred)

	isDebit := netPremium.IsPositive()

	var maxProfit, maxLoss decimal.Decimal
	if isDebit {
		maxLoss = netPremium
		maxProfit = widthDollars.Sub(netPremium)
	} else {
		maxProfit = netPremium.Abs()
		maxLoss = widthDollars.Sub(netPremium.Abs())
	}

	riskReward := decimal.Zero
	if maxLoss.IsPositive() {
		riskReward = maxProfit.Div(maxLoss)
	}

	// Breakeven depends on option type and debit vs credit. Per-share
	// premium is net premium / 100.
	var breakeven decimal.Decimal
	if optionType == models.Call {
		if isDebit {
			breakeven = longStrike.Add(netPremium.Div(hundred))
		} else {
			breakeven = shortStrike.Add(netPremium.Abs().Div(hundred))
		}
	} else {
		if isDebit {
			breakeven = longStrike.Sub(netPremium.Div(hundred))
		} else {
			breakeven = shortStrike.Sub(netPremium.Abs().Div(hundred))
		}
	}

	var pop *decimal.Decimal
	if longDelta != nil && shortDelta != nil {
		netDelta := longDelta.Sub(*shortDelta).Abs()
		var p decimal.Decimal
		if isDebit {
			p = netDelta.Mul(hundred)
		} else {
			p = one.Sub(netDelta).Mul(hundred)
		}
		pop = &p
	}

	return SpreadMetrics{
		NetPremium: netPremium,
		Breakeven:  breakeven,
		MaxProfit:  maxProfit,
		MaxLoss:    maxLoss,
		RiskReward: riskReward,
		POPProxy:   pop,
	}
}

// LongOptionMetrics holds the computed risk numbers for a long call or put.
// MaxProfit is nil for calls (unbounded upside).
type LongOptionMetrics struct {
	Breakeven decimal.Decimal
	MaxLoss   decimal.Decimal
	MaxProfit *decimal.Decimal
}

// CalculateLongOptionMetrics computes breakeven and max profit/loss for a
// single long option position. Max loss is the premium paid; put max profit
// assumes the underlying floors at zero.
func CalculateLongOptionMetrics(
	strike, premium decimal.Decimal,
	optionType models.OptionType,
	contracts int64,
) LongOptionMetrics {
	mult := hundred.Mul(decimal.NewFromInt(contracts))
	maxLoss := premium.Mul(mult)

	var maxProfit *decimal.Decimal
	var breakeven decimal.Decimal
	if optionType == models.Call {
		breakeven = strike.Add(premium)
	} else {
		profit := strike.Sub(premium).Mul(mult)
		maxProfit = &profit
		breakeven = strike.Sub(premium)
	}

	return LongOptionMetrics{
		Breakeven: breakeven,
		MaxLoss:   maxLoss,
		MaxProfit: maxProfit,
	}
}
