// Package planner computes risk metrics and position sizing for fully
// specified trades. Unlike the selection package it does no searching:
// callers hand it exact strikes and premiums, typically for a manual P/L
// check before entry.
package planner

import (
	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
)

var (
	hundred        = decimal.NewFromInt(100)
	one            = decimal.NewFromInt(1)
	DefaultRiskPct = decimal.NewFromFloat(2.0)
)

// Leg is one option position within a plan.
type Leg struct {
	Strike     decimal.Decimal   `json:"strike"`
	Premium    decimal.Decimal   `json:"premium"`
	OptionType models.OptionType `json:"option_type"`
	Position   string            `json:"position"`
	Contracts  int               `json:"contracts"`
}

// Plan is the computed result for a spread or long option.
type Plan struct {
	StrategyType    models.StrategyFamily `json:"strategy_type"`
	Bias            models.Bias           `json:"bias"`
	Symbol          string                `json:"underlying_symbol"`
	UnderlyingPrice decimal.Decimal       `json:"underlying_price"`

	Legs []Leg `json:"legs"`

	MaxProfit       *decimal.Decimal  `json:"max_profit,omitempty"`
	MaxLoss         decimal.Decimal   `json:"max_loss"`
	BreakevenPrices []decimal.Decimal `json:"breakeven_prices"`
	RiskReward      *decimal.Decimal  `json:"risk_reward_ratio,omitempty"`
	WinProbability  *decimal.Decimal  `json:"win_probability,omitempty"`

	RecommendedContracts int             `json:"recommended_contracts"`
	PositionSizeDollars  decimal.Decimal `json:"position_size_dollars"`

	NetPremium decimal.Decimal  `json:"net_premium"`
	NetCredit  *decimal.Decimal `json:"net_credit,omitempty"`
	DTE        *int             `json:"dte,omitempty"`
	TotalDelta *decimal.Decimal `json:"total_delta,omitempty"`

	Assumptions map[string]any `json:"assumptions"`
}

// VerticalSpreadInput describes a two-leg vertical.
type VerticalSpreadInput struct {
	Symbol          string
	UnderlyingPrice decimal.Decimal
	LongStrike      decimal.Decimal
	ShortStrike     decimal.Decimal
	LongPremium     decimal.Decimal
	ShortPremium    decimal.Decimal
	OptionType      models.OptionType
	Bias            models.Bias
	Contracts       int
	DTE             *int
	LongDelta       *decimal.Decimal
	ShortDelta      *decimal.Decimal
	AccountSize     *decimal.Decimal
	RiskPct         *decimal.Decimal
}

// CalculateVerticalSpread computes the full risk picture for a debit or
// credit vertical. Whether the spread is a debit is inferred from the sign
// of the net premium, not from the caller's bias.
func CalculateVerticalSpread(in VerticalSpreadInput) Plan {
	contracts := in.Contracts
	if contracts < 1 {
		contracts = 1
	}
	qty := decimal.NewFromInt(int64(contracts))

	netPremium := in.LongPremium.Sub(in.ShortPremium).Mul(qty).Mul(hundred)
	spreadWidth := in.LongStrike.Sub(in.ShortStrike).Abs().Mul(qty).Mul(hundred)

	isDebit := netPremium.IsPositive()

	var maxProfit, maxLoss decimal.Decimal
	if isDebit {
		maxLoss = netPremium
		maxProfit = spreadWidth.Sub(netPremium)
	} else {
		maxProfit = netPremium.Abs()
		maxLoss = spreadWidth.Sub(netPremium.Abs())
	}

	riskReward := decimal.Zero
	if !maxLoss.IsZero() {
		riskReward = maxProfit.Div(maxLoss)
	}

	perContract := qty.Mul(hundred)
	var breakeven decimal.Decimal
	if in.OptionType == models.Call {
		if isDebit {
			breakeven = in.LongStrike.Add(netPremium.Div(perContract))
		} else {
			breakeven = in.ShortStrike.Add(netPremium.Abs().Div(perContract))
		}
	} else {
		if isDebit {
			breakeven = in.LongStrike.Sub(netPremium.Div(perContract))
		} else {
			breakeven = in.ShortStrike.Sub(netPremium.Abs().Div(perContract))
		}
	}

	var winProb, totalDelta *decimal.Decimal
	if in.LongDelta != nil && in.ShortDelta != nil {
		td := in.LongDelta.Sub(*in.ShortDelta).Mul(qty)
		totalDelta = &td
		var wp decimal.Decimal
		if isDebit {
			wp = td.Abs().Mul(hundred)
		} else {
			wp = one.Sub(td.Abs()).Mul(hundred)
		}
		winProb = &wp
	}

	maxLossPerContract := maxLoss.Div(qty)
	recommended, positionDollars := sizeFromAccount(maxLossPerContract, maxLoss, contracts, in.AccountSize, in.RiskPct)

	family := models.VerticalCredit
	if isDebit {
		family = models.VerticalDebit
	}

	var netCredit *decimal.Decimal
	if !isDebit {
		nc := netPremium.Abs()
		netCredit = &nc
	}

	widthF, _ := spreadWidth.Float64()
	mlpcF, _ := maxLossPerContract.Float64()

	return Plan{
		StrategyType:    family,
		Bias:            in.Bias,
		Symbol:          in.Symbol,
		UnderlyingPrice: in.UnderlyingPrice,
		Legs: []Leg{
			{Strike: in.LongStrike, Premium: in.LongPremium, OptionType: in.OptionType, Position: "long", Contracts: contracts},
			{Strike: in.ShortStrike, Premium: in.ShortPremium, OptionType: in.OptionType, Position: "short", Contracts: contracts},
		},
		MaxProfit:            &maxProfit,
		MaxLoss:              maxLoss,
		BreakevenPrices:      []decimal.Decimal{breakeven},
		RiskReward:           &riskReward,
		WinProbability:       winProb,
		RecommendedContracts: recommended,
		PositionSizeDollars:  positionDollars,
		NetPremium:           netPremium,
		NetCredit:            netCredit,
		DTE:                  in.DTE,
		TotalDelta:           totalDelta,
		Assumptions: map[string]any{
			"spread_width":          widthF,
			"is_debit_spread":       isDebit,
			"multiplier":            100,
			"max_loss_per_contract": mlpcF,
		},
	}
}

// LongOptionInput describes a single long call or put.
type LongOptionInput struct {
	Symbol          string
	UnderlyingPrice decimal.Decimal
	Strike          decimal.Decimal
	Premium         decimal.Decimal
	OptionType      models.OptionType
	Bias            models.Bias
	Contracts       int
	DTE             *int
	Delta           *decimal.Decimal
	AccountSize     *decimal.Decimal
	RiskPct         *decimal.Decimal
}

// CalculateLongOption computes the risk picture for an outright long call
// or put. Calls carry unbounded profit, so MaxProfit and RiskReward stay
// nil; puts cap out with the underlying at zero.
func CalculateLongOption(in LongOptionInput) Plan {
	contracts := in.Contracts
	if contracts < 1 {
		contracts = 1
	}
	qty := decimal.NewFromInt(int64(contracts))

	netPremium := in.Premium.Mul(qty).Mul(hundred)
	maxLoss := netPremium

	family := models.LongCallFamily
	var maxProfit, riskReward *decimal.Decimal
	if in.OptionType == models.Put {
		family = models.LongPutFamily
		mp := in.Strike.Sub(in.Premium).Mul(hundred).Mul(qty)
		maxProfit = &mp
		rr := decimal.Zero
		if !maxLoss.IsZero() {
			rr = mp.Div(maxLoss)
		}
		riskReward = &rr
	}

	var breakeven decimal.Decimal
	if in.OptionType == models.Call {
		breakeven = in.Strike.Add(in.Premium)
	} else {
		breakeven = in.Strike.Sub(in.Premium)
	}

	var winProb, totalDelta *decimal.Decimal
	if in.Delta != nil {
		wp := in.Delta.Abs().Mul(hundred)
		winProb = &wp
		td := in.Delta.Mul(qty)
		totalDelta = &td
	}

	maxLossPerContract := maxLoss.Div(qty)
	recommended, positionDollars := sizeFromAccount(maxLossPerContract, maxLoss, contracts, in.AccountSize, in.RiskPct)

	mlpcF, _ := maxLossPerContract.Float64()

	return Plan{
		StrategyType:    family,
		Bias:            in.Bias,
		Symbol:          in.Symbol,
		UnderlyingPrice: in.UnderlyingPrice,
		Legs: []Leg{
			{Strike: in.Strike, Premium: in.Premium, OptionType: in.OptionType, Position: "long", Contracts: contracts},
		},
		MaxProfit:            maxProfit,
		MaxLoss:              maxLoss,
		BreakevenPrices:      []decimal.Decimal{breakeven},
		RiskReward:           riskReward,
		WinProbability:       winProb,
		RecommendedContracts: recommended,
		PositionSizeDollars:  positionDollars,
		NetPremium:           netPremium,
		DTE:                  in.DTE,
		TotalDelta:           totalDelta,
		Assumptions: map[string]any{
			"max_profit_note":       "Unlimited for calls, (strike - premium) x 100 x contracts for puts",
			"multiplier":            100,
			"max_loss_per_contract": mlpcF,
		},
	}
}

// CalculatePositionSize returns how many contracts the risk budget allows:
// floor(account x riskPct% / maxLoss). A trade the budget cannot cover at
// all, or a max loss at or below zero, sizes to 0.
func CalculatePositionSize(maxLossPerContract, accountSize, riskPct decimal.Decimal) int {
	if !maxLossPerContract.IsPositive() {
		return 0
	}
	maxRiskDollars := accountSize.Mul(riskPct.Div(hundred))
	contracts := int(maxRiskDollars.Div(maxLossPerContract).IntPart())
	if contracts < 1 {
		return 0
	}
	return contracts
}

func sizeFromAccount(maxLossPerContract, maxLoss decimal.Decimal, requested int, accountSize, riskPct *decimal.Decimal) (int, decimal.Decimal) {
	if accountSize == nil {
		return requested, maxLoss
	}
	pct := DefaultRiskPct
	if riskPct != nil {
		pct = *riskPct
	}
	n := CalculatePositionSize(maxLossPerContract, *accountSize, pct)
	return n, maxLossPerContract.Mul(decimal.NewFromInt(int64(n)))
}
