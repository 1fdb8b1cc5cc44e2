package recommend

import (
	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
)

// CompositeScore computes the 0-100 ranking score for a candidate as an
// additive weighted sum. Each term is capped independently before
// weighting, and the final sum is clamped to 100 so weights that exceed
// 1.0 in aggregate cannot overflow the scale.
func CompositeScore(rec *StrategyRecommendation, weights ScoringWeights, family models.StrategyFamily) float64 {
	var score float64

	if rec.POPProxy != nil {
		pop, _ := rec.POPProxy.Float64()
		score += capRatio(pop/100) * weights.POP * 100
	}

	if rec.RiskReward != nil {
		rr, _ := rec.RiskReward.Float64()
		score += capRatio(rr/3) * weights.RiskReward * 100
	}

	// Credit quality for credit spreads, cost efficiency for everything
	// bought. The ceilings differ: 50% of width is max useful credit,
	// while a 5x payout is the debit/long saturation point.
	if family == models.VerticalCredit {
		if rec.NetCredit != nil && rec.WidthDollars != nil && rec.WidthDollars.IsPositive() {
			creditPct, _ := rec.NetCredit.Div(*rec.WidthDollars).Mul(hundredPct).Float64()
			score += capRatio(creditPct/50) * weights.Credit * 100
		}
	} else if rec.MaxProfit != nil && rec.MaxLoss.IsPositive() {
		costEff, _ := rec.MaxProfit.Div(rec.MaxLoss).Float64()
		score += capRatio(costEff/5) * weights.Credit * 100
	}

	if rec.AvgOpenInterest != nil {
		score += capRatio(float64(*rec.AvgOpenInterest)/500) * weights.Liquidity * 100
	}

	switch rec.Position {
	case models.ATM:
		score += weights.WidthEfficiency * 100
	case models.OTM:
		score += weights.WidthEfficiency * 100 / 2
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

var hundredPct = decimal.NewFromInt(100)

func capRatio(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
