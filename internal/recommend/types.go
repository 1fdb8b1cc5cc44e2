// Package recommend implements the strategy recommendation engine: family
// selection from IV regime and bias, DTE-based capital-efficiency
// overrides, constraint filtering, composite scoring, and ranking.
package recommend

import (
	"time"

	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
)

// StrategyObjectives are trader-supplied preferences. All fields are
// optional; nil means "no preference". Passed by reference through the
// pipeline and never mutated.
type StrategyObjectives struct {
	MaxRiskPerTrade *decimal.Decimal  `json:"max_risk_per_trade,omitempty"`
	MinPOPPct       *decimal.Decimal  `json:"min_pop_pct,omitempty"`
	MinRiskReward   *decimal.Decimal  `json:"min_risk_reward,omitempty"`
	PreferCredit    *bool             `json:"prefer_credit,omitempty"`
	AvoidEarnings   bool              `json:"avoid_earnings,omitempty"`
	AccountSize     *decimal.Decimal  `json:"account_size,omitempty"`
	BiasReason      models.BiasReason `json:"bias_reason,omitempty"`
}

// StrategyConstraints are hard filters applied to candidates.
type StrategyConstraints struct {
	MinCreditPct     *decimal.Decimal `json:"min_credit_pct,omitempty"`
	MaxSpreadWidth   *int             `json:"max_spread_width,omitempty"`
	IVRegimeOverride *models.IVRegime `json:"iv_regime_override,omitempty"`
	MinOpenInterest  *int64           `json:"min_open_interest,omitempty"`
	MinVolume        *int64           `json:"min_volume,omitempty"`
	MinMarkPrice     *decimal.Decimal `json:"min_mark_price,omitempty"`
}

// ScoringWeights configures the composite score. The weights conceptually
// sum to 1.0; this is not enforced, and the final score is clamped to 100.
type ScoringWeights struct {
	POP             float64 `json:"pop"`
	RiskReward      float64 `json:"rr"`
	Credit          float64 `json:"credit"`
	Liquidity       float64 `json:"liquidity"`
	WidthEfficiency float64 `json:"width_efficiency"`
}

// DefaultScoringWeights returns the default composite scoring weights.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		POP:             0.30,
		RiskReward:      0.30,
		Credit:          0.25,
		Liquidity:       0.10,
		WidthEfficiency: 0.05,
	}
}

// StrategyRecommendation is one ranked candidate with reasoning. Fields are
// populated progressively through the pipeline (rank and composite score
// land after scoring) and the struct is treated as frozen once returned.
type StrategyRecommendation struct {
	Rank           int                   `json:"rank"`
	StrategyFamily models.StrategyFamily `json:"strategy_family"`
	OptionType     models.OptionType     `json:"option_type"`
	Position       models.StrikePosition `json:"position"`

	// Long options.
	Strike  *decimal.Decimal `json:"strike,omitempty"`
	Premium *decimal.Decimal `json:"premium,omitempty"`

	// Spreads.
	LongStrike   *decimal.Decimal `json:"long_strike,omitempty"`
	ShortStrike  *decimal.Decimal `json:"short_strike,omitempty"`
	LongPremium  *decimal.Decimal `json:"long_premium,omitempty"`
	ShortPremium *decimal.Decimal `json:"short_premium,omitempty"`

	NetPremium   *decimal.Decimal `json:"net_premium,omitempty"`
	IsCredit     *bool            `json:"is_credit,omitempty"`
	NetCredit    *decimal.Decimal `json:"net_credit,omitempty"`
	NetDebit     *decimal.Decimal `json:"net_debit,omitempty"`
	WidthPoints  *decimal.Decimal `json:"width_points,omitempty"`
	WidthDollars *decimal.Decimal `json:"width_dollars,omitempty"`

	Breakeven  decimal.Decimal  `json:"breakeven"`
	MaxProfit  *decimal.Decimal `json:"max_profit,omitempty"`
	MaxLoss    decimal.Decimal  `json:"max_loss"`
	RiskReward *decimal.Decimal `json:"risk_reward_ratio,omitempty"`
	POPProxy   *decimal.Decimal `json:"pop_proxy,omitempty"`

	Delta      *decimal.Decimal `json:"delta,omitempty"`
	LongDelta  *decimal.Decimal `json:"long_delta,omitempty"`
	ShortDelta *decimal.Decimal `json:"short_delta,omitempty"`

	RecommendedContracts *int             `json:"recommended_contracts,omitempty"`
	PositionSizeDollars  *decimal.Decimal `json:"position_size_dollars,omitempty"`

	CompositeScore float64 `json:"composite_score"`

	AvgOpenInterest *int64 `json:"avg_open_interest,omitempty"`
	AvgVolume       *int64 `json:"avg_volume,omitempty"`

	Reasons  []string `json:"reasons"`
	Warnings []string `json:"warnings,omitempty"`
}

// ConfigUsed echoes the thresholds and weights a recommendation run
// actually applied, for caller-side observability.
type ConfigUsed struct {
	IVHighThreshold float64        `json:"iv_high_threshold"`
	IVLowThreshold  float64        `json:"iv_low_threshold"`
	MinCreditPct    float64        `json:"min_credit_pct"`
	SpreadWidth     int            `json:"spread_width"`
	ScoringWeights  ScoringWeights `json:"scoring_weights"`
}

// Result is the complete, ranked recommendation response. Constructed once
// per request and never mutated after return.
type Result struct {
	UnderlyingSymbol     string                   `json:"underlying_symbol"`
	UnderlyingPrice      decimal.Decimal          `json:"underlying_price"`
	ChosenStrategyFamily models.StrategyFamily    `json:"chosen_strategy_family"`
	IVRank               *decimal.Decimal         `json:"iv_rank,omitempty"`
	IVRegime             *models.IVRegime         `json:"iv_regime,omitempty"`
	DTE                  int                      `json:"dte"`
	ExpectedMovePct      *decimal.Decimal         `json:"expected_move_pct,omitempty"`
	DataTimestamp        time.Time                `json:"data_timestamp"`
	Recommendations      []StrategyRecommendation `json:"recommendations"`
	ConfigUsed           ConfigUsed               `json:"config_used"`
	Warnings             []string                 `json:"warnings"`
}
