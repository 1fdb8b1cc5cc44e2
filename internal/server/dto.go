package server

import (
	"fmt"

	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
	"options-advisor/internal/recommend"
)

// strategyRecommendRequest is the body of POST /api/v1/strategy/recommend.
type strategyRecommendRequest struct {
	Ticker       string           `json:"ticker"`
	Bias         string           `json:"bias"`
	BiasReason   string           `json:"bias_reason,omitempty"`
	DTE          int              `json:"dte"`
	DTETolerance *int             `json:"dte_tolerance,omitempty"`
	IVRank       *decimal.Decimal `json:"iv_rank,omitempty"`

	AccountSize     *decimal.Decimal `json:"account_size,omitempty"`
	MaxRiskPerTrade *decimal.Decimal `json:"max_risk_per_trade,omitempty"`
	MinPOPPct       *decimal.Decimal `json:"min_pop_pct,omitempty"`
	MinRiskReward   *decimal.Decimal `json:"min_risk_reward,omitempty"`
	PreferCredit    *bool            `json:"prefer_credit,omitempty"`

	MinCreditPct     *decimal.Decimal `json:"min_credit_pct,omitempty"`
	MaxSpreadWidth   *int             `json:"max_spread_width,omitempty"`
	IVRegimeOverride *string          `json:"iv_regime_override,omitempty"`
	MinOpenInterest  *int64           `json:"min_open_interest,omitempty"`
	MinVolume        *int64           `json:"min_volume,omitempty"`

	TargetMovePct *decimal.Decimal `json:"target_move_pct,omitempty"`
}

func (req *strategyRecommendRequest) validate() error {
	if req.Ticker == "" {
		return fmt.Errorf("ticker is required")
	}
	if _, err := models.ParseBias(req.Bias); err != nil {
		return err
	}
	if req.BiasReason != "" {
		switch models.BiasReason(req.BiasReason) {
		case models.SSLSweep, models.BSLSweep, models.FVGRetest, models.StructureShift, models.UserManual:
		default:
			return fmt.Errorf("invalid bias_reason: %q", req.BiasReason)
		}
	}
	if req.DTE < 1 || req.DTE > 365 {
		return fmt.Errorf("dte must be between 1 and 365")
	}
	if req.DTETolerance != nil && (*req.DTETolerance < 0 || *req.DTETolerance > 10) {
		return fmt.Errorf("dte_tolerance must be between 0 and 10")
	}
	if err := percentInRange("iv_rank", req.IVRank); err != nil {
		return err
	}
	if err := percentInRange("min_pop_pct", req.MinPOPPct); err != nil {
		return err
	}
	if err := percentInRange("min_credit_pct", req.MinCreditPct); err != nil {
		return err
	}
	if req.MaxSpreadWidth != nil && (*req.MaxSpreadWidth < 1 || *req.MaxSpreadWidth > 50) {
		return fmt.Errorf("max_spread_width must be between 1 and 50")
	}
	if req.IVRegimeOverride != nil {
		if _, err := models.ParseIVRegime(*req.IVRegimeOverride); err != nil {
			return err
		}
	}
	if req.AccountSize != nil && !req.AccountSize.IsPositive() {
		return fmt.Errorf("account_size must be positive")
	}
	if req.MaxRiskPerTrade != nil && !req.MaxRiskPerTrade.IsPositive() {
		return fmt.Errorf("max_risk_per_trade must be positive")
	}
	if req.MinRiskReward != nil && req.MinRiskReward.IsNegative() {
		return fmt.Errorf("min_risk_reward must be non-negative")
	}
	return nil
}

// toEngineRequest converts the validated DTO into the engine's request,
// minus the contract list and price which come from storage.
func (req *strategyRecommendRequest) toEngineRequest() recommend.Request {
	bias, _ := models.ParseBias(req.Bias)

	objectives := &recommend.StrategyObjectives{
		MaxRiskPerTrade: req.MaxRiskPerTrade,
		MinPOPPct:       req.MinPOPPct,
		MinRiskReward:   req.MinRiskReward,
		PreferCredit:    req.PreferCredit,
		AccountSize:     req.AccountSize,
		BiasReason:      models.BiasReason(req.BiasReason),
	}

	constraints := &recommend.StrategyConstraints{
		MinCreditPct:    req.MinCreditPct,
		MaxSpreadWidth:  req.MaxSpreadWidth,
		MinOpenInterest: req.MinOpenInterest,
		MinVolume:       req.MinVolume,
	}
	if req.IVRegimeOverride != nil {
		regime, _ := models.ParseIVRegime(*req.IVRegimeOverride)
		constraints.IVRegimeOverride = &regime
	}

	return recommend.Request{
		Symbol:        req.Ticker,
		Bias:          bias,
		DTE:           req.DTE,
		IVRank:        req.IVRank,
		TargetMovePct: req.TargetMovePct,
		Objectives:    objectives,
		Constraints:   constraints,
	}
}

// strikesRecommendRequest is the body of POST /api/v1/strikes/recommend.
type strikesRecommendRequest struct {
	Ticker       string           `json:"ticker"`
	OptionType   string           `json:"option_type"`
	Bias         string           `json:"bias"`
	DTE          int              `json:"dte"`
	DTETolerance *int             `json:"dte_tolerance,omitempty"`
	TargetWidth  *int             `json:"target_width,omitempty"`
	MinCreditPct *decimal.Decimal `json:"min_credit_pct,omitempty"`
}

func (req *strikesRecommendRequest) validate() error {
	if req.Ticker == "" {
		return fmt.Errorf("ticker is required")
	}
	if _, err := models.ParseOptionType(req.OptionType); err != nil {
		return err
	}
	if _, err := models.ParseBias(req.Bias); err != nil {
		return err
	}
	if req.DTE < 1 || req.DTE > 365 {
		return fmt.Errorf("dte must be between 1 and 365")
	}
	if req.DTETolerance != nil && (*req.DTETolerance < 0 || *req.DTETolerance > 10) {
		return fmt.Errorf("dte_tolerance must be between 0 and 10")
	}
	if req.TargetWidth != nil && (*req.TargetWidth < 1 || *req.TargetWidth > 50) {
		return fmt.Errorf("target_width must be between 1 and 50")
	}
	return percentInRange("min_credit_pct", req.MinCreditPct)
}

// tradeCalcRequest is the body of POST /api/v1/trades/calc. Strategy
// selects the shape: "vertical" uses the strike/premium pairs, "long"
// uses the single strike and premium.
type tradeCalcRequest struct {
	Strategy        string          `json:"strategy"`
	Symbol          string          `json:"symbol"`
	UnderlyingPrice decimal.Decimal `json:"underlying_price"`
	OptionType      string          `json:"option_type"`
	Bias            string          `json:"bias"`
	Contracts       int             `json:"contracts,omitempty"`
	DTE             *int            `json:"dte,omitempty"`

	LongStrike   *decimal.Decimal `json:"long_strike,omitempty"`
	ShortStrike  *decimal.Decimal `json:"short_strike,omitempty"`
	LongPremium  *decimal.Decimal `json:"long_premium,omitempty"`
	ShortPremium *decimal.Decimal `json:"short_premium,omitempty"`
	LongDelta    *decimal.Decimal `json:"long_delta,omitempty"`
	ShortDelta   *decimal.Decimal `json:"short_delta,omitempty"`

	Strike  *decimal.Decimal `json:"strike,omitempty"`
	Premium *decimal.Decimal `json:"premium,omitempty"`
	Delta   *decimal.Decimal `json:"delta,omitempty"`

	AccountSize *decimal.Decimal `json:"account_size,omitempty"`
	RiskPct     *decimal.Decimal `json:"risk_pct,omitempty"`
}

func (req *tradeCalcRequest) validate() error {
	if req.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if !req.UnderlyingPrice.IsPositive() {
		return fmt.Errorf("underlying_price must be positive")
	}
	if _, err := models.ParseOptionType(req.OptionType); err != nil {
		return err
	}
	if _, err := models.ParseBias(req.Bias); err != nil {
		return err
	}
	if req.DTE != nil && (*req.DTE < 1 || *req.DTE > 365) {
		return fmt.Errorf("dte must be between 1 and 365")
	}
	if req.Contracts < 0 {
		return fmt.Errorf("contracts must be non-negative")
	}
	if req.RiskPct != nil && (req.RiskPct.IsNegative() || req.RiskPct.GreaterThan(decimal.NewFromInt(100))) {
		return fmt.Errorf("risk_pct must be between 0 and 100")
	}

	switch req.Strategy {
	case "vertical":
		if req.LongStrike == nil || req.ShortStrike == nil || req.LongPremium == nil || req.ShortPremium == nil {
			return fmt.Errorf("vertical strategy requires long_strike, short_strike, long_premium, short_premium")
		}
	case "long":
		if req.Strike == nil || req.Premium == nil {
			return fmt.Errorf("long strategy requires strike and premium")
		}
	default:
		return fmt.Errorf("strategy must be 'vertical' or 'long'")
	}
	return nil
}

func percentInRange(field string, v *decimal.Decimal) error {
	if v == nil {
		return nil
	}
	if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%s must be between 0 and 100", field)
	}
	return nil
}
