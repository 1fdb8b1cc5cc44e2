package recommend

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
	"options-advisor/internal/selection"
)

const maxRecommendations = 3

var defaultRiskPct = decimal.NewFromInt(2)

// Recommender runs the full recommendation pipeline. It is stateless
// beyond its configuration and safe for concurrent use.
type Recommender struct {
	selector *selection.Selector
	weights  ScoringWeights
	log      zerolog.Logger
}

// NewRecommender builds a Recommender around a configured strike selector.
func NewRecommender(selector *selection.Selector, weights ScoringWeights, log zerolog.Logger) *Recommender {
	return &Recommender{selector: selector, weights: weights, log: log}
}

// Request carries everything a single recommendation run needs. The
// contract list and pointer fields are read, never mutated.
type Request struct {
	Contracts       []models.OptionContractData
	Symbol          string
	UnderlyingPrice decimal.Decimal
	Bias            models.Bias
	DTE             int
	IVRank          *decimal.Decimal
	TargetMovePct   *decimal.Decimal
	Objectives      *StrategyObjectives
	Constraints     *StrategyConstraints
	Weights         *ScoringWeights
	DataTimestamp   time.Time
}

// Recommend executes the pipeline: resolve the IV regime, pick a strategy
// family, apply DTE overrides, generate candidates, size positions, filter
// by constraints, score, rank, and truncate to the top three.
func (r *Recommender) Recommend(req Request) Result {
	weights := r.weights
	if req.Weights != nil {
		weights = *req.Weights
	}

	var regime *models.IVRegime
	if req.Constraints != nil && req.Constraints.IVRegimeOverride != nil {
		regime = req.Constraints.IVRegimeOverride
	} else {
		regime = r.selector.DetermineIVRegime(req.IVRank)
	}

	var preferCredit *bool
	var accountSize *decimal.Decimal
	var biasReason models.BiasReason
	if req.Objectives != nil {
		preferCredit = req.Objectives.PreferCredit
		accountSize = req.Objectives.AccountSize
		biasReason = req.Objectives.BiasReason
	}

	family, optType, selectionReason := SelectStrategyFamily(regime, req.Bias, preferCredit)
	family, optType, dteNote := ApplyDTEPreferences(family, optType, req.Bias, req.DTE, accountSize)
	if dteNote != "" {
		selectionReason = dteNote + ". " + selectionReason
	}
	selectionReason = BiasContextReasoning(req.Bias, biasReason) + selectionReason

	var maxWidth *int
	if req.Constraints != nil {
		maxWidth = req.Constraints.MaxSpreadWidth
	}
	width := r.selector.SpreadWidthForPrice(req.UnderlyingPrice, maxWidth)

	r.log.Debug().
		Str("symbol", req.Symbol).
		Str("family", string(family)).
		Str("option_type", string(optType)).
		Int("dte", req.DTE).
		Int("spread_width", width).
		Msg("strategy family resolved")

	var candidates []StrategyRecommendation
	if family.IsSpread() {
		opts := selection.SpreadOptions{IVRegime: regime}
		if req.Constraints != nil {
			opts.MinCreditPct = req.Constraints.MinCreditPct
		}
		spreads := r.selector.RecommendVerticalSpreads(req.Contracts, req.UnderlyingPrice, optType, req.Bias, width, opts)
		for i := range spreads {
			candidates = append(candidates, fromSpread(&spreads[i], optType))
		}
	} else {
		longs := r.selector.RecommendLongOptions(req.Contracts, req.UnderlyingPrice, optType)
		for i := range longs {
			candidates = append(candidates, fromLongOption(&longs[i], optType))
		}
	}

	if accountSize != nil {
		for i := range candidates {
			sizePosition(&candidates[i], *accountSize)
		}
	}

	var warnings []string
	kept := candidates[:0]
	rejected := 0
	for i := range candidates {
		ok, _ := ApplyConstraints(&candidates[i], req.Objectives, req.Constraints, family)
		if ok {
			kept = append(kept, candidates[i])
		} else {
			rejected++
		}
	}
	if rejected > 0 {
		warnings = append(warnings, fmt.Sprintf("%d candidate(s) rejected by constraints", rejected))
	}

	for i := range kept {
		kept[i].CompositeScore = CompositeScore(&kept[i], weights, family)
		kept[i].Reasons = BuildReasoning(&kept[i], family, selectionReason)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].CompositeScore > kept[j].CompositeScore
	})
	if len(kept) > maxRecommendations {
		kept = kept[:maxRecommendations]
	}
	for i := range kept {
		kept[i].Rank = i + 1
	}

	if len(kept) == 0 {
		warnings = append(warnings, fmt.Sprintf("No viable %s candidates found; consider relaxing constraints", family))
	}

	ts := req.DataTimestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	return Result{
		UnderlyingSymbol:     req.Symbol,
		UnderlyingPrice:      req.UnderlyingPrice,
		ChosenStrategyFamily: family,
		IVRank:               req.IVRank,
		IVRegime:             regime,
		DTE:                  req.DTE,
		ExpectedMovePct:      req.TargetMovePct,
		DataTimestamp:        ts,
		Recommendations:      kept,
		ConfigUsed:           r.configUsed(width, weights),
		Warnings:             warnings,
	}
}

// fromSpread wraps a raw spread candidate, aggregating per-leg liquidity
// into the weaker leg's numbers: a spread is only as liquid as its worst
// leg.
func fromSpread(c *selection.SpreadCandidate, optType models.OptionType) StrategyRecommendation {
	isCredit := c.IsCredit
	rec := StrategyRecommendation{
		OptionType:      optType,
		Position:        c.Position,
		LongStrike:      decPtr(c.LongStrike),
		ShortStrike:     decPtr(c.ShortStrike),
		LongPremium:     decPtr(c.LongPremium),
		ShortPremium:    decPtr(c.ShortPremium),
		NetPremium:      decPtr(c.NetPremium),
		IsCredit:        &isCredit,
		NetCredit:       c.NetCredit,
		NetDebit:        c.NetDebit,
		WidthPoints:     decPtr(c.WidthPoints),
		WidthDollars:    decPtr(c.WidthDollars),
		Breakeven:       c.Breakeven,
		MaxProfit:       decPtr(c.MaxProfit),
		MaxLoss:         c.MaxLoss,
		RiskReward:      decPtr(c.RiskReward),
		POPProxy:        c.POPProxy,
		LongDelta:       c.LongDelta,
		ShortDelta:      c.ShortDelta,
		AvgOpenInterest: minLeg(c.LongOpenInterest, c.ShortOpenInterest),
		AvgVolume:       minLeg(c.LongVolume, c.ShortVolume),
	}
	if c.IsCredit {
		rec.StrategyFamily = models.VerticalCredit
	} else {
		rec.StrategyFamily = models.VerticalDebit
	}
	return rec
}

func fromLongOption(c *selection.LongOptionCandidate, optType models.OptionType) StrategyRecommendation {
	family := models.LongCallFamily
	if optType == models.Put {
		family = models.LongPutFamily
	}
	var rr *decimal.Decimal
	if c.MaxProfit != nil && c.MaxLoss.IsPositive() {
		v := c.MaxProfit.Div(c.MaxLoss)
		rr = &v
	}
	return StrategyRecommendation{
		StrategyFamily: family,
		OptionType:     optType,
		Position:       c.Position,
		Strike:         decPtr(c.Strike),
		Premium:        decPtr(c.Premium),
		Breakeven:      c.Breakeven,
		MaxProfit:      c.MaxProfit,
		MaxLoss:        c.MaxLoss,
		RiskReward:     rr,
		POPProxy:       c.POPProxy,
		Delta:          c.Delta,
	}
}

// sizePosition applies the 2% risk rule. An affordable candidate always
// gets at least one contract; only a max loss at or below zero yields
// none.
func sizePosition(rec *StrategyRecommendation, accountSize decimal.Decimal) {
	if !rec.MaxLoss.IsPositive() {
		return
	}
	riskDollars := accountSize.Mul(defaultRiskPct).Div(hundredPct)
	contracts := int(riskDollars.Div(rec.MaxLoss).IntPart())
	if contracts < 1 {
		contracts = 1
	}
	rec.RecommendedContracts = &contracts
	size := rec.MaxLoss.Mul(decimal.NewFromInt(int64(contracts)))
	rec.PositionSizeDollars = &size
}

func (r *Recommender) configUsed(width int, weights ScoringWeights) ConfigUsed {
	cfg := r.selector.Config()
	ivHigh, _ := cfg.IVHighThreshold.Float64()
	ivLow, _ := cfg.IVLowThreshold.Float64()
	minCredit, _ := cfg.MinCreditPct.Float64()
	return ConfigUsed{
		IVHighThreshold: ivHigh,
		IVLowThreshold:  ivLow,
		MinCreditPct:    minCredit,
		SpreadWidth:     width,
		ScoringWeights:  weights,
	}
}

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func minLeg(a, b *int64) *int64 {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *a < *b:
		return a
	default:
		return b
	}
}
