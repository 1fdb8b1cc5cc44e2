package selection

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
)

// SpreadCandidate is a candidate vertical spread, built fresh per request
// and never persisted. NetPremium is signed (positive debit, negative
// credit); exactly one of NetCredit/NetDebit is populated. MaxProfit +
// MaxLoss equals WidthDollars for both orientations. Leg open interest and
// volume are carried so callers can aggregate real liquidity.
type SpreadCandidate struct {
	Position     models.StrikePosition `json:"position"`
	LongStrike   decimal.Decimal       `json:"long_strike"`
	ShortStrike  decimal.Decimal       `json:"short_strike"`
	LongPremium  decimal.Decimal       `json:"long_premium"`
	ShortPremium decimal.Decimal       `json:"short_premium"`
	NetPremium   decimal.Decimal       `json:"net_premium"`
	IsCredit     bool                  `json:"is_credit"`
	NetCredit    *decimal.Decimal      `json:"net_credit,omitempty"`
	NetDebit     *decimal.Decimal      `json:"net_debit,omitempty"`
	WidthPoints  decimal.Decimal       `json:"width_points"`
	WidthDollars decimal.Decimal       `json:"width_dollars"`
	Breakeven    decimal.Decimal       `json:"breakeven"`
	MaxProfit    decimal.Decimal       `json:"max_profit"`
	MaxLoss      decimal.Decimal       `json:"max_loss"`
	RiskReward   decimal.Decimal       `json:"risk_reward_ratio"`
	POPProxy     *decimal.Decimal      `json:"pop_proxy,omitempty"`
	LongDelta    *decimal.Decimal      `json:"long_delta,omitempty"`
	ShortDelta   *decimal.Decimal      `json:"short_delta,omitempty"`

	LongOpenInterest  *int64 `json:"long_open_interest,omitempty"`
	ShortOpenInterest *int64 `json:"short_open_interest,omitempty"`
	LongVolume        *int64 `json:"long_volume,omitempty"`
	ShortVolume       *int64 `json:"short_volume,omitempty"`

	QualityScore float64  `json:"quality_score"`
	Notes        []string `json:"notes"`
}

// SpreadOptions carries the optional knobs for RecommendVerticalSpreads.
type SpreadOptions struct {
	// Minimum credit as percent of width; nil uses the configured default.
	MinCreditPct *decimal.Decimal
	// Current IV regime, for context only.
	IVRegime *models.IVRegime
	// SkipLiquidityFilter disables the per-contract liquidity checks.
	SkipLiquidityFilter bool
}

// RecommendVerticalSpreads builds spread candidates anchored at the ITM,
// ATM, and OTM strikes. The anchor is paired with the eligible contract
// whose strike is nearest anchor +/- targetWidth (up for calls, down for
// puts); pairings whose realized width deviates from the target by more
// than the configured tolerance are dropped, as are credit spreads whose
// credit falls below the minimum percent of width. Anything with missing
// marks or failing liquidity is silently omitted. The result is sorted by
// quality score, best first.
func (s *Selector) RecommendVerticalSpreads(
	contracts []models.OptionContractData,
	underlyingPrice decimal.Decimal,
	optionType models.OptionType,
	bias models.Bias,
	targetWidth int,
	opts SpreadOptions,
) []SpreadCandidate {
	minCreditPct := s.cfg.MinCreditPct
	if opts.MinCreditPct != nil {
		minCreditPct = *opts.MinCreditPct
	}

	// Bullish calls and bearish puts are debit structures; every other
	// bias/type combination sells the nearer strike for a credit.
	isDebitStrategy := (bias == models.Bullish && optionType == models.Call) ||
		(bias == models.Bearish && optionType == models.Put)

	widthDec := decimal.NewFromInt(int64(targetWidth))
	tolerance := widthDec.Mul(s.cfg.WidthTolerancePct)

	eligible := make([]models.OptionContractData, 0, len(contracts))
	for _, c := range contracts {
		if c.OptionType != optionType || c.Mark == nil {
			continue
		}
		if !opts.SkipLiquidityFilter {
			if ok, _ := s.PassesLiquidityFilter(&c, LiquidityOverrides{}); !ok {
				continue
			}
		}
		eligible = append(eligible, c)
	}

	var candidates []SpreadCandidate
	for _, position := range []models.StrikePosition{models.ITM, models.ATM, models.OTM} {
		anchors := s.FindNearestStrikes(contracts, underlyingPrice, optionType, []models.StrikePosition{position})
		anchor := anchors[position]
		if anchor == nil || anchor.Mark == nil {
			continue
		}
		if !opts.SkipLiquidityFilter {
			if ok, _ := s.PassesLiquidityFilter(anchor, LiquidityOverrides{}); !ok {
				continue
			}
		}

		// The second leg sits targetWidth above the anchor for calls and
		// below for puts, regardless of debit/credit orientation.
		var targetOther decimal.Decimal
		if optionType == models.Call {
			targetOther = anchor.Strike.Add(widthDec)
		} else {
			targetOther = anchor.Strike.Sub(widthDec)
		}

		other := nearestByStrike(eligible, targetOther)
		if other == nil || other.Mark == nil {
			continue
		}

		actualWidth := other.Strike.Sub(anchor.Strike).Abs()
		if actualWidth.Sub(widthDec).Abs().GreaterThan(tolerance) {
			continue
		}

		// Debit: anchor is the long leg. Credit: the roles reverse and the
		// anchor is sold.
		longLeg, shortLeg := anchor, other
		if !isDebitStrategy {
			longLeg, shortLeg = other, anchor
		}

		m := CalculateSpreadMetrics(
			longLeg.Strike, shortLeg.Strike,
			*longLeg.Mark, *shortLeg.Mark,
			optionType,
			longLeg.Delta, shortLeg.Delta,
		)

		isCredit := m.NetPremium.IsNegative()
		widthPoints := longLeg.Strike.Sub(shortLeg.Strike).Abs()
		widthDollars := widthPoints.Mul(hundred)

		var netCredit, netDebit *decimal.Decimal
		if isCredit {
			c := m.NetPremium.Abs()
			netCredit = &c
		} else {
			d := m.NetPremium
			netDebit = &d
		}

		if isCredit {
			creditPct := m.NetPremium.Abs().Div(widthDollars).Mul(hundred)
			if creditPct.LessThan(minCreditPct) {
				continue
			}
		}

		notes := []string{fmt.Sprintf("%s spread", positionLabel(position))}
		if m.POPProxy != nil {
			notes = append(notes, fmt.Sprintf("~%s%% POP", m.POPProxy.StringFixed(0)))
		}

		candidate := SpreadCandidate{
			Position:          position,
			LongStrike:        longLeg.Strike,
			ShortStrike:       shortLeg.Strike,
			LongPremium:       *longLeg.Mark,
			ShortPremium:      *shortLeg.Mark,
			NetPremium:        m.NetPremium,
			IsCredit:          isCredit,
			NetCredit:         netCredit,
			NetDebit:          netDebit,
			WidthPoints:       widthPoints,
			WidthDollars:      widthDollars,
			Breakeven:         m.Breakeven,
			MaxProfit:         m.MaxProfit,
			MaxLoss:           m.MaxLoss,
			RiskReward:        m.RiskReward,
			POPProxy:          m.POPProxy,
			LongDelta:         longLeg.Delta,
			ShortDelta:        shortLeg.Delta,
			LongOpenInterest:  longLeg.OpenInterest,
			ShortOpenInterest: shortLeg.OpenInterest,
			LongVolume:        longLeg.Volume,
			ShortVolume:       shortLeg.Volume,
			Notes:             notes,
		}
		candidate.QualityScore = qualityScore(&candidate)
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].QualityScore > candidates[j].QualityScore
	})

	return candidates
}

// nearestByStrike returns the contract whose strike is closest to target,
// or nil when the slice is empty.
func nearestByStrike(contracts []models.OptionContractData, target decimal.Decimal) *models.OptionContractData {
	var best *models.OptionContractData
	var bestDist decimal.Decimal
	for i := range contracts {
		dist := contracts[i].Strike.Sub(target).Abs()
		if best == nil || dist.LessThan(bestDist) {
			best = &contracts[i]
			bestDist = dist
		}
	}
	return best
}

// qualityScore ranks a spread candidate on a 0-100 scale: risk/reward up
// to 40 points (1:1 scores 16, 2.5:1 maxes out), POP proxy up to 30,
// credit quality (or cost efficiency for debits) up to 20, and an ATM
// preference worth 10 (OTM half, ITM none).
func qualityScore(c *SpreadCandidate) float64 {
	score := 0.0

	rr, _ := c.RiskReward.Float64()
	rrScore := rr * 4
	if rrScore > 10 {
		rrScore = 10
	}
	score += rrScore * 4

	if c.POPProxy != nil {
		pop, _ := c.POPProxy.Float64()
		score += pop / 100 * 30
	}

	if c.IsCredit && c.WidthDollars.IsPositive() {
		creditPct, _ := c.NetPremium.Abs().Div(c.WidthDollars).Mul(hundred).Float64()
		creditScore := creditPct / 5
		if creditScore > 10 {
			creditScore = 10
		}
		score += creditScore * 2
	} else if c.MaxProfit.IsPositive() && c.MaxLoss.IsPositive() {
		costEfficiency, _ := c.MaxProfit.Div(c.MaxLoss).Float64()
		costScore := costEfficiency / 5
		if costScore > 1 {
			costScore = 1
		}
		score += costScore * 20
	}

	switch c.Position {
	case models.ATM:
		score += 10
	case models.OTM:
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}

func positionLabel(pos models.StrikePosition) string {
	switch pos {
	case models.ITM:
		return "ITM"
	case models.ATM:
		return "ATM"
	case models.OTM:
		return "OTM"
	default:
		return string(pos)
	}
}
