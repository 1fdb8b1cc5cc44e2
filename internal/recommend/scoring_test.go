package recommend

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"options-advisor/internal/models"
)

func i64P(v int64) *int64 { return &v }

func creditCandidate() StrategyRecommendation {
	return StrategyRecommendation{
		StrategyFamily:  models.VerticalCredit,
		OptionType:      models.Put,
		Position:        models.ATM,
		NetCredit:       decP("150"),
		WidthDollars:    decP("500"),
		MaxProfit:       decP("150"),
		MaxLoss:         decimal.NewFromInt(350),
		RiskReward:      decP("0.43"),
		POPProxy:        decP("85"),
		AvgOpenInterest: i64P(600),
		AvgVolume:       i64P(200),
	}
}

func TestCompositeScore_Bounds(t *testing.T) {
	rec := creditCandidate()
	score := CompositeScore(&rec, DefaultScoringWeights(), models.VerticalCredit)
	assert.Greater(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
}

func TestCompositeScore_MissingFieldsContributeNothing(t *testing.T) {
	rec := StrategyRecommendation{
		StrategyFamily: models.VerticalCredit,
		Position:       models.ITM,
		MaxLoss:        decimal.NewFromInt(100),
	}
	score := CompositeScore(&rec, DefaultScoringWeights(), models.VerticalCredit)
	assert.Zero(t, score)
}

func TestCompositeScore_PositionPreference(t *testing.T) {
	weights := DefaultScoringWeights()

	atm := creditCandidate()
	otm := creditCandidate()
	otm.Position = models.OTM
	itm := creditCandidate()
	itm.Position = models.ITM

	atmScore := CompositeScore(&atm, weights, models.VerticalCredit)
	otmScore := CompositeScore(&otm, weights, models.VerticalCredit)
	itmScore := CompositeScore(&itm, weights, models.VerticalCredit)

	assert.Greater(t, atmScore, otmScore)
	assert.Greater(t, otmScore, itmScore)
}

func TestCompositeScore_CreditQualitySaturates(t *testing.T) {
	weights := DefaultScoringWeights()

	half := creditCandidate()
	half.NetCredit = decP("250") // 50% of width, the ceiling

	beyond := creditCandidate()
	beyond.NetCredit = decP("400") // 80% of width

	assert.Equal(t,
		CompositeScore(&half, weights, models.VerticalCredit),
		CompositeScore(&beyond, weights, models.VerticalCredit))
}

func TestCompositeScore_DebitUsesCostEfficiency(t *testing.T) {
	weights := ScoringWeights{Credit: 1.0}

	rec := StrategyRecommendation{
		StrategyFamily: models.VerticalDebit,
		Position:       models.ITM,
		MaxProfit:      decP("300"),
		MaxLoss:        decimal.NewFromInt(200),
	}
	// 1.5x payout against a 5x ceiling.
	score := CompositeScore(&rec, weights, models.VerticalDebit)
	assert.InDelta(t, 30.0, score, 0.01)
}

func TestApplyConstraints(t *testing.T) {
	t.Run("nil objectives and constraints pass", func(t *testing.T) {
		rec := creditCandidate()
		ok, reasons := ApplyConstraints(&rec, nil, nil, models.VerticalCredit)
		assert.True(t, ok)
		assert.Empty(t, reasons)
	})

	t.Run("max risk violation", func(t *testing.T) {
		rec := creditCandidate()
		ok, reasons := ApplyConstraints(&rec, &StrategyObjectives{MaxRiskPerTrade: decP("300")}, nil, models.VerticalCredit)
		assert.False(t, ok)
		require.Len(t, reasons, 1)
		assert.Contains(t, reasons[0], "risk limit")
	})

	t.Run("min POP violation", func(t *testing.T) {
		rec := creditCandidate()
		ok, reasons := ApplyConstraints(&rec, &StrategyObjectives{MinPOPPct: decP("90")}, nil, models.VerticalCredit)
		assert.False(t, ok)
		require.Len(t, reasons, 1)
		assert.Contains(t, reasons[0], "POP")
	})

	t.Run("missing POP passes the POP check", func(t *testing.T) {
		rec := creditCandidate()
		rec.POPProxy = nil
		ok, _ := ApplyConstraints(&rec, &StrategyObjectives{MinPOPPct: decP("90")}, nil, models.VerticalCredit)
		assert.True(t, ok)
	})

	t.Run("min risk reward violation", func(t *testing.T) {
		rec := creditCandidate()
		ok, reasons := ApplyConstraints(&rec, &StrategyObjectives{MinRiskReward: decP("1.0")}, nil, models.VerticalCredit)
		assert.False(t, ok)
		require.Len(t, reasons, 1)
		assert.Contains(t, reasons[0], "Risk:reward")
	})

	t.Run("min credit pct only binds credit spreads", func(t *testing.T) {
		rec := creditCandidate()
		constraints := &StrategyConstraints{MinCreditPct: decP("40")}

		ok, _ := ApplyConstraints(&rec, nil, constraints, models.VerticalCredit)
		assert.False(t, ok, "30 percent credit fails a 40 percent floor")

		ok, _ = ApplyConstraints(&rec, nil, constraints, models.VerticalDebit)
		assert.True(t, ok, "debit families skip the credit floor")
	})

	t.Run("open interest floor", func(t *testing.T) {
		rec := creditCandidate()
		ok, reasons := ApplyConstraints(&rec, nil, &StrategyConstraints{MinOpenInterest: i64P(1000)}, models.VerticalCredit)
		assert.False(t, ok)
		require.Len(t, reasons, 1)
		assert.Contains(t, reasons[0], "Open interest")
	})

	t.Run("volume floor", func(t *testing.T) {
		rec := creditCandidate()
		ok, _ := ApplyConstraints(&rec, nil, &StrategyConstraints{MinVolume: i64P(500)}, models.VerticalCredit)
		assert.False(t, ok)
	})

	t.Run("risk check short-circuits before POP", func(t *testing.T) {
		rec := creditCandidate()
		objectives := &StrategyObjectives{MaxRiskPerTrade: decP("300"), MinPOPPct: decP("90")}
		ok, reasons := ApplyConstraints(&rec, objectives, nil, models.VerticalCredit)
		assert.False(t, ok)
		require.Len(t, reasons, 1)
		assert.Contains(t, reasons[0], "risk limit")
	})
}
