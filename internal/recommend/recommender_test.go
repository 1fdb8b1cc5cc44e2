package recommend

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"options-advisor/internal/models"
	"options-advisor/internal/selection"
)

func testRecommender() *Recommender {
	selector := selection.NewSelector(selection.DefaultConfig())
	return NewRecommender(selector, DefaultScoringWeights(), zerolog.Nop())
}

func testChain(optionType models.OptionType) []models.OptionContractData {
	rows := []struct {
		strike, mark, delta string
	}{
		{"85", "0.35", "0.08"},
		{"90", "0.80", "0.15"},
		{"95", "1.60", "0.28"},
		{"100", "3.10", "0.48"},
		{"105", "6.20", "0.70"},
	}
	oi := int64(800)
	vol := int64(300)
	contracts := make([]models.OptionContractData, 0, len(rows))
	for _, r := range rows {
		mark, _ := decimal.NewFromString(r.mark)
		delta, _ := decimal.NewFromString(r.delta)
		if optionType == models.Put {
			delta = delta.Neg()
		}
		contracts = append(contracts, models.OptionContractData{
			Strike:       decimal.RequireFromString(r.strike),
			OptionType:   optionType,
			Mark:         &mark,
			Delta:        &delta,
			OpenInterest: &oi,
			Volume:       &vol,
		})
	}
	return contracts
}

func TestRecommend_BullPutCreditPipeline(t *testing.T) {
	r := testRecommender()
	zero := decimal.Zero

	result := r.Recommend(Request{
		Contracts:       testChain(models.Put),
		Symbol:          "SPY",
		UnderlyingPrice: decimal.NewFromInt(100),
		Bias:            models.Bullish,
		DTE:             30,
		IVRank:          decP("70"),
		Constraints:     &StrategyConstraints{MinCreditPct: &zero},
	})

	assert.Equal(t, "SPY", result.UnderlyingSymbol)
	assert.Equal(t, models.VerticalCredit, result.ChosenStrategyFamily)
	require.NotNil(t, result.IVRegime)
	assert.Equal(t, models.IVHigh, *result.IVRegime)
	require.NotEmpty(t, result.Recommendations)
	assert.LessOrEqual(t, len(result.Recommendations), 3)

	for i, rec := range result.Recommendations {
		assert.Equal(t, i+1, rec.Rank)
		assert.Equal(t, models.VerticalCredit, rec.StrategyFamily)
		assert.Equal(t, models.Put, rec.OptionType)
		require.NotNil(t, rec.IsCredit)
		assert.True(t, *rec.IsCredit)
		assert.NotEmpty(t, rec.Reasons)
		if i > 0 {
			assert.GreaterOrEqual(t,
				result.Recommendations[i-1].CompositeScore, rec.CompositeScore)
		}
	}
}

func TestRecommend_LowIVLongCall(t *testing.T) {
	r := testRecommender()

	result := r.Recommend(Request{
		Contracts:       testChain(models.Call),
		Symbol:          "XYZ",
		UnderlyingPrice: decimal.NewFromInt(100),
		Bias:            models.Bullish,
		DTE:             60,
		IVRank:          decP("10"),
	})

	assert.Equal(t, models.LongCallFamily, result.ChosenStrategyFamily)
	require.NotEmpty(t, result.Recommendations)
	for _, rec := range result.Recommendations {
		require.NotNil(t, rec.Strike)
		assert.Nil(t, rec.LongStrike, "single-leg candidates carry no spread fields")
		assert.True(t, rec.MaxLoss.IsPositive())
	}
}

func TestRecommend_RegimeOverrideBeatsIVRank(t *testing.T) {
	r := testRecommender()
	low := models.IVLow

	result := r.Recommend(Request{
		Contracts:       testChain(models.Call),
		Symbol:          "XYZ",
		UnderlyingPrice: decimal.NewFromInt(100),
		Bias:            models.Bullish,
		DTE:             60,
		IVRank:          decP("95"),
		Constraints:     &StrategyConstraints{IVRegimeOverride: &low},
	})

	require.NotNil(t, result.IVRegime)
	assert.Equal(t, models.IVLow, *result.IVRegime)
	assert.Equal(t, models.LongCallFamily, result.ChosenStrategyFamily)
}

func TestRecommend_DTEConversionFlipsType(t *testing.T) {
	r := testRecommender()
	zero := decimal.Zero

	// Low IV + bullish would pick a long call, but 5 DTE in a small
	// account converts to a put credit spread. The put chain must
	// therefore produce the candidates.
	result := r.Recommend(Request{
		Contracts:       testChain(models.Put),
		Symbol:          "XYZ",
		UnderlyingPrice: decimal.NewFromInt(100),
		Bias:            models.Bullish,
		DTE:             5,
		IVRank:          decP("10"),
		Objectives:      &StrategyObjectives{AccountSize: decP("5000")},
		Constraints:     &StrategyConstraints{MinCreditPct: &zero},
	})

	assert.Equal(t, models.VerticalCredit, result.ChosenStrategyFamily)
	require.NotEmpty(t, result.Recommendations)
	assert.Equal(t, models.Put, result.Recommendations[0].OptionType)
	assert.Contains(t, result.Recommendations[0].Reasons[0], "0-7 DTE")
}

func TestRecommend_PositionSizing(t *testing.T) {
	r := testRecommender()
	zero := decimal.Zero

	result := r.Recommend(Request{
		Contracts:       testChain(models.Put),
		Symbol:          "XYZ",
		UnderlyingPrice: decimal.NewFromInt(100),
		Bias:            models.Bullish,
		DTE:             30,
		IVRank:          decP("70"),
		Objectives:      &StrategyObjectives{AccountSize: decP("50000")},
		Constraints:     &StrategyConstraints{MinCreditPct: &zero},
	})

	require.NotEmpty(t, result.Recommendations)
	for _, rec := range result.Recommendations {
		require.NotNil(t, rec.RecommendedContracts)
		assert.GreaterOrEqual(t, *rec.RecommendedContracts, 1)
		require.NotNil(t, rec.PositionSizeDollars)
		expected := rec.MaxLoss.Mul(decimal.NewFromInt(int64(*rec.RecommendedContracts)))
		assert.True(t, rec.PositionSizeDollars.Equal(expected))
	}
}

func TestRecommend_ConstraintRejectionWarning(t *testing.T) {
	r := testRecommender()
	zero := decimal.Zero

	result := r.Recommend(Request{
		Contracts:       testChain(models.Put),
		Symbol:          "XYZ",
		UnderlyingPrice: decimal.NewFromInt(100),
		Bias:            models.Bullish,
		DTE:             30,
		IVRank:          decP("70"),
		Objectives:      &StrategyObjectives{MaxRiskPerTrade: decP("1")},
		Constraints:     &StrategyConstraints{MinCreditPct: &zero},
	})

	assert.Empty(t, result.Recommendations)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "rejected by constraints")
	assert.Contains(t, result.Warnings[len(result.Warnings)-1], "No viable")
}

func TestRecommend_EmptyChainWarning(t *testing.T) {
	r := testRecommender()

	result := r.Recommend(Request{
		Contracts:       nil,
		Symbol:          "XYZ",
		UnderlyingPrice: decimal.NewFromInt(100),
		Bias:            models.Bullish,
		DTE:             30,
	})

	assert.Empty(t, result.Recommendations)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "No viable")
}

func TestRecommend_ConfigEcho(t *testing.T) {
	r := testRecommender()

	result := r.Recommend(Request{
		Contracts:       testChain(models.Put),
		Symbol:          "XYZ",
		UnderlyingPrice: decimal.NewFromInt(100),
		Bias:            models.Bullish,
		DTE:             30,
		IVRank:          decP("70"),
	})

	assert.Equal(t, 50.0, result.ConfigUsed.IVHighThreshold)
	assert.Equal(t, 25.0, result.ConfigUsed.IVLowThreshold)
	assert.Equal(t, 5, result.ConfigUsed.SpreadWidth)
	assert.Equal(t, DefaultScoringWeights(), result.ConfigUsed.ScoringWeights)
}

func TestRecommend_DataTimestampDefaultsToNow(t *testing.T) {
	r := testRecommender()
	before := time.Now().UTC()

	result := r.Recommend(Request{
		Symbol:          "XYZ",
		UnderlyingPrice: decimal.NewFromInt(100),
		Bias:            models.Bullish,
		DTE:             30,
	})

	assert.False(t, result.DataTimestamp.Before(before))

	fixed := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)
	result = r.Recommend(Request{
		Symbol:          "XYZ",
		UnderlyingPrice: decimal.NewFromInt(100),
		Bias:            models.Bullish,
		DTE:             30,
		DataTimestamp:   fixed,
	})
	assert.Equal(t, fixed, result.DataTimestamp)
}
