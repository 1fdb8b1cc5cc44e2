package planner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"options-advisor/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decP(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestCalculateVerticalSpread_BullPutCredit(t *testing.T) {
	plan := CalculateVerticalSpread(VerticalSpreadInput{
		Symbol:          "SPY",
		UnderlyingPrice: dec("100"),
		LongStrike:      dec("95"),
		ShortStrike:     dec("100"),
		LongPremium:     dec("0.80"),
		ShortPremium:    dec("2.30"),
		OptionType:      models.Put,
		Bias:            models.Bullish,
		Contracts:       1,
		LongDelta:       decP("-0.20"),
		ShortDelta:      decP("-0.35"),
	})

	assert.Equal(t, models.VerticalCredit, plan.StrategyType)
	assert.True(t, plan.NetPremium.Equal(dec("-150")))
	require.NotNil(t, plan.NetCredit)
	assert.True(t, plan.NetCredit.Equal(dec("150")))
	require.NotNil(t, plan.MaxProfit)
	assert.True(t, plan.MaxProfit.Equal(dec("150")))
	assert.True(t, plan.MaxLoss.Equal(dec("350")))
	require.Len(t, plan.BreakevenPrices, 1)
	assert.True(t, plan.BreakevenPrices[0].Equal(dec("98.5")))

	// Credit win probability: (1 - |net delta|) x 100.
	require.NotNil(t, plan.WinProbability)
	assert.True(t, plan.WinProbability.Equal(dec("85")))
	require.NotNil(t, plan.TotalDelta)
	assert.True(t, plan.TotalDelta.Equal(dec("0.15")))

	require.Len(t, plan.Legs, 2)
	assert.Equal(t, "long", plan.Legs[0].Position)
	assert.Equal(t, "short", plan.Legs[1].Position)
	assert.Equal(t, false, plan.Assumptions["is_debit_spread"])
}

func TestCalculateVerticalSpread_BullCallDebit(t *testing.T) {
	plan := CalculateVerticalSpread(VerticalSpreadInput{
		Symbol:          "SPY",
		UnderlyingPrice: dec("100"),
		LongStrike:      dec("100"),
		ShortStrike:     dec("105"),
		LongPremium:     dec("3.50"),
		ShortPremium:    dec("1.50"),
		OptionType:      models.Call,
		Bias:            models.Bullish,
		Contracts:       1,
		LongDelta:       decP("0.55"),
		ShortDelta:      decP("0.30"),
	})

	assert.Equal(t, models.VerticalDebit, plan.StrategyType)
	assert.True(t, plan.NetPremium.Equal(dec("200")))
	assert.Nil(t, plan.NetCredit)
	assert.True(t, plan.MaxLoss.Equal(dec("200")))
	require.NotNil(t, plan.MaxProfit)
	assert.True(t, plan.MaxProfit.Equal(dec("300")))
	assert.True(t, plan.BreakevenPrices[0].Equal(dec("102")))
	require.NotNil(t, plan.RiskReward)
	assert.True(t, plan.RiskReward.Equal(dec("1.5")))

	// Debit win probability: |net delta| x 100.
	require.NotNil(t, plan.WinProbability)
	assert.True(t, plan.WinProbability.Equal(dec("25")))
}

func TestCalculateVerticalSpread_ContractsScale(t *testing.T) {
	plan := CalculateVerticalSpread(VerticalSpreadInput{
		Symbol:          "SPY",
		UnderlyingPrice: dec("100"),
		LongStrike:      dec("95"),
		ShortStrike:     dec("100"),
		LongPremium:     dec("0.80"),
		ShortPremium:    dec("2.30"),
		OptionType:      models.Put,
		Bias:            models.Bullish,
		Contracts:       3,
	})

	assert.True(t, plan.NetPremium.Equal(dec("-450")))
	assert.True(t, plan.MaxLoss.Equal(dec("1050")))
	assert.True(t, plan.BreakevenPrices[0].Equal(dec("98.5")), "breakeven is per share, independent of contracts")
	assert.Equal(t, 350.0, plan.Assumptions["max_loss_per_contract"])
}

func TestCalculateVerticalSpread_MissingDeltas(t *testing.T) {
	plan := CalculateVerticalSpread(VerticalSpreadInput{
		Symbol:       "SPY",
		LongStrike:   dec("95"),
		ShortStrike:  dec("100"),
		LongPremium:  dec("0.80"),
		ShortPremium: dec("2.30"),
		OptionType:   models.Put,
		Bias:         models.Bullish,
		Contracts:    1,
	})

	assert.Nil(t, plan.WinProbability)
	assert.Nil(t, plan.TotalDelta)
}

func TestCalculateVerticalSpread_ZeroContractsDefaultsToOne(t *testing.T) {
	plan := CalculateVerticalSpread(VerticalSpreadInput{
		Symbol:       "SPY",
		LongStrike:   dec("95"),
		ShortStrike:  dec("100"),
		LongPremium:  dec("0.80"),
		ShortPremium: dec("2.30"),
		OptionType:   models.Put,
		Bias:         models.Bullish,
		Contracts:    0,
	})

	assert.Equal(t, 1, plan.Legs[0].Contracts)
	assert.True(t, plan.NetPremium.Equal(dec("-150")))
}

func TestCalculateVerticalSpread_AccountSizing(t *testing.T) {
	plan := CalculateVerticalSpread(VerticalSpreadInput{
		Symbol:       "SPY",
		LongStrike:   dec("95"),
		ShortStrike:  dec("100"),
		LongPremium:  dec("0.80"),
		ShortPremium: dec("2.30"),
		OptionType:   models.Put,
		Bias:         models.Bullish,
		Contracts:    1,
		AccountSize:  decP("50000"),
	})

	// 2% of 50k is $1000; $350 max loss per contract fits twice.
	assert.Equal(t, 2, plan.RecommendedContracts)
	assert.True(t, plan.PositionSizeDollars.Equal(dec("700")))
}

func TestCalculateLongOption(t *testing.T) {
	t.Run("long call", func(t *testing.T) {
		plan := CalculateLongOption(LongOptionInput{
			Symbol:          "SPY",
			UnderlyingPrice: dec("100"),
			Strike:          dec("100"),
			Premium:         dec("3.50"),
			OptionType:      models.Call,
			Bias:            models.Bullish,
			Contracts:       1,
			Delta:           decP("0.52"),
		})

		assert.Equal(t, models.LongCallFamily, plan.StrategyType)
		assert.Nil(t, plan.MaxProfit, "call upside is unbounded")
		assert.Nil(t, plan.RiskReward)
		assert.True(t, plan.MaxLoss.Equal(dec("350")))
		assert.True(t, plan.BreakevenPrices[0].Equal(dec("103.5")))
		require.NotNil(t, plan.WinProbability)
		assert.True(t, plan.WinProbability.Equal(dec("52")))
	})

	t.Run("long put", func(t *testing.T) {
		plan := CalculateLongOption(LongOptionInput{
			Symbol:          "SPY",
			UnderlyingPrice: dec("100"),
			Strike:          dec("100"),
			Premium:         dec("2.50"),
			OptionType:      models.Put,
			Bias:            models.Bearish,
			Contracts:       2,
			Delta:           decP("-0.45"),
		})

		assert.Equal(t, models.LongPutFamily, plan.StrategyType)
		require.NotNil(t, plan.MaxProfit)
		assert.True(t, plan.MaxProfit.Equal(dec("19500")))
		assert.True(t, plan.MaxLoss.Equal(dec("500")))
		assert.True(t, plan.BreakevenPrices[0].Equal(dec("97.5")))
		require.NotNil(t, plan.TotalDelta)
		assert.True(t, plan.TotalDelta.Equal(dec("-0.9")))
		require.NotNil(t, plan.WinProbability)
		assert.True(t, plan.WinProbability.Equal(dec("45")))
	})
}

func TestCalculatePositionSize(t *testing.T) {
	tests := []struct {
		name     string
		maxLoss  string
		account  string
		riskPct  string
		expected int
	}{
		{"exact fit", "200", "10000", "2", 1},
		{"multiple contracts", "100", "50000", "2", 10},
		{"floors fractional contracts", "300", "50000", "2", 3},
		{"unaffordable trade sizes to zero", "1500", "10000", "2", 0},
		{"zero max loss sizes to zero", "0", "10000", "2", 0},
		{"negative max loss sizes to zero", "-50", "10000", "2", 0},
		{"higher risk pct buys more", "200", "10000", "10", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePositionSize(dec(tt.maxLoss), dec(tt.account), dec(tt.riskPct))
			assert.Equal(t, tt.expected, got)
		})
	}
}
