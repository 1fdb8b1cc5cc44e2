package store

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"options-advisor/internal/models"
)

func TestReadChainCSV(t *testing.T) {
	csv := `strike,option_type,bid,ask,mark,delta,implied_vol,volume,open_interest
95,put,1.50,1.70,1.60,-0.28,0.32,300,800
100,put,3.00,3.20,3.10,-0.48,0.30,150,450
105,call,2.40,2.60,2.50,0.45,0.29,,
`

	contracts, err := ReadChainCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, contracts, 3)

	first := contracts[0]
	assert.True(t, first.Strike.Equal(decimal.NewFromInt(95)))
	assert.Equal(t, models.Put, first.OptionType)
	require.NotNil(t, first.Mark)
	assert.True(t, first.Mark.Equal(decimal.RequireFromString("1.60")))
	require.NotNil(t, first.OpenInterest)
	assert.Equal(t, int64(800), *first.OpenInterest)

	last := contracts[2]
	assert.Equal(t, models.Call, last.OptionType)
	assert.Nil(t, last.Volume, "empty columns stay nil")
	assert.Nil(t, last.OpenInterest)
}

func TestReadChainCSV_UnknownOptionType(t *testing.T) {
	csv := `strike,option_type,bid,ask,mark,delta,implied_vol,volume,open_interest
95,put,1.50,1.70,1.60,-0.28,0.32,300,800
100,straddle,3.00,3.20,3.10,-0.48,0.30,150,450
`

	_, err := ReadChainCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestReadChainCSV_Empty(t *testing.T) {
	csv := "strike,option_type,bid,ask,mark,delta,implied_vol,volume,open_interest\n"

	contracts, err := ReadChainCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, contracts)
}
