package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "options-advisor/internal/errors"
	"options-advisor/internal/models"
)

type fakeStore struct {
	ticker        *models.Ticker
	minuteClose   *decimal.Decimal
	dailyClose    *decimal.Decimal
	snapshot      *models.ChainSnapshot
	ivMetrics     *models.IVMetrics
	minuteQueried bool
	dailyQueried  bool
}

func (f *fakeStore) UpsertTicker(ctx context.Context, symbol, name string) (int64, error) {
	return 0, nil
}

func (f *fakeStore) GetTicker(ctx context.Context, symbol string) (*models.Ticker, error) {
	return f.ticker, nil
}

func (f *fakeStore) ListTickers(ctx context.Context) ([]models.Ticker, error) {
	return nil, nil
}

func (f *fakeStore) SavePriceBars(ctx context.Context, bars []models.PriceBar) error {
	return nil
}

func (f *fakeStore) LatestClose(ctx context.Context, tickerID int64, timeframe models.Timeframe) (*decimal.Decimal, error) {
	if timeframe == models.OneMinute {
		f.minuteQueried = true
		return f.minuteClose, nil
	}
	f.dailyQueried = true
	return f.dailyClose, nil
}

func (f *fakeStore) SaveChainSnapshot(ctx context.Context, snapshot *models.ChainSnapshot) (int64, error) {
	return 0, nil
}

func (f *fakeStore) GetChainByDTE(ctx context.Context, tickerID int64, targetDTE, tolerance int) (*models.ChainSnapshot, error) {
	return f.snapshot, nil
}

func (f *fakeStore) SaveIVMetrics(ctx context.Context, m *models.IVMetrics) error {
	return nil
}

func (f *fakeStore) LatestIVMetrics(ctx context.Context, tickerID int64, term string, maxAge time.Duration) (*models.IVMetrics, error) {
	return f.ivMetrics, nil
}

func (f *fakeStore) Close() error { return nil }

func populatedStore() *fakeStore {
	mark := decimal.NewFromFloat(2.5)
	price := decimal.NewFromInt(100)
	ivRank := decimal.NewFromInt(60)
	return &fakeStore{
		ticker:      &models.Ticker{ID: 1, Symbol: "SPY"},
		minuteClose: &price,
		snapshot: &models.ChainSnapshot{
			ID:       1,
			TickerID: 1,
			DTE:      30,
			AsOf:     time.Now().UTC(),
			Contracts: []models.OptionContractData{
				{Strike: decimal.NewFromInt(100), OptionType: models.Put, Mark: &mark},
			},
		},
		ivMetrics: &models.IVMetrics{TickerID: 1, Term: DefaultIVTerm, IVRank: &ivRank},
	}
}

func TestValidateAndFetch_Success(t *testing.T) {
	store := populatedStore()
	svc := NewStrikeDataService(store, zerolog.Nop())

	data, err := svc.ValidateAndFetch(context.Background(), "SPY", 30, 3)
	require.NoError(t, err)
	assert.Equal(t, "SPY", data.Ticker.Symbol)
	assert.True(t, data.UnderlyingPrice.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, data.IVRank)
	assert.True(t, data.IVRank.Equal(decimal.NewFromInt(60)))
	assert.Empty(t, data.Warnings)
	assert.False(t, store.dailyQueried, "intraday close short-circuits the daily lookup")
}

func TestValidateAndFetch_DailyFallback(t *testing.T) {
	store := populatedStore()
	daily := decimal.NewFromInt(99)
	store.minuteClose = nil
	store.dailyClose = &daily
	svc := NewStrikeDataService(store, zerolog.Nop())

	data, err := svc.ValidateAndFetch(context.Background(), "SPY", 30, 3)
	require.NoError(t, err)
	assert.True(t, store.minuteQueried)
	assert.True(t, store.dailyQueried)
	assert.True(t, data.UnderlyingPrice.Equal(daily))
}

func TestValidateAndFetch_UnknownTicker(t *testing.T) {
	store := populatedStore()
	store.ticker = nil
	svc := NewStrikeDataService(store, zerolog.Nop())

	_, err := svc.ValidateAndFetch(context.Background(), "ZZZ", 30, 3)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrTickerNotFound))
	assert.Contains(t, err.Error(), "ZZZ")
}

func TestValidateAndFetch_NoPriceData(t *testing.T) {
	store := populatedStore()
	store.minuteClose = nil
	store.dailyClose = nil
	svc := NewStrikeDataService(store, zerolog.Nop())

	_, err := svc.ValidateAndFetch(context.Background(), "SPY", 30, 3)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNoPriceData))
}

func TestValidateAndFetch_NoChain(t *testing.T) {
	store := populatedStore()
	store.snapshot = nil
	svc := NewStrikeDataService(store, zerolog.Nop())

	_, err := svc.ValidateAndFetch(context.Background(), "SPY", 30, 3)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNoChainData))
	assert.Contains(t, err.Error(), "30")
}

func TestValidateAndFetch_EmptyChainIsNoChain(t *testing.T) {
	store := populatedStore()
	store.snapshot.Contracts = nil
	svc := NewStrikeDataService(store, zerolog.Nop())

	_, err := svc.ValidateAndFetch(context.Background(), "SPY", 30, 3)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNoChainData))
}

func TestValidateAndFetch_MissingIVDegradesToWarning(t *testing.T) {
	store := populatedStore()
	store.ivMetrics = nil
	svc := NewStrikeDataService(store, zerolog.Nop())

	data, err := svc.ValidateAndFetch(context.Background(), "SPY", 30, 3)
	require.NoError(t, err)
	assert.Nil(t, data.IVRank)
	require.Len(t, data.Warnings, 1)
	assert.Contains(t, data.Warnings[0], "IV rank unavailable")
}
