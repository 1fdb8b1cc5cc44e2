package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "options-advisor/internal/errors"
	"options-advisor/internal/models"
	"options-advisor/internal/recommend"
	"options-advisor/internal/selection"
	"options-advisor/internal/service"
)

type stubData struct {
	data *service.StrikeData
	err  error
}

func (s *stubData) ValidateAndFetch(ctx context.Context, symbol string, targetDTE, dteTolerance int) (*service.StrikeData, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func putChainData() *service.StrikeData {
	rows := []struct {
		strike, mark, delta string
	}{
		{"90", "0.80", "-0.15"},
		{"95", "1.60", "-0.28"},
		{"100", "3.10", "-0.48"},
		{"105", "6.20", "-0.70"},
	}
	oi := int64(800)
	vol := int64(300)
	contracts := make([]models.OptionContractData, 0, len(rows))
	for _, r := range rows {
		mark := decimal.RequireFromString(r.mark)
		delta := decimal.RequireFromString(r.delta)
		contracts = append(contracts, models.OptionContractData{
			Strike:       decimal.RequireFromString(r.strike),
			OptionType:   models.Put,
			Mark:         &mark,
			Delta:        &delta,
			OpenInterest: &oi,
			Volume:       &vol,
		})
	}

	ivRank := decimal.NewFromInt(70)
	return &service.StrikeData{
		Ticker:          &models.Ticker{ID: 1, Symbol: "SPY"},
		UnderlyingPrice: decimal.NewFromInt(100),
		Snapshot: &models.ChainSnapshot{
			ID:         1,
			TickerID:   1,
			Expiration: time.Date(2026, 9, 25, 0, 0, 0, 0, time.UTC),
			DTE:        30,
			AsOf:       time.Date(2026, 8, 26, 14, 0, 0, 0, time.UTC),
			Contracts:  contracts,
		},
		IVRank: &ivRank,
	}
}

func testServer(data DataService) *Server {
	selector := selection.NewSelector(selection.DefaultConfig())
	return New(Config{
		Host:        "127.0.0.1",
		Port:        0,
		Log:         zerolog.Nop(),
		Data:        data,
		Selector:    selector,
		Recommender: recommend.NewRecommender(selector, recommend.DefaultScoringWeights(), zerolog.Nop()),
	})
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(&stubData{data: putChainData()})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "options-advisor", body["service"])
}

func TestStrategyRecommend_RoundTrip(t *testing.T) {
	srv := testServer(&stubData{data: putChainData()})

	rec := postJSON(t, srv, "/api/v1/strategy/recommend", map[string]any{
		"ticker":         "SPY",
		"bias":           "bullish",
		"dte":            30,
		"min_credit_pct": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result recommend.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "SPY", result.UnderlyingSymbol)
	assert.Equal(t, models.VerticalCredit, result.ChosenStrategyFamily)
	require.NotNil(t, result.IVRegime)
	assert.Equal(t, models.IVHigh, *result.IVRegime, "stored IV rank backfills a missing request rank")
	assert.NotEmpty(t, result.Recommendations)
	assert.Equal(t, time.Date(2026, 8, 26, 14, 0, 0, 0, time.UTC), result.DataTimestamp)
}

func TestStrategyRecommend_BadJSON(t *testing.T) {
	srv := testServer(&stubData{data: putChainData()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/strategy/recommend", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON body")
}

func TestStrategyRecommend_Validation(t *testing.T) {
	srv := testServer(&stubData{data: putChainData()})

	tests := []struct {
		name    string
		body    map[string]any
		wantMsg string
	}{
		{"missing ticker", map[string]any{"bias": "bullish", "dte": 30}, "ticker is required"},
		{"bad bias", map[string]any{"ticker": "SPY", "bias": "sideways", "dte": 30}, "bias"},
		{"dte too low", map[string]any{"ticker": "SPY", "bias": "bullish", "dte": 0}, "dte must be between"},
		{"dte too high", map[string]any{"ticker": "SPY", "bias": "bullish", "dte": 400}, "dte must be between"},
		{"iv rank out of range", map[string]any{"ticker": "SPY", "bias": "bullish", "dte": 30, "iv_rank": 150}, "iv_rank"},
		{"bad bias reason", map[string]any{"ticker": "SPY", "bias": "bullish", "dte": 30, "bias_reason": "hunch"}, "bias_reason"},
		{"bad width", map[string]any{"ticker": "SPY", "bias": "bullish", "dte": 30, "max_spread_width": 0}, "max_spread_width"},
		{"negative account", map[string]any{"ticker": "SPY", "bias": "bullish", "dte": 30, "account_size": -1}, "account_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, srv, "/api/v1/strategy/recommend", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestStrategyRecommend_DataErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"unknown ticker", apperrors.Wrap(apperrors.ErrTickerNotFound, "ticker ZZZ not known"), http.StatusNotFound},
		{"no price data", apperrors.Wrap(apperrors.ErrNoPriceData, "no price for SPY"), http.StatusNotFound},
		{"no chain data", apperrors.Wrap(apperrors.ErrNoChainData, "no chain near 30 DTE"), http.StatusNotFound},
		{"storage failure", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testServer(&stubData{err: tt.err})
			rec := postJSON(t, srv, "/api/v1/strategy/recommend", map[string]any{
				"ticker": "SPY", "bias": "bullish", "dte": 30,
			})
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestStrikesRecommend_RoundTrip(t *testing.T) {
	srv := testServer(&stubData{data: putChainData()})

	rec := postJSON(t, srv, "/api/v1/strikes/recommend", map[string]any{
		"ticker":         "SPY",
		"option_type":    "put",
		"bias":           "bullish",
		"dte":            30,
		"min_credit_pct": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body strikesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "SPY", body.Ticker)
	assert.Equal(t, "put", body.OptionType)
	assert.Equal(t, 30, body.DTE)
	assert.Equal(t, 5, body.TargetWidth)
	assert.NotEmpty(t, body.Candidates)
	for _, c := range body.Candidates {
		assert.True(t, c.IsCredit)
	}
}

func TestStrikesRecommend_Validation(t *testing.T) {
	srv := testServer(&stubData{data: putChainData()})

	rec := postJSON(t, srv, "/api/v1/strikes/recommend", map[string]any{
		"ticker": "SPY", "option_type": "straddle", "bias": "bullish", "dte": 30,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTradeCalc_Vertical(t *testing.T) {
	srv := testServer(&stubData{data: putChainData()})

	rec := postJSON(t, srv, "/api/v1/trades/calc", map[string]any{
		"strategy":         "vertical",
		"symbol":           "SPY",
		"underlying_price": 100,
		"option_type":      "put",
		"bias":             "bullish",
		"contracts":        1,
		"long_strike":      95,
		"short_strike":     100,
		"long_premium":     0.80,
		"short_premium":    2.30,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(models.VerticalCredit), body["strategy_type"])
	assert.Equal(t, "-150", body["net_premium"])
	assert.Equal(t, "350", body["max_loss"])
}

func TestTradeCalc_Long(t *testing.T) {
	srv := testServer(&stubData{data: putChainData()})

	rec := postJSON(t, srv, "/api/v1/trades/calc", map[string]any{
		"strategy":         "long",
		"symbol":           "SPY",
		"underlying_price": 100,
		"option_type":      "call",
		"bias":             "bullish",
		"strike":           100,
		"premium":          3.50,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(models.LongCallFamily), body["strategy_type"])
	assert.Equal(t, "350", body["max_loss"])
	assert.NotContains(t, body, "max_profit")
}

func TestTradeCalc_ShapeValidation(t *testing.T) {
	srv := testServer(&stubData{data: putChainData()})

	tests := []struct {
		name string
		body map[string]any
	}{
		{"vertical missing legs", map[string]any{
			"strategy": "vertical", "symbol": "SPY", "underlying_price": 100,
			"option_type": "put", "bias": "bullish",
		}},
		{"long missing strike", map[string]any{
			"strategy": "long", "symbol": "SPY", "underlying_price": 100,
			"option_type": "call", "bias": "bullish",
		}},
		{"unknown strategy", map[string]any{
			"strategy": "condor", "symbol": "SPY", "underlying_price": 100,
			"option_type": "call", "bias": "bullish",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, srv, "/api/v1/trades/calc", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}
