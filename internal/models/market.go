package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Timeframe identifies a price bar interval.
type Timeframe string

// Timeframes.
const (
	OneMinute Timeframe = "1m"
	Daily     Timeframe = "1d"
)

// Ticker is a tradeable underlying.
type Ticker struct {
	ID     int64  `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
}

// PriceBar is one OHLCV bar for a ticker.
type PriceBar struct {
	TickerID  int64           `json:"ticker_id"`
	Timeframe Timeframe       `json:"timeframe"`
	Timestamp time.Time       `json:"timestamp"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
}

// ChainSnapshot is one captured option chain for a single expiration.
type ChainSnapshot struct {
	ID         int64                `json:"id"`
	TickerID   int64                `json:"ticker_id"`
	Expiration time.Time            `json:"expiration"`
	DTE        int                  `json:"dte"`
	AsOf       time.Time            `json:"as_of"`
	Contracts  []OptionContractData `json:"contracts"`
}

// IVMetrics is a point-in-time implied volatility reading for a ticker.
type IVMetrics struct {
	TickerID int64            `json:"ticker_id"`
	Term     string           `json:"term"`
	IVRank   *decimal.Decimal `json:"iv_rank,omitempty"`
	IV       *decimal.Decimal `json:"iv,omitempty"`
	AsOf     time.Time        `json:"as_of"`
}
