// Package store provides data persistence implementations.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
)

// ChainStore is the persistence interface the advisor reads market data
// from and importers write into.
type ChainStore interface {
	UpsertTicker(ctx context.Context, symbol, name string) (int64, error)
	GetTicker(ctx context.Context, symbol string) (*models.Ticker, error)
	ListTickers(ctx context.Context) ([]models.Ticker, error)

	SavePriceBars(ctx context.Context, bars []models.PriceBar) error
	LatestClose(ctx context.Context, tickerID int64, timeframe models.Timeframe) (*decimal.Decimal, error)

	SaveChainSnapshot(ctx context.Context, snapshot *models.ChainSnapshot) (int64, error)
	GetChainByDTE(ctx context.Context, tickerID int64, targetDTE, tolerance int) (*models.ChainSnapshot, error)

	SaveIVMetrics(ctx context.Context, m *models.IVMetrics) error
	LatestIVMetrics(ctx context.Context, tickerID int64, term string, maxAge time.Duration) (*models.IVMetrics, error)

	Close() error
}
