// Package service retrieves market data from the store and shapes it for
// the recommendation engine.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	apperrors "options-advisor/internal/errors"
	"options-advisor/internal/models"
	"options-advisor/internal/store"
)

// DefaultIVTerm is the IV series used when callers don't specify one.
const DefaultIVTerm = "30d"

// DefaultIVMaxAge bounds how stale an IV reading may be before it is
// treated as missing.
const DefaultIVMaxAge = 24 * time.Hour

// StrikeData is everything a recommendation run needs from storage.
type StrikeData struct {
	Ticker          *models.Ticker
	UnderlyingPrice decimal.Decimal
	Snapshot        *models.ChainSnapshot
	IVRank          *decimal.Decimal
	Warnings        []string
}

// StrikeDataService loads and validates market data for a symbol.
type StrikeDataService struct {
	store store.ChainStore
	log   zerolog.Logger
}

// NewStrikeDataService creates a service over the given store.
func NewStrikeDataService(s store.ChainStore, log zerolog.Logger) *StrikeDataService {
	return &StrikeDataService{store: s, log: log}
}

// ValidateAndFetch resolves the ticker, latest price, the chain snapshot
// nearest the target DTE, and the freshest IV rank. A missing ticker,
// price, or chain is an error; missing IV degrades to a warning since the
// engine can run without a regime.
func (s *StrikeDataService) ValidateAndFetch(ctx context.Context, symbol string, targetDTE, dteTolerance int) (*StrikeData, error) {
	ticker, err := s.store.GetTicker(ctx, symbol)
	if err != nil {
		return nil, apperrors.Wrap(err, "fetching ticker")
	}
	if ticker == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrTickerNotFound, symbol)
	}

	price, err := s.store.LatestClose(ctx, ticker.ID, models.OneMinute)
	if err != nil {
		return nil, apperrors.Wrap(err, "fetching latest price")
	}
	if price == nil {
		// Intraday bars may not exist for thinly tracked symbols.
		price, err = s.store.LatestClose(ctx, ticker.ID, models.Daily)
		if err != nil {
			return nil, apperrors.Wrap(err, "fetching daily price")
		}
	}
	if price == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNoPriceData, symbol)
	}

	snapshot, err := s.store.GetChainByDTE(ctx, ticker.ID, targetDTE, dteTolerance)
	if err != nil {
		return nil, apperrors.Wrap(err, "fetching option chain")
	}
	if snapshot == nil || len(snapshot.Contracts) == 0 {
		return nil, fmt.Errorf("%w: %s with DTE %d (±%d)", apperrors.ErrNoChainData, symbol, targetDTE, dteTolerance)
	}

	data := &StrikeData{
		Ticker:          ticker,
		UnderlyingPrice: *price,
		Snapshot:        snapshot,
	}

	ivMetrics, err := s.store.LatestIVMetrics(ctx, ticker.ID, DefaultIVTerm, DefaultIVMaxAge)
	if err != nil {
		return nil, apperrors.Wrap(err, "fetching iv metrics")
	}
	if ivMetrics == nil || ivMetrics.IVRank == nil {
		data.Warnings = append(data.Warnings, fmt.Sprintf("IV rank unavailable for %s; regime-based selection degraded", symbol))
		s.log.Warn().Str("symbol", symbol).Msg("no fresh IV metrics")
	} else {
		data.IVRank = ivMetrics.IVRank
	}

	return data, nil
}
