package selection

import (
	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
)

// DetermineIVRegime classifies the IV environment from IV rank (0-100).
// Returns nil when no IV rank is available. Boundaries are inclusive toward
// neutral: a rank exactly at the high threshold is NEUTRAL, and a rank
// exactly at the low threshold is NEUTRAL.
func (s *Selector) DetermineIVRegime(ivRank *decimal.Decimal) *models.IVRegime {
	if ivRank == nil {
		return nil
	}

	var regime models.IVRegime
	switch {
	case ivRank.GreaterThan(s.cfg.IVHighThreshold):
		regime = models.IVHigh
	case ivRank.GreaterThanOrEqual(s.cfg.IVLowThreshold):
		regime = models.IVNeutral
	default:
		regime = models.IVLow
	}
	return &regime
}

// SpreadWidthForPrice returns the appropriate spread width in strike points
// for the given underlying price. maxWidth, when non-nil, caps the low and
// high price tiers; the mid tier is fixed.
//
//	< $100:    up to WidthLowPriceMax
//	$100-300:  WidthMidPrice
//	> $300:    up to WidthHighPriceMax
func (s *Selector) SpreadWidthForPrice(underlyingPrice decimal.Decimal, maxWidth *int) int {
	switch {
	case underlyingPrice.LessThan(decimal.NewFromInt(100)):
		width := s.cfg.WidthLowPriceMax
		if maxWidth != nil && *maxWidth < width {
			return *maxWidth
		}
		return width
	case underlyingPrice.LessThan(decimal.NewFromInt(300)):
		return s.cfg.WidthMidPrice
	default:
		width := s.cfg.WidthHighPriceMax
		if maxWidth != nil && *maxWidth < width {
			return *maxWidth
		}
		return width
	}
}
