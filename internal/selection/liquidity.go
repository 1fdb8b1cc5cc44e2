package selection

import (
	"fmt"

	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
)

// LiquidityOverrides optionally replaces the configured liquidity floors
// for a single check. Nil fields fall back to the selector's config.
type LiquidityOverrides struct {
	MinOpenInterest *int64
	MinVolume       *int64
	MinMark         *decimal.Decimal
}

// PassesLiquidityFilter checks a contract against the liquidity floors:
// mark price first, then open interest, then volume. The first failing
// check short-circuits with a single warning. A missing open interest or
// volume passes its check (only an explicit too-low value fails); a missing
// mark always fails, since a contract with no price cannot be traded.
func (s *Selector) PassesLiquidityFilter(contract *models.OptionContractData, overrides LiquidityOverrides) (bool, []string) {
	minOI := s.cfg.MinOpenInterest
	if overrides.MinOpenInterest != nil {
		minOI = *overrides.MinOpenInterest
	}
	minVolume := s.cfg.MinVolume
	if overrides.MinVolume != nil {
		minVolume = *overrides.MinVolume
	}
	minMark := s.cfg.MinMarkPrice
	if overrides.MinMark != nil {
		minMark = *overrides.MinMark
	}

	if contract.Mark == nil || contract.Mark.LessThan(minMark) {
		mark := decimal.Zero
		if contract.Mark != nil {
			mark = *contract.Mark
		}
		return false, []string{fmt.Sprintf("Mark $%s < $%s", mark.StringFixed(2), minMark.String())}
	}

	if contract.OpenInterest != nil && *contract.OpenInterest < minOI {
		return false, []string{fmt.Sprintf("OI %d < %d", *contract.OpenInterest, minOI)}
	}

	if contract.Volume != nil && *contract.Volume < minVolume {
		return false, []string{fmt.Sprintf("Volume %d < %d", *contract.Volume, minVolume)}
	}

	return true, nil
}
