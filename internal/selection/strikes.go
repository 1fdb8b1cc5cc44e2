package selection

import (
	"sort"

	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
)

// ClassifyStrikePosition classifies a strike as ITM, ATM, or OTM relative
// to the underlying. A strike within atmThreshold percent of spot (nil uses
// the configured default) is ATM regardless of option type; otherwise call
// strikes below spot are ITM and above are OTM, with puts mirrored.
func (s *Selector) ClassifyStrikePosition(
	strike, underlyingPrice decimal.Decimal,
	optionType models.OptionType,
	atmThreshold *decimal.Decimal,
) models.StrikePosition {
	threshold := s.cfg.ATMThresholdPct
	if atmThreshold != nil {
		threshold = *atmThreshold
	}

	pctDiff := strike.Sub(underlyingPrice).Div(underlyingPrice).Abs().Mul(hundred)
	if pctDiff.LessThanOrEqual(threshold) {
		return models.ATM
	}

	if optionType == models.Call {
		if strike.LessThan(underlyingPrice) {
			return models.ITM
		}
		return models.OTM
	}
	if strike.GreaterThan(underlyingPrice) {
		return models.ITM
	}
	return models.OTM
}

// FindNearestStrikes finds the contract nearest to spot for each requested
// position. ATM is the minimum absolute distance to spot; ITM is the
// least-ITM strike among those strictly favorable to the holder; OTM is
// the least-OTM strike among those strictly unfavorable. Positions with no
// qualifying contract map to nil.
func (s *Selector) FindNearestStrikes(
	contracts []models.OptionContractData,
	underlyingPrice decimal.Decimal,
	optionType models.OptionType,
	positions []models.StrikePosition,
) map[models.StrikePosition]*models.OptionContractData {
	result := make(map[models.StrikePosition]*models.OptionContractData, len(positions))
	for _, pos := range positions {
		result[pos] = nil
	}

	filtered := make([]models.OptionContractData, 0, len(contracts))
	for _, c := range contracts {
		if c.OptionType == optionType {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return result
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Strike.LessThan(filtered[j].Strike)
	})

	for _, pos := range positions {
		switch pos {
		case models.ATM:
			best := 0
			bestDist := filtered[0].Strike.Sub(underlyingPrice).Abs()
			for i := 1; i < len(filtered); i++ {
				dist := filtered[i].Strike.Sub(underlyingPrice).Abs()
				if dist.LessThan(bestDist) {
					best, bestDist = i, dist
				}
			}
			result[models.ATM] = &filtered[best]

		case models.ITM:
			// Sorted ascending: for calls the least-ITM strike is the
			// highest strike below spot; for puts the lowest above spot.
			if optionType == models.Call {
				for i := len(filtered) - 1; i >= 0; i-- {
					if filtered[i].Strike.LessThan(underlyingPrice) {
						result[models.ITM] = &filtered[i]
						break
					}
				}
			} else {
				for i := range filtered {
					if filtered[i].Strike.GreaterThan(underlyingPrice) {
						result[models.ITM] = &filtered[i]
						break
					}
				}
			}

		case models.OTM:
			if optionType == models.Call {
				for i := range filtered {
					if filtered[i].Strike.GreaterThan(underlyingPrice) {
						result[models.OTM] = &filtered[i]
						break
					}
				}
			} else {
				for i := len(filtered) - 1; i >= 0; i-- {
					if filtered[i].Strike.LessThan(underlyingPrice) {
						result[models.OTM] = &filtered[i]
						break
					}
				}
			}
		}
	}

	return result
}
