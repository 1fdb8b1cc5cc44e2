package selection

import (
	"fmt"

	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
)

// LongOptionCandidate is a candidate single-leg long option. MaxProfit is
// nil for calls (unbounded upside). Same request-scoped lifecycle as
// SpreadCandidate.
type LongOptionCandidate struct {
	Position  models.StrikePosition `json:"position"`
	Strike    decimal.Decimal       `json:"strike"`
	Premium   decimal.Decimal       `json:"premium"`
	Breakeven decimal.Decimal       `json:"breakeven"`
	MaxLoss   decimal.Decimal       `json:"max_loss"`
	MaxProfit *decimal.Decimal      `json:"max_profit,omitempty"`
	Delta     *decimal.Decimal      `json:"delta,omitempty"`
	POPProxy  *decimal.Decimal      `json:"pop_proxy,omitempty"`
	Notes     []string              `json:"notes"`
}

// RecommendLongOptions builds long option candidates at the ITM, ATM, and
// OTM anchor strikes. POP is |delta| x 100 when the contract carries a
// delta. Positions with no contract or no mark are omitted.
func (s *Selector) RecommendLongOptions(
	contracts []models.OptionContractData,
	underlyingPrice decimal.Decimal,
	optionType models.OptionType,
) []LongOptionCandidate {
	positions := []models.StrikePosition{models.ITM, models.ATM, models.OTM}
	strikeMap := s.FindNearestStrikes(contracts, underlyingPrice, optionType, positions)

	var candidates []LongOptionCandidate
	for _, position := range positions {
		contract := strikeMap[position]
		if contract == nil || contract.Mark == nil {
			continue
		}

		m := CalculateLongOptionMetrics(contract.Strike, *contract.Mark, optionType, 1)

		var pop *decimal.Decimal
		if contract.Delta != nil && !contract.Delta.IsZero() {
			p := contract.Delta.Abs().Mul(hundred)
			pop = &p
		}

		notes := []string{fmt.Sprintf("%s %s", positionLabel(position), optionType)}
		if pop != nil {
			notes = append(notes, fmt.Sprintf("~%s%% POP", pop.StringFixed(0)))
		}

		candidates = append(candidates, LongOptionCandidate{
			Position:  position,
			Strike:    contract.Strike,
			Premium:   *contract.Mark,
			Breakeven: m.Breakeven,
			MaxLoss:   m.MaxLoss,
			MaxProfit: m.MaxProfit,
			Delta:     contract.Delta,
			POPProxy:  pop,
			Notes:     notes,
		})
	}

	return candidates
}
