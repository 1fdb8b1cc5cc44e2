package recommend

import (
	"fmt"

	"options-advisor/internal/models"
)

// ApplyConstraints validates a candidate against trader objectives and
// hard constraints. Checks run in a fixed order and short-circuit on the
// first failure. A check whose candidate field is missing passes: absent
// data cannot be evaluated as a violation.
func ApplyConstraints(rec *StrategyRecommendation, objectives *StrategyObjectives, constraints *StrategyConstraints, family models.StrategyFamily) (bool, []string) {
	if objectives != nil {
		if objectives.MaxRiskPerTrade != nil && rec.MaxLoss.GreaterThan(*objectives.MaxRiskPerTrade) {
			return false, []string{fmt.Sprintf("Max loss $%s exceeds risk limit $%s",
				rec.MaxLoss.StringFixed(2), objectives.MaxRiskPerTrade.StringFixed(2))}
		}
		if objectives.MinPOPPct != nil && rec.POPProxy != nil && rec.POPProxy.LessThan(*objectives.MinPOPPct) {
			return false, []string{fmt.Sprintf("POP %s%% below minimum %s%%",
				rec.POPProxy.StringFixed(1), objectives.MinPOPPct.StringFixed(1))}
		}
		if objectives.MinRiskReward != nil && rec.RiskReward != nil && rec.RiskReward.LessThan(*objectives.MinRiskReward) {
			return false, []string{fmt.Sprintf("Risk:reward %s below minimum %s",
				rec.RiskReward.StringFixed(2), objectives.MinRiskReward.StringFixed(2))}
		}
	}

	if constraints != nil {
		if constraints.MinCreditPct != nil && family == models.VerticalCredit &&
			rec.NetCredit != nil && rec.WidthDollars != nil && rec.WidthDollars.IsPositive() {
			creditPct := rec.NetCredit.Div(*rec.WidthDollars).Mul(hundredPct)
			if creditPct.LessThan(*constraints.MinCreditPct) {
				return false, []string{fmt.Sprintf("Credit %s%% of width below minimum %s%%",
					creditPct.StringFixed(1), constraints.MinCreditPct.StringFixed(1))}
			}
		}
		if constraints.MinOpenInterest != nil && rec.AvgOpenInterest != nil && *rec.AvgOpenInterest < *constraints.MinOpenInterest {
			return false, []string{fmt.Sprintf("Open interest %d below minimum %d",
				*rec.AvgOpenInterest, *constraints.MinOpenInterest)}
		}
		if constraints.MinVolume != nil && rec.AvgVolume != nil && *rec.AvgVolume < *constraints.MinVolume {
			return false, []string{fmt.Sprintf("Volume %d below minimum %d",
				*rec.AvgVolume, *constraints.MinVolume)}
		}
	}

	return true, nil
}
