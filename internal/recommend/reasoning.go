package recommend

import (
	"fmt"

	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
)

var (
	rrAttractive  = decimal.NewFromFloat(1.5)
	popHigh       = decimal.NewFromInt(60)
	popModerate   = decimal.NewFromInt(40)
	creditStrong  = decimal.NewFromInt(30)
	oiFootnoteBar = int64(100)
)

// BuildReasoning assembles the ordered per-candidate reasoning list:
// selection rationale, position descriptor, risk:reward and POP
// commentary, credit quality for credit spreads, then liquidity
// footnotes when data is present.
func BuildReasoning(rec *StrategyRecommendation, family models.StrategyFamily, selectionReason string) []string {
	reasons := make([]string, 0, 6)

	if selectionReason != "" {
		reasons = append(reasons, selectionReason)
	}

	reasons = append(reasons, fmt.Sprintf("%s %s at strike %s", positionPhrase(rec.Position), rec.OptionType, strikeLabel(rec)))

	if rec.RiskReward != nil {
		if rec.RiskReward.GreaterThanOrEqual(rrAttractive) {
			reasons = append(reasons, fmt.Sprintf("Attractive risk:reward of %s:1", rec.RiskReward.StringFixed(2)))
		} else {
			reasons = append(reasons, fmt.Sprintf("Risk:reward of %s:1", rec.RiskReward.StringFixed(2)))
		}
	}

	if rec.POPProxy != nil {
		switch {
		case rec.POPProxy.GreaterThanOrEqual(popHigh):
			reasons = append(reasons, fmt.Sprintf("High probability of profit at ~%s%%", rec.POPProxy.StringFixed(0)))
		case rec.POPProxy.GreaterThanOrEqual(popModerate):
			reasons = append(reasons, fmt.Sprintf("Moderate probability of profit at ~%s%%", rec.POPProxy.StringFixed(0)))
		default:
			reasons = append(reasons, fmt.Sprintf("Lower probability (~%s%%) but higher reward profile", rec.POPProxy.StringFixed(0)))
		}
	}

	if family == models.VerticalCredit && rec.NetCredit != nil && rec.WidthDollars != nil && rec.WidthDollars.IsPositive() {
		creditPct := rec.NetCredit.Div(*rec.WidthDollars).Mul(hundredPct)
		if creditPct.GreaterThanOrEqual(creditStrong) {
			reasons = append(reasons, fmt.Sprintf("Strong credit of %s%% of spread width", creditPct.StringFixed(1)))
		} else {
			reasons = append(reasons, fmt.Sprintf("Credit of %s%% of spread width", creditPct.StringFixed(1)))
		}
	}

	if rec.WidthPoints != nil {
		reasons = append(reasons, fmt.Sprintf("%s-point spread width", rec.WidthPoints.StringFixed(0)))
	}
	if rec.AvgOpenInterest != nil && *rec.AvgOpenInterest >= oiFootnoteBar {
		reasons = append(reasons, fmt.Sprintf("Adequate liquidity with %d open interest", *rec.AvgOpenInterest))
	}

	return reasons
}

func positionPhrase(p models.StrikePosition) string {
	switch p {
	case models.ITM:
		return "In-the-money"
	case models.ATM:
		return "At-the-money"
	case models.OTM:
		return "Out-of-the-money"
	default:
		return "Selected"
	}
}

func strikeLabel(rec *StrategyRecommendation) string {
	if rec.Strike != nil {
		return "$" + rec.Strike.StringFixed(2)
	}
	if rec.LongStrike != nil && rec.ShortStrike != nil {
		return fmt.Sprintf("$%s/$%s", rec.LongStrike.StringFixed(2), rec.ShortStrike.StringFixed(2))
	}
	return "n/a"
}
