package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"options-advisor/internal/models"
	"options-advisor/internal/planner"
)

// addCalcCommands adds the trade calculator commands.
func addCalcCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Trade calculators",
		Long:  "Risk/reward and position sizing calculators for explicit legs.",
	}

	cmd.AddCommand(newCalcSpreadCmd(app))
	cmd.AddCommand(newCalcLongCmd(app))
	cmd.AddCommand(newCalcSizeCmd(app))

	rootCmd.AddCommand(cmd)
}

func newCalcSpreadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spread <symbol>",
		Short: "Calculate vertical spread risk/reward",
		Example: `  advisor calc spread SPY --price 580 --long-strike 570 --short-strike 575 \
      --long-premium 2.10 --short-premium 3.45 --type put --bias bullish`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			optType, bias, err := parseTypeAndBias(cmd)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			in := planner.VerticalSpreadInput{
				Symbol:          args[0],
				UnderlyingPrice: decimalFlag(cmd, "price"),
				LongStrike:      decimalFlag(cmd, "long-strike"),
				ShortStrike:     decimalFlag(cmd, "short-strike"),
				LongPremium:     decimalFlag(cmd, "long-premium"),
				ShortPremium:    decimalFlag(cmd, "short-premium"),
				OptionType:      optType,
				Bias:            bias,
				LongDelta:       decimalFlagPtr(cmd, "long-delta"),
				ShortDelta:      decimalFlagPtr(cmd, "short-delta"),
				AccountSize:     decimalFlagPtr(cmd, "account-size"),
			}
			in.Contracts, _ = cmd.Flags().GetInt("contracts")
			if v, _ := cmd.Flags().GetInt("dte"); v > 0 {
				in.DTE = &v
			}

			if !in.UnderlyingPrice.IsPositive() {
				output.Error("--price must be positive")
				return fmt.Errorf("invalid price")
			}

			plan := planner.CalculateVerticalSpread(in)

			if output.IsJSON() {
				return output.JSON(plan)
			}
			displayPlan(output, &plan)
			return nil
		},
	}

	cmd.Flags().Float64("price", 0, "Underlying price")
	cmd.Flags().Float64("long-strike", 0, "Strike of the long leg")
	cmd.Flags().Float64("short-strike", 0, "Strike of the short leg")
	cmd.Flags().Float64("long-premium", 0, "Premium of the long leg")
	cmd.Flags().Float64("short-premium", 0, "Premium of the short leg")
	cmd.Flags().String("type", "put", "Option type: call or put")
	cmd.Flags().String("bias", "neutral", "Directional bias")
	cmd.Flags().Int("contracts", 1, "Number of contracts")
	cmd.Flags().Int("dte", 0, "Days to expiration")
	cmd.Flags().Float64("long-delta", 0, "Delta of the long leg")
	cmd.Flags().Float64("short-delta", 0, "Delta of the short leg")
	cmd.Flags().Float64("account-size", 0, "Account size for position sizing")

	return cmd
}

func newCalcLongCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "long <symbol>",
		Short:   "Calculate long option risk/reward",
		Example: `  advisor calc long AAPL --price 230 --strike 235 --premium 4.20 --type call --bias bullish`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			optType, bias, err := parseTypeAndBias(cmd)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			in := planner.LongOptionInput{
				Symbol:          args[0],
				UnderlyingPrice: decimalFlag(cmd, "price"),
				Strike:          decimalFlag(cmd, "strike"),
				Premium:         decimalFlag(cmd, "premium"),
				OptionType:      optType,
				Bias:            bias,
				Delta:           decimalFlagPtr(cmd, "delta"),
				AccountSize:     decimalFlagPtr(cmd, "account-size"),
			}
			in.Contracts, _ = cmd.Flags().GetInt("contracts")
			if v, _ := cmd.Flags().GetInt("dte"); v > 0 {
				in.DTE = &v
			}

			if !in.UnderlyingPrice.IsPositive() {
				output.Error("--price must be positive")
				return fmt.Errorf("invalid price")
			}

			plan := planner.CalculateLongOption(in)

			if output.IsJSON() {
				return output.JSON(plan)
			}
			displayPlan(output, &plan)
			return nil
		},
	}

	cmd.Flags().Float64("price", 0, "Underlying price")
	cmd.Flags().Float64("strike", 0, "Strike price")
	cmd.Flags().Float64("premium", 0, "Premium paid")
	cmd.Flags().String("type", "call", "Option type: call or put")
	cmd.Flags().String("bias", "neutral", "Directional bias")
	cmd.Flags().Int("contracts", 1, "Number of contracts")
	cmd.Flags().Int("dte", 0, "Days to expiration")
	cmd.Flags().Float64("delta", 0, "Option delta")
	cmd.Flags().Float64("account-size", 0, "Account size for position sizing")

	return cmd
}

func newCalcSizeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "size",
		Short:   "Calculate position size from risk budget",
		Example: `  advisor calc size --max-loss 250 --account-size 20000 --risk-pct 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			maxLoss := decimalFlag(cmd, "max-loss")
			accountSize := decimalFlag(cmd, "account-size")
			riskPct := decimalFlag(cmd, "risk-pct")

			if !accountSize.IsPositive() {
				output.Error("--account-size must be positive")
				return fmt.Errorf("invalid account size")
			}

			contracts := planner.CalculatePositionSize(maxLoss, accountSize, riskPct)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"contracts":    contracts,
					"max_loss":     maxLoss.String(),
					"account_size": accountSize.String(),
					"risk_pct":     riskPct.String(),
				})
			}

			if contracts == 0 {
				output.Warning("Risk budget of %s does not cover one contract (max loss %s)",
					FormatDecimalDollars(accountSize.Mul(riskPct).Div(decimal.NewFromInt(100))),
					FormatDecimalDollars(maxLoss))
				return nil
			}
			output.Success("Trade %d contract(s) risking %s total",
				contracts, FormatDecimalDollars(maxLoss.Mul(decimal.NewFromInt(int64(contracts)))))
			return nil
		},
	}

	cmd.Flags().Float64("max-loss", 0, "Maximum loss per contract in dollars")
	cmd.Flags().Float64("account-size", 0, "Account size in dollars")
	cmd.Flags().Float64("risk-pct", 2.0, "Risk percent of account per trade")

	return cmd
}

func displayPlan(output *Output, plan *planner.Plan) {
	output.Bold("%s - %s (%s)", plan.Symbol, plan.StrategyType, plan.Bias)

	table := NewTable(output, "Metric", "Value")
	for _, leg := range plan.Legs {
		table.AddRow(fmt.Sprintf("%s %s", leg.Position, leg.OptionType),
			fmt.Sprintf("%s @ %s x%d", FormatStrike(leg.Strike), FormatDecimalDollars(leg.Premium), leg.Contracts))
	}
	table.AddRow("Net premium", FormatDecimalDollars(plan.NetPremium))
	if plan.MaxProfit != nil {
		table.AddRow("Max profit", FormatDecimalDollars(*plan.MaxProfit))
	} else {
		table.AddRow("Max profit", "Unlimited")
	}
	table.AddRow("Max loss", FormatDecimalDollars(plan.MaxLoss))
	for _, be := range plan.BreakevenPrices {
		table.AddRow("Breakeven", FormatDecimalDollars(be))
	}
	if plan.RiskReward != nil {
		table.AddRow("Risk:reward", FormatRatio(*plan.RiskReward))
	}
	if plan.WinProbability != nil {
		table.AddRow("Win probability", plan.WinProbability.StringFixed(1)+"%")
	}
	table.AddRow("Contracts", fmt.Sprintf("%d", plan.RecommendedContracts))
	table.AddRow("Position risk", FormatDecimalDollars(plan.PositionSizeDollars))
	table.Render()
}

func parseTypeAndBias(cmd *cobra.Command) (models.OptionType, models.Bias, error) {
	typeStr, _ := cmd.Flags().GetString("type")
	optType, err := models.ParseOptionType(typeStr)
	if err != nil {
		return "", "", err
	}
	biasStr, _ := cmd.Flags().GetString("bias")
	bias, err := models.ParseBias(biasStr)
	if err != nil {
		return "", "", err
	}
	return optType, bias, nil
}

func decimalFlag(cmd *cobra.Command, name string) decimal.Decimal {
	v, _ := cmd.Flags().GetFloat64(name)
	return decimal.NewFromFloat(v)
}

func decimalFlagPtr(cmd *cobra.Command, name string) *decimal.Decimal {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	d := decimal.NewFromFloat(v)
	return &d
}
