package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"options-advisor/internal/models"
	"options-advisor/internal/recommend"
)

// addRecommendCommand adds the strategy recommendation command.
func addRecommendCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "recommend <symbol>",
		Short: "Recommend options strategies",
		Long: `Recommend ranked options strategies for a symbol.

Picks a strategy family from the IV regime and your bias, selects strikes
at ITM/ATM/OTM anchors, and ranks up to three candidates by composite
score.`,
		Example: `  advisor recommend SPY --bias bullish --dte 30
  advisor recommend AAPL --bias bearish --dte 14 --account-size 15000
  advisor recommend QQQ --bias neutral --dte 45 --prefer-credit --min-pop 60`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Data == nil {
				output.Error("Data store not available")
				return fmt.Errorf("store not initialized")
			}

			symbol := strings.ToUpper(args[0])
			biasStr, _ := cmd.Flags().GetString("bias")
			bias, err := models.ParseBias(biasStr)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			dte, _ := cmd.Flags().GetInt("dte")
			if dte < 1 || dte > 365 {
				output.Error("DTE must be between 1 and 365")
				return fmt.Errorf("invalid dte %d", dte)
			}

			objectives := &recommend.StrategyObjectives{}
			if v, _ := cmd.Flags().GetFloat64("account-size"); v > 0 {
				d := decimal.NewFromFloat(v)
				objectives.AccountSize = &d
			}
			if v, _ := cmd.Flags().GetFloat64("max-risk"); v > 0 {
				d := decimal.NewFromFloat(v)
				objectives.MaxRiskPerTrade = &d
			}
			if v, _ := cmd.Flags().GetFloat64("min-pop"); v > 0 {
				d := decimal.NewFromFloat(v)
				objectives.MinPOPPct = &d
			}
			if v, _ := cmd.Flags().GetFloat64("min-rr"); v > 0 {
				d := decimal.NewFromFloat(v)
				objectives.MinRiskReward = &d
			}
			if cmd.Flags().Changed("prefer-credit") {
				v, _ := cmd.Flags().GetBool("prefer-credit")
				objectives.PreferCredit = &v
			}
			if v, _ := cmd.Flags().GetString("bias-reason"); v != "" {
				objectives.BiasReason = models.BiasReason(v)
			}

			constraints := &recommend.StrategyConstraints{}
			if v, _ := cmd.Flags().GetInt("max-width"); v > 0 {
				constraints.MaxSpreadWidth = &v
			}
			if v, _ := cmd.Flags().GetString("iv-regime"); v != "" {
				regime, err := models.ParseIVRegime(v)
				if err != nil {
					output.Error("%v", err)
					return err
				}
				constraints.IVRegimeOverride = &regime
			}

			tolerance, _ := cmd.Flags().GetInt("dte-tolerance")
			if tolerance == 0 {
				tolerance = app.Config.Selection.DTETolerance
			}

			data, err := app.Data.ValidateAndFetch(ctx, symbol, dte, tolerance)
			if err != nil {
				output.Error("Failed to load data: %v", err)
				return err
			}

			result := app.Recommender.Recommend(recommend.Request{
				Contracts:       data.Snapshot.Contracts,
				Symbol:          symbol,
				UnderlyingPrice: data.UnderlyingPrice,
				Bias:            bias,
				DTE:             dte,
				IVRank:          data.IVRank,
				Objectives:      objectives,
				Constraints:     constraints,
				DataTimestamp:   data.Snapshot.AsOf,
			})
			result.Warnings = append(data.Warnings, result.Warnings...)

			if output.IsJSON() {
				return output.JSON(result)
			}

			displayRecommendations(output, &result)
			return nil
		},
	}

	cmd.Flags().String("bias", "neutral", "Directional bias: bullish, bearish, neutral")
	cmd.Flags().String("bias-reason", "", "Setup behind the bias: ssl_sweep, bsl_sweep, fvg_retest, structure_shift, user_manual")
	cmd.Flags().Int("dte", 30, "Target days to expiration (1-365)")
	cmd.Flags().Int("dte-tolerance", 0, "Expiration matching window in days")
	cmd.Flags().Float64("account-size", 0, "Account size for position sizing")
	cmd.Flags().Float64("max-risk", 0, "Maximum risk per trade in dollars")
	cmd.Flags().Float64("min-pop", 0, "Minimum probability of profit percent")
	cmd.Flags().Float64("min-rr", 0, "Minimum risk:reward ratio")
	cmd.Flags().Bool("prefer-credit", false, "Prefer credit strategies")
	cmd.Flags().Int("max-width", 0, "Maximum spread width in points")
	cmd.Flags().String("iv-regime", "", "Override the IV regime: high, neutral, low")

	rootCmd.AddCommand(cmd)
}

func displayRecommendations(output *Output, result *recommend.Result) {
	output.Bold("Strategy Recommendations - %s", result.UnderlyingSymbol)
	output.Printf("  Spot: %s  Family: %s  DTE: %d\n",
		FormatDecimalDollars(result.UnderlyingPrice), result.ChosenStrategyFamily, result.DTE)
	if result.IVRegime != nil {
		rank := "n/a"
		if result.IVRank != nil {
			rank = result.IVRank.StringFixed(1)
		}
		output.Printf("  IV regime: %s (rank %s)\n", *result.IVRegime, rank)
	}
	output.Println()

	if len(result.Recommendations) == 0 {
		output.Warning("No recommendations produced")
	}

	for _, rec := range result.Recommendations {
		output.Bold("#%d  %s %s  score %.1f", rec.Rank, rec.StrategyFamily, rec.OptionType, rec.CompositeScore)

		table := NewTable(output, "Metric", "Value")
		if rec.LongStrike != nil && rec.ShortStrike != nil {
			table.AddRow("Strikes", fmt.Sprintf("%s / %s", FormatStrike(*rec.LongStrike), FormatStrike(*rec.ShortStrike)))
		} else if rec.Strike != nil {
			table.AddRow("Strike", FormatStrike(*rec.Strike))
		}
		if rec.NetCredit != nil {
			table.AddRow("Net credit", FormatDecimalDollars(*rec.NetCredit))
		}
		if rec.NetDebit != nil {
			table.AddRow("Net debit", FormatDecimalDollars(*rec.NetDebit))
		}
		table.AddRow("Breakeven", FormatDecimalDollars(rec.Breakeven))
		if rec.MaxProfit != nil {
			table.AddRow("Max profit", FormatDecimalDollars(*rec.MaxProfit))
		} else {
			table.AddRow("Max profit", "Unlimited")
		}
		table.AddRow("Max loss", FormatDecimalDollars(rec.MaxLoss))
		if rec.RiskReward != nil {
			table.AddRow("Risk:reward", FormatRatio(*rec.RiskReward))
		}
		if rec.POPProxy != nil {
			table.AddRow("POP", rec.POPProxy.StringFixed(1)+"%")
		}
		if rec.RecommendedContracts != nil {
			table.AddRow("Contracts", fmt.Sprintf("%d", *rec.RecommendedContracts))
		}
		table.Render()

		for _, reason := range rec.Reasons {
			output.Dim("  • %s", reason)
		}
		output.Println()
	}

	for _, w := range result.Warnings {
		output.Warning("! %s", w)
	}
}
