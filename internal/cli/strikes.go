package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"options-advisor/internal/models"
	"options-advisor/internal/selection"
)

// addStrikesCommand adds the raw strike recommendation command.
func addStrikesCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "strikes <symbol>",
		Short: "Recommend vertical spread strikes",
		Long: `Recommend vertical spread strike pairs for a symbol.

Unlike 'recommend', this skips family selection and scores raw spread
candidates at the ITM, ATM, and OTM anchors for the given option type.`,
		Example: `  advisor strikes SPY --type put --bias bullish --dte 30
  advisor strikes TSLA --type call --bias bearish --dte 45 --width 10`,
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
			typeStr, _ := cmd.Flags().GetString("type")
			optType, err := models.ParseOptionType(typeStr)
			if err != nil {
				output.Error("%v", err)
				return err
			}
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

			tolerance, _ := cmd.Flags().GetInt("dte-tolerance")
			if tolerance == 0 {
				tolerance = app.Config.Selection.DTETolerance
			}

			data, err := app.Data.ValidateAndFetch(ctx, symbol, dte, tolerance)
			if err != nil {
				output.Error("Failed to load data: %v", err)
				return err
			}

			var maxWidth *int
			if v, _ := cmd.Flags().GetInt("width"); v > 0 {
				maxWidth = &v
			}
			width := app.Selector.SpreadWidthForPrice(data.UnderlyingPrice, maxWidth)

			opts := selection.SpreadOptions{
				IVRegime: app.Selector.DetermineIVRegime(data.IVRank),
			}
			if v, _ := cmd.Flags().GetFloat64("min-credit-pct"); v > 0 {
				d := decimal.NewFromFloat(v)
				opts.MinCreditPct = &d
			}

			candidates := app.Selector.RecommendVerticalSpreads(
				data.Snapshot.Contracts, data.UnderlyingPrice, optType, bias, width, opts)

			if output.IsJSON() {
				return output.JSON(candidates)
			}

			displaySpreadCandidates(output, symbol, data.UnderlyingPrice, width, candidates)
			for _, w := range data.Warnings {
				output.Warning("! %s", w)
			}
			return nil
		},
	}

	cmd.Flags().String("type", "put", "Option type: call or put")
	cmd.Flags().String("bias", "neutral", "Directional bias: bullish, bearish, neutral")
	cmd.Flags().Int("dte", 30, "Target days to expiration (1-365)")
	cmd.Flags().Int("dte-tolerance", 0, "Expiration matching window in days")
	cmd.Flags().Int("width", 0, "Maximum spread width in points")
	cmd.Flags().Float64("min-credit-pct", 0, "Minimum credit as percent of width")

	rootCmd.AddCommand(cmd)
}

func displaySpreadCandidates(output *Output, symbol string, price decimal.Decimal, width int, candidates []selection.SpreadCandidate) {
	output.Bold("Spread Candidates - %s", symbol)
	output.Printf("  Spot: %s  Target width: %d points\n\n", FormatDecimalDollars(price), width)

	if len(candidates) == 0 {
		output.Warning("No viable spreads found")
		return
	}

	table := NewTable(output, "Pos", "Long", "Short", "Net", "B/E", "Max P", "Max L", "R:R", "POP", "Score")
	for _, c := range candidates {
		net := FormatDecimalDollars(c.NetPremium)
		if c.IsCredit && c.NetCredit != nil {
			net = output.Green(FormatDecimalDollars(*c.NetCredit) + " cr")
		} else if c.NetDebit != nil {
			net = FormatDecimalDollars(*c.NetDebit) + " db"
		}
		pop := "-"
		if c.POPProxy != nil {
			pop = c.POPProxy.StringFixed(0) + "%"
		}
		table.AddRow(
			strings.ToUpper(string(c.Position)),
			FormatStrike(c.LongStrike),
			FormatStrike(c.ShortStrike),
			net,
			FormatDecimalDollars(c.Breakeven),
			FormatDecimalDollars(c.MaxProfit),
			FormatDecimalDollars(c.MaxLoss),
			FormatRatio(c.RiskReward),
			pop,
			fmt.Sprintf("%.1f", c.QualityScore),
		)
	}
	table.Render()
}
