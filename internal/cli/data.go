package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"options-advisor/internal/models"
	"options-advisor/internal/service"
	"options-advisor/internal/store"
)

// addDataCommands adds data import and inspection commands.
func addDataCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Market data management",
		Long:  "Import option chains, price bars, and IV readings into local storage.",
	}

	cmd.AddCommand(newDataImportChainCmd(app))
	cmd.AddCommand(newDataPriceCmd(app))
	cmd.AddCommand(newDataIVCmd(app))
	cmd.AddCommand(newDataTickersCmd(app))

	rootCmd.AddCommand(cmd)
}

func newDataImportChainCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-chain <symbol>",
		Short: "Import an option chain CSV",
		Long: `Import an option chain snapshot from a CSV file.

Expected columns: strike, option_type, bid, ask, mark, delta, implied_vol,
volume, open_interest. Optional columns may be left empty.`,
		Example: `  advisor data import-chain SPY --file chain.csv --expiration 2026-09-18`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Data store not available")
				return fmt.Errorf("store not initialized")
			}

			symbol := strings.ToUpper(args[0])
			filePath, _ := cmd.Flags().GetString("file")
			expirationStr, _ := cmd.Flags().GetString("expiration")

			expiration, err := time.Parse("2006-01-02", expirationStr)
			if err != nil {
				output.Error("Invalid expiration format. Use YYYY-MM-DD")
				return err
			}

			f, err := os.Open(filePath)
			if err != nil {
				output.Error("Failed to open %s: %v", filePath, err)
				return err
			}
			defer f.Close()

			contracts, err := store.ReadChainCSV(f)
			if err != nil {
				output.Error("Failed to parse chain: %v", err)
				return err
			}

			tickerID, err := app.Store.UpsertTicker(ctx, symbol, "")
			if err != nil {
				output.Error("Failed to save ticker: %v", err)
				return err
			}

			asOf := time.Now().UTC()
			dte := int(time.Until(expiration).Hours() / 24)
			if dte < 0 {
				dte = 0
			}

			snapshotID, err := app.Store.SaveChainSnapshot(ctx, &models.ChainSnapshot{
				TickerID:   tickerID,
				Expiration: expiration,
				DTE:        dte,
				AsOf:       asOf,
				Contracts:  contracts,
			})
			if err != nil {
				output.Error("Failed to save snapshot: %v", err)
				return err
			}

			output.Success("Imported %d contracts for %s (snapshot %d, %d DTE)",
				len(contracts), symbol, snapshotID, dte)
			return nil
		},
	}

	cmd.Flags().String("file", "", "Path to the chain CSV file")
	cmd.Flags().String("expiration", "", "Expiration date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("expiration")

	return cmd
}

func newDataPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "price <symbol>",
		Short:   "Record a price bar",
		Example: `  advisor data price SPY --close 580.25`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Data store not available")
				return fmt.Errorf("store not initialized")
			}

			symbol := strings.ToUpper(args[0])
			closeF, _ := cmd.Flags().GetFloat64("close")
			if closeF <= 0 {
				output.Error("--close must be positive")
				return fmt.Errorf("invalid close price")
			}
			closePrice := decimal.NewFromFloat(closeF)

			tickerID, err := app.Store.UpsertTicker(ctx, symbol, "")
			if err != nil {
				output.Error("Failed to save ticker: %v", err)
				return err
			}

			bar := models.PriceBar{
				TickerID:  tickerID,
				Timeframe: models.Daily,
				Timestamp: time.Now().UTC().Truncate(24 * time.Hour),
				Open:      closePrice,
				High:      closePrice,
				Low:       closePrice,
				Close:     closePrice,
			}
			if err := app.Store.SavePriceBars(ctx, []models.PriceBar{bar}); err != nil {
				output.Error("Failed to save price bar: %v", err)
				return err
			}

			output.Success("Recorded %s close %s", symbol, FormatDecimalDollars(closePrice))
			return nil
		},
	}

	cmd.Flags().Float64("close", 0, "Closing price")
	cmd.MarkFlagRequired("close")

	return cmd
}

func newDataIVCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "iv <symbol>",
		Short:   "Record an IV rank reading",
		Example: `  advisor data iv SPY --rank 62.5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Data store not available")
				return fmt.Errorf("store not initialized")
			}

			symbol := strings.ToUpper(args[0])
			rankF, _ := cmd.Flags().GetFloat64("rank")
			if rankF < 0 || rankF > 100 {
				output.Error("--rank must be between 0 and 100")
				return fmt.Errorf("invalid iv rank")
			}
			rank := decimal.NewFromFloat(rankF)

			tickerID, err := app.Store.UpsertTicker(ctx, symbol, "")
			if err != nil {
				output.Error("Failed to save ticker: %v", err)
				return err
			}

			err = app.Store.SaveIVMetrics(ctx, &models.IVMetrics{
				TickerID: tickerID,
				Term:     service.DefaultIVTerm,
				IVRank:   &rank,
				AsOf:     time.Now().UTC(),
			})
			if err != nil {
				output.Error("Failed to save IV metrics: %v", err)
				return err
			}

			output.Success("Recorded %s IV rank %.1f", symbol, rankF)
			return nil
		},
	}

	cmd.Flags().Float64("rank", 0, "IV rank (0-100)")
	cmd.MarkFlagRequired("rank")

	return cmd
}

func newDataTickersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tickers",
		Short: "List stored tickers",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Data store not available")
				return fmt.Errorf("store not initialized")
			}

			tickers, err := app.Store.ListTickers(ctx)
			if err != nil {
				output.Error("Failed to list tickers: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(tickers)
			}

			if len(tickers) == 0 {
				output.Warning("No tickers stored. Import chain data first.")
				return nil
			}

			table := NewTable(output, "Symbol", "Name")
			for _, t := range tickers {
				name := t.Name
				if name == "" {
					name = "-"
				}
				table.AddRow(t.Symbol, name)
			}
			table.Render()
			return nil
		},
	}
}
