package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"options-advisor/internal/config"
)

// addUtilityCommands adds version and config inspection commands.
func addUtilityCommands(rootCmd *cobra.Command, app *App) {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{"version": Version})
			}
			output.Printf("advisor %s\n", Version)
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration inspection",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			dir, _ := cmd.Flags().GetString("config")
			if dir == "" {
				dir = config.DefaultConfigDir()
			}
			path := filepath.Join(dir, "config.toml")
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": path})
			}
			output.Println(path)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}

			cfg := app.Config
			output.Bold("Selection")
			table := NewTable(output, "Setting", "Value")
			table.AddRow("iv_high_threshold", FormatPct(cfg.Selection.IVHighThreshold))
			table.AddRow("iv_low_threshold", FormatPct(cfg.Selection.IVLowThreshold))
			table.AddRow("atm_threshold_pct", FormatPct(cfg.Selection.ATMThresholdPct))
			table.AddRow("min_open_interest", FormatOptionalInt(&cfg.Selection.MinOpenInterest))
			table.AddRow("min_volume", FormatOptionalInt(&cfg.Selection.MinVolume))
			table.AddRow("min_credit_pct", FormatPct(cfg.Selection.MinCreditPct))
			table.AddRow("dte_tolerance", FormatOptionalInt(int64Ptr(cfg.Selection.DTETolerance)))
			table.Render()

			output.Println("")
			output.Bold("Scoring weights")
			weights := NewTable(output, "Component", "Weight")
			weights.AddRow("pop", FormatPct(cfg.Scoring.POPWeight*100))
			weights.AddRow("risk_reward", FormatPct(cfg.Scoring.RiskRewardWeight*100))
			weights.AddRow("credit", FormatPct(cfg.Scoring.CreditWeight*100))
			weights.AddRow("liquidity", FormatPct(cfg.Scoring.LiquidityWeight*100))
			weights.AddRow("width_efficiency", FormatPct(cfg.Scoring.WidthEfficiencyWeight*100))
			weights.Render()

			output.Println("")
			output.Bold("Server")
			srv := NewTable(output, "Setting", "Value")
			srv.AddRow("host", cfg.Server.Host)
			srv.AddRow("port", FormatOptionalInt(int64Ptr(cfg.Server.Port)))
			srv.Render()
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration invalid: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"status": "valid"})
			}
			output.Success("Configuration is valid")
			return nil
		},
	})

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func int64Ptr(v int) *int64 {
	n := int64(v)
	return &n
}
