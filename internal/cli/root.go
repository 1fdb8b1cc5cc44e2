package cli

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"options-advisor/internal/config"
	"options-advisor/internal/logging"
	"options-advisor/internal/recommend"
	"options-advisor/internal/selection"
	"options-advisor/internal/service"
	"options-advisor/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config      *config.Config
	Logger      zerolog.Logger
	Store       store.ChainStore
	Data        *service.StrikeDataService
	Selector    *selection.Selector
	Recommender *recommend.Recommender
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.Selector = selection.NewSelector(SelectionConfig(cfg))
	app.Recommender = recommend.NewRecommender(app.Selector, ScoringWeights(cfg), logger)

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = filepath.Join(config.DefaultConfigDir(), "advisor.db")
	}
	chainStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, data commands unavailable")
	} else {
		app.Store = chainStore
		app.Data = service.NewStrikeDataService(chainStore, logger)
		logger.Debug().Str("path", dbPath).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "advisor",
		Short: "Options Advisor - options strategy recommendation CLI",
		Long: `Options Advisor recommends defined-risk options strategies from stored
option chain data. It selects a strategy family from the IV regime and
your directional bias, picks strikes at ITM/ATM/OTM anchors, and ranks
candidates by probability of profit, risk:reward, credit quality, and
liquidity.

Use 'advisor help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/options-advisor)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addRecommendCommand(rootCmd, app)
	addStrikesCommand(rootCmd, app)
	addCalcCommands(rootCmd, app)
	addDataCommands(rootCmd, app)
	addServeCommand(rootCmd, app)
	addUtilityCommands(rootCmd, app)

	return rootCmd
}

// SelectionConfig converts loaded configuration into selector thresholds.
func SelectionConfig(cfg *config.Config) selection.Config {
	sc := selection.DefaultConfig()
	s := cfg.Selection
	sc.IVHighThreshold = decimal.NewFromFloat(s.IVHighThreshold)
	sc.IVLowThreshold = decimal.NewFromFloat(s.IVLowThreshold)
	sc.ATMThresholdPct = decimal.NewFromFloat(s.ATMThresholdPct)
	sc.MinOpenInterest = s.MinOpenInterest
	sc.MinVolume = s.MinVolume
	sc.MinMarkPrice = decimal.NewFromFloat(s.MinMarkPrice)
	sc.MinCreditPct = decimal.NewFromFloat(s.MinCreditPct)
	sc.WidthLowPriceMax = s.WidthLowPriceMax
	sc.WidthMidPrice = s.WidthMidPrice
	sc.WidthHighPriceMax = s.WidthHighPriceMax
	sc.WidthTolerancePct = decimal.NewFromFloat(s.WidthTolerancePct)
	return sc
}

// ScoringWeights converts loaded configuration into composite weights.
func ScoringWeights(cfg *config.Config) recommend.ScoringWeights {
	return recommend.ScoringWeights{
		POP:             cfg.Scoring.POPWeight,
		RiskReward:      cfg.Scoring.RiskRewardWeight,
		Credit:          cfg.Scoring.CreditWeight,
		Liquidity:       cfg.Scoring.LiquidityWeight,
		WidthEfficiency: cfg.Scoring.WidthEfficiencyWeight,
	}
}
