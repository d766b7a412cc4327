package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stock-advisor/internal/config"
	"stock-advisor/internal/engine"
	"stock-advisor/internal/logging"
	"stock-advisor/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.Store
	Engine *engine.Engine
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
		Engine: engine.New(cfg),
	}

	if dataStore, err := store.NewSQLiteStore(cfg.Store.Path); err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, data commands unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Store.Path).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "advisor",
		Short: "Stock Advisor - technical and fundamental analysis CLI",
		Long: `Stock Advisor analyzes stocks from locally stored price history and
fundamental data. It computes technical indicators, detects candlestick and
chart patterns, clusters support and resistance levels, scores fundamentals,
estimates intrinsic value, and blends everything into one recommendation.

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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/stock-advisor/config.toml)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newDataCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("Stock Advisor v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Indicators")
	output.Printf("  Workers:         %d\n", cfg.Indicators.Workers)
	output.Printf("  RSI Period:      %d\n", cfg.Indicators.RSIPeriod)
	output.Printf("  SMA Periods:     %v\n", cfg.Indicators.SMAPeriods)
	output.Printf("  MACD:            %d/%d/%d\n", cfg.Indicators.MACDFast, cfg.Indicators.MACDSlow, cfg.Indicators.MACDSignal)
	output.Printf("  Bollinger:       %d x %.1f\n", cfg.Indicators.BollingerPeriod, cfg.Indicators.BollingerStdDev)
	output.Println()

	output.Bold("Patterns")
	output.Printf("  Candlestick:     %v\n", cfg.Patterns.Candlestick)
	output.Printf("  Chart:           %v\n", cfg.Patterns.Chart)
	output.Printf("  Volume Confirm:  %.1fx\n", cfg.Patterns.VolumeConfirmRatio)
	output.Println()

	output.Bold("Levels")
	output.Printf("  Min Points:      %d\n", cfg.Levels.MinPoints)
	output.Printf("  ATR Multiple:    %.1f\n", cfg.Levels.ATRMultiple)
	output.Println()

	output.Bold("Decision")
	output.Printf("  Technical Wt:    %.2f\n", cfg.Decision.TechnicalWeight)
	output.Printf("  Fundamental Wt:  %.2f\n", cfg.Decision.FundamentalWeight)
	output.Printf("  Threshold:       %.2f\n", cfg.Decision.ActionThreshold)
	output.Println()

	output.Bold("Store")
	output.Printf("  Path:            %s\n", cfg.Store.Path)
	return nil
}
