// Package config provides configuration management using viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	apperrors "stock-advisor/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Indicators   IndicatorsConfig   `mapstructure:"indicators"`
	Patterns     PatternsConfig     `mapstructure:"patterns"`
	Levels       LevelsConfig       `mapstructure:"levels"`
	Signals      SignalsConfig      `mapstructure:"signals"`
	Fundamentals FundamentalsConfig `mapstructure:"fundamentals"`
	Valuation    ValuationConfig    `mapstructure:"valuation"`
	Decision     DecisionConfig     `mapstructure:"decision"`
	Store        StoreConfig        `mapstructure:"store"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// IndicatorsConfig controls technical indicator computation.
type IndicatorsConfig struct {
	Enabled          []string `mapstructure:"enabled"`
	Workers          int      `mapstructure:"workers"`
	RSIPeriod        int      `mapstructure:"rsi_period"`
	SMAPeriods       []int    `mapstructure:"sma_periods"`
	EMAPeriods       []int    `mapstructure:"ema_periods"`
	WMAPeriods       []int    `mapstructure:"wma_periods"`
	MACDFast         int      `mapstructure:"macd_fast"`
	MACDSlow         int      `mapstructure:"macd_slow"`
	MACDSignal       int      `mapstructure:"macd_signal"`
	BollingerPeriod  int      `mapstructure:"bollinger_period"`
	BollingerStdDev  float64  `mapstructure:"bollinger_std_dev"`
	ATRPeriod        int      `mapstructure:"atr_period"`
	ADXPeriod        int      `mapstructure:"adx_period"`
	StochasticK      int      `mapstructure:"stochastic_k"`
	StochasticD      int      `mapstructure:"stochastic_d"`
	CCIPeriod        int      `mapstructure:"cci_period"`
	WilliamsRPeriod  int      `mapstructure:"williams_r_period"`
	ROCPeriod        int      `mapstructure:"roc_period"`
	MomentumPeriod   int      `mapstructure:"momentum_period"`
	MFIPeriod        int      `mapstructure:"mfi_period"`
	VolumeSMAPeriod  int      `mapstructure:"volume_sma_period"`
	SARAcceleration  float64  `mapstructure:"sar_acceleration"`
	SARMaxAccel      float64  `mapstructure:"sar_max_accel"`
}

// PatternsConfig controls pattern detection.
type PatternsConfig struct {
	Candlestick        bool    `mapstructure:"candlestick"`
	Chart              bool    `mapstructure:"chart"`
	VolumeConfirmRatio float64 `mapstructure:"volume_confirm_ratio"`
	VolumeBoost        float64 `mapstructure:"volume_boost"`
	SwingStrength      int     `mapstructure:"swing_strength"`
	ShoulderTolerance  float64 `mapstructure:"shoulder_tolerance"`
	DoubleTolerance    float64 `mapstructure:"double_tolerance"`
	MaxLookback        int     `mapstructure:"max_lookback"`
}

// LevelsConfig controls support/resistance clustering.
type LevelsConfig struct {
	MinPoints     int     `mapstructure:"min_points"`
	ATRMultiple   float64 `mapstructure:"atr_multiple"`
	SwingStrength int     `mapstructure:"swing_strength"`
	MaxLevels     int     `mapstructure:"max_levels"`
}

// SignalsConfig controls trading signal generation.
type SignalsConfig struct {
	RSIOverbought   float64 `mapstructure:"rsi_overbought"`
	RSIOversold     float64 `mapstructure:"rsi_oversold"`
	VolumeSpikeMin  float64 `mapstructure:"volume_spike_min"`
	FastMAPeriod    int     `mapstructure:"fast_ma_period"`
	SlowMAPeriod    int     `mapstructure:"slow_ma_period"`
	WeightRSI       float64 `mapstructure:"weight_rsi"`
	WeightMACD      float64 `mapstructure:"weight_macd"`
	WeightBollinger float64 `mapstructure:"weight_bollinger"`
	WeightMA        float64 `mapstructure:"weight_ma"`
	WeightVolume    float64 `mapstructure:"weight_volume"`
}

// FundamentalsConfig controls fundamental category scoring.
type FundamentalsConfig struct {
	WeightValuation     float64 `mapstructure:"weight_valuation"`
	WeightProfitability float64 `mapstructure:"weight_profitability"`
	WeightGrowth        float64 `mapstructure:"weight_growth"`
	WeightHealth        float64 `mapstructure:"weight_health"`
}

// ValuationConfig controls intrinsic value models.
type ValuationConfig struct {
	RiskFreeRate   float64 `mapstructure:"risk_free_rate"`
	MarketReturn   float64 `mapstructure:"market_return"`
	TerminalGrowth float64 `mapstructure:"terminal_growth"`
	ProjectionYears int    `mapstructure:"projection_years"`
	MaxGrowthRate  float64 `mapstructure:"max_growth_rate"`
	DefaultBeta    float64 `mapstructure:"default_beta"`
}

// DecisionConfig controls how technical and fundamental views are blended.
type DecisionConfig struct {
	TechnicalWeight   float64 `mapstructure:"technical_weight"`
	FundamentalWeight float64 `mapstructure:"fundamental_weight"`
	ActionThreshold   float64 `mapstructure:"action_threshold"`
	SingleBranchCap   float64 `mapstructure:"single_branch_cap"`
	ValuationNudge    float64 `mapstructure:"valuation_nudge"`
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".stock-advisor"
	}
	return filepath.Join(home, ".config", "stock-advisor")
}

// Load reads configuration from the given file, or from the default
// location when path is empty. Missing files fall back to defaults and a
// template is written for the user to edit.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir := DefaultConfigDir()
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(dir)

		if _, err := os.Stat(filepath.Join(dir, "config.toml")); os.IsNotExist(err) {
			if werr := WriteTemplate(dir); werr == nil {
				v.SetConfigFile(filepath.Join(dir, "config.toml"))
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, apperrors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(err, "unmarshaling config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("indicators.enabled", []string{
		"sma", "ema", "wma", "macd", "adx", "parabolic_sar",
		"rsi", "stochastic", "cci", "williams_r", "roc", "momentum",
		"atr", "bollinger",
		"vwap", "obv", "mfi", "volume_sma",
	})
	v.SetDefault("indicators.workers", 4)
	v.SetDefault("indicators.rsi_period", 14)
	v.SetDefault("indicators.sma_periods", []int{5, 10, 20, 50, 100, 200})
	v.SetDefault("indicators.ema_periods", []int{12, 26, 50, 200})
	v.SetDefault("indicators.wma_periods", []int{20})
	v.SetDefault("indicators.macd_fast", 12)
	v.SetDefault("indicators.macd_slow", 26)
	v.SetDefault("indicators.macd_signal", 9)
	v.SetDefault("indicators.bollinger_period", 20)
	v.SetDefault("indicators.bollinger_std_dev", 2.0)
	v.SetDefault("indicators.atr_period", 14)
	v.SetDefault("indicators.adx_period", 14)
	v.SetDefault("indicators.stochastic_k", 14)
	v.SetDefault("indicators.stochastic_d", 3)
	v.SetDefault("indicators.cci_period", 20)
	v.SetDefault("indicators.williams_r_period", 14)
	v.SetDefault("indicators.roc_period", 12)
	v.SetDefault("indicators.momentum_period", 10)
	v.SetDefault("indicators.mfi_period", 14)
	v.SetDefault("indicators.volume_sma_period", 20)
	v.SetDefault("indicators.sar_acceleration", 0.02)
	v.SetDefault("indicators.sar_max_accel", 0.2)

	v.SetDefault("patterns.candlestick", true)
	v.SetDefault("patterns.chart", true)
	v.SetDefault("patterns.volume_confirm_ratio", 1.5)
	v.SetDefault("patterns.volume_boost", 1.2)
	v.SetDefault("patterns.swing_strength", 3)
	v.SetDefault("patterns.shoulder_tolerance", 0.10)
	v.SetDefault("patterns.double_tolerance", 0.05)
	v.SetDefault("patterns.max_lookback", 250)

	v.SetDefault("levels.min_points", 3)
	v.SetDefault("levels.atr_multiple", 1.0)
	v.SetDefault("levels.swing_strength", 3)
	v.SetDefault("levels.max_levels", 10)

	v.SetDefault("signals.rsi_overbought", 70.0)
	v.SetDefault("signals.rsi_oversold", 30.0)
	v.SetDefault("signals.volume_spike_min", 1.5)
	v.SetDefault("signals.fast_ma_period", 50)
	v.SetDefault("signals.slow_ma_period", 200)
	v.SetDefault("signals.weight_rsi", 0.20)
	v.SetDefault("signals.weight_macd", 0.25)
	v.SetDefault("signals.weight_bollinger", 0.20)
	v.SetDefault("signals.weight_ma", 0.25)
	v.SetDefault("signals.weight_volume", 0.10)

	v.SetDefault("fundamentals.weight_valuation", 0.25)
	v.SetDefault("fundamentals.weight_profitability", 0.25)
	v.SetDefault("fundamentals.weight_growth", 0.25)
	v.SetDefault("fundamentals.weight_health", 0.25)

	v.SetDefault("valuation.risk_free_rate", 0.045)
	v.SetDefault("valuation.market_return", 0.095)
	v.SetDefault("valuation.terminal_growth", 0.025)
	v.SetDefault("valuation.projection_years", 5)
	v.SetDefault("valuation.max_growth_rate", 0.25)
	v.SetDefault("valuation.default_beta", 1.0)

	v.SetDefault("store.path", filepath.Join(DefaultConfigDir(), "advisor.db"))

	v.SetDefault("decision.technical_weight", 0.5)
	v.SetDefault("decision.fundamental_weight", 0.5)
	v.SetDefault("decision.action_threshold", 0.3)
	v.SetDefault("decision.single_branch_cap", 0.75)
	v.SetDefault("decision.valuation_nudge", 0.2)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(DefaultConfigDir(), "logs", "advisor.log"))
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 7)
	v.SetDefault("logging.max_age", 30)
}

// Validate checks configuration for invalid values.
func (c *Config) Validate() error {
	if c.Indicators.Workers < 1 {
		return fmt.Errorf("indicators.workers must be positive: %w", apperrors.ErrConfigInvalid)
	}
	if c.Indicators.RSIPeriod < 2 {
		return fmt.Errorf("indicators.rsi_period must be at least 2: %w", apperrors.ErrConfigInvalid)
	}
	if c.Indicators.MACDFast >= c.Indicators.MACDSlow {
		return fmt.Errorf("indicators.macd_fast must be below macd_slow: %w", apperrors.ErrConfigInvalid)
	}
	if c.Indicators.BollingerStdDev <= 0 {
		return fmt.Errorf("indicators.bollinger_std_dev must be positive: %w", apperrors.ErrConfigInvalid)
	}
	if c.Patterns.VolumeConfirmRatio < 1 {
		return fmt.Errorf("patterns.volume_confirm_ratio must be at least 1: %w", apperrors.ErrConfigInvalid)
	}
	if c.Patterns.SwingStrength < 1 {
		return fmt.Errorf("patterns.swing_strength must be positive: %w", apperrors.ErrConfigInvalid)
	}
	if c.Levels.MinPoints < 2 {
		return fmt.Errorf("levels.min_points must be at least 2: %w", apperrors.ErrConfigInvalid)
	}
	if c.Levels.ATRMultiple <= 0 {
		return fmt.Errorf("levels.atr_multiple must be positive: %w", apperrors.ErrConfigInvalid)
	}
	if c.Signals.RSIOversold >= c.Signals.RSIOverbought {
		return fmt.Errorf("signals.rsi_oversold must be below rsi_overbought: %w", apperrors.ErrConfigInvalid)
	}
	if c.Signals.FastMAPeriod >= c.Signals.SlowMAPeriod {
		return fmt.Errorf("signals.fast_ma_period must be below slow_ma_period: %w", apperrors.ErrConfigInvalid)
	}
	wsum := c.Fundamentals.WeightValuation + c.Fundamentals.WeightProfitability +
		c.Fundamentals.WeightGrowth + c.Fundamentals.WeightHealth
	if wsum <= 0 {
		return fmt.Errorf("fundamentals weights must sum to a positive value: %w", apperrors.ErrConfigInvalid)
	}
	if c.Valuation.TerminalGrowth >= c.Valuation.MarketReturn {
		return fmt.Errorf("valuation.terminal_growth must be below market_return: %w", apperrors.ErrConfigInvalid)
	}
	if c.Valuation.ProjectionYears < 1 {
		return fmt.Errorf("valuation.projection_years must be positive: %w", apperrors.ErrConfigInvalid)
	}
	if c.Decision.TechnicalWeight < 0 || c.Decision.FundamentalWeight < 0 {
		return fmt.Errorf("decision weights must be non-negative: %w", apperrors.ErrConfigInvalid)
	}
	if c.Decision.TechnicalWeight+c.Decision.FundamentalWeight <= 0 {
		return fmt.Errorf("decision weights must sum to a positive value: %w", apperrors.ErrConfigInvalid)
	}
	if c.Decision.ActionThreshold <= 0 || c.Decision.ActionThreshold >= 1 {
		return fmt.Errorf("decision.action_threshold must be in (0, 1): %w", apperrors.ErrConfigInvalid)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must be set: %w", apperrors.ErrConfigInvalid)
	}
	return nil
}
