package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# stock-advisor configuration

[indicators]
workers = 4
rsi_period = 14
sma_periods = [5, 10, 20, 50, 100, 200]
ema_periods = [12, 26, 50, 200]
wma_periods = [20]
macd_fast = 12
macd_slow = 26
macd_signal = 9
bollinger_period = 20
bollinger_std_dev = 2.0
atr_period = 14
adx_period = 14
stochastic_k = 14
stochastic_d = 3
cci_period = 20
williams_r_period = 14
roc_period = 12
momentum_period = 10
mfi_period = 14
volume_sma_period = 20
sar_acceleration = 0.02
sar_max_accel = 0.2

[patterns]
candlestick = true
chart = true
volume_confirm_ratio = 1.5
volume_boost = 1.2
swing_strength = 3
shoulder_tolerance = 0.10
double_tolerance = 0.05
max_lookback = 250

[levels]
min_points = 3
atr_multiple = 1.0
swing_strength = 3
max_levels = 10

[signals]
rsi_overbought = 70.0
rsi_oversold = 30.0
volume_spike_min = 1.5
fast_ma_period = 50
slow_ma_period = 200
weight_rsi = 0.20
weight_macd = 0.25
weight_bollinger = 0.20
weight_ma = 0.25
weight_volume = 0.10

[fundamentals]
weight_valuation = 0.25
weight_profitability = 0.25
weight_growth = 0.25
weight_health = 0.25

[valuation]
risk_free_rate = 0.045
market_return = 0.095
terminal_growth = 0.025
projection_years = 5
max_growth_rate = 0.25
default_beta = 1.0

[decision]
technical_weight = 0.5
fundamental_weight = 0.5
action_threshold = 0.3
single_branch_cap = 0.75
valuation_nudge = 0.2

[store]
# path = "~/.config/stock-advisor/advisor.db"

[logging]
level = "info"
console = true
file = true
max_size = 100
max_backups = 7
max_age = 30
`

// WriteTemplate writes a commented default config file into dir, creating
// the directory if needed. Existing files are never overwritten.
func WriteTemplate(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0644)
}
