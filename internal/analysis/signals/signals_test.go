package signals

import (
	"context"
	"testing"
	"time"

	"stock-advisor/internal/analysis"
	"stock-advisor/internal/analysis/indicators"
	"stock-advisor/internal/config"
	"stock-advisor/internal/models"
	"stock-advisor/internal/series"
)

func signalsConfig() config.SignalsConfig {
	return config.SignalsConfig{
		RSIOverbought:  70,
		RSIOversold:    30,
		VolumeSpikeMin: 1.5,
		FastMAPeriod:   50,
		SlowMAPeriod:   200,
	}
}

func indicatorsConfig() config.IndicatorsConfig {
	return config.IndicatorsConfig{
		Enabled:         []string{"sma", "rsi", "macd", "bollinger", "volume_sma"},
		Workers:         2,
		RSIPeriod:       14,
		SMAPeriods:      []int{20, 50, 200},
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerPeriod: 20,
		BollingerStdDev: 2.0,
		VolumeSMAPeriod: 20,
	}
}

func signalBar(i int, open, close float64, volume int64) models.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	high, low := open, close
	if close > open {
		high, low = close, open
	}
	return models.Bar{
		Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
		Open:      open, High: high, Low: low, Close: close,
		Volume: volume,
	}
}

func flatBars(n int, price float64) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = signalBar(i, price, price, 10000)
	}
	return bars
}

func generate(t *testing.T, bars []models.Bar) []analysis.Signal {
	t.Helper()
	s, err := series.New(bars)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	set, err := indicators.NewEngineFromConfig(indicatorsConfig()).Calculate(context.Background(), s)
	if err != nil {
		t.Fatalf("indicators: %v", err)
	}
	return NewGenerator(signalsConfig(), indicatorsConfig()).Generate(s, set)
}

func family(found []analysis.Signal, name string) *analysis.Signal {
	for i := range found {
		if found[i].Family == name {
			return &found[i]
		}
	}
	return nil
}

func TestFlatSeriesHasNoCrossOrBreakSignals(t *testing.T) {
	found := generate(t, flatBars(60, 100))

	for _, f := range []string{FamilyMACD, FamilyMA, FamilyBollinger, FamilyVolume} {
		if sig := family(found, f); sig != nil {
			t.Errorf("flat series produced %s signal %q", f, sig.Name)
		}
	}
}

func TestDecliningSeriesTriggersRSIOversold(t *testing.T) {
	bars := make([]models.Bar, 60)
	price := 200.0
	for i := range bars {
		bars[i] = signalBar(i, price, price-1, 10000)
		price -= 1
	}

	found := generate(t, bars)
	sig := family(found, FamilyRSI)
	if sig == nil {
		t.Fatal("no RSI signal on a steady decline")
	}
	if sig.Name != "rsi_oversold" || sig.Direction != analysis.Buy {
		t.Errorf("got %q %s, want rsi_oversold buy", sig.Name, sig.Direction)
	}
	if sig.Strength != 1 {
		t.Errorf("strength = %.2f, want 1 at RSI 0", sig.Strength)
	}
}

func TestJumpAfterFlatTriggersMACDBullishCross(t *testing.T) {
	bars := flatBars(45, 100)
	bars = append(bars, signalBar(45, 100, 105, 10000))

	found := generate(t, bars)
	sig := family(found, FamilyMACD)
	if sig == nil {
		t.Fatal("no MACD signal after an upward jump")
	}
	if sig.Name != "macd_bullish_cross" || sig.Direction != analysis.Buy {
		t.Errorf("got %q %s, want macd_bullish_cross buy", sig.Name, sig.Direction)
	}
}

func TestDropBelowLowerBandTriggersBollingerBuy(t *testing.T) {
	bars := flatBars(25, 100)
	bars = append(bars, signalBar(25, 100, 95, 10000))

	found := generate(t, bars)
	sig := family(found, FamilyBollinger)
	if sig == nil {
		t.Fatal("no Bollinger signal after a break below the lower band")
	}
	if sig.Name != "bollinger_lower_break" || sig.Direction != analysis.Buy {
		t.Errorf("got %q %s, want bollinger_lower_break buy", sig.Name, sig.Direction)
	}
}

func TestVolumeSpikeOnUpBar(t *testing.T) {
	bars := flatBars(30, 100)
	bars = append(bars, signalBar(30, 100, 101, 50000))

	found := generate(t, bars)
	sig := family(found, FamilyVolume)
	if sig == nil {
		t.Fatal("no volume signal on a 5x spike")
	}
	if sig.Name != "volume_spike_confirm" || sig.Direction != analysis.Buy {
		t.Errorf("got %q %s, want volume_spike_confirm buy", sig.Name, sig.Direction)
	}
}

func TestSignalStrengthsWithinUnitRange(t *testing.T) {
	scenarios := [][]models.Bar{
		flatBars(60, 100),
		append(flatBars(45, 100), signalBar(45, 100, 105, 10000)),
		append(flatBars(25, 100), signalBar(25, 100, 95, 50000)),
	}
	for _, bars := range scenarios {
		for _, sig := range generate(t, bars) {
			if sig.Strength < 0 || sig.Strength > 1 {
				t.Errorf("%s strength %.4f outside [0, 1]", sig.Name, sig.Strength)
			}
		}
	}
}

func TestFromPatternsSkipsStalePatterns(t *testing.T) {
	patterns := []analysis.Pattern{
		{Name: "bullish_engulfing", Type: analysis.Candlestick, Direction: analysis.Bullish, EndIndex: 99, Confidence: 0.8},
		{Name: "double_top", Type: analysis.Chart, Direction: analysis.Bearish, EndIndex: 50, Confidence: 0.75},
	}

	out := FromPatterns(patterns, 100)
	if len(out) != 1 {
		t.Fatalf("got %d signals, want only the recent pattern", len(out))
	}
	if out[0].Name != "bullish_engulfing" || out[0].Direction != analysis.Buy {
		t.Errorf("got %q %s, want bullish_engulfing buy", out[0].Name, out[0].Direction)
	}
	if out[0].Strength != 0.8 {
		t.Errorf("strength = %.2f, want pattern confidence 0.8", out[0].Strength)
	}
}

func TestFromLevelsUsesProximity(t *testing.T) {
	lvls := []analysis.Level{
		{Price: 99, Kind: analysis.Support, Strength: 5},
		{Price: 120, Kind: analysis.Resistance, Strength: 8},
	}

	out := FromLevels(lvls, 100)
	if len(out) != 1 {
		t.Fatalf("got %d signals, want only the nearby level", len(out))
	}
	if out[0].Name != "near_support" || out[0].Direction != analysis.Buy {
		t.Errorf("got %q %s, want near_support buy", out[0].Name, out[0].Direction)
	}
	if out[0].Strength != 0.5 {
		t.Errorf("strength = %.2f, want touches/10 = 0.5", out[0].Strength)
	}
}
