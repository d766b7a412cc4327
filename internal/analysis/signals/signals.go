// Package signals turns indicator readings, patterns, and levels into
// discrete trading signals.
package signals

import (
	"fmt"
	"math"

	"stock-advisor/internal/analysis"
	"stock-advisor/internal/analysis/indicators"
	"stock-advisor/internal/config"
	"stock-advisor/internal/series"
)

// Signal family names. The recommendation aggregator weights these.
const (
	FamilyRSI       = "rsi"
	FamilyMACD      = "macd"
	FamilyBollinger = "bollinger"
	FamilyMA        = "ma_cross"
	FamilyVolume    = "volume"
	FamilyPattern   = "pattern"
	FamilyLevel     = "level"
)

// Generator produces signals from the computed indicator set.
type Generator struct {
	cfg config.SignalsConfig

	rsiName       string
	volumeSMAName string
	fastMAName    string
	slowMAName    string
	fallbackFast  string
	fallbackSlow  string
}

// NewGenerator creates a generator. Indicator configuration is needed to
// resolve period-suffixed indicator names.
func NewGenerator(cfg config.SignalsConfig, ind config.IndicatorsConfig) *Generator {
	return &Generator{
		cfg:           cfg,
		rsiName:       fmt.Sprintf("rsi_%d", ind.RSIPeriod),
		volumeSMAName: fmt.Sprintf("volume_sma_%d", ind.VolumeSMAPeriod),
		fastMAName:    fmt.Sprintf("sma_%d", cfg.FastMAPeriod),
		slowMAName:    fmt.Sprintf("sma_%d", cfg.SlowMAPeriod),
		fallbackFast:  "sma_20",
		fallbackSlow:  "sma_50",
	}
}

type checker func(s *series.Series, set *indicators.Set) *analysis.Signal

// Generate evaluates every signal family against the series. Families whose
// inputs are unavailable or that see no setup are simply absent.
func (g *Generator) Generate(s *series.Series, set *indicators.Set) []analysis.Signal {
	checks := []checker{
		g.rsiSignal,
		g.macdSignal,
		g.bollingerSignal,
		g.maCrossSignal,
		g.volumeSignal,
	}

	var out []analysis.Signal
	for _, check := range checks {
		if sig := check(s, set); sig != nil {
			out = append(out, *sig)
		}
	}
	return out
}

func (g *Generator) rsiSignal(s *series.Series, set *indicators.Set) *analysis.Signal {
	seq, ok := set.Sequence(g.rsiName)
	if !ok {
		return nil
	}
	rsi, ok := seq.Last()
	if !ok {
		return nil
	}

	switch {
	case rsi <= g.cfg.RSIOversold:
		strength := clamp((g.cfg.RSIOversold-rsi)/g.cfg.RSIOversold, 0, 1)
		return &analysis.Signal{
			Name:      "rsi_oversold",
			Family:    FamilyRSI,
			Direction: analysis.Buy,
			Strength:  strength,
			Rationale: fmt.Sprintf("RSI %.1f at or below %.0f", rsi, g.cfg.RSIOversold),
		}
	case rsi >= g.cfg.RSIOverbought:
		strength := clamp((rsi-g.cfg.RSIOverbought)/(100-g.cfg.RSIOverbought), 0, 1)
		return &analysis.Signal{
			Name:      "rsi_overbought",
			Family:    FamilyRSI,
			Direction: analysis.Sell,
			Strength:  strength,
			Rationale: fmt.Sprintf("RSI %.1f at or above %.0f", rsi, g.cfg.RSIOverbought),
		}
	}
	return nil
}

func (g *Generator) macdSignal(s *series.Series, set *indicators.Set) *analysis.Signal {
	macdSeq, ok1 := set.Component("macd", "macd")
	signalSeq, ok2 := set.Component("macd", "signal")
	if !ok1 || !ok2 {
		return nil
	}

	last := s.Len() - 1
	macdNow, ok1 := macdSeq.At(last)
	macdPrev, ok2 := macdSeq.At(last - 1)
	sigNow, ok3 := signalSeq.At(last)
	sigPrev, ok4 := signalSeq.At(last - 1)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil
	}

	lastClose := s.Last().Close
	if lastClose <= 0 {
		return nil
	}
	strength := clamp(math.Abs(macdNow-sigNow)/(0.01*lastClose), 0, 1)

	switch {
	case macdPrev <= sigPrev && macdNow > sigNow:
		return &analysis.Signal{
			Name:      "macd_bullish_cross",
			Family:    FamilyMACD,
			Direction: analysis.Buy,
			Strength:  strength,
			Rationale: "MACD line crossed above signal line",
		}
	case macdPrev >= sigPrev && macdNow < sigNow:
		return &analysis.Signal{
			Name:      "macd_bearish_cross",
			Family:    FamilyMACD,
			Direction: analysis.Sell,
			Strength:  strength,
			Rationale: "MACD line crossed below signal line",
		}
	}
	return nil
}

func (g *Generator) bollingerSignal(s *series.Series, set *indicators.Set) *analysis.Signal {
	upperSeq, ok1 := set.Component("bollinger", "upper")
	lowerSeq, ok2 := set.Component("bollinger", "lower")
	if !ok1 || !ok2 {
		return nil
	}
	upper, ok1 := upperSeq.Last()
	lower, ok2 := lowerSeq.Last()
	if !ok1 || !ok2 {
		return nil
	}
	band := upper - lower
	if band <= 0 {
		return nil
	}

	lastClose := s.Last().Close
	switch {
	case lastClose < lower:
		strength := clamp(0.5+(lower-lastClose)/band, 0, 1)
		return &analysis.Signal{
			Name:      "bollinger_lower_break",
			Family:    FamilyBollinger,
			Direction: analysis.Buy,
			Strength:  strength,
			Rationale: fmt.Sprintf("close %.2f below lower band %.2f", lastClose, lower),
		}
	case lastClose > upper:
		strength := clamp(0.5+(lastClose-upper)/band, 0, 1)
		return &analysis.Signal{
			Name:      "bollinger_upper_break",
			Family:    FamilyBollinger,
			Direction: analysis.Sell,
			Strength:  strength,
			Rationale: fmt.Sprintf("close %.2f above upper band %.2f", lastClose, upper),
		}
	}
	return nil
}

func (g *Generator) maCrossSignal(s *series.Series, set *indicators.Set) *analysis.Signal {
	fastSeq, ok1 := set.Sequence(g.fastMAName)
	slowSeq, ok2 := set.Sequence(g.slowMAName)
	crossName := "golden_cross"
	deathName := "death_cross"
	if !ok1 || !ok2 {
		// Shorter series fall back to a faster pair.
		fastSeq, ok1 = set.Sequence(g.fallbackFast)
		slowSeq, ok2 = set.Sequence(g.fallbackSlow)
		if !ok1 || !ok2 {
			return nil
		}
		crossName = "ma_bullish_cross"
		deathName = "ma_bearish_cross"
	}

	last := s.Len() - 1
	fastNow, ok1 := fastSeq.At(last)
	fastPrev, ok2 := fastSeq.At(last - 1)
	slowNow, ok3 := slowSeq.At(last)
	slowPrev, ok4 := slowSeq.At(last - 1)
	if !ok1 || !ok2 || !ok3 || !ok4 || slowNow <= 0 {
		return nil
	}

	separation := math.Abs(fastNow-slowNow) / slowNow
	strength := clamp(0.6+20*separation, 0, 1)

	switch {
	case fastPrev <= slowPrev && fastNow > slowNow:
		return &analysis.Signal{
			Name:      crossName,
			Family:    FamilyMA,
			Direction: analysis.Buy,
			Strength:  strength,
			Rationale: "fast moving average crossed above slow",
		}
	case fastPrev >= slowPrev && fastNow < slowNow:
		return &analysis.Signal{
			Name:      deathName,
			Family:    FamilyMA,
			Direction: analysis.Sell,
			Strength:  strength,
			Rationale: "fast moving average crossed below slow",
		}
	}
	return nil
}

func (g *Generator) volumeSignal(s *series.Series, set *indicators.Set) *analysis.Signal {
	seq, ok := set.Sequence(g.volumeSMAName)
	if !ok {
		return nil
	}
	avg, ok := seq.Last()
	if !ok || avg <= 0 {
		return nil
	}

	last := s.Last()
	ratio := float64(last.Volume) / avg
	if ratio < g.cfg.VolumeSpikeMin {
		return nil
	}

	strength := clamp((ratio-1)/2, 0, 1)
	if last.IsBullish() {
		return &analysis.Signal{
			Name:      "volume_spike_confirm",
			Family:    FamilyVolume,
			Direction: analysis.Buy,
			Strength:  strength,
			Rationale: fmt.Sprintf("volume %.1fx average on an up bar", ratio),
		}
	}
	if last.IsBearish() {
		return &analysis.Signal{
			Name:      "volume_spike_diverge",
			Family:    FamilyVolume,
			Direction: analysis.Sell,
			Strength:  strength,
			Rationale: fmt.Sprintf("volume %.1fx average on a down bar", ratio),
		}
	}
	return nil
}

// FromPatterns converts recent confirmed patterns into informational
// signals. Only patterns ending within the last few bars carry weight.
func FromPatterns(patterns []analysis.Pattern, seriesLen int) []analysis.Signal {
	const recency = 3
	var out []analysis.Signal
	for _, p := range patterns {
		if p.EndIndex < seriesLen-recency {
			continue
		}
		var dir analysis.SignalDirection
		switch p.Direction {
		case analysis.Bullish:
			dir = analysis.Buy
		case analysis.Bearish:
			dir = analysis.Sell
		default:
			dir = analysis.NoSignal
		}
		out = append(out, analysis.Signal{
			Name:      p.Name,
			Family:    FamilyPattern,
			Direction: dir,
			Strength:  p.Confidence,
			Rationale: fmt.Sprintf("%s pattern ending at bar %d", p.Type, p.EndIndex),
		})
	}
	return out
}

// FromLevels reports when the last close sits near a strong level.
func FromLevels(lvls []analysis.Level, lastClose float64) []analysis.Signal {
	const proximity = 0.02
	var out []analysis.Signal
	for _, l := range lvls {
		if lastClose <= 0 {
			continue
		}
		dist := math.Abs(lastClose-l.Price) / lastClose
		if dist > proximity {
			continue
		}
		strength := clamp(float64(l.Strength)/10, 0, 1)
		if l.Kind == analysis.Support {
			out = append(out, analysis.Signal{
				Name:      "near_support",
				Family:    FamilyLevel,
				Direction: analysis.Buy,
				Strength:  strength,
				Rationale: fmt.Sprintf("close within %.1f%% of support %.2f (%d touches)", dist*100, l.Price, l.Strength),
			})
		} else {
			out = append(out, analysis.Signal{
				Name:      "near_resistance",
				Family:    FamilyLevel,
				Direction: analysis.Sell,
				Strength:  strength,
				Rationale: fmt.Sprintf("close within %.1f%% of resistance %.2f (%d touches)", dist*100, l.Price, l.Strength),
			})
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
