package patterns

import (
	"testing"
	"time"

	"stock-advisor/internal/analysis"
	"stock-advisor/internal/config"
	"stock-advisor/internal/models"
	"stock-advisor/internal/series"
)

func patternsConfig() config.PatternsConfig {
	return config.PatternsConfig{
		Candlestick:        true,
		Chart:              true,
		VolumeConfirmRatio: 1.5,
		VolumeBoost:        1.2,
		SwingStrength:      3,
		ShoulderTolerance:  0.10,
		DoubleTolerance:    0.05,
		MaxLookback:        250,
	}
}

func mkBar(i int, open, high, low, close float64, volume int64) models.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return models.Bar{
		Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
		Open:      open, High: high, Low: low, Close: close,
		Volume: volume,
	}
}

// downtrendBars produces a clean decline so reversal rules see a downtrend.
func downtrendBars(n int, start float64) []models.Bar {
	bars := make([]models.Bar, n)
	price := start
	for i := 0; i < n; i++ {
		bars[i] = mkBar(i, price, price+0.5, price-2.5, price-2, 10000)
		price -= 2
	}
	return bars
}

func findPattern(found []analysis.Pattern, name string) *analysis.Pattern {
	for i := range found {
		if found[i].Name == name {
			return &found[i]
		}
	}
	return nil
}

func TestBullishEngulfingDetected(t *testing.T) {
	bars := downtrendBars(8, 120)
	n := len(bars)
	// A bearish bar fully engulfed by the next bullish bar.
	bars = append(bars,
		mkBar(n, 104, 104.5, 101.5, 102, 10000),
		mkBar(n+1, 101, 106.5, 100.5, 106, 10000),
	)

	s, err := series.New(bars)
	if err != nil {
		t.Fatalf("series: %v", err)
	}

	d := NewCandlestickDetector(patternsConfig())
	found := d.Detect(s)

	p := findPattern(found, "bullish_engulfing")
	if p == nil {
		t.Fatalf("bullish_engulfing not detected, got %d patterns", len(found))
	}
	if p.Direction != analysis.Bullish {
		t.Errorf("direction = %s, want bullish", p.Direction)
	}
	if p.EndIndex != len(bars)-1 {
		t.Errorf("end index = %d, want %d", p.EndIndex, len(bars)-1)
	}
	if p.Confidence <= 0 || p.Confidence > 1 {
		t.Errorf("confidence = %.2f, want (0, 1]", p.Confidence)
	}
}

func TestVolumeConfirmationBoostsConfidence(t *testing.T) {
	build := func(volume int64) *series.Series {
		bars := downtrendBars(25, 160)
		n := len(bars)
		bars = append(bars,
			mkBar(n, 104, 104.5, 101.5, 102, 10000),
			mkBar(n+1, 101, 106.5, 100.5, 106, volume),
		)
		s, err := series.New(bars)
		if err != nil {
			t.Fatalf("series: %v", err)
		}
		return s
	}

	d := NewCandlestickDetector(patternsConfig())

	quiet := findPattern(d.Detect(build(10000)), "bullish_engulfing")
	loud := findPattern(d.Detect(build(50000)), "bullish_engulfing")
	if quiet == nil || loud == nil {
		t.Fatal("bullish_engulfing not detected in both variants")
	}
	if quiet.VolumeConfirm {
		t.Error("average volume should not confirm")
	}
	if !loud.VolumeConfirm {
		t.Error("5x volume should confirm")
	}
	if loud.Confidence <= quiet.Confidence {
		t.Errorf("confirmed confidence %.2f should exceed unconfirmed %.2f",
			loud.Confidence, quiet.Confidence)
	}
	if loud.Confidence > 1 {
		t.Errorf("confidence %.2f exceeds 1", loud.Confidence)
	}
}

func TestDojiDetected(t *testing.T) {
	bars := []models.Bar{
		mkBar(0, 100, 101, 99, 100.5, 10000),
		mkBar(1, 100.5, 103, 98, 100.55, 10000),
	}
	s, err := series.New(bars)
	if err != nil {
		t.Fatalf("series: %v", err)
	}

	d := NewCandlestickDetector(patternsConfig())
	found := d.Detect(s)

	if findPattern(found, "doji") == nil && findPattern(found, "rickshaw_man") == nil {
		t.Fatalf("no doji variant detected, got %v", names(found))
	}
}

func TestHammerRequiresDowntrend(t *testing.T) {
	hammer := func(i int) models.Bar {
		// Small body at the top, long lower shadow.
		return mkBar(i, 100, 100.6, 96, 100.5, 10000)
	}

	down := downtrendBars(8, 130)
	down = append(down, hammer(len(down)))
	sDown, err := series.New(down)
	if err != nil {
		t.Fatalf("series: %v", err)
	}

	d := NewCandlestickDetector(patternsConfig())
	if findPattern(d.Detect(sDown), "hammer") == nil {
		t.Error("hammer not detected after a downtrend")
	}

	// Same bar with no preceding history has no trend context.
	sFlat, err := series.New([]models.Bar{mkBar(0, 100, 101, 99, 100.2, 10000), hammer(1)})
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if findPattern(d.Detect(sFlat), "hammer") != nil {
		t.Error("hammer should need a downtrend before it")
	}
}

func TestOnePatternPerEndBar(t *testing.T) {
	bars := downtrendBars(30, 200)
	s, err := series.New(bars)
	if err != nil {
		t.Fatalf("series: %v", err)
	}

	d := NewCandlestickDetector(patternsConfig())
	found := d.Detect(s)

	seen := map[int]bool{}
	for _, p := range found {
		if seen[p.EndIndex] {
			t.Fatalf("two patterns share end bar %d", p.EndIndex)
		}
		seen[p.EndIndex] = true
	}
}

func TestMostRecentFirstOrdering(t *testing.T) {
	bars := downtrendBars(30, 200)
	s, err := series.New(bars)
	if err != nil {
		t.Fatalf("series: %v", err)
	}

	d := NewCandlestickDetector(patternsConfig())
	found := d.Detect(s)
	for i := 1; i < len(found); i++ {
		if found[i].EndIndex > found[i-1].EndIndex {
			t.Fatalf("patterns out of order at %d: %d after %d",
				i, found[i].EndIndex, found[i-1].EndIndex)
		}
	}
}

func names(patterns []analysis.Pattern) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = p.Name
	}
	return out
}
