// Package patterns detects candlestick formations and multi-bar chart
// structures over a bar series.
package patterns

import (
	"math"

	"stock-advisor/internal/analysis"
	"stock-advisor/internal/config"
	"stock-advisor/internal/models"
	"stock-advisor/internal/series"
)

// CandlestickDetector scans a series for candlestick formations. At most
// one pattern is reported per end bar; the rule table is ordered so that
// the most specific formation wins.
type CandlestickDetector struct {
	confirmRatio float64
	boost        float64
	rules        []candleRule
}

// NewCandlestickDetector creates a detector with the configured volume
// confirmation thresholds.
func NewCandlestickDetector(cfg config.PatternsConfig) *CandlestickDetector {
	return &CandlestickDetector{
		confirmRatio: cfg.VolumeConfirmRatio,
		boost:        cfg.VolumeBoost,
		rules:        candleRules,
	}
}

// Detect returns all candlestick patterns in the series, most recent first.
func (d *CandlestickDetector) Detect(s *series.Series) []analysis.Pattern {
	bars := s.Bars()
	var found []analysis.Pattern

	for end := len(bars) - 1; end >= 0; end-- {
		p := d.detectAt(bars, end)
		if p != nil {
			found = append(found, *p)
		}
	}
	return found
}

func (d *CandlestickDetector) detectAt(bars []models.Bar, end int) *analysis.Pattern {
	for _, rule := range d.rules {
		start := end - rule.bars + 1
		if start < 0 {
			continue
		}
		c := newCandleCtx(bars, start, end)
		if !rule.match(c) {
			continue
		}

		p := &analysis.Pattern{
			Name:       rule.name,
			Type:       analysis.Candlestick,
			Direction:  rule.direction,
			StartIndex: start,
			EndIndex:   end,
			Confidence: rule.confidence,
		}
		if d.volumeConfirmed(bars, end) {
			p.VolumeConfirm = true
			p.Confidence = math.Min(p.Confidence*d.boost, 1.0)
		}
		return p
	}
	return nil
}

// volumeConfirmed reports whether the end bar's volume exceeds the
// configured multiple of the recent average.
func (d *CandlestickDetector) volumeConfirmed(bars []models.Bar, end int) bool {
	const window = 20
	start := end - window
	if start < 0 {
		start = 0
	}
	if end == start {
		return false
	}
	var sum float64
	for _, b := range bars[start:end] {
		sum += float64(b.Volume)
	}
	avg := sum / float64(end-start)
	return avg > 0 && float64(bars[end].Volume) >= d.confirmRatio*avg
}

// candleCtx gives a rule its window plus the trend context preceding it.
type candleCtx struct {
	w         []models.Bar
	uptrend   bool
	downtrend bool
}

func newCandleCtx(bars []models.Bar, start, end int) candleCtx {
	c := candleCtx{w: bars[start : end+1]}
	const trendBars = 5
	if start >= trendBars {
		before := bars[start-1].Close
		earlier := bars[start-trendBars].Close
		c.uptrend = before > earlier
		c.downtrend = before < earlier
	}
	return c
}

type candleRule struct {
	name       string
	bars       int
	direction  analysis.Direction
	confidence float64
	match      func(c candleCtx) bool
}

func body(b models.Bar) float64 {
	return math.Abs(b.Close - b.Open)
}

func upperShadow(b models.Bar) float64 {
	return b.High - math.Max(b.Open, b.Close)
}

func lowerShadow(b models.Bar) float64 {
	return math.Min(b.Open, b.Close) - b.Low
}

func isDoji(b models.Bar) bool {
	r := b.Range()
	return r > 0 && body(b) <= 0.1*r
}

func longBody(b models.Bar) bool {
	r := b.Range()
	return r > 0 && body(b) >= 0.6*r
}

func smallBody(b models.Bar) bool {
	r := b.Range()
	return r > 0 && body(b) <= 0.3*r
}

func isMarubozu(b models.Bar) bool {
	r := b.Range()
	return r > 0 && body(b) >= 0.95*r
}

func gapUp(prev, cur models.Bar) bool {
	return cur.Low > prev.High
}

func gapDown(prev, cur models.Bar) bool {
	return cur.High < prev.Low
}

func bodyGapUp(prev, cur models.Bar) bool {
	return math.Min(cur.Open, cur.Close) > math.Max(prev.Open, prev.Close)
}

func bodyGapDown(prev, cur models.Bar) bool {
	return math.Max(cur.Open, cur.Close) < math.Min(prev.Open, prev.Close)
}

// insideBody reports whether inner's body sits inside outer's body.
func insideBody(outer, inner models.Bar) bool {
	outerHigh := math.Max(outer.Open, outer.Close)
	outerLow := math.Min(outer.Open, outer.Close)
	innerHigh := math.Max(inner.Open, inner.Close)
	innerLow := math.Min(inner.Open, inner.Close)
	return innerHigh < outerHigh && innerLow > outerLow
}

func engulfsBody(outer, inner models.Bar) bool {
	outerHigh := math.Max(outer.Open, outer.Close)
	outerLow := math.Min(outer.Open, outer.Close)
	innerHigh := math.Max(inner.Open, inner.Close)
	innerLow := math.Min(inner.Open, inner.Close)
	return outerHigh > innerHigh && outerLow < innerLow
}

// near reports whether a and b differ by at most tol of the reference span.
func near(a, b, span float64) bool {
	if span <= 0 {
		return a == b
	}
	return math.Abs(a-b) <= 0.03*span
}

func midpoint(b models.Bar) float64 {
	return (b.Open + b.Close) / 2
}

// candleRules is ordered most specific first: five-bar continuations, then
// three-bar reversals, two-bar formations, and finally single-bar shapes.
var candleRules = []candleRule{
	{
		name: "rising_three_methods", bars: 5, direction: analysis.Bullish, confidence: 0.80,
		match: func(c candleCtx) bool {
			first, last := c.w[0], c.w[4]
			if !c.uptrend || !first.IsBullish() || !longBody(first) || !last.IsBullish() {
				return false
			}
			for _, b := range c.w[1:4] {
				if !smallBody(b) || b.High > first.High || b.Low < first.Low {
					return false
				}
			}
			return last.Close > first.Close
		},
	},
	{
		name: "falling_three_methods", bars: 5, direction: analysis.Bearish, confidence: 0.80,
		match: func(c candleCtx) bool {
			first, last := c.w[0], c.w[4]
			if !c.downtrend || !first.IsBearish() || !longBody(first) || !last.IsBearish() {
				return false
			}
			for _, b := range c.w[1:4] {
				if !smallBody(b) || b.High > first.High || b.Low < first.Low {
					return false
				}
			}
			return last.Close < first.Close
		},
	},
	{
		name: "bullish_three_line_strike", bars: 4, direction: analysis.Bullish, confidence: 0.75,
		match: func(c candleCtx) bool {
			a, b, d, e := c.w[0], c.w[1], c.w[2], c.w[3]
			if !a.IsBullish() || !b.IsBullish() || !d.IsBullish() {
				return false
			}
			if !(b.Close > a.Close && d.Close > b.Close) {
				return false
			}
			return e.IsBearish() && e.Open > d.Close && e.Close < a.Open
		},
	},
	{
		name: "bearish_three_line_strike", bars: 4, direction: analysis.Bearish, confidence: 0.75,
		match: func(c candleCtx) bool {
			a, b, d, e := c.w[0], c.w[1], c.w[2], c.w[3]
			if !a.IsBearish() || !b.IsBearish() || !d.IsBearish() {
				return false
			}
			if !(b.Close < a.Close && d.Close < b.Close) {
				return false
			}
			return e.IsBullish() && e.Open < d.Close && e.Close > a.Open
		},
	},
	{
		name: "upside_gap_three_methods", bars: 3, direction: analysis.Bullish, confidence: 0.70,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			if !c.uptrend || !a.IsBullish() || !b.IsBullish() || !bodyGapUp(a, b) {
				return false
			}
			return d.IsBearish() && d.Open > b.Open && d.Close < a.Close+body(a) && d.Close > a.Open
		},
	},
	{
		name: "downside_gap_three_methods", bars: 3, direction: analysis.Bearish, confidence: 0.70,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			if !c.downtrend || !a.IsBearish() || !b.IsBearish() || !bodyGapDown(a, b) {
				return false
			}
			return d.IsBullish() && d.Open < b.Open && d.Close > a.Close-body(a) && d.Close < a.Open
		},
	},
	{
		name: "bullish_abandoned_baby", bars: 3, direction: analysis.Bullish, confidence: 0.95,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			return c.downtrend && a.IsBearish() && longBody(a) &&
				isDoji(b) && gapDown(a, b) && gapUp(b, d) &&
				d.IsBullish() && d.Close > midpoint(a)
		},
	},
	{
		name: "bearish_abandoned_baby", bars: 3, direction: analysis.Bearish, confidence: 0.95,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			return c.uptrend && a.IsBullish() && longBody(a) &&
				isDoji(b) && gapUp(a, b) && gapDown(b, d) &&
				d.IsBearish() && d.Close < midpoint(a)
		},
	},
	{
		name: "morning_doji_star", bars: 3, direction: analysis.Bullish, confidence: 0.90,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			return c.downtrend && a.IsBearish() && longBody(a) &&
				isDoji(b) && bodyGapDown(a, b) &&
				d.IsBullish() && d.Close > midpoint(a)
		},
	},
	{
		name: "evening_doji_star", bars: 3, direction: analysis.Bearish, confidence: 0.90,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			return c.uptrend && a.IsBullish() && longBody(a) &&
				isDoji(b) && bodyGapUp(a, b) &&
				d.IsBearish() && d.Close < midpoint(a)
		},
	},
	{
		name: "morning_star", bars: 3, direction: analysis.Bullish, confidence: 0.85,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			return c.downtrend && a.IsBearish() && longBody(a) &&
				smallBody(b) && bodyGapDown(a, b) &&
				d.IsBullish() && d.Close > midpoint(a)
		},
	},
	{
		name: "evening_star", bars: 3, direction: analysis.Bearish, confidence: 0.85,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			return c.uptrend && a.IsBullish() && longBody(a) &&
				smallBody(b) && bodyGapUp(a, b) &&
				d.IsBearish() && d.Close < midpoint(a)
		},
	},
	{
		name: "three_white_soldiers", bars: 3, direction: analysis.Bullish, confidence: 0.85,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			for _, x := range c.w {
				if !x.IsBullish() || !longBody(x) {
					return false
				}
			}
			return b.Open > a.Open && b.Open < a.Close && b.Close > a.Close &&
				d.Open > b.Open && d.Open < b.Close && d.Close > b.Close
		},
	},
	{
		name: "three_black_crows", bars: 3, direction: analysis.Bearish, confidence: 0.85,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			for _, x := range c.w {
				if !x.IsBearish() || !longBody(x) {
					return false
				}
			}
			return b.Open < a.Open && b.Open > a.Close && b.Close < a.Close &&
				d.Open < b.Open && d.Open > b.Close && d.Close < b.Close
		},
	},
	{
		name: "three_inside_up", bars: 3, direction: analysis.Bullish, confidence: 0.80,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			return c.downtrend && a.IsBearish() && longBody(a) &&
				b.IsBullish() && insideBody(a, b) &&
				d.IsBullish() && d.Close > a.Open
		},
	},
	{
		name: "three_inside_down", bars: 3, direction: analysis.Bearish, confidence: 0.80,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			return c.uptrend && a.IsBullish() && longBody(a) &&
				b.IsBearish() && insideBody(a, b) &&
				d.IsBearish() && d.Close < a.Open
		},
	},
	{
		name: "three_outside_up", bars: 3, direction: analysis.Bullish, confidence: 0.80,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			return c.downtrend && a.IsBearish() &&
				b.IsBullish() && engulfsBody(b, a) &&
				d.IsBullish() && d.Close > b.Close
		},
	},
	{
		name: "three_outside_down", bars: 3, direction: analysis.Bearish, confidence: 0.80,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			return c.uptrend && a.IsBullish() &&
				b.IsBearish() && engulfsBody(b, a) &&
				d.IsBearish() && d.Close < b.Close
		},
	},
	{
		name: "stick_sandwich", bars: 3, direction: analysis.Bullish, confidence: 0.65,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			return c.downtrend && a.IsBearish() && b.IsBullish() && d.IsBearish() &&
				b.Open > a.Close && near(d.Close, a.Close, a.Range())
		},
	},
	{
		name: "advance_block", bars: 3, direction: analysis.Bearish, confidence: 0.60,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			if !c.uptrend || !a.IsBullish() || !b.IsBullish() || !d.IsBullish() {
				return false
			}
			if !(b.Close > a.Close && d.Close > b.Close) {
				return false
			}
			return body(b) < body(a) && body(d) < body(b) &&
				upperShadow(d) > upperShadow(a)
		},
	},
	{
		name: "upside_tasuki_gap", bars: 3, direction: analysis.Bullish, confidence: 0.65,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			return c.uptrend && a.IsBullish() && b.IsBullish() && bodyGapUp(a, b) &&
				d.IsBearish() && d.Open > b.Open && d.Open < b.Close &&
				d.Close < b.Open && d.Close > a.Close
		},
	},
	{
		name: "downside_tasuki_gap", bars: 3, direction: analysis.Bearish, confidence: 0.65,
		match: func(c candleCtx) bool {
			a, b, d := c.w[0], c.w[1], c.w[2]
			return c.downtrend && a.IsBearish() && b.IsBearish() && bodyGapDown(a, b) &&
				d.IsBullish() && d.Open < b.Open && d.Open > b.Close &&
				d.Close > b.Open && d.Close < a.Close
		},
	},
	{
		name: "bullish_kicking", bars: 2, direction: analysis.Bullish, confidence: 0.90,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return a.IsBearish() && isMarubozu(a) &&
				b.IsBullish() && isMarubozu(b) && gapUp(a, b)
		},
	},
	{
		name: "bearish_kicking", bars: 2, direction: analysis.Bearish, confidence: 0.90,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return a.IsBullish() && isMarubozu(a) &&
				b.IsBearish() && isMarubozu(b) && gapDown(a, b)
		},
	},
	{
		name: "bullish_engulfing", bars: 2, direction: analysis.Bullish, confidence: 0.80,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.downtrend && a.IsBearish() && b.IsBullish() && engulfsBody(b, a)
		},
	},
	{
		name: "bearish_engulfing", bars: 2, direction: analysis.Bearish, confidence: 0.80,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.uptrend && a.IsBullish() && b.IsBearish() && engulfsBody(b, a)
		},
	},
	{
		name: "bullish_harami_cross", bars: 2, direction: analysis.Bullish, confidence: 0.70,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.downtrend && a.IsBearish() && longBody(a) && isDoji(b) && insideBody(a, b)
		},
	},
	{
		name: "bearish_harami_cross", bars: 2, direction: analysis.Bearish, confidence: 0.70,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.uptrend && a.IsBullish() && longBody(a) && isDoji(b) && insideBody(a, b)
		},
	},
	{
		name: "bullish_harami", bars: 2, direction: analysis.Bullish, confidence: 0.65,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.downtrend && a.IsBearish() && longBody(a) && b.IsBullish() && insideBody(a, b)
		},
	},
	{
		name: "bearish_harami", bars: 2, direction: analysis.Bearish, confidence: 0.65,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.uptrend && a.IsBullish() && longBody(a) && b.IsBearish() && insideBody(a, b)
		},
	},
	{
		name: "piercing_line", bars: 2, direction: analysis.Bullish, confidence: 0.75,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.downtrend && a.IsBearish() && longBody(a) &&
				b.IsBullish() && b.Open < a.Low &&
				b.Close > midpoint(a) && b.Close < a.Open
		},
	},
	{
		name: "dark_cloud_cover", bars: 2, direction: analysis.Bearish, confidence: 0.75,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.uptrend && a.IsBullish() && longBody(a) &&
				b.IsBearish() && b.Open > a.High &&
				b.Close < midpoint(a) && b.Close > a.Open
		},
	},
	{
		name: "tweezer_bottom", bars: 2, direction: analysis.Bullish, confidence: 0.60,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.downtrend && a.IsBearish() && b.IsBullish() &&
				near(a.Low, b.Low, a.Range())
		},
	},
	{
		name: "tweezer_top", bars: 2, direction: analysis.Bearish, confidence: 0.60,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.uptrend && a.IsBullish() && b.IsBearish() &&
				near(a.High, b.High, a.Range())
		},
	},
	{
		name: "matching_low", bars: 2, direction: analysis.Bullish, confidence: 0.60,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.downtrend && a.IsBearish() && b.IsBearish() &&
				near(a.Close, b.Close, a.Range())
		},
	},
	{
		name: "homing_pigeon", bars: 2, direction: analysis.Bullish, confidence: 0.60,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.downtrend && a.IsBearish() && longBody(a) &&
				b.IsBearish() && insideBody(a, b)
		},
	},
	{
		name: "bullish_counterattack", bars: 2, direction: analysis.Bullish, confidence: 0.65,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.downtrend && a.IsBearish() && longBody(a) &&
				b.IsBullish() && longBody(b) && b.Open < a.Close &&
				near(b.Close, a.Close, a.Range())
		},
	},
	{
		name: "bearish_counterattack", bars: 2, direction: analysis.Bearish, confidence: 0.65,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.uptrend && a.IsBullish() && longBody(a) &&
				b.IsBearish() && longBody(b) && b.Open > a.Close &&
				near(b.Close, a.Close, a.Range())
		},
	},
	{
		name: "bullish_separating_lines", bars: 2, direction: analysis.Bullish, confidence: 0.60,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.uptrend && a.IsBearish() && b.IsBullish() && longBody(b) &&
				near(a.Open, b.Open, a.Range())
		},
	},
	{
		name: "bearish_separating_lines", bars: 2, direction: analysis.Bearish, confidence: 0.60,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.downtrend && a.IsBullish() && b.IsBearish() && longBody(b) &&
				near(a.Open, b.Open, a.Range())
		},
	},
	{
		name: "on_neck", bars: 2, direction: analysis.Bearish, confidence: 0.60,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.downtrend && a.IsBearish() && longBody(a) &&
				b.IsBullish() && b.Open < a.Low && near(b.Close, a.Low, a.Range())
		},
	},
	{
		name: "in_neck", bars: 2, direction: analysis.Bearish, confidence: 0.60,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.downtrend && a.IsBearish() && longBody(a) &&
				b.IsBullish() && b.Open < a.Low &&
				b.Close > a.Close && b.Close <= a.Close+0.1*body(a)
		},
	},
	{
		name: "thrusting", bars: 2, direction: analysis.Bearish, confidence: 0.55,
		match: func(c candleCtx) bool {
			a, b := c.w[0], c.w[1]
			return c.downtrend && a.IsBearish() && longBody(a) &&
				b.IsBullish() && b.Open < a.Low &&
				b.Close > a.Close && b.Close < midpoint(a)
		},
	},
	{
		name: "dragonfly_doji", bars: 1, direction: analysis.Bullish, confidence: 0.60,
		match: func(c candleCtx) bool {
			b := c.w[0]
			return isDoji(b) && lowerShadow(b) >= 0.6*b.Range() && upperShadow(b) <= 0.1*b.Range()
		},
	},
	{
		name: "gravestone_doji", bars: 1, direction: analysis.Bearish, confidence: 0.60,
		match: func(c candleCtx) bool {
			b := c.w[0]
			return isDoji(b) && upperShadow(b) >= 0.6*b.Range() && lowerShadow(b) <= 0.1*b.Range()
		},
	},
	{
		name: "rickshaw_man", bars: 1, direction: analysis.Neutral, confidence: 0.45,
		match: func(c candleCtx) bool {
			b := c.w[0]
			return isDoji(b) &&
				upperShadow(b) >= 0.35*b.Range() && lowerShadow(b) >= 0.35*b.Range()
		},
	},
	{
		name: "doji", bars: 1, direction: analysis.Neutral, confidence: 0.50,
		match: func(c candleCtx) bool {
			return isDoji(c.w[0])
		},
	},
	{
		name: "hammer", bars: 1, direction: analysis.Bullish, confidence: 0.70,
		match: func(c candleCtx) bool {
			b := c.w[0]
			return c.downtrend && body(b) > 0 &&
				lowerShadow(b) >= 2*body(b) && upperShadow(b) <= 0.1*b.Range()
		},
	},
	{
		name: "hanging_man", bars: 1, direction: analysis.Bearish, confidence: 0.65,
		match: func(c candleCtx) bool {
			b := c.w[0]
			return c.uptrend && body(b) > 0 &&
				lowerShadow(b) >= 2*body(b) && upperShadow(b) <= 0.1*b.Range()
		},
	},
	{
		name: "inverted_hammer", bars: 1, direction: analysis.Bullish, confidence: 0.65,
		match: func(c candleCtx) bool {
			b := c.w[0]
			return c.downtrend && body(b) > 0 &&
				upperShadow(b) >= 2*body(b) && lowerShadow(b) <= 0.1*b.Range()
		},
	},
	{
		name: "shooting_star", bars: 1, direction: analysis.Bearish, confidence: 0.70,
		match: func(c candleCtx) bool {
			b := c.w[0]
			return c.uptrend && body(b) > 0 &&
				upperShadow(b) >= 2*body(b) && lowerShadow(b) <= 0.1*b.Range()
		},
	},
	{
		name: "bullish_belt_hold", bars: 1, direction: analysis.Bullish, confidence: 0.60,
		match: func(c candleCtx) bool {
			b := c.w[0]
			return c.downtrend && b.IsBullish() && longBody(b) &&
				lowerShadow(b) <= 0.05*b.Range()
		},
	},
	{
		name: "bearish_belt_hold", bars: 1, direction: analysis.Bearish, confidence: 0.60,
		match: func(c candleCtx) bool {
			b := c.w[0]
			return c.uptrend && b.IsBearish() && longBody(b) &&
				upperShadow(b) <= 0.05*b.Range()
		},
	},
	{
		name: "bullish_marubozu", bars: 1, direction: analysis.Bullish, confidence: 0.65,
		match: func(c candleCtx) bool {
			b := c.w[0]
			return b.IsBullish() && isMarubozu(b)
		},
	},
	{
		name: "bearish_marubozu", bars: 1, direction: analysis.Bearish, confidence: 0.65,
		match: func(c candleCtx) bool {
			b := c.w[0]
			return b.IsBearish() && isMarubozu(b)
		},
	},
	{
		name: "high_wave", bars: 1, direction: analysis.Neutral, confidence: 0.40,
		match: func(c candleCtx) bool {
			b := c.w[0]
			return smallBody(b) &&
				upperShadow(b) >= 2*body(b) && lowerShadow(b) >= 2*body(b) &&
				body(b) > 0
		},
	},
	{
		name: "spinning_top", bars: 1, direction: analysis.Neutral, confidence: 0.35,
		match: func(c candleCtx) bool {
			b := c.w[0]
			return smallBody(b) && body(b) > 0 &&
				upperShadow(b) > body(b) && lowerShadow(b) > body(b)
		},
	},
	{
		name: "bullish_long_line", bars: 1, direction: analysis.Bullish, confidence: 0.35,
		match: func(c candleCtx) bool {
			b := c.w[0]
			return b.IsBullish() && longBody(b)
		},
	},
	{
		name: "bearish_long_line", bars: 1, direction: analysis.Bearish, confidence: 0.35,
		match: func(c candleCtx) bool {
			b := c.w[0]
			return b.IsBearish() && longBody(b)
		},
	},
}
