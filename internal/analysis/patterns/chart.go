package patterns

import (
	"math"
	"sort"

	"stock-advisor/internal/analysis"
	"stock-advisor/internal/config"
	"stock-advisor/internal/models"
	"stock-advisor/internal/series"
)

// ChartDetector finds multi-bar chart structures built from swing points.
// A structure is only reported once price has actually broken out of it;
// the breakout bar becomes the pattern's end index.
type ChartDetector struct {
	swingStrength int
	shoulderTol   float64
	doubleTol     float64
	maxLookback   int
}

// NewChartDetector creates a detector with the configured tolerances.
func NewChartDetector(cfg config.PatternsConfig) *ChartDetector {
	return &ChartDetector{
		swingStrength: cfg.SwingStrength,
		shoulderTol:   cfg.ShoulderTolerance,
		doubleTol:     cfg.DoubleTolerance,
		maxLookback:   cfg.MaxLookback,
	}
}

// swingPoint is a local extreme: a high above its neighbors or a low below
// them, within swingStrength bars on each side.
type swingPoint struct {
	index  int
	price  float64
	isHigh bool
}

// Detect returns all confirmed chart patterns, most recent breakout first.
func (d *ChartDetector) Detect(s *series.Series) []analysis.Pattern {
	bars := s.Bars()
	start := 0
	if d.maxLookback > 0 && len(bars) > d.maxLookback {
		start = len(bars) - d.maxLookback
	}

	swings := findSwings(bars, start, d.swingStrength)
	if len(swings) < 3 {
		return nil
	}

	var found []analysis.Pattern
	found = append(found, d.headAndShoulders(bars, swings)...)
	found = append(found, d.doublesAndTriples(bars, swings)...)
	found = append(found, d.triangles(bars, swings)...)

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].EndIndex > found[j].EndIndex
	})
	return found
}

// findSwings locates swing highs and lows, in index order. A bar qualifies
// when its extreme beats every bar within strength on both sides.
func findSwings(bars []models.Bar, start, strength int) []swingPoint {
	var swings []swingPoint
	lo := start + strength
	hi := len(bars) - strength
	for i := lo; i < hi; i++ {
		isHigh := true
		isLow := true
		for j := i - strength; j <= i+strength; j++ {
			if j == i {
				continue
			}
			if bars[j].High >= bars[i].High {
				isHigh = false
			}
			if bars[j].Low <= bars[i].Low {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		if isHigh {
			swings = append(swings, swingPoint{index: i, price: bars[i].High, isHigh: true})
		}
		if isLow {
			swings = append(swings, swingPoint{index: i, price: bars[i].Low, isHigh: false})
		}
	}
	return swings
}

func splitSwings(swings []swingPoint) (highs, lows []swingPoint) {
	for _, sp := range swings {
		if sp.isHigh {
			highs = append(highs, sp)
		} else {
			lows = append(lows, sp)
		}
	}
	return highs, lows
}

// lowsBetween returns the lowest swing low strictly between two indices.
func lowsBetween(lows []swingPoint, from, to int) (swingPoint, bool) {
	best := swingPoint{}
	ok := false
	for _, sp := range lows {
		if sp.index <= from || sp.index >= to {
			continue
		}
		if !ok || sp.price < best.price {
			best = sp
			ok = true
		}
	}
	return best, ok
}

// highsBetween returns the highest swing high strictly between two indices.
func highsBetween(highs []swingPoint, from, to int) (swingPoint, bool) {
	best := swingPoint{}
	ok := false
	for _, sp := range highs {
		if sp.index <= from || sp.index >= to {
			continue
		}
		if !ok || sp.price > best.price {
			best = sp
			ok = true
		}
	}
	return best, ok
}

// breakoutBelow finds the first bar after from whose close drops below the
// line through (x1,y1) and (x2,y2), extended rightward.
func breakoutBelow(bars []models.Bar, from, x1 int, y1 float64, x2 int, y2 float64) (int, float64, bool) {
	slope := 0.0
	if x2 != x1 {
		slope = (y2 - y1) / float64(x2-x1)
	}
	for i := from + 1; i < len(bars); i++ {
		line := y2 + slope*float64(i-x2)
		if bars[i].Close < line {
			return i, line, true
		}
	}
	return 0, 0, false
}

// breakoutAbove finds the first bar after from whose close rises above the
// line through (x1,y1) and (x2,y2), extended rightward.
func breakoutAbove(bars []models.Bar, from, x1 int, y1 float64, x2 int, y2 float64) (int, float64, bool) {
	slope := 0.0
	if x2 != x1 {
		slope = (y2 - y1) / float64(x2-x1)
	}
	for i := from + 1; i < len(bars); i++ {
		line := y2 + slope*float64(i-x2)
		if bars[i].Close > line {
			return i, line, true
		}
	}
	return 0, 0, false
}

func relDiff(a, b float64) float64 {
	ref := math.Max(math.Abs(a), math.Abs(b))
	if ref == 0 {
		return 0
	}
	return math.Abs(a-b) / ref
}

func (d *ChartDetector) headAndShoulders(bars []models.Bar, swings []swingPoint) []analysis.Pattern {
	highs, lows := splitSwings(swings)
	var found []analysis.Pattern

	// Regular: three highs with the middle one tallest, neckline under
	// the two intervening lows.
	for i := 0; i+2 < len(highs); i++ {
		ls, head, rs := highs[i], highs[i+1], highs[i+2]
		if head.price <= ls.price || head.price <= rs.price {
			continue
		}
		if relDiff(ls.price, rs.price) > d.shoulderTol {
			continue
		}
		l1, ok1 := lowsBetween(lows, ls.index, head.index)
		l2, ok2 := lowsBetween(lows, head.index, rs.index)
		if !ok1 || !ok2 {
			continue
		}
		brk, neckline, ok := breakoutBelow(bars, rs.index, l1.index, l1.price, l2.index, l2.price)
		if !ok {
			continue
		}
		found = append(found, analysis.Pattern{
			Name:        "head_and_shoulders",
			Type:        analysis.Chart,
			Direction:   analysis.Bearish,
			StartIndex:  ls.index,
			EndIndex:    brk,
			Confidence:  0.85,
			TargetPrice: neckline - (head.price - neckline),
		})
	}

	// Inverse: three lows with the middle one deepest.
	for i := 0; i+2 < len(lows); i++ {
		ls, head, rs := lows[i], lows[i+1], lows[i+2]
		if head.price >= ls.price || head.price >= rs.price {
			continue
		}
		if relDiff(ls.price, rs.price) > d.shoulderTol {
			continue
		}
		h1, ok1 := highsBetween(highs, ls.index, head.index)
		h2, ok2 := highsBetween(highs, head.index, rs.index)
		if !ok1 || !ok2 {
			continue
		}
		brk, neckline, ok := breakoutAbove(bars, rs.index, h1.index, h1.price, h2.index, h2.price)
		if !ok {
			continue
		}
		found = append(found, analysis.Pattern{
			Name:        "inverse_head_and_shoulders",
			Type:        analysis.Chart,
			Direction:   analysis.Bullish,
			StartIndex:  ls.index,
			EndIndex:    brk,
			Confidence:  0.85,
			TargetPrice: neckline + (neckline - head.price),
		})
	}

	return found
}

func (d *ChartDetector) doublesAndTriples(bars []models.Bar, swings []swingPoint) []analysis.Pattern {
	highs, lows := splitSwings(swings)
	var found []analysis.Pattern

	// Triple tops first so a triple is not also reported as a double.
	tripleTopEnds := map[int]bool{}
	for i := 0; i+2 < len(highs); i++ {
		a, b, c := highs[i], highs[i+1], highs[i+2]
		if relDiff(a.price, b.price) > d.doubleTol || relDiff(b.price, c.price) > d.doubleTol {
			continue
		}
		low1, ok1 := lowsBetween(lows, a.index, b.index)
		low2, ok2 := lowsBetween(lows, b.index, c.index)
		if !ok1 || !ok2 {
			continue
		}
		support := math.Min(low1.price, low2.price)
		brk, line, ok := breakoutBelow(bars, c.index, a.index, support, c.index, support)
		if !ok {
			continue
		}
		top := (a.price + b.price + c.price) / 3
		found = append(found, analysis.Pattern{
			Name:        "triple_top",
			Type:        analysis.Chart,
			Direction:   analysis.Bearish,
			StartIndex:  a.index,
			EndIndex:    brk,
			Confidence:  0.80,
			TargetPrice: line - (top - line),
		})
		tripleTopEnds[b.index] = true
		tripleTopEnds[c.index] = true
	}

	tripleBottomEnds := map[int]bool{}
	for i := 0; i+2 < len(lows); i++ {
		a, b, c := lows[i], lows[i+1], lows[i+2]
		if relDiff(a.price, b.price) > d.doubleTol || relDiff(b.price, c.price) > d.doubleTol {
			continue
		}
		high1, ok1 := highsBetween(highs, a.index, b.index)
		high2, ok2 := highsBetween(highs, b.index, c.index)
		if !ok1 || !ok2 {
			continue
		}
		resistance := math.Max(high1.price, high2.price)
		brk, line, ok := breakoutAbove(bars, c.index, a.index, resistance, c.index, resistance)
		if !ok {
			continue
		}
		bottom := (a.price + b.price + c.price) / 3
		found = append(found, analysis.Pattern{
			Name:        "triple_bottom",
			Type:        analysis.Chart,
			Direction:   analysis.Bullish,
			StartIndex:  a.index,
			EndIndex:    brk,
			Confidence:  0.80,
			TargetPrice: line + (line - bottom),
		})
		tripleBottomEnds[b.index] = true
		tripleBottomEnds[c.index] = true
	}

	for i := 0; i+1 < len(highs); i++ {
		a, b := highs[i], highs[i+1]
		if tripleTopEnds[b.index] {
			continue
		}
		if relDiff(a.price, b.price) > d.doubleTol {
			continue
		}
		valley, ok := lowsBetween(lows, a.index, b.index)
		if !ok {
			continue
		}
		brk, line, okBrk := breakoutBelow(bars, b.index, a.index, valley.price, b.index, valley.price)
		if !okBrk {
			continue
		}
		top := (a.price + b.price) / 2
		found = append(found, analysis.Pattern{
			Name:        "double_top",
			Type:        analysis.Chart,
			Direction:   analysis.Bearish,
			StartIndex:  a.index,
			EndIndex:    brk,
			Confidence:  0.75,
			TargetPrice: line - (top - line),
		})
	}

	for i := 0; i+1 < len(lows); i++ {
		a, b := lows[i], lows[i+1]
		if tripleBottomEnds[b.index] {
			continue
		}
		if relDiff(a.price, b.price) > d.doubleTol {
			continue
		}
		peak, ok := highsBetween(highs, a.index, b.index)
		if !ok {
			continue
		}
		brk, line, okBrk := breakoutAbove(bars, b.index, a.index, peak.price, b.index, peak.price)
		if !okBrk {
			continue
		}
		bottom := (a.price + b.price) / 2
		found = append(found, analysis.Pattern{
			Name:        "double_bottom",
			Type:        analysis.Chart,
			Direction:   analysis.Bullish,
			StartIndex:  a.index,
			EndIndex:    brk,
			Confidence:  0.75,
			TargetPrice: line + (line - bottom),
		})
	}

	return found
}

func (d *ChartDetector) triangles(bars []models.Bar, swings []swingPoint) []analysis.Pattern {
	highs, lows := splitSwings(swings)
	if len(highs) < 2 || len(lows) < 2 {
		return nil
	}

	var found []analysis.Pattern

	for i := 0; i+1 < len(highs); i++ {
		h1, h2 := highs[i], highs[i+1]
		l1, ok1 := lowsBetween(lows, h1.index, h2.index)
		l2, ok2 := lowAfterOrAt(lows, h2.index)
		if !ok1 || !ok2 || l2.index <= l1.index {
			continue
		}

		flatHighs := relDiff(h1.price, h2.price) <= d.doubleTol
		fallingHighs := h2.price < h1.price*(1-d.doubleTol)
		risingLows := l2.price > l1.price*(1+d.doubleTol)
		flatLows := relDiff(l1.price, l2.price) <= d.doubleTol

		lastIdx := h2.index
		if l2.index > lastIdx {
			lastIdx = l2.index
		}

		switch {
		case flatHighs && risingLows:
			brk, line, ok := breakoutAbove(bars, lastIdx, h1.index, h1.price, h2.index, h2.price)
			if !ok {
				continue
			}
			height := math.Max(h1.price, h2.price) - l1.price
			found = append(found, analysis.Pattern{
				Name:        "ascending_triangle",
				Type:        analysis.Chart,
				Direction:   analysis.Bullish,
				StartIndex:  minIndex(h1.index, l1.index),
				EndIndex:    brk,
				Confidence:  0.70,
				TargetPrice: line + height,
			})
		case flatLows && fallingHighs:
			brk, line, ok := breakoutBelow(bars, lastIdx, l1.index, l1.price, l2.index, l2.price)
			if !ok {
				continue
			}
			height := h1.price - math.Min(l1.price, l2.price)
			found = append(found, analysis.Pattern{
				Name:        "descending_triangle",
				Type:        analysis.Chart,
				Direction:   analysis.Bearish,
				StartIndex:  minIndex(h1.index, l1.index),
				EndIndex:    brk,
				Confidence:  0.70,
				TargetPrice: line - height,
			})
		case fallingHighs && risingLows:
			// Symmetrical: direction follows whichever boundary breaks first.
			upBrk, upLine, upOK := breakoutAbove(bars, lastIdx, h1.index, h1.price, h2.index, h2.price)
			downBrk, downLine, downOK := breakoutBelow(bars, lastIdx, l1.index, l1.price, l2.index, l2.price)
			height := h1.price - l1.price
			switch {
			case upOK && (!downOK || upBrk <= downBrk):
				found = append(found, analysis.Pattern{
					Name:        "symmetrical_triangle",
					Type:        analysis.Chart,
					Direction:   analysis.Bullish,
					StartIndex:  minIndex(h1.index, l1.index),
					EndIndex:    upBrk,
					Confidence:  0.65,
					TargetPrice: upLine + height,
				})
			case downOK:
				found = append(found, analysis.Pattern{
					Name:        "symmetrical_triangle",
					Type:        analysis.Chart,
					Direction:   analysis.Bearish,
					StartIndex:  minIndex(h1.index, l1.index),
					EndIndex:    downBrk,
					Confidence:  0.65,
					TargetPrice: downLine - height,
				})
			}
		}
	}

	return found
}

func lowAfterOrAt(lows []swingPoint, at int) (swingPoint, bool) {
	for _, sp := range lows {
		if sp.index >= at {
			return sp, true
		}
	}
	return swingPoint{}, false
}

func minIndex(a, b int) int {
	if a < b {
		return a
	}
	return b
}
