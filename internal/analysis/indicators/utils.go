package indicators

import (
	"math"

	"stock-advisor/internal/models"
)

// closePrices extracts close prices from bars.
func closePrices(bars []models.Bar) []float64 {
	prices := make([]float64, len(bars))
	for i, b := range bars {
		prices[i] = b.Close
	}
	return prices
}

// highPrices extracts high prices from bars.
func highPrices(bars []models.Bar) []float64 {
	prices := make([]float64, len(bars))
	for i, b := range bars {
		prices[i] = b.High
	}
	return prices
}

// lowPrices extracts low prices from bars.
func lowPrices(bars []models.Bar) []float64 {
	prices := make([]float64, len(bars))
	for i, b := range bars {
		prices[i] = b.Low
	}
	return prices
}

// typicalPrices computes (high + low + close) / 3 for each bar.
func typicalPrices(bars []models.Bar) []float64 {
	prices := make([]float64, len(bars))
	for i, b := range bars {
		prices[i] = (b.High + b.Low + b.Close) / 3
	}
	return prices
}

// trueRanges computes the true range for bars[1:]. Element i corresponds to
// bar i+1 of the input.
func trueRanges(bars []models.Bar) []float64 {
	if len(bars) < 2 {
		return nil
	}
	trs := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		trs[i-1] = trueRange(bars[i], bars[i-1])
	}
	return trs
}

func trueRange(current, previous models.Bar) float64 {
	hl := current.High - current.Low
	hc := math.Abs(current.High - previous.Close)
	lc := math.Abs(current.Low - previous.Close)
	return math.Max(hl, math.Max(hc, lc))
}

// mean computes the arithmetic mean of values.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev computes the population standard deviation of values.
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// highest returns the maximum of values.
func highest(values []float64) float64 {
	h := values[0]
	for _, v := range values[1:] {
		if v > h {
			h = v
		}
	}
	return h
}

// lowest returns the minimum of values.
func lowest(values []float64) float64 {
	l := values[0]
	for _, v := range values[1:] {
		if v < l {
			l = v
		}
	}
	return l
}

// wilderSmooth applies Wilder's smoothing over the given period. The first
// output is the simple average of the first period inputs; each subsequent
// output is (prev*(period-1) + value) / period.
func wilderSmooth(values []float64, period int) []float64 {
	if len(values) < period {
		return nil
	}
	out := make([]float64, len(values)-period+1)
	out[0] = mean(values[:period])
	for i := period; i < len(values); i++ {
		out[i-period+1] = (out[i-period]*float64(period-1) + values[i]) / float64(period)
	}
	return out
}

// smaSeries computes a simple moving average over prices. Output i
// corresponds to prices index i+period-1.
func smaSeries(prices []float64, period int) []float64 {
	if len(prices) < period {
		return nil
	}
	out := make([]float64, len(prices)-period+1)
	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	out[0] = sum / float64(period)
	for i := period; i < len(prices); i++ {
		sum += prices[i] - prices[i-period]
		out[i-period+1] = sum / float64(period)
	}
	return out
}

// emaSeries computes an exponential moving average over prices, seeded with
// the simple average of the first period values. Output i corresponds to
// prices index i+period-1.
func emaSeries(prices []float64, period int) []float64 {
	if len(prices) < period {
		return nil
	}
	out := make([]float64, len(prices)-period+1)
	out[0] = mean(prices[:period])
	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(prices); i++ {
		out[i-period+1] = (prices[i]-out[i-period])*multiplier + out[i-period]
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
