package indicators

import (
	"fmt"

	"stock-advisor/internal/models"
)

// ATR is Wilder's average true range.
type ATR struct {
	period int
}

func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string {
	return fmt.Sprintf("atr_%d", a.period)
}

func (a *ATR) MinBars() int {
	return a.period + 1
}

func (a *ATR) Calculate(bars []models.Bar) (Result, error) {
	if err := validatePeriod(a.period, 1); err != nil {
		return Result{}, err
	}
	if err := checkLength(bars, a.MinBars()); err != nil {
		return Result{}, err
	}

	values := wilderSmooth(trueRanges(bars), a.period)
	return Result{Value: NewSequence(values, a.period)}, nil
}

// Bollinger computes Bollinger bands: an SMA middle band with upper and
// lower bands a configurable number of standard deviations away, plus the
// derived bandwidth and %B lines.
type Bollinger struct {
	period int
	numStd float64
}

func NewBollinger(period int, numStd float64) *Bollinger {
	return &Bollinger{period: period, numStd: numStd}
}

func (b *Bollinger) Name() string {
	return "bollinger"
}

func (b *Bollinger) MinBars() int {
	return b.period
}

func (b *Bollinger) Calculate(bars []models.Bar) (Result, error) {
	if err := validatePeriod(b.period, 2); err != nil {
		return Result{}, err
	}
	if err := checkLength(bars, b.period); err != nil {
		return Result{}, err
	}

	prices := closePrices(bars)
	n := len(prices) - b.period + 1
	middle := make([]float64, n)
	upper := make([]float64, n)
	lower := make([]float64, n)
	bandwidth := make([]float64, n)
	percentB := make([]float64, n)

	for i := b.period - 1; i < len(prices); i++ {
		window := prices[i-b.period+1 : i+1]
		m := mean(window)
		sd := stdDev(window)
		j := i - b.period + 1
		middle[j] = m
		upper[j] = m + b.numStd*sd
		lower[j] = m - b.numStd*sd
		if m != 0 {
			bandwidth[j] = (upper[j] - lower[j]) / m
		}
		if band := upper[j] - lower[j]; band > 0 {
			percentB[j] = (prices[i] - lower[j]) / band
		} else {
			percentB[j] = 0.5
		}
	}

	offset := b.period - 1
	return Result{Components: map[string]Sequence{
		"middle":    NewSequence(middle, offset),
		"upper":     NewSequence(upper, offset),
		"lower":     NewSequence(lower, offset),
		"bandwidth": NewSequence(bandwidth, offset),
		"percent_b": NewSequence(percentB, offset),
	}}, nil
}
