package indicators

import (
	"fmt"
	"math"

	"stock-advisor/internal/models"
)

// RSI is Wilder's relative strength index, SMA-seeded then smoothed.
type RSI struct {
	period int
}

func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("rsi_%d", r.period)
}

func (r *RSI) MinBars() int {
	return r.period + 1
}

func (r *RSI) Calculate(bars []models.Bar) (Result, error) {
	if err := validatePeriod(r.period, 2); err != nil {
		return Result{}, err
	}
	if err := checkLength(bars, r.MinBars()); err != nil {
		return Result{}, err
	}

	prices := closePrices(bars)
	gains := make([]float64, len(prices)-1)
	losses := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	avgGain := mean(gains[:r.period])
	avgLoss := mean(losses[:r.period])
	values := make([]float64, len(prices)-r.period)
	values[0] = rsiValue(avgGain, avgLoss)
	for i := r.period; i < len(gains); i++ {
		avgGain = (avgGain*float64(r.period-1) + gains[i]) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + losses[i]) / float64(r.period)
		values[i-r.period+1] = rsiValue(avgGain, avgLoss)
	}
	return Result{Value: NewSequence(values, r.period)}, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// Stochastic is the stochastic oscillator: raw %K with an SMA %D line.
type Stochastic struct {
	kPeriod, dPeriod int
}

func NewStochastic(kPeriod, dPeriod int) *Stochastic {
	return &Stochastic{kPeriod: kPeriod, dPeriod: dPeriod}
}

func (s *Stochastic) Name() string {
	return "stochastic"
}

func (s *Stochastic) MinBars() int {
	return s.kPeriod + s.dPeriod - 1
}

func (s *Stochastic) Calculate(bars []models.Bar) (Result, error) {
	if err := validatePeriod(s.kPeriod, 2); err != nil {
		return Result{}, err
	}
	if err := validatePeriod(s.dPeriod, 1); err != nil {
		return Result{}, err
	}
	if err := checkLength(bars, s.MinBars()); err != nil {
		return Result{}, err
	}

	highs := highPrices(bars)
	lows := lowPrices(bars)
	rawK := make([]float64, len(bars)-s.kPeriod+1)
	for i := s.kPeriod - 1; i < len(bars); i++ {
		hh := highest(highs[i-s.kPeriod+1 : i+1])
		ll := lowest(lows[i-s.kPeriod+1 : i+1])
		if hh == ll {
			rawK[i-s.kPeriod+1] = 50
		} else {
			rawK[i-s.kPeriod+1] = 100 * (bars[i].Close - ll) / (hh - ll)
		}
	}

	dLine := smaSeries(rawK, s.dPeriod)
	kOffset := s.kPeriod - 1
	return Result{Components: map[string]Sequence{
		"k": NewSequence(rawK, kOffset),
		"d": NewSequence(dLine, kOffset+s.dPeriod-1),
	}}, nil
}

// CCI is the commodity channel index over typical prices.
type CCI struct {
	period int
}

func NewCCI(period int) *CCI {
	return &CCI{period: period}
}

func (c *CCI) Name() string {
	return fmt.Sprintf("cci_%d", c.period)
}

func (c *CCI) MinBars() int {
	return c.period
}

func (c *CCI) Calculate(bars []models.Bar) (Result, error) {
	if err := validatePeriod(c.period, 2); err != nil {
		return Result{}, err
	}
	if err := checkLength(bars, c.period); err != nil {
		return Result{}, err
	}

	tps := typicalPrices(bars)
	values := make([]float64, len(tps)-c.period+1)
	for i := c.period - 1; i < len(tps); i++ {
		window := tps[i-c.period+1 : i+1]
		m := mean(window)
		var dev float64
		for _, tp := range window {
			dev += math.Abs(tp - m)
		}
		dev /= float64(c.period)
		if dev == 0 {
			values[i-c.period+1] = 0
		} else {
			values[i-c.period+1] = (tps[i] - m) / (0.015 * dev)
		}
	}
	return Result{Value: NewSequence(values, c.period-1)}, nil
}

// WilliamsR is Williams %R, bounded to [-100, 0].
type WilliamsR struct {
	period int
}

func NewWilliamsR(period int) *WilliamsR {
	return &WilliamsR{period: period}
}

func (w *WilliamsR) Name() string {
	return fmt.Sprintf("williams_r_%d", w.period)
}

func (w *WilliamsR) MinBars() int {
	return w.period
}

func (w *WilliamsR) Calculate(bars []models.Bar) (Result, error) {
	if err := validatePeriod(w.period, 2); err != nil {
		return Result{}, err
	}
	if err := checkLength(bars, w.period); err != nil {
		return Result{}, err
	}

	highs := highPrices(bars)
	lows := lowPrices(bars)
	values := make([]float64, len(bars)-w.period+1)
	for i := w.period - 1; i < len(bars); i++ {
		hh := highest(highs[i-w.period+1 : i+1])
		ll := lowest(lows[i-w.period+1 : i+1])
		if hh == ll {
			values[i-w.period+1] = -50
		} else {
			values[i-w.period+1] = clamp(-100*(hh-bars[i].Close)/(hh-ll), -100, 0)
		}
	}
	return Result{Value: NewSequence(values, w.period-1)}, nil
}

// ROC is the percentage rate of change of close over the period.
type ROC struct {
	period int
}

func NewROC(period int) *ROC {
	return &ROC{period: period}
}

func (r *ROC) Name() string {
	return fmt.Sprintf("roc_%d", r.period)
}

func (r *ROC) MinBars() int {
	return r.period + 1
}

func (r *ROC) Calculate(bars []models.Bar) (Result, error) {
	if err := validatePeriod(r.period, 1); err != nil {
		return Result{}, err
	}
	if err := checkLength(bars, r.MinBars()); err != nil {
		return Result{}, err
	}

	prices := closePrices(bars)
	values := make([]float64, len(prices)-r.period)
	for i := r.period; i < len(prices); i++ {
		if prices[i-r.period] == 0 {
			values[i-r.period] = 0
		} else {
			values[i-r.period] = 100 * (prices[i] - prices[i-r.period]) / prices[i-r.period]
		}
	}
	return Result{Value: NewSequence(values, r.period)}, nil
}

// Momentum is the raw close-to-close difference over the period.
type Momentum struct {
	period int
}

func NewMomentum(period int) *Momentum {
	return &Momentum{period: period}
}

func (m *Momentum) Name() string {
	return fmt.Sprintf("momentum_%d", m.period)
}

func (m *Momentum) MinBars() int {
	return m.period + 1
}

func (m *Momentum) Calculate(bars []models.Bar) (Result, error) {
	if err := validatePeriod(m.period, 1); err != nil {
		return Result{}, err
	}
	if err := checkLength(bars, m.MinBars()); err != nil {
		return Result{}, err
	}

	prices := closePrices(bars)
	values := make([]float64, len(prices)-m.period)
	for i := m.period; i < len(prices); i++ {
		values[i-m.period] = prices[i] - prices[i-m.period]
	}
	return Result{Value: NewSequence(values, m.period)}, nil
}
