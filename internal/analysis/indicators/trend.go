package indicators

import (
	"fmt"
	"math"

	apperrors "stock-advisor/internal/errors"
	"stock-advisor/internal/models"
)

// SMA is the simple moving average of closes.
type SMA struct {
	period int
}

func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

func (s *SMA) Name() string {
	return fmt.Sprintf("sma_%d", s.period)
}

func (s *SMA) MinBars() int {
	return s.period
}

func (s *SMA) Calculate(bars []models.Bar) (Result, error) {
	if err := validatePeriod(s.period, 1); err != nil {
		return Result{}, err
	}
	if err := checkLength(bars, s.period); err != nil {
		return Result{}, err
	}
	values := smaSeries(closePrices(bars), s.period)
	return Result{Value: NewSequence(values, s.period-1)}, nil
}

// EMA is the exponential moving average of closes, seeded with the simple
// average of the first window.
type EMA struct {
	period int
}

func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

func (e *EMA) Name() string {
	return fmt.Sprintf("ema_%d", e.period)
}

func (e *EMA) MinBars() int {
	return e.period
}

func (e *EMA) Calculate(bars []models.Bar) (Result, error) {
	if err := validatePeriod(e.period, 1); err != nil {
		return Result{}, err
	}
	if err := checkLength(bars, e.period); err != nil {
		return Result{}, err
	}
	values := emaSeries(closePrices(bars), e.period)
	return Result{Value: NewSequence(values, e.period-1)}, nil
}

// WMA is the linearly weighted moving average of closes, with the most
// recent bar carrying the largest weight.
type WMA struct {
	period int
}

func NewWMA(period int) *WMA {
	return &WMA{period: period}
}

func (w *WMA) Name() string {
	return fmt.Sprintf("wma_%d", w.period)
}

func (w *WMA) MinBars() int {
	return w.period
}

func (w *WMA) Calculate(bars []models.Bar) (Result, error) {
	if err := validatePeriod(w.period, 1); err != nil {
		return Result{}, err
	}
	if err := checkLength(bars, w.period); err != nil {
		return Result{}, err
	}

	prices := closePrices(bars)
	denom := float64(w.period*(w.period+1)) / 2
	values := make([]float64, len(prices)-w.period+1)
	for i := w.period - 1; i < len(prices); i++ {
		var sum float64
		for j := 0; j < w.period; j++ {
			sum += prices[i-j] * float64(w.period-j)
		}
		values[i-w.period+1] = sum / denom
	}
	return Result{Value: NewSequence(values, w.period-1)}, nil
}

// MACD is moving average convergence divergence: the gap between a fast and
// a slow EMA, with a signal EMA over that gap and their histogram.
type MACD struct {
	fast, slow, signal int
}

func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{fast: fast, slow: slow, signal: signal}
}

func (m *MACD) Name() string {
	return "macd"
}

func (m *MACD) MinBars() int {
	return m.slow + m.signal - 1
}

func (m *MACD) Calculate(bars []models.Bar) (Result, error) {
	if err := validatePeriod(m.fast, 1); err != nil {
		return Result{}, err
	}
	if m.fast >= m.slow {
		return Result{}, fmt.Errorf("fast period %d not below slow %d: %w",
			m.fast, m.slow, apperrors.ErrInvalidPeriod)
	}
	if err := checkLength(bars, m.MinBars()); err != nil {
		return Result{}, err
	}

	prices := closePrices(bars)
	fastEMA := emaSeries(prices, m.fast)
	slowEMA := emaSeries(prices, m.slow)

	// Both EMAs cover bar slow-1 onward once the fast EMA is trimmed.
	macdLine := make([]float64, len(slowEMA))
	trim := m.slow - m.fast
	for i := range slowEMA {
		macdLine[i] = fastEMA[i+trim] - slowEMA[i]
	}

	signalLine := emaSeries(macdLine, m.signal)
	histogram := make([]float64, len(signalLine))
	for i := range signalLine {
		histogram[i] = macdLine[i+m.signal-1] - signalLine[i]
	}

	macdOffset := m.slow - 1
	signalOffset := macdOffset + m.signal - 1
	return Result{Components: map[string]Sequence{
		"macd":      NewSequence(macdLine, macdOffset),
		"signal":    NewSequence(signalLine, signalOffset),
		"histogram": NewSequence(histogram, signalOffset),
	}}, nil
}

// ADX measures trend strength from Wilder-smoothed directional movement.
type ADX struct {
	period int
}

func NewADX(period int) *ADX {
	return &ADX{period: period}
}

func (a *ADX) Name() string {
	return "adx"
}

func (a *ADX) MinBars() int {
	return 2 * a.period
}

func (a *ADX) Calculate(bars []models.Bar) (Result, error) {
	if err := validatePeriod(a.period, 2); err != nil {
		return Result{}, err
	}
	if err := checkLength(bars, a.MinBars()); err != nil {
		return Result{}, err
	}

	n := len(bars) - 1
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	trs := make([]float64, n)
	for i := 1; i < len(bars); i++ {
		upMove := bars[i].High - bars[i-1].High
		downMove := bars[i-1].Low - bars[i].Low
		if upMove > downMove && upMove > 0 {
			plusDM[i-1] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i-1] = downMove
		}
		trs[i-1] = trueRange(bars[i], bars[i-1])
	}

	smoothTR := wilderSmooth(trs, a.period)
	smoothPlus := wilderSmooth(plusDM, a.period)
	smoothMinus := wilderSmooth(minusDM, a.period)

	plusDI := make([]float64, len(smoothTR))
	minusDI := make([]float64, len(smoothTR))
	dx := make([]float64, len(smoothTR))
	for i := range smoothTR {
		if smoothTR[i] > 0 {
			plusDI[i] = 100 * smoothPlus[i] / smoothTR[i]
			minusDI[i] = 100 * smoothMinus[i] / smoothTR[i]
		}
		sum := plusDI[i] + minusDI[i]
		if sum > 0 {
			dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / sum
		}
	}

	adx := wilderSmooth(dx, a.period)

	// DI values start at bar period; ADX needs a further period of DX.
	diOffset := a.period
	adxOffset := 2*a.period - 1
	return Result{Components: map[string]Sequence{
		"adx":      NewSequence(adx, adxOffset),
		"plus_di":  NewSequence(plusDI, diOffset),
		"minus_di": NewSequence(minusDI, diOffset),
	}}, nil
}

// ParabolicSAR computes Wilder's stop-and-reverse trailing level.
type ParabolicSAR struct {
	step, max float64
}

func NewParabolicSAR(step, max float64) *ParabolicSAR {
	return &ParabolicSAR{step: step, max: max}
}

func (p *ParabolicSAR) Name() string {
	return "parabolic_sar"
}

func (p *ParabolicSAR) MinBars() int {
	return 2
}

func (p *ParabolicSAR) Calculate(bars []models.Bar) (Result, error) {
	if p.step <= 0 || p.max < p.step {
		return Result{}, fmt.Errorf("acceleration step %.3f max %.3f: %w",
			p.step, p.max, apperrors.ErrInvalidPeriod)
	}
	if err := checkLength(bars, p.MinBars()); err != nil {
		return Result{}, err
	}

	values := make([]float64, len(bars)-1)
	uptrend := bars[1].Close > bars[0].Close
	sar := bars[0].Low
	ep := bars[0].High
	if !uptrend {
		sar = bars[0].High
		ep = bars[0].Low
	}
	af := p.step

	for i := 1; i < len(bars); i++ {
		sar = sar + af*(ep-sar)
		if uptrend {
			if bars[i].Low < sar {
				uptrend = false
				sar = ep
				ep = bars[i].Low
				af = p.step
			} else if bars[i].High > ep {
				ep = bars[i].High
				af = math.Min(af+p.step, p.max)
			}
		} else {
			if bars[i].High > sar {
				uptrend = true
				sar = ep
				ep = bars[i].High
				af = p.step
			} else if bars[i].Low < ep {
				ep = bars[i].Low
				af = math.Min(af+p.step, p.max)
			}
		}
		values[i-1] = sar
	}
	return Result{Value: NewSequence(values, 1)}, nil
}
