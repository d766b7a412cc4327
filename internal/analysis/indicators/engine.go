// Package indicators computes technical indicators over OHLCV bar series.
package indicators

import (
	"context"
	"fmt"
	"sync"

	"stock-advisor/internal/config"
	apperrors "stock-advisor/internal/errors"
	"stock-advisor/internal/logging"
	"stock-advisor/internal/models"
	"stock-advisor/internal/series"
)

// Calculator computes one indicator over a bar series.
type Calculator interface {
	// Name identifies the indicator, e.g. "rsi_14".
	Name() string
	// MinBars is the smallest series length that yields at least one value.
	MinBars() int
	// Calculate computes the indicator. Implementations return
	// ErrDataInsufficient when the series is shorter than MinBars.
	Calculate(bars []models.Bar) (Result, error)
}

// Engine runs a set of calculators concurrently over one series.
type Engine struct {
	calculators []Calculator
	workers     int
}

// NewEngine creates an engine with the given calculators.
func NewEngine(calculators []Calculator, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{calculators: calculators, workers: workers}
}

// NewEngineFromConfig builds the full calculator roster from configuration.
func NewEngineFromConfig(cfg config.IndicatorsConfig) *Engine {
	enabled := make(map[string]bool, len(cfg.Enabled))
	for _, name := range cfg.Enabled {
		enabled[name] = true
	}

	var calcs []Calculator
	if enabled["sma"] {
		for _, p := range cfg.SMAPeriods {
			calcs = append(calcs, NewSMA(p))
		}
	}
	if enabled["ema"] {
		for _, p := range cfg.EMAPeriods {
			calcs = append(calcs, NewEMA(p))
		}
	}
	if enabled["wma"] {
		for _, p := range cfg.WMAPeriods {
			calcs = append(calcs, NewWMA(p))
		}
	}
	if enabled["macd"] {
		calcs = append(calcs, NewMACD(cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal))
	}
	if enabled["adx"] {
		calcs = append(calcs, NewADX(cfg.ADXPeriod))
	}
	if enabled["parabolic_sar"] {
		calcs = append(calcs, NewParabolicSAR(cfg.SARAcceleration, cfg.SARMaxAccel))
	}
	if enabled["rsi"] {
		calcs = append(calcs, NewRSI(cfg.RSIPeriod))
	}
	if enabled["stochastic"] {
		calcs = append(calcs, NewStochastic(cfg.StochasticK, cfg.StochasticD))
	}
	if enabled["cci"] {
		calcs = append(calcs, NewCCI(cfg.CCIPeriod))
	}
	if enabled["williams_r"] {
		calcs = append(calcs, NewWilliamsR(cfg.WilliamsRPeriod))
	}
	if enabled["roc"] {
		calcs = append(calcs, NewROC(cfg.ROCPeriod))
	}
	if enabled["momentum"] {
		calcs = append(calcs, NewMomentum(cfg.MomentumPeriod))
	}
	if enabled["atr"] {
		calcs = append(calcs, NewATR(cfg.ATRPeriod))
	}
	if enabled["bollinger"] {
		calcs = append(calcs, NewBollinger(cfg.BollingerPeriod, cfg.BollingerStdDev))
	}
	if enabled["vwap"] {
		calcs = append(calcs, NewVWAP())
	}
	if enabled["obv"] {
		calcs = append(calcs, NewOBV())
	}
	if enabled["mfi"] {
		calcs = append(calcs, NewMFI(cfg.MFIPeriod))
	}
	if enabled["volume_sma"] {
		calcs = append(calcs, NewVolumeSMA(cfg.VolumeSMAPeriod))
	}

	return NewEngine(calcs, cfg.Workers)
}

// Calculate runs every calculator over the series and collects the results.
// Calculators that fail, typically because the series is too short for
// their window, are logged at debug level and omitted from the set.
func (e *Engine) Calculate(ctx context.Context, s *series.Series) (*Set, error) {
	if s == nil || s.Len() == 0 {
		return nil, apperrors.ErrDataInsufficient
	}

	logger := logging.FromContext(ctx)
	bars := s.Bars()
	set := NewSet()

	var mu sync.Mutex
	var wg sync.WaitGroup
	work := make(chan Calculator, len(e.calculators))

	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for calc := range work {
				result, err := calc.Calculate(bars)
				if err != nil {
					logger.Debug().
						Str("indicator", calc.Name()).
						Int("bars", len(bars)).
						Int("min_bars", calc.MinBars()).
						Err(err).
						Msg("Indicator skipped")
					continue
				}
				mu.Lock()
				set.add(calc.Name(), result)
				mu.Unlock()
			}
		}()
	}

	for _, calc := range e.calculators {
		work <- calc
	}
	close(work)
	wg.Wait()

	if set.Len() == 0 {
		return nil, fmt.Errorf("no indicator produced a value over %d bars: %w",
			s.Len(), apperrors.ErrDataInsufficient)
	}
	return set, nil
}

func validatePeriod(period, minimum int) error {
	if period < minimum {
		return fmt.Errorf("period %d below minimum %d: %w", period, minimum, apperrors.ErrInvalidPeriod)
	}
	return nil
}

func checkLength(bars []models.Bar, need int) error {
	if len(bars) < need {
		return fmt.Errorf("need %d bars, have %d: %w", need, len(bars), apperrors.ErrDataInsufficient)
	}
	return nil
}
