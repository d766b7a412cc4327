// Package engine orchestrates the full analysis pipeline: indicators,
// patterns, levels, and signals on the technical side, scoring and
// valuation on the fundamental side, blended into one recommendation.
package engine

import (
	"context"
	"sync"
	"time"

	"stock-advisor/internal/analysis"
	"stock-advisor/internal/analysis/fundamentals"
	"stock-advisor/internal/analysis/indicators"
	"stock-advisor/internal/analysis/levels"
	"stock-advisor/internal/analysis/patterns"
	"stock-advisor/internal/analysis/signals"
	"stock-advisor/internal/analysis/valuation"
	"stock-advisor/internal/config"
	apperrors "stock-advisor/internal/errors"
	"stock-advisor/internal/logging"
	"stock-advisor/internal/models"
	"stock-advisor/internal/series"
)

// Report is the complete output for one symbol. AsOf is the timestamp of
// the last analyzed bar, never the wall clock, so identical inputs always
// produce identical reports.
type Report struct {
	Symbol          string                  `json:"symbol"`
	AsOf            time.Time               `json:"as_of"`
	Bars            int                     `json:"bars"`
	LastClose       float64                 `json:"last_close,omitempty"`
	Indicators      map[string]float64      `json:"indicators,omitempty"`
	IndicatorSeries map[string][]float64    `json:"indicator_series,omitempty"`
	Patterns        []analysis.Pattern      `json:"patterns,omitempty"`
	Levels          []analysis.Level        `json:"levels,omitempty"`
	Signals         []analysis.Signal       `json:"signals,omitempty"`
	Fundamentals    *fundamentals.Scorecard `json:"fundamentals,omitempty"`
	Valuation       *valuation.Summary      `json:"valuation,omitempty"`
	Recommendation  Recommendation          `json:"recommendation"`
}

// indicatorTail is how many trailing values of each indicator line the
// report carries for charting.
const indicatorTail = 30

// Engine wires the analysis components together.
type Engine struct {
	cfg        *config.Config
	indicators *indicators.Engine
	candles    *patterns.CandlestickDetector
	charts     *patterns.ChartDetector
	levels     *levels.Detector
	signals    *signals.Generator
	scorer     *fundamentals.Scorer
	valuator   *valuation.Valuator
	aggregator *Aggregator
}

// New builds an engine from configuration.
func New(cfg *config.Config) *Engine {
	return &Engine{
		cfg:        cfg,
		indicators: indicators.NewEngineFromConfig(cfg.Indicators),
		candles:    patterns.NewCandlestickDetector(cfg.Patterns),
		charts:     patterns.NewChartDetector(cfg.Patterns),
		levels:     levels.NewDetector(cfg.Levels),
		signals:    signals.NewGenerator(cfg.Signals, cfg.Indicators),
		scorer:     fundamentals.NewScorer(cfg.Fundamentals),
		valuator:   valuation.NewValuator(cfg.Valuation),
		aggregator: NewAggregator(cfg.Decision, cfg.Signals),
	}
}

// Analyze runs both branches over whatever inputs are present. Bars may be
// empty and the fundamental record may be nil; the recommendation reflects
// what was actually available. Both missing is an error.
func (e *Engine) Analyze(ctx context.Context, symbol string, bars []models.Bar, rec *models.FundamentalRecord) (*Report, error) {
	logger := logging.WithSymbol(logging.FromContext(ctx), symbol)
	ctx = logging.WithLogger(ctx, logger)

	hasBars := len(bars) > 0
	hasFundamentals := rec != nil && !rec.IsEmpty()
	if !hasBars && !hasFundamentals {
		return nil, apperrors.NewDataError("input", symbol, "no price history and no fundamentals", apperrors.ErrDataInsufficient)
	}

	report := &Report{Symbol: symbol}

	var s *series.Series
	if hasBars {
		var err error
		s, err = series.New(bars)
		if err != nil {
			return nil, apperrors.NewDataError("bars", symbol, "series validation failed", err)
		}
		report.Bars = s.Len()
		report.AsOf = s.Last().Timestamp
		report.LastClose = s.Last().Close
	}

	var (
		wg            sync.WaitGroup
		techAvailable bool
	)

	if s != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tlog := logging.WithComponent(logger, "technical")
			set, err := e.indicators.Calculate(logging.WithLogger(ctx, tlog), s)
			if err != nil {
				tlog.Warn().Err(err).Msg("Technical branch skipped")
				return
			}
			techAvailable = true
			report.Indicators = set.LatestValues()
			report.IndicatorSeries = set.RecentValues(indicatorTail)

			if e.cfg.Patterns.Candlestick {
				report.Patterns = append(report.Patterns, e.candles.Detect(s)...)
			}
			if e.cfg.Patterns.Chart {
				report.Patterns = append(report.Patterns, e.charts.Detect(s)...)
			}
			report.Levels = e.levels.Detect(s)

			report.Signals = e.signals.Generate(s, set)
			report.Signals = append(report.Signals, signals.FromPatterns(report.Patterns, s.Len())...)
			report.Signals = append(report.Signals, signals.FromLevels(report.Levels, s.Last().Close)...)
		}()
	}

	if hasFundamentals {
		wg.Add(1)
		go func() {
			defer wg.Done()
			flog := logging.WithComponent(logger, "fundamental")
			card := e.scorer.Score(rec)
			report.Fundamentals = &card
			summary := e.valuator.Value(rec)
			report.Valuation = &summary
			for _, est := range []valuation.Estimate{summary.DCF, summary.DDM} {
				if !est.Applicable {
					flog.Debug().
						Err(apperrors.NewModelError(est.Model, est.Reason, nil)).
						Msg("Valuation model skipped")
				}
			}
		}()
	}

	wg.Wait()

	report.Recommendation = e.aggregator.Aggregate(
		report.Signals, techAvailable,
		report.Fundamentals, report.Valuation,
	)

	logging.LogAnalysis(logger, symbol, report.Bars, len(report.Indicators), len(report.Patterns), len(report.Levels))
	logging.LogRecommendation(logger, symbol,
		string(report.Recommendation.Action),
		report.Recommendation.Strength,
		report.Recommendation.Summary())

	return report, nil
}
