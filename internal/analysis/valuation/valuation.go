// Package valuation estimates intrinsic value using discounted cash flow
// and dividend discount models.
package valuation

import (
	"math"

	"stock-advisor/internal/config"
	"stock-advisor/internal/models"
)

// Estimate is the output of one valuation model. When a model cannot be
// applied, Applicable is false and Reason says why; an inapplicable model
// is never an error.
type Estimate struct {
	Model          string  `json:"model"`
	IntrinsicValue float64 `json:"intrinsic_value"`
	Upside         float64 `json:"upside"`
	Applicable     bool    `json:"applicable"`
	Reason         string  `json:"reason,omitempty"`
}

// Summary combines the model estimates. IntrinsicValue averages the
// applicable models; Applicable is false when no model could run or the
// current price is unknown.
type Summary struct {
	DCF            Estimate `json:"dcf"`
	DDM            Estimate `json:"ddm"`
	IntrinsicValue float64  `json:"intrinsic_value"`
	Upside         float64  `json:"upside"`
	Applicable     bool     `json:"applicable"`
}

// Valuator runs the valuation models with configured market assumptions.
type Valuator struct {
	cfg config.ValuationConfig
}

// NewValuator creates a valuator.
func NewValuator(cfg config.ValuationConfig) *Valuator {
	return &Valuator{cfg: cfg}
}

// Value runs both models over the record and combines them.
func (v *Valuator) Value(rec *models.FundamentalRecord) Summary {
	discount := v.discountRate(rec)
	s := Summary{
		DCF: v.dcf(rec, discount),
		DDM: v.ddm(rec, discount),
	}

	var sum float64
	var n int
	if s.DCF.Applicable {
		sum += s.DCF.IntrinsicValue
		n++
	}
	if s.DDM.Applicable {
		sum += s.DDM.IntrinsicValue
		n++
	}
	if n == 0 {
		return s
	}
	s.IntrinsicValue = sum / float64(n)

	if rec.CurrentPrice != nil && *rec.CurrentPrice > 0 {
		s.Upside = (s.IntrinsicValue - *rec.CurrentPrice) / *rec.CurrentPrice
		s.Applicable = true
	}
	return s
}

// discountRate applies CAPM: risk free plus beta times the equity premium.
func (v *Valuator) discountRate(rec *models.FundamentalRecord) float64 {
	beta := v.cfg.DefaultBeta
	if rec.Beta != nil && *rec.Beta > 0 {
		beta = *rec.Beta
	}
	return v.cfg.RiskFreeRate + beta*(v.cfg.MarketReturn-v.cfg.RiskFreeRate)
}

// growthRate picks the best available growth estimate, capped to keep the
// projection sane.
func (v *Valuator) growthRate(rec *models.FundamentalRecord) (float64, bool) {
	var g float64
	switch {
	case rec.EarningsGrowth != nil:
		g = *rec.EarningsGrowth
	case rec.RevenueGrowth != nil:
		g = *rec.RevenueGrowth
	default:
		return 0, false
	}
	if g > v.cfg.MaxGrowthRate {
		g = v.cfg.MaxGrowthRate
	}
	return g, true
}

func (v *Valuator) dcf(rec *models.FundamentalRecord, discount float64) Estimate {
	est := Estimate{Model: "dcf"}

	if rec.FreeCashFlow == nil || rec.SharesOutstanding == nil || *rec.SharesOutstanding <= 0 {
		est.Reason = "free cash flow or share count unavailable"
		return est
	}
	fcfPerShare := *rec.FreeCashFlow / *rec.SharesOutstanding
	if fcfPerShare <= 0 {
		est.Reason = "free cash flow not positive"
		return est
	}

	growth, ok := v.growthRate(rec)
	if !ok {
		growth = v.cfg.TerminalGrowth
	}
	if growth >= discount {
		est.Reason = "growth rate at or above discount rate"
		return est
	}
	if v.cfg.TerminalGrowth >= discount {
		est.Reason = "terminal growth at or above discount rate"
		return est
	}

	var pv float64
	fcf := fcfPerShare
	for year := 1; year <= v.cfg.ProjectionYears; year++ {
		fcf *= 1 + growth
		pv += fcf / math.Pow(1+discount, float64(year))
	}
	terminal := fcf * (1 + v.cfg.TerminalGrowth) / (discount - v.cfg.TerminalGrowth)
	pv += terminal / math.Pow(1+discount, float64(v.cfg.ProjectionYears))

	est.IntrinsicValue = pv
	est.Applicable = true
	if rec.CurrentPrice != nil && *rec.CurrentPrice > 0 {
		est.Upside = (pv - *rec.CurrentPrice) / *rec.CurrentPrice
	}
	return est
}

// ddm is the Gordon growth model over the current dividend.
func (v *Valuator) ddm(rec *models.FundamentalRecord, discount float64) Estimate {
	est := Estimate{Model: "ddm"}

	if rec.DividendPerShare == nil || *rec.DividendPerShare <= 0 {
		est.Reason = "no dividend paid"
		return est
	}

	growth, ok := v.growthRate(rec)
	if !ok || growth > v.cfg.TerminalGrowth {
		// Dividends cannot outgrow the economy forever.
		growth = v.cfg.TerminalGrowth
	}
	if growth >= discount {
		est.Reason = "dividend growth at or above discount rate"
		return est
	}

	d1 := *rec.DividendPerShare * (1 + growth)
	value := d1 / (discount - growth)

	est.IntrinsicValue = value
	est.Applicable = true
	if rec.CurrentPrice != nil && *rec.CurrentPrice > 0 {
		est.Upside = (value - *rec.CurrentPrice) / *rec.CurrentPrice
	}
	return est
}
