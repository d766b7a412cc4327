// Package fundamentals scores a company's financial metrics across four
// categories and blends them into a composite score on a 0-100 scale.
package fundamentals

import (
	"stock-advisor/internal/config"
	"stock-advisor/internal/models"
)

// Category names.
const (
	CategoryValuation     = "valuation"
	CategoryProfitability = "profitability"
	CategoryGrowth        = "growth"
	CategoryHealth        = "health"
)

// CategoryScore is the average of the metric scores available in one
// category. Available is false when no metric in the category was present,
// in which case the category is excluded from the composite.
type CategoryScore struct {
	Name      string             `json:"name"`
	Score     float64            `json:"score"`
	Available bool               `json:"available"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Scorecard is the full fundamental assessment. Composite is the weighted
// mean of the available categories, with weights renormalized over them.
type Scorecard struct {
	Valuation     CategoryScore `json:"valuation"`
	Profitability CategoryScore `json:"profitability"`
	Growth        CategoryScore `json:"growth"`
	Health        CategoryScore `json:"health"`
	Composite     float64       `json:"composite"`
	Available     bool          `json:"available"`
}

// Categories returns the four category scores in a fixed order.
func (s Scorecard) Categories() []CategoryScore {
	return []CategoryScore{s.Valuation, s.Profitability, s.Growth, s.Health}
}

// Scorer grades fundamental records against fixed threshold tables.
type Scorer struct {
	cfg config.FundamentalsConfig
}

// NewScorer creates a scorer with the configured category weights.
func NewScorer(cfg config.FundamentalsConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score grades the record. Missing metrics are skipped, never defaulted;
// a category with no metrics at all is marked unavailable.
func (s *Scorer) Score(rec *models.FundamentalRecord) Scorecard {
	card := Scorecard{
		Valuation:     s.scoreValuation(rec),
		Profitability: s.scoreProfitability(rec),
		Growth:        s.scoreGrowth(rec),
		Health:        s.scoreHealth(rec),
	}

	weights := map[string]float64{
		CategoryValuation:     s.cfg.WeightValuation,
		CategoryProfitability: s.cfg.WeightProfitability,
		CategoryGrowth:        s.cfg.WeightGrowth,
		CategoryHealth:        s.cfg.WeightHealth,
	}

	var weighted, total float64
	for _, cat := range card.Categories() {
		if !cat.Available {
			continue
		}
		w := weights[cat.Name]
		weighted += w * cat.Score
		total += w
	}
	if total > 0 {
		card.Composite = weighted / total
		card.Available = true
	}
	return card
}

func (s *Scorer) scoreValuation(rec *models.FundamentalRecord) CategoryScore {
	metrics := map[string]float64{}
	if rec.PERatio != nil {
		metrics["pe_ratio"] = scorePE(*rec.PERatio)
	}
	if rec.ForwardPE != nil {
		metrics["forward_pe"] = scoreForwardPE(*rec.ForwardPE)
	}
	if rec.PEGRatio != nil && *rec.PEGRatio > 0 {
		metrics["peg_ratio"] = scorePEG(*rec.PEGRatio)
	}
	if rec.PBRatio != nil && *rec.PBRatio > 0 {
		metrics["pb_ratio"] = scorePB(*rec.PBRatio)
	}
	if rec.PSRatio != nil && *rec.PSRatio > 0 {
		metrics["ps_ratio"] = scorePS(*rec.PSRatio)
	}
	return buildCategory(CategoryValuation, metrics)
}

func (s *Scorer) scoreProfitability(rec *models.FundamentalRecord) CategoryScore {
	metrics := map[string]float64{}
	if rec.ROE != nil {
		metrics["roe"] = scoreROE(*rec.ROE)
	}
	if rec.ROA != nil {
		metrics["roa"] = scoreROA(*rec.ROA)
	}
	if rec.ProfitMargin != nil {
		metrics["profit_margin"] = scoreProfitMargin(*rec.ProfitMargin)
	}
	if rec.OperatingMargin != nil {
		metrics["operating_margin"] = scoreOperatingMargin(*rec.OperatingMargin)
	}
	if rec.GrossMargin != nil {
		metrics["gross_margin"] = scoreGrossMargin(*rec.GrossMargin)
	}
	return buildCategory(CategoryProfitability, metrics)
}

func (s *Scorer) scoreGrowth(rec *models.FundamentalRecord) CategoryScore {
	metrics := map[string]float64{}
	if rec.RevenueGrowth != nil {
		metrics["revenue_growth"] = scoreGrowthRate(*rec.RevenueGrowth)
	}
	if rec.EarningsGrowth != nil {
		metrics["earnings_growth"] = scoreGrowthRate(*rec.EarningsGrowth)
	}
	if rec.PEGRatio != nil && *rec.PEGRatio > 0 {
		metrics["peg_growth"] = scorePEGGrowth(*rec.PEGRatio)
	}
	return buildCategory(CategoryGrowth, metrics)
}

func (s *Scorer) scoreHealth(rec *models.FundamentalRecord) CategoryScore {
	metrics := map[string]float64{}
	if rec.DebtToEquity != nil && *rec.DebtToEquity >= 0 {
		metrics["debt_to_equity"] = scoreDebtToEquity(*rec.DebtToEquity)
	}
	if rec.CurrentRatio != nil {
		metrics["current_ratio"] = scoreCurrentRatio(*rec.CurrentRatio)
	}
	if rec.QuickRatio != nil {
		metrics["quick_ratio"] = scoreQuickRatio(*rec.QuickRatio)
	}
	if rec.InterestCoverage != nil {
		metrics["interest_coverage"] = scoreInterestCoverage(*rec.InterestCoverage)
	}
	if rec.FreeCashFlow != nil {
		metrics["free_cash_flow"] = scoreFreeCashFlow(*rec.FreeCashFlow)
	}
	return buildCategory(CategoryHealth, metrics)
}

func buildCategory(name string, metrics map[string]float64) CategoryScore {
	cat := CategoryScore{Name: name, Metrics: metrics}
	if len(metrics) == 0 {
		return cat
	}
	var sum float64
	for _, v := range metrics {
		sum += v
	}
	cat.Score = sum / float64(len(metrics))
	cat.Available = true
	return cat
}

func scorePE(pe float64) float64 {
	switch {
	case pe <= 0:
		return 10
	case pe < 15:
		return 90
	case pe < 25:
		return 75
	case pe < 35:
		return 55
	case pe < 50:
		return 35
	default:
		return 15
	}
}

// Forward multiples already discount expected growth, so the bands sit
// below the trailing P/E ones.
func scoreForwardPE(pe float64) float64 {
	switch {
	case pe <= 0:
		return 10
	case pe < 12:
		return 90
	case pe < 20:
		return 75
	case pe < 30:
		return 55
	case pe < 45:
		return 35
	default:
		return 15
	}
}

func scorePEG(peg float64) float64 {
	switch {
	case peg < 1:
		return 95
	case peg < 1.5:
		return 80
	case peg < 2:
		return 60
	case peg < 3:
		return 40
	default:
		return 20
	}
}

func scorePB(pb float64) float64 {
	switch {
	case pb < 1:
		return 90
	case pb < 2:
		return 75
	case pb < 3:
		return 60
	case pb < 5:
		return 40
	default:
		return 20
	}
}

func scorePS(ps float64) float64 {
	switch {
	case ps < 1:
		return 90
	case ps < 2:
		return 75
	case ps < 4:
		return 55
	case ps < 8:
		return 35
	default:
		return 15
	}
}

func scoreROE(roe float64) float64 {
	switch {
	case roe > 0.20:
		return 95
	case roe > 0.15:
		return 80
	case roe > 0.10:
		return 65
	case roe > 0.05:
		return 45
	default:
		return 25
	}
}

func scoreROA(roa float64) float64 {
	switch {
	case roa > 0.10:
		return 95
	case roa > 0.07:
		return 80
	case roa > 0.04:
		return 60
	case roa > 0.02:
		return 40
	default:
		return 20
	}
}

func scoreProfitMargin(m float64) float64 {
	switch {
	case m > 0.20:
		return 95
	case m > 0.12:
		return 80
	case m > 0.07:
		return 60
	case m > 0.03:
		return 40
	default:
		return 20
	}
}

func scoreOperatingMargin(m float64) float64 {
	switch {
	case m > 0.25:
		return 95
	case m > 0.15:
		return 80
	case m > 0.08:
		return 60
	case m > 0.03:
		return 40
	default:
		return 20
	}
}

func scoreGrossMargin(m float64) float64 {
	switch {
	case m > 0.40:
		return 95
	case m > 0.30:
		return 80
	case m > 0.20:
		return 60
	case m > 0.10:
		return 40
	default:
		return 20
	}
}

func scoreGrowthRate(g float64) float64 {
	switch {
	case g > 0.25:
		return 95
	case g > 0.15:
		return 80
	case g > 0.08:
		return 60
	case g > 0.02:
		return 40
	default:
		return 20
	}
}

// A low PEG means the market is paying little for each unit of growth, so
// the contribution is inverse.
func scorePEGGrowth(peg float64) float64 {
	switch {
	case peg < 0.8:
		return 95
	case peg < 1.2:
		return 80
	case peg < 2:
		return 60
	case peg < 3:
		return 40
	default:
		return 20
	}
}

func scoreDebtToEquity(de float64) float64 {
	switch {
	case de < 0.3:
		return 95
	case de < 0.5:
		return 80
	case de < 0.7:
		return 65
	case de < 1.0:
		return 50
	default:
		return 25
	}
}

func scoreCurrentRatio(cr float64) float64 {
	switch {
	case cr > 2.0:
		return 90
	case cr > 1.5:
		return 75
	case cr > 1.0:
		return 55
	case cr > 0.8:
		return 35
	default:
		return 15
	}
}

func scoreQuickRatio(qr float64) float64 {
	switch {
	case qr > 1.5:
		return 90
	case qr > 1.0:
		return 75
	case qr > 0.7:
		return 55
	case qr > 0.5:
		return 35
	default:
		return 15
	}
}

func scoreFreeCashFlow(fcf float64) float64 {
	if fcf > 0 {
		return 85
	}
	return 15
}

func scoreInterestCoverage(ic float64) float64 {
	switch {
	case ic > 10:
		return 95
	case ic > 5:
		return 80
	case ic > 2.5:
		return 60
	case ic > 1.5:
		return 40
	default:
		return 20
	}
}
