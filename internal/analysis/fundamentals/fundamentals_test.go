package fundamentals

import (
	"math"
	"testing"

	"stock-advisor/internal/config"
	"stock-advisor/internal/models"
)

func fundamentalsConfig() config.FundamentalsConfig {
	return config.FundamentalsConfig{
		WeightValuation:     0.25,
		WeightProfitability: 0.25,
		WeightGrowth:        0.25,
		WeightHealth:        0.25,
	}
}

func TestValuationOnlyRecord(t *testing.T) {
	rec := &models.FundamentalRecord{
		PERatio: models.Ptr(10.0),
		PBRatio: models.Ptr(1.5),
	}

	card := NewScorer(fundamentalsConfig()).Score(rec)
	if !card.Valuation.Available {
		t.Fatal("valuation should be available")
	}
	if card.Profitability.Available || card.Growth.Available || card.Health.Available {
		t.Error("only valuation metrics were provided")
	}

	// PE 10 scores 90, PB 1.5 scores 75.
	want := (90.0 + 75.0) / 2
	if math.Abs(card.Valuation.Score-want) > 0.0001 {
		t.Errorf("valuation score = %.2f, want %.2f", card.Valuation.Score, want)
	}
	if math.Abs(card.Composite-want) > 0.0001 {
		t.Errorf("composite = %.2f, want the sole category score %.2f", card.Composite, want)
	}
	if !card.Available {
		t.Error("scorecard should be available with one scored category")
	}
}

func TestEmptyRecordUnavailable(t *testing.T) {
	card := NewScorer(fundamentalsConfig()).Score(&models.FundamentalRecord{})
	if card.Available {
		t.Error("empty record should leave the scorecard unavailable")
	}
	if card.Composite != 0 {
		t.Errorf("composite = %.2f, want 0 with nothing scored", card.Composite)
	}
	for _, cat := range card.Categories() {
		if cat.Available {
			t.Errorf("category %s available with no metrics", cat.Name)
		}
	}
}

func TestNegativeEarningsScoreLow(t *testing.T) {
	rec := &models.FundamentalRecord{PERatio: models.Ptr(-5.0)}
	card := NewScorer(fundamentalsConfig()).Score(rec)
	if card.Valuation.Metrics["pe_ratio"] != 10 {
		t.Errorf("negative P/E scored %.0f, want the floor of 10", card.Valuation.Metrics["pe_ratio"])
	}
}

func TestNonPositiveRatiosSkipped(t *testing.T) {
	rec := &models.FundamentalRecord{
		PEGRatio: models.Ptr(-1.0),
		PBRatio:  models.Ptr(0.0),
		PSRatio:  models.Ptr(-2.0),
	}
	card := NewScorer(fundamentalsConfig()).Score(rec)
	if card.Valuation.Available {
		t.Errorf("non-positive ratios should not score, got %+v", card.Valuation.Metrics)
	}
}

func TestScoresWithinHundredScale(t *testing.T) {
	records := []*models.FundamentalRecord{
		{
			PERatio: models.Ptr(8.0), PEGRatio: models.Ptr(0.9), PBRatio: models.Ptr(0.8),
			PSRatio: models.Ptr(0.5), ROE: models.Ptr(0.30), ROA: models.Ptr(0.15),
			ProfitMargin: models.Ptr(0.25), OperatingMargin: models.Ptr(0.30),
			RevenueGrowth: models.Ptr(0.30), EarningsGrowth: models.Ptr(0.40),
			DebtToEquity: models.Ptr(0.1), CurrentRatio: models.Ptr(3.0),
			QuickRatio: models.Ptr(2.0), InterestCoverage: models.Ptr(20.0),
		},
		{
			PERatio: models.Ptr(80.0), ROE: models.Ptr(-0.10),
			RevenueGrowth: models.Ptr(-0.20), DebtToEquity: models.Ptr(3.0),
		},
	}

	for _, rec := range records {
		card := NewScorer(fundamentalsConfig()).Score(rec)
		for _, cat := range card.Categories() {
			if !cat.Available {
				continue
			}
			if cat.Score < 0 || cat.Score > 100 {
				t.Errorf("%s score %.2f outside [0, 100]", cat.Name, cat.Score)
			}
			for name, v := range cat.Metrics {
				if v < 0 || v > 100 {
					t.Errorf("metric %s = %.2f outside [0, 100]", name, v)
				}
			}
		}
		if card.Composite < 0 || card.Composite > 100 {
			t.Errorf("composite %.2f outside [0, 100]", card.Composite)
		}
	}
}

func TestForwardLookingMetricsScored(t *testing.T) {
	rec := &models.FundamentalRecord{
		ForwardPE:    models.Ptr(10.0),
		GrossMargin:  models.Ptr(0.45),
		PEGRatio:     models.Ptr(0.6),
		FreeCashFlow: models.Ptr(1.2e9),
	}

	card := NewScorer(fundamentalsConfig()).Score(rec)
	for _, cat := range card.Categories() {
		if !cat.Available {
			t.Errorf("category %s should score from the extended metrics", cat.Name)
		}
	}

	if got := card.Valuation.Metrics["forward_pe"]; got != 90 {
		t.Errorf("forward_pe at 10 scored %.0f, want 90", got)
	}
	if got := card.Valuation.Metrics["peg_ratio"]; got != 95 {
		t.Errorf("peg_ratio at 0.6 scored %.0f, want 95", got)
	}
	if got := card.Profitability.Metrics["gross_margin"]; got != 95 {
		t.Errorf("gross_margin at 0.45 scored %.0f, want 95", got)
	}
	if got := card.Growth.Metrics["peg_growth"]; got != 95 {
		t.Errorf("peg_growth at 0.6 scored %.0f, want 95", got)
	}
	if got := card.Health.Metrics["free_cash_flow"]; got != 85 {
		t.Errorf("positive free cash flow scored %.0f, want 85", got)
	}

	burning := NewScorer(fundamentalsConfig()).Score(&models.FundamentalRecord{
		FreeCashFlow: models.Ptr(-5.0e8),
	})
	if got := burning.Health.Metrics["free_cash_flow"]; got != 15 {
		t.Errorf("negative free cash flow scored %.0f, want 15", got)
	}
}

func TestCompositeRenormalizesOverAvailableCategories(t *testing.T) {
	cfg := config.FundamentalsConfig{
		WeightValuation:     0.40,
		WeightProfitability: 0.30,
		WeightGrowth:        0.20,
		WeightHealth:        0.10,
	}
	rec := &models.FundamentalRecord{
		PERatio: models.Ptr(10.0),  // valuation 90
		ROE:     models.Ptr(0.25),  // profitability 95
	}

	card := NewScorer(cfg).Score(rec)
	want := (0.40*90 + 0.30*95) / (0.40 + 0.30)
	if math.Abs(card.Composite-want) > 0.0001 {
		t.Errorf("composite = %.4f, want %.4f over the two available categories", card.Composite, want)
	}
}
