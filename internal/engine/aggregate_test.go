package engine

import (
	"strings"
	"testing"

	"stock-advisor/internal/analysis"
	"stock-advisor/internal/analysis/fundamentals"
	"stock-advisor/internal/analysis/signals"
	"stock-advisor/internal/analysis/valuation"
	"stock-advisor/internal/config"
)

func decisionConfig() config.DecisionConfig {
	return config.DecisionConfig{
		TechnicalWeight:   0.5,
		FundamentalWeight: 0.5,
		ActionThreshold:   0.3,
		SingleBranchCap:   0.75,
		ValuationNudge:    0.2,
	}
}

func signalWeights() config.SignalsConfig {
	return config.SignalsConfig{
		WeightRSI:       0.20,
		WeightMACD:      0.25,
		WeightBollinger: 0.20,
		WeightMA:        0.25,
		WeightVolume:    0.10,
	}
}

func newTestAggregator() *Aggregator {
	return NewAggregator(decisionConfig(), signalWeights())
}

func buySignal(family string, strength float64) analysis.Signal {
	return analysis.Signal{Name: family + "_test", Family: family, Direction: analysis.Buy, Strength: strength}
}

func sellSignal(family string, strength float64) analysis.Signal {
	return analysis.Signal{Name: family + "_test", Family: family, Direction: analysis.Sell, Strength: strength}
}

func scoredCard(composite float64) *fundamentals.Scorecard {
	return &fundamentals.Scorecard{Composite: composite, Available: true}
}

func TestInsufficientDataIsNotHold(t *testing.T) {
	a := newTestAggregator()

	rec := a.Aggregate(nil, false, nil, nil)
	if rec.Action != ActionInsufficientData {
		t.Errorf("action = %s, want insufficient_data with no inputs", rec.Action)
	}
	if rec.Strength != 0 {
		t.Errorf("strength = %.2f, want 0", rec.Strength)
	}

	// A neutral informed view is a hold, not insufficient data.
	rec = a.Aggregate(nil, true, scoredCard(50), nil)
	if rec.Action != ActionHold {
		t.Errorf("action = %s, want hold on neutral inputs", rec.Action)
	}
}

func TestSingleBranchScoreIsCapped(t *testing.T) {
	a := newTestAggregator()
	sigs := []analysis.Signal{
		buySignal(signals.FamilyRSI, 1),
		buySignal(signals.FamilyMACD, 1),
		buySignal(signals.FamilyBollinger, 1),
		buySignal(signals.FamilyMA, 1),
		buySignal(signals.FamilyVolume, 1),
	}

	rec := a.Aggregate(sigs, true, nil, nil)
	if rec.Action != ActionBuy {
		t.Errorf("action = %s, want buy", rec.Action)
	}
	if rec.Strength != 0.75 {
		t.Errorf("strength = %.2f, want the single-branch cap 0.75", rec.Strength)
	}
	if !strings.Contains(rec.Summary(), "technical view only") {
		t.Errorf("rationale should note the missing branch: %q", rec.Summary())
	}
}

func TestBlendedBuyAndSell(t *testing.T) {
	a := newTestAggregator()
	buys := []analysis.Signal{
		buySignal(signals.FamilyMACD, 1),
		buySignal(signals.FamilyMA, 1),
	}

	rec := a.Aggregate(buys, true, scoredCard(90), nil)
	if rec.Action != ActionBuy {
		t.Errorf("action = %s, want buy from aligned branches", rec.Action)
	}
	if rec.Strength <= 0.3 || rec.Strength > 1 {
		t.Errorf("strength = %.2f, want within (0.3, 1]", rec.Strength)
	}

	sells := []analysis.Signal{
		sellSignal(signals.FamilyMACD, 1),
		sellSignal(signals.FamilyMA, 1),
	}
	rec = a.Aggregate(sells, true, scoredCard(10), nil)
	if rec.Action != ActionSell {
		t.Errorf("action = %s, want sell from aligned branches", rec.Action)
	}
}

func TestUnweightedFamiliesAreInformational(t *testing.T) {
	a := newTestAggregator()
	sigs := []analysis.Signal{
		buySignal(signals.FamilyPattern, 1),
		buySignal(signals.FamilyLevel, 1),
	}

	rec := a.Aggregate(sigs, true, nil, nil)
	if rec.TechnicalScore != 0 {
		t.Errorf("technical score = %.2f, want 0 from unweighted families", rec.TechnicalScore)
	}
	if rec.Action != ActionHold {
		t.Errorf("action = %s, want hold", rec.Action)
	}
}

func TestValuationNudgesFundamentalScore(t *testing.T) {
	a := newTestAggregator()
	val := &valuation.Summary{Upside: 1.0, Applicable: true}

	// Composite 70 maps to 0.4; a full upside nudge of 0.2 lifts it to 0.6.
	rec := a.Aggregate(nil, false, scoredCard(70), val)
	if rec.Action != ActionBuy {
		t.Errorf("action = %s, want buy at fundamental score 0.6", rec.Action)
	}
	if rec.FundamentalScore <= 0.59 || rec.FundamentalScore >= 0.61 {
		t.Errorf("fundamental score = %.4f, want 0.6", rec.FundamentalScore)
	}

	// Without the valuation the same composite stays just above threshold.
	rec = a.Aggregate(nil, false, scoredCard(70), nil)
	if rec.FundamentalScore <= 0.39 || rec.FundamentalScore >= 0.41 {
		t.Errorf("fundamental score = %.4f, want 0.4", rec.FundamentalScore)
	}
}

func TestOpposingBranchesHold(t *testing.T) {
	a := newTestAggregator()
	buys := []analysis.Signal{
		buySignal(signals.FamilyMACD, 1),
		buySignal(signals.FamilyMA, 1),
		buySignal(signals.FamilyRSI, 1),
		buySignal(signals.FamilyBollinger, 1),
		buySignal(signals.FamilyVolume, 1),
	}

	rec := a.Aggregate(buys, true, scoredCard(0), nil)
	// Technical +1 against fundamental -1 cancels out.
	if rec.Action != ActionHold {
		t.Errorf("action = %s, want hold when branches disagree", rec.Action)
	}
	if rec.Strength >= 0.3 {
		t.Errorf("strength = %.2f, want below the action threshold", rec.Strength)
	}
}
