package engine

import (
	"fmt"
	"strings"

	"stock-advisor/internal/analysis"
	"stock-advisor/internal/analysis/fundamentals"
	"stock-advisor/internal/analysis/signals"
	"stock-advisor/internal/analysis/valuation"
	"stock-advisor/internal/config"
)

// Action is the final call on a symbol.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
	// ActionInsufficientData means neither branch had inputs. It is a
	// distinct outcome, not a hold: a hold is an informed decision.
	ActionInsufficientData Action = "insufficient_data"
)

// Recommendation is the blended verdict. Scores are in [-1, 1], Strength
// is the absolute blended score in [0, 1].
type Recommendation struct {
	Action               Action   `json:"action"`
	Strength             float64  `json:"strength"`
	TechnicalScore       float64  `json:"technical_score"`
	FundamentalScore     float64  `json:"fundamental_score"`
	TechnicalAvailable   bool     `json:"technical_available"`
	FundamentalAvailable bool     `json:"fundamental_available"`
	Rationale            []string `json:"rationale,omitempty"`
}

// Summary joins the rationale into one line.
func (r Recommendation) Summary() string {
	return strings.Join(r.Rationale, "; ")
}

// Aggregator blends the technical signal score with the fundamental score.
type Aggregator struct {
	cfg           config.DecisionConfig
	familyWeights map[string]float64
}

// NewAggregator creates an aggregator with the configured blend weights
// and per-family signal weights.
func NewAggregator(cfg config.DecisionConfig, sig config.SignalsConfig) *Aggregator {
	return &Aggregator{
		cfg: cfg,
		familyWeights: map[string]float64{
			signals.FamilyRSI:       sig.WeightRSI,
			signals.FamilyMACD:      sig.WeightMACD,
			signals.FamilyBollinger: sig.WeightBollinger,
			signals.FamilyMA:        sig.WeightMA,
			signals.FamilyVolume:    sig.WeightVolume,
		},
	}
}

// Aggregate produces the recommendation. Exactly one branch present caps
// the blended score so a single view never produces maximum conviction.
func (a *Aggregator) Aggregate(sigs []analysis.Signal, techAvailable bool, card *fundamentals.Scorecard, val *valuation.Summary) Recommendation {
	rec := Recommendation{
		TechnicalAvailable:   techAvailable,
		FundamentalAvailable: card != nil && card.Available,
	}

	if techAvailable {
		rec.TechnicalScore = a.technicalScore(sigs, &rec)
	}
	if rec.FundamentalAvailable {
		rec.FundamentalScore = a.fundamentalScore(card, val, &rec)
	}

	var score float64
	switch {
	case rec.TechnicalAvailable && rec.FundamentalAvailable:
		total := a.cfg.TechnicalWeight + a.cfg.FundamentalWeight
		score = (a.cfg.TechnicalWeight*rec.TechnicalScore + a.cfg.FundamentalWeight*rec.FundamentalScore) / total
	case rec.TechnicalAvailable:
		score = clamp(rec.TechnicalScore, -a.cfg.SingleBranchCap, a.cfg.SingleBranchCap)
		rec.Rationale = append(rec.Rationale, "no fundamental data, technical view only")
	case rec.FundamentalAvailable:
		score = clamp(rec.FundamentalScore, -a.cfg.SingleBranchCap, a.cfg.SingleBranchCap)
		rec.Rationale = append(rec.Rationale, "no technical data, fundamental view only")
	default:
		rec.Action = ActionInsufficientData
		rec.Rationale = append(rec.Rationale, "neither technical nor fundamental inputs available")
		return rec
	}

	rec.Strength = clamp(abs(score), 0, 1)
	switch {
	case score >= a.cfg.ActionThreshold:
		rec.Action = ActionBuy
	case score <= -a.cfg.ActionThreshold:
		rec.Action = ActionSell
	default:
		rec.Action = ActionHold
	}
	return rec
}

// technicalScore sums signed, family-weighted signal strengths. Signals in
// families without a configured weight are informational only.
func (a *Aggregator) technicalScore(sigs []analysis.Signal, rec *Recommendation) float64 {
	var score float64
	for _, sig := range sigs {
		w, ok := a.familyWeights[sig.Family]
		if !ok {
			continue
		}
		switch sig.Direction {
		case analysis.Buy:
			score += w * sig.Strength
			rec.Rationale = append(rec.Rationale, fmt.Sprintf("%s argues buy (%.2f)", sig.Name, sig.Strength))
		case analysis.Sell:
			score -= w * sig.Strength
			rec.Rationale = append(rec.Rationale, fmt.Sprintf("%s argues sell (%.2f)", sig.Name, sig.Strength))
		}
	}
	return clamp(score, -1, 1)
}

// fundamentalScore maps the 0-100 composite onto [-1, 1] around the
// neutral midpoint, nudged by valuation upside when a model applied.
func (a *Aggregator) fundamentalScore(card *fundamentals.Scorecard, val *valuation.Summary, rec *Recommendation) float64 {
	score := (card.Composite - 50) / 50
	rec.Rationale = append(rec.Rationale, fmt.Sprintf("fundamental composite %.0f/100", card.Composite))

	if val != nil && val.Applicable {
		nudge := clamp(val.Upside, -1, 1) * a.cfg.ValuationNudge
		score += nudge
		rec.Rationale = append(rec.Rationale, fmt.Sprintf("valuation implies %.0f%% upside", val.Upside*100))
	}
	return clamp(score, -1, 1)
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

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
