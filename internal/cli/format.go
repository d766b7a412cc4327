package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"stock-advisor/internal/analysis"
	"stock-advisor/internal/engine"
	"stock-advisor/pkg/utils"
)

var (
	buyBadge  = color.New(color.FgGreen, color.Bold)
	sellBadge = color.New(color.FgRed, color.Bold)
	holdBadge = color.New(color.FgYellow, color.Bold)
	noneBadge = color.New(color.FgWhite, color.Faint)
)

// ActionBadge renders the recommendation action as a colored badge.
func ActionBadge(action engine.Action) string {
	switch action {
	case engine.ActionBuy:
		return buyBadge.Sprint("▲ BUY")
	case engine.ActionSell:
		return sellBadge.Sprint("▼ SELL")
	case engine.ActionHold:
		return holdBadge.Sprint("→ HOLD")
	case engine.ActionInsufficientData:
		return noneBadge.Sprint("? INSUFFICIENT DATA")
	default:
		return string(action)
	}
}

func directionText(o *Output, d analysis.Direction) string {
	switch d {
	case analysis.Bullish:
		return o.Green(string(d))
	case analysis.Bearish:
		return o.Red(string(d))
	default:
		return o.Yellow(string(d))
	}
}

func signalDirectionText(o *Output, d analysis.SignalDirection) string {
	switch d {
	case analysis.Buy:
		return o.Green(string(d))
	case analysis.Sell:
		return o.Red(string(d))
	default:
		return o.Yellow(string(d))
	}
}

// renderReport prints the full report as formatted tables.
func renderReport(o *Output, report *engine.Report) {
	o.Bold("Analysis: %s", report.Symbol)
	if report.Bars > 0 {
		o.Dim("%d bars through %s, last close %s",
			report.Bars, report.AsOf.Format("2006-01-02"), utils.FormatNumber(report.LastClose))
	}
	o.Println()

	if len(report.Indicators) > 0 {
		renderIndicators(o, report.Indicators)
	}
	if len(report.Patterns) > 0 {
		renderPatterns(o, report.Patterns)
	}
	if len(report.Levels) > 0 {
		renderLevels(o, report.Levels)
	}
	if len(report.Signals) > 0 {
		renderSignals(o, report.Signals)
	}
	if report.Fundamentals != nil {
		renderFundamentals(o, report)
	}

	renderRecommendation(o, report.Recommendation)
}

func renderIndicators(o *Output, values map[string]float64) {
	o.Info("Indicators")
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	table := NewTable(o, "Indicator", "Latest")
	for _, name := range names {
		table.AddRow(name, fmt.Sprintf("%.4f", values[name]))
	}
	table.Render()
	o.Println()
}

func renderPatterns(o *Output, patterns []analysis.Pattern) {
	o.Info("Patterns")
	table := NewTable(o, "Pattern", "Type", "Direction", "Bars", "Confidence", "Target")
	limit := len(patterns)
	if limit > 15 {
		limit = 15
	}
	for _, p := range patterns[:limit] {
		target := "-"
		if p.TargetPrice != 0 {
			target = fmt.Sprintf("%.2f", p.TargetPrice)
		}
		conf := fmt.Sprintf("%.0f%%", p.Confidence*100)
		if p.VolumeConfirm {
			conf += " *"
		}
		table.AddRow(
			p.Name,
			string(p.Type),
			directionText(o, p.Direction),
			fmt.Sprintf("%d-%d", p.StartIndex, p.EndIndex),
			conf,
			target,
		)
	}
	table.Render()
	if len(patterns) > limit {
		o.Dim("... and %d more", len(patterns)-limit)
	}
	o.Println()
}

func renderLevels(o *Output, levels []analysis.Level) {
	o.Info("Support / Resistance")
	table := NewTable(o, "Price", "Kind", "Touches")
	for _, l := range levels {
		kind := o.Green(string(l.Kind))
		if l.Kind == analysis.Resistance {
			kind = o.Red(string(l.Kind))
		}
		table.AddRow(fmt.Sprintf("%.2f", l.Price), kind, fmt.Sprintf("%d", l.Strength))
	}
	table.Render()
	o.Println()
}

func renderSignals(o *Output, signals []analysis.Signal) {
	o.Info("Signals")
	table := NewTable(o, "Signal", "Family", "Direction", "Strength", "Rationale")
	for _, s := range signals {
		table.AddRow(
			s.Name,
			s.Family,
			signalDirectionText(o, s.Direction),
			fmt.Sprintf("%.2f", s.Strength),
			s.Rationale,
		)
	}
	table.Render()
	o.Println()
}

func renderFundamentals(o *Output, report *engine.Report) {
	o.Info("Fundamentals")
	card := report.Fundamentals
	table := NewTable(o, "Category", "Score", "Metrics")
	for _, cat := range card.Categories() {
		if !cat.Available {
			table.AddRow(cat.Name, o.DimText("n/a"), "-")
			continue
		}
		names := make([]string, 0, len(cat.Metrics))
		for name := range cat.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		table.AddRow(cat.Name, o.FormatScore(cat.Score), strings.Join(names, ", "))
	}
	table.Render()
	if card.Available {
		o.Printf("Composite: %s/100\n", o.FormatScore(card.Composite))
	}

	if v := report.Valuation; v != nil {
		if v.DCF.Applicable {
			o.Printf("DCF intrinsic value: %.2f (%s)\n", v.DCF.IntrinsicValue, o.FormatPercent(v.DCF.Upside*100))
		} else {
			o.Dim("DCF not applicable: %s", v.DCF.Reason)
		}
		if v.DDM.Applicable {
			o.Printf("DDM intrinsic value: %.2f (%s)\n", v.DDM.IntrinsicValue, o.FormatPercent(v.DDM.Upside*100))
		} else {
			o.Dim("DDM not applicable: %s", v.DDM.Reason)
		}
	}
	o.Println()
}

func renderRecommendation(o *Output, rec engine.Recommendation) {
	o.Printf("%s  strength %.2f\n", ActionBadge(rec.Action), rec.Strength)
	if rec.TechnicalAvailable {
		o.Printf("  technical score:   %s\n", o.FormatPercent(rec.TechnicalScore*100))
	}
	if rec.FundamentalAvailable {
		o.Printf("  fundamental score: %s\n", o.FormatPercent(rec.FundamentalScore*100))
	}
	for _, reason := range rec.Rationale {
		o.Dim("  - %s", reason)
	}
}
