// Package models provides the domain types shared across the analysis engine.
package models

import (
	"time"
)

// Bar represents OHLCV data for one time interval.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// Range returns the high-low span of the bar.
func (b Bar) Range() float64 {
	return b.High - b.Low
}

// IsBullish reports whether the bar closed above its open.
func (b Bar) IsBullish() bool {
	return b.Close > b.Open
}

// IsBearish reports whether the bar closed below its open.
func (b Bar) IsBearish() bool {
	return b.Close < b.Open
}

// FundamentalRecord holds a company's financial metrics. Every field is
// optional: a nil pointer means the provider did not supply the metric,
// which is distinct from a zero value.
type FundamentalRecord struct {
	MarketCap         *float64 `json:"market_cap,omitempty"`
	PERatio           *float64 `json:"pe_ratio,omitempty"`
	ForwardPE         *float64 `json:"forward_pe,omitempty"`
	PBRatio           *float64 `json:"pb_ratio,omitempty"`
	PSRatio           *float64 `json:"ps_ratio,omitempty"`
	PEGRatio          *float64 `json:"peg_ratio,omitempty"`
	EPS               *float64 `json:"eps,omitempty"`
	ROE               *float64 `json:"roe,omitempty"`
	ROA               *float64 `json:"roa,omitempty"`
	ProfitMargin      *float64 `json:"profit_margin,omitempty"`
	OperatingMargin   *float64 `json:"operating_margin,omitempty"`
	GrossMargin       *float64 `json:"gross_margin,omitempty"`
	RevenueGrowth     *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth    *float64 `json:"earnings_growth,omitempty"`
	DebtToEquity      *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio      *float64 `json:"current_ratio,omitempty"`
	QuickRatio        *float64 `json:"quick_ratio,omitempty"`
	InterestCoverage  *float64 `json:"interest_coverage,omitempty"`
	FreeCashFlow      *float64 `json:"free_cash_flow,omitempty"`
	DividendYield     *float64 `json:"dividend_yield,omitempty"`
	DividendPerShare  *float64 `json:"dividend_per_share,omitempty"`
	PayoutRatio       *float64 `json:"payout_ratio,omitempty"`
	Beta              *float64 `json:"beta,omitempty"`
	BookValue         *float64 `json:"book_value,omitempty"`
	SharesOutstanding *float64 `json:"shares_outstanding,omitempty"`
	CurrentPrice      *float64 `json:"current_price,omitempty"`
}

// Ptr returns a pointer to v. Convenience for building records.
func Ptr(v float64) *float64 {
	return &v
}

// Fields returns the record as a name-to-value map, preserving nil for
// absent metrics. Used by the store to persist records field by field.
func (r *FundamentalRecord) Fields() map[string]*float64 {
	return map[string]*float64{
		"market_cap":         r.MarketCap,
		"pe_ratio":           r.PERatio,
		"forward_pe":         r.ForwardPE,
		"pb_ratio":           r.PBRatio,
		"ps_ratio":           r.PSRatio,
		"peg_ratio":          r.PEGRatio,
		"eps":                r.EPS,
		"roe":                r.ROE,
		"roa":                r.ROA,
		"profit_margin":      r.ProfitMargin,
		"operating_margin":   r.OperatingMargin,
		"gross_margin":       r.GrossMargin,
		"revenue_growth":     r.RevenueGrowth,
		"earnings_growth":    r.EarningsGrowth,
		"debt_to_equity":     r.DebtToEquity,
		"current_ratio":      r.CurrentRatio,
		"quick_ratio":        r.QuickRatio,
		"interest_coverage":  r.InterestCoverage,
		"free_cash_flow":     r.FreeCashFlow,
		"dividend_yield":     r.DividendYield,
		"dividend_per_share": r.DividendPerShare,
		"payout_ratio":       r.PayoutRatio,
		"beta":               r.Beta,
		"book_value":         r.BookValue,
		"shares_outstanding": r.SharesOutstanding,
		"current_price":      r.CurrentPrice,
	}
}

// SetField sets a metric by its persisted name. Unknown names are ignored.
func (r *FundamentalRecord) SetField(name string, value float64) {
	v := value
	switch name {
	case "market_cap":
		r.MarketCap = &v
	case "pe_ratio":
		r.PERatio = &v
	case "forward_pe":
		r.ForwardPE = &v
	case "pb_ratio":
		r.PBRatio = &v
	case "ps_ratio":
		r.PSRatio = &v
	case "peg_ratio":
		r.PEGRatio = &v
	case "eps":
		r.EPS = &v
	case "roe":
		r.ROE = &v
	case "roa":
		r.ROA = &v
	case "profit_margin":
		r.ProfitMargin = &v
	case "operating_margin":
		r.OperatingMargin = &v
	case "gross_margin":
		r.GrossMargin = &v
	case "revenue_growth":
		r.RevenueGrowth = &v
	case "earnings_growth":
		r.EarningsGrowth = &v
	case "debt_to_equity":
		r.DebtToEquity = &v
	case "current_ratio":
		r.CurrentRatio = &v
	case "quick_ratio":
		r.QuickRatio = &v
	case "interest_coverage":
		r.InterestCoverage = &v
	case "free_cash_flow":
		r.FreeCashFlow = &v
	case "dividend_yield":
		r.DividendYield = &v
	case "dividend_per_share":
		r.DividendPerShare = &v
	case "payout_ratio":
		r.PayoutRatio = &v
	case "beta":
		r.Beta = &v
	case "book_value":
		r.BookValue = &v
	case "shares_outstanding":
		r.SharesOutstanding = &v
	case "current_price":
		r.CurrentPrice = &v
	}
}

// IsEmpty reports whether the record carries no metrics at all.
func (r *FundamentalRecord) IsEmpty() bool {
	if r == nil {
		return true
	}
	for _, v := range r.Fields() {
		if v != nil {
			return false
		}
	}
	return true
}
