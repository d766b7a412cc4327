package valuation

import (
	"math"
	"testing"

	"stock-advisor/internal/config"
	"stock-advisor/internal/models"
)

func valuationConfig() config.ValuationConfig {
	return config.ValuationConfig{
		RiskFreeRate:    0.045,
		MarketReturn:    0.095,
		TerminalGrowth:  0.025,
		ProjectionYears: 5,
		MaxGrowthRate:   0.25,
		DefaultBeta:     1.0,
	}
}

func dividendPayer() *models.FundamentalRecord {
	return &models.FundamentalRecord{
		CurrentPrice:      models.Ptr(50.0),
		FreeCashFlow:      models.Ptr(1000.0),
		SharesOutstanding: models.Ptr(100.0),
		EarningsGrowth:    models.Ptr(0.05),
		DividendPerShare:  models.Ptr(2.0),
	}
}

func TestBothModelsApplicable(t *testing.T) {
	v := NewValuator(valuationConfig())
	s := v.Value(dividendPayer())

	if !s.DCF.Applicable {
		t.Fatalf("DCF inapplicable: %s", s.DCF.Reason)
	}
	if !s.DDM.Applicable {
		t.Fatalf("DDM inapplicable: %s", s.DDM.Reason)
	}
	if s.DCF.IntrinsicValue <= 0 || s.DDM.IntrinsicValue <= 0 {
		t.Errorf("intrinsic values %.2f/%.2f should be positive",
			s.DCF.IntrinsicValue, s.DDM.IntrinsicValue)
	}

	want := (s.DCF.IntrinsicValue + s.DDM.IntrinsicValue) / 2
	if math.Abs(s.IntrinsicValue-want) > 0.0001 {
		t.Errorf("summary value %.4f, want mean of models %.4f", s.IntrinsicValue, want)
	}
	if !s.Applicable {
		t.Error("summary should be applicable with a known price")
	}
	if s.IntrinsicValue > 50 && s.Upside <= 0 {
		t.Errorf("upside %.4f should be positive when value exceeds price", s.Upside)
	}
}

func TestNoDividendMakesDDMInapplicable(t *testing.T) {
	rec := dividendPayer()
	rec.DividendPerShare = nil

	s := NewValuator(valuationConfig()).Value(rec)
	if s.DDM.Applicable {
		t.Error("DDM should not run without a dividend")
	}
	if s.DDM.Reason == "" {
		t.Error("inapplicable model should carry a reason")
	}
	if !s.DCF.Applicable {
		t.Errorf("DCF should still run: %s", s.DCF.Reason)
	}
	if s.IntrinsicValue != s.DCF.IntrinsicValue {
		t.Errorf("summary %.4f should equal the only applicable model %.4f",
			s.IntrinsicValue, s.DCF.IntrinsicValue)
	}
}

func TestNegativeFreeCashFlowMakesDCFInapplicable(t *testing.T) {
	rec := dividendPayer()
	rec.FreeCashFlow = models.Ptr(-500.0)

	s := NewValuator(valuationConfig()).Value(rec)
	if s.DCF.Applicable {
		t.Error("DCF should not run on negative free cash flow")
	}
	if s.DCF.Reason == "" {
		t.Error("inapplicable model should carry a reason")
	}
}

func TestMissingSharesMakesDCFInapplicable(t *testing.T) {
	rec := dividendPayer()
	rec.SharesOutstanding = nil

	s := NewValuator(valuationConfig()).Value(rec)
	if s.DCF.Applicable {
		t.Error("DCF needs a share count")
	}
}

func TestGrowthAtOrAboveDiscountMakesDCFInapplicable(t *testing.T) {
	rec := dividendPayer()
	// Caps at 25%, still above the 9.5% discount rate.
	rec.EarningsGrowth = models.Ptr(0.50)

	s := NewValuator(valuationConfig()).Value(rec)
	if s.DCF.Applicable {
		t.Error("DCF should refuse growth at or above the discount rate")
	}
}

func TestUnknownPriceLeavesSummaryInapplicable(t *testing.T) {
	rec := dividendPayer()
	rec.CurrentPrice = nil

	s := NewValuator(valuationConfig()).Value(rec)
	if !s.DCF.Applicable || !s.DDM.Applicable {
		t.Fatal("models should still run without a price")
	}
	if s.Applicable {
		t.Error("summary upside needs a current price")
	}
	if s.IntrinsicValue <= 0 {
		t.Error("intrinsic value should still be computed")
	}
}

func TestHigherBetaLowersValuation(t *testing.T) {
	v := NewValuator(valuationConfig())

	low := dividendPayer()
	low.Beta = models.Ptr(0.8)
	high := dividendPayer()
	high.Beta = models.Ptr(2.0)

	sLow := v.Value(low)
	sHigh := v.Value(high)
	if !sLow.DDM.Applicable || !sHigh.DDM.Applicable {
		t.Fatal("DDM should run for both betas")
	}
	if sHigh.DDM.IntrinsicValue >= sLow.DDM.IntrinsicValue {
		t.Errorf("beta 2.0 value %.2f should be below beta 0.8 value %.2f",
			sHigh.DDM.IntrinsicValue, sLow.DDM.IntrinsicValue)
	}
}
