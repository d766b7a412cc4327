package indicators

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"stock-advisor/internal/models"
)

// barGen generates valid bars with realistic OHLCV values.
func barGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.Bar{}), map[string]gopter.Gen{
		"Open":   gen.Float64Range(100.0, 1000.0),
		"High":   gen.Float64Range(100.0, 1000.0),
		"Low":    gen.Float64Range(100.0, 1000.0),
		"Close":  gen.Float64Range(100.0, 1000.0),
		"Volume": gen.Int64Range(1000, 10000000),
	}).Map(func(b models.Bar) models.Bar {
		return fixBar(b)
	})
}

// fixBar enforces OHLC constraints so shrinking cannot produce invalid bars.
func fixBar(b models.Bar) models.Bar {
	if b.Open <= 0 {
		b.Open = 100.0
	}
	if b.Close <= 0 {
		b.Close = 100.0
	}
	b.High = math.Max(b.High, math.Max(b.Open, b.Close))
	b.Low = math.Min(b.Low, math.Min(b.Open, b.Close))
	if b.Low <= 0 {
		b.Low = math.Min(b.Open, b.Close)
	}
	if b.High <= b.Low {
		b.High = b.Low + 1.0
	}
	if b.Volume < 0 {
		b.Volume = 1000
	}
	return b
}

// barSliceGen generates a slice of valid bars with increasing timestamps.
func barSliceGen(minLen, maxLen int) gopter.Gen {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return gen.SliceOfN(maxLen, barGen()).Map(func(bars []models.Bar) []models.Bar {
		if len(bars) < minLen {
			for len(bars) < minLen {
				bars = append(bars, bars[len(bars)-1])
			}
		}
		for i := range bars {
			bars[i] = fixBar(bars[i])
			bars[i].Timestamp = base.Add(time.Duration(i) * 24 * time.Hour)
		}
		return bars
	})
}

func testParams() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.MaxShrinkCount = 0
	parameters.Rng.Seed(time.Now().UnixNano())
	return parameters
}

func TestProperty_RSIWithinBounds(t *testing.T) {
	properties := gopter.NewProperties(testParams())

	properties.Property("RSI values are within [0, 100]", prop.ForAll(
		func(bars []models.Bar) bool {
			rsi := NewRSI(14)
			result, err := rsi.Calculate(bars)
			if err != nil {
				return true
			}
			for _, v := range result.Value.Values() {
				if v < 0 || v > 100 {
					return false
				}
			}
			return true
		},
		barSliceGen(20, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_StochasticWithinBounds(t *testing.T) {
	properties := gopter.NewProperties(testParams())

	properties.Property("Stochastic %K and %D values are within [0, 100]", prop.ForAll(
		func(bars []models.Bar) bool {
			stoch := NewStochastic(14, 3)
			result, err := stoch.Calculate(bars)
			if err != nil {
				return true
			}
			for _, comp := range []string{"k", "d"} {
				for _, v := range result.Components[comp].Values() {
					if v < 0 || v > 100 {
						return false
					}
				}
			}
			return true
		},
		barSliceGen(25, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_WilliamsRWithinBounds(t *testing.T) {
	properties := gopter.NewProperties(testParams())

	properties.Property("Williams %R values are within [-100, 0]", prop.ForAll(
		func(bars []models.Bar) bool {
			wr := NewWilliamsR(14)
			result, err := wr.Calculate(bars)
			if err != nil {
				return true
			}
			for _, v := range result.Value.Values() {
				if v < -100 || v > 0 {
					return false
				}
			}
			return true
		},
		barSliceGen(20, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_MFIWithinBounds(t *testing.T) {
	properties := gopter.NewProperties(testParams())

	properties.Property("MFI values are within [0, 100]", prop.ForAll(
		func(bars []models.Bar) bool {
			mfi := NewMFI(14)
			result, err := mfi.Calculate(bars)
			if err != nil {
				return true
			}
			for _, v := range result.Value.Values() {
				if v < 0 || v > 100 {
					return false
				}
			}
			return true
		},
		barSliceGen(20, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_ADXWithinBounds(t *testing.T) {
	properties := gopter.NewProperties(testParams())

	properties.Property("ADX, +DI, -DI values are within [0, 100]", prop.ForAll(
		func(bars []models.Bar) bool {
			adx := NewADX(14)
			result, err := adx.Calculate(bars)
			if err != nil {
				return true
			}
			for _, comp := range []string{"adx", "plus_di", "minus_di"} {
				for _, v := range result.Components[comp].Values() {
					if v < 0 || v > 100 {
						return false
					}
				}
			}
			return true
		},
		barSliceGen(35, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_BollingerBandsOrdering(t *testing.T) {
	properties := gopter.NewProperties(testParams())

	properties.Property("Bollinger Bands: Lower <= Middle <= Upper", prop.ForAll(
		func(bars []models.Bar) bool {
			bb := NewBollinger(20, 2.0)
			result, err := bb.Calculate(bars)
			if err != nil {
				return true
			}
			upper := result.Components["upper"].Values()
			middle := result.Components["middle"].Values()
			lower := result.Components["lower"].Values()
			for i := range upper {
				if lower[i] > middle[i] || middle[i] > upper[i] {
					return false
				}
			}
			return true
		},
		barSliceGen(25, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_SMAIsAverageOfPrices(t *testing.T) {
	properties := gopter.NewProperties(testParams())

	properties.Property("SMA is the arithmetic mean of closing prices over the period", prop.ForAll(
		func(bars []models.Bar) bool {
			period := 10
			sma := NewSMA(period)
			result, err := sma.Calculate(bars)
			if err != nil {
				return true
			}
			closes := closePrices(bars)
			for i, v := range result.Value.Values() {
				barIdx := i + result.Value.Offset()
				expected := mean(closes[barIdx-period+1 : barIdx+1])
				if math.Abs(v-expected) > 0.0001 {
					return false
				}
			}
			return true
		},
		barSliceGen(15, 50),
	))

	properties.TestingRun(t)
}

func TestProperty_ATRIsNonNegative(t *testing.T) {
	properties := gopter.NewProperties(testParams())

	properties.Property("ATR values are non-negative", prop.ForAll(
		func(bars []models.Bar) bool {
			atr := NewATR(14)
			result, err := atr.Calculate(bars)
			if err != nil {
				return true
			}
			for _, v := range result.Value.Values() {
				if v < 0 {
					return false
				}
			}
			return true
		},
		barSliceGen(20, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_SequenceAlignment(t *testing.T) {
	properties := gopter.NewProperties(testParams())

	properties.Property("every sequence covers bars offset through len-1 exactly", prop.ForAll(
		func(bars []models.Bar) bool {
			calcs := []Calculator{
				NewSMA(20), NewEMA(12), NewRSI(14), NewATR(14),
				NewROC(12), NewMomentum(10), NewVWAP(), NewOBV(),
			}
			for _, calc := range calcs {
				result, err := calc.Calculate(bars)
				if err != nil {
					continue
				}
				seq := result.Value
				if seq.Offset()+seq.Len() != len(bars) {
					return false
				}
				if _, ok := seq.At(seq.Offset() - 1); ok {
					return false
				}
				if _, ok := seq.At(seq.Offset()); !ok && seq.Len() > 0 {
					return false
				}
				if _, ok := seq.At(len(bars) - 1); !ok && seq.Len() > 0 {
					return false
				}
			}
			return true
		},
		barSliceGen(25, 80),
	))

	properties.TestingRun(t)
}
