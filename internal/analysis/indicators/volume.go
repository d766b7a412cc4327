package indicators

import (
	"fmt"

	"stock-advisor/internal/models"
)

// VWAP is the cumulative volume-weighted average price.
type VWAP struct{}

func NewVWAP() *VWAP {
	return &VWAP{}
}

func (v *VWAP) Name() string {
	return "vwap"
}

func (v *VWAP) MinBars() int {
	return 1
}

func (v *VWAP) Calculate(bars []models.Bar) (Result, error) {
	if err := checkLength(bars, 1); err != nil {
		return Result{}, err
	}

	values := make([]float64, len(bars))
	var cumPV, cumVol float64
	for i, b := range bars {
		tp := (b.High + b.Low + b.Close) / 3
		cumPV += tp * float64(b.Volume)
		cumVol += float64(b.Volume)
		if cumVol > 0 {
			values[i] = cumPV / cumVol
		} else {
			values[i] = tp
		}
	}
	return Result{Value: NewSequence(values, 0)}, nil
}

// OBV is on-balance volume: a running total that adds volume on up closes
// and subtracts it on down closes.
type OBV struct{}

func NewOBV() *OBV {
	return &OBV{}
}

func (o *OBV) Name() string {
	return "obv"
}

func (o *OBV) MinBars() int {
	return 1
}

func (o *OBV) Calculate(bars []models.Bar) (Result, error) {
	if err := checkLength(bars, 1); err != nil {
		return Result{}, err
	}

	values := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			values[i] = values[i-1] + float64(bars[i].Volume)
		case bars[i].Close < bars[i-1].Close:
			values[i] = values[i-1] - float64(bars[i].Volume)
		default:
			values[i] = values[i-1]
		}
	}
	return Result{Value: NewSequence(values, 0)}, nil
}

// MFI is the money flow index, a volume-weighted RSI over typical prices.
type MFI struct {
	period int
}

func NewMFI(period int) *MFI {
	return &MFI{period: period}
}

func (m *MFI) Name() string {
	return fmt.Sprintf("mfi_%d", m.period)
}

func (m *MFI) MinBars() int {
	return m.period + 1
}

func (m *MFI) Calculate(bars []models.Bar) (Result, error) {
	if err := validatePeriod(m.period, 2); err != nil {
		return Result{}, err
	}
	if err := checkLength(bars, m.MinBars()); err != nil {
		return Result{}, err
	}

	tps := typicalPrices(bars)
	posFlow := make([]float64, len(bars)-1)
	negFlow := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		raw := tps[i] * float64(bars[i].Volume)
		if tps[i] > tps[i-1] {
			posFlow[i-1] = raw
		} else if tps[i] < tps[i-1] {
			negFlow[i-1] = raw
		}
	}

	values := make([]float64, len(bars)-m.period)
	for i := m.period - 1; i < len(posFlow); i++ {
		var pos, neg float64
		for j := i - m.period + 1; j <= i; j++ {
			pos += posFlow[j]
			neg += negFlow[j]
		}
		if neg == 0 {
			values[i-m.period+1] = 100
		} else {
			ratio := pos / neg
			values[i-m.period+1] = 100 - 100/(1+ratio)
		}
	}
	return Result{Value: NewSequence(values, m.period)}, nil
}

// VolumeSMA is the simple moving average of volume.
type VolumeSMA struct {
	period int
}

func NewVolumeSMA(period int) *VolumeSMA {
	return &VolumeSMA{period: period}
}

func (v *VolumeSMA) Name() string {
	return fmt.Sprintf("volume_sma_%d", v.period)
}

func (v *VolumeSMA) MinBars() int {
	return v.period
}

func (v *VolumeSMA) Calculate(bars []models.Bar) (Result, error) {
	if err := validatePeriod(v.period, 1); err != nil {
		return Result{}, err
	}
	if err := checkLength(bars, v.period); err != nil {
		return Result{}, err
	}

	volumes := make([]float64, len(bars))
	for i, b := range bars {
		volumes[i] = float64(b.Volume)
	}
	values := smaSeries(volumes, v.period)
	return Result{Value: NewSequence(values, v.period-1)}, nil
}
