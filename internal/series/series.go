// Package series provides the validated, immutable price series that feeds
// all technical computations.
package series

import (
	"fmt"

	apperrors "stock-advisor/internal/errors"
	"stock-advisor/internal/models"
)

// Series is an ordered sequence of OHLCV bars with strictly increasing
// timestamps. It is never mutated after construction.
type Series struct {
	bars []models.Bar
}

// New validates the given bars and wraps them in a Series. The input slice
// is copied so later mutation by the caller cannot leak in.
func New(bars []models.Bar) (*Series, error) {
	if len(bars) == 0 {
		return nil, apperrors.ErrDataInsufficient
	}

	owned := make([]models.Bar, len(bars))
	copy(owned, bars)

	for i, b := range owned {
		if b.High < b.Open || b.High < b.Close {
			return nil, fmt.Errorf("bar %d: high %.4f below body: %w", i, b.High, apperrors.ErrInvalidBar)
		}
		if b.Low > b.Open || b.Low > b.Close {
			return nil, fmt.Errorf("bar %d: low %.4f above body: %w", i, b.Low, apperrors.ErrInvalidBar)
		}
		if b.Volume < 0 {
			return nil, fmt.Errorf("bar %d: negative volume %d: %w", i, b.Volume, apperrors.ErrInvalidBar)
		}
		if i > 0 && !owned[i-1].Timestamp.Before(b.Timestamp) {
			return nil, fmt.Errorf("bar %d: timestamp not increasing: %w", i, apperrors.ErrInvalidBar)
		}
	}

	return &Series{bars: owned}, nil
}

// Len returns the number of bars.
func (s *Series) Len() int {
	return len(s.bars)
}

// Bar returns the bar at index i.
func (s *Series) Bar(i int) models.Bar {
	return s.bars[i]
}

// Last returns the most recent bar.
func (s *Series) Last() models.Bar {
	return s.bars[len(s.bars)-1]
}

// Bars returns the underlying bars. The slice is shared; callers must treat
// it as read-only.
func (s *Series) Bars() []models.Bar {
	return s.bars
}

// HighLow returns the highest high and lowest low observed in the series.
func (s *Series) HighLow() (high, low float64) {
	high = s.bars[0].High
	low = s.bars[0].Low
	for _, b := range s.bars[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low
}
