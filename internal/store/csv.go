package store

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	apperrors "stock-advisor/internal/errors"
	"stock-advisor/internal/models"
)

// csvDate parses the date column, accepting a plain date or RFC3339.
type csvDate struct {
	time.Time
}

func (d *csvDate) UnmarshalCSV(field string) error {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, field); err == nil {
			d.Time = t
			return nil
		}
	}
	t, err := time.Parse("02-01-2006", field)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

type csvBar struct {
	Date   csvDate `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume int64   `csv:"volume"`
}

// ReadBarsCSV loads bars from a CSV file with date,open,high,low,close,
// volume columns. Rows come back sorted by timestamp.
func ReadBarsCSV(path string) ([]models.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(err, "opening CSV file")
	}
	defer f.Close()

	var rows []*csvBar
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, apperrors.Wrap(err, "parsing CSV file")
	}
	if len(rows) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrDataInsufficient, "CSV file has no rows")
	}

	bars := make([]models.Bar, len(rows))
	for i, r := range rows {
		bars[i] = models.Bar{
			Timestamp: r.Date.Time,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		}
	}
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})
	return bars, nil
}

// ImportCSV loads a CSV file and stores its bars under the symbol.
func (s *SQLiteStore) ImportCSV(ctx context.Context, symbol, path string) (int, error) {
	bars, err := ReadBarsCSV(path)
	if err != nil {
		return 0, err
	}
	if err := s.SaveBars(ctx, symbol, bars); err != nil {
		return 0, err
	}
	return len(bars), nil
}
