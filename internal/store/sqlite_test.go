package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "stock-advisor/internal/errors"
	"stock-advisor/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "advisor.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func storeBars(n int) []models.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = models.Bar{
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
			Open:      c - 0.5, High: c + 1, Low: c - 1.5, Close: c,
			Volume: 10000,
		}
	}
	return bars
}

func TestSaveAndFetchBars(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	bars := storeBars(10)

	if err := s.SaveBars(ctx, "ACME", bars); err != nil {
		t.Fatalf("SaveBars: %v", err)
	}

	got, err := s.FetchSeries(ctx, "ACME", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("FetchSeries: %v", err)
	}
	if len(got) != len(bars) {
		t.Fatalf("got %d bars, want %d", len(got), len(bars))
	}
	for i := range got {
		if !got[i].Timestamp.Equal(bars[i].Timestamp) {
			t.Errorf("bar %d timestamp = %v, want %v", i, got[i].Timestamp, bars[i].Timestamp)
		}
		if got[i].Close != bars[i].Close || got[i].Volume != bars[i].Volume {
			t.Errorf("bar %d = %+v, want %+v", i, got[i], bars[i])
		}
	}
}

func TestSaveBarsUpserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	bars := storeBars(5)

	if err := s.SaveBars(ctx, "ACME", bars); err != nil {
		t.Fatalf("SaveBars: %v", err)
	}

	bars[2].Close = 500
	if err := s.SaveBars(ctx, "ACME", bars); err != nil {
		t.Fatalf("SaveBars again: %v", err)
	}

	got, err := s.FetchSeries(ctx, "ACME", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("FetchSeries: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d bars after re-import, want 5", len(got))
	}
	if got[2].Close != 500 {
		t.Errorf("bar 2 close = %.2f, want the updated 500", got[2].Close)
	}
}

func TestFetchSeriesBounds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	bars := storeBars(10)

	if err := s.SaveBars(ctx, "ACME", bars); err != nil {
		t.Fatalf("SaveBars: %v", err)
	}

	got, err := s.FetchSeries(ctx, "ACME", bars[3].Timestamp, bars[7].Timestamp)
	if err != nil {
		t.Fatalf("FetchSeries: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d bars in range, want 5", len(got))
	}
	if !got[0].Timestamp.Equal(bars[3].Timestamp) || !got[4].Timestamp.Equal(bars[7].Timestamp) {
		t.Errorf("range [%v, %v], want [%v, %v]",
			got[0].Timestamp, got[4].Timestamp, bars[3].Timestamp, bars[7].Timestamp)
	}
}

func TestFetchSeriesUnknownSymbol(t *testing.T) {
	s := newTestStore(t)

	_, err := s.FetchSeries(context.Background(), "NOPE", time.Time{}, time.Time{})
	if !apperrors.Is(err, apperrors.ErrSymbolNotFound) {
		t.Errorf("err = %v, want ErrSymbolNotFound", err)
	}
}

func TestFundamentalsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := &models.FundamentalRecord{
		PERatio:      models.Ptr(18.5),
		ROE:          models.Ptr(0.22),
		DebtToEquity: models.Ptr(0.4),
	}
	if err := s.SaveFundamentals(ctx, "ACME", rec); err != nil {
		t.Fatalf("SaveFundamentals: %v", err)
	}

	got, err := s.FetchFundamentals(ctx, "ACME")
	if err != nil {
		t.Fatalf("FetchFundamentals: %v", err)
	}
	if got.PERatio == nil || *got.PERatio != 18.5 {
		t.Errorf("pe_ratio = %v, want 18.5", got.PERatio)
	}
	if got.ROE == nil || *got.ROE != 0.22 {
		t.Errorf("roe = %v, want 0.22", got.ROE)
	}
	if got.PBRatio != nil {
		t.Error("pb_ratio was never stored")
	}

	// Updated values replace stored ones.
	rec.PERatio = models.Ptr(25.0)
	if err := s.SaveFundamentals(ctx, "ACME", rec); err != nil {
		t.Fatalf("SaveFundamentals again: %v", err)
	}
	got, err = s.FetchFundamentals(ctx, "ACME")
	if err != nil {
		t.Fatalf("FetchFundamentals: %v", err)
	}
	if *got.PERatio != 25.0 {
		t.Errorf("pe_ratio = %.2f after update, want 25", *got.PERatio)
	}
}

func TestFetchFundamentalsUnknownSymbol(t *testing.T) {
	s := newTestStore(t)

	_, err := s.FetchFundamentals(context.Background(), "NOPE")
	if !apperrors.Is(err, apperrors.ErrSymbolNotFound) {
		t.Errorf("err = %v, want ErrSymbolNotFound", err)
	}
}

func TestSymbolsUnionsBothTables(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveBars(ctx, "AAA", storeBars(3)); err != nil {
		t.Fatalf("SaveBars: %v", err)
	}
	if err := s.SaveFundamentals(ctx, "BBB", &models.FundamentalRecord{PERatio: models.Ptr(10.0)}); err != nil {
		t.Fatalf("SaveFundamentals: %v", err)
	}

	symbols, err := s.Symbols(ctx)
	if err != nil {
		t.Fatalf("Symbols: %v", err)
	}
	if len(symbols) != 2 || symbols[0] != "AAA" || symbols[1] != "BBB" {
		t.Errorf("symbols = %v, want [AAA BBB]", symbols)
	}
}

func TestReadBarsCSV(t *testing.T) {
	// Rows deliberately out of order; the loader sorts them.
	csv := "date,open,high,low,close,volume\n" +
		"2024-01-03,102,104,101,103,12000\n" +
		"2024-01-01,100,102,99,101,10000\n" +
		"2024-01-02,101,103,100,102,11000\n"
	path := filepath.Join(t.TempDir(), "bars.csv")
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	bars, err := ReadBarsCSV(path)
	if err != nil {
		t.Fatalf("ReadBarsCSV: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("got %d bars, want 3", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Timestamp.Before(bars[i].Timestamp) {
			t.Fatalf("bars not sorted by timestamp: %v before %v",
				bars[i-1].Timestamp, bars[i].Timestamp)
		}
	}
	if bars[0].Close != 101 || bars[2].Close != 103 {
		t.Errorf("closes = %.0f..%.0f, want 101..103", bars[0].Close, bars[2].Close)
	}
}

func TestReadBarsCSVEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("date,open,high,low,close,volume\n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := ReadBarsCSV(path); !apperrors.Is(err, apperrors.ErrDataInsufficient) {
		t.Errorf("err = %v, want ErrDataInsufficient", err)
	}
}

func TestImportCSV(t *testing.T) {
	csv := "date,open,high,low,close,volume\n" +
		"2024-01-01,100,102,99,101,10000\n" +
		"2024-01-02,101,103,100,102,11000\n"
	path := filepath.Join(t.TempDir(), "bars.csv")
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	s := newTestStore(t)
	n, err := s.ImportCSV(context.Background(), "ACME", path)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d bars, want 2", n)
	}

	got, err := s.FetchSeries(context.Background(), "ACME", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("FetchSeries: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("stored %d bars, want 2", len(got))
	}
}
