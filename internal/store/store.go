// Package store persists bar history and fundamental records in SQLite.
package store

import (
	"context"
	"time"

	"stock-advisor/internal/models"
)

// Store is the persistence interface the CLI and engine consume.
type Store interface {
	// SaveBars upserts bars for a symbol, keyed by timestamp.
	SaveBars(ctx context.Context, symbol string, bars []models.Bar) error
	// FetchSeries returns a symbol's bars in timestamp order. Zero time
	// bounds mean unbounded. Returns ErrSymbolNotFound when nothing is
	// stored for the symbol.
	FetchSeries(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)
	// SaveFundamentals upserts the record's present fields.
	SaveFundamentals(ctx context.Context, symbol string, rec *models.FundamentalRecord) error
	// FetchFundamentals returns a symbol's record, or ErrSymbolNotFound.
	FetchFundamentals(ctx context.Context, symbol string) (*models.FundamentalRecord, error)
	// Symbols lists every symbol with stored bars or fundamentals.
	Symbols(ctx context.Context) ([]string, error)
	Close() error
}
