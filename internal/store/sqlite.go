package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "stock-advisor/internal/errors"
	"stock-advisor/internal/models"
)

// SQLiteStore implements Store over a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS bars (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol    TEXT NOT NULL,
	timestamp DATETIME NOT NULL,
	open      REAL NOT NULL,
	high      REAL NOT NULL,
	low       REAL NOT NULL,
	close     REAL NOT NULL,
	volume    INTEGER NOT NULL,
	UNIQUE(symbol, timestamp)
);
CREATE INDEX IF NOT EXISTS idx_bars_symbol_ts ON bars(symbol, timestamp);

CREATE TABLE IF NOT EXISTS fundamentals (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol     TEXT NOT NULL,
	field      TEXT NOT NULL,
	value      REAL NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE(symbol, field)
);
CREATE INDEX IF NOT EXISTS idx_fundamentals_symbol ON fundamentals(symbol);
`

// NewSQLiteStore opens (creating if needed) the database at path and
// applies the schema. WAL mode keeps concurrent reads cheap.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, apperrors.Wrap(err, "creating database directory")
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, apperrors.Wrap(err, "opening database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, "applying schema")
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveBars upserts bars inside one transaction.
func (s *SQLiteStore) SaveBars(ctx context.Context, symbol string, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bars (symbol, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, timestamp) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume`)
	if err != nil {
		return apperrors.Wrap(err, "preparing bar insert")
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, b.Timestamp.UTC(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return apperrors.Wrapf(err, "inserting bar %s", b.Timestamp)
		}
	}
	return tx.Commit()
}

// FetchSeries returns bars in timestamp order within the optional bounds.
func (s *SQLiteStore) FetchSeries(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	query := `SELECT timestamp, open, high, low, close, volume FROM bars WHERE symbol = ?`
	args := []interface{}{symbol}
	if !from.IsZero() {
		query += ` AND timestamp >= ?`
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		query += ` AND timestamp <= ?`
		args = append(args, to.UTC())
	}
	query += ` ORDER BY timestamp ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "querying bars")
	}
	defer rows.Close()

	var bars []models.Bar
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, apperrors.Wrap(err, "scanning bar")
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "iterating bars")
	}
	if len(bars) == 0 {
		return nil, apperrors.NewDataError("bars", symbol, "no bars stored", apperrors.ErrSymbolNotFound)
	}
	return bars, nil
}

// SaveFundamentals upserts every present field of the record.
func (s *SQLiteStore) SaveFundamentals(ctx context.Context, symbol string, rec *models.FundamentalRecord) error {
	if rec.IsEmpty() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fundamentals (symbol, field, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol, field) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`)
	if err != nil {
		return apperrors.Wrap(err, "preparing fundamentals insert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for field, value := range rec.Fields() {
		if value == nil {
			continue
		}
		if _, err := stmt.ExecContext(ctx, symbol, field, *value, now); err != nil {
			return apperrors.Wrapf(err, "inserting field %s", field)
		}
	}
	return tx.Commit()
}

// FetchFundamentals reassembles the record from stored fields.
func (s *SQLiteStore) FetchFundamentals(ctx context.Context, symbol string) (*models.FundamentalRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT field, value FROM fundamentals WHERE symbol = ?`, symbol)
	if err != nil {
		return nil, apperrors.Wrap(err, "querying fundamentals")
	}
	defer rows.Close()

	rec := &models.FundamentalRecord{}
	found := false
	for rows.Next() {
		var field string
		var value float64
		if err := rows.Scan(&field, &value); err != nil {
			return nil, apperrors.Wrap(err, "scanning fundamental field")
		}
		rec.SetField(field, value)
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "iterating fundamentals")
	}
	if !found {
		return nil, apperrors.NewDataError("fundamentals", symbol, "no fundamentals stored", apperrors.ErrSymbolNotFound)
	}
	return rec, nil
}

// Symbols lists every symbol present in either table.
func (s *SQLiteStore) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol FROM bars
		UNION
		SELECT symbol FROM fundamentals
		ORDER BY symbol`)
	if err != nil {
		return nil, apperrors.Wrap(err, "querying symbols")
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, apperrors.Wrap(err, "scanning symbol")
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}
