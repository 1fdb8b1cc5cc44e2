package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"options-advisor/internal/models"
)

// SQLiteStore implements ChainStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based chain store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tickers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL UNIQUE,
		name TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS price_bars (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker_id INTEGER NOT NULL,
		timeframe TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		open TEXT NOT NULL,
		high TEXT NOT NULL,
		low TEXT NOT NULL,
		close TEXT NOT NULL,
		volume INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(ticker_id, timeframe, timestamp),
		FOREIGN KEY (ticker_id) REFERENCES tickers(id)
	);

	CREATE TABLE IF NOT EXISTS chain_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker_id INTEGER NOT NULL,
		expiration DATETIME NOT NULL,
		dte INTEGER NOT NULL,
		as_of DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (ticker_id) REFERENCES tickers(id)
	);

	CREATE TABLE IF NOT EXISTS option_contracts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		snapshot_id INTEGER NOT NULL,
		strike TEXT NOT NULL,
		option_type TEXT NOT NULL,
		bid TEXT,
		ask TEXT,
		mark TEXT,
		delta TEXT,
		implied_vol TEXT,
		volume INTEGER,
		open_interest INTEGER,
		FOREIGN KEY (snapshot_id) REFERENCES chain_snapshots(id)
	);

	CREATE TABLE IF NOT EXISTS iv_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker_id INTEGER NOT NULL,
		term TEXT NOT NULL,
		iv_rank TEXT,
		iv TEXT,
		as_of DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (ticker_id) REFERENCES tickers(id)
	);

	CREATE INDEX IF NOT EXISTS idx_price_bars_lookup ON price_bars(ticker_id, timeframe, timestamp);
	CREATE INDEX IF NOT EXISTS idx_snapshots_dte ON chain_snapshots(ticker_id, dte, as_of);
	CREATE INDEX IF NOT EXISTS idx_contracts_snapshot ON option_contracts(snapshot_id);
	CREATE INDEX IF NOT EXISTS idx_iv_metrics_lookup ON iv_metrics(ticker_id, term, as_of);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertTicker inserts the ticker if missing and returns its ID. Symbols
// are stored uppercase.
func (s *SQLiteStore) UpsertTicker(ctx context.Context, symbol, name string) (int64, error) {
	symbol = strings.ToUpper(symbol)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tickers (symbol, name) VALUES (?, ?)
		ON CONFLICT(symbol) DO UPDATE SET name = CASE WHEN excluded.name != '' THEN excluded.name ELSE tickers.name END
	`, symbol, name)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert ticker: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM tickers WHERE symbol = ?`, symbol).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read ticker id: %w", err)
	}
	return id, nil
}

// GetTicker retrieves a ticker by symbol, or nil when unknown.
func (s *SQLiteStore) GetTicker(ctx context.Context, symbol string) (*models.Ticker, error) {
	var t models.Ticker
	var name sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, symbol, name FROM tickers WHERE symbol = ?
	`, strings.ToUpper(symbol)).Scan(&t.ID, &t.Symbol, &name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query ticker: %w", err)
	}
	t.Name = name.String
	return &t, nil
}

// ListTickers returns all known tickers ordered by symbol.
func (s *SQLiteStore) ListTickers(ctx context.Context) ([]models.Ticker, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, symbol, name FROM tickers ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickers: %w", err)
	}
	defer rows.Close()

	var tickers []models.Ticker
	for rows.Next() {
		var t models.Ticker
		var name sql.NullString
		if err := rows.Scan(&t.ID, &t.Symbol, &name); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		t.Name = name.String
		tickers = append(tickers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickers: %w", err)
	}
	return tickers, nil
}

// SavePriceBars saves price bars to the database.
func (s *SQLiteStore) SavePriceBars(ctx context.Context, bars []models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO price_bars (ticker_id, timeframe, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		_, err := stmt.ExecContext(ctx, b.TickerID, string(b.Timeframe), b.Timestamp,
			b.Open.String(), b.High.String(), b.Low.String(), b.Close.String(), b.Volume)
		if err != nil {
			return fmt.Errorf("failed to insert price bar: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LatestClose returns the most recent close for a ticker and timeframe,
// or nil when no bars exist.
func (s *SQLiteStore) LatestClose(ctx context.Context, tickerID int64, timeframe models.Timeframe) (*decimal.Decimal, error) {
	var closeStr string
	err := s.db.QueryRowContext(ctx, `
		SELECT close FROM price_bars
		WHERE ticker_id = ? AND timeframe = ?
		ORDER BY timestamp DESC LIMIT 1
	`, tickerID, string(timeframe)).Scan(&closeStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest close: %w", err)
	}

	closePrice, err := decimal.NewFromString(closeStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse close price: %w", err)
	}
	return &closePrice, nil
}

// SaveChainSnapshot saves a snapshot and its contracts in one transaction
// and returns the snapshot ID.
func (s *SQLiteStore) SaveChainSnapshot(ctx context.Context, snapshot *models.ChainSnapshot) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO chain_snapshots (ticker_id, expiration, dte, as_of)
		VALUES (?, ?, ?, ?)
	`, snapshot.TickerID, snapshot.Expiration, snapshot.DTE, snapshot.AsOf)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	snapshotID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO option_contracts (snapshot_id, strike, option_type, bid, ask, mark, delta, implied_vol, volume, open_interest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range snapshot.Contracts {
		_, err := stmt.ExecContext(ctx, snapshotID,
			c.Strike.String(), string(c.OptionType),
			decString(c.Bid), decString(c.Ask), decString(c.Mark),
			decString(c.Delta), decString(c.ImpliedVol),
			c.Volume, c.OpenInterest)
		if err != nil {
			return 0, fmt.Errorf("failed to insert contract: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return snapshotID, nil
}

// GetChainByDTE returns the most recent snapshot whose DTE falls within
// the tolerance window around the target, with contracts loaded, or nil
// when no snapshot matches.
func (s *SQLiteStore) GetChainByDTE(ctx context.Context, tickerID int64, targetDTE, tolerance int) (*models.ChainSnapshot, error) {
	var snap models.ChainSnapshot
	err := s.db.QueryRowContext(ctx, `
		SELECT id, ticker_id, expiration, dte, as_of
		FROM chain_snapshots
		WHERE ticker_id = ? AND dte >= ? AND dte <= ?
		ORDER BY as_of DESC LIMIT 1
	`, tickerID, targetDTE-tolerance, targetDTE+tolerance).
		Scan(&snap.ID, &snap.TickerID, &snap.Expiration, &snap.DTE, &snap.AsOf)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT strike, option_type, bid, ask, mark, delta, implied_vol, volume, open_interest
		FROM option_contracts
		WHERE snapshot_id = ?
		ORDER BY CAST(strike AS REAL) ASC
	`, snap.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.OptionContractData
		var strikeStr, typeStr string
		var bid, ask, mark, delta, iv sql.NullString
		var volume, oi sql.NullInt64
		if err := rows.Scan(&strikeStr, &typeStr, &bid, &ask, &mark, &delta, &iv, &volume, &oi); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}

		strike, err := decimal.NewFromString(strikeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse strike: %w", err)
		}
		c.Strike = strike
		c.OptionType = models.OptionType(typeStr)
		if c.Bid, err = decFromNull(bid); err != nil {
			return nil, err
		}
		if c.Ask, err = decFromNull(ask); err != nil {
			return nil, err
		}
		if c.Mark, err = decFromNull(mark); err != nil {
			return nil, err
		}
		if c.Delta, err = decFromNull(delta); err != nil {
			return nil, err
		}
		if c.ImpliedVol, err = decFromNull(iv); err != nil {
			return nil, err
		}
		if volume.Valid {
			v := volume.Int64
			c.Volume = &v
		}
		if oi.Valid {
			v := oi.Int64
			c.OpenInterest = &v
		}
		snap.Contracts = append(snap.Contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contracts: %w", err)
	}

	return &snap, nil
}

// SaveIVMetrics saves one IV reading.
func (s *SQLiteStore) SaveIVMetrics(ctx context.Context, m *models.IVMetrics) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO iv_metrics (ticker_id, term, iv_rank, iv, as_of)
		VALUES (?, ?, ?, ?, ?)
	`, m.TickerID, m.Term, decString(m.IVRank), decString(m.IV), m.AsOf)
	if err != nil {
		return fmt.Errorf("failed to insert iv metrics: %w", err)
	}
	return nil
}

// LatestIVMetrics returns the newest IV reading within maxAge, or nil when
// none is fresh enough.
func (s *SQLiteStore) LatestIVMetrics(ctx context.Context, tickerID int64, term string, maxAge time.Duration) (*models.IVMetrics, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	var m models.IVMetrics
	var ivRank, iv sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT ticker_id, term, iv_rank, iv, as_of
		FROM iv_metrics
		WHERE ticker_id = ? AND term = ? AND as_of >= ?
		ORDER BY as_of DESC LIMIT 1
	`, tickerID, term, cutoff).Scan(&m.TickerID, &m.Term, &ivRank, &iv, &m.AsOf)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query iv metrics: %w", err)
	}

	if m.IVRank, err = decFromNull(ivRank); err != nil {
		return nil, err
	}
	if m.IV, err = decFromNull(iv); err != nil {
		return nil, err
	}
	return &m, nil
}

func decString(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func decFromNull(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse decimal %q: %w", s.String, err)
	}
	return &d, nil
}
