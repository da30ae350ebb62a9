package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"PortfolioPulse/internal/model"
)

// SQLiteRecorder persists run snapshots to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so external readers do not block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			window_days    INTEGER,
			total_value    TEXT,
			volatility_pct REAL,
			sharpe         REAL,
			risk_available INTEGER,
			sharpe_defined INTEGER,
			observations   INTEGER,
			profile        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS valuation_rows (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         INTEGER NOT NULL REFERENCES runs(id),
			ticker         TEXT NOT NULL,
			shares         REAL,
			price          REAL,
			previous_close REAL,
			value          TEXT,
			day_change_pct REAL,
			fallback       INTEGER,
			weight         REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_run ON valuation_rows(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_ticker ON valuation_rows(ticker)`,

		`CREATE TABLE IF NOT EXISTS excluded_tickers (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			stage  TEXT NOT NULL,
			ticker TEXT NOT NULL,
			reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_excluded_run ON excluded_tickers(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// RecordRun writes the snapshot and its rows in one transaction.
func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs
		(timestamp, window_days, total_value, volatility_pct, sharpe,
		 risk_available, sharpe_defined, observations, profile)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		snap.GeneratedAt.Unix(), snap.Window.Days, snap.Valuation.Total.String(),
		snap.Risk.VolatilityPct, snap.Risk.Sharpe,
		boolInt(snap.Risk.Available), boolInt(snap.Risk.SharpeDefined),
		snap.Risk.Observations, string(snap.Profile),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, row := range snap.Valuation.Rows {
		if _, err := tx.Exec(`INSERT INTO valuation_rows
			(run_id, ticker, shares, price, previous_close, value, day_change_pct, fallback, weight)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			runID, row.Ticker, row.Shares, row.Price, row.PreviousClose, row.Value.String(),
			row.DayChangePct, boolInt(row.DayChangeFallback), row.Weight,
		); err != nil {
			return fmt.Errorf("insert row %s: %w", row.Ticker, err)
		}
	}
	excluded := map[string][]model.TickerWarning{
		"valuation": snap.Valuation.Warnings,
		"trend":     snap.TrendWarnings,
	}
	for stage, ws := range excluded {
		for _, w := range ws {
			if _, err := tx.Exec(`INSERT INTO excluded_tickers (run_id, stage, ticker, reason) VALUES (?,?,?,?)`,
				runID, stage, w.Ticker, w.Reason,
			); err != nil {
				return fmt.Errorf("insert excluded %s (%s): %w", w.Ticker, stage, err)
			}
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
