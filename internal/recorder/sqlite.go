package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"MarketLens/internal/logger"
	"MarketLens/internal/model"
)

// SQLiteRecorder persists scan results to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logrus.Entry
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets readers (dashboards, ad-hoc queries) run while scans write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{
		db:  db,
		log: logger.GetLogger().WithField("component", "recorder"),
		now: time.Now,
	}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trend_snapshots (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			symbol            TEXT NOT NULL,
			current_price     REAL,
			sma20             REAL,
			sma50             REAL,
			sma100            REAL,
			rsi14             REAL,
			momentum_5d       REAL,
			momentum_20d      REAL,
			high_52w          REAL,
			pct_from_52w_high REAL,
			trend             TEXT,
			signal            TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trend_symbol_ts ON trend_snapshots(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS key_ratio_snapshots (
			id                        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp                 INTEGER NOT NULL,
			symbol                    TEXT NOT NULL,
			price                     REAL,
			previous_close            REAL,
			day_change_pct            REAL,
			high_52w                  REAL,
			low_52w                   REAL,
			avg_daily_return_pct      REAL,
			annualized_volatility_pct REAL,
			ytd_return_pct            REAL,
			trading_days              INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ratios_symbol_ts ON key_ratio_snapshots(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Missing values are stored as NULL.
func (r *SQLiteRecorder) RecordTrend(ctx context.Context, ta *model.TrendAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO trend_snapshots
		(timestamp, symbol, current_price, sma20, sma50, sma100, rsi14,
		 momentum_5d, momentum_20d, high_52w, pct_from_52w_high, trend, signal)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		r.now().Unix(), ta.Symbol, ta.CurrentPrice, ta.SMA20, ta.SMA50, ta.SMA100, ta.RSI14,
		ta.Momentum5Day, ta.Momentum20Day, ta.High52Week, ta.PctFrom52WeekHigh,
		string(ta.Trend), string(ta.Signal),
	)
	if err != nil {
		return fmt.Errorf("insert trend %s: %w", ta.Symbol, err)
	}
	return nil
}

func (r *SQLiteRecorder) RecordKeyRatios(ctx context.Context, kr *model.KeyRatios) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO key_ratio_snapshots
		(timestamp, symbol, price, previous_close, day_change_pct, high_52w, low_52w,
		 avg_daily_return_pct, annualized_volatility_pct, ytd_return_pct, trading_days)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		r.now().Unix(), kr.Symbol, kr.Price, kr.PreviousClose, kr.DayChangePct,
		kr.High52Week, kr.Low52Week, kr.AvgDailyReturnPct, kr.AnnualizedVolatilityPct,
		kr.YTDReturnPct, kr.TradingDays,
	)
	if err != nil {
		return fmt.Errorf("insert key ratios %s: %w", kr.Symbol, err)
	}
	return nil
}

func (r *SQLiteRecorder) RecentTrends(ctx context.Context, symbol string, limit int) ([]model.TrendSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT timestamp, symbol, current_price, sma20, sma50, sma100,
		rsi14, momentum_5d, momentum_20d, high_52w, pct_from_52w_high, trend, signal
		FROM trend_snapshots WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query trends: %w", err)
	}
	defer rows.Close()

	var out []model.TrendSnapshot
	for rows.Next() {
		var (
			ts            int64
			trend, signal string
			row           model.TrendSnapshot
		)
		a := &row.Analysis
		if err := rows.Scan(&ts, &a.Symbol, &a.CurrentPrice, &a.SMA20, &a.SMA50, &a.SMA100,
			&a.RSI14, &a.Momentum5Day, &a.Momentum20Day, &a.High52Week, &a.PctFrom52WeekHigh,
			&trend, &signal); err != nil {
			return nil, fmt.Errorf("scan trend: %w", err)
		}
		row.RecordedAt = time.Unix(ts, 0).UTC()
		a.Trend = model.Trend(trend)
		a.Signal = model.Signal(signal)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
