package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"sentrader/internal/application/port"
	"sentrader/internal/domain/model"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS trades (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  symbol TEXT NOT NULL,
  type TEXT NOT NULL,
  entry_price REAL NOT NULL,
  exit_price REAL,
  size REAL NOT NULL,
  stop_loss REAL,
  take_profit REAL,
  status TEXT NOT NULL,
  open_time INTEGER NOT NULL,
  close_time INTEGER,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trades_user ON trades(user_id);
CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
CREATE INDEX IF NOT EXISTS idx_trades_open_time ON trades(open_time);

CREATE TABLE IF NOT EXISTS signals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  symbol TEXT NOT NULL,
  strength TEXT NOT NULL,
  confidence REAL NOT NULL,
  price REAL NOT NULL,
  sentiment_score REAL NOT NULL,
  technical_signal TEXT NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_signals_symbol ON signals(symbol);
CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(ts_ms);

CREATE TABLE IF NOT EXISTS backtest_runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  symbol TEXT NOT NULL,
  from_ms INTEGER NOT NULL,
  to_ms INTEGER NOT NULL,
  total_trades INTEGER NOT NULL,
  profit_loss REAL NOT NULL,
  win_rate REAL NOT NULL,
  max_drawdown REAL NOT NULL,
  sharpe_ratio REAL NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_backtest_symbol ON backtest_runs(symbol);
`)
	return err
}

func (r *Repo) InsertTrade(ctx context.Context, userID string, pos *model.Position) error {
	now := time.Now().UnixMilli()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO trades(id, user_id, symbol, type, entry_price, exit_price, size, stop_loss, take_profit, status, open_time, close_time, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		exit_price=excluded.exit_price, status=excluded.status, close_time=excluded.close_time, updated_at=excluded.updated_at
	`, pos.ID, userID, pos.Symbol, string(pos.Type), pos.EntryPrice, pos.ExitPrice, pos.Size,
		pos.StopLoss, pos.TakeProfit, string(pos.Status), pos.OpenTime, pos.CloseTime, now, now)
	return err
}

func (r *Repo) InsertSignal(ctx context.Context, symbol string, sig model.Signal) error {
	now := time.Now().UnixMilli()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO signals(symbol, strength, confidence, price, sentiment_score, technical_signal, ts_ms, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, symbol, string(sig.Strength), sig.Confidence, sig.Price, sig.SentimentScore, string(sig.TechnicalSignal), sig.Timestamp, now)
	return err
}

func (r *Repo) InsertBacktestRun(ctx context.Context, symbol string, fromMs, toMs int64, result *model.PerformanceResult) error {
	now := time.Now().UnixMilli()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO backtest_runs(symbol, from_ms, to_ms, total_trades, profit_loss, win_rate, max_drawdown, sharpe_ratio, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, symbol, fromMs, toMs, result.TotalTrades, result.ProfitLoss, result.WinRate, result.MaxDrawdown, result.SharpeRatio, now)
	return err
}

// ListTrades returns the user's trades newest-first.
func (r *Repo) ListTrades(ctx context.Context, userID string) ([]*model.Position, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, symbol, type, entry_price, exit_price, size, stop_loss, take_profit, status, open_time, close_time
		FROM trades WHERE user_id=? ORDER BY open_time DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Position
	for rows.Next() {
		var pos model.Position
		var typ, status string
		var exit sql.NullFloat64
		var closeTime sql.NullInt64
		if err := rows.Scan(&pos.ID, &pos.Symbol, &typ, &pos.EntryPrice, &exit, &pos.Size,
			&pos.StopLoss, &pos.TakeProfit, &status, &pos.OpenTime, &closeTime); err != nil {
			return nil, err
		}
		pos.Type = model.PositionType(typ)
		pos.Status = model.PositionStatus(status)
		pos.ExitPrice = exit.Float64
		pos.CloseTime = closeTime.Int64
		out = append(out, &pos)
	}
	return out, rows.Err()
}

var _ port.Repository = (*Repo)(nil)
