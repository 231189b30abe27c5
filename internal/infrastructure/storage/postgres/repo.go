package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"sentrader/internal/application/port"
	"sentrader/internal/domain/model"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

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
  entry_price DOUBLE PRECISION NOT NULL,
  exit_price DOUBLE PRECISION,
  size DOUBLE PRECISION NOT NULL,
  stop_loss DOUBLE PRECISION,
  take_profit DOUBLE PRECISION,
  status TEXT NOT NULL,
  open_time BIGINT NOT NULL,
  close_time BIGINT,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trades_user ON trades(user_id);

CREATE TABLE IF NOT EXISTS signals (
  id BIGSERIAL PRIMARY KEY,
  symbol TEXT NOT NULL,
  strength TEXT NOT NULL,
  confidence DOUBLE PRECISION NOT NULL,
  price DOUBLE PRECISION NOT NULL,
  sentiment_score DOUBLE PRECISION NOT NULL,
  technical_signal TEXT NOT NULL,
  ts_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(ts_ms);

CREATE TABLE IF NOT EXISTS backtest_runs (
  id BIGSERIAL PRIMARY KEY,
  symbol TEXT NOT NULL,
  from_ms BIGINT NOT NULL,
  to_ms BIGINT NOT NULL,
  total_trades INTEGER NOT NULL,
  profit_loss DOUBLE PRECISION NOT NULL,
  win_rate DOUBLE PRECISION NOT NULL,
  max_drawdown DOUBLE PRECISION NOT NULL,
  sharpe_ratio DOUBLE PRECISION NOT NULL,
  created_at BIGINT NOT NULL
);
`)
	return err
}

func (r *Repo) InsertTrade(ctx context.Context, userID string, pos *model.Position) error {
	now := time.Now().UnixMilli()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO trades(id, user_id, symbol, type, entry_price, exit_price, size, stop_loss, take_profit, status, open_time, close_time, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT(id) DO UPDATE SET
		exit_price=EXCLUDED.exit_price, status=EXCLUDED.status, close_time=EXCLUDED.close_time, updated_at=EXCLUDED.updated_at
	`, pos.ID, userID, pos.Symbol, string(pos.Type), pos.EntryPrice, pos.ExitPrice, pos.Size,
		pos.StopLoss, pos.TakeProfit, string(pos.Status), pos.OpenTime, pos.CloseTime, now, now)
	return err
}

func (r *Repo) InsertSignal(ctx context.Context, symbol string, sig model.Signal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO signals(symbol, strength, confidence, price, sentiment_score, technical_signal, ts_ms)
		VALUES($1, $2, $3, $4, $5, $6, $7)
	`, symbol, string(sig.Strength), sig.Confidence, sig.Price, sig.SentimentScore, string(sig.TechnicalSignal), sig.Timestamp)
	return err
}

func (r *Repo) InsertBacktestRun(ctx context.Context, symbol string, fromMs, toMs int64, result *model.PerformanceResult) error {
	now := time.Now().UnixMilli()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO backtest_runs(symbol, from_ms, to_ms, total_trades, profit_loss, win_rate, max_drawdown, sharpe_ratio, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, symbol, fromMs, toMs, result.TotalTrades, result.ProfitLoss, result.WinRate, result.MaxDrawdown, result.SharpeRatio, now)
	return err
}

var _ port.Repository = (*Repo)(nil)
