package port

import (
	"context"

	"sentrader/internal/domain/model"
)

// Repository persists trades, signals and backtest runs. Implementations:
// sqlite, postgres, redis, composite fan-out, noop.
type Repository interface {
	// Trade operations. InsertTrade upserts by position ID so a close
	// updates the open row.
	InsertTrade(ctx context.Context, userID string, pos *model.Position) error

	// Signal operations
	InsertSignal(ctx context.Context, symbol string, sig model.Signal) error

	// Backtest run log
	InsertBacktestRun(ctx context.Context, symbol string, fromMs, toMs int64, result *model.PerformanceResult) error

	// Connection management
	Close() error
}
