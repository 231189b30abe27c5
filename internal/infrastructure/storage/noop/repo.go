package noop

import (
	"context"

	"sentrader/internal/application/port"
	"sentrader/internal/domain/model"
)

// Repo discards all writes. Used when no storage backend is configured
// and as a default in tests.
type Repo struct{}

func New() *Repo { return &Repo{} }

func (Repo) InsertTrade(ctx context.Context, userID string, pos *model.Position) error { return nil }

func (Repo) InsertSignal(ctx context.Context, symbol string, sig model.Signal) error { return nil }

func (Repo) InsertBacktestRun(ctx context.Context, symbol string, fromMs, toMs int64, result *model.PerformanceResult) error {
	return nil
}

func (Repo) Close() error { return nil }

var _ port.Repository = Repo{}
