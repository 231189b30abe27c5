package composite

import (
	"context"

	"sentrader/internal/application/port"
	"sentrader/internal/domain/model"
)

// Repo fans writes out to several repositories, returning the first error
// after attempting all of them.
type Repo struct {
	repos []port.Repository
}

func New(repos ...port.Repository) *Repo {
	// nil repos are allowed; filter in constructor for safety
	out := make([]port.Repository, 0, len(repos))
	for _, r := range repos {
		if r != nil {
			out = append(out, r)
		}
	}
	return &Repo{repos: out}
}

func (r *Repo) InsertTrade(ctx context.Context, userID string, pos *model.Position) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.InsertTrade(ctx, userID, pos); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) InsertSignal(ctx context.Context, symbol string, sig model.Signal) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.InsertSignal(ctx, symbol, sig); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) InsertBacktestRun(ctx context.Context, symbol string, fromMs, toMs int64, result *model.PerformanceResult) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.InsertBacktestRun(ctx, symbol, fromMs, toMs, result); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) Close() error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ port.Repository = (*Repo)(nil)
