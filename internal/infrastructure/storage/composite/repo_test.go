package composite

import (
	"context"
	"errors"
	"testing"

	"sentrader/internal/domain/model"
)

type countingRepo struct {
	trades  int
	signals int
	runs    int
	closes  int
	err     error
}

func (c *countingRepo) InsertTrade(ctx context.Context, userID string, pos *model.Position) error {
	c.trades++
	return c.err
}

func (c *countingRepo) InsertSignal(ctx context.Context, symbol string, sig model.Signal) error {
	c.signals++
	return c.err
}

func (c *countingRepo) InsertBacktestRun(ctx context.Context, symbol string, fromMs, toMs int64, result *model.PerformanceResult) error {
	c.runs++
	return c.err
}

func (c *countingRepo) Close() error {
	c.closes++
	return c.err
}

func TestCompositeFansOutToAll(t *testing.T) {
	a, b := &countingRepo{}, &countingRepo{}
	repo := New(a, b)
	ctx := context.Background()

	if err := repo.InsertTrade(ctx, "u", &model.Position{ID: "t"}); err != nil {
		t.Fatalf("insert trade failed: %v", err)
	}
	if err := repo.InsertSignal(ctx, "BTC/USDT", model.Signal{}); err != nil {
		t.Fatalf("insert signal failed: %v", err)
	}
	if err := repo.InsertBacktestRun(ctx, "BTC/USDT", 1, 2, &model.PerformanceResult{}); err != nil {
		t.Fatalf("insert run failed: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	for i, r := range []*countingRepo{a, b} {
		if r.trades != 1 || r.signals != 1 || r.runs != 1 || r.closes != 1 {
			t.Errorf("repo %d counts = %+v, want one call each", i, r)
		}
	}
}

func TestCompositeReturnsFirstErrorAfterTryingAll(t *testing.T) {
	boom := errors.New("boom")
	failing := &countingRepo{err: boom}
	healthy := &countingRepo{}
	repo := New(failing, healthy)

	err := repo.InsertTrade(context.Background(), "u", &model.Position{ID: "t"})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want the failing repo's error", err)
	}
	if healthy.trades != 1 {
		t.Error("healthy repo should still receive the write")
	}
}

func TestCompositeFiltersNilRepos(t *testing.T) {
	a := &countingRepo{}
	repo := New(nil, a, nil)

	if err := repo.InsertSignal(context.Background(), "BTC/USDT", model.Signal{}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if a.signals != 1 {
		t.Errorf("signals = %d, want 1", a.signals)
	}
}
