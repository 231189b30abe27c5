package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"sentrader/internal/application/port"
	"sentrader/internal/domain/history"
	"sentrader/internal/domain/indicator"
	"sentrader/internal/domain/model"
	"sentrader/internal/domain/perf"
	"sentrader/internal/domain/sim"
	"sentrader/internal/domain/signal"
)

// ErrNoPriceData marks a run whose date range yielded no bars. Terminal,
// not retried.
var ErrNoPriceData = errors.New("backtest: no price data for range")

// DefaultBacktestCacheTTL is how long a finished backtest result is
// served from cache.
const DefaultBacktestCacheTTL = time.Hour

// BacktestRequest describes one run. Sentiment is the historical series
// interpolated to each bar by nearest timestamp.
type BacktestRequest struct {
	Symbol    string
	FromMs    int64
	ToMs      int64
	Sentiment []model.SentimentSnapshot
}

// BacktestDeps wires the backtest driver.
type BacktestDeps struct {
	Gateway port.ExchangeGateway
	Repo    port.Repository
	Cache   port.Cache

	SimConfig          sim.Config
	InitialBalance     float64
	WindowSize         int
	SMAShortPeriod     int
	SMALongPeriod      int
	SentimentThreshold float64
	CacheTTL           time.Duration
}

// BacktestService replays a strategy over historical bars. Each run owns
// disjoint state (history, combiner, simulator), so independent runs may
// execute in parallel; within one run bars are processed strictly in
// order because hysteresis and drawdown are time-ordered and stateful.
type BacktestService struct {
	deps BacktestDeps
}

func NewBacktestService(deps BacktestDeps) *BacktestService {
	if deps.InitialBalance <= 0 {
		deps.InitialBalance = 10000
	}
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = DefaultBacktestCacheTTL
	}
	return &BacktestService{deps: deps}
}

func (b *BacktestService) Run(ctx context.Context, req BacktestRequest) (*model.PerformanceResult, error) {
	if req.Symbol == "" {
		return nil, errors.New("backtest: symbol required")
	}
	if req.FromMs <= 0 || req.ToMs <= req.FromMs {
		return nil, errors.New("backtest: invalid date range")
	}

	key := fmt.Sprintf("backtest:%s:%d:%d", req.Symbol, req.FromMs, req.ToMs)
	if b.deps.Cache != nil {
		if raw, ok, err := b.deps.Cache.Get(ctx, key); err == nil && ok {
			var cached model.PerformanceResult
			if json.Unmarshal(raw, &cached) == nil {
				log.Debug().Str("key", key).Msg("backtest served from cache")
				return &cached, nil
			}
		}
	}

	bars, err := b.deps.Gateway.FetchOHLCV(ctx, req.Symbol, req.FromMs, req.ToMs)
	if err != nil {
		return nil, fmt.Errorf("backtest: fetch history: %w", err)
	}
	if len(bars) == 0 {
		return nil, ErrNoPriceData
	}

	tracker := history.NewTracker(b.deps.WindowSize)
	analyzer := indicator.NewAnalyzer(b.deps.SMAShortPeriod, b.deps.SMALongPeriod)
	combiner := signal.NewCombiner(b.deps.SentimentThreshold)
	simulator := sim.New(b.deps.SimConfig, b.deps.InitialBalance)

	for _, bar := range bars {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		snap := nearestSentiment(req.Sentiment, bar.Timestamp)

		tracker.Record(req.Symbol, bar)
		technical := analyzer.Analyze(tracker.Closes(req.Symbol))
		sig := combiner.Combine(req.Symbol, snap, technical, bar.Close, bar.Timestamp)

		if pos := simulator.TryOpen(req.Symbol, sig, bar.Close, bar.Timestamp); pos != nil {
			log.Debug().
				Str("symbol", req.Symbol).
				Str("id", pos.ID).
				Float64("entry", pos.EntryPrice).
				Float64("stop_loss", pos.StopLoss).
				Float64("take_profit", pos.TakeProfit).
				Msg("backtest position opened")
		}

		for _, pos := range simulator.ApplyBar(bar) {
			if err := b.deps.Repo.InsertTrade(ctx, "backtest", pos); err != nil {
				log.Warn().Err(err).Str("id", pos.ID).Msg("persist backtest trade failed")
			}
		}
	}

	acct := simulator.Account()
	result := perf.Evaluate(acct.Trades, acct.InitialBalance, acct.Balance, simulator.MaxDrawdown())

	if err := b.deps.Repo.InsertBacktestRun(ctx, req.Symbol, req.FromMs, req.ToMs, result); err != nil {
		log.Warn().Err(err).Str("symbol", req.Symbol).Msg("persist backtest run failed")
	}

	if b.deps.Cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := b.deps.Cache.Set(ctx, key, raw, b.deps.CacheTTL); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("cache backtest result failed")
			}
		}
	}

	log.Info().
		Str("symbol", req.Symbol).
		Int("bars", len(bars)).
		Int("trades", result.TotalTrades).
		Float64("profit_loss", result.ProfitLoss).
		Float64("win_rate", result.WinRate).
		Float64("max_drawdown", result.MaxDrawdown).
		Float64("sharpe", result.SharpeRatio).
		Msg("backtest finished")

	return result, nil
}

// nearestSentiment picks the snapshot whose LastUpdated is closest to ts.
// An empty series yields a neutral snapshot.
func nearestSentiment(series []model.SentimentSnapshot, ts int64) model.SentimentSnapshot {
	if len(series) == 0 {
		return model.SentimentSnapshot{Score: 0, Trend: model.TrendNeutral, LastUpdated: ts}
	}
	best := series[0]
	bestDiff := absInt64(series[0].LastUpdated - ts)
	for _, s := range series[1:] {
		if d := absInt64(s.LastUpdated - ts); d < bestDiff {
			best = s
			bestDiff = d
		}
	}
	return best
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
