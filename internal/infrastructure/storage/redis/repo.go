package redis

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"

	"sentrader/internal/application/port"
	"sentrader/internal/domain/model"
)

// Repo publishes signals and trades onto Redis streams so downstream
// consumers (dashboards, alerting) can follow them live. Backtest runs
// are not mirrored here; they live in sqlite/postgres.
type Repo struct {
	rdb          *redis.Client
	prefix       string
	signalStream string
	signalChan   string
	tradeStream  string
}

func New(rdb *redis.Client, prefix string) *Repo {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "sentrader"
	}
	return &Repo{
		rdb:          rdb,
		prefix:       prefix,
		signalStream: prefix + ":signals",
		signalChan:   prefix + ":signals:pub",
		tradeStream:  prefix + ":trades",
	}
}

func (r *Repo) Close() error { return r.rdb.Close() }

func (r *Repo) InsertSignal(ctx context.Context, symbol string, sig model.Signal) error {
	payload, _ := json.Marshal(sig)

	// 1) Stream: XADD <stream> * ts symbol payload
	_, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.signalStream,
		Values: map[string]any{
			"ts_ms":      sig.Timestamp,
			"symbol":     symbol,
			"signal":     string(sig.Strength),
			"confidence": sig.Confidence,
			"payload":    string(payload),
		},
	}).Result()
	if err != nil {
		return err
	}

	// 2) PubSub: PUBLISH <channel> json
	return r.rdb.Publish(ctx, r.signalChan, string(payload)).Err()
}

func (r *Repo) InsertTrade(ctx context.Context, userID string, pos *model.Position) error {
	payload, _ := json.Marshal(pos)
	_, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.tradeStream,
		Values: map[string]any{
			"user":    userID,
			"id":      pos.ID,
			"symbol":  pos.Symbol,
			"status":  string(pos.Status),
			"payload": string(payload),
		},
	}).Result()
	return err
}

func (r *Repo) InsertBacktestRun(ctx context.Context, symbol string, fromMs, toMs int64, result *model.PerformanceResult) error {
	return nil
}

var _ port.Repository = (*Repo)(nil)
