package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sentrader/internal/application/port"
	"sentrader/internal/domain/model"
)

// recordingRepo captures every write for assertions.
type recordingRepo struct {
	mu        sync.Mutex
	trades    []tradeWrite
	signals   []model.Signal
	runs      int
	tradeErr  error
	signalErr error
}

type tradeWrite struct {
	userID string
	pos    *model.Position
}

func (r *recordingRepo) InsertTrade(ctx context.Context, userID string, pos *model.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tradeErr != nil {
		return r.tradeErr
	}
	r.trades = append(r.trades, tradeWrite{userID: userID, pos: pos})
	return nil
}

func (r *recordingRepo) InsertSignal(ctx context.Context, symbol string, sig model.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.signalErr != nil {
		return r.signalErr
	}
	r.signals = append(r.signals, sig)
	return nil
}

func (r *recordingRepo) InsertBacktestRun(ctx context.Context, symbol string, fromMs, toMs int64, result *model.PerformanceResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
	return nil
}

func (r *recordingRepo) Close() error { return nil }

// mapCache is a plain map cache; entries never expire.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	return b, ok, nil
}

func (c *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

// fakeGateway scripts the exchange surface per test.
type fakeGateway struct {
	balances  map[string]float64
	bars      []model.PriceSample
	positions []*port.ExchangePosition
	orders    []*port.Order
	ticker    *port.Ticker

	ohlcvCalls int
	created    []*port.Order
	cancelled  []string

	balanceErr error
	ohlcvErr   error

	// createErr fails the nth CreateOrder call (1-based); 0 disables.
	createErrAt int
	createErr   error
	createCalls int
}

func (g *fakeGateway) FetchBalance(ctx context.Context) (map[string]float64, error) {
	if g.balanceErr != nil {
		return nil, g.balanceErr
	}
	return g.balances, nil
}

func (g *fakeGateway) CreateOrder(ctx context.Context, symbol string, typ port.OrderType, side port.OrderSide, amount, price float64, params *port.OrderParams) (*port.Order, error) {
	g.createCalls++
	if g.createErrAt != 0 && g.createCalls == g.createErrAt {
		return nil, g.createErr
	}
	o := &port.Order{
		ID:     fmt.Sprintf("ord-%d", g.createCalls),
		Symbol: symbol,
		Type:   typ,
		Side:   side,
		Amount: amount,
		Price:  price,
	}
	g.created = append(g.created, o)
	return o, nil
}

func (g *fakeGateway) FetchOpenOrders(ctx context.Context, symbol string) ([]*port.Order, error) {
	return g.orders, nil
}

func (g *fakeGateway) CancelOrder(ctx context.Context, id, symbol string) error {
	g.cancelled = append(g.cancelled, id)
	return nil
}

func (g *fakeGateway) FetchPositions(ctx context.Context) ([]*port.ExchangePosition, error) {
	return g.positions, nil
}

func (g *fakeGateway) TickerPrice(ctx context.Context, symbol string) (*port.Ticker, error) {
	return g.ticker, nil
}

func (g *fakeGateway) FetchOHLCV(ctx context.Context, symbol string, fromMs, toMs int64) ([]model.PriceSample, error) {
	g.ohlcvCalls++
	if g.ohlcvErr != nil {
		return nil, g.ohlcvErr
	}
	return g.bars, nil
}

var (
	_ port.Repository      = (*recordingRepo)(nil)
	_ port.Cache           = (*mapCache)(nil)
	_ port.ExchangeGateway = (*fakeGateway)(nil)
)
