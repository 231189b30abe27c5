package port

import (
	"context"
	"errors"

	"sentrader/internal/domain/model"
)

// Closed set of exchange failure kinds, produced at the gateway boundary
// and matched with errors.Is. Callers never inspect message text.
var (
	ErrAuth         = errors.New("exchange: authentication failed")
	ErrPermission   = errors.New("exchange: insufficient api permissions")
	ErrRateLimited  = errors.New("exchange: rate limited")
	ErrUnavailable  = errors.New("exchange: temporarily unavailable")
	ErrNetwork      = errors.New("exchange: network error")
	ErrNotConnected = errors.New("exchange: not connected")
)

type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

type OrderType string

const (
	OrderMarket     OrderType = "market"
	OrderStopLoss   OrderType = "stop_loss"
	OrderTakeProfit OrderType = "take_profit"
)

// OrderParams carries optional order parameters (trigger price for
// protective orders).
type OrderParams struct {
	StopPrice float64
}

type Order struct {
	ID     string
	Symbol string
	Type   OrderType
	Side   OrderSide
	Amount float64
	Price  float64
}

type Ticker struct {
	Symbol string
	Last   float64
	Ts     int64 // unix ms
}

// ExchangePosition is an open position as reported by the exchange.
type ExchangePosition struct {
	ID            string
	Symbol        string
	Contracts     float64
	EntryPrice    float64
	UnrealizedPnL float64
	Timestamp     int64 // unix ms
}

// ExchangeGateway is the external exchange surface consumed by the core.
// Implementations translate transport failures into the error kinds above.
type ExchangeGateway interface {
	// FetchBalance returns free balance per asset.
	FetchBalance(ctx context.Context) (map[string]float64, error)
	CreateOrder(ctx context.Context, symbol string, typ OrderType, side OrderSide, amount, price float64, params *OrderParams) (*Order, error)
	FetchOpenOrders(ctx context.Context, symbol string) ([]*Order, error)
	CancelOrder(ctx context.Context, id, symbol string) error
	FetchPositions(ctx context.Context) ([]*ExchangePosition, error)
	TickerPrice(ctx context.Context, symbol string) (*Ticker, error)
	// FetchOHLCV returns bars for [fromMs, toMs] in non-decreasing
	// timestamp order.
	FetchOHLCV(ctx context.Context, symbol string, fromMs, toMs int64) ([]model.PriceSample, error)
}
