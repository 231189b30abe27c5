package port

import "context"

type Tick struct {
	Symbol string
	Price  float64
	Ts     int64 // unix ms
}

// TickerFeed streams last-price updates for a set of symbols.
type TickerFeed interface {
	Name() string
	Subscribe(ctx context.Context, symbols []string) (<-chan Tick, error)
}
