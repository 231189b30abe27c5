package model

// Strength is the directional strength of a trading signal.
type Strength string

const (
	StrongBuy  Strength = "strong_buy"
	Buy        Strength = "buy"
	Neutral    Strength = "neutral"
	Sell       Strength = "sell"
	StrongSell Strength = "strong_sell"
)

func (s Strength) Buyish() bool  { return s == Buy || s == StrongBuy }
func (s Strength) Sellish() bool { return s == Sell || s == StrongSell }

// Direction collapses a strength to -1/0/+1. Hysteresis compares
// directions, not exact strengths, so buy vs strong_buy is not a reversal.
func (s Strength) Direction() int {
	switch {
	case s.Buyish():
		return +1
	case s.Sellish():
		return -1
	default:
		return 0
	}
}

// PriceSample is one OHLCV bar. Immutable once recorded.
type PriceSample struct {
	Timestamp int64   `json:"timestamp"` // unix ms
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

type Trend string

const (
	TrendPositive Trend = "positive"
	TrendNegative Trend = "negative"
	TrendNeutral  Trend = "neutral"
)

// SentimentSnapshot is the externally produced sentiment reading.
// Consumed read-only; Score is in [-1, 1].
type SentimentSnapshot struct {
	Score       float64 `json:"score"`
	Trend       Trend   `json:"trend"`
	LastUpdated int64   `json:"last_updated"` // unix ms
}

// Signal is one combined trading signal for a symbol.
type Signal struct {
	Strength        Strength `json:"signal"`
	Confidence      float64  `json:"confidence"` // [0, 1]
	Price           float64  `json:"price"`
	Timestamp       int64    `json:"timestamp"` // unix ms
	SentimentScore  float64  `json:"sentiment_score"`
	TechnicalSignal Strength `json:"technical_signal"`
}

type PositionType string

const (
	PositionLong  PositionType = "long"
	PositionShort PositionType = "short"
	PositionClose PositionType = "close"
)

type PositionStatus string

const (
	StatusOpen   PositionStatus = "open"
	StatusClosed PositionStatus = "closed"
)

// OrderIDs holds exchange order identifiers attached to a live position.
type OrderIDs struct {
	Entry      string `json:"entry,omitempty"`
	StopLoss   string `json:"stop_loss,omitempty"`
	TakeProfit string `json:"take_profit,omitempty"`
	Exit       string `json:"exit,omitempty"`
}

// Position transitions open -> closed once and is never reopened.
// While open on a long: StopLoss < EntryPrice < TakeProfit.
type Position struct {
	ID         string         `json:"id"`
	Symbol     string         `json:"symbol"`
	Type       PositionType   `json:"type"`
	EntryPrice float64        `json:"entry_price"`
	ExitPrice  float64        `json:"exit_price,omitempty"`
	Size       float64        `json:"size"` // asset units, > 0
	StopLoss   float64        `json:"stop_loss,omitempty"`
	TakeProfit float64        `json:"take_profit,omitempty"`
	Status     PositionStatus `json:"status"`
	OpenTime   int64          `json:"open_time"`  // unix ms
	CloseTime  int64          `json:"close_time"` // unix ms, 0 while open
	Orders     OrderIDs       `json:"orders,omitempty"`
}

// Notional is the capital committed at entry.
func (p *Position) Notional() float64 { return p.Size * p.EntryPrice }

// Return is the fractional trade return, defined for closed positions.
func (p *Position) Return() float64 {
	if p.EntryPrice <= 0 {
		return 0
	}
	return (p.ExitPrice - p.EntryPrice) / p.EntryPrice
}

// Won reports whether the closed trade exited above its entry.
func (p *Position) Won() bool { return p.ExitPrice > p.EntryPrice }

// PerformanceResult aggregates a completed trade log. Derived, never
// persisted independently of its inputs.
type PerformanceResult struct {
	Positions   []*Position `json:"positions"`
	TotalTrades int         `json:"total_trades"`
	ProfitLoss  float64     `json:"profit_loss"`
	WinRate     float64     `json:"win_rate"` // percent
	MaxDrawdown float64     `json:"max_drawdown"`
	SharpeRatio float64     `json:"sharpe_ratio"`
}

// AccountSummary is the paper/live account view.
type AccountSummary struct {
	Balance       float64 `json:"balance"`
	OpenPositions int     `json:"open_positions"`
	TotalTrades   int     `json:"total_trades"`
	ProfitLoss    float64 `json:"profit_loss"`
	WinRate       float64 `json:"win_rate"`
}
