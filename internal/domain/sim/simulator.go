package sim

import (
	"math"

	"github.com/google/uuid"

	"sentrader/internal/domain/model"
)

// Config holds the risk parameters for the position simulator.
type Config struct {
	MaxPositionSize   float64 // fraction of balance committed per position
	MinPositionSize   float64 // USD floor; smaller opens are skipped
	MaxOpenPositions  int
	StopLossPct       float64 // stop at entry * (1 - pct)
	TakeProfitPct     float64 // target at entry * (1 + pct)
	MinimumConfidence float64
	IDPrefix          string // e.g. "sim", "paper"
}

func DefaultConfig() Config {
	return Config{
		MaxPositionSize:   0.10,
		MinPositionSize:   10,
		MaxOpenPositions:  1,
		StopLossPct:       0.02,
		TakeProfitPct:     0.05,
		MinimumConfidence: 0.7,
		IDPrefix:          "sim",
	}
}

// Simulator owns an account's balance and positions, opening on permitted
// signals and closing on stop-loss/take-profit crossings as the price path
// advances. One simulator serves one run; it is not safe for concurrent
// use.
type Simulator struct {
	cfg  Config
	acct *Account
	dd   *Drawdown
}

func New(cfg Config, balance float64) *Simulator {
	if cfg.MaxOpenPositions <= 0 {
		cfg.MaxOpenPositions = 1
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "sim"
	}
	return &Simulator{
		cfg:  cfg,
		acct: NewAccount(balance),
		dd:   NewDrawdown(balance),
	}
}

func (s *Simulator) Account() *Account    { return s.acct }
func (s *Simulator) MaxDrawdown() float64 { return s.dd.Max() }

// TryOpen opens a long position when the signal and available capacity
// permit. A skipped open (weak signal, capacity reached, or size below the
// minimum) returns nil; it is not an error.
func (s *Simulator) TryOpen(symbol string, sig model.Signal, price float64, ts int64) *model.Position {
	if price <= 0 {
		return nil
	}
	if !sig.Strength.Buyish() || sig.Confidence < s.cfg.MinimumConfidence {
		return nil
	}
	if s.acct.OpenCount() >= s.cfg.MaxOpenPositions {
		return nil
	}

	notional := math.Min(s.acct.Balance*s.cfg.MaxPositionSize, s.acct.Balance)
	if notional < s.cfg.MinPositionSize {
		return nil
	}

	pos := &model.Position{
		ID:         s.cfg.IDPrefix + "_" + uuid.NewString(),
		Symbol:     symbol,
		Type:       model.PositionLong,
		EntryPrice: price,
		Size:       notional / price,
		StopLoss:   price * (1 - s.cfg.StopLossPct),
		TakeProfit: price * (1 + s.cfg.TakeProfitPct),
		Status:     model.StatusOpen,
		OpenTime:   ts,
	}
	s.acct.Balance -= notional
	s.acct.Positions = append(s.acct.Positions, pos)
	return pos
}

// ApplyBar runs the exit checks for every open position against one bar,
// then updates the drawdown from the bar's close. Stop-loss is evaluated
// before take-profit; when a bar's range crosses both levels the position
// closes at the stop. At most one exit fires per position per bar.
func (s *Simulator) ApplyBar(bar model.PriceSample) []*model.Position {
	var closed []*model.Position
	remaining := make([]*model.Position, 0, len(s.acct.Positions))

	for _, pos := range s.acct.Positions {
		switch {
		case bar.Low <= pos.StopLoss:
			s.close(pos, pos.StopLoss, bar.Timestamp)
			closed = append(closed, pos)
		case bar.High >= pos.TakeProfit:
			s.close(pos, pos.TakeProfit, bar.Timestamp)
			closed = append(closed, pos)
		default:
			remaining = append(remaining, pos)
		}
	}

	s.acct.Positions = remaining
	s.dd.Observe(s.acct.TotalValue(bar.Close))
	return closed
}

// MarkPrice is the tick variant used by paper trading: exits compare the
// last traded price instead of a bar range.
func (s *Simulator) MarkPrice(price float64, ts int64) []*model.Position {
	var closed []*model.Position
	remaining := make([]*model.Position, 0, len(s.acct.Positions))

	for _, pos := range s.acct.Positions {
		switch {
		case price <= pos.StopLoss:
			s.close(pos, pos.StopLoss, ts)
			closed = append(closed, pos)
		case price >= pos.TakeProfit:
			s.close(pos, pos.TakeProfit, ts)
			closed = append(closed, pos)
		default:
			remaining = append(remaining, pos)
		}
	}

	s.acct.Positions = remaining
	s.dd.Observe(s.acct.TotalValue(price))
	return closed
}

func (s *Simulator) close(pos *model.Position, exitPrice float64, ts int64) {
	pos.Status = model.StatusClosed
	pos.ExitPrice = exitPrice
	pos.CloseTime = ts
	s.acct.Trades = append(s.acct.Trades, pos)
	s.acct.Balance += pos.Size * exitPrice
}
