package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"sentrader/internal/application/port"
	"sentrader/internal/domain/model"
	"sentrader/internal/domain/sim"
)

// LiveService places real orders through the exchange gateway. The open
// path places an entry, a stop-loss and a take-profit order; a failed
// protective order unwinds what was already placed so the account is
// never left half-protected.
type LiveService struct {
	gateway port.ExchangeGateway
	cfg     sim.Config
	now     func() time.Time
}

func NewLiveService(gateway port.ExchangeGateway, cfg sim.Config) *LiveService {
	return &LiveService{
		gateway: gateway,
		cfg:     cfg,
		now:     time.Now,
	}
}

// ExecuteTrade acts on a combined signal. Buy-family signals open a long;
// sell-family signals close an open long at market regardless of
// stop/take-profit state. Weak or neutral signals return (nil, nil).
func (l *LiveService) ExecuteTrade(ctx context.Context, symbol string, sig model.Signal, price float64) (*model.Position, error) {
	if sig.Confidence < l.cfg.MinimumConfidence {
		log.Debug().Str("symbol", symbol).Float64("confidence", sig.Confidence).Msg("confidence below minimum, no trade")
		return nil, nil
	}

	switch {
	case sig.Strength.Buyish():
		return l.openLong(ctx, symbol, price)
	case sig.Strength.Sellish():
		return l.closeLong(ctx, symbol, price)
	}
	return nil, nil
}

func (l *LiveService) openLong(ctx context.Context, symbol string, price float64) (*model.Position, error) {
	positions, err := l.gateway.FetchPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("live: fetch positions: %w", err)
	}
	if len(positions) >= l.cfg.MaxOpenPositions {
		log.Info().Str("symbol", symbol).Int("open", len(positions)).Msg("max open positions reached, no trade")
		return nil, nil
	}

	balance, err := l.availableBalance(ctx, symbol)
	if err != nil {
		return nil, err
	}

	notional := math.Min(balance*l.cfg.MaxPositionSize, balance)
	if notional < l.cfg.MinPositionSize {
		log.Info().Str("symbol", symbol).Float64("notional", notional).Msg("position below minimum size, no trade")
		return nil, nil
	}
	amount := notional / price

	entry, err := l.gateway.CreateOrder(ctx, symbol, port.OrderMarket, port.SideBuy, amount, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("live: place entry order: %w", err)
	}

	stopPrice := price * (1 - l.cfg.StopLossPct)
	targetPrice := price * (1 + l.cfg.TakeProfitPct)

	stop, err := l.gateway.CreateOrder(ctx, symbol, port.OrderStopLoss, port.SideSell, amount, 0, &port.OrderParams{StopPrice: stopPrice})
	if err != nil {
		l.unwindEntry(ctx, symbol, amount)
		return nil, fmt.Errorf("live: place stop-loss order: %w", err)
	}

	target, err := l.gateway.CreateOrder(ctx, symbol, port.OrderTakeProfit, port.SideSell, amount, 0, &port.OrderParams{StopPrice: targetPrice})
	if err != nil {
		if cerr := l.gateway.CancelOrder(ctx, stop.ID, symbol); cerr != nil {
			log.Error().Err(cerr).Str("order", stop.ID).Msg("cancel stop-loss during unwind failed")
		}
		l.unwindEntry(ctx, symbol, amount)
		return nil, fmt.Errorf("live: place take-profit order: %w", err)
	}

	pos := &model.Position{
		ID:         entry.ID,
		Symbol:     symbol,
		Type:       model.PositionLong,
		EntryPrice: price,
		Size:       amount,
		StopLoss:   stopPrice,
		TakeProfit: targetPrice,
		Status:     model.StatusOpen,
		OpenTime:   l.now().UnixMilli(),
		Orders: model.OrderIDs{
			Entry:      entry.ID,
			StopLoss:   stop.ID,
			TakeProfit: target.ID,
		},
	}
	log.Info().
		Str("symbol", symbol).
		Str("id", pos.ID).
		Float64("entry", price).
		Float64("stop_loss", stopPrice).
		Float64("take_profit", targetPrice).
		Msg("live position opened")
	return pos, nil
}

// unwindEntry reverses a filled entry after a protective order failed.
func (l *LiveService) unwindEntry(ctx context.Context, symbol string, amount float64) {
	if _, err := l.gateway.CreateOrder(ctx, symbol, port.OrderMarket, port.SideSell, amount, 0, nil); err != nil {
		log.Error().Err(err).Str("symbol", symbol).Float64("amount", amount).Msg("unwind entry failed, manual intervention required")
	}
}

// closeLong cancels resting protective orders and sells the position at
// market.
func (l *LiveService) closeLong(ctx context.Context, symbol string, price float64) (*model.Position, error) {
	positions, err := l.gateway.FetchPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("live: fetch positions: %w", err)
	}
	var open *port.ExchangePosition
	for _, p := range positions {
		if p.Symbol == symbol && p.Contracts > 0 {
			open = p
			break
		}
	}
	if open == nil {
		return nil, nil
	}

	orders, err := l.gateway.FetchOpenOrders(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("live: fetch open orders: %w", err)
	}
	for _, o := range orders {
		if err := l.gateway.CancelOrder(ctx, o.ID, symbol); err != nil {
			return nil, fmt.Errorf("live: cancel order %s: %w", o.ID, err)
		}
	}

	exit, err := l.gateway.CreateOrder(ctx, symbol, port.OrderMarket, port.SideSell, open.Contracts, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("live: place exit order: %w", err)
	}

	pos := &model.Position{
		ID:        exit.ID,
		Symbol:    symbol,
		Type:      model.PositionClose,
		ExitPrice: price,
		Size:      open.Contracts,
		Status:    model.StatusClosed,
		CloseTime: l.now().UnixMilli(),
		Orders:    model.OrderIDs{Exit: exit.ID},
	}
	log.Info().Str("symbol", symbol).Str("id", pos.ID).Float64("exit", price).Msg("live position closed")
	return pos, nil
}

// MonitorPositions polls the ticker for each open position and closes any
// whose stop or target level (derived from entry and the configured
// percentages) has been crossed.
func (l *LiveService) MonitorPositions(ctx context.Context) error {
	positions, err := l.gateway.FetchPositions(ctx)
	if err != nil {
		return fmt.Errorf("live: fetch positions: %w", err)
	}

	for _, p := range positions {
		if p.Contracts <= 0 {
			continue
		}
		ticker, err := l.gateway.TickerPrice(ctx, p.Symbol)
		if err != nil {
			log.Warn().Err(err).Str("symbol", p.Symbol).Msg("ticker fetch failed")
			continue
		}

		stop := p.EntryPrice * (1 - l.cfg.StopLossPct)
		target := p.EntryPrice * (1 + l.cfg.TakeProfitPct)

		switch {
		case ticker.Last <= stop:
			if _, err := l.closeLong(ctx, p.Symbol, ticker.Last); err != nil {
				log.Error().Err(err).Str("symbol", p.Symbol).Msg("stop-loss close failed")
			} else {
				log.Info().Str("symbol", p.Symbol).Float64("price", ticker.Last).Msg("stop loss triggered")
			}
		case ticker.Last >= target:
			if _, err := l.closeLong(ctx, p.Symbol, ticker.Last); err != nil {
				log.Error().Err(err).Str("symbol", p.Symbol).Msg("take-profit close failed")
			} else {
				log.Info().Str("symbol", p.Symbol).Float64("price", ticker.Last).Msg("take profit triggered")
			}
		}
	}
	return nil
}

// availableBalance returns the free quote-asset balance for symbol
// ("BTC/USDT" draws from USDT).
func (l *LiveService) availableBalance(ctx context.Context, symbol string) (float64, error) {
	balances, err := l.gateway.FetchBalance(ctx)
	if err != nil {
		return 0, fmt.Errorf("live: fetch balance: %w", err)
	}
	parts := strings.SplitN(symbol, "/", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("live: malformed symbol %q", symbol)
	}
	return balances[parts[1]], nil
}
