package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"sentrader/internal/application/port"
	"sentrader/internal/domain/model"
	"sentrader/internal/domain/perf"
	"sentrader/internal/domain/sim"
)

// PaperService trades virtual accounts against live signals. Each user's
// account state is mutated under the service mutex: two concurrent
// evaluate-and-maybe-open calls cannot both pass the capacity check.
// Persistence happens outside the lock.
type PaperService struct {
	mu             sync.Mutex
	accounts       map[string]*sim.Simulator
	cfg            sim.Config
	initialBalance float64
	repo           port.Repository
}

func NewPaperService(cfg sim.Config, initialBalance float64, repo port.Repository) *PaperService {
	if initialBalance <= 0 {
		initialBalance = 10000
	}
	if cfg.IDPrefix == "" || cfg.IDPrefix == "sim" {
		cfg.IDPrefix = "paper"
	}
	return &PaperService{
		accounts:       make(map[string]*sim.Simulator),
		cfg:            cfg,
		initialBalance: initialBalance,
		repo:           repo,
	}
}

// account returns the user's simulator, creating it on first use.
// Caller holds p.mu.
func (p *PaperService) account(userID string) *sim.Simulator {
	s := p.accounts[userID]
	if s == nil {
		s = sim.New(p.cfg, p.initialBalance)
		p.accounts[userID] = s
	}
	return s
}

// ExecuteTrade opens a position for the user when the signal and capacity
// permit. A skipped open returns nil with no error.
func (p *PaperService) ExecuteTrade(ctx context.Context, userID, symbol string, sig model.Signal, price float64, ts int64) *model.Position {
	p.mu.Lock()
	pos := p.account(userID).TryOpen(symbol, sig, price, ts)
	p.mu.Unlock()

	if pos != nil {
		log.Info().
			Str("user", userID).
			Str("symbol", symbol).
			Str("id", pos.ID).
			Float64("entry", pos.EntryPrice).
			Float64("size", pos.Size).
			Msg("paper position opened")
		if err := p.repo.InsertTrade(ctx, userID, pos); err != nil {
			log.Warn().Err(err).Str("id", pos.ID).Msg("persist paper position failed")
		}
	}
	return pos
}

// MarkPrice advances the user's open positions against the latest traded
// price, closing any whose stop or target is crossed.
func (p *PaperService) MarkPrice(ctx context.Context, userID string, price float64, ts int64) []*model.Position {
	p.mu.Lock()
	closed := p.account(userID).MarkPrice(price, ts)
	p.mu.Unlock()

	for _, pos := range closed {
		log.Info().
			Str("user", userID).
			Str("id", pos.ID).
			Float64("exit", pos.ExitPrice).
			Float64("return", pos.Return()).
			Msg("paper position closed")
		if err := p.repo.InsertTrade(ctx, userID, pos); err != nil {
			log.Warn().Err(err).Str("id", pos.ID).Msg("persist paper trade failed")
		}
	}
	return closed
}

// AccountSummary reports the user's balance and trade statistics. The
// second return is false when the user has no account yet.
func (p *PaperService) AccountSummary(userID string) (model.AccountSummary, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.accounts[userID]
	if s == nil {
		return model.AccountSummary{}, false
	}
	acct := s.Account()
	return model.AccountSummary{
		Balance:       acct.Balance,
		OpenPositions: acct.OpenCount(),
		TotalTrades:   len(acct.Trades),
		ProfitLoss:    acct.Balance - acct.InitialBalance,
		WinRate:       perf.WinRate(acct.Trades),
	}, true
}
