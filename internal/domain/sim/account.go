package sim

import "sentrader/internal/domain/model"

// Account is a simulated trading account owned by one run or one
// user session. Balance changes only through open and close operations.
type Account struct {
	InitialBalance float64
	Balance        float64
	Positions      []*model.Position // open
	Trades         []*model.Position // closed, append-only
}

func NewAccount(balance float64) *Account {
	return &Account{
		InitialBalance: balance,
		Balance:        balance,
	}
}

func (a *Account) OpenCount() int { return len(a.Positions) }

// TotalValue marks open positions to the given price and adds the cash
// balance.
func (a *Account) TotalValue(price float64) float64 {
	total := a.Balance
	for _, pos := range a.Positions {
		total += pos.Size * price
	}
	return total
}

// Drawdown tracks the running peak of account value and the maximum
// fractional decline from it.
type Drawdown struct {
	peak float64
	max  float64
}

func NewDrawdown(initial float64) *Drawdown {
	return &Drawdown{peak: initial}
}

func (d *Drawdown) Observe(value float64) {
	if value > d.peak {
		d.peak = value
	}
	if d.peak <= 0 {
		return
	}
	if dd := (d.peak - value) / d.peak; dd > d.max {
		d.max = dd
	}
}

func (d *Drawdown) Max() float64 { return d.max }
