package perf

import (
	"math"

	"sentrader/internal/domain/model"
)

// RiskFreeRate is the annual risk-free rate assumed by the Sharpe ratio.
const RiskFreeRate = 0.02

// Evaluate derives aggregate performance from a completed trade log.
// MaxDrawdown is carried from the simulator's running computation, not
// recomputed here.
func Evaluate(trades []*model.Position, initialBalance, finalBalance, maxDrawdown float64) *model.PerformanceResult {
	return &model.PerformanceResult{
		Positions:   trades,
		TotalTrades: len(trades),
		ProfitLoss:  finalBalance - initialBalance,
		WinRate:     WinRate(trades),
		MaxDrawdown: maxDrawdown,
		SharpeRatio: SharpeRatio(trades),
	}
}

// WinRate is the percentage of trades that exited above entry. Zero when
// the log is empty.
func WinRate(trades []*model.Position) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range trades {
		if t.Won() {
			wins++
		}
	}
	return float64(wins) / float64(len(trades)) * 100
}

// SharpeRatio is (mean return - risk-free rate) / sample standard
// deviation of per-trade returns, zero with fewer than two trades.
func SharpeRatio(trades []*model.Position) float64 {
	if len(trades) < 2 {
		return 0
	}

	returns := make([]float64, len(trades))
	sum := 0.0
	for i, t := range trades {
		returns[i] = t.Return()
		sum += returns[i]
	}
	mean := sum / float64(len(returns))

	varSum := 0.0
	for _, r := range returns {
		varSum += (r - mean) * (r - mean)
	}
	std := math.Sqrt(varSum / float64(len(returns)-1))
	if std == 0 {
		return 0
	}
	return (mean - RiskFreeRate) / std
}
