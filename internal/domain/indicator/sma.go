package indicator

import "sentrader/internal/domain/model"

const (
	DefaultShortPeriod = 7
	DefaultLongPeriod  = 25
)

// Analyzer derives a raw directional signal from short/long simple moving
// averages over a close-price window.
type Analyzer struct {
	shortPeriod int
	longPeriod  int
}

func NewAnalyzer(shortPeriod, longPeriod int) *Analyzer {
	if shortPeriod <= 0 {
		shortPeriod = DefaultShortPeriod
	}
	if longPeriod <= 0 {
		longPeriod = DefaultLongPeriod
	}
	return &Analyzer{shortPeriod: shortPeriod, longPeriod: longPeriod}
}

// SMA is the unweighted mean of the last period values. With fewer than
// period values it averages whatever is present, so a short history still
// produces a usable (if lagging) reading.
func SMA(values []float64, period int) float64 {
	if len(values) == 0 || period <= 0 {
		return 0
	}
	if period > len(values) {
		period = len(values)
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// Analyze maps the latest close against the two SMAs. Equality on any
// comparison falls through to the less committal branch, ending at neutral.
func (a *Analyzer) Analyze(closes []float64) model.Strength {
	if len(closes) < 2 {
		return model.Neutral
	}

	p := closes[len(closes)-1]
	s := SMA(closes, a.shortPeriod)
	l := SMA(closes, a.longPeriod)

	switch {
	case p > s && s > l:
		return model.StrongBuy
	case p > s:
		return model.Buy
	case p < s && s < l:
		return model.StrongSell
	case p < s:
		return model.Sell
	}
	return model.Neutral
}
