package indicator

import (
	"math"
	"testing"

	"sentrader/internal/domain/model"
)

func TestSMA(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		period int
		want   float64
	}{
		{"empty", nil, 7, 0},
		{"zero period", []float64{1, 2, 3}, 0, 0},
		{"exact window", []float64{1, 2, 3}, 3, 2},
		{"uses tail", []float64{100, 1, 2, 3}, 3, 2},
		{"short history averages all", []float64{10, 20}, 7, 15},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SMA(tc.values, tc.period); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("SMA(%v, %d) = %v, want %v", tc.values, tc.period, got, tc.want)
			}
		})
	}
}

func TestAnalyzeCrossovers(t *testing.T) {
	a := NewAnalyzer(2, 4)

	cases := []struct {
		name   string
		closes []float64
		want   model.Strength
	}{
		// price 106 > short SMA 105 > long SMA 103
		{"uptrend strong buy", []float64{100, 102, 104, 106}, model.StrongBuy},
		// price 94 < short SMA 95 < long SMA 97
		{"downtrend strong sell", []float64{100, 98, 96, 94}, model.StrongSell},
		// price above short but short below long
		{"bounce is plain buy", []float64{110, 104, 98, 104}, model.Buy},
		// price below short but short above long
		{"pullback is plain sell", []float64{90, 96, 102, 96}, model.Sell},
		{"flat is neutral", []float64{100, 100, 100, 100}, model.Neutral},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Analyze(tc.closes); got != tc.want {
				t.Errorf("Analyze(%v) = %s, want %s", tc.closes, got, tc.want)
			}
		})
	}
}

func TestAnalyzeNeedsTwoSamples(t *testing.T) {
	a := NewAnalyzer(DefaultShortPeriod, DefaultLongPeriod)

	if got := a.Analyze(nil); got != model.Neutral {
		t.Errorf("Analyze(nil) = %s, want neutral", got)
	}
	if got := a.Analyze([]float64{42000}); got != model.Neutral {
		t.Errorf("Analyze(one sample) = %s, want neutral", got)
	}
}

func TestAnalyzerDefaults(t *testing.T) {
	a := NewAnalyzer(0, 0)
	if a.shortPeriod != DefaultShortPeriod || a.longPeriod != DefaultLongPeriod {
		t.Errorf("periods = %d/%d, want %d/%d", a.shortPeriod, a.longPeriod, DefaultShortPeriod, DefaultLongPeriod)
	}
}
