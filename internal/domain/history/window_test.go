package history

import (
	"testing"

	"sentrader/internal/domain/model"
)

func sample(ts int64, close float64) model.PriceSample {
	return model.PriceSample{Timestamp: ts, Open: close, High: close, Low: close, Close: close}
}

func TestWindowEvictsOldest(t *testing.T) {
	w := NewWindow(3)

	for i := 1; i <= 5; i++ {
		w.Add(sample(int64(i), float64(i)*10))
	}

	if w.Len() != 3 {
		t.Fatalf("len = %d, want 3", w.Len())
	}

	closes := w.Closes()
	want := []float64{30, 40, 50}
	for i, c := range closes {
		if c != want[i] {
			t.Errorf("closes[%d] = %v, want %v", i, c, want[i])
		}
	}

	last, ok := w.Last()
	if !ok || last.Close != 50 {
		t.Errorf("last = %+v ok=%v, want close 50", last, ok)
	}
}

func TestWindowPartialFill(t *testing.T) {
	w := NewWindow(24)
	w.Add(sample(1, 100))
	w.Add(sample(2, 101))

	if w.Len() != 2 {
		t.Fatalf("len = %d, want 2", w.Len())
	}
	closes := w.Closes()
	if len(closes) != 2 || closes[0] != 100 || closes[1] != 101 {
		t.Errorf("closes = %v, want [100 101]", closes)
	}
}

func TestWindowEmpty(t *testing.T) {
	w := NewWindow(4)
	if w.Len() != 0 {
		t.Errorf("len = %d, want 0", w.Len())
	}
	if _, ok := w.Last(); ok {
		t.Error("Last on empty window should report false")
	}
	if got := w.Closes(); len(got) != 0 {
		t.Errorf("closes = %v, want empty", got)
	}
}

func TestTrackerPerSymbolIsolation(t *testing.T) {
	tr := NewTracker(4)

	tr.Record("BTC/USDT", sample(1, 40000))
	tr.Record("BTC/USDT", sample(2, 40100))
	tr.Record("ETH/USDT", sample(1, 2500))

	if n := tr.Len("BTC/USDT"); n != 2 {
		t.Errorf("btc len = %d, want 2", n)
	}
	if n := tr.Len("ETH/USDT"); n != 1 {
		t.Errorf("eth len = %d, want 1", n)
	}
	if n := tr.Len("SOL/USDT"); n != 0 {
		t.Errorf("unknown symbol len = %d, want 0", n)
	}
	if closes := tr.Closes("SOL/USDT"); len(closes) != 0 {
		t.Errorf("unknown symbol closes = %v, want empty", closes)
	}
}

func TestTrackerDefaultSize(t *testing.T) {
	tr := NewTracker(0)
	for i := 0; i < DefaultSize+10; i++ {
		tr.Record("BTC/USDT", sample(int64(i), float64(i)))
	}
	if n := tr.Len("BTC/USDT"); n != DefaultSize {
		t.Errorf("len = %d, want %d", n, DefaultSize)
	}
}
