package history

import "sentrader/internal/domain/model"

// Window keeps the most recent samples for one symbol in arrival order.
// Appending beyond the capacity evicts the oldest sample.
type Window struct {
	samples []model.PriceSample
	size    int
	index   int
	filled  bool
}

func NewWindow(size int) *Window {
	return &Window{
		samples: make([]model.PriceSample, size),
		size:    size,
	}
}

func (w *Window) Add(s model.PriceSample) {
	w.samples[w.index] = s
	w.index = (w.index + 1) % w.size
	if w.index == 0 {
		w.filled = true
	}
}

func (w *Window) Len() int {
	if w.filled {
		return w.size
	}
	return w.index
}

// Samples returns the window oldest-first as a copy.
func (w *Window) Samples() []model.PriceSample {
	out := make([]model.PriceSample, 0, w.Len())
	if w.filled {
		out = append(out, w.samples[w.index:]...)
	}
	out = append(out, w.samples[:w.index]...)
	return out
}

// Closes returns the close prices oldest-first.
func (w *Window) Closes() []float64 {
	samples := w.Samples()
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Close
	}
	return out
}

// Last returns the most recent sample, if any.
func (w *Window) Last() (model.PriceSample, bool) {
	if w.Len() == 0 {
		return model.PriceSample{}, false
	}
	i := (w.index - 1 + w.size) % w.size
	return w.samples[i], true
}

// DefaultSize is the default rolling window length in bars.
const DefaultSize = 24

// Tracker owns per-symbol windows. It is explicit state passed into each
// call site, not a package-level map, and is not safe for concurrent use;
// the owning service serializes access.
type Tracker struct {
	size    int
	windows map[string]*Window
}

func NewTracker(size int) *Tracker {
	if size <= 0 {
		size = DefaultSize
	}
	return &Tracker{
		size:    size,
		windows: make(map[string]*Window),
	}
}

func (t *Tracker) Record(symbol string, s model.PriceSample) {
	w := t.windows[symbol]
	if w == nil {
		w = NewWindow(t.size)
		t.windows[symbol] = w
	}
	w.Add(s)
}

// Closes returns the recorded close prices for symbol, oldest-first.
// A symbol with no history yields an empty slice.
func (t *Tracker) Closes(symbol string) []float64 {
	w := t.windows[symbol]
	if w == nil {
		return nil
	}
	return w.Closes()
}

func (t *Tracker) Len(symbol string) int {
	w := t.windows[symbol]
	if w == nil {
		return 0
	}
	return w.Len()
}
