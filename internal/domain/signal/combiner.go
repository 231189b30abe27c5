package signal

import (
	"math"
	"sync"

	"sentrader/internal/domain/model"
)

const (
	// DefaultSentimentThreshold is the |score| above which sentiment is
	// allowed to confirm a technical signal.
	DefaultSentimentThreshold = 0.3

	// confidenceBoost is added to |score| when sentiment and technicals
	// agree, capped at 1.
	confidenceBoost = 0.3

	// neutralConfidence is fixed, not computed, for the neutral case.
	neutralConfidence = 0.5

	// hysteresisWindowMs is how long a high-confidence signal resists
	// reversal.
	hysteresisWindowMs = 3_600_000

	// hysteresisMinConfidence is the previous-signal confidence required
	// to trigger the override.
	hysteresisMinConfidence = 0.8
)

// Combiner merges a sentiment score with a technical signal into one
// decision, damping reversals shortly after a high-confidence signal.
// It owns the per-symbol last-signal state and is safe for concurrent use.
type Combiner struct {
	mu        sync.Mutex
	threshold float64
	last      map[string]model.Signal
}

func NewCombiner(threshold float64) *Combiner {
	if threshold <= 0 {
		threshold = DefaultSentimentThreshold
	}
	return &Combiner{
		threshold: threshold,
		last:      make(map[string]model.Signal),
	}
}

// Combine evaluates sentiment against the technical signal at the given
// price and time (unix ms). The output replaces the symbol's previous
// signal unconditionally, after the hysteresis check.
func (c *Combiner) Combine(symbol string, sentiment model.SentimentSnapshot, technical model.Strength, price float64, now int64) model.Signal {
	score := sentiment.Score

	strength := model.Neutral
	confidence := neutralConfidence
	switch {
	case score > c.threshold && technical.Buyish():
		strength = technical
		confidence = math.Min(math.Abs(score)+confidenceBoost, 1)
	case score < -c.threshold && technical.Sellish():
		strength = technical
		confidence = math.Min(math.Abs(score)+confidenceBoost, 1)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev, ok := c.last[symbol]
	if ok && prev.Timestamp > now-hysteresisWindowMs &&
		prev.Confidence > hysteresisMinConfidence &&
		prev.Strength.Direction() != strength.Direction() {
		strength = prev.Strength
		confidence = math.Max(0.6, prev.Confidence-0.1)
	}

	out := model.Signal{
		Strength:        strength,
		Confidence:      confidence,
		Price:           price,
		Timestamp:       now,
		SentimentScore:  score,
		TechnicalSignal: technical,
	}
	c.last[symbol] = out
	return out
}

// Last returns the stored previous signal for symbol, if any.
func (c *Combiner) Last(symbol string) (model.Signal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.last[symbol]
	return s, ok
}
