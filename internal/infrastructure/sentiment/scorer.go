package sentiment

import (
	"context"
	"strings"

	"sentrader/internal/application/port"
)

// LexiconScorer scores texts against fixed word lists. Deterministic: the
// same texts always produce the same score in [-1, 1].
type LexiconScorer struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

// NewLexiconScorer builds a scorer with the default crypto lexicon.
func NewLexiconScorer() *LexiconScorer {
	return NewLexiconScorerWith(
		[]string{
			"bullish", "moon", "pump", "rally", "surge", "breakout",
			"gain", "gains", "up", "buy", "buying", "adoption", "ath",
			"green", "profit", "strong", "growth", "soar", "soaring",
		},
		[]string{
			"bearish", "dump", "crash", "plunge", "drop", "collapse",
			"loss", "losses", "down", "sell", "selling", "fud", "fear",
			"red", "weak", "scam", "hack", "liquidation", "panic",
		},
	)
}

func NewLexiconScorerWith(positive, negative []string) *LexiconScorer {
	s := &LexiconScorer{
		positive: make(map[string]struct{}, len(positive)),
		negative: make(map[string]struct{}, len(negative)),
	}
	for _, w := range positive {
		s.positive[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range negative {
		s.negative[strings.ToLower(w)] = struct{}{}
	}
	return s
}

// Score counts positive and negative tokens across all texts and returns
// (pos - neg) / (pos + neg). No matches score 0.
func (s *LexiconScorer) Score(texts []string) float64 {
	pos, neg := 0, 0
	for _, text := range texts {
		for _, tok := range strings.Fields(strings.ToLower(text)) {
			tok = strings.Trim(tok, ".,!?#@:;()[]\"'")
			if _, ok := s.positive[tok]; ok {
				pos++
				continue
			}
			if _, ok := s.negative[tok]; ok {
				neg++
			}
		}
	}
	total := pos + neg
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}

// StaticSource serves a fixed text set, for offline runs and tests.
type StaticSource struct {
	Texts []string
}

func (s *StaticSource) Fetch(ctx context.Context) ([]string, error) {
	return s.Texts, nil
}

var (
	_ port.SentimentScorer = (*LexiconScorer)(nil)
	_ port.SentimentSource = (*StaticSource)(nil)
)
