package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"sentrader/internal/application/port"
	"sentrader/internal/domain/history"
	"sentrader/internal/domain/indicator"
	"sentrader/internal/domain/model"
	"sentrader/internal/domain/signal"
)

// SignalService runs the per-bar pipeline for live/paper operation:
// record the price, analyze the technical indicators, combine with
// sentiment, persist the result. It owns the price history and the
// combiner's last-signal state for its symbols.
type SignalService struct {
	mu       sync.Mutex
	history  *history.Tracker
	analyzer *indicator.Analyzer
	combiner *signal.Combiner
	repo     port.Repository
}

func NewSignalService(tracker *history.Tracker, analyzer *indicator.Analyzer, combiner *signal.Combiner, repo port.Repository) *SignalService {
	return &SignalService{
		history:  tracker,
		analyzer: analyzer,
		combiner: combiner,
		repo:     repo,
	}
}

// Generate evaluates one price sample for symbol against the given
// sentiment snapshot. Missing history degrades to a neutral technical
// signal; it never fails the evaluation.
func (s *SignalService) Generate(ctx context.Context, symbol string, sample model.PriceSample, sentiment model.SentimentSnapshot) model.Signal {
	s.mu.Lock()
	s.history.Record(symbol, sample)
	technical := s.analyzer.Analyze(s.history.Closes(symbol))
	s.mu.Unlock()

	sig := s.combiner.Combine(symbol, sentiment, technical, sample.Close, sample.Timestamp)

	if err := s.repo.InsertSignal(ctx, symbol, sig); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("persist signal failed")
	}

	log.Debug().
		Str("symbol", symbol).
		Str("signal", string(sig.Strength)).
		Float64("confidence", sig.Confidence).
		Float64("price", sig.Price).
		Float64("sentiment", sig.SentimentScore).
		Str("technical", string(sig.TechnicalSignal)).
		Msg("signal generated")

	return sig
}

// TickSample builds a degenerate one-price bar from a ticker update, used
// when no OHLCV bar is available on the live path.
func TickSample(price float64, ts int64) model.PriceSample {
	return model.PriceSample{
		Timestamp: ts,
		Open:      price,
		High:      price,
		Low:       price,
		Close:     price,
	}
}
