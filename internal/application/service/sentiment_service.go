package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"sentrader/internal/application/port"
	"sentrader/internal/domain/model"
)

const (
	sentimentCacheKey = "sentiment:latest"

	// DefaultSentimentTTL is how long a sentiment snapshot stays fresh.
	DefaultSentimentTTL = 5 * time.Minute
)

// SentimentService produces sentiment snapshots from a source and a
// deterministic scorer, behind an injected TTL cache. A failing source
// degrades to a neutral snapshot rather than failing the evaluation.
type SentimentService struct {
	source port.SentimentSource
	scorer port.SentimentScorer
	cache  port.Cache
	ttl    time.Duration
	now    func() time.Time
}

func NewSentimentService(source port.SentimentSource, scorer port.SentimentScorer, cache port.Cache, ttl time.Duration) *SentimentService {
	if ttl <= 0 {
		ttl = DefaultSentimentTTL
	}
	return &SentimentService{
		source: source,
		scorer: scorer,
		cache:  cache,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *SentimentService) Snapshot(ctx context.Context) (model.SentimentSnapshot, error) {
	if s.cache != nil {
		if b, ok, err := s.cache.Get(ctx, sentimentCacheKey); err == nil && ok {
			var snap model.SentimentSnapshot
			if json.Unmarshal(b, &snap) == nil {
				return snap, nil
			}
		}
	}

	texts, err := s.source.Fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("sentiment source failed, using neutral fallback")
		return s.fallback(), nil
	}

	score := s.scorer.Score(texts)
	snap := model.SentimentSnapshot{
		Score:       score,
		Trend:       TrendFor(score),
		LastUpdated: s.now().UnixMilli(),
	}

	if s.cache != nil {
		if b, err := json.Marshal(snap); err == nil {
			if err := s.cache.Set(ctx, sentimentCacheKey, b, s.ttl); err != nil {
				log.Warn().Err(err).Msg("cache sentiment failed")
			}
		}
	}
	return snap, nil
}

func (s *SentimentService) fallback() model.SentimentSnapshot {
	return model.SentimentSnapshot{
		Score:       0,
		Trend:       model.TrendNeutral,
		LastUpdated: s.now().UnixMilli(),
	}
}

// TrendFor buckets a score into a trend label.
func TrendFor(score float64) model.Trend {
	switch {
	case score > 0.1:
		return model.TrendPositive
	case score < -0.1:
		return model.TrendNegative
	default:
		return model.TrendNeutral
	}
}
