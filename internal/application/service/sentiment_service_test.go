package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sentrader/internal/domain/model"
)

type scriptedSource struct {
	texts []string
	err   error
	calls int
}

func (s *scriptedSource) Fetch(ctx context.Context) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.texts, nil
}

type fixedScorer struct{ score float64 }

func (f *fixedScorer) Score(texts []string) float64 { return f.score }

func TestSentimentSnapshot(t *testing.T) {
	src := &scriptedSource{texts: []string{"price surging"}}
	svc := NewSentimentService(src, &fixedScorer{score: 0.6}, nil, 0)
	svc.now = func() time.Time { return time.UnixMilli(42_000) }

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if snap.Score != 0.6 || snap.Trend != model.TrendPositive {
		t.Errorf("snapshot = %+v, want 0.6/positive", snap)
	}
	if snap.LastUpdated != 42_000 {
		t.Errorf("last updated = %d, want 42000", snap.LastUpdated)
	}
}

func TestSentimentSnapshotCached(t *testing.T) {
	src := &scriptedSource{texts: []string{"moon"}}
	svc := NewSentimentService(src, &fixedScorer{score: 0.4}, newMapCache(), time.Minute)

	if _, err := svc.Snapshot(context.Background()); err != nil {
		t.Fatalf("first snapshot failed: %v", err)
	}
	if _, err := svc.Snapshot(context.Background()); err != nil {
		t.Fatalf("second snapshot failed: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("source calls = %d, want the second snapshot served from cache", src.calls)
	}
}

func TestSentimentSourceFailureFallsBackToNeutral(t *testing.T) {
	src := &scriptedSource{err: errors.New("feed down")}
	svc := NewSentimentService(src, &fixedScorer{score: 0.9}, nil, 0)

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot should degrade, not fail: %v", err)
	}
	if snap.Score != 0 || snap.Trend != model.TrendNeutral {
		t.Errorf("fallback = %+v, want neutral", snap)
	}
}

func TestTrendFor(t *testing.T) {
	cases := []struct {
		score float64
		want  model.Trend
	}{
		{0.5, model.TrendPositive},
		{0.11, model.TrendPositive},
		{0.1, model.TrendNeutral},
		{0, model.TrendNeutral},
		{-0.1, model.TrendNeutral},
		{-0.11, model.TrendNegative},
		{-0.8, model.TrendNegative},
	}
	for _, tc := range cases {
		if got := TrendFor(tc.score); got != tc.want {
			t.Errorf("TrendFor(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
