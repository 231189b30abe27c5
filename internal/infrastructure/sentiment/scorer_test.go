package sentiment

import (
	"context"
	"math"
	"testing"
)

func TestLexiconScore(t *testing.T) {
	s := NewLexiconScorer()

	cases := []struct {
		name  string
		texts []string
		want  float64
	}{
		{"all positive", []string{"bullish rally, price surge!"}, 1},
		{"all negative", []string{"crash and dump, panic selling"}, -1},
		{"mixed", []string{"rally then dump"}, 0},
		{"no matches", []string{"the weather is fine"}, 0},
		{"empty", nil, 0},
		{"case and punctuation", []string{"BULLISH!!! (pump)", "Fear."}, 1.0 / 3.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Score(tc.texts); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("score = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLexiconScoreDeterministic(t *testing.T) {
	s := NewLexiconScorer()
	texts := []string{"moon soon", "dump incoming", "buy the dip"}

	first := s.Score(texts)
	for i := 0; i < 10; i++ {
		if got := s.Score(texts); got != first {
			t.Fatalf("score changed between runs: %v vs %v", got, first)
		}
	}
}

func TestLexiconScoreCustomWords(t *testing.T) {
	s := NewLexiconScorerWith([]string{"good"}, []string{"bad"})
	if got := s.Score([]string{"good good bad"}); math.Abs(got-1.0/3.0) > 1e-9 {
		t.Errorf("score = %v, want 1/3", got)
	}
}

func TestStaticSource(t *testing.T) {
	src := &StaticSource{Texts: []string{"a", "b"}}
	texts, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(texts) != 2 {
		t.Errorf("texts = %v, want the fixed set", texts)
	}
}
