package port

import "context"

// SentimentSource provides raw texts to score (posts, headlines).
// Acquisition is an external collaborator; the core only consumes it.
type SentimentSource interface {
	Fetch(ctx context.Context) ([]string, error)
}

// SentimentScorer maps texts to a score in [-1, 1]. Implementations must
// be deterministic: the same texts always produce the same score.
type SentimentScorer interface {
	Score(texts []string) float64
}
