package models

// SentimentResult is the outcome of one news sentiment analysis.
// It is a tagged value rather than an error: a degraded analysis still
// yields a usable score of zero plus the cause, so callers cannot skip
// the failure path.
type SentimentResult struct {
	Score    int    `json:"score"` // 0..3
	Reason   string `json:"reason"`
	Degraded bool   `json:"degraded"`
}

// SentimentOK builds a successful result, clamping score into 0..3.
func SentimentOK(score int, reason string) SentimentResult {
	if score < 0 {
		score = 0
	}
	if score > 3 {
		score = 3
	}
	return SentimentResult{Score: score, Reason: reason}
}

// SentimentDegraded builds a fallback result with a neutral zero score.
func SentimentDegraded(reason string) SentimentResult {
	return SentimentResult{Score: 0, Reason: reason, Degraded: true}
}
