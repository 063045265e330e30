package service

import (
	"context"

	"StockPulse/internal/domain/models"
)

// SentimentAnalyzer converts a stock name plus recent news into a bounded
// sentiment score. Implementations never return an error: any failure
// degrades to a zero-score result carrying the cause.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, name string, items []models.NewsItem) models.SentimentResult
}
