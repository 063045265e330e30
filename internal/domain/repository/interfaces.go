package repository

import (
	"context"

	"StockPulse/internal/domain/models"
)

// MarketDataSource supplies mover rank lists and per-ticker price snapshots.
type MarketDataSource interface {
	// TopMovers lists the top-N movers for one market.
	TopMovers(ctx context.Context, market models.Market, limit int) ([]models.Mover, error)
	// Lookup resolves a single ticker to its mover entry.
	Lookup(ctx context.Context, ticker string) (models.Mover, error)
	// Candidate fetches the full price snapshot for one mover.
	Candidate(ctx context.Context, mover models.Mover) (*models.Candidate, error)
}

// FlowSource supplies daily foreign/institutional net-buy records.
type FlowSource interface {
	// Recent returns up to `days` most recent records, ascending by date.
	Recent(ctx context.Context, ticker string, days int) ([]models.FlowRecord, error)
}

// NewsSource supplies the most recent news items for a ticker.
type NewsSource interface {
	// Latest returns up to `limit` items, most recent first.
	Latest(ctx context.Context, ticker string, limit int) ([]models.NewsItem, error)
}

// RunArtifactStore persists run results as a dated artifact plus a "latest"
// pointer. Write must be atomic from a reader's perspective.
type RunArtifactStore interface {
	Write(ctx context.Context, result *models.RunResult) error
	ReadLatest(ctx context.Context) (*models.RunResult, error)
	ReadByDate(ctx context.Context, date string) (*models.RunResult, error)
}

// RunHistory appends completed runs to a long-term signal history.
type RunHistory interface {
	Init(ctx context.Context) error
	Append(ctx context.Context, result *models.RunResult) error
	Close() error
}

// Publisher pushes a completed run to downstream consumers.
type Publisher interface {
	PublishRun(ctx context.Context, result *models.RunResult) error
	Close() error
}

// Metrics records pipeline observability counters.
type Metrics interface {
	RecordRun(outcome string, seconds float64)
	RecordCandidate(outcome string)
	RecordSentiment(outcome string)
	RecordSignal(grade string)
}
