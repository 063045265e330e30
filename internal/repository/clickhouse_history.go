package repository

import (
	"context"
	"database/sql"
	"fmt"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
)

// ClickHouseHistory appends every emitted signal to a long-term history
// table for later querying. It is append-only: the artifact store remains
// the source of truth for the current state.
type ClickHouseHistory struct {
	db    *sql.DB
	table string
}

// NewClickHouseHistory creates a history repository on the given table.
func NewClickHouseHistory(db *sql.DB, table string) *ClickHouseHistory {
	return &ClickHouseHistory{db: db, table: table}
}

// Init ensures the history table exists (idempotent).
func (h *ClickHouseHistory) Init(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		run_date Date,
		ticker String,
		name String,
		market String,
		grade String,
		total UInt8,
		news UInt8,
		volume UInt8,
		chart UInt8,
		candle UInt8,
		period UInt8,
		flow UInt8,
		entry_price Float64,
		target_price Float64,
		stop_loss Float64,
		position_size UInt32,
		created_at DateTime
	) ENGINE = MergeTree ORDER BY (run_date, ticker)`, h.table)
	if _, err := h.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("init history schema: %w", err)
	}
	return nil
}

// Append inserts one row per signal in the run.
func (h *ClickHouseHistory) Append(ctx context.Context, result *models.RunResult) error {
	if len(result.Signals) == 0 {
		return nil
	}

	q := fmt.Sprintf(`INSERT INTO %s
		(run_date, ticker, name, market, grade, total, news, volume, chart, candle, period, flow,
		 entry_price, target_price, stop_loss, position_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, h.table)

	for _, s := range result.Signals {
		_, err := h.db.ExecContext(ctx, q,
			result.RunDate,
			s.Ticker,
			s.Name,
			string(s.Market),
			string(s.Grade),
			uint8(s.Score.Total),
			uint8(s.Score.News),
			uint8(s.Score.Volume),
			uint8(s.Score.Chart),
			uint8(s.Score.Candle),
			uint8(s.Score.Period),
			uint8(s.Score.Flow),
			s.EntryPrice,
			s.TargetPrice,
			s.StopLoss,
			uint32(s.PositionSize),
			s.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("append history %s: %w", s.Ticker, err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (h *ClickHouseHistory) Close() error {
	return h.db.Close()
}

var _ domrepo.RunHistory = (*ClickHouseHistory)(nil)
