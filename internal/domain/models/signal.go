package models

import "time"

// Signal is one ranked, sized candidate produced by a pipeline run.
// Signals are immutable once constructed; re-analysis produces a new one.
type Signal struct {
	Ticker       string      `json:"ticker"`
	Name         string      `json:"name"`
	Market       Market      `json:"market"`
	Score        ScoreDetail `json:"score"`
	Grade        Grade       `json:"grade"`
	EntryPrice   float64     `json:"entry_price"`
	TargetPrice  float64     `json:"target_price"`
	StopLoss     float64     `json:"stop_loss"`
	PositionSize int         `json:"position_size"`
	Reasons      []string    `json:"reasons"`
	CreatedAt    time.Time   `json:"created_at"`
}

// RunResult is the complete output of one pipeline invocation.
type RunResult struct {
	RunDate          string         `json:"run_date"` // YYYY-MM-DD
	TotalCandidates  int            `json:"total_candidates"`
	FilteredCount    int            `json:"filtered_count"`
	Signals          []Signal       `json:"signals"` // grade desc, total desc
	ByGrade          map[Grade]int  `json:"by_grade"`
	ByMarket         map[Market]int `json:"by_market"`
	ProcessingTimeMS int64          `json:"processing_time_ms"`
}

// Recount rebuilds the grade/market tallies and filtered count from Signals.
func (r *RunResult) Recount() {
	r.ByGrade = make(map[Grade]int)
	r.ByMarket = make(map[Market]int)
	for _, s := range r.Signals {
		r.ByGrade[s.Grade]++
		r.ByMarket[s.Market]++
	}
	r.FilteredCount = len(r.Signals)
}
