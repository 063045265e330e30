package models

// ScoreDetail is the 12-point composite breakdown for one candidate.
// Total is always the sum of the six sub-scores.
type ScoreDetail struct {
	News   int `json:"news"`   // 0..3 sentiment
	Volume int `json:"volume"` // 0..3 volume expansion
	Chart  int `json:"chart"`  // 0..2 pattern + proximity to high
	Candle int `json:"candle"` // 0..1 bullish breakout candle
	Period int `json:"period"` // 0..1 fresh rebound window
	Flow   int `json:"flow"`   // 0..2 smart-money flow
	Total  int `json:"total"`
}

// Sum recomputes the total from the sub-scores.
func (s ScoreDetail) Sum() int {
	return s.News + s.Volume + s.Chart + s.Candle + s.Period + s.Flow
}

// Grade is the discrete quality tier derived from ScoreDetail.Total.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
)

// GradeFor maps a composite total onto a grade. Higher cutoff wins.
func GradeFor(total int) Grade {
	switch {
	case total >= 10:
		return GradeS
	case total >= 8:
		return GradeA
	case total >= 6:
		return GradeB
	default:
		return GradeC
	}
}

// Rank orders grades for sorting, highest first.
func (g Grade) Rank() int {
	switch g {
	case GradeS:
		return 3
	case GradeA:
		return 2
	case GradeB:
		return 1
	default:
		return 0
	}
}

// PatternResult is the volatility-contraction screen output for one candidate.
type PatternResult struct {
	IsVCP            bool    `json:"is_vcp"`
	ContractionRatio float64 `json:"contraction_ratio"` // 0..1, smaller = tighter
	NearHigh         bool    `json:"near_high"`
	Tight            bool    `json:"tight"` // contraction at or below the strong-ratio threshold
}

// FlowResult is the institutional-flow screen output for one candidate.
type FlowResult struct {
	Score      int     `json:"score"`       // 0..2 composite component
	SmartMoney float64 `json:"smart_money"` // 0..100 screening score
	DoubleBuy  bool    `json:"double_buy"`
	ForeignNet int64   `json:"foreign_net"` // trailing-window sum
	InstNet    int64   `json:"inst_net"`    // trailing-window sum
}
