package sizing

import (
	"math"

	"StockPulse/internal/domain/models"
)

// riskFraction is the R-multiple: the fraction of capital risked per
// position regardless of allocation.
const riskFraction = 0.005

// allocationFraction returns the capital share allowed per grade.
// C grades are never sized.
func allocationFraction(g models.Grade) float64 {
	switch g {
	case models.GradeS:
		return 0.15
	case models.GradeA:
		return 0.12
	case models.GradeB:
		return 0.10
	default:
		return 0
	}
}

// Result is a bounded position size plus the limiting reason.
type Result struct {
	Shares int
	Reason string
}

// Size converts capital, grade, and entry/stop prices into a whole-share
// position bounded by both the risk cap and the grade allocation. It never
// divides by zero and never returns a negative size.
func Size(capital float64, grade models.Grade, entry, stop float64) Result {
	if capital <= 0 || entry <= 0 {
		return Result{Reason: "no capital or invalid entry price"}
	}

	fraction := allocationFraction(grade)
	if fraction == 0 {
		return Result{Reason: "grade not eligible for sizing"}
	}

	riskPerShare := entry - stop
	if riskPerShare <= 0 {
		return Result{Reason: "stop loss at or above entry"}
	}

	riskBudget := capital * riskFraction
	sharesByRisk := riskBudget / riskPerShare
	sharesByAllocation := capital * fraction / entry

	shares := int(math.Floor(math.Min(sharesByRisk, sharesByAllocation)))
	if shares < 0 {
		shares = 0
	}

	reason := "risk capped"
	if sharesByAllocation < sharesByRisk {
		reason = "allocation capped"
	}
	return Result{Shares: shares, Reason: reason}
}
