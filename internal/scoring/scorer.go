package scoring

import (
	"fmt"

	"StockPulse/internal/domain/models"
)

// Proximity to the 52-period high that counts for the chart sub-score.
const nearHighBand = 0.02

// Rebound detection parameters for the period sub-score.
const (
	reboundLookback = 20
	reboundWindow   = 3
)

// Volume expansion cutoffs: latest session volume versus trailing average.
const (
	volumeLookback = 20
	volumeHeavy    = 3.0
	volumeStrong   = 2.0
	volumeElevated = 1.5
)

// Input carries everything Score needs. Score is pure: same input, same
// output, no clock and no randomness.
type Input struct {
	Candidate *models.Candidate
	Pattern   models.PatternResult
	Flow      models.FlowResult
	Sentiment models.SentimentResult
}

// Result is the scored outcome plus the per-factor audit trail.
type Result struct {
	Detail  models.ScoreDetail
	Grade   models.Grade
	Reasons []string
}

// Score combines the sub-scores into the 12-point composite and grade.
// Grading is total-driven only; excluding C grades from output is the
// generator's policy, not this function's.
func Score(in Input) Result {
	c := in.Candidate
	var r Result

	r.Detail.News = clamp(in.Sentiment.Score, 0, 3)
	if in.Sentiment.Reason != "" {
		r.Reasons = append(r.Reasons, "news: "+in.Sentiment.Reason)
	}

	r.Detail.Volume = volumeScore(c.Bars)
	if r.Detail.Volume > 0 {
		r.Reasons = append(r.Reasons, fmt.Sprintf("volume expansion x%d", r.Detail.Volume))
	}

	r.Detail.Chart = chartScore(c, in.Pattern)
	if in.Pattern.IsVCP {
		label := "vcp contraction"
		if in.Pattern.Tight {
			label = "tight vcp contraction"
		}
		r.Reasons = append(r.Reasons, fmt.Sprintf("%s %.2f", label, in.Pattern.ContractionRatio))
	}
	if nearHigh(c) {
		r.Reasons = append(r.Reasons, "within 2% of 52-period high")
	}

	r.Detail.Candle = candleScore(c.Bars)
	if r.Detail.Candle == 1 {
		r.Reasons = append(r.Reasons, "bullish breakout candle")
	}

	r.Detail.Period = reboundScore(c.Bars)
	if r.Detail.Period == 1 {
		r.Reasons = append(r.Reasons, "fresh rebound from local low")
	}

	r.Detail.Flow = clamp(in.Flow.Score, 0, 2)
	if r.Detail.Flow > 0 {
		tag := fmt.Sprintf("smart money %.0f", in.Flow.SmartMoney)
		if in.Flow.DoubleBuy {
			tag += " (double-buy)"
		}
		r.Reasons = append(r.Reasons, tag)
	}

	r.Detail.Total = r.Detail.Sum()
	r.Grade = models.GradeFor(r.Detail.Total)
	return r
}

// chartScore awards 2 when both the contraction pattern and the 2%
// proximity to the 52-period high hold, 1 when exactly one does.
func chartScore(c *models.Candidate, p models.PatternResult) int {
	score := 0
	if p.IsVCP {
		score++
	}
	if nearHigh(c) {
		score++
	}
	return score
}

func nearHigh(c *models.Candidate) bool {
	return c.High52 > 0 && c.LatestPrice >= c.High52*(1-nearHighBand)
}

// candleScore awards 1 for a green close that breaks above the prior
// session's high.
func candleScore(bars []models.PriceBar) int {
	if len(bars) < 2 {
		return 0
	}
	last := bars[len(bars)-1]
	prev := bars[len(bars)-2]
	if last.Close > last.Open && last.Close > prev.High {
		return 1
	}
	return 0
}

// reboundScore awards 1 when the series rebounded off its local low
// within the last reboundWindow sessions: the first close back above the
// low bar's high must be that recent.
func reboundScore(bars []models.PriceBar) int {
	if len(bars) < 2 {
		return 0
	}
	sub := bars
	if len(sub) > reboundLookback {
		sub = sub[len(sub)-reboundLookback:]
	}

	lowIdx := 0
	for i, b := range sub {
		if b.Low <= sub[lowIdx].Low {
			lowIdx = i
		}
	}

	for i := lowIdx + 1; i < len(sub); i++ {
		if sub[i].Close > sub[lowIdx].High {
			if len(sub)-1-i < reboundWindow {
				return 1
			}
			return 0
		}
	}
	return 0
}

// volumeScore compares the latest session's volume against the trailing
// average and maps the expansion ratio into 0..3.
func volumeScore(bars []models.PriceBar) int {
	if len(bars) < 2 {
		return 0
	}
	last := bars[len(bars)-1]
	prior := bars[:len(bars)-1]
	if len(prior) > volumeLookback {
		prior = prior[len(prior)-volumeLookback:]
	}

	var sum float64
	for _, b := range prior {
		sum += b.Volume
	}
	avg := sum / float64(len(prior))
	if avg <= 0 {
		return 0
	}

	ratio := last.Volume / avg
	switch {
	case ratio >= volumeHeavy:
		return 3
	case ratio >= volumeStrong:
		return 2
	case ratio >= volumeElevated:
		return 1
	default:
		return 0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
