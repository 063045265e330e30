package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
)

// breakoutCandidate builds a series whose last session is a high-volume
// breakout above a tight base: green candle over the prior high, a
// rebound off the local low, and a 3x volume expansion.
func breakoutCandidate() *models.Candidate {
	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, 60)
	for i := 0; i < 50; i++ {
		bars[i] = models.PriceBar{Date: day.AddDate(0, 0, i), Open: 100, High: 102, Low: 100, Close: 101, Volume: 1000}
	}
	for i := 50; i < 59; i++ {
		bars[i] = models.PriceBar{Date: day.AddDate(0, 0, i), Open: 100, High: 100.5, Low: 100, Close: 100.3, Volume: 1000}
	}
	bars[59] = models.PriceBar{Date: day.AddDate(0, 0, 59), Open: 100.4, High: 103, Low: 100.2, Close: 102.5, Volume: 5000}

	return &models.Candidate{
		Ticker:      "005930",
		Name:        "Samsung Electronics",
		Market:      models.MarketPrimary,
		Bars:        bars,
		LatestPrice: 102.5,
		High52:      103,
	}
}

func flatCandidate() *models.Candidate {
	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, 60)
	for i := range bars {
		bars[i] = models.PriceBar{Date: day.AddDate(0, 0, i), Open: 100, High: 100, Low: 100, Close: 100, Volume: 1000}
	}
	return &models.Candidate{Ticker: "000001", Bars: bars, LatestPrice: 100, High52: 130}
}

func TestScoreFullMarks(t *testing.T) {
	res := Score(Input{
		Candidate: breakoutCandidate(),
		Pattern:   models.PatternResult{IsVCP: true, ContractionRatio: 0.3, NearHigh: true, Tight: true},
		Flow:      models.FlowResult{Score: 2, SmartMoney: 100, DoubleBuy: true},
		Sentiment: models.SentimentOK(3, "capacity expansion announced"),
	})

	assert.Equal(t, 3, res.Detail.News)
	assert.Equal(t, 3, res.Detail.Volume)
	assert.Equal(t, 2, res.Detail.Chart)
	assert.Equal(t, 1, res.Detail.Candle)
	assert.Equal(t, 1, res.Detail.Period)
	assert.Equal(t, 2, res.Detail.Flow)
	assert.Equal(t, 12, res.Detail.Total)
	assert.Equal(t, models.GradeS, res.Grade)
	assert.NotEmpty(t, res.Reasons)
}

func TestScoreFlatCandidate(t *testing.T) {
	res := Score(Input{
		Candidate: flatCandidate(),
		Sentiment: models.SentimentDegraded("no recent news"),
	})

	assert.Equal(t, 0, res.Detail.Total)
	assert.Equal(t, models.GradeC, res.Grade)
}

func TestScoreTotalIsSumOfParts(t *testing.T) {
	res := Score(Input{
		Candidate: breakoutCandidate(),
		Pattern:   models.PatternResult{IsVCP: true, ContractionRatio: 0.5},
		Flow:      models.FlowResult{Score: 1, SmartMoney: 45},
		Sentiment: models.SentimentOK(1, "minor coverage"),
	})

	sum := res.Detail.News + res.Detail.Volume + res.Detail.Chart +
		res.Detail.Candle + res.Detail.Period + res.Detail.Flow
	require.Equal(t, sum, res.Detail.Total)
	require.Equal(t, models.GradeFor(sum), res.Grade)
}

func TestScoreClampsOutOfRangeInputs(t *testing.T) {
	res := Score(Input{
		Candidate: flatCandidate(),
		Flow:      models.FlowResult{Score: 9},
		Sentiment: models.SentimentResult{Score: 7},
	})

	assert.Equal(t, 3, res.Detail.News)
	assert.Equal(t, 2, res.Detail.Flow)
}

func TestScoreChartNeedsTwoPercentProximity(t *testing.T) {
	c := breakoutCandidate()
	c.High52 = 110 // pattern holds but price sits 7% under the high

	res := Score(Input{
		Candidate: c,
		Pattern:   models.PatternResult{IsVCP: true, ContractionRatio: 0.4},
	})
	assert.Equal(t, 1, res.Detail.Chart)
}

func TestGradeCutoffs(t *testing.T) {
	cases := []struct {
		total int
		want  models.Grade
	}{
		{12, models.GradeS},
		{10, models.GradeS},
		{9, models.GradeA},
		{8, models.GradeA},
		{7, models.GradeB},
		{6, models.GradeB},
		{5, models.GradeC},
		{0, models.GradeC},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, models.GradeFor(tc.total), "total %d", tc.total)
	}
}
