package screener

import (
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/logger"
)

func barSeries(ranges []float64, volume float64) []models.PriceBar {
	bars := make([]models.PriceBar, len(ranges))
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, r := range ranges {
		bars[i] = models.PriceBar{
			Date:   day.AddDate(0, 0, i),
			Open:   100,
			High:   100 + r,
			Low:    100,
			Close:  100 + r/2,
			Volume: volume,
		}
	}
	return bars
}

func contractingCandidate() *models.Candidate {
	ranges := make([]float64, 60)
	for i := range ranges {
		ranges[i] = 2.0
	}
	for i := 50; i < 60; i++ {
		ranges[i] = 0.5
	}
	return &models.Candidate{
		Ticker:      "005930",
		Bars:        barSeries(ranges, 1000),
		LatestPrice: 101,
		High52:      102,
	}
}

func TestDetectVCPContraction(t *testing.T) {
	s := New(DefaultConfig(), logger.Nop())
	res := s.DetectVCP(contractingCandidate())

	if !res.NearHigh {
		t.Fatalf("expected near high")
	}
	if !res.IsVCP {
		t.Fatalf("expected pattern, ratio %.2f", res.ContractionRatio)
	}
	if !res.Tight {
		t.Fatalf("expected tight contraction at ratio %.2f", res.ContractionRatio)
	}
	if res.ContractionRatio > 0.3 {
		t.Fatalf("unexpected ratio %.2f", res.ContractionRatio)
	}
}

func TestDetectVCPNoContraction(t *testing.T) {
	s := New(DefaultConfig(), logger.Nop())
	ranges := make([]float64, 60)
	for i := range ranges {
		ranges[i] = 2.0
	}
	c := &models.Candidate{Bars: barSeries(ranges, 1000), LatestPrice: 101, High52: 102}

	res := s.DetectVCP(c)
	if res.IsVCP {
		t.Fatalf("expected no pattern at ratio %.2f", res.ContractionRatio)
	}
	if !res.NearHigh {
		t.Fatalf("expected near high")
	}
}

func TestDetectVCPShortSeries(t *testing.T) {
	s := New(DefaultConfig(), logger.Nop())
	c := contractingCandidate()
	c.Bars = c.Bars[:30]

	res := s.DetectVCP(c)
	if res.IsVCP {
		t.Fatalf("expected no pattern on short series")
	}
	if res.ContractionRatio != 1.0 {
		t.Fatalf("expected neutral ratio, got %.2f", res.ContractionRatio)
	}
}

func TestDetectVCPFlatSeries(t *testing.T) {
	s := New(DefaultConfig(), logger.Nop())
	ranges := make([]float64, 60)
	c := &models.Candidate{Bars: barSeries(ranges, 1000), LatestPrice: 100, High52: 100}

	res := s.DetectVCP(c)
	if res.IsVCP {
		t.Fatalf("flat series carries no pattern")
	}
	if res.ContractionRatio != 1.0 {
		t.Fatalf("expected neutral ratio, got %.2f", res.ContractionRatio)
	}
}

func TestDetectVCPFarFromHigh(t *testing.T) {
	s := New(DefaultConfig(), logger.Nop())
	c := contractingCandidate()
	c.High52 = 130

	res := s.DetectVCP(c)
	if res.NearHigh {
		t.Fatalf("expected far from high")
	}
	if res.IsVCP {
		t.Fatalf("contraction without proximity is not a pattern")
	}
}
