package screener

import (
	"StockPulse/internal/domain/models"
	"StockPulse/pkg/logger"
)

// Config holds screening thresholds.
type Config struct {
	Lookback             int     // minimum bars required for pattern detection
	ContractionWindow    int     // trailing window size for the range measure
	ContractionThreshold float64 // recent/prior range ratio at or below which volatility is contracting
	StrongRatio          float64 // ratio at or below which the pattern is considered tight
	ProximityBand        float64 // fraction below the 52-period high still counted as "near"
	FlowWindow           int     // trailing flow records considered
	StrongNet            int64   // net-buy volume that saturates one flow component
}

// DefaultConfig returns production screening defaults.
func DefaultConfig() Config {
	return Config{
		Lookback:             60,
		ContractionWindow:    10,
		ContractionThreshold: 0.7,
		StrongRatio:          0.45,
		ProximityBand:        0.05,
		FlowWindow:           5,
		StrongNet:            3_000_000,
	}
}

// Screener detects volatility contraction and scores institutional flow.
type Screener struct {
	cfg Config
	log *logger.Logger
}

// New creates a Screener.
func New(cfg Config, log *logger.Logger) *Screener {
	if cfg.ContractionWindow <= 0 {
		cfg.ContractionWindow = 10
	}
	if cfg.FlowWindow <= 0 {
		cfg.FlowWindow = 5
	}
	return &Screener{cfg: cfg, log: log}
}

// Config returns the active thresholds.
func (s *Screener) Config() Config {
	return s.cfg
}

// DetectVCP screens one candidate's price series for a volatility
// contraction: the average high-low range of the most recent window must
// shrink to ContractionThreshold of the prior window while price holds
// within ProximityBand of the 52-period high.
//
// A series shorter than Lookback, or one with a flat prior window, yields
// contraction_ratio 1.0 and no pattern.
func (s *Screener) DetectVCP(c *models.Candidate) models.PatternResult {
	res := models.PatternResult{ContractionRatio: 1.0}

	if c.High52 > 0 && c.LatestPrice >= c.High52*(1-s.cfg.ProximityBand) {
		res.NearHigh = true
	}

	bars := c.Bars
	w := s.cfg.ContractionWindow
	if len(bars) < s.cfg.Lookback || len(bars) < 2*w {
		s.log.Debug("vcp: series too short",
			logger.String("ticker", c.Ticker),
			logger.Int("bars", len(bars)))
		return res
	}

	recent := avgRange(bars[len(bars)-w:])
	prior := avgRange(bars[len(bars)-2*w : len(bars)-w])
	if prior <= 0 {
		// all-flat prices carry no pattern information
		return res
	}

	ratio := recent / prior
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	res.ContractionRatio = ratio
	res.IsVCP = ratio <= s.cfg.ContractionThreshold && res.NearHigh
	res.Tight = res.IsVCP && ratio <= s.cfg.StrongRatio
	return res
}

func avgRange(bars []models.PriceBar) float64 {
	if len(bars) == 0 {
		return 0
	}
	var sum float64
	for _, b := range bars {
		sum += b.High - b.Low
	}
	return sum / float64(len(bars))
}
