package screener

import "StockPulse/internal/domain/models"

// Smart-money weighting: foreign net buying carries 40 points,
// institutional 30, and simultaneous net buying on both sides the
// remaining 30.
const (
	foreignWeight   = 40.0
	instWeight      = 30.0
	doubleBuyWeight = 30.0

	flowStrongCutoff   = 70.0
	flowModerateCutoff = 40.0
)

// ScoreFlow aggregates the trailing flow window into a 0-100 SmartMoney
// score and the discrete 0-2 composite component. Fewer records than the
// window are summed as-is; an empty slice scores zero.
func (s *Screener) ScoreFlow(records []models.FlowRecord) models.FlowResult {
	var res models.FlowResult
	if len(records) == 0 {
		return res
	}

	window := records
	if len(window) > s.cfg.FlowWindow {
		window = window[len(window)-s.cfg.FlowWindow:]
	}

	for _, r := range window {
		res.ForeignNet += r.ForeignNet
		res.InstNet += r.InstitutionalNet
	}
	res.DoubleBuy = res.ForeignNet > 0 && res.InstNet > 0

	smart := s.component(res.ForeignNet)*foreignWeight + s.component(res.InstNet)*instWeight
	if res.DoubleBuy {
		smart += doubleBuyWeight
	}
	res.SmartMoney = smart

	switch {
	case smart >= flowStrongCutoff:
		res.Score = 2
	case smart >= flowModerateCutoff:
		res.Score = 1
	}
	return res
}

// component normalizes a net-buy sum into [0,1], saturating at StrongNet.
func (s *Screener) component(net int64) float64 {
	if net <= 0 || s.cfg.StrongNet <= 0 {
		return 0
	}
	v := float64(net) / float64(s.cfg.StrongNet)
	if v > 1 {
		v = 1
	}
	return v
}
