package screener

import (
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/logger"
)

func flowRecords(days int, foreign, inst int64) []models.FlowRecord {
	records := make([]models.FlowRecord, days)
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	for i := range records {
		records[i] = models.FlowRecord{
			Date:             day.AddDate(0, 0, i),
			ForeignNet:       foreign,
			InstitutionalNet: inst,
		}
	}
	return records
}

func TestScoreFlowDoubleBuy(t *testing.T) {
	s := New(DefaultConfig(), logger.Nop())
	res := s.ScoreFlow(flowRecords(5, 600_000, 600_000))

	if !res.DoubleBuy {
		t.Fatalf("expected double buy")
	}
	if res.SmartMoney != 100 {
		t.Fatalf("expected saturated smart money, got %.0f", res.SmartMoney)
	}
	if res.Score != 2 {
		t.Fatalf("expected score 2, got %d", res.Score)
	}
}

func TestScoreFlowForeignOnly(t *testing.T) {
	s := New(DefaultConfig(), logger.Nop())
	res := s.ScoreFlow(flowRecords(5, 600_000, 0))

	if res.DoubleBuy {
		t.Fatalf("unexpected double buy")
	}
	if res.SmartMoney != 40 {
		t.Fatalf("expected smart money 40, got %.0f", res.SmartMoney)
	}
	if res.Score != 1 {
		t.Fatalf("expected score 1, got %d", res.Score)
	}
}

func TestScoreFlowInstitutionalOnlyBelowCutoff(t *testing.T) {
	s := New(DefaultConfig(), logger.Nop())
	res := s.ScoreFlow(flowRecords(5, 0, 600_000))

	if res.SmartMoney != 30 {
		t.Fatalf("expected smart money 30, got %.0f", res.SmartMoney)
	}
	if res.Score != 0 {
		t.Fatalf("expected score 0, got %d", res.Score)
	}
}

func TestScoreFlowSelling(t *testing.T) {
	s := New(DefaultConfig(), logger.Nop())
	res := s.ScoreFlow(flowRecords(5, -600_000, -600_000))

	if res.SmartMoney != 0 || res.Score != 0 {
		t.Fatalf("net selling must score zero, got %.0f/%d", res.SmartMoney, res.Score)
	}
}

func TestScoreFlowWindowTrimsOldRecords(t *testing.T) {
	s := New(DefaultConfig(), logger.Nop())

	records := flowRecords(2, -50_000_000, -50_000_000)
	records = append(records, flowRecords(5, 600_000, 600_000)...)

	res := s.ScoreFlow(records)
	if res.ForeignNet != 3_000_000 || res.InstNet != 3_000_000 {
		t.Fatalf("old records leaked into window: %d/%d", res.ForeignNet, res.InstNet)
	}
	if res.Score != 2 {
		t.Fatalf("expected score 2, got %d", res.Score)
	}
}

func TestScoreFlowEmpty(t *testing.T) {
	s := New(DefaultConfig(), logger.Nop())
	res := s.ScoreFlow(nil)
	if res.Score != 0 || res.SmartMoney != 0 {
		t.Fatalf("empty window must score zero")
	}
}
