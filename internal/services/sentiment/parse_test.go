package sentiment

import (
	"errors"
	"testing"

	"StockPulse/internal/domain/models"
)

func TestExtractScorePlainJSON(t *testing.T) {
	score, reason, err := ExtractScore(`{"score": 2, "reason": "new supply contract"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 2 || reason != "new supply contract" {
		t.Fatalf("unexpected result %d %q", score, reason)
	}
}

func TestExtractScoreCodeFence(t *testing.T) {
	reply := "```json\n{\"score\": 3, \"reason\": \"record earnings\"}\n```"
	score, reason, err := ExtractScore(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 3 || reason != "record earnings" {
		t.Fatalf("unexpected result %d %q", score, reason)
	}
}

func TestExtractScoreProseWrapped(t *testing.T) {
	reply := `Here is my assessment: {"score": 1, "reason": "mixed coverage"} as requested.`
	score, reason, err := ExtractScore(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 1 || reason != "mixed coverage" {
		t.Fatalf("unexpected result %d %q", score, reason)
	}
}

func TestExtractScoreMalformed(t *testing.T) {
	for _, reply := range []string{"", "no json here", "{broken", "```\nnot json\n```"} {
		_, _, err := ExtractScore(reply)
		if !errors.Is(err, models.ErrMalformedResponse) {
			t.Fatalf("reply %q: expected malformed response error, got %v", reply, err)
		}
	}
}
