package sentiment

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"StockPulse/internal/domain/models"
)

var (
	fenceRE = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	objRE   = regexp.MustCompile(`(?s)\{.*?\}`)
)

type scorePayload struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// ExtractScore parses the model's reply into (score, reason). The reply
// should be a single JSON object, but models wrap output in code fences
// or prose often enough that we strip fences first and then fall back to
// grabbing the first {...} block.
func ExtractScore(text string) (int, string, error) {
	text = strings.TrimSpace(text)
	if m := fenceRE.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	var p scorePayload
	if err := json.Unmarshal([]byte(text), &p); err == nil {
		return p.Score, p.Reason, nil
	}

	if m := objRE.FindString(text); m != "" {
		if err := json.Unmarshal([]byte(m), &p); err == nil {
			return p.Score, p.Reason, nil
		}
	}

	return 0, "", fmt.Errorf("%w: no JSON object in reply", models.ErrMalformedResponse)
}
