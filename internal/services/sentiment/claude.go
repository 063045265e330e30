package sentiment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/pkg/logger"
)

// Scoring policy handed to the model verbatim. The bands are the decision
// contract: 3 confirmed strong catalyst, 2 positive catalyst, 1 routine,
// 0 negative or nothing meaningful.
const systemPrompt = `You rate stock news for a screening pipeline.
Score the combined news for the given company on this exact scale:
3 = confirmed strong catalyst (large contract win, upper-limit-moving news, earnings surprise, ownership dispute)
2 = positive catalyst (earnings improvement, thematic tailwind)
1 = neutral or routine news
0 = negative news or no meaningful news
Reply with a single JSON object and nothing else: {"score": <0-3>, "reason": "<one short sentence>"}`

// Config holds analyzer settings.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Claude is a SentimentAnalyzer backed by the Anthropic API. Every call
// waits on the shared rate gate first; any failure degrades to a zero
// score instead of surfacing an error.
type Claude struct {
	client    anthropic.Client
	model     string
	maxTokens int
	timeout   time.Duration
	gate      *ratelimit.Gate
	metrics   repository.Metrics
	log       *logger.Logger
}

// New builds the analyzer. A missing API key is a configuration error
// that disables sentiment for the whole run rather than failing it: the
// returned analyzer then scores everything zero with the cause attached.
func New(cfg Config, gate *ratelimit.Gate, metrics repository.Metrics, log *logger.Logger) domsvc.SentimentAnalyzer {
	if cfg.APIKey == "" {
		log.Warn("sentiment disabled: no api key configured")
		return &disabled{metrics: metrics}
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-haiku-latest"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Claude{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		gate:      gate,
		metrics:   metrics,
		log:       log,
	}
}

// Analyze scores up to three news items for one stock. It never returns
// an error; see models.SentimentResult.
func (c *Claude) Analyze(ctx context.Context, name string, items []models.NewsItem) models.SentimentResult {
	if len(items) == 0 {
		// no gate slot consumed for newsless candidates
		c.metrics.RecordSentiment("skipped")
		return models.SentimentDegraded("no recent news")
	}
	if len(items) > 3 {
		items = items[:3]
	}

	if err := c.gate.Wait(ctx); err != nil {
		c.metrics.RecordSentiment("error")
		return models.SentimentDegraded(fmt.Sprintf("rate gate: %v", err))
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Messages.New(callCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(name, items))),
		},
	})
	if err != nil {
		c.log.Warn("sentiment api call failed",
			logger.String("stock", name),
			logger.Error(err))
		c.metrics.RecordSentiment("error")
		return models.SentimentDegraded(fmt.Sprintf("api call failed: %v", err))
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	score, reason, err := ExtractScore(sb.String())
	if err != nil {
		c.log.Warn("sentiment reply unparseable",
			logger.String("stock", name),
			logger.Error(err))
		c.metrics.RecordSentiment("malformed")
		return models.SentimentDegraded("parse failure")
	}

	c.metrics.RecordSentiment("ok")
	return models.SentimentOK(score, reason)
}

func buildPrompt(name string, items []models.NewsItem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Company: %s\n\nRecent news:\n", name)
	for i, it := range items {
		fmt.Fprintf(&sb, "%d. %s", i+1, it.Title)
		if it.Summary != "" {
			fmt.Fprintf(&sb, ": %s", it.Summary)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// disabled scores everything zero when no credential is configured.
type disabled struct {
	metrics repository.Metrics
}

func (d *disabled) Analyze(_ context.Context, _ string, _ []models.NewsItem) models.SentimentResult {
	d.metrics.RecordSentiment("disabled")
	return models.SentimentDegraded("sentiment disabled: missing api key")
}

var (
	_ domsvc.SentimentAnalyzer = (*Claude)(nil)
	_ domsvc.SentimentAnalyzer = (*disabled)(nil)
)
