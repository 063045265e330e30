package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
	"StockPulse/internal/screener"
	"StockPulse/internal/scoring"
	"StockPulse/internal/sizing"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// Stop placement: lowest low of the trailing window, floored at a fixed
// fraction below entry when the swing low sits above it.
const (
	stopLookback     = 10
	stopFallbackFrac = 0.03
	targetRMultiple  = 2.0
)

// Config holds pipeline settings.
type Config struct {
	Markets      []models.Market
	TopMovers    int
	MaxPositions int
	Capital      float64
	NewsLimit    int
	FlowDays     int
	FetchTimeout time.Duration
}

// Deps bundles the generator's collaborators. Publisher and History may
// be nil when the corresponding backends are disabled.
type Deps struct {
	Market    domrepo.MarketDataSource
	Flows     domrepo.FlowSource
	News      domrepo.NewsSource
	Analyzer  domsvc.SentimentAnalyzer
	Screener  *screener.Screener
	Store     domrepo.RunArtifactStore
	Publisher domrepo.Publisher
	History   domrepo.RunHistory
	Metrics   domrepo.Metrics
	Log       *logger.Logger
}

// SignalGenerator orchestrates one pipeline run: select candidates,
// analyze them strictly one after another, rank, cap, and emit.
// Candidates are sequential because the sentiment analyzer shares one
// external rate budget; inside a single candidate the three data fetches
// fan out concurrently.
type SignalGenerator struct {
	deps Deps
	cfg  Config
	now  func() time.Time
}

// NewSignalGenerator creates a generator.
func NewSignalGenerator(deps Deps, cfg Config) *SignalGenerator {
	if cfg.TopMovers <= 0 {
		cfg.TopMovers = 30
	}
	if cfg.MaxPositions <= 0 {
		cfg.MaxPositions = 10
	}
	if cfg.NewsLimit <= 0 {
		cfg.NewsLimit = 3
	}
	if cfg.FlowDays <= 0 {
		cfg.FlowDays = 5
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	if len(cfg.Markets) == 0 {
		cfg.Markets = []models.Market{models.MarketPrimary, models.MarketSecondary}
	}
	return &SignalGenerator{deps: deps, cfg: cfg, now: time.Now}
}

// WithClock overrides the generator's clock; used in tests.
func (g *SignalGenerator) WithClock(now func() time.Time) *SignalGenerator {
	g.now = now
	return g
}

// Run executes one full pipeline invocation. A failed candidate selection
// aborts the run with no artifact written; per-candidate failures only
// skip that candidate. A canceled context stops starting new candidates
// and leaves the previous "latest" artifact untouched.
func (g *SignalGenerator) Run(ctx context.Context) (*models.RunResult, error) {
	start := g.now()

	movers, err := g.selectCandidates(ctx)
	if err != nil {
		g.deps.Metrics.RecordRun("failed", time.Since(start).Seconds())
		return nil, err
	}
	g.deps.Log.Info("candidates selected", logger.Int("count", len(movers)))

	var signals []models.Signal
	attempted := 0
	for _, mv := range movers {
		if err := ctx.Err(); err != nil {
			g.deps.Metrics.RecordRun("canceled", time.Since(start).Seconds())
			return nil, fmt.Errorf("run canceled after %d candidates: %w", attempted, err)
		}
		attempted++

		sig, err := g.Analyze(ctx, mv)
		if err != nil {
			g.deps.Log.Warn("candidate skipped",
				logger.String("ticker", mv.Ticker),
				logger.Error(err))
			g.deps.Metrics.RecordCandidate("skipped")
			continue
		}
		g.deps.Metrics.RecordCandidate("analyzed")

		if sig.Grade == models.GradeC {
			// scored but excluded from output by policy
			g.deps.Metrics.RecordCandidate("filtered")
			continue
		}
		signals = append(signals, *sig)
	}

	rankSignals(signals)
	if len(signals) > g.cfg.MaxPositions {
		signals = signals[:g.cfg.MaxPositions]
	}
	for _, s := range signals {
		g.deps.Metrics.RecordSignal(string(s.Grade))
	}

	result := &models.RunResult{
		RunDate:          util.RunDate(start),
		TotalCandidates:  attempted,
		Signals:          signals,
		ProcessingTimeMS: time.Since(start).Milliseconds(),
	}
	result.Recount()

	if err := g.deps.Store.Write(ctx, result); err != nil {
		g.deps.Metrics.RecordRun("failed", time.Since(start).Seconds())
		return nil, fmt.Errorf("persist run: %w", err)
	}
	g.emitDownstream(ctx, result)

	g.deps.Metrics.RecordRun("ok", time.Since(start).Seconds())
	g.deps.Log.Info("run complete",
		logger.String("run_date", result.RunDate),
		logger.Int("total_candidates", result.TotalCandidates),
		logger.Int("filtered_count", result.FilteredCount),
		logger.Int64("processing_ms", result.ProcessingTimeMS))
	return result, nil
}

// Reanalyze refreshes exactly one ticker and patches it into the current
// dated and "latest" artifacts, leaving every other entry untouched. A
// refresh that drops the ticker to grade C removes it from the output,
// matching the run-level exclusion policy.
func (g *SignalGenerator) Reanalyze(ctx context.Context, ticker string) (*models.Signal, error) {
	mv, err := g.deps.Market.Lookup(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("reanalyze %s: %w", ticker, err)
	}

	sig, err := g.Analyze(ctx, mv)
	if err != nil {
		return nil, fmt.Errorf("reanalyze %s: %w", ticker, err)
	}

	latest, err := g.deps.Store.ReadLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("reanalyze %s: no current run to update: %w", ticker, err)
	}

	patched := false
	for i := range latest.Signals {
		if latest.Signals[i].Ticker != ticker {
			continue
		}
		if sig.Grade == models.GradeC {
			latest.Signals = append(latest.Signals[:i], latest.Signals[i+1:]...)
		} else {
			latest.Signals[i] = *sig
		}
		patched = true
		break
	}
	if !patched && sig.Grade != models.GradeC {
		latest.Signals = append(latest.Signals, *sig)
	}
	latest.Recount()

	if err := g.deps.Store.Write(ctx, latest); err != nil {
		return nil, fmt.Errorf("reanalyze %s: persist: %w", ticker, err)
	}
	g.deps.Log.Info("ticker reanalyzed",
		logger.String("ticker", ticker),
		logger.String("grade", string(sig.Grade)))
	return sig, nil
}

// Analyze runs the full per-candidate pipeline step: concurrent data
// fetch, sentiment, screening, scoring, sizing.
func (g *SignalGenerator) Analyze(ctx context.Context, mv models.Mover) (*models.Signal, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, g.cfg.FetchTimeout)
	defer cancel()

	cand, news, flows, err := g.fetchAll(fetchCtx, mv)
	if err != nil {
		return nil, err
	}

	// only serialization point: one shared external rate budget
	sentiment := g.deps.Analyzer.Analyze(ctx, cand.Name, news)

	pattern := g.deps.Screener.DetectVCP(cand)
	flowRes := g.deps.Screener.ScoreFlow(flows)

	scored := scoring.Score(scoring.Input{
		Candidate: cand,
		Pattern:   pattern,
		Flow:      flowRes,
		Sentiment: sentiment,
	})

	entry := cand.LatestPrice
	stop := stopLoss(cand)
	target := entry + targetRMultiple*(entry-stop)

	reasons := scored.Reasons
	size := 0
	if scored.Grade != models.GradeC {
		sized := sizing.Size(g.cfg.Capital, scored.Grade, entry, stop)
		size = sized.Shares
		reasons = append(reasons, "sizing: "+sized.Reason)
	}

	return &models.Signal{
		Ticker:       cand.Ticker,
		Name:         cand.Name,
		Market:       cand.Market,
		Score:        scored.Detail,
		Grade:        scored.Grade,
		EntryPrice:   entry,
		TargetPrice:  target,
		StopLoss:     stop,
		PositionSize: size,
		Reasons:      reasons,
		CreatedAt:    g.now(),
	}, nil
}

// selectCandidates pulls movers per market in config order and dedupes by
// ticker, preserving first occurrence. The resulting order is the stable
// tie-break baseline for ranking.
func (g *SignalGenerator) selectCandidates(ctx context.Context) ([]models.Mover, error) {
	var movers []models.Mover
	seen := make(map[string]struct{})
	for _, market := range g.cfg.Markets {
		list, err := g.deps.Market.TopMovers(ctx, market, g.cfg.TopMovers)
		if err != nil {
			return nil, fmt.Errorf("select candidates %s: %w: %v", market, models.ErrRunFailed, err)
		}
		for _, mv := range list {
			if _, ok := seen[mv.Ticker]; ok {
				continue
			}
			seen[mv.Ticker] = struct{}{}
			movers = append(movers, mv)
		}
	}
	return movers, nil
}

// fetchAll issues the three independent data fetches concurrently and
// fails the candidate on the first error.
func (g *SignalGenerator) fetchAll(ctx context.Context, mv models.Mover) (*models.Candidate, []models.NewsItem, []models.FlowRecord, error) {
	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := g.deps.Market.Candidate(ctx, mv)
		ch <- item{"candidate", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := g.deps.News.Latest(ctx, mv.Ticker, g.cfg.NewsLimit)
		ch <- item{"news", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := g.deps.Flows.Recent(ctx, mv.Ticker, g.cfg.FlowDays)
		ch <- item{"flows", v, err}
	}()

	go func() { wg.Wait(); close(ch) }()

	var (
		cand  *models.Candidate
		news  []models.NewsItem
		flows []models.FlowRecord
	)
	for it := range ch {
		if it.err != nil {
			return nil, nil, nil, fmt.Errorf("fetch %s: %w", it.name, it.err)
		}
		switch it.name {
		case "candidate":
			cand = it.val.(*models.Candidate)
		case "news":
			news = it.val.([]models.NewsItem)
		case "flows":
			flows = it.val.([]models.FlowRecord)
		}
	}
	return cand, news, flows, nil
}

// emitDownstream pushes the result to optional backends; failures there
// are logged, never fatal, since the artifact store already holds the run.
func (g *SignalGenerator) emitDownstream(ctx context.Context, result *models.RunResult) {
	if g.deps.History != nil {
		if err := g.deps.History.Append(ctx, result); err != nil {
			g.deps.Log.Warn("history append failed", logger.Error(err))
		}
	}
	if g.deps.Publisher != nil {
		if err := g.deps.Publisher.PublishRun(ctx, result); err != nil {
			g.deps.Log.Warn("run publish failed", logger.Error(err))
		}
	}
}

// rankSignals orders by grade descending then total descending; the sort
// is stable so selection order decides remaining ties.
func rankSignals(signals []models.Signal) {
	sort.SliceStable(signals, func(i, j int) bool {
		if signals[i].Grade.Rank() != signals[j].Grade.Rank() {
			return signals[i].Grade.Rank() > signals[j].Grade.Rank()
		}
		return signals[i].Score.Total > signals[j].Score.Total
	})
}

// stopLoss places the stop at the lowest low of the trailing window, or a
// fixed fraction below entry when that low is not below entry.
func stopLoss(c *models.Candidate) float64 {
	entry := c.LatestPrice
	sub := c.Bars
	if len(sub) > stopLookback {
		sub = sub[len(sub)-stopLookback:]
	}
	low := entry
	for _, b := range sub {
		if b.Low < low {
			low = b.Low
		}
	}
	if low >= entry {
		return entry * (1 - stopFallbackFrac)
	}
	return low
}
