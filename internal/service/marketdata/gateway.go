package marketdata

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/pkg/cache"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// candlePeriods is how much history one candidate snapshot carries; enough
// for the 60-bar screen lookback plus the 52-period high.
const candlePeriods = 120

// Config holds gateway client settings.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Gateway is a REST client for the market data gateway. It implements
// MarketDataSource, FlowSource, and NewsSource, with a short-lived cache
// in front of the aggregated endpoints.
type Gateway struct {
	base   string
	client *xhttp.Client
	cache  cache.Service
	ttl    time.Duration
	log    *logger.Logger
}

// New creates a Gateway client.
func New(cfg Config, cc cache.Service, log *logger.Logger) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Gateway{
		base:   cfg.BaseURL,
		client: xhttp.NewClient(xhttp.WithTimeout(timeout)),
		cache:  cc,
		ttl:    ttl,
		log:    log,
	}
}

type moverDTO struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Market string `json:"market"`
}

type barDTO struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type flowDTO struct {
	Date             string `json:"date"`
	ForeignNet       int64  `json:"foreign_net"`
	InstitutionalNet int64  `json:"institutional_net"`
}

type newsDTO struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// TopMovers lists the top movers for one market, cached for the TTL.
func (g *Gateway) TopMovers(ctx context.Context, market models.Market, limit int) ([]models.Mover, error) {
	key := fmt.Sprintf("movers:%s:%d", market, limit)
	var dtos []moverDTO
	if err := g.cache.Get(ctx, key, &dtos); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			g.log.Warn("mover cache read failed", logger.Error(err))
		}
		err := g.getJSON(ctx, fmt.Sprintf("/markets/%s/movers", market), map[string][]string{
			"limit": {strconv.Itoa(limit)},
		}, &dtos)
		if err != nil {
			return nil, fmt.Errorf("fetch movers %s: %w: %v", market, models.ErrExternalAPI, err)
		}
		if err := g.cache.Set(ctx, key, dtos, g.ttl); err != nil {
			g.log.Warn("mover cache write failed", logger.Error(err))
		}
	}

	movers := make([]models.Mover, 0, len(dtos))
	for _, d := range dtos {
		movers = append(movers, models.Mover{
			Ticker: d.Ticker,
			Name:   d.Name,
			Market: models.Market(d.Market),
		})
	}
	return movers, nil
}

// Lookup resolves a single ticker.
func (g *Gateway) Lookup(ctx context.Context, ticker string) (models.Mover, error) {
	var d moverDTO
	if err := g.getJSON(ctx, "/stocks/"+ticker, nil, &d); err != nil {
		return models.Mover{}, fmt.Errorf("lookup %s: %w: %v", ticker, models.ErrExternalAPI, err)
	}
	if d.Ticker == "" {
		return models.Mover{}, fmt.Errorf("lookup %s: %w", ticker, models.ErrDataUnavailable)
	}
	return models.Mover{Ticker: d.Ticker, Name: d.Name, Market: models.Market(d.Market)}, nil
}

// Candidate fetches the candle series for one mover and derives the
// snapshot fields. Candle series are cached for the TTL.
func (g *Gateway) Candidate(ctx context.Context, mover models.Mover) (*models.Candidate, error) {
	key := "candles:" + mover.Ticker
	var dtos []barDTO
	if err := g.cache.Get(ctx, key, &dtos); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			g.log.Warn("candle cache read failed", logger.Error(err))
		}
		err := g.getJSON(ctx, fmt.Sprintf("/stocks/%s/candles", mover.Ticker), map[string][]string{
			"periods": {strconv.Itoa(candlePeriods)},
		}, &dtos)
		if err != nil {
			return nil, fmt.Errorf("fetch candles %s: %w: %v", mover.Ticker, models.ErrExternalAPI, err)
		}
		if err := g.cache.Set(ctx, key, dtos, g.ttl); err != nil {
			g.log.Warn("candle cache write failed", logger.Error(err))
		}
	}

	if len(dtos) == 0 {
		return nil, fmt.Errorf("candles %s: %w", mover.Ticker, models.ErrDataUnavailable)
	}

	bars := make([]models.PriceBar, 0, len(dtos))
	for _, d := range dtos {
		bars = append(bars, models.PriceBar{
			Date:   util.ParseTimeDefault(d.Date, time.Time{}),
			Open:   d.Open,
			High:   d.High,
			Low:    d.Low,
			Close:  d.Close,
			Volume: d.Volume,
		})
	}

	c := &models.Candidate{
		Ticker:      mover.Ticker,
		Name:        mover.Name,
		Market:      mover.Market,
		Bars:        bars,
		LatestPrice: bars[len(bars)-1].Close,
		High52:      high52(bars),
	}
	return c, nil
}

// Recent returns up to `days` most recent flow records, ascending.
func (g *Gateway) Recent(ctx context.Context, ticker string, days int) ([]models.FlowRecord, error) {
	var dtos []flowDTO
	err := g.getJSON(ctx, fmt.Sprintf("/stocks/%s/flows", ticker), map[string][]string{
		"days": {strconv.Itoa(days)},
	}, &dtos)
	if err != nil {
		return nil, fmt.Errorf("fetch flows %s: %w: %v", ticker, models.ErrExternalAPI, err)
	}

	records := make([]models.FlowRecord, 0, len(dtos))
	for _, d := range dtos {
		records = append(records, models.FlowRecord{
			Date:             util.ParseTimeDefault(d.Date, time.Time{}),
			ForeignNet:       d.ForeignNet,
			InstitutionalNet: d.InstitutionalNet,
		})
	}
	return records, nil
}

// Latest returns up to `limit` news items, most recent first.
func (g *Gateway) Latest(ctx context.Context, ticker string, limit int) ([]models.NewsItem, error) {
	var dtos []newsDTO
	err := g.getJSON(ctx, fmt.Sprintf("/stocks/%s/news", ticker), map[string][]string{
		"limit": {strconv.Itoa(limit)},
	}, &dtos)
	if err != nil {
		return nil, fmt.Errorf("fetch news %s: %w: %v", ticker, models.ErrExternalAPI, err)
	}

	items := make([]models.NewsItem, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, models.NewsItem{Title: d.Title, Summary: d.Summary})
	}
	return items, nil
}

func (g *Gateway) getJSON(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	return g.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         g.base + path,
		QueryParams: query,
	}, dest)
}

func high52(bars []models.PriceBar) float64 {
	sub := bars
	if len(sub) > 52 {
		sub = sub[len(sub)-52:]
	}
	var high float64
	for _, b := range sub {
		if b.High > high {
			high = b.High
		}
	}
	return high
}

var (
	_ repository.MarketDataSource = (*Gateway)(nil)
	_ repository.FlowSource       = (*Gateway)(nil)
	_ repository.NewsSource       = (*Gateway)(nil)
)
