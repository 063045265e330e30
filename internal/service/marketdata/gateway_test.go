package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/logger"
)

func newTestGateway(t *testing.T, handler http.Handler) (*Gateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cc := cache.NewMemoryCache()
	t.Cleanup(func() { cc.Close() })

	gw := New(Config{BaseURL: srv.URL, Timeout: 2 * time.Second, CacheTTL: time.Minute}, cc, logger.Nop())
	return gw, srv
}

func TestTopMoversParsesAndCaches(t *testing.T) {
	var hits int64
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		if r.URL.Path != "/markets/PRIMARY/movers" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "30" {
			t.Errorf("unexpected limit %s", r.URL.Query().Get("limit"))
		}
		fmt.Fprint(w, `[{"ticker":"005930","name":"Samsung Electronics","market":"PRIMARY"}]`)
	}))

	ctx := context.Background()
	movers, err := gw.TopMovers(ctx, models.MarketPrimary, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movers) != 1 || movers[0].Ticker != "005930" || movers[0].Market != models.MarketPrimary {
		t.Fatalf("unexpected movers %+v", movers)
	}

	if _, err := gw.TopMovers(ctx, models.MarketPrimary, 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt64(&hits) != 1 {
		t.Fatalf("second call must hit the cache, got %d requests", hits)
	}
}

func TestTopMoversUpstreamError(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))

	_, err := gw.TopMovers(context.Background(), models.MarketPrimary, 30)
	if !errors.Is(err, models.ErrExternalAPI) {
		t.Fatalf("expected external api error, got %v", err)
	}
}

func TestCandidateDerivesSnapshot(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("periods") != "120" {
			t.Errorf("unexpected periods %s", r.URL.Query().Get("periods"))
		}
		fmt.Fprint(w, `[
			{"date":"2024-10-08","open":100,"high":110,"low":99,"close":101,"volume":1000},
			{"date":"2024-10-09","open":101,"high":104,"low":100,"close":103,"volume":1500},
			{"date":"2024-10-10","open":103,"high":106,"low":102,"close":105,"volume":2000}
		]`)
	}))

	c, err := gw.Candidate(context.Background(), models.Mover{Ticker: "005930", Name: "Samsung Electronics", Market: models.MarketPrimary})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(c.Bars))
	}
	if c.LatestPrice != 105 {
		t.Fatalf("unexpected latest price %v", c.LatestPrice)
	}
	if c.High52 != 110 {
		t.Fatalf("unexpected 52-period high %v", c.High52)
	}
}

func TestCandidateEmptySeries(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	}))

	_, err := gw.Candidate(context.Background(), models.Mover{Ticker: "005930"})
	if !errors.Is(err, models.ErrDataUnavailable) {
		t.Fatalf("expected data unavailable, got %v", err)
	}
}

func TestLookupUnknownTicker(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{}`)
	}))

	_, err := gw.Lookup(context.Background(), "UNKNOWN")
	if !errors.Is(err, models.ErrDataUnavailable) {
		t.Fatalf("expected data unavailable, got %v", err)
	}
}

func TestRecentFlows(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stocks/005930/flows" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `[{"date":"2024-10-10","foreign_net":600000,"institutional_net":-20000}]`)
	}))

	records, err := gw.Recent(context.Background(), "005930", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].ForeignNet != 600_000 || records[0].InstitutionalNet != -20_000 {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestLatestNews(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stocks/005930/news" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `[{"title":"export deal","summary":"record order book"}]`)
	}))

	items, err := gw.Latest(context.Background(), "005930", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "export deal" {
		t.Fatalf("unexpected items %+v", items)
	}
}
