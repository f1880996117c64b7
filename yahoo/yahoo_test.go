package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// 2024-01-02 and 2024-01-03 at 14:30 UTC, the NYSE open.
const aaplChart = `{"chart": {"result": [{
	"meta": {"currency": "USD", "symbol": "AAPL", "gmtoffset": -18000, "longName": "Apple Inc.", "shortName": "Apple"},
	"timestamp": [1704205800, 1704292200],
	"indicators": {"quote": [{"close": [185.64, null]}]}
}], "error": null}}`

const msftChart = `{"chart": {"result": [{
	"meta": {"currency": "USD", "symbol": "MSFT", "gmtoffset": -18000, "shortName": "Microsoft"},
	"timestamp": [1704205800, 1704292200],
	"indicators": {"quote": [{"close": [370.87, 370.6]}]}
}], "error": null}}`

const notFound = `{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}}}`

func newTestServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("User-Agent") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/") {
		case "AAPL":
			fmt.Fprint(w, aaplChart)
		case "MSFT":
			fmt.Fprint(w, msftChart)
		case "EMPTY":
			fmt.Fprint(w, `{"chart": {"result": [{"meta": {}, "indicators": {"quote": [{}]}}], "error": null}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, notFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, cfg Config) (*Client, *atomic.Int32) {
	t.Helper()
	hits := new(atomic.Int32)
	cfg.BaseURL = newTestServer(t, hits).URL
	cfg.Rate = rate.Inf
	return New(cfg, zerolog.Nop()), hits
}

func TestClient_Fetch_Single(t *testing.T) {
	c, _ := newTestClient(t, Config{})
	md, err := c.Fetch(context.Background(), []string{"aapl"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if md.Shape() != folio.ShapeFlat {
		t.Errorf("Fetch() shape = %v, want flat", md.Shape())
	}
	series, ok := folio.Normalize(md, "AAPL")
	if !ok {
		t.Fatalf("Normalize() is absent")
	}
	if series.Len() != 1 {
		t.Errorf("series has %d entries, want 1 (null close dropped)", series.Len())
	}
	if v, ok := series.Get(date.New(2024, time.January, 2)); !ok || v != 185.64 {
		t.Errorf("series[2024-01-02] = %v, %v, want 185.64", v, ok)
	}
}

func TestClient_Fetch_Multi(t *testing.T) {
	c, _ := newTestClient(t, Config{})
	md, err := c.Fetch(context.Background(), []string{"AAPL", "MSFT", "NOPE"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if md.Shape() != folio.ShapeKeyed {
		t.Errorf("Fetch() shape = %v, want keyed", md.Shape())
	}
	for ticker, want := range map[string]bool{"AAPL": true, "MSFT": true, "NOPE": false} {
		if _, ok := folio.Normalize(md, ticker); ok != want {
			t.Errorf("Normalize(%s) = %v, want %v", ticker, ok, want)
		}
	}
}

func TestClient_Fetch_AllFailed(t *testing.T) {
	c, _ := newTestClient(t, Config{})
	if _, err := c.Fetch(context.Background(), []string{"NOPE", "EMPTY"}); err == nil {
		t.Errorf("Fetch() error = nil, want an error")
	}
}

func TestClient_Fetch_Canceled(t *testing.T) {
	c, _ := newTestClient(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Fetch(ctx, []string{"AAPL"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want %v", err, context.Canceled)
	}
}

func TestClient_Name(t *testing.T) {
	c, _ := newTestClient(t, Config{})
	tests := map[string]string{
		"AAPL": "Apple Inc.", // long name
		"MSFT": "Microsoft",  // short name
		"NOPE": "NOPE",       // ticker
	}
	for ticker, want := range tests {
		if got := c.Name(context.Background(), ticker); got != want {
			t.Errorf("Name(%s) = %q, want %q", ticker, got, want)
		}
	}
}

func TestClient_PriceOn(t *testing.T) {
	c, _ := newTestClient(t, Config{})
	got, err := c.PriceOn(context.Background(), "MSFT", date.New(2024, time.January, 1))
	if err != nil {
		t.Fatalf("PriceOn() error = %v", err)
	}
	if got != 370.87 {
		t.Errorf("PriceOn() = %v, want 370.87", got)
	}
	if _, err := c.PriceOn(context.Background(), "EMPTY", date.New(2024, time.January, 1)); !errors.Is(err, ErrNoData) {
		t.Errorf("PriceOn(EMPTY) error = %v, want %v", err, ErrNoData)
	}
}

func TestClient_DiskCache(t *testing.T) {
	c, hits := newTestClient(t, Config{CacheDir: t.TempDir(), CacheTTL: time.Hour})
	for range 3 {
		if _, err := c.Fetch(context.Background(), []string{"AAPL"}); err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server was hit %d times, want 1", got)
	}

	// errors are not cached
	c.Fetch(context.Background(), []string{"NOPE"})
	c.Fetch(context.Background(), []string{"NOPE"})
	if got := hits.Load(); got != 3 {
		t.Errorf("server was hit %d times, want 3", got)
	}
}
