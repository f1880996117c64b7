// Package yahoo downloads daily closing prices and security names from Yahoo Finance.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Yahoo Finance API host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// DefaultWindow is the history range downloaded by Fetch.
const DefaultWindow = "6mo"

// ErrNoData is returned when Yahoo has no price for a ticker.
var ErrNoData = errors.New("no data")

// Config configures a Client.
type Config struct {
	BaseURL  string        // defaults to DefaultBaseURL
	Window   string        // history range, defaults to DefaultWindow
	CacheDir string        // where to cache http responses, empty disables the cache
	CacheTTL time.Duration // freshness of cached responses
	Rate     rate.Limit    // requests per second, defaults to 2
}

// Client is a Yahoo Finance chart API client. It implements folio.Source.
type Client struct {
	base    string
	window  string
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// New returns a new Client.
func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Window == "" {
		cfg.Window = DefaultWindow
	}
	if cfg.Rate == 0 {
		cfg.Rate = 2
	}
	log = log.With().Str("component", "yahoo").Logger()
	return &Client{
		base:    cfg.BaseURL,
		window:  cfg.Window,
		client:  newCachingClient(cfg.CacheDir, cfg.CacheTTL, log),
		limiter: rate.NewLimiter(cfg.Rate, 1),
		log:     log,
	}
}

// chart is the part of a chart API response we use, navigated with jsonpath.
//
//	{
//	  "chart": {
//	    "result": [{
//	      "meta": {"currency": "USD", "symbol": "AAPL", "gmtoffset": -14400, "longName": "Apple Inc.", "shortName": "Apple Inc."},
//	      "timestamp": [1704205800, ...],
//	      "indicators": {"quote": [{"close": [185.64, ...], "open": [...]}]}
//	    }],
//	    "error": null
//	  }
//	}
type chart struct {
	obj any
}

// list returns the array at path.
func (c chart) list(path string) []any {
	v, err := jsonpath.Get(path, c.obj)
	if err != nil {
		return nil
	}
	l, _ := v.([]any)
	return l
}

// scalar returns the value at path, collapsing a single element result.
func (c chart) scalar(path string) any {
	v, err := jsonpath.Get(path, c.obj)
	if err != nil {
		return nil
	}
	// jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// keep the first one if any
	if l, ok := v.([]any); ok && len(l) > 0 {
		v = l[0]
	}
	return v
}

func (c chart) text(path string) string {
	s, _ := c.scalar(path).(string)
	return s
}

func (c chart) err() error {
	if desc := c.text("$.chart.error.description"); desc != "" {
		return errors.New(desc)
	}
	return nil
}

// frame converts the chart into a frame of columns: {"Date": [...], "Close": [...]}.
//
// Timestamps are shifted to the exchange time zone before being turned into days.
// Closes are kept raw, null included.
func (c chart) frame() (map[string]any, error) {
	stamps := c.list("$.chart.result[0].timestamp")
	closes := c.list("$.chart.result[0].indicators.quote[0].close")
	if len(stamps) == 0 || len(stamps) != len(closes) {
		return nil, ErrNoData
	}
	var offset int64
	if n, ok := c.scalar("$.chart.result[0].meta.gmtoffset").(json.Number); ok {
		offset, _ = n.Int64()
	}
	days := make([]any, 0, len(stamps))
	for _, s := range stamps {
		n, _ := s.(json.Number)
		sec, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %v: %w", s, err)
		}
		days = append(days, date.Of(time.Unix(sec+offset, 0).UTC()).String())
	}
	return map[string]any{
		folio.DateColumn:  days,
		folio.CloseColumn: closes,
	}, nil
}

// chart downloads the chart of ticker.
func (c *Client) chart(ctx context.Context, ticker string, query url.Values) (chart, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return chart{}, err
	}
	query.Set("interval", "1d")
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.base, url.PathEscape(ticker), query.Encode())

	var obj any
	if err := jwget(ctx, c.client, addr, &obj); err != nil {
		return chart{}, fmt.Errorf("cannot download %s: %w", ticker, err)
	}
	ch := chart{obj}
	if err := ch.err(); err != nil {
		return chart{}, fmt.Errorf("cannot download %s: %w", ticker, err)
	}
	return ch, nil
}

// Fetch implements folio.Source.
//
// A single ticker is returned as a flat frame, several tickers as one frame per ticker.
// Tickers that cannot be downloaded are missing from the result; Fetch fails only when
// none of them could be.
func (c *Client) Fetch(ctx context.Context, tickers []string) (*folio.MarketData, error) {
	frames := make(map[string]any, len(tickers))
	var errs []error
	for _, t := range tickers {
		t = folio.NormalizeTicker(t)
		ch, err := c.chart(ctx, t, url.Values{"range": {c.window}})
		var frame map[string]any
		if err == nil {
			frame, err = ch.frame()
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log.Warn().Err(err).Str("ticker", t).Msg("no price history")
			errs = append(errs, fmt.Errorf("%s: %w", t, err))
			continue
		}
		frames[t] = frame
	}
	if len(frames) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(tickers) == 1 {
		for _, frame := range frames {
			return folio.NewMarketData(tickers, frame), nil
		}
	}
	return folio.NewMarketData(tickers, frames), nil
}

// Name returns the display name of ticker: its long name, its short name, or the ticker
// itself when neither is available.
func (c *Client) Name(ctx context.Context, ticker string) string {
	ch, err := c.chart(ctx, ticker, url.Values{"range": {"5d"}})
	if err != nil {
		c.log.Debug().Err(err).Str("ticker", ticker).Msg("no name")
		return ticker
	}
	for _, path := range []string{"$.chart.result[0].meta.longName", "$.chart.result[0].meta.shortName"} {
		if name := ch.text(path); name != "" {
			return name
		}
	}
	return ticker
}

// PriceOn returns the first valid close of ticker in the five days from on, the way an
// acquisition price is looked up when none is given.
func (c *Client) PriceOn(ctx context.Context, ticker string, on date.Date) (float64, error) {
	query := url.Values{
		"period1": {strconv.FormatInt(on.Unix(), 10)},
		"period2": {strconv.FormatInt(on.Add(5).Unix(), 10)},
	}
	ch, err := c.chart(ctx, ticker, query)
	if err != nil {
		return 0, err
	}
	frame, err := ch.frame()
	if err != nil {
		return 0, fmt.Errorf("no price for %s on %s: %w", ticker, on, err)
	}
	series, ok := folio.Normalize(folio.NewMarketData([]string{ticker}, frame), ticker)
	if !ok {
		return 0, fmt.Errorf("no price for %s on %s: %w", ticker, on, ErrNoData)
	}
	_, price := series.First()
	return price, nil
}
