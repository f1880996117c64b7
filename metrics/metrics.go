// Package metrics provides Prometheus metrics for folio.
// Scrape these at /metrics for dashboards and alerting.
package metrics

import (
	"errors"

	"github.com/etnz/folio"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Refresh Metrics
	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_refreshes_total",
			Help: "Total number of refresh cycles by result",
		},
		[]string{"result"}, // "ok", "degraded", "empty", "failed"
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_refresh_duration_seconds",
			Help:    "Time taken by a refresh cycle, market data download included",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	PriceUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_price_updates_total",
			Help: "Total number of last known prices updated",
		},
	)

	StaleHoldings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_stale_holdings",
			Help: "Number of holdings valued without live data in the last refresh",
		},
	)

	// Portfolio Metrics
	Holdings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "folio_holdings",
			Help: "Number of holdings in the portfolio",
		},
	)

	NetWorth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "folio_net_worth",
			Help: "Total current value of the portfolio",
		},
		[]string{"currency"},
	)

	TotalGain = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "folio_total_gain",
			Help: "Total gain or loss of the portfolio",
		},
		[]string{"currency"},
	)

	HoldingValue = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "folio_holding_value",
			Help: "Current value of a holding",
		},
		[]string{"ticker", "currency"},
	)

	HoldingGainPercent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "folio_holding_gain_percent",
			Help: "Gain or loss of a holding in percent of its cost basis",
		},
		[]string{"ticker"},
	)

	// Market Data Metrics
	MarketDataErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_market_data_errors_total",
			Help: "Total number of failed market data downloads",
		},
	)
)

// ObserveRefresh records the outcome of a refresh cycle. It has the signature of a
// folio.Keeper observer.
func ObserveRefresh(r *folio.Report, err error) {
	switch {
	case errors.Is(err, folio.ErrEmptyPortfolio):
		RefreshesTotal.WithLabelValues("empty").Inc()
		Holdings.Set(0)
		StaleHoldings.Set(0)
		NetWorth.Reset()
		TotalGain.Reset()
		HoldingValue.Reset()
		HoldingGainPercent.Reset()
		return
	case r == nil:
		RefreshesTotal.WithLabelValues("failed").Inc()
		return
	}

	// a save failure still comes with a valid report
	switch {
	case err != nil:
		RefreshesTotal.WithLabelValues("failed").Inc()
	case r.Degraded:
		RefreshesTotal.WithLabelValues("degraded").Inc()
	default:
		RefreshesTotal.WithLabelValues("ok").Inc()
	}
	if r.FetchErr != nil {
		MarketDataErrorsTotal.Inc()
	}
	RefreshDuration.Observe(r.Elapsed.Seconds())
	PriceUpdatesTotal.Add(float64(r.Changed))

	s := r.Snapshot
	cur := s.Currency()
	Holdings.Set(float64(len(s.Rows)))
	StaleHoldings.Set(float64(len(s.Stale())))
	NetWorth.WithLabelValues(cur).Set(s.TotalValue.AsFloat())
	TotalGain.WithLabelValues(cur).Set(s.TotalGain.AsFloat())
	// removed holdings must not linger
	HoldingValue.Reset()
	HoldingGainPercent.Reset()
	for _, row := range s.Rows {
		HoldingValue.WithLabelValues(row.Ticker, cur).Set(row.CurrentValue.AsFloat())
		HoldingGainPercent.WithLabelValues(row.Ticker).Set(float64(row.GainPercent))
	}
}
