package folio

import (
	"testing"

	"github.com/etnz/folio/date"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// day is a helper for test to parse a date or fail.
func day(s string) date.Date { return date.MustParse(s) }

// series is a helper for test to build a price series from alternating days and prices.
func series(kv ...any) *date.History[float64] {
	h := new(date.History[float64])
	for i := 0; i+1 < len(kv); i += 2 {
		h.Append(day(kv[i].(string)), kv[i+1].(float64))
	}
	return h
}

// hold is a helper for test to create a euro holding bought on 2024-01-02.
func hold(t *testing.T, ticker string, quantity, buy, last float64) Holding {
	t.Helper()
	h, err := NewHolding(ticker, Q(quantity), EUR(buy), day("2024-01-02"), "")
	if err != nil {
		t.Fatalf("NewHolding(%q) error = %v", ticker, err)
	}
	h.LastKnownPrice = EUR(last)
	return h
}

// portfolioOf is a helper for test to create a euro portfolio.
func portfolioOf(t *testing.T, holdings ...Holding) *Portfolio {
	t.Helper()
	p := NewPortfolio("EUR")
	for _, h := range holdings {
		if err := p.Put(h); err != nil {
			t.Fatalf("Put(%q) error = %v", h.Ticker, err)
		}
	}
	return p
}
