package folio

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// DefaultCurrency is the reporting currency of a portfolio when none is configured.
const DefaultCurrency = "EUR"

// ErrCurrencyMismatch is returned when a holding is not in the portfolio currency.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Portfolio is the collection of holdings, indexed by ticker.
//
// The insertion order is kept for stable display only, valuation does not depend on it.
// A Portfolio is owned by a single refresh cycle at a time: cycles receive a Portfolio
// and return an updated copy rather than mutating a shared one.
type Portfolio struct {
	currency string
	tickers  []string
	holdings map[string]Holding
}

// NewPortfolio returns an empty portfolio reporting in currency.
func NewPortfolio(currency string) *Portfolio {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Portfolio{
		currency: currency,
		tickers:  make([]string, 0),
		holdings: make(map[string]Holding),
	}
}

// Currency returns the reporting currency.
func (p *Portfolio) Currency() string { return p.currency }

// Len returns the number of holdings.
func (p *Portfolio) Len() int { return len(p.tickers) }

// IsEmpty reports whether the portfolio has no holding.
func (p *Portfolio) IsEmpty() bool { return p.Len() == 0 }

// Has reports whether ticker is held.
func (p *Portfolio) Has(ticker string) bool {
	_, ok := p.holdings[ticker]
	return ok
}

// Get returns the holding for ticker.
func (p *Portfolio) Get(ticker string) (Holding, bool) {
	h, ok := p.holdings[ticker]
	return h, ok
}

// Tickers returns the held tickers in insertion order.
func (p *Portfolio) Tickers() []string { return slices.Clone(p.tickers) }

// Holdings iterates over holdings in insertion order.
func (p *Portfolio) Holdings() iter.Seq[Holding] {
	return func(yield func(Holding) bool) {
		for _, t := range p.tickers {
			if !yield(p.holdings[t]) {
				return
			}
		}
	}
}

// Put adds a holding, or replaces the holding with the same ticker keeping its position.
func (p *Portfolio) Put(h Holding) error {
	if err := h.Validate(); err != nil {
		return err
	}
	if h.Currency() != p.currency {
		return fmt.Errorf("cannot add %s in %q to a portfolio in %q: %w", h.Ticker, h.Currency(), p.currency, ErrCurrencyMismatch)
	}
	if !p.Has(h.Ticker) {
		p.tickers = append(p.tickers, h.Ticker)
	}
	p.holdings[h.Ticker] = h
	return nil
}

// Remove deletes the holding for ticker, and reports whether it was there.
func (p *Portfolio) Remove(ticker string) bool {
	if !p.Has(ticker) {
		return false
	}
	delete(p.holdings, ticker)
	p.tickers = slices.DeleteFunc(p.tickers, func(t string) bool { return t == ticker })
	return true
}

// Clone returns an independent copy of the portfolio.
func (p *Portfolio) Clone() *Portfolio {
	return &Portfolio{
		currency: p.currency,
		tickers:  slices.Clone(p.tickers),
		holdings: maps.Clone(p.holdings),
	}
}

// Apply returns a copy of the portfolio with the last known prices of the batch applied,
// and the number of holdings actually changed.
//
// Directives for tickers no longer held, or that would not change anything, are ignored.
// The receiver is left untouched so that a batch is either fully applied or not at all.
func (p *Portfolio) Apply(batch []UpdateDirective) (*Portfolio, int) {
	next := p.Clone()
	changed := 0
	for _, d := range batch {
		h, ok := next.holdings[d.Ticker]
		if !ok {
			continue
		}
		price := d.Price.WithCurrency(p.currency)
		if h.LastKnownPrice.Equal(price) {
			continue
		}
		h.LastKnownPrice = price
		next.holdings[d.Ticker] = h
		changed++
	}
	return next, changed
}
