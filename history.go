package folio

import (
	"errors"

	"github.com/etnz/folio/date"
)

// ErrHistoryUnavailable is returned when no holding has a usable price series.
//
// It is distinct from an all-zero history: callers should say the history is not
// available rather than display a flat line at zero.
var ErrHistoryUnavailable = errors.New("value history unavailable")

// Scale returns the series multiplied by quantity: the value over time of a holding.
func Scale(series *date.History[float64], quantity Quantity) *date.History[float64] {
	q := quantity.AsFloat()
	scaled := new(date.History[float64])
	for on, price := range series.Values() {
		scaled.Append(on, price*q)
	}
	return scaled
}

// ValueHistory returns the total value of the portfolio over time.
//
// Every held ticker with a non empty series is scaled by its quantity, then all series
// are merged on the union of their days: a ticker without a value on a given day (for
// instance before its series starts) contributes zero to that day's total.
func ValueHistory(p *Portfolio, series map[string]*date.History[float64]) (*date.History[float64], error) {
	scaled := make([]*date.History[float64], 0, p.Len())
	for h := range p.Holdings() {
		s := series[h.Ticker]
		if s.Len() == 0 {
			continue
		}
		scaled = append(scaled, Scale(s, h.Quantity))
	}
	if len(scaled) == 0 {
		return nil, ErrHistoryUnavailable
	}

	total := new(date.History[float64])
	for on := range date.Iterate(scaled...) {
		var sum float64
		for _, s := range scaled {
			if v, ok := s.Get(on); ok {
				sum += v
			}
		}
		total.Append(on, sum)
	}
	return total, nil
}

// Within returns the part of the value history h that is in r.
func Within(h *date.History[float64], r date.Range) *date.History[float64] {
	w := new(date.History[float64])
	for on, v := range h.Values() {
		if r.Contains(on) {
			w.Append(on, v)
		}
	}
	return w
}

// Trailing returns the last months of the value history h, up to its latest day.
// A non positive months returns h.
func Trailing(h *date.History[float64], months int) *date.History[float64] {
	if months <= 0 || h.Len() == 0 {
		return h
	}
	last, _ := h.Latest()
	return Within(h, date.Trailing(last, months))
}
