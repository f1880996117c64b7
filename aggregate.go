package folio

import (
	"errors"
)

// ErrEmptyPortfolio is returned when there is nothing to value.
//
// An empty portfolio is a normal state, callers are expected to check it before
// aggregating and to display it as such.
var ErrEmptyPortfolio = errors.New("portfolio is empty")

// Snapshot is the portfolio level valuation of one refresh cycle. It is never persisted.
type Snapshot struct {
	Rows             []ValuationRow `json:"rows"`
	TotalValue       Money          `json:"totalValue"` // net worth
	TotalCostBasis   Money          `json:"totalCostBasis"`
	TotalGain        Money          `json:"totalGain"`
	TotalGainPercent Percent        `json:"totalGainPercent"`
	BestAbsolute     ValuationRow   `json:"bestAbsolute"` // highest Gain
	BestPercent      ValuationRow   `json:"bestPercent"`  // highest GainPercent
	WorstAbsolute    ValuationRow   `json:"worstAbsolute"`
}

// Aggregate combines valuation rows into a Snapshot.
//
// Performer ties are broken by input order: the first row wins. Aggregate does not
// modify rows and returns equal snapshots for equal inputs.
func Aggregate(rows []ValuationRow) (*Snapshot, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyPortfolio
	}

	s := &Snapshot{
		Rows:          append([]ValuationRow(nil), rows...),
		BestAbsolute:  rows[0],
		BestPercent:   rows[0],
		WorstAbsolute: rows[0],
	}
	var value, cost Money
	for _, r := range rows {
		value = value.Add(r.CurrentValue)
		cost = cost.Add(r.CostBasis)
		if r.Gain.GreaterThan(s.BestAbsolute.Gain) {
			s.BestAbsolute = r
		}
		if r.GainPercent > s.BestPercent.GainPercent {
			s.BestPercent = r
		}
		if r.Gain.LessThan(s.WorstAbsolute.Gain) {
			s.WorstAbsolute = r
		}
	}
	s.TotalValue = value
	s.TotalCostBasis = cost
	s.TotalGain = value.Sub(cost)
	s.TotalGainPercent = percentOf(s.TotalGain, cost)
	return s, nil
}

// Currency returns the currency of the snapshot totals.
func (s *Snapshot) Currency() string { return s.TotalValue.Currency() }

// Allocation returns the share of the net worth held in ticker, in percent.
func (s *Snapshot) Allocation(ticker string) Percent {
	for _, r := range s.Rows {
		if r.Ticker == ticker {
			return percentOf(r.CurrentValue, s.TotalValue)
		}
	}
	return 0
}

// Stale returns the rows that were not valued from live data.
func (s *Snapshot) Stale() []ValuationRow {
	var stale []ValuationRow
	for _, r := range s.Rows {
		if r.Stale() {
			stale = append(stale, r)
		}
	}
	return stale
}
