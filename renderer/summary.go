package renderer

import (
	"slices"
	"time"

	"github.com/etnz/folio"
)

// Summary is the view of a refresh report: the dashboard metrics and one row per holding.
type Summary struct {
	FetchedAt   string
	Currency    string
	NetWorth    string
	CostBasis   string
	Gain        string
	GainPercent string
	Best        Performer // by absolute gain
	BestPercent Performer
	Worst       Performer // by absolute gain
	Rows        []Row
	Allocation  []Share // largest first
	Stale       []Row
	FetchError  string
}

// Performer is a holding standing out in the portfolio.
type Performer struct {
	Ticker      string
	Name        string
	Gain        string
	GainPercent string
}

// Row is the valuation of one holding.
type Row struct {
	Ticker           string
	Name             string
	Quantity         string
	AcquisitionPrice string
	AcquisitionDate  string
	Price            string
	PriceDate        string
	Source           string
	Value            string
	Gain             string
	GainPercent      string
	Allocation       string
}

// Share is the part of the net worth held in a holding.
type Share struct {
	Ticker  string
	Name    string
	Value   string
	Percent string
}

func newPerformer(r folio.ValuationRow) Performer {
	return Performer{
		Ticker:      r.Ticker,
		Name:        r.Name,
		Gain:        r.Gain.SignedString(),
		GainPercent: r.GainPercent.SignedString(),
	}
}

// NewSummary builds the view of a report.
func NewSummary(r *folio.Report) *Summary {
	s := r.Snapshot
	sum := &Summary{
		FetchedAt:   r.FetchedAt.Format(time.DateTime),
		Currency:    s.Currency(),
		NetWorth:    s.TotalValue.String(),
		CostBasis:   s.TotalCostBasis.String(),
		Gain:        s.TotalGain.SignedString(),
		GainPercent: s.TotalGainPercent.SignedString(),
		Best:        newPerformer(s.BestAbsolute),
		BestPercent: newPerformer(s.BestPercent),
		Worst:       newPerformer(s.WorstAbsolute),
	}
	if r.FetchErr != nil {
		sum.FetchError = r.FetchErr.Error()
	}

	rows := slices.Clone(s.Rows)
	for _, v := range rows {
		row := Row{
			Ticker:           v.Ticker,
			Name:             v.Name,
			Quantity:         v.Quantity.String(),
			AcquisitionPrice: v.AcquisitionPrice.String(),
			AcquisitionDate:  formatDay(v.AcquisitionDate),
			Price:            v.CurrentPrice.String(),
			Source:           v.Source.String(),
			Value:            v.CurrentValue.String(),
			Gain:             v.Gain.SignedString(),
			GainPercent:      v.GainPercent.SignedString(),
			Allocation:       s.Allocation(v.Ticker).String(),
		}
		row.PriceDate = formatDay(v.PriceDate)
		sum.Rows = append(sum.Rows, row)
		if v.Stale() {
			sum.Stale = append(sum.Stale, row)
		}
	}

	// largest first, zero valued holdings are not part of the allocation
	slices.SortStableFunc(rows, func(a, b folio.ValuationRow) int {
		return b.CurrentValue.Decimal().Cmp(a.CurrentValue.Decimal())
	})
	for _, v := range rows {
		if !v.CurrentValue.IsPositive() {
			continue
		}
		sum.Allocation = append(sum.Allocation, Share{
			Ticker:  v.Ticker,
			Name:    v.Name,
			Value:   v.CurrentValue.String(),
			Percent: s.Allocation(v.Ticker).String(),
		})
	}
	return sum
}
