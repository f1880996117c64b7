package renderer

import (
	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

// Holdings is the view of the stored portfolio.
type Holdings struct {
	Currency string
	Rows     []Row // only the stored fields are set
}

// NewHoldings builds the view of p.
func NewHoldings(p *folio.Portfolio) *Holdings {
	v := &Holdings{Currency: p.Currency()}
	for h := range p.Holdings() {
		v.Rows = append(v.Rows, Row{
			Ticker:           h.Ticker,
			Name:             h.Name,
			Quantity:         h.Quantity.String(),
			AcquisitionPrice: h.AcquisitionPrice.String(),
			AcquisitionDate:  formatDay(h.AcquisitionDate),
			Price:            h.LastKnownPrice.String(),
		})
	}
	return v
}

// formatDay renders an unknown day as a dash.
func formatDay(d date.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}
