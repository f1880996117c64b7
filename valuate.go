package folio

import (
	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// PriceSource tells where the current price of a valuation row comes from.
type PriceSource int

const (
	// PriceNone means no price was available: the holding is valued at zero.
	PriceNone PriceSource = iota
	// PriceLive is the latest close of the freshly fetched series.
	PriceLive
	// PriceLastKnown is the fallback on the holding's last known price.
	PriceLastKnown
)

func (s PriceSource) String() string {
	switch s {
	case PriceLive:
		return "live"
	case PriceLastKnown:
		return "last-known"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s PriceSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ValuationRow is the valuation of one holding for one refresh cycle. It is never persisted.
type ValuationRow struct {
	Ticker           string      `json:"ticker"`
	Name             string      `json:"name"`
	Quantity         Quantity    `json:"quantity"`
	AcquisitionPrice Money       `json:"acquisitionPrice"`
	AcquisitionDate  date.Date   `json:"acquisitionDate"`
	CurrentPrice     Money       `json:"currentPrice"`
	PriceDate        date.Date   `json:"priceDate,omitzero"` // day of the live close, zero on fallback
	Source           PriceSource `json:"source"`
	CurrentValue     Money       `json:"currentValue"` // CurrentPrice × Quantity
	CostBasis        Money       `json:"costBasis"`    // AcquisitionPrice × Quantity
	Gain             Money       `json:"gain"`         // CurrentValue − CostBasis
	GainPercent      Percent     `json:"gainPercent"`  // Gain / CostBasis × 100, 0 when CostBasis is 0
}

// Stale reports whether the row was not valued from live data.
func (r ValuationRow) Stale() bool { return r.Source != PriceLive }

// Value computes the valuation row of h against its normalized price series.
//
// The latest entry of the series is the current price when it is valid; it also yields
// an update directive when it differs from h's last known price. Otherwise the last known
// price is used, and when that is not available either the holding is valued at zero.
func Value(h Holding, series *date.History[float64]) (row ValuationRow, update UpdateDirective, updated bool) {
	cur := h.Currency()
	row = ValuationRow{
		Ticker:           h.Ticker,
		Name:             h.Name,
		Quantity:         h.Quantity,
		AcquisitionPrice: h.AcquisitionPrice,
		AcquisitionDate:  h.AcquisitionDate,
		CurrentPrice:     M(0, cur),
		Source:           PriceNone,
	}

	if on, latest := series.Latest(); series.Len() > 0 && validPrice(latest) {
		row.CurrentPrice = Money{value: decimal.NewFromFloat(latest), cur: cur}
		row.PriceDate = on
		row.Source = PriceLive
		update, updated = Reconcile(h, latest)
	} else if h.LastKnownPrice.IsPositive() {
		row.CurrentPrice = h.LastKnownPrice
		row.Source = PriceLastKnown
	}

	row.CurrentValue = row.CurrentPrice.Mul(h.Quantity)
	row.CostBasis = h.CostBasis()
	row.Gain = row.CurrentValue.Sub(row.CostBasis)
	row.GainPercent = percentOf(row.Gain, row.CostBasis)
	return row, update, updated
}
