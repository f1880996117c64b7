package folio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UpdateDirective is an instruction to persist a new last known price for a holding.
//
// It is a pure value: applying it is the job of Portfolio.Apply and of the Store.
type UpdateDirective struct {
	Ticker string
	Price  Money
}

func (d UpdateDirective) String() string {
	return fmt.Sprintf("%s last known price %v", d.Ticker, d.Price.Decimal())
}

// Reconcile returns the directive to update h's last known price to observed.
//
// A directive is emitted only when observed is a valid price (finite and positive) that
// differs from the stored last known price.
func Reconcile(h Holding, observed float64) (UpdateDirective, bool) {
	if !validPrice(observed) {
		return UpdateDirective{}, false
	}
	price := Money{value: decimal.NewFromFloat(observed), cur: h.Currency()}
	if h.LastKnownPrice.Equal(price) {
		return UpdateDirective{}, false
	}
	return UpdateDirective{Ticker: h.Ticker, Price: price}, true
}
