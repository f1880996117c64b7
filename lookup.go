package folio

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// ErrPriceNotFound is returned when an acquisition price cannot be looked up.
var ErrPriceNotFound = errors.New("price not found")

// Lookup finds security details a user does not have to type.
type Lookup interface {
	// Name returns the display name of ticker, or ticker itself.
	Name(ctx context.Context, ticker string) string
	// PriceOn returns the first close of ticker in the few days from on.
	PriceOn(ctx context.Context, ticker string, on date.Date) (float64, error)
}

// Acquisition describes a holding to add or update, as entered by a user.
type Acquisition struct {
	Ticker   string
	Quantity Quantity
	Price    Money     // price per unit, zero to look it up at Date
	Date     date.Date // acquisition day, zero for today
	Name     string    // display name, empty to look it up
}

// Resolve completes a into a Holding in currency: missing name and price are looked up.
//
// A price that cannot be found is an error, the user has to provide it.
func (a Acquisition) Resolve(ctx context.Context, lookup Lookup, currency string) (Holding, error) {
	ticker := NormalizeTicker(a.Ticker)
	if err := ValidateTicker(ticker); err != nil {
		return Holding{}, fmt.Errorf("%w: %w", ErrInvalidHolding, err)
	}
	on := a.Date
	if on.IsZero() {
		on = date.Today()
	}
	if on.After(date.Today()) {
		return Holding{}, fmt.Errorf("%w %s: acquisition date %s is in the future", ErrInvalidHolding, ticker, on)
	}

	price := a.Price.WithCurrency(currency)
	if !price.IsPositive() {
		p, err := lookup.PriceOn(ctx, ticker, on)
		if err != nil {
			return Holding{}, fmt.Errorf("%w for %s on %s, provide it: %w", ErrPriceNotFound, ticker, on, err)
		}
		price = Money{value: decimal.NewFromFloat(p), cur: currency}
	}
	name := a.Name
	if name == "" {
		name = lookup.Name(ctx, ticker)
	}
	return NewHolding(ticker, a.Quantity, price, on, name)
}
