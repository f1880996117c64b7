package folio

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/etnz/folio/date"
)

// ErrInvalidHolding is returned when a holding breaks one of its invariants.
var ErrInvalidHolding = errors.New("invalid holding")

// tickerRegex accepts market symbols with exchange suffixes and markers: AAPL, 0700.HK, XAGEUR=X, ^GSPC, BRK-B.
var tickerRegex = regexp.MustCompile(`^\^?[A-Z0-9][A-Z0-9.=\-]{0,31}$`)

// NormalizeTicker returns the canonical form of a user supplied ticker.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// ValidateTicker checks that ticker is in its canonical form and looks like a market symbol.
func ValidateTicker(ticker string) error {
	if ticker == "" {
		return fmt.Errorf("invalid ticker: empty")
	}
	if ticker != NormalizeTicker(ticker) {
		return fmt.Errorf("invalid ticker %q: must be upper case with no surrounding spaces", ticker)
	}
	if !tickerRegex.MatchString(ticker) {
		return fmt.Errorf("invalid ticker %q: must be letters, digits and one of '.=-', optionally starting with '^'", ticker)
	}
	return nil
}

// Holding is one line of the portfolio: a quantity of an asset and its acquisition terms.
type Holding struct {
	Ticker           string
	Name             string // display name, defaults to the ticker
	Quantity         Quantity
	AcquisitionPrice Money // price per unit
	AcquisitionDate  date.Date
	LastKnownPrice   Money // most recent valid price observed, used when live data is unavailable
}

// NewHolding returns a validated Holding whose last known price is the acquisition price.
func NewHolding(ticker string, quantity Quantity, price Money, on date.Date, name string) (Holding, error) {
	ticker = NormalizeTicker(ticker)
	name = strings.TrimSpace(name)
	if name == "" {
		name = ticker
	}
	h := Holding{
		Ticker:           ticker,
		Name:             name,
		Quantity:         quantity,
		AcquisitionPrice: price,
		AcquisitionDate:  on,
		LastKnownPrice:   price,
	}
	if err := h.Validate(); err != nil {
		return Holding{}, err
	}
	return h, nil
}

// Validate checks the holding invariants.
func (h Holding) Validate() error {
	if err := ValidateTicker(h.Ticker); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHolding, err)
	}
	if !h.Quantity.IsPositive() {
		return fmt.Errorf("%w %s: quantity must be positive, got %v", ErrInvalidHolding, h.Ticker, h.Quantity)
	}
	if h.AcquisitionPrice.IsNegative() {
		return fmt.Errorf("%w %s: acquisition price must not be negative, got %v", ErrInvalidHolding, h.Ticker, h.AcquisitionPrice.Decimal())
	}
	if h.LastKnownPrice.IsNegative() {
		return fmt.Errorf("%w %s: last known price must not be negative, got %v", ErrInvalidHolding, h.Ticker, h.LastKnownPrice.Decimal())
	}
	if h.AcquisitionPrice.Currency() != h.LastKnownPrice.Currency() {
		return fmt.Errorf("%w %s: %w", ErrInvalidHolding, h.Ticker, ErrCurrencyMismatch)
	}
	return nil
}

// Currency returns the currency of the holding's prices.
func (h Holding) Currency() string { return h.AcquisitionPrice.Currency() }

// CostBasis returns the acquisition price times the quantity.
func (h Holding) CostBasis() Money { return h.AcquisitionPrice.Mul(h.Quantity) }
