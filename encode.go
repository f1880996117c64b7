package folio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/etnz/folio/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// This file persists a portfolio in a single human-readable JSON object, one entry per ticker:
//
//	{
//	  "AAPL": {"shares": 10, "buy_date": "2024-01-05", "buy_price": 100, "name": "Apple Inc.", "last_known_price": 120.5}
//	}
//
// Entries are kept in the portfolio order, so that the file stays diff friendly.

// jholding is the object stored for each ticker.
type jholding struct {
	Shares         json.Number `json:"shares"`
	BuyDate        string      `json:"buy_date"`
	BuyPrice       json.Number `json:"buy_price"`
	Name           string      `json:"name,omitempty"`
	LastKnownPrice json.Number `json:"last_known_price,omitempty"`
}

func parseDecimal(n json.Number, field string) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, n, err)
	}
	return d, nil
}

func (j jholding) holding(ticker, currency string) (Holding, error) {
	shares, err := parseDecimal(j.Shares, "shares")
	if err != nil {
		return Holding{}, err
	}
	buy, err := parseDecimal(j.BuyPrice, "buy_price")
	if err != nil {
		return Holding{}, err
	}
	last, err := parseDecimal(j.LastKnownPrice, "last_known_price")
	if err != nil {
		return Holding{}, err
	}
	var on date.Date
	if j.BuyDate != "" {
		if on, err = date.Parse(j.BuyDate); err != nil {
			return Holding{}, fmt.Errorf("invalid buy_date %q: %w", j.BuyDate, err)
		}
	}
	name := j.Name
	if name == "" {
		name = ticker
	}
	return Holding{
		Ticker:           ticker,
		Name:             name,
		Quantity:         Q(shares),
		AcquisitionPrice: M(buy, currency),
		AcquisitionDate:  on,
		LastKnownPrice:   M(last, currency),
	}, nil
}

func toJHolding(h Holding) jholding {
	j := jholding{
		Shares:   json.Number(h.Quantity.value.String()),
		BuyPrice: json.Number(h.AcquisitionPrice.value.String()),
		Name:     h.Name,
	}
	if !h.AcquisitionDate.IsZero() {
		j.BuyDate = h.AcquisitionDate.String()
	}
	if !h.LastKnownPrice.IsZero() {
		j.LastKnownPrice = json.Number(h.LastKnownPrice.value.String())
	}
	return j
}

// DecodePortfolio reads a portfolio in currency from r.
func DecodePortfolio(r io.Reader, currency string) (*Portfolio, error) {
	p := NewPortfolio(currency)
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err == io.EOF {
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expecting a JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		ticker := tok.(string) // object keys are always strings
		if p.Has(ticker) {
			return nil, fmt.Errorf("ticker %q is defined twice", ticker)
		}
		var j jholding
		if err := dec.Decode(&j); err != nil {
			return nil, fmt.Errorf("cannot read %q: %w", ticker, err)
		}
		h, err := j.holding(ticker, p.Currency())
		if err != nil {
			return nil, fmt.Errorf("cannot read %q: %w", ticker, err)
		}
		if err := p.Put(h); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodePortfolio writes p to w, one line per holding, in portfolio order.
func EncodePortfolio(w io.Writer, p *Portfolio) error {
	var buf bytes.Buffer
	buf.WriteString("{")
	i := 0
	for h := range p.Holdings() {
		key, err := json.Marshal(h.Ticker)
		if err != nil {
			return err
		}
		val, err := json.Marshal(toJHolding(h))
		if err != nil {
			return fmt.Errorf("cannot encode %q: %w", h.Ticker, err)
		}
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
		i++
	}
	if i > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// FileStore is a Store in a single JSON file.
type FileStore struct {
	path     string
	currency string
	log      zerolog.Logger
}

// NewFileStore returns a Store for the portfolio file at path, in currency.
func NewFileStore(path, currency string, log zerolog.Logger) *FileStore {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &FileStore{
		path:     path,
		currency: currency,
		log:      log.With().Str("component", "store").Str("path", path).Logger(),
	}
}

// Path returns the portfolio file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the portfolio file. A missing file is an empty portfolio.
func (s *FileStore) Load() (*Portfolio, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Warn().Msg("portfolio file does not exist, starting empty")
		return NewPortfolio(s.currency), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := DecodePortfolio(f, s.currency)
	if err != nil {
		return nil, fmt.Errorf("format error in %q: %w", s.path, err)
	}
	s.log.Debug().Int("holdings", p.Len()).Msg("portfolio loaded")
	return p, nil
}

// Save replaces the portfolio file with p.
//
// The file is written next to its destination then renamed, a reader never sees a
// partially written portfolio.
func (s *FileStore) Save(p *Portfolio) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := EncodePortfolio(tmp, p); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return err
	}
	s.log.Debug().Int("holdings", p.Len()).Msg("portfolio saved")
	return nil
}
