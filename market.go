package folio

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// CloseColumn is the name of the closing price column in a market data frame.
const CloseColumn = "Close"

// DateColumn is the optional index column, aligned with array shaped columns.
const DateColumn = "Date"

// Shape describes how a raw market data result is laid out.
type Shape int

const (
	// ShapeUnknown is anything that is neither flat nor keyed: it yields no series.
	ShapeUnknown Shape = iota
	// ShapeFlat is a single frame of columns: {"Close": {...}, "Open": {...}}.
	ShapeFlat
	// ShapeKeyed is one frame per ticker: {"AAPL": {"Close": {...}}, "MSFT": {...}}.
	ShapeKeyed
)

func (s Shape) String() string {
	switch s {
	case ShapeFlat:
		return "flat"
	case ShapeKeyed:
		return "keyed"
	default:
		return "unknown"
	}
}

// MarketData is the raw result of a market data download, as untyped decoded JSON.
//
// It keeps the list of tickers that were requested, because a flat result can only be
// attributed to a ticker when a single one was requested.
type MarketData struct {
	tickers []string
	raw     any
}

// NewMarketData wraps a raw decoded JSON value downloaded for tickers.
func NewMarketData(tickers []string, raw any) *MarketData {
	requested := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = NormalizeTicker(t)
		if !slices.Contains(requested, t) {
			requested = append(requested, t)
		}
	}
	return &MarketData{tickers: requested, raw: raw}
}

// DecodeMarketData reads a raw JSON market data result downloaded for tickers.
func DecodeMarketData(tickers []string, r io.Reader) (*MarketData, error) {
	var raw any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("cannot decode market data: %w", err)
	}
	return NewMarketData(tickers, raw), nil
}

// Tickers returns the tickers the data was requested for.
func (m *MarketData) Tickers() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.tickers)
}

// Raw returns the underlying decoded JSON value.
func (m *MarketData) Raw() any {
	if m == nil {
		return nil
	}
	return m.raw
}

// isFrame reports whether v looks like a frame of columns (it has a Close column).
func isFrame(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, ok = obj[CloseColumn]
	return ok
}

// Shape detects the layout of the raw result.
func (m *MarketData) Shape() Shape {
	obj, ok := m.Raw().(map[string]any)
	if !ok || len(obj) == 0 {
		return ShapeUnknown
	}
	if isFrame(obj) {
		return ShapeFlat
	}
	for _, v := range obj {
		if _, ok := v.(map[string]any); ok {
			return ShapeKeyed
		}
	}
	return ShapeUnknown
}

// Lookup is the per-ticker capability check: it returns the frame stored under ticker in
// a keyed result.
func (m *MarketData) Lookup(ticker string) (map[string]any, bool) {
	obj, ok := m.Raw().(map[string]any)
	if !ok || isFrame(obj) {
		return nil, false
	}
	frame, ok := obj[ticker].(map[string]any)
	return frame, ok
}

// Frame returns the frame of columns holding ticker's data.
//
// A keyed result is looked up by ticker. A flat result is attributed to ticker only when
// ticker was the one and only ticker requested: with several tickers requested a flat
// result is ambiguous and yields nothing.
func (m *MarketData) Frame(ticker string) (map[string]any, bool) {
	ticker = NormalizeTicker(ticker)
	switch m.Shape() {
	case ShapeKeyed:
		return m.Lookup(ticker)
	case ShapeFlat:
		if len(m.tickers) == 1 && m.tickers[0] == ticker {
			return m.raw.(map[string]any), true
		}
	}
	return nil, false
}
