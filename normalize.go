package folio

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/folio/date"
)

// Normalize extracts ticker's closing price series from raw market data.
//
// It returns false (absent) when the data has no frame for ticker, the frame has no
// Close column, or no value of the column is a valid price. Invalid entries (missing,
// NaN, zero or negative prices, undated values) are dropped, so the latest entry of a
// returned series is always a valid price.
func Normalize(m *MarketData, ticker string) (*date.History[float64], bool) {
	frame, ok := m.Frame(ticker)
	if !ok {
		return nil, false
	}
	column, err := jsonpath.Get(fmt.Sprintf("$[%q]", CloseColumn), frame)
	if err != nil {
		return nil, false
	}

	var points []point
	switch col := column.(type) {
	case map[string]any:
		// {"2024-01-02": 12.3, ...}
		for key, v := range col {
			at, ok := parseStamp(key)
			if !ok {
				continue
			}
			if price, ok := unwrapScalar(v); ok && validPrice(price) {
				points = append(points, point{at: at, key: key, price: price})
			}
		}
	case []any:
		// [12.3, ...] aligned with a Date column.
		days, ok := frame[DateColumn].([]any)
		if !ok || len(days) != len(col) {
			return nil, false
		}
		for i, v := range col {
			at, ok := parseStamp(days[i])
			if !ok {
				continue
			}
			if price, ok := unwrapScalar(v); ok && validPrice(price) {
				points = append(points, point{at: at, price: price})
			}
		}
	}

	// Several closes on the same day: the latest one wins.
	slices.SortStableFunc(points, func(a, b point) int {
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})
	series := new(date.History[float64])
	for _, pt := range points {
		series.Append(date.Of(pt.at), pt.price)
	}
	if series.Len() == 0 {
		return nil, false
	}
	return series, true
}

// point is a dated close read from a column.
type point struct {
	at    time.Time
	key   string
	price float64
}

// validPrice reports whether p can be used as a price.
func validPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p > 0
}

// unwrapScalar converts a raw price value into a float64.
//
// Providers sometimes wrap a single price into a one element array or object; such
// singletons are collapsed into their only value. Strings are parsed, null and anything
// else is reported missing.
func unwrapScalar(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case []any:
		if len(x) != 1 {
			return 0, false
		}
		return unwrapScalar(x[0])
	case map[string]any:
		if len(x) != 1 {
			return 0, false
		}
		for _, only := range x {
			return unwrapScalar(only)
		}
	}
	return 0, false
}

// compactDateFormat is the all-digits date layout, as in "20240102".
const compactDateFormat = "20060102"

// dateTimeLayouts are the date-time layouts read in date columns.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseStamp reads a timestamp from a date string, a date-time string, a compact date,
// or an epoch timestamp (milliseconds when large enough, seconds otherwise).
//
// A date-time keeps its own offset, so that its day is the market's day.
func parseStamp(v any) (time.Time, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if len(s) == len(compactDateFormat) && strings.Trim(s, "0123456789") == "" {
			t, err := time.Parse(compactDateFormat, s)
			return t, err == nil
		}
		if len(s) >= 8 && strings.Contains(s, "-") {
			for _, layout := range dateTimeLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return t, true
				}
			}
			if i := strings.IndexAny(s, "T "); i > 0 {
				s = s[:i]
			}
			on, err := date.Parse(s)
			if err != nil {
				return time.Time{}, false
			}
			return time.Unix(on.Unix(), 0).UTC(), true
		}
	}
	epoch, ok := unwrapScalar(v)
	if !ok || math.IsNaN(epoch) || math.IsInf(epoch, 0) || epoch <= 0 {
		return time.Time{}, false
	}
	if epoch > 1e11 {
		return time.UnixMilli(int64(epoch)).UTC(), true
	}
	return time.Unix(int64(epoch), 0).UTC(), true
}
