package folio

import (
	"math"
	"testing"

	"github.com/etnz/folio/date"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		tickers []string
		raw     string
		ticker  string
		want    map[string]float64 // nil for absent
	}{
		{
			name:    "flat single ticker",
			tickers: []string{"AAA"},
			raw:     `{"Open": {"2024-01-02": 1}, "Close": {"2024-01-02": 10, "2024-01-03": 11}}`,
			ticker:  "AAA",
			want:    map[string]float64{"2024-01-02": 10, "2024-01-03": 11},
		},
		{
			name:    "keyed multi ticker",
			tickers: []string{"AAA", "BBB"},
			raw:     `{"AAA": {"Close": {"2024-01-02": 10}}, "BBB": {"Close": {"2024-01-02": 20}}}`,
			ticker:  "BBB",
			want:    map[string]float64{"2024-01-02": 20},
		},
		{
			name:    "flat result with several tickers requested",
			tickers: []string{"AAA", "BBB"},
			raw:     `{"Close": {"2024-01-02": 10}}`,
			ticker:  "AAA",
			want:    nil,
		},
		{
			name:    "missing ticker in keyed result",
			tickers: []string{"AAA", "BBB"},
			raw:     `{"AAA": {"Close": {"2024-01-02": 10}}}`,
			ticker:  "BBB",
			want:    nil,
		},
		{
			name:    "missing close column",
			tickers: []string{"AAA", "BBB"},
			raw:     `{"AAA": {"Open": {"2024-01-02": 10}}, "BBB": {"Close": {"2024-01-02": 20}}}`,
			ticker:  "AAA",
			want:    nil,
		},
		{
			name:    "invalid values are dropped",
			tickers: []string{"AAA"},
			raw:     `{"Close": {"2024-01-01": null, "2024-01-02": "NaN", "2024-01-03": 0, "2024-01-04": -3, "2024-01-05": 12, "2024-01-08": "Infinity"}}`,
			ticker:  "AAA",
			want:    map[string]float64{"2024-01-05": 12},
		},
		{
			name:    "no valid value is absent",
			tickers: []string{"AAA"},
			raw:     `{"Close": {"2024-01-01": null, "2024-01-02": "NaN"}}`,
			ticker:  "AAA",
			want:    nil,
		},
		{
			name:    "singleton values are unwrapped",
			tickers: []string{"AAA"},
			raw:     `{"Close": {"2024-01-02": [120.5], "2024-01-03": {"AAA": 121}, "2024-01-04": [1, 2]}}`,
			ticker:  "AAA",
			want:    map[string]float64{"2024-01-02": 120.5, "2024-01-03": 121},
		},
		{
			name:    "numeric strings",
			tickers: []string{"AAA"},
			raw:     `{"Close": {"2024-01-02": " 42.5 "}}`,
			ticker:  "AAA",
			want:    map[string]float64{"2024-01-02": 42.5},
		},
		{
			name:    "epoch and date-time keys",
			tickers: []string{"AAA"},
			raw:     `{"Close": {"1704153600000": 10, "2024-01-03T00:00:00": 11}}`,
			ticker:  "AAA",
			want:    map[string]float64{"2024-01-02": 10, "2024-01-03": 11},
		},
		{
			name:    "latest intraday close wins",
			tickers: []string{"AAA"},
			raw:     `{"Close": {"2024-01-02T09:00:00": 10, "2024-01-02T16:00:00": 11, "2024-01-02T12:00:00": 12, "2024-01-03T10:00:00": 13}}`,
			ticker:  "AAA",
			want:    map[string]float64{"2024-01-02": 11, "2024-01-03": 13},
		},
		{
			name:    "compact date keys",
			tickers: []string{"AAA"},
			raw:     `{"Close": {"20240102": 10, "20240103": 11}}`,
			ticker:  "AAA",
			want:    map[string]float64{"2024-01-02": 10, "2024-01-03": 11},
		},
		{
			name:    "array column aligned with dates",
			tickers: []string{"AAA"},
			raw:     `{"Date": ["2024-01-02", "2024-01-03", 1704326400], "Close": [10, null, 12]}`,
			ticker:  "AAA",
			want:    map[string]float64{"2024-01-02": 10, "2024-01-04": 12},
		},
		{
			name:    "array column without dates",
			tickers: []string{"AAA"},
			raw:     `{"Close": [10, 11]}`,
			ticker:  "AAA",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(decode(t, tt.tickers, tt.raw), tt.ticker)
			if tt.want == nil {
				if ok {
					t.Fatalf("Normalize() = %v, want absent", got.Days())
				}
				return
			}
			if !ok {
				t.Fatalf("Normalize() is absent, want %v", tt.want)
			}
			if got.Len() != len(tt.want) {
				t.Errorf("Normalize() has %d entries, want %d: %v", got.Len(), len(tt.want), got.Days())
			}
			for d, want := range tt.want {
				if v, ok := got.Get(day(d)); !ok || v != want {
					t.Errorf("Normalize()[%s] = %v, %v, want %v", d, v, ok, want)
				}
			}
			// entries are strictly increasing by date
			days := got.Days()
			for i := 1; i < len(days); i++ {
				if !days[i-1].Before(days[i]) {
					t.Errorf("days are not strictly increasing: %v", days)
				}
			}
		})
	}
}

// TestNormalize_Deterministic checks that same day closes always resolve the same way,
// whatever the map iteration order.
func TestNormalize_Deterministic(t *testing.T) {
	raw := `{"Close": {"2024-01-02T09:00:00": 10, "2024-01-02T16:00:00": 11, "2024-01-02T12:00:00": 12, "2024-01-02 14:30": 14}}`
	m := decode(t, []string{"AAA"}, raw)
	for i := 0; i < 100; i++ {
		got, ok := Normalize(m, "AAA")
		if !ok {
			t.Fatalf("Normalize() is absent")
		}
		if _, v := got.Latest(); v != 11 {
			t.Fatalf("Normalize() latest close = %v at run %d, want 11", v, i)
		}
	}
}

func TestParseStamp(t *testing.T) {
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{"2024-01-02", "2024-01-02", true},
		{"2024-1-2", "2024-01-02", true},
		{"2024-01-02T16:00:00", "2024-01-02", true},
		{"2024-01-02T23:30:00-05:00", "2024-01-02", true},
		{"2024-01-02T09:00:00.000+0000", "2024-01-02", true},
		{"20240102", "2024-01-02", true},
		{" 20240102 ", "2024-01-02", true},
		{"1704153600000", "2024-01-02", true},
		{1704153600.0, "2024-01-02", true},
		{"2024/01/02", "", false},
		{"n/a", "", false},
		{nil, "", false},
		{-1.0, "", false},
	}
	for _, tt := range tests {
		at, ok := parseStamp(tt.in)
		if ok != tt.ok {
			t.Errorf("parseStamp(%v) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok {
			if got := date.Of(at).String(); got != tt.want {
				t.Errorf("parseStamp(%v) day = %v, want %v", tt.in, got, tt.want)
			}
		}
	}
}

func TestUnwrapScalar(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float", 1.5, 1.5, true},
		{"int", 3, 3, true},
		{"string", "2.25", 2.25, true},
		{"nan string", "NaN", math.NaN(), true},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"singleton array", []any{4.0}, 4, true},
		{"nested singleton", []any{[]any{"5"}}, 5, true},
		{"empty array", []any{}, 0, false},
		{"pair", []any{1.0, 2.0}, 0, false},
		{"singleton object", map[string]any{"x": 6.0}, 6, true},
		{"garbage", "n/a", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := unwrapScalar(tt.in)
			if ok != tt.ok {
				t.Fatalf("unwrapScalar(%v) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if math.IsNaN(tt.want) {
				if !math.IsNaN(got) {
					t.Errorf("unwrapScalar(%v) = %v, want NaN", tt.in, got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("unwrapScalar(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
