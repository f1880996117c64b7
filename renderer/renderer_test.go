package renderer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// outline parses markdown and returns its headings and the number of rows of each table.
func outline(t *testing.T, md string) (headings []string, tables []int) {
	t.Helper()
	if strings.HasPrefix(md, "error ") {
		t.Fatalf("rendering failed: %s", md)
	}
	source := []byte(md)
	parser := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	root := parser.Parse(text.NewReader(source))
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			var b strings.Builder
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					b.Write(txt.Segment.Value(source))
				}
			}
			headings = append(headings, b.String())
		case *extast.Table:
			rows := 0
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if _, ok := c.(*extast.TableRow); ok {
					rows++
				}
			}
			tables = append(tables, rows)
		}
		return ast.WalkContinue, nil
	})
	return headings, tables
}

func testReport(t *testing.T, fetchErr error) *folio.Report {
	t.Helper()
	p := folio.NewPortfolio("EUR")
	for _, h := range []struct {
		ticker string
		qty    float64
		price  float64
	}{{"AAPL", 10, 100}, {"MSFT", 2, 300}, {"GONE", 1, 50}} {
		hold, err := folio.NewHolding(h.ticker, folio.Q(h.qty), folio.M(h.price, "EUR"), date.New(2024, time.January, 2), "")
		if err != nil {
			t.Fatal(err)
		}
		if err := p.Put(hold); err != nil {
			t.Fatal(err)
		}
	}
	series := map[string]*date.History[float64]{
		"AAPL": new(date.History[float64]).
			Append(date.New(2024, time.June, 3), 110).
			Append(date.New(2024, time.June, 4), 120).
			Append(date.New(2024, time.June, 10), 125),
		"MSFT": new(date.History[float64]).Append(date.New(2024, time.June, 10), 280),
	}

	var rows []folio.ValuationRow
	for h := range p.Holdings() {
		row, _, _ := folio.Value(h, series[h.Ticker])
		rows = append(rows, row)
	}
	s, err := folio.Aggregate(rows)
	if err != nil {
		t.Fatal(err)
	}
	history, err := folio.ValueHistory(p, series)
	if err != nil {
		t.Fatal(err)
	}
	return &folio.Report{
		Snapshot:  s,
		History:   history,
		Degraded:  true,
		FetchErr:  fetchErr,
		FetchedAt: time.Date(2024, time.June, 10, 18, 0, 0, 0, time.UTC),
	}
}

func TestRenderSummary(t *testing.T) {
	sum := NewSummary(testReport(t, nil))
	md := RenderSummary(sum, SummaryRenderOptions{})

	headings, tables := outline(t, md)
	want := []string{"Portfolio on 2024-06-10 18:00:00", "Holdings", "Allocation"}
	if strings.Join(headings, "|") != strings.Join(want, "|") {
		t.Errorf("headings = %q, want %q", headings, want)
	}
	// metrics, one row per holding, one row per valued holding; header rows excluded
	if len(tables) != 3 || tables[0] != 6 || tables[1] != 3 || tables[2] != 3 {
		t.Errorf("table rows = %v, want [6 3 3]\n%s", tables, md)
	}
	if !strings.Contains(md, "Valued without live data: GONE (last-known)") {
		t.Errorf("stale holdings are not listed:\n%s", md)
	}
	if sum.Best.Ticker != "AAPL" || sum.Worst.Ticker != "MSFT" {
		t.Errorf("best, worst = %s, %s, want AAPL, MSFT", sum.Best.Ticker, sum.Worst.Ticker)
	}
	if sum.Allocation[0].Ticker != "AAPL" {
		t.Errorf("allocation starts with %s, want the largest holding AAPL", sum.Allocation[0].Ticker)
	}
}

func TestRenderSummary_Options(t *testing.T) {
	md := RenderSummary(NewSummary(testReport(t, errors.New("timeout"))), SummaryRenderOptions{SkipDetails: true, SkipAllocation: true})

	headings, tables := outline(t, md)
	if len(headings) != 1 || len(tables) != 1 {
		t.Errorf("headings, tables = %q, %v, want the title and the metrics only\n%s", headings, tables, md)
	}
	if !strings.Contains(md, "Market data unavailable") {
		t.Errorf("download failure is not reported:\n%s", md)
	}
}

func TestRenderHistory(t *testing.T) {
	r := testReport(t, nil)
	h := NewHistory(r.History, "EUR")
	md := RenderHistory(h)

	headings, tables := outline(t, md)
	if len(headings) != 2 || !strings.HasPrefix(headings[0], "Portfolio Value from 2024-06-03") {
		t.Errorf("headings = %q", headings)
	}
	// two weeks: ending on 2024-06-04 and on 2024-06-10
	if len(tables) != 2 || tables[1] != 2 {
		t.Errorf("table rows = %v, want [5 2]\n%s", tables, md)
	}
	if h.High.Date != "2024-06-10" || h.Low.Date != "2024-06-03" {
		t.Errorf("high, low = %v, %v", h.High, h.Low)
	}
}

func TestRenderHistory_Unavailable(t *testing.T) {
	md := RenderHistory(NewHistory(nil, "EUR"))
	headings, tables := outline(t, md)
	if len(headings) != 1 || len(tables) != 0 || !strings.Contains(md, "not available") {
		t.Errorf("unavailable history rendered as:\n%s", md)
	}
}

func TestRenderHoldings(t *testing.T) {
	p := folio.NewPortfolio("EUR")
	h, err := folio.NewHolding("AAPL", folio.Q(10), folio.M(100, "EUR"), date.Date{}, "Apple Inc.")
	if err != nil {
		t.Fatal(err)
	}
	p.Put(h)

	md := RenderHoldings(NewHoldings(p))
	_, tables := outline(t, md)
	if len(tables) != 1 || tables[0] != 1 {
		t.Errorf("table rows = %v, want [1]\n%s", tables, md)
	}
	if !strings.Contains(md, "| AAPL | Apple Inc. | 10 |") {
		t.Errorf("holding row is missing:\n%s", md)
	}
}

func TestRenderEmpty(t *testing.T) {
	headings, _ := outline(t, RenderEmpty())
	if len(headings) != 1 {
		t.Errorf("headings = %q, want one", headings)
	}
}
