package renderer

import (
	"fmt"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

// History is the view of the value of the portfolio over time.
type History struct {
	Available     bool
	Currency      string
	From, To      string
	Start, End    string
	Change        string
	ChangePercent string
	High, Low     Point
	Points        []Point // one per week, the last day of the week
}

// Point is the value of the portfolio on a day.
type Point struct {
	Date  string
	Value string
}

// NewHistory builds the view of the value history h in currency. A nil h is unavailable.
func NewHistory(h *date.History[float64], currency string) *History {
	v := &History{Currency: currency}
	if h.Len() == 0 {
		return v
	}
	v.Available = true
	money := func(f float64) string { return folio.M(f, currency).String() }

	first, start := h.First()
	last, end := h.Latest()
	v.From, v.To = first.String(), last.String()
	v.Start, v.End = money(start), money(end)
	change := folio.M(end, currency).Sub(folio.M(start, currency))
	v.Change = change.SignedString()
	v.ChangePercent = "-"
	if start > 0 {
		v.ChangePercent = fmt.Sprintf("%+.2f%%", (end-start)/start*100)
	}

	var high, low float64
	var highDay, lowDay date.Date
	var weekDay date.Date
	var weekValue float64
	for on, value := range h.Values() {
		if highDay.IsZero() || value > high {
			high, highDay = value, on
		}
		if lowDay.IsZero() || value < low {
			low, lowDay = value, on
		}
		if !weekDay.IsZero() && !sameWeek(weekDay, on) {
			v.Points = append(v.Points, Point{Date: weekDay.String(), Value: money(weekValue)})
		}
		weekDay, weekValue = on, value
	}
	v.Points = append(v.Points, Point{Date: weekDay.String(), Value: money(weekValue)})
	v.High = Point{Date: highDay.String(), Value: money(high)}
	v.Low = Point{Date: lowDay.String(), Value: money(low)}
	return v
}

func sameWeek(a, b date.Date) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}
