package date

import "fmt"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// Trailing returns the range covering the given number of months up to 'to' included.
func Trailing(to Date, months int) Range {
	return Range{From: to.AddMonths(-months), To: to}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// Days returns the number of days in the range.
func (r Range) Days() int {
	if r.To.Before(r.From) {
		return 0
	}
	return int(r.To.time().Sub(r.From.time())/Day) + 1
}

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
