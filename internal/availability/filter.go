package availability

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Date is a plain calendar date with no timezone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, errors.Wrap(err, "availability: parse date")
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func (d Date) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// OnLocalDate keeps the slots whose calendar date, seen in loc, equals
// date. Input order is preserved. Slots near midnight belong to the day
// of their local representation, not their UTC one, which is the whole
// point of passing loc instead of comparing UTC date strings.
func OnLocalDate(slots []time.Time, date Date, loc *time.Location) []time.Time {
	var out []time.Time
	for _, s := range slots {
		y, m, d := s.In(loc).Date()
		if y == date.Year && m == date.Month && d == date.Day {
			out = append(out, s)
		}
	}
	return out
}
