// Package period generates the monthly periods burndown charts are plotted on.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period describes one calendar month on a timeline.
type Period struct {
	DateKey    string `json:"dateKey"`    // YYYY-MM
	Label      string `json:"label"`      // "January 2026"
	ShortLabel string `json:"shortLabel"` // "Jan '26"
	Year       int    `json:"year"`
	Month      int    `json:"month"`
}

// YearMonth is a calendar month without a day component.
type YearMonth struct {
	Year  int
	Month int
}

// FromTime returns the month containing t.
func FromTime(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: int(t.Month())}
}

// Before reports whether y falls strictly before o.
func (y YearMonth) Before(o YearMonth) bool {
	if y.Year != o.Year {
		return y.Year < o.Year
	}
	return y.Month < o.Month
}

// Key returns the YYYY-MM form of the month.
func (y YearMonth) Key() string {
	return DateKey(y.Year, y.Month)
}

// Later returns whichever of y and o is later.
func (y YearMonth) Later(o YearMonth) YearMonth {
	if y.Before(o) {
		return o
	}
	return y
}

// DateKey formats a year and month as the zero-padded YYYY-MM key.
func DateKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// MakePeriod builds the descriptor for a calendar month.
func MakePeriod(year, month int) Period {
	m := time.Month(month)
	return Period{
		DateKey:    DateKey(year, month),
		Label:      fmt.Sprintf("%s %d", m.String(), year),
		ShortLabel: fmt.Sprintf("%s '%02d", m.String()[:3], year%100),
		Year:       year,
		Month:      month,
	}
}

// YearMonth returns the month the period describes.
func (p Period) YearMonth() YearMonth {
	return YearMonth{Year: p.Year, Month: p.Month}
}

// Clock supplies the current time. Production code uses SystemClock; tests
// pin "now" with FixedClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in the configured location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location != nil {
		return time.Now().In(c.Location)
	}
	return time.Now()
}

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// CurrentPeriod returns the period containing the clock's current time.
func CurrentPeriod(clock Clock) Period {
	now := clock.Now()
	return MakePeriod(now.Year(), int(now.Month()))
}

// MonthlyPeriods lists consecutive months from start to end inclusive. The
// result is empty when start falls after end.
func MonthlyPeriods(startYear, startMonth, endYear, endMonth int) []Period {
	var periods []Period
	y, m := startYear, startMonth
	for y < endYear || (y == endYear && m <= endMonth) {
		periods = append(periods, MakePeriod(y, m))
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return periods
}

// Between lists the periods from start to end inclusive.
func Between(start, end YearMonth) []Period {
	return MonthlyPeriods(start.Year, start.Month, end.Year, end.Month)
}

var monthsByName = func() map[string]int {
	m := make(map[string]int, 12)
	for i := 1; i <= 12; i++ {
		m[strings.ToLower(time.Month(i).String())] = i
	}
	return m
}()

// ParseTargetMonth parses free text of the form "<FullMonthName> <Year>",
// case-insensitively. It reports false for anything else.
func ParseTargetMonth(s string) (YearMonth, bool) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return YearMonth{}, false
	}
	month, ok := monthsByName[strings.ToLower(fields[0])]
	if !ok {
		return YearMonth{}, false
	}
	if len(fields[1]) != 4 {
		return YearMonth{}, false
	}
	year, err := strconv.Atoi(fields[1])
	if err != nil || year <= 0 {
		return YearMonth{}, false
	}
	return YearMonth{Year: year, Month: month}, true
}
