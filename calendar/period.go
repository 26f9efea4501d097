package calendar

import "time"

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is the inclusive range [Start, End].
//
// Examples:
//   - Qualification cycle: 2025-03-01 .. 2026-02-28
//   - Level-up shortened cycle: 2025-03-01 .. 2025-07-31
//   - Qualification year ending December: 2025-01-01 .. 2025-12-31
type Period struct {
	Start Date
	End   Date
}

// AnniversaryPeriod is the one-year window beginning at start: it ends one
// year minus one day later.
func AnniversaryPeriod(start Date) Period {
	return Period{Start: start, End: start.AddYears(1).AddDays(-1)}
}

// YearEnding is the twelve-month window that ends with endMonth of year.
func YearEnding(year int, endMonth time.Month) Period {
	last := Month{Year: year, Month: endMonth}
	return Period{Start: last.AddMonths(-11).Start(), End: last.End()}
}

// Contains returns true if the date is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// ContainsMonth returns true if the whole month falls inside the period's
// month span.
func (p Period) ContainsMonth(m Month) bool {
	return m.AfterOrEqual(p.Start.YearMonth()) && m.BeforeOrEqual(p.End.YearMonth())
}

// Months lists every month the period touches, in order.
func (p Period) Months() []Month {
	var months []Month
	for m := p.Start.YearMonth(); m.BeforeOrEqual(p.End.YearMonth()); m = m.Next() {
		months = append(months, m)
	}
	return months
}

// Valid reports whether End is not before Start.
func (p Period) Valid() bool { return !p.End.Before(p.Start) }

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
