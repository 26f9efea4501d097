/*
Package calendar provides the date primitives the qualification engine runs on.

PURPOSE:

	Flights are dated by calendar day, the XP ledger is bucketed by calendar
	month, and qualification cycles are date ranges. Wall-clock timestamps never
	enter the engine: "today" is always an injected Date.

KEY CONCEPTS:
  - Date:   A calendar day (UTC midnight, no time-of-day)
  - Month:  A structured (year, month) ledger key, rendered as YYYY-MM
  - Period: An inclusive [Start, End] date range (a cycle, a year)

SEE ALSO:
  - month.go: Month arithmetic and parsing
  - period.go: Anniversary and year-ending periods
*/
package calendar

import "time"

// =============================================================================
// DATE - A calendar day
// =============================================================================

// DateLayout is the wire format of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day. The zero value is "no date".
type Date struct {
	t time.Time
}

// NewDate builds a Date. Out-of-range values normalize like time.Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar day in the timestamp's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today reads the wall clock. Only the outer layers (API, scheduler) call it;
// the engine receives "today" as a parameter.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &ParseError{Kind: "date", Input: s, Err: ErrInvalidDate}
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for literals in tests and presets.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.t.After(other.t) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.t.Before(other.t) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{t: d.t.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int            { return d.t.Year() }
func (d Date) Month() time.Month    { return d.t.Month() }
func (d Date) Day() int             { return d.t.Day() }
func (d Date) IsZero() bool         { return d.t.IsZero() }
func (d Date) Time() time.Time      { return d.t }
func (d Date) YearMonth() Month     { return Month{Year: d.t.Year(), Month: d.t.Month()} }
func (d Date) IsFirstOfMonth() bool { return d.t.Day() == 1 }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalText renders the date as YYYY-MM-DD (empty for the zero value).
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts YYYY-MM-DD or an empty string.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MaxDate returns the later of two dates.
func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}
