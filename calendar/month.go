package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH - Structured ledger key
// =============================================================================

// MonthLayout is the wire format of a Month.
const MonthLayout = "2006-01"

// Month identifies a calendar month. Ledger maps are keyed by Month rather
// than free-form strings so a malformed key fails at parse time.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth builds a normalized Month (month 13 rolls into the next year).
func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, &ParseError{Kind: "month", Input: s, Err: ErrInvalidMonth}
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MustParseMonth is ParseMonth for literals.
func MustParseMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Month) IsZero() bool { return m.Year == 0 && m.Month == 0 }

// Start is the first day of the month.
func (m Month) Start() Date { return NewDate(m.Year, m.Month, 1) }

// End is the last day of the month.
func (m Month) End() Date { return NewDate(m.Year, m.Month+1, 1).AddDays(-1) }

func (m Month) AddMonths(n int) Month { return NewMonth(m.Year, m.Month+time.Month(n)) }
func (m Month) Next() Month           { return m.AddMonths(1) }

func (m Month) index() int { return m.Year*12 + int(m.Month) - 1 }

func (m Month) Before(other Month) bool        { return m.index() < other.index() }
func (m Month) After(other Month) bool         { return m.index() > other.index() }
func (m Month) BeforeOrEqual(other Month) bool { return m.index() <= other.index() }
func (m Month) AfterOrEqual(other Month) bool  { return m.index() >= other.index() }

// Contains reports whether the date falls in this month.
func (m Month) Contains(d Date) bool { return d.YearMonth() == m }

// Label is the human form used by ledger rows ("Mar 2025").
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Month.String()[:3], m.Year)
}

func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Month) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*m = Month{}
		return nil
	}
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
