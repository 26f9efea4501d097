package qualification

import (
	"fmt"
	"sort"

	"github.com/warp/xp-tracker/calendar"
)

// =============================================================================
// MONTHLY LEDGER BUILDER
// =============================================================================
//
// Every flight and manual entry is bucketed into the month it belongs to and
// split into an actual part (already flown / already booked) and a scheduled
// part. Months without activity are not materialized; the segmenter treats
// them as zero.

// Split is a quantity on the two tracks.
type Split struct {
	Actual    int `json:"actual"`
	Scheduled int `json:"scheduled"`
}

// Total is Actual + Scheduled.
func (s Split) Total() int { return s.Actual + s.Scheduled }

func (s *Split) add(n int, scheduled bool) {
	if scheduled {
		s.Scheduled += n
		return
	}
	s.Actual += n
}

// MonthActivity is the aggregated activity of one calendar month.
type MonthActivity struct {
	Month      calendar.Month `json:"month"`
	FlightXP   Split          `json:"flight_xp"`
	SafXP      Split          `json:"saf_xp"`   // flight SAF plus manual SAF
	BonusXP    Split          `json:"bonus_xp"` // card spend plus misc
	Correction Split          `json:"correction"`
	Flights    Split          `json:"flights"`
}

// Actual is the month's XP on the actual track.
func (a MonthActivity) Actual() int {
	return a.FlightXP.Actual + a.SafXP.Actual + a.BonusXP.Actual + a.Correction.Actual
}

func (a MonthActivity) Scheduled() int {
	return a.FlightXP.Scheduled + a.SafXP.Scheduled + a.BonusXP.Scheduled + a.Correction.Scheduled
}

// Projected is the month's XP on the projected track.
func (a MonthActivity) Projected() int { return a.Actual() + a.Scheduled() }

// Ledger is the chronological list of active months.
type Ledger struct {
	Months   []MonthActivity
	Warnings []Warning
}

// Earliest returns the first active month.
func (l Ledger) Earliest() (calendar.Month, bool) {
	if len(l.Months) == 0 {
		return calendar.Month{}, false
	}
	return l.Months[0].Month, true
}

// Latest returns the last active month.
func (l Ledger) Latest() (calendar.Month, bool) {
	if len(l.Months) == 0 {
		return calendar.Month{}, false
	}
	return l.Months[len(l.Months)-1].Month, true
}

// Lookup returns the activity of m, or a zero activity for m.
func (l Ledger) Lookup(m calendar.Month) MonthActivity {
	i := sort.Search(len(l.Months), func(i int) bool { return l.Months[i].Month.AfterOrEqual(m) })
	if i < len(l.Months) && l.Months[i].Month == m {
		return l.Months[i]
	}
	return MonthActivity{Month: m}
}

// From returns the months at or after m.
func (l Ledger) From(m calendar.Month) []MonthActivity {
	i := sort.Search(len(l.Months), func(i int) bool { return l.Months[i].Month.AfterOrEqual(m) })
	return l.Months[i:]
}

// BuildLedger aggregates flights and manual entries by month. A flight dated
// strictly before today is actual; one dated today or later is scheduled. A
// manual entry is scheduled while its month has not started yet, except for
// a negative correction, which always lands on the actual track so that
// actual never exceeds projected.
func BuildLedger(flights []FlightRecord, manual ManualLedger, today calendar.Date) Ledger {
	b := ledgerBuilder{
		today:  today,
		months: make(map[calendar.Month]*MonthActivity),
		seen:   make(map[string]bool),
	}
	for _, f := range flights {
		b.addFlight(f)
	}
	for _, m := range manual.sortedMonths() {
		b.addManual(m, manual[m])
	}
	return b.build()
}

type ledgerBuilder struct {
	today    calendar.Date
	months   map[calendar.Month]*MonthActivity
	seen     map[string]bool
	warnings []Warning
}

func (b *ledgerBuilder) month(m calendar.Month) *MonthActivity {
	a, ok := b.months[m]
	if !ok {
		a = &MonthActivity{Month: m}
		b.months[m] = a
	}
	return a
}

func (b *ledgerBuilder) warn(code WarningCode, id string, month calendar.Month, format string, args ...any) {
	b.warnings = append(b.warnings, Warning{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		RecordID: id,
		Month:    month,
	})
}

func (b *ledgerBuilder) addFlight(f FlightRecord) {
	date, err := calendar.ParseDate(f.Date)
	if err != nil {
		b.warn(WarnInvalidDate, f.ID, calendar.Month{}, "flight %s has unparseable date %q; skipped", f.Route, f.Date)
		return
	}
	month := date.YearMonth()
	if f.XP < 0 || f.SafXP < 0 {
		b.warn(WarnNegativeXP, f.ID, month, "flight %s on %s has negative XP (%d, saf %d); skipped", f.Route, f.Date, f.XP, f.SafXP)
		return
	}
	if !f.Cabin.Valid() {
		b.warn(WarnUnknownCabin, f.ID, month, "flight %s on %s has an unknown cabin class; skipped", f.Route, f.Date)
		return
	}
	if f.ID != "" {
		if b.seen[f.ID] {
			b.warn(WarnDuplicateFlight, f.ID, month, "flight id %s appears more than once; later copy skipped", f.ID)
			return
		}
		b.seen[f.ID] = true
	}

	scheduled := !date.Before(b.today)
	a := b.month(month)
	a.FlightXP.add(f.XP, scheduled)
	a.SafXP.add(f.SafXP, scheduled)
	a.Flights.add(1, scheduled)
}

func (b *ledgerBuilder) addManual(m calendar.Month, e ManualMonthEntry) {
	if e.CardSpendXP < 0 || e.SafXP < 0 || e.MiscXP < 0 {
		b.warn(WarnNegativeManualXP, m.String(), m, "manual entry for %s has negative XP (card %d, saf %d, misc %d); skipped",
			m, e.CardSpendXP, e.SafXP, e.MiscXP)
		return
	}

	scheduled := m.Start().After(b.today)
	a := b.month(m)
	a.BonusXP.add(e.CardSpendXP+e.MiscXP, scheduled)
	a.SafXP.add(e.SafXP, scheduled)
	a.Correction.add(e.Correction, scheduled && e.Correction > 0)
}

func (b *ledgerBuilder) build() Ledger {
	months := make([]MonthActivity, 0, len(b.months))
	for _, a := range b.months {
		months = append(months, *a)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month.Before(months[j].Month) })
	return Ledger{Months: months, Warnings: b.warnings}
}
