/*
Package qualification implements the Qualification Cycle Engine.

PURPOSE:

	Turns a traveler's raw flight history and manual ledger adjustments into a
	month-by-month XP ledger, cuts that ledger into qualification cycles,
	carries capped surplus XP between cycles and detects status level-ups.

KEY CONCEPTS IN THIS FILE (types.go):
  - FlightRecord:     One flight leg (or round trip) with its XP already resolved
  - ManualMonthEntry: XP adjustments that do not come from flights
  - Settings:         Where the first cycle starts and with what status/balance
  - CabinClass:       Closed enum of cabin classes

ACTUAL VS PROJECTED:

	Every number exists on two tracks. "Actual" counts only flights dated
	before today (plus manual entries for months that have started). "Projected"
	additionally counts scheduled flights. Rollover and level-ups that close a
	cycle only ever use the actual track.

DESIGN PRINCIPLES:
 1. Pure: no I/O, no clock. "today" is an explicit input.
 2. Full recomputation: callers pass the whole history every time.
 3. Never fails on dirty data: bad records are skipped and reported as
    Warnings next to a best-effort result.
 4. Integral XP: XP is always an int.

SEE ALSO:
  - ledger.go: Monthly Ledger Builder
  - cycle.go: Qualification Cycle Segmenter
  - rollover.go: Rollover & Cap Engine
  - levelup.go: Level-Up Detector
  - stats.go: Multi-Year Stats Aggregator
  - engine.go: Engine facade
*/
package qualification

import (
	"fmt"
	"sort"
	"strings"

	"github.com/warp/xp-tracker/calendar"
)

// =============================================================================
// CABIN CLASS
// =============================================================================

type CabinClass int

const (
	CabinUnknown CabinClass = iota
	CabinEconomy
	CabinPremiumEconomy
	CabinBusiness
	CabinFirst
)

var cabinNames = map[CabinClass]string{
	CabinEconomy:        "economy",
	CabinPremiumEconomy: "premium_economy",
	CabinBusiness:       "business",
	CabinFirst:          "first",
}

// Cabins lists the valid cabin classes in ascending order.
func Cabins() []CabinClass {
	return []CabinClass{CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst}
}

func (c CabinClass) Valid() bool { _, ok := cabinNames[c]; return ok }

func (c CabinClass) String() string {
	if name, ok := cabinNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCabinClass accepts the canonical names plus the common spellings found
// in airline statements ("Premium Economy", "premium", "la premiere").
func ParseCabinClass(s string) (CabinClass, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	switch normalized {
	case "economy", "eco", "y":
		return CabinEconomy, nil
	case "premium_economy", "premium", "premiumeconomy", "w":
		return CabinPremiumEconomy, nil
	case "business", "j", "c":
		return CabinBusiness, nil
	case "first", "la_premiere", "f":
		return CabinFirst, nil
	}
	names := make([]string, 0, len(cabinNames))
	for _, c := range Cabins() {
		names = append(names, c.String())
	}
	return CabinUnknown, fmt.Errorf("unknown cabin class %q (want one of %s)", s, strings.Join(names, ", "))
}

func (c CabinClass) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText never fails: an unrecognized cabin decodes to CabinUnknown so
// the record reaches the engine and is reported as a data-quality warning.
func (c *CabinClass) UnmarshalText(b []byte) error {
	parsed, err := ParseCabinClass(string(b))
	if err != nil {
		*c = CabinUnknown
		return nil
	}
	*c = parsed
	return nil
}

// =============================================================================
// FLIGHT RECORD
// =============================================================================

// FlightRecord is one flight leg or round-trip entry. XP and SafXP are the
// values already produced by the point resolver; the engine never looks up
// routes itself.
type FlightRecord struct {
	ID           string     `json:"id"`
	Date         string     `json:"date"` // YYYY-MM-DD, kept raw so bad dates surface as warnings
	Route        string     `json:"route"`
	Airline      string     `json:"airline"`
	Cabin        CabinClass `json:"cabin"`
	XP           int        `json:"xp"`
	SafXP        int        `json:"saf_xp"`
	FlightNumber string     `json:"flight_number,omitempty"`
}

// =============================================================================
// MANUAL LEDGER
// =============================================================================

// ManualMonthEntry holds XP that did not come from a flight. Unset fields are
// zero. Correction is signed and reconciles the ledger against an official
// statement.
type ManualMonthEntry struct {
	CardSpendXP int `json:"card_spend_xp"`
	SafXP       int `json:"saf_xp"`
	MiscXP      int `json:"misc_xp"`
	Correction  int `json:"correction"`
}

// ManualLedger maps a month to its manual entry.
type ManualLedger map[calendar.Month]ManualMonthEntry

// ParseManualLedger converts string-keyed entries (as stored or sent over the
// wire) into a ManualLedger. Malformed keys are dropped with a warning.
func ParseManualLedger(raw map[string]ManualMonthEntry) (ManualLedger, []Warning) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ledger := make(ManualLedger, len(raw))
	var warnings []Warning
	for _, k := range keys {
		month, err := calendar.ParseMonth(k)
		if err != nil {
			warnings = append(warnings, Warning{
				Code:     WarnInvalidMonthKey,
				Message:  fmt.Sprintf("manual ledger key %q is not YYYY-MM; entry ignored", k),
				RecordID: k,
			})
			continue
		}
		ledger[month] = raw[k]
	}
	return ledger, warnings
}

// sortedMonths returns the ledger's months in chronological order.
func (l ManualLedger) sortedMonths() []calendar.Month {
	months := make([]calendar.Month, 0, len(l))
	for m := range l {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings describe how the first qualification cycle begins.
type Settings struct {
	// Status held when the first cycle starts.
	StartingStatus StatusLevel `json:"starting_status"`

	// First cycle start. Zero means "infer from the earliest activity".
	CycleStart calendar.Date `json:"cycle_start"`

	// XP carried into the first cycle.
	RolloverSeed int `json:"rollover_seed"`

	// Override replaces CycleStart and RolloverSeed with values taken from an
	// imported statement. Activity before Override.StartMonth is considered
	// already accounted for by RolloverXP.
	Override *CycleOverride `json:"override,omitempty"`
}

// CycleOverride is the "surplus XP" import path.
type CycleOverride struct {
	StartMonth calendar.Month `json:"start_month"`
	RolloverXP int            `json:"rollover_xp"`
}

// IsZero reports whether no settings were supplied at all.
func (s Settings) IsZero() bool {
	return s.StartingStatus == StatusExplorer && s.CycleStart.IsZero() && s.RolloverSeed == 0 && s.Override == nil
}
