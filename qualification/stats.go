package qualification

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/xp-tracker/calendar"
)

// =============================================================================
// MULTI-YEAR STATS AGGREGATOR
// =============================================================================
//
// Reporting view only. Each "qualification year" is a fixed 12-month window
// ending in Program.YearEndMonth. Status still carries from one year to the
// next, but a level-up does not shift the window.

// YearSummary is one qualification year.
type YearSummary struct {
	Year   int             `json:"year"`
	Period calendar.Period `json:"period"`

	StartingStatus  StatusLevel `json:"starting_status"`
	EndingStatus    StatusLevel `json:"ending_status"`
	ProjectedStatus StatusLevel `json:"projected_status"`
	NextStatus      StatusLevel `json:"next_status"`
	Requalified     bool        `json:"requalified"`

	RolloverIn  int `json:"rollover_in"`
	ActualXP    int `json:"actual_xp"`
	ScheduledXP int `json:"scheduled_xp"`
	TotalXP     int `json:"total_xp"`
	RolloverOut int `json:"rollover_out"`
	WastedXP    int `json:"wasted_xp"`

	FlightXP Split `json:"flight_xp"`
	SafXP    Split `json:"saf_xp"`
	BonusXP  Split `json:"bonus_xp"`
	Flights  Split `json:"flights"`

	// Average flight XP per flight, both tracks.
	XPPerFlight decimal.Decimal `json:"xp_per_flight"`

	// RolloverOut as a percentage of the rollover cap.
	CapUtilization decimal.Decimal `json:"cap_utilization"`

	IsCurrent bool `json:"is_current"`
	IsFuture  bool `json:"is_future"`
}

// LifetimeStats sums every qualification year.
type LifetimeStats struct {
	Years            int             `json:"years"`
	ActualXP         int             `json:"actual_xp"`
	ScheduledXP      int             `json:"scheduled_xp"`
	Flights          Split           `json:"flights"`
	RolloverCarried  int             `json:"rollover_carried"`
	WastedXP         int             `json:"wasted_xp"`
	HighestStatus    StatusLevel     `json:"highest_status"`
	BestYear         int             `json:"best_year"`
	BestYearXP       int             `json:"best_year_xp"`
	AverageXPPerYear decimal.Decimal `json:"average_xp_per_year"`
	XPPerFlight      decimal.Decimal `json:"xp_per_flight"`
}

// YearOf is the qualification year a month is reported in.
func (p Program) YearOf(m calendar.Month) int {
	if m.Month <= p.YearEndMonth {
		return m.Year
	}
	return m.Year + 1
}

// AggregateYears builds one summary per qualification year, from the year of
// the first activity through the later of the last activity and today.
func (p Program) AggregateYears(ledger Ledger, settings Settings, today calendar.Date) []YearSummary {
	earliest, ok := ledger.Earliest()
	if !ok {
		return nil
	}
	latest, _ := ledger.Latest()
	first := p.YearOf(earliest)
	last := max(p.YearOf(latest), p.YearOf(today.YearMonth()))

	status := settings.StartingStatus
	rollover := settings.RolloverSeed
	years := make([]YearSummary, 0, last-first+1)
	for y := first; y <= last; y++ {
		ys := p.summarizeYear(ledger, y, status, rollover, today)
		years = append(years, ys)
		status, rollover = ys.NextStatus, ys.RolloverOut
	}
	return years
}

func (p Program) summarizeYear(ledger Ledger, year int, held StatusLevel, rolloverIn int, today calendar.Date) YearSummary {
	period := calendar.YearEnding(year, p.YearEndMonth)
	ys := YearSummary{
		Year:           year,
		Period:         period,
		StartingStatus: held,
		RolloverIn:     rolloverIn,
		IsCurrent:      period.Contains(today),
		IsFuture:       period.Start.After(today),
	}
	for _, m := range period.Months() {
		a := ledger.Lookup(m)
		ys.ActualXP += a.Actual()
		ys.ScheduledXP += a.Scheduled()
		ys.FlightXP = addSplit(ys.FlightXP, a.FlightXP)
		ys.SafXP = addSplit(ys.SafXP, a.SafXP)
		ys.BonusXP = addSplit(ys.BonusXP, a.BonusXP)
		ys.Flights = addSplit(ys.Flights, a.Flights)
	}
	ys.TotalXP = ys.ActualXP + ys.ScheduledXP

	actualCum := rolloverIn + ys.ActualXP
	reached := p.StatusFor(actualCum)
	leveledUp := reached > held
	ys.EndingStatus = max(held, reached)
	ys.ProjectedStatus = max(ys.EndingStatus, p.StatusFor(rolloverIn+ys.TotalXP))

	base := p.closingThreshold(held, ys.EndingStatus, leveledUp)
	ys.RolloverOut = Rollover(actualCum, base, p.RolloverCap)
	ys.WastedXP = Wasted(actualCum, base, p.RolloverCap)

	if leveledUp || actualCum >= p.RetainThreshold(held) {
		ys.Requalified = true
		ys.NextStatus = ys.EndingStatus
	} else {
		ys.NextStatus = reached
	}

	ys.XPPerFlight = ratio(ys.FlightXP.Total(), ys.Flights.Total(), 2)
	ys.CapUtilization = percent(ys.RolloverOut, p.RolloverCap)
	return ys
}

// SummarizeLifetime folds yearly summaries into lifetime totals.
func SummarizeLifetime(years []YearSummary) LifetimeStats {
	var lt LifetimeStats
	flightXP := 0
	for _, y := range years {
		lt.Years++
		lt.ActualXP += y.ActualXP
		lt.ScheduledXP += y.ScheduledXP
		lt.Flights = addSplit(lt.Flights, y.Flights)
		lt.WastedXP += y.WastedXP
		lt.HighestStatus = max(lt.HighestStatus, y.EndingStatus)
		flightXP += y.FlightXP.Total()
		if !y.IsFuture {
			lt.RolloverCarried += y.RolloverOut
		}
		if y.ActualXP > lt.BestYearXP {
			lt.BestYear, lt.BestYearXP = y.Year, y.ActualXP
		}
	}
	lt.AverageXPPerYear = ratio(lt.ActualXP, lt.Years, 1)
	lt.XPPerFlight = ratio(flightXP, lt.Flights.Total(), 2)
	return lt
}

func addSplit(a, b Split) Split {
	return Split{Actual: a.Actual + b.Actual, Scheduled: a.Scheduled + b.Scheduled}
}

func ratio(num, den int, places int32) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(num)).DivRound(decimal.NewFromInt(int64(den)), places)
}

func percent(part, whole int) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part*100)).DivRound(decimal.NewFromInt(int64(whole)), 1)
}

// yearEndOrDefault keeps zero-valued programs usable for reporting.
func yearEndOrDefault(m time.Month) time.Month {
	if m == 0 {
		return time.December
	}
	return m
}
