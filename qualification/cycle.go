package qualification

import (
	"fmt"

	"github.com/warp/xp-tracker/calendar"
)

// =============================================================================
// QUALIFICATION CYCLE SEGMENTER
// =============================================================================
//
// A cycle starts on the first of a month and ends at the earlier of:
//   - its anniversary (start + 1 year - 1 day), or
//   - the end of the month in which actual cumulative XP first earns a
//     status above the one held at cycle start.
//
// A level-up close chains the next cycle on the first of the following month
// at the new status. The projected track is evaluated alongside but never
// closes a cycle.

type CycleState string

const (
	StateAccumulating              CycleState = "accumulating"
	StateThresholdReachedProjected CycleState = "threshold_reached_projected"
	StateThresholdReachedActual    CycleState = "threshold_reached_actual"
)

// CycleOrigin records how a cycle's start date was decided.
type CycleOrigin string

const (
	OriginSettings    CycleOrigin = "settings"
	OriginOverride    CycleOrigin = "override"
	OriginInferred    CycleOrigin = "inferred"
	OriginReanchored  CycleOrigin = "reanchored"
	OriginAnniversary CycleOrigin = "anniversary"
	OriginChained     CycleOrigin = "chained"
)

// LedgerRow is one month inside a cycle.
type LedgerRow struct {
	Month       calendar.Month `json:"month"`
	Label       string         `json:"label"`
	ActualXP    int            `json:"actual_xp"`
	ScheduledXP int            `json:"scheduled_xp"`
	ProjectedXP int            `json:"projected_xp"` // ActualXP + ScheduledXP

	// Total is the month delta applied to Cumulative. It can be negative when
	// a correction outweighs the month's earnings.
	Total            int `json:"total"`
	Cumulative       int `json:"cumulative"`
	ActualCumulative int `json:"actual_cumulative"`

	FlightXP   Split `json:"flight_xp"`
	SafXP      Split `json:"saf_xp"`
	BonusXP    Split `json:"bonus_xp"`
	Correction int   `json:"correction"`
	Flights    Split `json:"flights"`

	IsFuture              bool `json:"is_future"`
	IsFullyFlown          bool `json:"is_fully_flown"`
	HitThreshold          bool `json:"hit_threshold"`
	ProjectedHitThreshold bool `json:"projected_hit_threshold"`
}

// Cycle is one segmented qualification cycle.
type Cycle struct {
	Index  int         `json:"index"`
	Origin CycleOrigin `json:"origin"`

	StartDate        calendar.Date `json:"start_date"`
	EndDate          calendar.Date `json:"end_date"`
	ProjectedEndDate calendar.Date `json:"projected_end_date"`

	StartingStatus  StatusLevel `json:"starting_status"`
	EndingStatus    StatusLevel `json:"ending_status"`
	ProjectedStatus StatusLevel `json:"projected_status"`
	NextStatus      StatusLevel `json:"next_status"`

	RolloverIn  int `json:"rollover_in"`
	RolloverOut int `json:"rollover_out"`
	WastedXP    int `json:"wasted_xp"`

	ActualXP            int `json:"actual_xp"`
	ScheduledXP         int `json:"scheduled_xp"`
	ActualCumulative    int `json:"actual_cumulative"`
	ProjectedCumulative int `json:"projected_cumulative"`

	Rows []LedgerRow `json:"rows"`

	EndedByLevelUp        bool            `json:"ended_by_level_up"`
	ProjectedLevelUp      bool            `json:"projected_level_up"`
	LevelUpMonth          *calendar.Month `json:"level_up_month,omitempty"`
	ProjectedLevelUpMonth *calendar.Month `json:"projected_level_up_month,omitempty"`
	Requalified           bool            `json:"requalified"`

	State    CycleState     `json:"state"`
	IsActive bool           `json:"is_active"`
	IsClosed bool           `json:"is_closed"`
	Progress StatusProgress `json:"progress"`
}

// Period is the cycle's actual date range.
func (c Cycle) Period() calendar.Period {
	return calendar.Period{Start: c.StartDate, End: c.EndDate}
}

// Contains reports whether d falls inside the cycle.
func (c Cycle) Contains(d calendar.Date) bool { return c.Period().Contains(d) }

// cycleSeed is everything needed to open a cycle.
type cycleSeed struct {
	start      calendar.Date
	status     StatusLevel
	rolloverIn int
	origin     CycleOrigin
}

type segmenter struct {
	program  Program
	today    calendar.Date
	months   []MonthActivity
	pos      int
	warnings []Warning
}

// Segment partitions the ledger into chained cycles. Settings must already be
// normalized (see Engine.normalizeSettings).
func (p Program) Segment(ledger Ledger, settings Settings, today calendar.Date) ([]Cycle, []Warning) {
	s := &segmenter{program: p, today: today}
	seed, ok := s.firstSeed(ledger, settings)
	if !ok {
		return nil, s.warnings
	}

	s.months = ledger.From(seed.start.YearMonth())
	horizon := today
	if latest, ok := ledger.Latest(); ok {
		horizon = calendar.MaxDate(horizon, latest.End())
	}

	var cycles []Cycle
	for {
		c := s.build(seed)
		c.Index = len(cycles)
		cycles = append(cycles, c)
		if !c.EndedByLevelUp && !c.EndDate.Before(horizon) {
			break
		}
		seed = cycleSeed{
			start:      c.EndDate.AddDays(1),
			status:     c.NextStatus,
			rolloverIn: c.RolloverOut,
			origin:     OriginAnniversary,
		}
		if c.EndedByLevelUp {
			seed.origin = OriginChained
		}
	}
	return cycles, s.warnings
}

// firstSeed decides where the first cycle starts. Precedence: override,
// configured start (re-anchored if activity predates it), earliest activity,
// today's month when only a status or seed was configured.
func (s *segmenter) firstSeed(ledger Ledger, settings Settings) (cycleSeed, bool) {
	seed := cycleSeed{status: settings.StartingStatus, rolloverIn: settings.RolloverSeed}
	earliest, hasActivity := ledger.Earliest()

	switch {
	case settings.Override != nil:
		seed.start = settings.Override.StartMonth.Start()
		seed.rolloverIn = settings.Override.RolloverXP
		seed.origin = OriginOverride
		if hasActivity && earliest.Before(settings.Override.StartMonth) {
			excluded := len(ledger.Months) - len(ledger.From(settings.Override.StartMonth))
			s.warnings = append(s.warnings, Warning{
				Code:  WarnActivityBeforeOverride,
				Month: earliest,
				Message: fmt.Sprintf("%d month(s) of activity before %s are covered by the imported rollover and excluded",
					excluded, settings.Override.StartMonth),
			})
		}

	case !settings.CycleStart.IsZero():
		seed.start = settings.CycleStart
		seed.origin = OriginSettings
		if hasActivity && earliest.Before(settings.CycleStart.YearMonth()) {
			seed.start = earliest.Start()
			seed.origin = OriginReanchored
			s.warnings = append(s.warnings, Warning{
				Code:  WarnCycleStartReanchored,
				Month: earliest,
				Message: fmt.Sprintf("configured cycle start %s is after the earliest activity in %s; cycle re-anchored to %s",
					settings.CycleStart, earliest, seed.start),
			})
		}

	case hasActivity:
		seed.start = earliest.Start()
		seed.origin = OriginInferred

	case !settings.IsZero():
		seed.start = s.today.YearMonth().Start()
		seed.origin = OriginInferred

	default:
		return cycleSeed{}, false
	}
	return seed, true
}

func (s *segmenter) build(seed cycleSeed) Cycle {
	anniversary := calendar.AnniversaryPeriod(seed.start)
	c := Cycle{
		Origin:           seed.origin,
		StartDate:        seed.start,
		EndDate:          anniversary.End,
		ProjectedEndDate: anniversary.End,
		StartingStatus:   seed.status,
		EndingStatus:     seed.status,
		ProjectedStatus:  seed.status,
		RolloverIn:       seed.rolloverIn,
		Rows:             []LedgerRow{},
	}

	actualCum, projectedCum := seed.rolloverIn, seed.rolloverIn
	lastMonth := anniversary.End.YearMonth()
	for s.pos < len(s.months) && s.months[s.pos].Month.BeforeOrEqual(lastMonth) {
		a := s.months[s.pos]
		s.pos++

		actualCum += a.Actual()
		projectedCum += a.Projected()
		c.ActualXP += a.Actual()
		c.ScheduledXP += a.Scheduled()
		row := s.row(a, actualCum, projectedCum)

		if reached := s.program.StatusFor(projectedCum); reached > c.ProjectedStatus {
			if c.ProjectedLevelUpMonth == nil {
				m := a.Month
				row.ProjectedHitThreshold = true
				c.ProjectedLevelUp = true
				c.ProjectedLevelUpMonth = &m
				c.ProjectedEndDate = m.End()
			}
			c.ProjectedStatus = reached
		}

		if reached := s.program.StatusFor(actualCum); reached > c.StartingStatus {
			m := a.Month
			row.HitThreshold = true
			c.Rows = append(c.Rows, row)
			c.EndedByLevelUp = true
			c.LevelUpMonth = &m
			c.EndDate = m.End()
			c.EndingStatus = reached
			break
		}
		c.Rows = append(c.Rows, row)
	}

	c.ActualCumulative = actualCum
	c.ProjectedCumulative = projectedCum
	s.close(&c)
	return c
}

func (s *segmenter) row(a MonthActivity, actualCum, projectedCum int) LedgerRow {
	return LedgerRow{
		Month:            a.Month,
		Label:            a.Month.Label(),
		ActualXP:         a.Actual(),
		ScheduledXP:      a.Scheduled(),
		ProjectedXP:      a.Projected(),
		Total:            a.Projected(),
		Cumulative:       projectedCum,
		ActualCumulative: actualCum,
		FlightXP:         a.FlightXP,
		SafXP:            a.SafXP,
		BonusXP:          a.BonusXP,
		Correction:       a.Correction.Total(),
		Flights:          a.Flights,
		IsFuture:         a.Month.Start().After(s.today),
		IsFullyFlown:     a.Flights.Scheduled == 0 && !a.Month.Start().After(s.today),
	}
}

// close fills the closing decision: rollover, requalification and state.
func (s *segmenter) close(c *Cycle) {
	p := s.program
	base := p.closingThreshold(c.StartingStatus, c.EndingStatus, c.EndedByLevelUp)
	c.RolloverOut = Rollover(c.ActualCumulative, base, p.RolloverCap)
	c.WastedXP = Wasted(c.ActualCumulative, base, p.RolloverCap)

	switch {
	case c.EndedByLevelUp:
		c.Requalified = true
		c.NextStatus = c.EndingStatus
	case c.ActualCumulative >= p.RetainThreshold(c.StartingStatus):
		c.Requalified = true
		c.NextStatus = max(c.StartingStatus, p.StatusFor(c.ActualCumulative))
	default:
		c.NextStatus = p.StatusFor(c.ActualCumulative)
	}

	if c.ProjectedStatus < c.EndingStatus {
		c.ProjectedStatus = c.EndingStatus
	}

	switch {
	case c.EndedByLevelUp:
		c.State = StateThresholdReachedActual
	case c.ProjectedStatus > c.StartingStatus:
		c.State = StateThresholdReachedProjected
	default:
		c.State = StateAccumulating
	}

	c.IsActive = c.Contains(s.today)
	c.IsClosed = c.EndedByLevelUp || c.EndDate.Before(s.today)
	c.Progress = p.DetectProgress(c.StartingStatus, c.ActualCumulative, c.ProjectedCumulative)
}
