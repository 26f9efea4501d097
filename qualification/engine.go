package qualification

import (
	"fmt"

	"github.com/warp/xp-tracker/calendar"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine runs the full pipeline for one Program. It holds no state besides
// the program and is safe for concurrent use.
type Engine struct {
	program Program
}

// NewEngine validates p. A zero YearEndMonth defaults to December.
func NewEngine(p Program) (*Engine, error) {
	p.YearEndMonth = yearEndOrDefault(p.YearEndMonth)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	levels := make([]LevelRule, len(p.Levels))
	copy(levels, p.Levels)
	p.Levels = levels
	return &Engine{program: p}, nil
}

func (e *Engine) Program() Program { return e.program }

// Input is the complete history of one traveler. Today splits actual from
// scheduled activity and must be supplied by the caller.
type Input struct {
	Flights  []FlightRecord
	Manual   ManualLedger
	Settings Settings
	Today    calendar.Date
}

// Result is everything derived from an Input. It is only valid for the Today
// it was computed with.
type Result struct {
	Today    calendar.Date   `json:"today"`
	Program  string          `json:"program"`
	Months   []MonthActivity `json:"months"`
	Cycles   []Cycle         `json:"cycles"`
	Years    []YearSummary   `json:"years"`
	Lifetime LifetimeStats   `json:"lifetime"`
	Warnings []Warning       `json:"warnings"`
}

// ActiveCycle is the cycle whose date range contains Today.
func (r Result) ActiveCycle() (Cycle, bool) {
	for _, c := range r.Cycles {
		if c.IsActive {
			return c, true
		}
	}
	return Cycle{}, false
}

// CurrentCycle is the cycle status views report on: the active cycle, or the
// cycle chained after it when a level-up in Today's month already closed it.
// Falls back to the last cycle when Today lies outside every cycle.
func (r Result) CurrentCycle() (Cycle, bool) {
	if len(r.Cycles) == 0 {
		return Cycle{}, false
	}
	c, ok := r.ActiveCycle()
	if !ok {
		return r.Cycles[len(r.Cycles)-1], true
	}
	if c.IsClosed && c.Index+1 < len(r.Cycles) {
		return r.Cycles[c.Index+1], true
	}
	return c, true
}

// CurrentProgress is the progress of CurrentCycle.
func (r Result) CurrentProgress() (StatusProgress, bool) {
	c, ok := r.CurrentCycle()
	return c.Progress, ok
}

// Compute runs ledger building, segmentation, rollover, level-up detection
// and yearly aggregation. It never fails: data problems are returned as
// warnings next to a best-effort result.
func (e *Engine) Compute(in Input) Result {
	ledger := BuildLedger(in.Flights, in.Manual, in.Today)
	settings, settingWarnings := e.normalizeSettings(in.Settings)
	cycles, cycleWarnings := e.program.Segment(ledger, settings, in.Today)
	years := e.program.AggregateYears(ledger, settings, in.Today)

	warnings := make([]Warning, 0, len(ledger.Warnings)+len(settingWarnings)+len(cycleWarnings))
	warnings = append(warnings, ledger.Warnings...)
	warnings = append(warnings, settingWarnings...)
	warnings = append(warnings, cycleWarnings...)

	if cycles == nil {
		cycles = []Cycle{}
	}
	if years == nil {
		years = []YearSummary{}
	}
	return Result{
		Today:    in.Today,
		Program:  e.program.Name,
		Months:   ledger.Months,
		Cycles:   cycles,
		Years:    years,
		Lifetime: SummarizeLifetime(years),
		Warnings: warnings,
	}
}

// YearlyStats is Compute restricted to the reporting view.
func (e *Engine) YearlyStats(in Input) ([]YearSummary, LifetimeStats, []Warning) {
	r := e.Compute(in)
	return r.Years, r.Lifetime, r.Warnings
}

// normalizeSettings clamps settings onto the program. The input is not
// modified.
func (e *Engine) normalizeSettings(s Settings) (Settings, []Warning) {
	var warnings []Warning
	out := s

	if !e.program.Has(s.StartingStatus) {
		out.StartingStatus = e.program.Clamp(s.StartingStatus)
		warnings = append(warnings, Warning{
			Code: WarnStatusNotInProgram,
			Message: fmt.Sprintf("starting status %s is not part of %s; using %s",
				s.StartingStatus, e.program.Name, out.StartingStatus),
		})
	}

	if s.RolloverSeed < 0 {
		out.RolloverSeed = 0
		warnings = append(warnings, Warning{
			Code:    WarnNegativeRollover,
			Message: fmt.Sprintf("rollover seed %d is negative; clamped to 0", s.RolloverSeed),
		})
	}

	if !s.CycleStart.IsZero() && !s.CycleStart.IsFirstOfMonth() {
		out.CycleStart = s.CycleStart.YearMonth().Start()
		warnings = append(warnings, Warning{
			Code:    WarnCycleStartNormalized,
			Month:   s.CycleStart.YearMonth(),
			Message: fmt.Sprintf("cycle start %s moved to the first of the month (%s)", s.CycleStart, out.CycleStart),
		})
	}

	if s.Override != nil {
		override := *s.Override
		if override.RolloverXP < 0 {
			warnings = append(warnings, Warning{
				Code:    WarnNegativeRollover,
				Month:   override.StartMonth,
				Message: fmt.Sprintf("imported rollover %d is negative; clamped to 0", override.RolloverXP),
			})
			override.RolloverXP = 0
		}
		out.Override = &override
	}
	return out, warnings
}
