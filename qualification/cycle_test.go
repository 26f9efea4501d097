package qualification_test

import (
	"math/rand"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/xp-tracker/qualification"
)

// =============================================================================
// CONCRETE SCENARIOS
// =============================================================================

func TestCompute_NoFlightsWithSeed(t *testing.T) {
	// GIVEN: Silver member, no flights, 40 XP carried in, cycle starts today
	// WHEN: Computing
	// THEN: One open cycle with cumulative 40, still Silver, no rows

	e := newEngine(t, qualification.DefaultProgram())
	result := e.Compute(qualification.Input{
		Settings: qualification.Settings{
			StartingStatus: qualification.StatusSilver,
			CycleStart:     day("2025-03-01"),
			RolloverSeed:   40,
		},
		Today: day("2025-03-01"),
	})

	require.Len(t, result.Cycles, 1)
	c := result.Cycles[0]
	assert.Equal(t, 40, c.ActualCumulative)
	assert.Equal(t, 40, c.ProjectedCumulative)
	assert.Empty(t, c.Rows)
	assert.Equal(t, qualification.StatusSilver, c.Progress.ActualStatus)
	assert.Equal(t, 140, c.Progress.ActualXPToNextThreshold, "Gold needs 180")
	assert.Equal(t, day("2026-02-28"), c.EndDate)
	assert.True(t, c.IsActive)
	assert.False(t, c.IsClosed)
	assert.Equal(t, qualification.StateAccumulating, c.State)
	assert.Empty(t, result.Warnings)
}

func TestCompute_ActualLevelUpChainsNextCycle(t *testing.T) {
	// GIVEN: Silver member with 25 XP rolled in, Gold at 50
	// WHEN: A past 30 XP flight takes the cycle to 55
	// THEN: The cycle closes that month at Gold and the next cycle chains the
	//       day after with 5 XP rolled over

	e := newEngine(t, compactLadder())
	result := e.Compute(qualification.Input{
		Flights: []qualification.FlightRecord{flight("f1", "2025-03-10", 30)},
		Settings: qualification.Settings{
			StartingStatus: qualification.StatusSilver,
			CycleStart:     day("2025-01-01"),
			RolloverSeed:   25,
		},
		Today: day("2025-04-15"),
	})

	require.Len(t, result.Cycles, 2)
	closed, next := result.Cycles[0], result.Cycles[1]

	assert.True(t, closed.EndedByLevelUp)
	assert.Equal(t, day("2025-03-31"), closed.EndDate)
	assert.Equal(t, qualification.StatusGold, closed.EndingStatus)
	assert.Equal(t, qualification.StatusGold, closed.Progress.ActualStatus)
	assert.Equal(t, 55, closed.ActualCumulative)
	require.NotNil(t, closed.LevelUpMonth)
	assert.Equal(t, month("2025-03"), *closed.LevelUpMonth)
	require.Len(t, closed.Rows, 1)
	assert.True(t, closed.Rows[0].HitThreshold)
	assert.Equal(t, 5, closed.RolloverOut)
	assert.Equal(t, qualification.StateThresholdReachedActual, closed.State)
	assert.True(t, closed.IsClosed)

	assert.Equal(t, day("2025-04-01"), next.StartDate)
	assert.Equal(t, qualification.OriginChained, next.Origin)
	assert.Equal(t, qualification.StatusGold, next.StartingStatus)
	assert.Equal(t, 5, next.RolloverIn)
	assert.True(t, next.IsActive)

	active, ok := result.ActiveCycle()
	require.True(t, ok)
	assert.Equal(t, 1, active.Index)
}

func TestCompute_LevelUpThisMonthReportsChainedCycle(t *testing.T) {
	// GIVEN: Silver member with 25 XP rolled in, Gold at 50
	// WHEN: A 30 XP flight earlier this month completes the level-up
	// THEN: The closed cycle still contains today, but the current cycle is
	//       the chained Gold cycle working toward Platinum from its rollover

	e := newEngine(t, compactLadder())
	result := e.Compute(qualification.Input{
		Flights: []qualification.FlightRecord{flight("f1", "2025-03-10", 30)},
		Settings: qualification.Settings{
			StartingStatus: qualification.StatusSilver,
			CycleStart:     day("2025-01-01"),
			RolloverSeed:   25,
		},
		Today: day("2025-03-20"),
	})

	require.Len(t, result.Cycles, 2)
	assert.True(t, result.Cycles[0].IsActive)
	assert.True(t, result.Cycles[0].IsClosed)

	current, ok := result.CurrentCycle()
	require.True(t, ok)
	assert.Equal(t, 1, current.Index)
	assert.Equal(t, day("2025-04-01"), current.StartDate)

	progress, ok := result.CurrentProgress()
	require.True(t, ok)
	assert.Equal(t, qualification.StatusGold, progress.ActualStatus)
	assert.Equal(t, qualification.StatusPlatinum, progress.ActualTarget)
	assert.Equal(t, 95, progress.ActualXPToNextThreshold)
}

func TestCompute_ProjectedCrossingDoesNotClose(t *testing.T) {
	// GIVEN: Silver member, Gold at 50, a flown 20 XP flight and a scheduled
	//        40 XP flight
	// WHEN: Computing before the scheduled flight
	// THEN: Actual stays Silver, projected reaches Gold on the scheduled month

	e := newEngine(t, compactLadder())
	result := e.Compute(qualification.Input{
		Flights: []qualification.FlightRecord{
			flight("f1", "2025-02-10", 20),
			flight("f2", "2025-05-20", 40),
		},
		Settings: qualification.Settings{
			StartingStatus: qualification.StatusSilver,
			CycleStart:     day("2025-01-01"),
		},
		Today: day("2025-03-15"),
	})

	require.Len(t, result.Cycles, 1)
	c := result.Cycles[0]
	require.Len(t, c.Rows, 2)

	assert.False(t, c.EndedByLevelUp)
	assert.Equal(t, day("2025-12-31"), c.EndDate)
	assert.Equal(t, day("2025-05-31"), c.ProjectedEndDate)
	assert.Equal(t, qualification.StatusSilver, c.Progress.ActualStatus)
	assert.Equal(t, qualification.StatusGold, c.Progress.ProjectedStatus)
	assert.Equal(t, 30, c.Progress.ActualXPToNextThreshold)
	assert.Equal(t, 40, c.Progress.ProjectedXPToNextThreshold, "Platinum at 100")

	assert.False(t, c.Rows[0].HitThreshold)
	assert.False(t, c.Rows[0].ProjectedHitThreshold)
	assert.False(t, c.Rows[1].HitThreshold)
	assert.True(t, c.Rows[1].ProjectedHitThreshold)
	assert.True(t, c.Rows[1].IsFuture)
	assert.False(t, c.Rows[1].IsFullyFlown)
	assert.True(t, c.Rows[0].IsFullyFlown)

	assert.Equal(t, qualification.StateThresholdReachedProjected, c.State)
	assert.True(t, c.ProjectedLevelUp)
	assert.Nil(t, c.LevelUpMonth)
	assert.Equal(t, 0, c.RolloverOut, "rollover ignores scheduled XP")
}

func TestCompute_NegativeCorrection(t *testing.T) {
	// GIVEN: 12 XP flown in January and a -10 correction in February
	// WHEN: Computing
	// THEN: February's delta is -10 and cumulative drops to 2

	e := newEngine(t, qualification.DefaultProgram())
	result := e.Compute(qualification.Input{
		Flights: []qualification.FlightRecord{flight("f1", "2025-01-12", 12)},
		Manual:  qualification.ManualLedger{month("2025-02"): {Correction: -10}},
		Settings: qualification.Settings{
			CycleStart: day("2025-01-01"),
		},
		Today: day("2025-03-01"),
	})

	require.Len(t, result.Cycles, 1)
	rows := result.Cycles[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, 12, rows[0].Cumulative)
	assert.Equal(t, -10, rows[1].Total)
	assert.Equal(t, 2, rows[1].Cumulative)
	assert.Equal(t, 2, rows[1].ActualCumulative)
}

func TestCompute_FutureCorrectionIsProjectedOnly(t *testing.T) {
	// GIVEN: 20 XP flown in March and a +20 correction booked for September
	// WHEN: Computing in May
	// THEN: The correction only lifts the projected track; no actual level-up,
	//       the cycle stays open and nothing rolls over

	e := newEngine(t, compactLadder())
	result := e.Compute(qualification.Input{
		Flights: []qualification.FlightRecord{flight("f1", "2025-03-10", 20)},
		Manual:  qualification.ManualLedger{month("2025-09"): {Correction: 20}},
		Today:   day("2025-05-15"),
	})

	require.Len(t, result.Cycles, 1)
	c := result.Cycles[0]
	assert.False(t, c.EndedByLevelUp)
	assert.False(t, c.IsClosed)
	assert.Equal(t, day("2026-02-28"), c.EndDate)
	assert.Equal(t, 20, c.ActualCumulative)
	assert.Equal(t, 40, c.ProjectedCumulative)
	assert.Equal(t, qualification.StatusExplorer, c.Progress.ActualStatus)
	assert.Equal(t, qualification.StatusSilver, c.Progress.ProjectedStatus)
	assert.Equal(t, 10, c.Progress.ActualXPToNextThreshold)
	assert.Equal(t, 0, c.RolloverOut)
	assert.Nil(t, c.LevelUpMonth)

	require.Len(t, c.Rows, 2)
	september := c.Rows[1]
	assert.Equal(t, month("2025-09"), september.Month)
	assert.Equal(t, 20, september.Correction)
	assert.Equal(t, 0, september.ActualXP)
	assert.Equal(t, 20, september.ScheduledXP)
	assert.False(t, september.HitThreshold)
	assert.True(t, september.ProjectedHitThreshold)
}

func TestCompute_NegativeCumulativeRollsOverZero(t *testing.T) {
	e := newEngine(t, qualification.DefaultProgram())
	result := e.Compute(qualification.Input{
		Flights: []qualification.FlightRecord{flight("f1", "2025-01-12", 12)},
		Manual:  qualification.ManualLedger{month("2025-02"): {Correction: -30}},
		Settings: qualification.Settings{
			CycleStart: day("2025-01-01"),
		},
		Today: day("2026-02-15"),
	})

	require.Len(t, result.Cycles, 2)
	assert.Equal(t, -18, result.Cycles[0].ActualCumulative)
	assert.Equal(t, 0, result.Cycles[0].RolloverOut)
	assert.Equal(t, 0, result.Cycles[1].RolloverIn)
	assert.Equal(t, qualification.StatusExplorer, result.Cycles[1].StartingStatus)
}

func TestCompute_ReanchorsLateCycleStart(t *testing.T) {
	// GIVEN: Settings say the cycle starts in June but a flight exists in March
	// WHEN: Computing
	// THEN: The cycle is re-anchored to March, the flight still counts and a
	//       warning is emitted

	e := newEngine(t, qualification.DefaultProgram())
	result := e.Compute(qualification.Input{
		Flights:  []qualification.FlightRecord{flight("f1", "2025-03-12", 50)},
		Settings: qualification.Settings{CycleStart: day("2025-06-01")},
		Today:    day("2025-07-01"),
	})

	require.Len(t, result.Cycles, 1)
	c := result.Cycles[0]
	assert.Equal(t, day("2025-03-01"), c.StartDate)
	assert.Equal(t, qualification.OriginReanchored, c.Origin)
	assert.Equal(t, 50, c.ActualXP)
	assert.Contains(t, warningCodes(result.Warnings), qualification.WarnCycleStartReanchored)
}

// =============================================================================
// CYCLE BOUNDARIES
// =============================================================================

func TestCompute_LevelUpWinsOverAnniversary(t *testing.T) {
	// GIVEN: A calendar-year cycle and the crossing flight in December
	// WHEN: Computing in January
	// THEN: The cycle is recorded as ended by level-up and the next one chains

	e := newEngine(t, qualification.DefaultProgram())
	result := e.Compute(qualification.Input{
		Flights:  []qualification.FlightRecord{flight("f1", "2025-12-10", 120)},
		Settings: qualification.Settings{CycleStart: day("2025-01-01")},
		Today:    day("2026-01-15"),
	})

	require.Len(t, result.Cycles, 2)
	assert.True(t, result.Cycles[0].EndedByLevelUp)
	assert.Equal(t, day("2025-12-31"), result.Cycles[0].EndDate)
	assert.Equal(t, qualification.OriginChained, result.Cycles[1].Origin)
	assert.Equal(t, qualification.StatusSilver, result.Cycles[1].StartingStatus)
	assert.Equal(t, 20, result.Cycles[1].RolloverIn)
}

func TestCompute_AnniversaryRequalification(t *testing.T) {
	tests := []struct {
		name        string
		held        qualification.StatusLevel
		xp          int
		requalified bool
		next        qualification.StatusLevel
		rollover    int
	}{
		{"platinum renewed with surplus", qualification.StatusPlatinum, 350, true, qualification.StatusPlatinum, 50},
		{"gold kept exactly", qualification.StatusGold, 180, true, qualification.StatusGold, 0},
		{"gold lost", qualification.StatusGold, 120, false, qualification.StatusSilver, 0},
		{"platinum lost to explorer", qualification.StatusPlatinum, 40, false, qualification.StatusExplorer, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, qualification.DefaultProgram())
			result := e.Compute(qualification.Input{
				Flights: []qualification.FlightRecord{flight("f1", "2025-02-01", tt.xp)},
				Settings: qualification.Settings{
					StartingStatus: tt.held,
					CycleStart:     day("2025-01-01"),
				},
				Today: day("2026-01-10"),
			})

			require.Len(t, result.Cycles, 2)
			first := result.Cycles[0]
			assert.False(t, first.EndedByLevelUp)
			assert.Equal(t, tt.requalified, first.Requalified)
			assert.Equal(t, tt.next, first.NextStatus)
			assert.Equal(t, tt.rollover, first.RolloverOut)
			assert.Equal(t, tt.next, result.Cycles[1].StartingStatus)
			assert.Equal(t, qualification.OriginAnniversary, result.Cycles[1].Origin)
		})
	}
}

func TestCompute_RolloverCapped(t *testing.T) {
	e := newEngine(t, qualification.DefaultProgram())
	result := e.Compute(qualification.Input{
		Flights:  []qualification.FlightRecord{flight("f1", "2025-02-01", 1_000_000)},
		Settings: qualification.Settings{CycleStart: day("2025-01-01")},
		Today:    day("2025-03-01"),
	})

	require.NotEmpty(t, result.Cycles)
	first := result.Cycles[0]
	assert.Equal(t, qualification.StatusPlatinum, first.EndingStatus)
	assert.Equal(t, qualification.DefaultRolloverCap, first.RolloverOut)
	assert.Equal(t, 1_000_000-300-qualification.DefaultRolloverCap, first.WastedXP)
}

func TestCompute_OverrideSeedsFirstCycle(t *testing.T) {
	// GIVEN: A statement import says the cycle started in April with 60 XP
	// WHEN: Flights exist before and after April
	// THEN: Earlier flights are excluded and the cycle starts with 60 XP

	e := newEngine(t, qualification.DefaultProgram())
	result := e.Compute(qualification.Input{
		Flights: []qualification.FlightRecord{
			flight("f1", "2025-02-01", 70),
			flight("f2", "2025-05-01", 30),
		},
		Settings: qualification.Settings{
			StartingStatus: qualification.StatusSilver,
			CycleStart:     day("2025-01-01"),
			RolloverSeed:   5,
			Override:       &qualification.CycleOverride{StartMonth: month("2025-04"), RolloverXP: 60},
		},
		Today: day("2025-06-01"),
	})

	require.Len(t, result.Cycles, 1)
	c := result.Cycles[0]
	assert.Equal(t, day("2025-04-01"), c.StartDate)
	assert.Equal(t, qualification.OriginOverride, c.Origin)
	assert.Equal(t, 60, c.RolloverIn)
	assert.Equal(t, 90, c.ActualCumulative)
	assert.Equal(t, []qualification.WarningCode{qualification.WarnActivityBeforeOverride}, warningCodes(result.Warnings))
}

func TestCompute_InferredStartAndSettingsWarnings(t *testing.T) {
	e := newEngine(t, compactLadder())
	result := e.Compute(qualification.Input{
		Flights: []qualification.FlightRecord{flight("f1", "2024-11-20", 10)},
		Settings: qualification.Settings{
			StartingStatus: qualification.StatusUltimate,
			RolloverSeed:   -20,
		},
		Today: day("2025-01-10"),
	})

	require.Len(t, result.Cycles, 1)
	c := result.Cycles[0]
	assert.Equal(t, day("2024-11-01"), c.StartDate)
	assert.Equal(t, qualification.OriginInferred, c.Origin)
	assert.Equal(t, qualification.StatusPlatinum, c.StartingStatus)
	assert.Equal(t, 0, c.RolloverIn)
	assert.ElementsMatch(t, []qualification.WarningCode{
		qualification.WarnStatusNotInProgram,
		qualification.WarnNegativeRollover,
	}, warningCodes(result.Warnings))
}

func TestCompute_CycleStartNormalized(t *testing.T) {
	e := newEngine(t, qualification.DefaultProgram())
	result := e.Compute(qualification.Input{
		Settings: qualification.Settings{
			StartingStatus: qualification.StatusGold,
			CycleStart:     day("2025-03-17"),
		},
		Today: day("2025-04-01"),
	})

	require.Len(t, result.Cycles, 1)
	assert.Equal(t, day("2025-03-01"), result.Cycles[0].StartDate)
	assert.Equal(t, []qualification.WarningCode{qualification.WarnCycleStartNormalized}, warningCodes(result.Warnings))
}

func TestCompute_EmptyInput(t *testing.T) {
	e := newEngine(t, qualification.DefaultProgram())
	result := e.Compute(qualification.Input{Today: day("2025-04-01")})

	assert.Empty(t, result.Cycles)
	assert.Empty(t, result.Years)
	assert.Empty(t, result.Warnings)
	_, ok := result.ActiveCycle()
	assert.False(t, ok)
	_, ok = result.CurrentProgress()
	assert.False(t, ok)
}

// =============================================================================
// PROPERTIES
// =============================================================================

func randomHistory(seed int64) []qualification.FlightRecord {
	rng := rand.New(rand.NewSource(seed))
	start := day("2022-01-01")
	var flights []qualification.FlightRecord
	for i := 0; i < 120; i++ {
		date := start.AddDays(rng.Intn(4 * 365))
		f := flight(string(rune('a'+i%26))+date.String(), date.String(), rng.Intn(90))
		f.SafXP = rng.Intn(3)
		flights = append(flights, f)
	}
	return flights
}

func TestCompute_Invariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		e := newEngine(t, qualification.DefaultProgram())
		result := e.Compute(qualification.Input{
			Flights: randomHistory(seed),
			Manual: qualification.ManualLedger{
				month("2023-05"): {Correction: -400},
				month("2025-11"): {CardSpendXP: 30, MiscXP: 12},
			},
			Settings: qualification.Settings{StartingStatus: qualification.StatusSilver, RolloverSeed: 10},
			Today:    day("2024-08-15"),
		})

		require.NotEmpty(t, result.Cycles)
		assert.Equal(t, 10, result.Cycles[0].RolloverIn)
		activeCount := 0
		for i, c := range result.Cycles {
			period := c.Period()
			assert.True(t, period.Valid())
			assert.GreaterOrEqual(t, c.RolloverOut, 0)
			assert.LessOrEqual(t, c.RolloverOut, qualification.DefaultRolloverCap)
			assert.GreaterOrEqual(t, c.EndingStatus, c.StartingStatus)
			assert.GreaterOrEqual(t, c.ProjectedStatus, c.EndingStatus)
			assert.GreaterOrEqual(t, c.Progress.ProjectedStatus, c.Progress.ActualStatus)
			assert.LessOrEqual(t, c.ActualCumulative, c.ProjectedCumulative)
			if c.IsActive {
				activeCount++
			}

			prev := c.RolloverIn
			for _, r := range c.Rows {
				assert.True(t, period.ContainsMonth(r.Month), "row %s outside cycle %s", r.Month, period)
				assert.LessOrEqual(t, r.ActualXP, r.ProjectedXP)
				assert.LessOrEqual(t, r.ActualCumulative, r.Cumulative)
				assert.Equal(t, prev+r.Total, r.Cumulative)
				prev = r.Cumulative
			}

			if i == 0 {
				continue
			}
			before := result.Cycles[i-1]
			assert.Equal(t, before.RolloverOut, c.RolloverIn)
			assert.Equal(t, before.EndDate.AddDays(1), c.StartDate)
		}
		assert.Equal(t, 1, activeCount)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	e := newEngine(t, qualification.DefaultProgram())
	in := qualification.Input{
		Flights:  randomHistory(7),
		Manual:   qualification.ManualLedger{month("2024-02"): {SafXP: 6}, month("2023-07"): {MiscXP: 4}},
		Settings: qualification.Settings{StartingStatus: qualification.StatusGold, CycleStart: day("2022-04-01")},
		Today:    day("2025-01-01"),
	}

	first, err := json.Marshal(e.Compute(in))
	require.NoError(t, err)
	second, err := json.Marshal(e.Compute(in))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	e := newEngine(t, qualification.DefaultProgram())
	override := &qualification.CycleOverride{StartMonth: month("2025-01"), RolloverXP: -5}
	flights := []qualification.FlightRecord{flight("f1", "2025-02-01", 10)}
	in := qualification.Input{
		Flights:  flights,
		Settings: qualification.Settings{Override: override, RolloverSeed: -1},
		Today:    day("2025-03-01"),
	}

	e.Compute(in)

	assert.Equal(t, -5, override.RolloverXP)
	assert.Equal(t, -1, in.Settings.RolloverSeed)
	assert.Equal(t, 10, flights[0].XP)
}

func TestNewEngine_RejectsBrokenLadder(t *testing.T) {
	p := qualification.DefaultProgram()
	p.Levels[2].Threshold = 90

	_, err := qualification.NewEngine(p)

	require.Error(t, err)
	assert.ErrorIs(t, err, qualification.ErrInvalidProgram)
	var programErr *qualification.ProgramError
	assert.ErrorAs(t, err, &programErr)
}

func TestDetectProgress_TopStatusRenewal(t *testing.T) {
	p := qualification.DefaultProgram()

	pr := p.DetectProgress(qualification.StatusPlatinum, 250, 320)

	assert.Equal(t, qualification.StatusPlatinum, pr.ActualStatus)
	assert.True(t, pr.Renewal)
	assert.Equal(t, 50, pr.ActualXPToNextThreshold)
	assert.Equal(t, 0, pr.ProjectedXPToNextThreshold)
	assert.Equal(t, 50, pr.XPToRetain)
	assert.Equal(t, "Platinum: 50 XP to renew", pr.Headline())

	renewed := p.DetectProgress(qualification.StatusPlatinum, 300, 300)
	assert.Equal(t, "Platinum: renewed", renewed.Headline())
}

func TestRollover(t *testing.T) {
	assert.Equal(t, 0, qualification.Rollover(90, 100, 300))
	assert.Equal(t, 25, qualification.Rollover(125, 100, 300))
	assert.Equal(t, 300, qualification.Rollover(9000, 100, 300))
	assert.Equal(t, 0, qualification.Rollover(9000, 100, 0))
	assert.Equal(t, 8600, qualification.Wasted(9000, 100, 300))
}
