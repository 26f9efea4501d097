// Package historytest holds the behavioral contract every history.Store
// implementation must satisfy.
package historytest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/xp-tracker/calendar"
	"github.com/warp/xp-tracker/history"
	"github.com/warp/xp-tracker/qualification"
)

// RunStoreContract exercises a fresh store returned by newStore for each
// subtest.
func RunStoreContract(t *testing.T, newStore func(t *testing.T) history.Store) {
	t.Run("traveler round trip", func(t *testing.T) { testTravelerRoundTrip(t, newStore(t)) })
	t.Run("traveler validation", func(t *testing.T) { testTravelerValidation(t, newStore(t)) })
	t.Run("flights ordered and replaced", func(t *testing.T) { testFlights(t, newStore(t)) })
	t.Run("import is atomic", func(t *testing.T) { testImport(t, newStore(t)) })
	t.Run("manual ledger", func(t *testing.T) { testManual(t, newStore(t)) })
	t.Run("snapshots one per day", func(t *testing.T) { testSnapshots(t, newStore(t)) })
	t.Run("delete traveler cascades", func(t *testing.T) { testDeleteCascade(t, newStore(t)) })
	t.Run("load input", func(t *testing.T) { testLoadInput(t, newStore(t)) })
	t.Run("reset", func(t *testing.T) { testReset(t, newStore(t)) })
}

func seedTraveler(t *testing.T, s history.Store, id string) history.Traveler {
	t.Helper()
	tr := history.Traveler{
		ID:          id,
		Name:        "Traveler " + id,
		HomeAirport: "CDG",
		Settings: qualification.Settings{
			StartingStatus: qualification.StatusGold,
			CycleStart:     calendar.MustParseDate("2025-03-01"),
			RolloverSeed:   40,
			Override:       &qualification.CycleOverride{StartMonth: calendar.MustParseMonth("2025-04"), RolloverXP: 12},
		},
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, s.SaveTraveler(context.Background(), tr))
	return tr
}

func fl(id, date string, xp int) qualification.FlightRecord {
	return qualification.FlightRecord{
		ID: id, Date: date, Route: "AMS-JFK", Airline: "KL",
		Cabin: qualification.CabinBusiness, XP: xp, SafXP: 1, FlightNumber: "KL641",
	}
}

func testTravelerRoundTrip(t *testing.T, s history.Store) {
	ctx := context.Background()
	want := seedTraveler(t, s, "t1")

	got, err := s.GetTraveler(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.HomeAirport, got.HomeAirport)
	assert.Equal(t, want.Settings, got.Settings)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))

	got.Name = "Renamed"
	got.Settings.Override = nil
	require.NoError(t, s.SaveTraveler(ctx, *got))
	again, err := s.GetTraveler(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", again.Name)
	assert.Nil(t, again.Settings.Override)

	seedTraveler(t, s, "t0")
	all, err := s.ListTravelers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.GetTraveler(ctx, "missing")
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func testTravelerValidation(t *testing.T, s history.Store) {
	err := s.SaveTraveler(context.Background(), history.Traveler{ID: "x"})
	assert.ErrorIs(t, err, history.ErrInvalidTraveler)
}

func testFlights(t *testing.T, s history.Store) {
	ctx := context.Background()
	seedTraveler(t, s, "t1")

	require.NoError(t, s.SaveFlight(ctx, "t1", fl("b", "2025-05-01", 30)))
	require.NoError(t, s.SaveFlight(ctx, "t1", fl("a", "2025-05-01", 20)))
	require.NoError(t, s.SaveFlight(ctx, "t1", fl("c", "2025-04-01", 10)))
	require.NoError(t, s.SaveFlight(ctx, "t1", fl("b", "2025-05-01", 35)))

	flights, err := s.ListFlights(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, flights, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{flights[0].ID, flights[1].ID, flights[2].ID})
	assert.Equal(t, 35, flights[2].XP)
	assert.Equal(t, fl("c", "2025-04-01", 10), flights[0])

	require.NoError(t, s.DeleteFlight(ctx, "t1", "a"))
	assert.ErrorIs(t, s.DeleteFlight(ctx, "t1", "a"), history.ErrNotFound)

	assert.ErrorIs(t, s.SaveFlight(ctx, "nobody", fl("z", "2025-01-01", 1)), history.ErrNotFound)
}

func testImport(t *testing.T, s history.Store) {
	ctx := context.Background()
	seedTraveler(t, s, "t1")

	batch := []qualification.FlightRecord{fl("1", "2025-01-10", 5), fl("2", "2025-01-11", 5)}
	require.NoError(t, s.ImportFlights(ctx, "t1", batch))
	flights, err := s.ListFlights(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, flights, 2)

	err = s.ImportFlights(ctx, "nobody", batch)
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func testManual(t *testing.T, s history.Store) {
	ctx := context.Background()
	seedTraveler(t, s, "t1")
	march := calendar.MustParseMonth("2025-03")

	require.NoError(t, s.SaveManualEntry(ctx, "t1", march, qualification.ManualMonthEntry{CardSpendXP: 5, Correction: -2}))
	require.NoError(t, s.SaveManualEntry(ctx, "t1", march, qualification.ManualMonthEntry{CardSpendXP: 6, Correction: -3}))
	require.NoError(t, s.SaveManualEntry(ctx, "t1", march.Next(), qualification.ManualMonthEntry{SafXP: 2, MiscXP: 1}))

	ledger, err := s.ListManualEntries(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, qualification.ManualLedger{
		march:        {CardSpendXP: 6, Correction: -3},
		march.Next(): {SafXP: 2, MiscXP: 1},
	}, ledger)

	require.NoError(t, s.DeleteManualEntry(ctx, "t1", march))
	assert.ErrorIs(t, s.DeleteManualEntry(ctx, "t1", march), history.ErrNotFound)
}

func testSnapshots(t *testing.T, s history.Store) {
	ctx := context.Background()
	seedTraveler(t, s, "t1")

	latest, err := s.LatestSnapshot(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, latest)

	snap := func(id, day string, xp int) history.StatusSnapshot {
		return history.StatusSnapshot{
			ID: id, TravelerID: "t1", TakenOn: calendar.MustParseDate(day),
			ActualStatus: qualification.StatusGold, ProjectedStatus: qualification.StatusPlatinum,
			ActualXP: xp, ProjectedXP: xp + 50,
			CycleStart: calendar.MustParseDate("2025-03-01"), CycleEnd: calendar.MustParseDate("2026-02-28"),
			CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	require.NoError(t, s.SaveSnapshot(ctx, snap("s2", "2025-06-02", 120)))
	require.NoError(t, s.SaveSnapshot(ctx, snap("s1", "2025-06-01", 100)))
	require.NoError(t, s.SaveSnapshot(ctx, snap("s3", "2025-06-02", 130)))

	all, err := s.ListSnapshots(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 100, all[0].ActualXP)
	assert.Equal(t, 130, all[1].ActualXP)
	assert.Equal(t, qualification.StatusPlatinum, all[1].ProjectedStatus)

	latest, err = s.LatestSnapshot(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, calendar.MustParseDate("2025-06-02"), latest.TakenOn)
}

func testDeleteCascade(t *testing.T, s history.Store) {
	ctx := context.Background()
	seedTraveler(t, s, "t1")
	require.NoError(t, s.SaveFlight(ctx, "t1", fl("a", "2025-05-01", 20)))

	require.NoError(t, s.DeleteTraveler(ctx, "t1"))
	_, err := s.ListFlights(ctx, "t1")
	assert.ErrorIs(t, err, history.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTraveler(ctx, "t1"), history.ErrNotFound)
}

func testLoadInput(t *testing.T, s history.Store) {
	ctx := context.Background()
	tr := seedTraveler(t, s, "t1")
	require.NoError(t, s.SaveFlight(ctx, "t1", fl("a", "2025-05-01", 20)))
	require.NoError(t, s.SaveManualEntry(ctx, "t1", calendar.MustParseMonth("2025-05"), qualification.ManualMonthEntry{MiscXP: 3}))

	today := calendar.MustParseDate("2025-06-10")
	in, err := history.LoadInput(ctx, s, "t1", today)
	require.NoError(t, err)
	assert.Len(t, in.Flights, 1)
	assert.Len(t, in.Manual, 1)
	assert.Equal(t, tr.Settings, in.Settings)
	assert.Equal(t, today, in.Today)

	_, err = history.LoadInput(ctx, s, "nobody", today)
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func testReset(t *testing.T, s history.Store) {
	ctx := context.Background()
	seedTraveler(t, s, "t1")

	require.NoError(t, s.Reset(ctx))
	all, err := s.ListTravelers(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
