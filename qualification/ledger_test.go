package qualification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/xp-tracker/qualification"
)

func TestBuildLedger_ActualScheduledSplit(t *testing.T) {
	// GIVEN: Today is March 15; one flight yesterday, one today, manual
	//        entries for this month and next month
	// WHEN: Building the ledger
	// THEN: Today's flight and future manual XP are scheduled; a negative
	//       correction stays actual, a positive future one is scheduled

	today := day("2025-03-15")
	flights := []qualification.FlightRecord{
		flight("f1", "2025-03-14", 5),
		flight("f2", "2025-03-15", 10),
	}
	manual := qualification.ManualLedger{
		month("2025-03"): {MiscXP: 7},
		month("2025-04"): {CardSpendXP: 20, Correction: -3},
		month("2025-05"): {Correction: 6},
	}

	ledger := qualification.BuildLedger(flights, manual, today)

	require.Len(t, ledger.Months, 3)
	assert.Empty(t, ledger.Warnings)

	march := ledger.Months[0]
	assert.Equal(t, month("2025-03"), march.Month)
	assert.Equal(t, 12, march.Actual())
	assert.Equal(t, 10, march.Scheduled())
	assert.Equal(t, qualification.Split{Actual: 1, Scheduled: 1}, march.Flights)

	april := ledger.Months[1]
	assert.Equal(t, -3, april.Actual())
	assert.Equal(t, 20, april.Scheduled())
	assert.Equal(t, 17, april.Projected())
	assert.Equal(t, qualification.Split{Actual: -3}, april.Correction)

	may := ledger.Months[2]
	assert.Equal(t, 0, may.Actual())
	assert.Equal(t, 6, may.Scheduled())
	assert.Equal(t, qualification.Split{Scheduled: 6}, may.Correction)
}

func TestBuildLedger_OrderedAndSparse(t *testing.T) {
	flights := []qualification.FlightRecord{
		flight("f3", "2025-09-01", 8),
		flight("f1", "2025-01-20", 8),
		flight("f2", "2025-01-02", 4),
	}

	ledger := qualification.BuildLedger(flights, nil, day("2026-01-01"))

	require.Len(t, ledger.Months, 2, "months without activity are not materialized")
	assert.Equal(t, month("2025-01"), ledger.Months[0].Month)
	assert.Equal(t, 12, ledger.Months[0].Actual())
	assert.Equal(t, month("2025-09"), ledger.Months[1].Month)

	assert.Equal(t, 0, ledger.Lookup(month("2025-05")).Projected())
	assert.Len(t, ledger.From(month("2025-02")), 1)
}

func TestBuildLedger_MalformedRecordsBecomeWarnings(t *testing.T) {
	// GIVEN: One good flight and one of each kind of bad record
	// WHEN: Building the ledger
	// THEN: Only the good flight is counted and each bad record is reported

	bad := flight("f5", "2025-02-01", 10)
	bad.Cabin = qualification.CabinUnknown
	flights := []qualification.FlightRecord{
		flight("f1", "2025-02-01", 10),
		flight("f2", "2025-02-30", 10),
		flight("f3", "2025-02-01", -4),
		flight("f1", "2025-02-03", 10),
		bad,
	}
	manual := qualification.ManualLedger{
		month("2025-02"): {MiscXP: 3},
		month("2025-03"): {CardSpendXP: -5, MiscXP: 4},
	}

	ledger := qualification.BuildLedger(flights, manual, day("2025-06-01"))

	require.Len(t, ledger.Months, 1, "an entry with a negative field is skipped whole")
	assert.Equal(t, 13, ledger.Months[0].Actual())
	assert.Equal(t, []qualification.WarningCode{
		qualification.WarnInvalidDate,
		qualification.WarnNegativeXP,
		qualification.WarnDuplicateFlight,
		qualification.WarnUnknownCabin,
		qualification.WarnNegativeManualXP,
	}, warningCodes(ledger.Warnings))
	assert.Equal(t, "f2", ledger.Warnings[0].RecordID)
	assert.Equal(t, "2025-03", ledger.Warnings[4].RecordID)
}

func TestParseManualLedger(t *testing.T) {
	ledger, warnings := qualification.ParseManualLedger(map[string]qualification.ManualMonthEntry{
		"2025-04":   {SafXP: 4},
		"April '25": {SafXP: 9},
	})

	assert.Len(t, ledger, 1)
	assert.Equal(t, 4, ledger[month("2025-04")].SafXP)
	require.Len(t, warnings, 1)
	assert.Equal(t, qualification.WarnInvalidMonthKey, warnings[0].Code)
}

func TestParseCabinClass(t *testing.T) {
	cases := map[string]qualification.CabinClass{
		"economy":         qualification.CabinEconomy,
		"Premium Economy": qualification.CabinPremiumEconomy,
		"premium":         qualification.CabinPremiumEconomy,
		"BUSINESS":        qualification.CabinBusiness,
		"la-premiere":     qualification.CabinFirst,
	}
	for in, want := range cases {
		got, err := qualification.ParseCabinClass(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := qualification.ParseCabinClass("steerage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "economy, premium_economy, business, first")

	var c qualification.CabinClass
	require.NoError(t, c.UnmarshalText([]byte("steerage")))
	assert.Equal(t, qualification.CabinUnknown, c)
}
