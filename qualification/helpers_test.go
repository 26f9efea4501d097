package qualification_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/warp/xp-tracker/calendar"
	"github.com/warp/xp-tracker/qualification"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func day(s string) calendar.Date { return calendar.MustParseDate(s) }

func month(s string) calendar.Month { return calendar.MustParseMonth(s) }

func flight(id, date string, xp int) qualification.FlightRecord {
	return qualification.FlightRecord{
		ID:      id,
		Date:    date,
		Route:   "CDG-JFK",
		Airline: "AF",
		Cabin:   qualification.CabinEconomy,
		XP:      xp,
	}
}

// compactLadder keeps numbers small: Silver at 30, Gold at 50, Platinum at 100.
func compactLadder() qualification.Program {
	p := qualification.DefaultProgram()
	p.Name = "compact"
	p.Levels = []qualification.LevelRule{
		{Status: qualification.StatusExplorer, Threshold: 0, RetainThreshold: 0},
		{Status: qualification.StatusSilver, Threshold: 30, RetainThreshold: 30},
		{Status: qualification.StatusGold, Threshold: 50, RetainThreshold: 50},
		{Status: qualification.StatusPlatinum, Threshold: 100, RetainThreshold: 100},
	}
	return p
}

func newEngine(t *testing.T, p qualification.Program) *qualification.Engine {
	t.Helper()
	e, err := qualification.NewEngine(p)
	require.NoError(t, err)
	return e
}

func warningCodes(ws []qualification.Warning) []qualification.WarningCode {
	codes := make([]qualification.WarningCode, 0, len(ws))
	for _, w := range ws {
		codes = append(codes, w.Code)
	}
	return codes
}
