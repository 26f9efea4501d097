/*
scenarios_test.go - Tests for demo scenarios

PURPOSE:

	Tests that each scenario loads through the API and that the engine
	produces the cycles the scenario is meant to demonstrate. These double
	as end-to-end tests: store, resolver, engine and handlers together.
*/
package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/xp-tracker/qualification"
)

func TestScenario_List(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ScenarioDTO](t, rec), 3)

	rec = env.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenario_NewMember(t *testing.T) {
	// GIVEN: New member scenario, no settings
	// WHEN: Loading the scenario and viewing it on 2025-12-01
	// THEN: One inferred cycle from the first flight's month, Explorer

	env := setupTestEnv(t)
	env.loadScenario(t, ScenarioNewMember)

	rec := env.do(t, http.MethodGet, "/api/travelers/trv-001/cycles?today=2025-12-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[CyclesResponse](t, rec)

	require.Len(t, resp.Cycles, 1)
	c := resp.Cycles[0]
	assert.Equal(t, qualification.OriginInferred, c.Origin)
	assert.Equal(t, "2025-03-01", c.StartDate.String())
	assert.Equal(t, "2026-02-28", c.EndDate.String())
	assert.Equal(t, 54, c.Progress.ActualXP)
	assert.Equal(t, 56, c.Progress.ProjectedXP, "January domestic hop is scheduled")
	assert.Equal(t, 46, c.Progress.ActualXPToNextThreshold)
	assert.Equal(t, qualification.StatusExplorer, c.Progress.ProjectedStatus)
	assert.True(t, c.IsActive)
	assert.Empty(t, resp.Warnings)

	rec = env.do(t, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ScenarioNewMember, decode[ScenarioDTO](t, rec).ID)
}

func TestScenario_LevelUpChain(t *testing.T) {
	// GIVEN: Level-up chain scenario
	// WHEN: Viewing it on 2025-12-01
	// THEN: Silver in April and Gold in October each close a cycle and
	//       chain the next one with 32 XP rolled over

	env := setupTestEnv(t)
	env.loadScenario(t, ScenarioLevelUpChain)

	rec := env.do(t, http.MethodGet, "/api/travelers/trv-002/cycles?today=2025-12-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[CyclesResponse](t, rec)
	require.Len(t, resp.Cycles, 3)

	first, second, third := resp.Cycles[0], resp.Cycles[1], resp.Cycles[2]

	assert.Equal(t, qualification.OriginSettings, first.Origin)
	assert.True(t, first.EndedByLevelUp)
	assert.Equal(t, "2025-04-30", first.EndDate.String())
	assert.Equal(t, qualification.StatusSilver, first.EndingStatus)
	assert.Equal(t, 32, first.RolloverOut)

	assert.Equal(t, qualification.OriginChained, second.Origin)
	assert.Equal(t, "2025-05-01", second.StartDate.String())
	assert.Equal(t, qualification.StatusSilver, second.StartingStatus)
	assert.Equal(t, 32, second.RolloverIn)
	assert.True(t, second.EndedByLevelUp)
	assert.Equal(t, "2025-10-31", second.EndDate.String())
	assert.Equal(t, 212, second.ActualCumulative)

	assert.Equal(t, qualification.OriginChained, third.Origin)
	assert.Equal(t, qualification.StatusGold, third.StartingStatus)
	assert.Equal(t, 32, third.RolloverIn)
	assert.True(t, third.IsActive)
	require.NotNil(t, resp.ActiveIndex)
	assert.Equal(t, 2, *resp.ActiveIndex)

	// Gold holder working toward Platinum
	rec = env.do(t, http.MethodGet, "/api/travelers/trv-002/status?today=2025-12-01", nil)
	status := decode[StatusResponse](t, rec)
	require.NotNil(t, status.Progress)
	assert.Equal(t, qualification.StatusGold, status.Progress.ActualStatus)
	assert.Equal(t, qualification.StatusPlatinum, status.Progress.ActualTarget)
	assert.Equal(t, 268, status.Progress.ActualXPToNextThreshold)
	assert.Equal(t, "Gold: 268 XP to Platinum", status.Headline)
}

func TestScenario_StatementImport(t *testing.T) {
	// GIVEN: Statement import scenario (override April 2025, 45 XP carried)
	// WHEN: Viewing it on 2025-12-01
	// THEN: The cycle starts at the override with its rollover, and the
	//       earlier March flight is reported, not counted

	env := setupTestEnv(t)
	env.loadScenario(t, ScenarioStatementImport)

	rec := env.do(t, http.MethodGet, "/api/travelers/trv-003/cycles?today=2025-12-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[CyclesResponse](t, rec)
	require.Len(t, resp.Cycles, 1)

	c := resp.Cycles[0]
	assert.Equal(t, qualification.OriginOverride, c.Origin)
	assert.Equal(t, "2025-04-01", c.StartDate.String())
	assert.Equal(t, 45, c.RolloverIn)
	assert.Equal(t, qualification.StatusGold, c.StartingStatus)
	assert.Equal(t, 114, c.ActualCumulative)
	assert.Contains(t, warningCodes(resp.Warnings), qualification.WarnActivityBeforeOverride)

	var correction int
	for _, row := range c.Rows {
		correction += row.Correction
	}
	assert.Equal(t, -3, correction)
}

func TestScenario_LoadReplacesPreviousData(t *testing.T) {
	env := setupTestEnv(t)
	env.loadScenario(t, ScenarioNewMember)
	env.loadScenario(t, ScenarioLevelUpChain)

	rec := env.do(t, http.MethodGet, "/api/travelers", nil)
	travelers := decode[[]TravelerDTO](t, rec)
	require.Len(t, travelers, 1)
	assert.Equal(t, "trv-002", travelers[0].ID)

	rec = env.do(t, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/travelers", nil)
	assert.Empty(t, decode[[]TravelerDTO](t, rec))
}
