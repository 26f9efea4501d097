package factory_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/xp-tracker/calendar"
	"github.com/warp/xp-tracker/factory"
	"github.com/warp/xp-tracker/qualification"
)

func TestParseProgram_Defaults(t *testing.T) {
	// GIVEN: A program with no cap, no year end and no retain thresholds
	// WHEN: Parsing
	// THEN: Defaults are applied

	f := factory.NewProgramFactory()
	p, err := f.ParseProgram(`{
		"name": "Mini",
		"levels": [
			{"status": "explorer", "threshold": 0},
			{"status": "gold", "threshold": 50}
		]
	}`)

	require.NoError(t, err)
	assert.Equal(t, "Mini", p.Name)
	assert.Equal(t, qualification.DefaultRolloverCap, p.RolloverCap)
	assert.Equal(t, time.December, p.YearEndMonth)
	require.Len(t, p.Levels, 2)
	assert.Equal(t, 50, p.Levels[1].RetainThreshold)
}

func TestParseProgram_Invalid(t *testing.T) {
	f := factory.NewProgramFactory()

	tests := map[string]string{
		"malformed":      `{"levels": [`,
		"unknown status": `{"levels": [{"status": "diamond", "threshold": 0}]}`,
		"no zero rung":   `{"levels": [{"status": "silver", "threshold": 10}]}`,
		"not increasing": `{"levels": [{"status": "explorer", "threshold": 0}, {"status": "gold", "threshold": 0}]}`,
		"bad month":      `{"year_end_month": 13, "levels": [{"status": "explorer", "threshold": 0}]}`,
		"negative cap":   `{"rollover_cap": -1, "levels": [{"status": "explorer", "threshold": 0}]}`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.ParseProgram(src)
			assert.Error(t, err)
		})
	}

	_, err := f.ParseProgram(`{"levels": []}`)
	assert.ErrorIs(t, err, qualification.ErrInvalidProgram)
}

func TestPresets(t *testing.T) {
	f := factory.NewProgramFactory()
	assert.Equal(t, []string{factory.PresetFlyingBlue, factory.PresetFlyingBlueUltimate}, factory.PresetNames())

	fb, err := f.Preset(factory.PresetFlyingBlue)
	require.NoError(t, err)
	assert.Equal(t, qualification.DefaultProgram(), fb)

	ultimate, err := f.Preset(factory.PresetFlyingBlueUltimate)
	require.NoError(t, err)
	assert.Equal(t, qualification.StatusUltimate, ultimate.Top())
	assert.Equal(t, 900, ultimate.Threshold(qualification.StatusUltimate))

	_, err = f.Preset("skyteam-elite")
	assert.True(t, errors.Is(err, factory.ErrUnknownPreset))
}

func TestProgram_JSONRoundTrip(t *testing.T) {
	f := factory.NewProgramFactory()
	p := qualification.DefaultProgram()
	p.Levels[3].RetainThreshold = 280

	pj := f.ToJSON(p)
	require.NotNil(t, pj.Levels[3].RetainThreshold)
	assert.Nil(t, pj.Levels[1].RetainThreshold)

	back, err := f.FromJSON(pj)
	require.NoError(t, err)
	assert.Equal(t, p, back)
}

func TestLoadProgramFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"File","year_end_month":3,"levels":[{"status":"explorer","threshold":0}]}`), 0o600))

	p, err := factory.NewProgramFactory().LoadProgramFile(path)
	require.NoError(t, err)
	assert.Equal(t, time.March, p.YearEndMonth)

	_, err = factory.NewProgramFactory().LoadProgramFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseSettings(t *testing.T) {
	s, err := factory.ParseSettings(`{
		"starting_status": "Gold",
		"cycle_start": "2025-03-01",
		"rollover_seed": 40,
		"override": {"start_month": "2025-04", "rollover_xp": 60}
	}`)

	require.NoError(t, err)
	assert.Equal(t, qualification.StatusGold, s.StartingStatus)
	assert.Equal(t, calendar.MustParseDate("2025-03-01"), s.CycleStart)
	assert.Equal(t, 40, s.RolloverSeed)
	require.NotNil(t, s.Override)
	assert.Equal(t, calendar.MustParseMonth("2025-04"), s.Override.StartMonth)

	sj := factory.SettingsToJSON(s)
	assert.Equal(t, "gold", sj.StartingStatus)
	assert.Equal(t, "2025-04", sj.Override.StartMonth)

	empty, err := factory.ParseSettings(`{}`)
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	for _, bad := range []string{
		`{"starting_status": "diamond"}`,
		`{"cycle_start": "03/01/2025"}`,
		`{"override": {"start_month": "2025-13"}}`,
	} {
		_, err := factory.ParseSettings(bad)
		assert.Error(t, err, bad)
	}
}
