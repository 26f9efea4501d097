package factory

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/warp/xp-tracker/calendar"
	"github.com/warp/xp-tracker/qualification"
)

// SettingsJSON is the wire form of qualification.Settings. Every field is
// optional.
type SettingsJSON struct {
	StartingStatus string        `json:"starting_status,omitempty"`
	CycleStart     string        `json:"cycle_start,omitempty"` // YYYY-MM-DD
	RolloverSeed   int           `json:"rollover_seed,omitempty"`
	Override       *OverrideJSON `json:"override,omitempty"`
}

// OverrideJSON is the statement-import override.
type OverrideJSON struct {
	StartMonth string `json:"start_month"` // YYYY-MM
	RolloverXP int    `json:"rollover_xp"`
}

// ParseSettings parses a JSON settings document.
func ParseSettings(jsonStr string) (qualification.Settings, error) {
	var sj SettingsJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return qualification.Settings{}, fmt.Errorf("failed to parse settings JSON: %w", err)
	}
	return SettingsFromJSON(sj)
}

// SettingsFromJSON validates the formats of every field. Range problems
// (negative seed, status outside the program) are left to the engine, which
// reports them as warnings.
func SettingsFromJSON(sj SettingsJSON) (qualification.Settings, error) {
	var s qualification.Settings
	if sj.StartingStatus != "" {
		status, err := qualification.ParseStatusLevel(sj.StartingStatus)
		if err != nil {
			return qualification.Settings{}, err
		}
		s.StartingStatus = status
	}
	if sj.CycleStart != "" {
		start, err := calendar.ParseDate(sj.CycleStart)
		if err != nil {
			return qualification.Settings{}, fmt.Errorf("cycle_start: %w", err)
		}
		s.CycleStart = start
	}
	s.RolloverSeed = sj.RolloverSeed
	if sj.Override != nil {
		m, err := calendar.ParseMonth(sj.Override.StartMonth)
		if err != nil {
			return qualification.Settings{}, fmt.Errorf("override.start_month: %w", err)
		}
		s.Override = &qualification.CycleOverride{StartMonth: m, RolloverXP: sj.Override.RolloverXP}
	}
	return s, nil
}

// SettingsToJSON is the inverse of SettingsFromJSON.
func SettingsToJSON(s qualification.Settings) SettingsJSON {
	sj := SettingsJSON{
		StartingStatus: s.StartingStatus.String(),
		CycleStart:     s.CycleStart.String(),
		RolloverSeed:   s.RolloverSeed,
	}
	if s.Override != nil {
		sj.Override = &OverrideJSON{StartMonth: s.Override.StartMonth.String(), RolloverXP: s.Override.RolloverXP}
	}
	return sj
}
