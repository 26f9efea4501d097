/*
Package factory provides JSON to Go conversion for programs and settings.

PURPOSE:

	Converts JSON program definitions into qualification.Program values and
	JSON qualification settings into qualification.Settings. Programs can then
	be changed (thresholds, cap, year end) without code changes.

JSON SCHEMA (program):

	{
	  "name": "Flying Blue",
	  "rollover_cap": 300,
	  "year_end_month": 12,
	  "levels": [
	    {"status": "explorer", "threshold": 0},
	    {"status": "silver",   "threshold": 100},
	    {"status": "gold",     "threshold": 180},
	    {"status": "platinum", "threshold": 300, "retain_threshold": 300}
	  ]
	}

JSON SCHEMA (settings):

	{
	  "starting_status": "gold",
	  "cycle_start": "2025-03-01",
	  "rollover_seed": 40,
	  "override": {"start_month": "2025-04", "rollover_xp": 60}
	}

DEFAULTS:
  - rollover_cap:     300
  - year_end_month:   12
  - retain_threshold: same as threshold

USAGE:

	f := factory.NewProgramFactory()
	program, err := f.ParseProgram(jsonString)
	program, err = f.Preset("flying-blue-ultimate")
	engine, err := qualification.NewEngine(program)

SEE ALSO:
  - qualification/status.go: Program type definition
  - factory/presets.go: named programs
*/
package factory

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/warp/xp-tracker/qualification"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ProgramJSON is the JSON representation of a program.
type ProgramJSON struct {
	Name         string      `json:"name"`
	RolloverCap  *int        `json:"rollover_cap,omitempty"`
	YearEndMonth int         `json:"year_end_month,omitempty"` // 1-12
	Levels       []LevelJSON `json:"levels"`
}

// LevelJSON is one rung of the ladder.
type LevelJSON struct {
	Status          string `json:"status"`
	Threshold       int    `json:"threshold"`
	RetainThreshold *int   `json:"retain_threshold,omitempty"`
}

// =============================================================================
// PROGRAM FACTORY
// =============================================================================

// ProgramFactory converts JSON programs to qualification.Program.
type ProgramFactory struct{}

func NewProgramFactory() *ProgramFactory {
	return &ProgramFactory{}
}

// ParseProgram parses and validates a JSON program.
func (f *ProgramFactory) ParseProgram(jsonStr string) (qualification.Program, error) {
	var pj ProgramJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return qualification.Program{}, fmt.Errorf("failed to parse program JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// LoadProgramFile reads a JSON program from disk.
func (f *ProgramFactory) LoadProgramFile(path string) (qualification.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return qualification.Program{}, fmt.Errorf("failed to read program file: %w", err)
	}
	return f.ParseProgram(string(data))
}

// FromJSON converts ProgramJSON to a validated qualification.Program.
func (f *ProgramFactory) FromJSON(pj ProgramJSON) (qualification.Program, error) {
	program := qualification.Program{
		Name:         pj.Name,
		RolloverCap:  qualification.DefaultRolloverCap,
		YearEndMonth: time.December,
	}
	if program.Name == "" {
		program.Name = "custom"
	}
	if pj.RolloverCap != nil {
		program.RolloverCap = *pj.RolloverCap
	}
	if pj.YearEndMonth != 0 {
		program.YearEndMonth = time.Month(pj.YearEndMonth)
	}

	for i, lj := range pj.Levels {
		status, err := qualification.ParseStatusLevel(lj.Status)
		if err != nil {
			return qualification.Program{}, fmt.Errorf("level %d: %w", i, err)
		}
		rule := qualification.LevelRule{
			Status:          status,
			Threshold:       lj.Threshold,
			RetainThreshold: lj.Threshold,
		}
		if lj.RetainThreshold != nil {
			rule.RetainThreshold = *lj.RetainThreshold
		}
		program.Levels = append(program.Levels, rule)
	}

	if err := program.Validate(); err != nil {
		return qualification.Program{}, err
	}
	return program, nil
}

// ToJSON converts a Program to ProgramJSON. Retain thresholds equal to the
// attain threshold are omitted.
func (f *ProgramFactory) ToJSON(p qualification.Program) ProgramJSON {
	rolloverCap := p.RolloverCap
	pj := ProgramJSON{
		Name:         p.Name,
		RolloverCap:  &rolloverCap,
		YearEndMonth: int(p.YearEndMonth),
	}
	for _, l := range p.Levels {
		lj := LevelJSON{Status: l.Status.String(), Threshold: l.Threshold}
		if l.RetainThreshold != l.Threshold {
			retain := l.RetainThreshold
			lj.RetainThreshold = &retain
		}
		pj.Levels = append(pj.Levels, lj)
	}
	return pj
}
