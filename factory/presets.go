package factory

import (
	"errors"
	"fmt"
	"sort"

	"github.com/warp/xp-tracker/qualification"
)

var ErrUnknownPreset = errors.New("unknown program preset")

const (
	PresetFlyingBlue         = "flying-blue"
	PresetFlyingBlueUltimate = "flying-blue-ultimate"
)

var presets = map[string]string{
	PresetFlyingBlue: `{
		"name": "Flying Blue",
		"rollover_cap": 300,
		"year_end_month": 12,
		"levels": [
			{"status": "explorer", "threshold": 0},
			{"status": "silver", "threshold": 100},
			{"status": "gold", "threshold": 180},
			{"status": "platinum", "threshold": 300}
		]
	}`,
	PresetFlyingBlueUltimate: `{
		"name": "Flying Blue Ultimate",
		"rollover_cap": 300,
		"year_end_month": 12,
		"levels": [
			{"status": "explorer", "threshold": 0},
			{"status": "silver", "threshold": 100},
			{"status": "gold", "threshold": 180},
			{"status": "platinum", "threshold": 300},
			{"status": "ultimate", "threshold": 900}
		]
	}`,
}

// PresetNames lists the built-in programs.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset parses a built-in program by name.
func (f *ProgramFactory) Preset(name string) (qualification.Program, error) {
	src, ok := presets[name]
	if !ok {
		return qualification.Program{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return f.ParseProgram(src)
}
