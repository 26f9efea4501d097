package qualification

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// STATUS LEVEL
// =============================================================================

// StatusLevel is an ordered tier. Comparisons (<, >) follow tier order.
type StatusLevel int

const (
	StatusExplorer StatusLevel = iota
	StatusSilver
	StatusGold
	StatusPlatinum
	StatusUltimate
)

var statusNames = [...]string{"explorer", "silver", "gold", "platinum", "ultimate"}

func (s StatusLevel) Valid() bool { return s >= StatusExplorer && s <= StatusUltimate }

func (s StatusLevel) String() string {
	if !s.Valid() {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// Title is the display name ("Platinum").
func (s StatusLevel) Title() string {
	name := s.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

func ParseStatusLevel(s string) (StatusLevel, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for i, name := range statusNames {
		if name == normalized {
			return StatusLevel(i), nil
		}
	}
	return StatusExplorer, fmt.Errorf("unknown status level %q", s)
}

func (s StatusLevel) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *StatusLevel) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*s = StatusExplorer
		return nil
	}
	parsed, err := ParseStatusLevel(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// =============================================================================
// PROGRAM - Thresholds and rollover cap
// =============================================================================

// DefaultRolloverCap is the most XP that can carry from one cycle into the next.
const DefaultRolloverCap = 300

// LevelRule is one rung of the status ladder.
type LevelRule struct {
	Status StatusLevel

	// Cumulative cycle XP at which the status is attained.
	Threshold int

	// Cumulative cycle XP needed to keep the status for another cycle. Equal
	// to Threshold except, optionally, for the top status.
	RetainThreshold int
}

// Program is the complete rule set of a frequent-flyer program.
type Program struct {
	Name         string
	Levels       []LevelRule // ascending, Levels[0].Threshold == 0
	RolloverCap  int
	YearEndMonth time.Month // last month of the reporting year used by the stats aggregator
}

// DefaultProgram is the four-tier ladder the engine is calibrated on.
func DefaultProgram() Program {
	return Program{
		Name: "Flying Blue",
		Levels: []LevelRule{
			{Status: StatusExplorer, Threshold: 0, RetainThreshold: 0},
			{Status: StatusSilver, Threshold: 100, RetainThreshold: 100},
			{Status: StatusGold, Threshold: 180, RetainThreshold: 180},
			{Status: StatusPlatinum, Threshold: 300, RetainThreshold: 300},
		},
		RolloverCap:  DefaultRolloverCap,
		YearEndMonth: time.December,
	}
}

// Validate checks the ladder is usable by the engine.
func (p Program) Validate() error {
	if len(p.Levels) == 0 {
		return &ProgramError{Reason: "no status levels"}
	}
	if p.Levels[0].Threshold != 0 {
		return &ProgramError{Reason: fmt.Sprintf("lowest level %s must have threshold 0", p.Levels[0].Status)}
	}
	for i, l := range p.Levels {
		if !l.Status.Valid() {
			return &ProgramError{Reason: fmt.Sprintf("level %d has unknown status", i)}
		}
		if l.RetainThreshold < 0 {
			return &ProgramError{Reason: fmt.Sprintf("%s retain threshold is negative", l.Status)}
		}
		if i == 0 {
			continue
		}
		prev := p.Levels[i-1]
		if l.Status <= prev.Status {
			return &ProgramError{Reason: fmt.Sprintf("levels out of order at %s", l.Status)}
		}
		if l.Threshold <= prev.Threshold {
			return &ProgramError{Reason: fmt.Sprintf("%s threshold %d is not above %s threshold %d",
				l.Status, l.Threshold, prev.Status, prev.Threshold)}
		}
	}
	if p.RolloverCap < 0 {
		return &ProgramError{Reason: "rollover cap is negative"}
	}
	if p.YearEndMonth < time.January || p.YearEndMonth > time.December {
		return &ProgramError{Reason: fmt.Sprintf("year end month %d out of range", p.YearEndMonth)}
	}
	return nil
}

func (p Program) rule(s StatusLevel) (LevelRule, bool) {
	for _, l := range p.Levels {
		if l.Status == s {
			return l, true
		}
	}
	return LevelRule{}, false
}

// Has reports whether the status is part of this program's ladder.
func (p Program) Has(s StatusLevel) bool { _, ok := p.rule(s); return ok }

func (p Program) Lowest() StatusLevel { return p.Levels[0].Status }
func (p Program) Top() StatusLevel    { return p.Levels[len(p.Levels)-1].Status }

// Threshold is the XP needed to attain s. Unknown statuses use the nearest
// lower rung.
func (p Program) Threshold(s StatusLevel) int {
	l, _ := p.rule(p.Clamp(s))
	return l.Threshold
}

// RetainThreshold is the XP needed to keep s for another cycle.
func (p Program) RetainThreshold(s StatusLevel) int {
	l, _ := p.rule(p.Clamp(s))
	return l.RetainThreshold
}

// StatusFor is the highest status whose attain threshold is <= xp.
func (p Program) StatusFor(xp int) StatusLevel {
	status := p.Lowest()
	for _, l := range p.Levels {
		if l.Threshold > xp {
			break
		}
		status = l.Status
	}
	return status
}

// NextAbove returns the rung directly above s, if any.
func (p Program) NextAbove(s StatusLevel) (LevelRule, bool) {
	for _, l := range p.Levels {
		if l.Status > s {
			return l, true
		}
	}
	return LevelRule{}, false
}

// Clamp maps s onto the ladder: the highest program status <= s.
func (p Program) Clamp(s StatusLevel) StatusLevel {
	status := p.Lowest()
	for _, l := range p.Levels {
		if l.Status > s {
			break
		}
		status = l.Status
	}
	return status
}
