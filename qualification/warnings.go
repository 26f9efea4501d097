package qualification

import (
	"fmt"

	"github.com/warp/xp-tracker/calendar"
)

// WarningCode classifies a data-quality issue.
type WarningCode string

const (
	// Malformed input: the record is skipped.
	WarnInvalidDate     WarningCode = "invalid_date"
	WarnNegativeXP      WarningCode = "negative_xp"
	WarnUnknownCabin    WarningCode = "unknown_cabin"
	WarnDuplicateFlight WarningCode = "duplicate_flight"
	WarnInvalidMonthKey WarningCode = "invalid_month_key"

	// Malformed manual field: the field is treated as zero.
	WarnNegativeManualXP WarningCode = "negative_manual_xp"

	// Inconsistent configuration: the engine falls back to a default.
	WarnCycleStartReanchored   WarningCode = "cycle_start_reanchored"
	WarnCycleStartNormalized   WarningCode = "cycle_start_normalized"
	WarnActivityBeforeOverride WarningCode = "activity_before_override"
	WarnNegativeRollover       WarningCode = "negative_rollover_seed"
	WarnStatusNotInProgram     WarningCode = "status_not_in_program"
)

// Warning is a recoverable anomaly found while computing. The engine always
// returns a consistent result next to its warnings.
type Warning struct {
	Code     WarningCode    `json:"code"`
	Message  string         `json:"message"`
	RecordID string         `json:"record_id,omitempty"`
	Month    calendar.Month `json:"month,omitempty"`
}

func (w Warning) String() string {
	if w.RecordID != "" {
		return fmt.Sprintf("%s [%s]: %s", w.Code, w.RecordID, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// CountByCode tallies warnings, e.g. for metrics.
func CountByCode(warnings []Warning) map[WarningCode]int {
	counts := make(map[WarningCode]int)
	for _, w := range warnings {
		counts[w.Code]++
	}
	return counts
}
