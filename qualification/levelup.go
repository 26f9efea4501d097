package qualification

import "fmt"

// =============================================================================
// LEVEL-UP DETECTOR
// =============================================================================

// StatusProgress is the per-cycle answer to "where do I stand".
//
// ActualStatus is the status the traveler holds on the actual track: the held
// status, raised by whatever the actual cumulative XP has earned. The
// projected figures add scheduled activity through cycle end and are never
// below the actual ones.
type StatusProgress struct {
	ActualStatus            StatusLevel `json:"actual_status"`
	ActualXP                int         `json:"actual_xp"`
	ActualTarget            StatusLevel `json:"actual_target"`
	ActualXPToNextThreshold int         `json:"actual_xp_to_next_threshold"`

	ProjectedStatus            StatusLevel `json:"projected_status"`
	ProjectedXP                int         `json:"projected_xp"`
	ProjectedTarget            StatusLevel `json:"projected_target"`
	ProjectedXPToNextThreshold int         `json:"projected_xp_to_next_threshold"`

	// XP still missing to keep the status held at cycle start.
	XPToRetain int `json:"xp_to_retain"`

	// True when the target is the top status's retain threshold rather than
	// a promotion.
	Renewal bool `json:"renewal"`
}

// DetectProgress computes the four level-up numbers from a cycle's held
// status and its two cumulative totals.
func (p Program) DetectProgress(held StatusLevel, actualCum, projectedCum int) StatusProgress {
	actual := max(held, p.StatusFor(actualCum))
	projected := max(actual, p.StatusFor(projectedCum))

	pr := StatusProgress{
		ActualStatus:    actual,
		ActualXP:        actualCum,
		ProjectedStatus: projected,
		ProjectedXP:     projectedCum,
		XPToRetain:      max(0, p.RetainThreshold(held)-actualCum),
	}
	pr.ActualTarget, pr.ActualXPToNextThreshold, pr.Renewal = p.nextTarget(actual, actualCum)
	pr.ProjectedTarget, pr.ProjectedXPToNextThreshold, _ = p.nextTarget(projected, projectedCum)
	return pr
}

// nextTarget is the status being worked toward from s and the XP still
// missing. At the top status the target is its own retain threshold.
func (p Program) nextTarget(s StatusLevel, xp int) (StatusLevel, int, bool) {
	if next, ok := p.NextAbove(s); ok {
		return next.Status, max(0, next.Threshold-xp), false
	}
	return s, max(0, p.RetainThreshold(s)-xp), true
}

// Headline renders the actual track for display, e.g. "Gold: 268 XP to
// Platinum" or "Platinum: 40 XP to renew".
func (pr StatusProgress) Headline() string {
	switch {
	case pr.Renewal && pr.ActualXPToNextThreshold == 0:
		return fmt.Sprintf("%s: renewed", pr.ActualStatus.Title())
	case pr.Renewal:
		return fmt.Sprintf("%s: %d XP to renew", pr.ActualStatus.Title(), pr.ActualXPToNextThreshold)
	default:
		return fmt.Sprintf("%s: %d XP to %s", pr.ActualStatus.Title(), pr.ActualXPToNextThreshold, pr.ActualTarget.Title())
	}
}
