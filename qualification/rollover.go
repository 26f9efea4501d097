package qualification

// Rollover is the XP carried from a closing cycle into the next one:
// min(cap, max(0, cumulative - threshold)). threshold is the retain threshold
// of the held status for an anniversary close, and the attain threshold of
// the new status for a level-up close.
func Rollover(cumulative, threshold, cap int) int {
	surplus := cumulative - threshold
	if surplus <= 0 || cap <= 0 {
		return 0
	}
	return min(surplus, cap)
}

// Wasted is the surplus above threshold that the cap prevents from carrying.
func Wasted(cumulative, threshold, cap int) int {
	surplus := cumulative - threshold
	if surplus <= 0 {
		return 0
	}
	return surplus - Rollover(cumulative, threshold, cap)
}

// closingThreshold is the base rollover is measured from when a cycle that
// began at held closes at ending.
func (p Program) closingThreshold(held, ending StatusLevel, leveledUp bool) int {
	if leveledUp {
		return p.Threshold(ending)
	}
	return p.RetainThreshold(held)
}
