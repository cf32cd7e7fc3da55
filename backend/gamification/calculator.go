package gamification

// LevelFor returns the highest level whose threshold is satisfied by
// couponsUsed. It is total: negative counts fall back to the first level.
func LevelFor(couponsUsed int) Level {
	// Walk from the top down until a threshold qualifies.
	for i := len(Levels) - 1; i >= 0; i-- {
		if couponsUsed >= Levels[i].CouponThreshold {
			return Levels[i]
		}
	}
	return Levels[0]
}

// ProgressTowardNext returns how far along couponsUsed is between the
// current level's threshold and the next one, as a fraction in [0,1],
// together with the next level. An unknown levelID is treated as the
// first level. At the top level the progress is 1.0 and next is nil.
func ProgressTowardNext(couponsUsed int, levelID int) (float64, *Level) {
	idx := -1
	for i, lvl := range Levels {
		if lvl.ID == levelID {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = 0
	}

	if idx+1 >= len(Levels) {
		return 1.0, nil
	}

	next := Levels[idx+1]
	current := Levels[idx].CouponThreshold
	if next.CouponThreshold <= current {
		return 1.0, &next
	}

	progress := float64(couponsUsed-current) / float64(next.CouponThreshold-current)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return progress, &next
}
