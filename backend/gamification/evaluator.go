package gamification

// Evaluate returns the keys of achievements that became unlockable with
// this event. The state must already reflect the event (counters and
// sets updated). Keys already present in UnlockedAchievements are never
// returned again. Predicates are independent: several achievements can
// unlock on the same event.
//
// Evaluate is pure: it mutates neither the state nor the catalog.
func Evaluate(state *State, event CouponUseEvent) []string {
	var unlocked []string

	add := func(key string, qualified bool) {
		if qualified && !state.HasAchievement(key) {
			unlocked = append(unlocked, key)
		}
	}

	add("first-use", state.CouponsUsed == 1)
	add("saver", state.TotalSaved >= 100)
	add("collector", state.CouponsUsed >= 10)
	add("explorer", len(state.StoresVisited) >= 5)
	add("loyal", maxStoreRepeat(state.StoreUsageCounts) >= 5)
	add("strategist", len(state.CouponTypesUsed) >= 3)

	level := LevelFor(state.CouponsUsed)
	add("vip", level.ID >= 4)
	add("legend", level.ID >= 6)

	return unlocked
}

func maxStoreRepeat(counts map[string]int) int {
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	return max
}
