package progression

import (
	"encoding/json"
	"log"

	"cupomgo/backend/gamification"
	"cupomgo/backend/models"
)

// decodeState rebuilds the domain state from a persisted row. The list
// and map columns hold JSON; a column that fails to decode is treated
// as corrupt, logged and reset to empty instead of failing the request.
func decodeState(row *models.UserProgression, logger *log.Logger) *gamification.State {
	state := &gamification.State{
		Email:        row.Email,
		CouponsUsed:  row.CouponsUsed,
		TotalSaved:   row.TotalSaved,
		XP:           row.XP,
		Level:        row.Level,
		LastCouponAt: row.LastCouponAt,
	}

	state.StoresVisited = decodeList(row.StoresVisited, "stores_visited", row.Email, logger)
	state.CouponTypesUsed = decodeList(row.CouponTypesUsed, "coupon_types_used", row.Email, logger)
	state.UnlockedAchievements = decodeList(row.UnlockedAchievements, "unlocked_achievements", row.Email, logger)

	state.StoreUsageCounts = map[string]int{}
	if row.StoreUsageCounts != "" {
		if err := json.Unmarshal([]byte(row.StoreUsageCounts), &state.StoreUsageCounts); err != nil {
			logCorrupt(logger, "store_usage_counts", row.Email, err)
			state.StoreUsageCounts = map[string]int{}
		}
	}

	return state
}

func decodeList(raw, column, email string, logger *log.Logger) []string {
	if raw == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		logCorrupt(logger, column, email, err)
		return []string{}
	}
	if list == nil {
		list = []string{}
	}
	return list
}

func logCorrupt(logger *log.Logger, column, email string, err error) {
	if logger != nil {
		logger.Printf("corrupt progression field %s for %s, resetting: %v", column, email, err)
	}
}

// encodeState writes the domain state back onto the persisted row.
func encodeState(row *models.UserProgression, state *gamification.State) {
	row.CouponsUsed = state.CouponsUsed
	row.TotalSaved = state.TotalSaved
	row.XP = state.XP
	row.Level = state.Level
	row.LastCouponAt = state.LastCouponAt
	row.StoresVisited = encodeJSON(state.StoresVisited)
	row.CouponTypesUsed = encodeJSON(state.CouponTypesUsed)
	row.StoreUsageCounts = encodeJSON(state.StoreUsageCounts)
	row.UnlockedAchievements = encodeJSON(state.UnlockedAchievements)
}

func encodeJSON(v interface{}) string {
	// Marshalling string slices and string-keyed maps cannot fail.
	b, _ := json.Marshal(v)
	return string(b)
}
