package gamification

import "time"

// State is the per-user progression record the engine operates on.
// Counters and sets only ever grow; Level is derived from CouponsUsed
// and never set independently.
type State struct {
	Email                string
	CouponsUsed          int
	TotalSaved           float64
	XP                   int
	Level                int
	StoresVisited        []string
	CouponTypesUsed      []string
	StoreUsageCounts     map[string]int
	UnlockedAchievements []string
	LastCouponAt         *time.Time
}

// NewState returns the zeroed state created alongside a user account.
func NewState(email string) *State {
	return &State{
		Email:                email,
		Level:                Levels[0].ID,
		StoresVisited:        []string{},
		CouponTypesUsed:      []string{},
		StoreUsageCounts:     map[string]int{},
		UnlockedAchievements: []string{},
	}
}

// HasAchievement reports whether key is already unlocked.
func (s *State) HasAchievement(key string) bool {
	for _, k := range s.UnlockedAchievements {
		if k == key {
			return true
		}
	}
	return false
}

// CouponUseEvent is a single coupon redemption. It is input only;
// the usage history log persists it separately.
type CouponUseEvent struct {
	Store      string
	CouponType string
	Value      float64
	Location   string
	Timestamp  time.Time
}
