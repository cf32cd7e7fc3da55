package progression

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cupomgo/backend/gamification"
)

const testEmail = "maria@example.com"

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := NewMemoryRepository()
	require.NoError(t, repo.CreateState(testEmail))
	return NewService(repo, nil)
}

func TestApplyEventFreshUser(t *testing.T) {
	service := newTestService(t)

	result, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{
		Store:      "A",
		CouponType: "Desconto",
		Value:      100,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.State.CouponsUsed)
	assert.Equal(t, 10.0, result.State.TotalSaved)
	assert.Equal(t, 1, result.State.Level)
	assert.Equal(t, 50, result.State.XP)
	require.Len(t, result.Unlocked, 1)
	assert.Equal(t, "first-use", result.Unlocked[0].Key)
	assert.NotNil(t, result.State.LastCouponAt)
}

func TestApplyEventLevelTransition(t *testing.T) {
	service := newTestService(t)

	for i := 0; i < 4; i++ {
		result, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{Store: "A", CouponType: "Desconto"})
		require.NoError(t, err)
		assert.Equal(t, 1, result.State.Level)
	}

	// Fifth coupon crosses the Bronze threshold.
	result, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{Store: "A", CouponType: "Desconto"})
	require.NoError(t, err)
	assert.Equal(t, 5, result.State.CouponsUsed)
	assert.Equal(t, 2, result.State.Level)
}

func TestApplyEventSaverUnlocksOnce(t *testing.T) {
	service := newTestService(t)

	// Nine uses of R$ 100 coupons: 90 saved, not enough.
	for i := 0; i < 9; i++ {
		result, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{Store: "A", Value: 100})
		require.NoError(t, err)
		for _, a := range result.Unlocked {
			assert.NotEqual(t, "saver", a.Key)
		}
	}

	// Tenth crosses 100 saved.
	result, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{Store: "A", Value: 100})
	require.NoError(t, err)
	keys := unlockedKeys(result)
	assert.Contains(t, keys, "saver")

	xpAfter := result.State.XP

	// Still over 100 saved, but saver must not fire again.
	result, err = service.ApplyEvent(testEmail, gamification.CouponUseEvent{Store: "A", Value: 100})
	require.NoError(t, err)
	assert.NotContains(t, unlockedKeys(result), "saver")
	assert.Equal(t, xpAfter, result.State.XP)
}

func TestApplyEventLoyalOnFifthRepeat(t *testing.T) {
	service := newTestService(t)

	// Four uses at "Favorita" interleaved with four other stores.
	for i := 0; i < 4; i++ {
		_, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{Store: "Favorita"})
		require.NoError(t, err)
		result, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{Store: fmt.Sprintf("Outra %d", i)})
		require.NoError(t, err)
		assert.NotContains(t, unlockedKeys(result), "loyal")
	}

	result, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{Store: "Favorita"})
	require.NoError(t, err)
	assert.Contains(t, unlockedKeys(result), "loyal")
	assert.Equal(t, 5, result.State.StoreUsageCounts["Favorita"])
}

func TestApplyEventXPMatchesUnlockedRewards(t *testing.T) {
	service := newTestService(t)

	previousXP := 0
	for i := 0; i < 60; i++ {
		result, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{
			Store:      fmt.Sprintf("Loja %d", i%7),
			CouponType: []string{"Desconto", "Cashback", "Fidelidade"}[i%3],
			Value:      50,
		})
		require.NoError(t, err)

		gained := 0
		for _, a := range result.Unlocked {
			gained += a.XP
		}
		assert.Equal(t, previousXP+gained, result.State.XP)
		previousXP = result.State.XP
	}

	// Every achievement is reachable in this sequence.
	state, err := service.GetState(testEmail)
	require.NoError(t, err)
	assert.Len(t, state.UnlockedAchievements, 8)
}

func TestApplyEventMonotonicity(t *testing.T) {
	service := newTestService(t)
	rng := rand.New(rand.NewSource(42))

	var prev *gamification.State
	for i := 0; i < 80; i++ {
		result, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{
			Store:      fmt.Sprintf("Loja %d", rng.Intn(8)),
			CouponType: []string{"Desconto", "Cashback", "Fidelidade", ""}[rng.Intn(4)],
			Value:      float64(rng.Intn(80)),
		})
		require.NoError(t, err)

		if prev != nil {
			assert.GreaterOrEqual(t, result.State.CouponsUsed, prev.CouponsUsed)
			assert.GreaterOrEqual(t, result.State.TotalSaved, prev.TotalSaved)
			assert.GreaterOrEqual(t, result.State.XP, prev.XP)
			assert.GreaterOrEqual(t, result.State.Level, prev.Level)
			assert.GreaterOrEqual(t, len(result.State.StoresVisited), len(prev.StoresVisited))
			assert.GreaterOrEqual(t, len(result.State.CouponTypesUsed), len(prev.CouponTypesUsed))
			for _, key := range prev.UnlockedAchievements {
				assert.True(t, result.State.HasAchievement(key), "achievement %s was lost", key)
			}
		}
		prev = result.State
	}
}

func TestApplyEventEmptyStoreAndType(t *testing.T) {
	service := newTestService(t)

	result, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{Value: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, result.State.CouponsUsed)
	assert.Empty(t, result.State.StoresVisited)
	assert.Empty(t, result.State.CouponTypesUsed)
	assert.Empty(t, result.State.StoreUsageCounts)
}

func TestApplyEventDuplicateStoreNotReadded(t *testing.T) {
	service := newTestService(t)

	for i := 0; i < 3; i++ {
		_, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{Store: "A", CouponType: "Desconto"})
		require.NoError(t, err)
	}

	state, err := service.GetState(testEmail)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, state.StoresVisited)
	assert.Equal(t, []string{"Desconto"}, state.CouponTypesUsed)
	assert.Equal(t, 3, state.StoreUsageCounts["A"])
}

func TestApplyEventNegativeValueRejected(t *testing.T) {
	service := newTestService(t)

	_, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{Store: "A", Value: -1})
	assert.ErrorIs(t, err, ErrInvalidEvent)

	// State must be untouched.
	state, err := service.GetState(testEmail)
	require.NoError(t, err)
	assert.Equal(t, 0, state.CouponsUsed)
	assert.Equal(t, 0.0, state.TotalSaved)
}

func TestApplyEventUnknownUser(t *testing.T) {
	service := NewService(NewMemoryRepository(), nil)

	_, err := service.ApplyEvent("ghost@example.com", gamification.CouponUseEvent{Store: "A"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestApplyEventAppendsUsageHistory(t *testing.T) {
	service := newTestService(t)

	_, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{
		Store:      "A",
		CouponType: "Desconto",
		Value:      30,
		Location:   "São Paulo - SP",
	})
	require.NoError(t, err)

	uses, total, err := service.History(testEmail, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, uses, 1)
	assert.Equal(t, "A", uses[0].Store)
	assert.Equal(t, 30.0, uses[0].Value)
	assert.NotEmpty(t, uses[0].PublicID)
}

func TestHistoryOutOfRangePageClamped(t *testing.T) {
	service := newTestService(t)

	_, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{Store: "A", Value: 20})
	require.NoError(t, err)

	// Page and page size below 1 clamp to the first page instead of
	// slicing with a negative offset.
	for _, page := range []int{0, -1} {
		uses, total, err := service.History(testEmail, page, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, uses, 1)
	}

	uses, total, err := service.History(testEmail, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, uses, 1)
}

func TestApplyEventConcurrentSameUser(t *testing.T) {
	service := newTestService(t)

	const workers = 8
	const perWorker = 10

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := service.ApplyEvent(testEmail, gamification.CouponUseEvent{
					Store: fmt.Sprintf("Loja %d", w),
					Value: 10,
				})
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	state, err := service.GetState(testEmail)
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, state.CouponsUsed, "no update may be lost")
	assert.InDelta(t, float64(workers*perWorker), state.TotalSaved, 1e-9)

	totalRepeats := 0
	for _, n := range state.StoreUsageCounts {
		totalRepeats += n
	}
	assert.Equal(t, workers*perWorker, totalRepeats)
}

func unlockedKeys(result *ApplyResult) []string {
	keys := make([]string, 0, len(result.Unlocked))
	for _, a := range result.Unlocked {
		keys = append(keys, a.Key)
	}
	return keys
}
