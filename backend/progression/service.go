package progression

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"cupomgo/backend/gamification"
	"cupomgo/backend/models"
)

// Service applies coupon events to user progression state: counters,
// level, achievements and XP, persisted in one atomic write.
type Service struct {
	repo   Repository
	logger *log.Logger
}

// NewService creates a progression service on top of repo.
func NewService(repo Repository, logger *log.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ApplyResult is the outcome of one applied event.
type ApplyResult struct {
	State    *gamification.State
	Unlocked []gamification.Achievement
}

// ApplyEvent applies one coupon use for the user identified by email.
// It increments the counters, recomputes the level, unlocks any newly
// qualified achievements (granting their XP) and appends the event to
// the usage history. Returns the achievements unlocked by this event;
// an empty list is the common case.
//
// ApplyEvent is not idempotent: the event stream carries no identity,
// so deduplication is the caller's responsibility.
func (s *Service) ApplyEvent(email string, event gamification.CouponUseEvent) (*ApplyResult, error) {
	if event.Value < 0 {
		return nil, fmt.Errorf("%w: negative value %.2f", ErrInvalidEvent, event.Value)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	var unlocked []gamification.Achievement

	state, err := s.repo.UpdateState(email, func(st *gamification.State) error {
		st.CouponsUsed++
		st.TotalSaved += event.Value * gamification.SavingsRate

		if event.Store != "" {
			if !contains(st.StoresVisited, event.Store) {
				st.StoresVisited = append(st.StoresVisited, event.Store)
			}
			st.StoreUsageCounts[event.Store]++
		}
		if event.CouponType != "" && !contains(st.CouponTypesUsed, event.CouponType) {
			st.CouponTypesUsed = append(st.CouponTypesUsed, event.CouponType)
		}

		st.Level = gamification.LevelFor(st.CouponsUsed).ID
		ts := event.Timestamp
		st.LastCouponAt = &ts

		unlocked = unlocked[:0]
		for _, key := range gamification.Evaluate(st, event) {
			achievement, ok := gamification.AchievementByKey(key)
			if !ok {
				continue
			}
			st.UnlockedAchievements = append(st.UnlockedAchievements, key)
			st.XP += achievement.XP
			unlocked = append(unlocked, achievement)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	use := models.CouponUse{
		PublicID:   uuid.NewString(),
		Email:      email,
		Store:      event.Store,
		CouponType: event.CouponType,
		Value:      event.Value,
		Location:   event.Location,
		UsedAt:     event.Timestamp,
	}
	if err := s.repo.AppendUsage(&use); err != nil {
		// The history log is advisory; the state is already saved.
		if s.logger != nil {
			s.logger.Printf("could not append coupon usage for %s: %v", email, err)
		}
	}

	return &ApplyResult{State: state, Unlocked: unlocked}, nil
}

// GetState returns the current progression state for email.
func (s *Service) GetState(email string) (*gamification.State, error) {
	return s.repo.GetState(email)
}

// CreateState provisions the zeroed state for a freshly registered
// account.
func (s *Service) CreateState(email string) error {
	return s.repo.CreateState(email)
}

// History returns one page of the user's usage log, newest first.
func (s *Service) History(email string, page, pageSize int) ([]models.CouponUse, int64, error) {
	return s.repo.ListUsage(email, page, pageSize)
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
