package progression

import (
	"sort"
	"sync"

	"cupomgo/backend/gamification"
	"cupomgo/backend/models"
)

// memoryRepository keeps all state in process. It backs tests and
// local runs without Postgres; a single mutex serializes every
// read-modify-write, which is the same guarantee the row lock gives.
type memoryRepository struct {
	mu     sync.Mutex
	states map[string]*gamification.State
	usage  []models.CouponUse
}

// NewMemoryRepository returns an in-memory Repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{states: map[string]*gamification.State{}}
}

func (r *memoryRepository) CreateState(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[email] = gamification.NewState(email)
	return nil
}

func (r *memoryRepository) GetState(email string) (*gamification.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyState(state), nil
}

func (r *memoryRepository) UpdateState(email string, fn func(*gamification.State) error) (*gamification.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[email]
	if !ok {
		return nil, ErrUserNotFound
	}

	updated := copyState(state)
	if err := fn(updated); err != nil {
		return nil, err
	}
	r.states[email] = updated
	return copyState(updated), nil
}

func (r *memoryRepository) AppendUsage(use *models.CouponUse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usage = append(r.usage, *use)
	return nil
}

func (r *memoryRepository) ListUsage(email string, page, pageSize int) ([]models.CouponUse, int64, error) {
	page, pageSize = clampPage(page, pageSize)

	r.mu.Lock()
	defer r.mu.Unlock()

	var uses []models.CouponUse
	for _, u := range r.usage {
		if u.Email == email {
			uses = append(uses, u)
		}
	}
	sort.SliceStable(uses, func(i, j int) bool {
		return uses[i].UsedAt.After(uses[j].UsedAt)
	})

	total := int64(len(uses))
	offset := (page - 1) * pageSize
	if offset >= len(uses) {
		return []models.CouponUse{}, total, nil
	}
	end := offset + pageSize
	if end > len(uses) {
		end = len(uses)
	}
	return uses[offset:end], total, nil
}

func copyState(s *gamification.State) *gamification.State {
	c := *s
	c.StoresVisited = append([]string{}, s.StoresVisited...)
	c.CouponTypesUsed = append([]string{}, s.CouponTypesUsed...)
	c.UnlockedAchievements = append([]string{}, s.UnlockedAchievements...)
	c.StoreUsageCounts = map[string]int{}
	for k, v := range s.StoreUsageCounts {
		c.StoreUsageCounts[k] = v
	}
	return &c
}
