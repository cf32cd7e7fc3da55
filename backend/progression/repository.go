package progression

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cupomgo/backend/gamification"
	"cupomgo/backend/models"
)

// Repository is the durable store for per-user progression state and
// the append-only usage history.
type Repository interface {
	// CreateState provisions the zeroed state for a new account.
	CreateState(email string) error
	// GetState loads the state for email, or ErrUserNotFound.
	GetState(email string) (*gamification.State, error)
	// UpdateState runs fn on the current state and persists the result
	// as a single atomic read-modify-write. Concurrent updates for the
	// same email never lose writes.
	UpdateState(email string, fn func(*gamification.State) error) (*gamification.State, error)
	// AppendUsage records one coupon use in the history log.
	AppendUsage(use *models.CouponUse) error
	// ListUsage returns a page of the user's history, newest first,
	// with the total row count. Out-of-range page and pageSize values
	// are clamped, not rejected.
	ListUsage(email string, page, pageSize int) ([]models.CouponUse, int64, error)
}

// clampPage normalizes pagination input so both repository
// implementations accept the same domain.
func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return page, pageSize
}

type gormRepository struct {
	db     *gorm.DB
	logger *log.Logger
}

// NewGormRepository returns the Postgres-backed Repository.
func NewGormRepository(db *gorm.DB, logger *log.Logger) Repository {
	return &gormRepository{db: db, logger: logger}
}

// NewStateRow returns the zeroed persisted row for a fresh account.
// Account provisioning must insert it in the same transaction that
// inserts the user, so no account ever exists without its state.
func NewStateRow(email string) models.UserProgression {
	return models.UserProgression{
		Email:                email,
		Level:                gamification.Levels[0].ID,
		StoresVisited:        "[]",
		CouponTypesUsed:      "[]",
		StoreUsageCounts:     "{}",
		UnlockedAchievements: "[]",
	}
}

func (r *gormRepository) CreateState(email string) error {
	row := NewStateRow(email)
	if err := r.db.Create(&row).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	return nil
}

func (r *gormRepository) GetState(email string) (*gamification.State, error) {
	var row models.UserProgression
	if err := r.db.Where("email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return decodeState(&row, r.logger), nil
}

// UpdateState locks the user's row for the duration of the transaction
// so concurrent events for the same user serialize instead of losing
// updates.
func (r *gormRepository) UpdateState(email string, fn func(*gamification.State) error) (*gamification.State, error) {
	var state *gamification.State

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var row models.UserProgression
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email = ?", email).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		state = decodeState(&row, r.logger)
		if err := fn(state); err != nil {
			return err
		}

		encodeState(&row, state)
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStoreWrite, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (r *gormRepository) AppendUsage(use *models.CouponUse) error {
	if err := r.db.Create(use).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	return nil
}

func (r *gormRepository) ListUsage(email string, page, pageSize int) ([]models.CouponUse, int64, error) {
	page, pageSize = clampPage(page, pageSize)

	query := r.db.Model(&models.CouponUse{}).Where("email = ?", email)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var uses []models.CouponUse
	offset := (page - 1) * pageSize
	if err := query.Order("used_at DESC").Offset(offset).Limit(pageSize).Find(&uses).Error; err != nil {
		return nil, 0, err
	}
	return uses, total, nil
}
