package models

import (
	"time"

	"gorm.io/gorm"
)

// UserProgression is the persisted per-user gamification record. The
// list and map fields are stored as JSON text; the progression package
// owns encoding and decoding.
type UserProgression struct {
	gorm.Model
	Email                string  `gorm:"uniqueIndex;not null"`
	CouponsUsed          int     `gorm:"default:0"`
	TotalSaved           float64 `gorm:"default:0"`
	XP                   int     `gorm:"default:0"`
	Level                int     `gorm:"default:1"`
	StoresVisited        string  `gorm:"type:text;default:'[]'"`
	CouponTypesUsed      string  `gorm:"type:text;default:'[]'"`
	StoreUsageCounts     string  `gorm:"type:text;default:'{}'"`
	UnlockedAchievements string  `gorm:"type:text;default:'[]'"`
	LastCouponAt         *time.Time
}

// CouponUse is one row of the append-only usage history log.
type CouponUse struct {
	gorm.Model
	PublicID   string `gorm:"uniqueIndex;not null"`
	Email      string `gorm:"index;not null"`
	Store      string
	CouponType string
	Value      float64
	Location   string
	UsedAt     time.Time
}
