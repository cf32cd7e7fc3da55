package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"default:user"` // user, admin
	City         string
}

type LoginHistory struct {
	gorm.Model
	UserID    uint
	LoginTime time.Time
}
