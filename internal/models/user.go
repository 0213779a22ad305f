package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an operator account for the admin API. Affiliates themselves never
// log in here; approvals, rejections and fraud flags reference a User ID.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null"`
	Name         string `gorm:"not null"`
	Role         string `gorm:"default:'operator'"`
	Status       string `gorm:"default:'active'"`
	LastLoginAt  time.Time
	LastLoginIP  string
	TokenVersion int `gorm:"default:1"`
}
