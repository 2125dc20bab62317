package model

import (
	"time"
)

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

type User struct {
	BaseModel
	Name           string     `gorm:"size:100;uniqueIndex;not null" json:"Name"`
	Email          string     `gorm:"size:100;uniqueIndex;not null" json:"Email"`
	Password       string     `gorm:"size:100;not null" json:"-"`
	Role           UserRole   `gorm:"size:20;default:'student'" json:"Role"`
	ClassGroup     string     `gorm:"size:100" json:"ClassGroup,omitempty"`
	XP             int        `gorm:"default:0" json:"XP"`
	Streak         int        `gorm:"default:0" json:"Streak"` // consecutive calendar days with a settled session
	LastActiveDate *time.Time `json:"LastActiveDate"`          // date of the most recent settlement, nil before the first
	LastLogin      time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"LastLogin"`
	LastSeen       time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"LastSeen"`
}

func (User) TableName() string {
	return "users"
}
