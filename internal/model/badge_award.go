package model

import (
	"time"
)

type BadgeKind string

const (
	BadgeSpeedster BadgeKind = "speedster"
)

// BadgeAward records an earned badge. The unique index on (user_id, kind)
// makes awarding idempotent at the schema level, independent of any runtime
// existence check.
type BadgeAward struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_badge_kind" json:"userId"`
	Kind      BadgeKind `gorm:"size:50;not null;uniqueIndex:idx_user_badge_kind" json:"kind"`
	AwardedAt time.Time `gorm:"not null" json:"awardedAt"`
}

func (BadgeAward) TableName() string {
	return "badge_awards"
}
