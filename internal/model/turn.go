package model

import (
	"time"
)

type Speaker string

const (
	SpeakerLearner Speaker = "learner"
	SpeakerPatient Speaker = "patient"
)

// Turn is one message inside a session. Seq is strictly increasing per
// session; the unique composite index rejects duplicate sequence numbers.
type Turn struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"size:36;not null;uniqueIndex:idx_turn_session_seq" json:"sessionId"`
	Seq       int       `gorm:"not null;uniqueIndex:idx_turn_session_seq" json:"seq"`
	Speaker   Speaker   `gorm:"size:20;not null" json:"speaker"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Turn) TableName() string {
	return "turns"
}
