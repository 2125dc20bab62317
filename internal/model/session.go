package model

import (
	"time"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// Session is one diagnostic encounter between a learner and a case. The
// status moves Active -> Completed exactly once, stamped by settlement.
type Session struct {
	UUIDBase
	UserID         uint          `gorm:"index;not null" json:"userId"`
	CaseID         uint          `gorm:"index;not null" json:"caseId"`
	StartedAt      time.Time     `gorm:"not null" json:"startedAt"`
	EndedAt        *time.Time    `json:"endedAt"`
	Status         SessionStatus `gorm:"size:20;not null;default:'active';index" json:"status"`
	VerdictCorrect *bool         `json:"verdictCorrect"`

	Case Case `gorm:"foreignKey:CaseID" json:"-"`
}

func (Session) TableName() string {
	return "sessions"
}
