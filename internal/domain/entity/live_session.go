package entity

import (
	"time"

	"github.com/google/uuid"
)

// LiveSession is an assistant's declared availability window at a hospital.
// An open window has EndedAt == nil.
type LiveSession struct {
	ID           uuid.UUID  `json:"id"`
	AssistantID  uuid.UUID  `json:"assistantId"`
	HospitalID   uuid.UUID  `json:"hospitalId"`
	HospitalName string     `json:"hospitalName"`
	FromDate     string     `json:"fromDate"`
	FromTime     string     `json:"fromTime"`
	ToDate       string     `json:"toDate"`
	ToTime       string     `json:"toTime"`
	StartedAt    time.Time  `json:"startedAt"`
	EndedAt      *time.Time `json:"endedAt,omitempty"`
	OfflineNotes string     `json:"offlineNotes,omitempty"`
}

func (LiveSession) TableName() string {
	return "live_sessions"
}

func (l *LiveSession) IsActive() bool {
	return l.EndedAt == nil
}
