package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the amount billed when a session completes.
type Invoice struct {
	Amount decimal.Decimal `json:"amount"`
	Review string          `json:"review,omitempty"`
	PaidAt *time.Time      `json:"paidAt,omitempty"`
}

// HospitalSession is a request for an assistant to accompany a patient at a
// hospital.
type HospitalSession struct {
	ID                 uuid.UUID     `json:"id"`
	PatientID          *uuid.UUID    `json:"patientId,omitempty"`
	PatientName        string        `json:"patientName"`
	PatientGender      string        `json:"patientGender"`
	PatientAgeRange    string        `json:"patientAgeRange"`
	SpecialService     string        `json:"specialService,omitempty"`
	HospitalID         uuid.UUID     `json:"hospitalId"`
	HospitalName       string        `json:"hospitalName"`
	AssistantID        *uuid.UUID    `json:"assistantId,omitempty"`
	Status             RequestStatus `json:"status"`
	CreatedAt          time.Time     `json:"createdAt"`
	AcceptedAt         *time.Time    `json:"acceptedAt,omitempty"`
	CompletedAt        *time.Time    `json:"completedAt,omitempty"`
	RequesterName      string        `json:"requesterName"`
	IsRequesterPatient bool          `json:"isRequesterPatient"`
	EstimatedArrival   string        `json:"estimatedArrival,omitempty"`
	Location           string        `json:"location,omitempty"`
	HasInsurance       *bool         `json:"hasInsurance,omitempty"`
	InsuranceProvider  string        `json:"insuranceProvider,omitempty"`
	HasCard            *bool         `json:"hasCard,omitempty"`
	Notes              string        `json:"notes,omitempty"`
	Invoice            *Invoice      `json:"invoice,omitempty"`
}

func (HospitalSession) TableName() string {
	return "hospital_sessions"
}

func (s *HospitalSession) RequestID() uuid.UUID     { return s.ID }
func (s *HospitalSession) RequestKind() RequestKind { return KindHospitalSession }

func (s *HospitalSession) Timeline() Timeline {
	return Timeline{Status: s.Status, CreatedAt: s.CreatedAt, AcceptedAt: s.AcceptedAt, ClosedAt: s.CompletedAt}
}

func (s *HospitalSession) ApplyStatusChange(change StatusChange) {
	s.Status = change.To
	if change.StampAccepted {
		at := change.At
		s.AcceptedAt = &at
	}
	if change.StampClosed {
		at := change.At
		s.CompletedAt = &at
	}
}

func (s *HospitalSession) AssignedAssistant() *uuid.UUID { return s.AssistantID }

func (s *HospitalSession) AssignAssistant(id uuid.UUID) { s.AssistantID = &id }

func (s *HospitalSession) SetInvoice(amount decimal.Decimal, review string) {
	s.Invoice = &Invoice{Amount: amount, Review: review}
}
