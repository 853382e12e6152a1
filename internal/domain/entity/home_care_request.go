package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HomeCareRequest asks for an assistant to visit a patient at an address.
type HomeCareRequest struct {
	ID               uuid.UUID        `json:"id"`
	ProfileID        *uuid.UUID       `json:"profileId,omitempty"`
	Address          string           `json:"address"`
	Latitude         *float64         `json:"latitude,omitempty"`
	Longitude        *float64         `json:"longitude,omitempty"`
	IsPatient        bool             `json:"isPatient"`
	PatientGender    string           `json:"patientGender,omitempty"`
	PatientAge       string           `json:"patientAge,omitempty"`
	Services         StringList       `json:"services"`
	IsAtLocation     bool             `json:"isAtLocation"`
	ContactPerson    string           `json:"contactPerson,omitempty"`
	PatientName      string           `json:"patientName,omitempty"`
	RequesterName    string           `json:"requesterName"`
	RequesterContact string           `json:"requesterContact,omitempty"`
	AssistantID      *uuid.UUID       `json:"assistantId,omitempty"`
	Status           RequestStatus    `json:"status"`
	CreatedAt        time.Time        `json:"createdAt"`
	ScheduledAt      *time.Time       `json:"scheduledAt,omitempty"`
	AcceptedAt       *time.Time       `json:"acceptedAt,omitempty"`
	CompletedAt      *time.Time       `json:"completedAt,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	InvoiceAmount    *decimal.Decimal `json:"invoiceAmount,omitempty"`
	InvoicePaidAt    *time.Time       `json:"invoicePaidAt,omitempty"`
}

func (HomeCareRequest) TableName() string {
	return "home_care_requests"
}

func (r *HomeCareRequest) RequestID() uuid.UUID     { return r.ID }
func (r *HomeCareRequest) RequestKind() RequestKind { return KindHomeCare }

func (r *HomeCareRequest) Timeline() Timeline {
	return Timeline{Status: r.Status, CreatedAt: r.CreatedAt, AcceptedAt: r.AcceptedAt, ClosedAt: r.CompletedAt}
}

func (r *HomeCareRequest) ApplyStatusChange(change StatusChange) {
	r.Status = change.To
	if change.StampAccepted {
		at := change.At
		r.AcceptedAt = &at
	}
	if change.StampClosed {
		at := change.At
		r.CompletedAt = &at
	}
}

func (r *HomeCareRequest) AssignedAssistant() *uuid.UUID { return r.AssistantID }

func (r *HomeCareRequest) AssignAssistant(id uuid.UUID) { r.AssistantID = &id }

// SetInvoice records the amount; home-care rows carry no review text.
func (r *HomeCareRequest) SetInvoice(amount decimal.Decimal, _ string) {
	r.InvoiceAmount = &amount
}
