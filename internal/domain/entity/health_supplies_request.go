package entity

import (
	"time"

	"github.com/google/uuid"
)

// Urgency of a supplies order.
type Urgency string

const (
	UrgencyUrgent    Urgency = "urgent"
	UrgencyNotUrgent Urgency = "not-urgent"
	UrgencyFlexible  Urgency = "flexible"
)

// RecipientType says who the supplies are for.
type RecipientType string

const (
	RecipientSelf        RecipientType = "self"
	RecipientSomeoneElse RecipientType = "someone-else"
)

// HealthSuppliesRequest is an order for medication or supplies delivered to an
// address.
type HealthSuppliesRequest struct {
	ID                 uuid.UUID     `json:"id"`
	ProfileID          *uuid.UUID    `json:"profileId,omitempty"`
	HasPrescription    bool          `json:"hasPrescription"`
	PrescriptionImages StringList    `json:"prescriptionImages"`
	ItemsNeeded        string        `json:"itemsNeeded,omitempty"`
	DeliveryAddress    string        `json:"deliveryAddress"`
	Urgency            Urgency       `json:"urgency"`
	FlexibleDate       *time.Time    `json:"flexibleDate,omitempty"`
	RecipientType      RecipientType `json:"recipientType"`
	RecipientName      string        `json:"recipientName,omitempty"`
	RecipientGender    string        `json:"recipientGender,omitempty"`
	RecipientAge       string        `json:"recipientAge,omitempty"`
	RequesterName      string        `json:"requesterName"`
	AssistantID        *uuid.UUID    `json:"assistantId,omitempty"`
	Status             RequestStatus `json:"status"`
	CreatedAt          time.Time     `json:"createdAt"`
	AssignedAt         *time.Time    `json:"assignedAt,omitempty"`
	DeliveredAt        *time.Time    `json:"deliveredAt,omitempty"`
	Notes              string        `json:"notes,omitempty"`
}

func (HealthSuppliesRequest) TableName() string {
	return "health_supplies_requests"
}

func (r *HealthSuppliesRequest) RequestID() uuid.UUID     { return r.ID }
func (r *HealthSuppliesRequest) RequestKind() RequestKind { return KindHealthSupplies }

func (r *HealthSuppliesRequest) Timeline() Timeline {
	return Timeline{Status: r.Status, CreatedAt: r.CreatedAt, AcceptedAt: r.AssignedAt, ClosedAt: r.DeliveredAt}
}

func (r *HealthSuppliesRequest) ApplyStatusChange(change StatusChange) {
	r.Status = change.To
	if change.StampAccepted {
		at := change.At
		r.AssignedAt = &at
	}
	if change.StampClosed {
		at := change.At
		r.DeliveredAt = &at
	}
}

func (r *HealthSuppliesRequest) AssignedAssistant() *uuid.UUID { return r.AssistantID }

func (r *HealthSuppliesRequest) AssignAssistant(id uuid.UUID) { r.AssistantID = &id }
