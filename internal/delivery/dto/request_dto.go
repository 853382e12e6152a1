package dto

import (
	"time"

	"health-concierge/internal/domain/entity"
	"health-concierge/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type HospitalSessionRequest struct {
	PatientID          *uuid.UUID `json:"patientId"`
	PatientName        string     `json:"patientName" validate:"required"`
	PatientGender      string     `json:"patientGender" validate:"required"`
	PatientAgeRange    string     `json:"patientAgeRange" validate:"required"`
	SpecialService     string     `json:"specialService"`
	HospitalID         uuid.UUID  `json:"hospitalId" validate:"required"`
	HospitalName       string     `json:"hospitalName" validate:"required"`
	AssistantID        *uuid.UUID `json:"assistantId"`
	RequesterName      string     `json:"requesterName" validate:"required"`
	IsRequesterPatient bool       `json:"isRequesterPatient"`
	EstimatedArrival   string     `json:"estimatedArrival"`
	Location           string     `json:"location"`
	HasInsurance       *bool      `json:"hasInsurance"`
	InsuranceProvider  string     `json:"insuranceProvider"`
	HasCard            *bool      `json:"hasCard"`
	Notes              string     `json:"notes"`
}

func (r *HospitalSessionRequest) ValidateConditions(errs *validator.Errors) {
	if r.HasInsurance != nil && *r.HasInsurance {
		errs.Require(r.InsuranceProvider != "", "insuranceProvider")
	}
}

type HomeCareRequestForm struct {
	ProfileID        *uuid.UUID `json:"profileId"`
	Address          string     `json:"address" validate:"required"`
	Latitude         *float64   `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude        *float64   `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	IsPatient        *bool      `json:"isPatient" validate:"required"`
	PatientGender    string     `json:"patientGender"`
	PatientAge       string     `json:"patientAge"`
	Services         []string   `json:"services" validate:"required,min=1,dive,healthcare_service"`
	IsAtLocation     *bool      `json:"isAtLocation" validate:"required"`
	ContactPerson    string     `json:"contactPerson"`
	PatientName      string     `json:"patientName"`
	RequesterName    string     `json:"requesterName" validate:"required"`
	RequesterContact string     `json:"requesterContact"`
	ScheduledAt      *time.Time `json:"scheduledAt"`
	Notes            string     `json:"notes"`
}

// ValidateConditions asks for the patient's details when the requester is
// someone else, and for an on-site contact when the requester is away.
func (r *HomeCareRequestForm) ValidateConditions(errs *validator.Errors) {
	if r.IsPatient != nil && !*r.IsPatient {
		errs.Require(r.PatientName != "", "patientName")
		errs.Require(r.PatientGender != "", "patientGender")
		errs.Require(r.PatientAge != "", "patientAge")
	}
	if r.IsAtLocation != nil && !*r.IsAtLocation {
		errs.Require(r.ContactPerson != "", "contactPerson")
		if r.IsPatient != nil && *r.IsPatient {
			errs.Require(r.PatientName != "", "patientName")
		}
	}
}

type HealthSuppliesRequestForm struct {
	ProfileID          *uuid.UUID           `json:"profileId"`
	HasPrescription    *bool                `json:"hasPrescription" validate:"required"`
	PrescriptionImages []string             `json:"prescriptionImages"`
	ItemsNeeded        string               `json:"itemsNeeded"`
	DeliveryAddress    string               `json:"deliveryAddress" validate:"required"`
	Urgency            entity.Urgency       `json:"urgency" validate:"required,oneof=urgent not-urgent flexible"`
	FlexibleDate       *time.Time           `json:"flexibleDate"`
	RecipientType      entity.RecipientType `json:"recipientType" validate:"required,oneof=self someone-else"`
	RecipientName      string               `json:"recipientName"`
	RecipientGender    string               `json:"recipientGender"`
	RecipientAge       string               `json:"recipientAge"`
	RequesterName      string               `json:"requesterName" validate:"required"`
	Notes              string               `json:"notes"`
}

func (r *HealthSuppliesRequestForm) ValidateConditions(errs *validator.Errors) {
	if r.HasPrescription != nil {
		if *r.HasPrescription {
			errs.Check(len(r.PrescriptionImages) > 0, "prescriptionImages", "at least one prescription image is required")
		} else {
			errs.Require(r.ItemsNeeded != "", "itemsNeeded")
		}
	}
	if r.Urgency == entity.UrgencyFlexible {
		errs.Check(r.FlexibleDate != nil, "flexibleDate", "flexibleDate is required for flexible urgency")
	}
	if r.RecipientType == entity.RecipientSomeoneElse {
		errs.Require(r.RecipientName != "", "recipientName")
		errs.Require(r.RecipientGender != "", "recipientGender")
		errs.Require(r.RecipientAge != "", "recipientAge")
	}
}

// TransitionRequest moves a request to a new status. InvoiceAmount overrides
// the computed invoice on completion and is required for bespoke pricing.
type TransitionRequest struct {
	Status        entity.RequestStatus `json:"status" validate:"required"`
	InvoiceAmount *decimal.Decimal     `json:"invoiceAmount"`
	InvoiceReview string               `json:"invoiceReview"`
}

func (r *TransitionRequest) ValidateConditions(errs *validator.Errors) {
	if r.InvoiceAmount != nil {
		errs.Check(!r.InvoiceAmount.IsNegative(), "invoiceAmount", "invoiceAmount must not be negative")
	}
}
