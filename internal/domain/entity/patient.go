package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the service recipient profile created on first request.
type Patient struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Contact           string    `json:"contact"`
	Location          string    `json:"location"`
	IsPatient         bool      `json:"isPatient"`
	HasInsurance      bool      `json:"hasInsurance"`
	InsuranceProvider string    `json:"insuranceProvider,omitempty"`
	InsuranceNumber   string    `json:"insuranceNumber,omitempty"`
	HasCard           bool      `json:"hasCard"`
	CardPhoto         string    `json:"cardPhoto,omitempty"`
	CardDetails       string    `json:"cardDetails,omitempty"`
	IDPhoto           string    `json:"idPhoto,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

func (Patient) TableName() string {
	return "patients"
}
