package dto

type CreatePatientRequest struct {
	Name              string `json:"name" validate:"required"`
	Contact           string `json:"contact" validate:"required"`
	Location          string `json:"location" validate:"required"`
	IsPatient         bool   `json:"isPatient"`
	HasInsurance      bool   `json:"hasInsurance"`
	InsuranceProvider string `json:"insuranceProvider" validate:"required_if=HasInsurance true"`
	InsuranceNumber   string `json:"insuranceNumber"`
	HasCard           bool   `json:"hasCard"`
	CardPhoto         string `json:"cardPhoto"`
	CardDetails       string `json:"cardDetails"`
	IDPhoto           string `json:"idPhoto"`
}

type UpdatePatientRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1"`
	Contact           *string `json:"contact" validate:"omitempty,min=1"`
	Location          *string `json:"location" validate:"omitempty,min=1"`
	IsPatient         *bool   `json:"isPatient"`
	HasInsurance      *bool   `json:"hasInsurance"`
	InsuranceProvider *string `json:"insuranceProvider"`
	InsuranceNumber   *string `json:"insuranceNumber"`
	HasCard           *bool   `json:"hasCard"`
	CardPhoto         *string `json:"cardPhoto"`
	CardDetails       *string `json:"cardDetails"`
	IDPhoto           *string `json:"idPhoto"`
}
