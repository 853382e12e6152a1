package dto

import (
	"health-concierge/internal/domain/entity"
	"health-concierge/pkg/validator"

	"github.com/shopspring/decimal"
)

// CreateAssistantRequest is the full profile submitted at the end of
// onboarding.
type CreateAssistantRequest struct {
	Name         string              `json:"name" validate:"required"`
	Email        string              `json:"email" validate:"required,email"`
	Phone        string              `json:"phone" validate:"required"`
	Address      string              `json:"address"`
	Photo        string              `json:"photo"`
	Role         string              `json:"role" validate:"required,healthcare_role"`
	IDPhoto      string              `json:"idPhoto"`
	OtherDetails string              `json:"otherDetails"`
	Services     []string            `json:"services" validate:"required,min=1,dive,healthcare_service"`
	PricingModel entity.PricingModel `json:"pricingModel" validate:"required,oneof=fixed hourly bespoke"`
	Rate         *decimal.Decimal    `json:"rate"`
	RateRange    *entity.RateRange   `json:"rateRange"`
}

func (r *CreateAssistantRequest) ValidateConditions(errs *validator.Errors) {
	validatePricing(errs, r.PricingModel, r.Rate, r.RateRange)
}

// UpdateAssistantRequest changes only the fields that are set.
type UpdateAssistantRequest struct {
	Name               *string                     `json:"name" validate:"omitempty,min=1"`
	Email              *string                     `json:"email" validate:"omitempty,email"`
	Phone              *string                     `json:"phone" validate:"omitempty,min=1"`
	Address            *string                     `json:"address"`
	Photo              *string                     `json:"photo"`
	Role               *string                     `json:"role" validate:"omitempty,healthcare_role"`
	IDPhoto            *string                     `json:"idPhoto"`
	OtherDetails       *string                     `json:"otherDetails"`
	Services           []string                    `json:"services" validate:"omitempty,min=1,dive,healthcare_service"`
	PricingModel       *entity.PricingModel        `json:"pricingModel" validate:"omitempty,oneof=fixed hourly bespoke"`
	Rate               *decimal.Decimal            `json:"rate"`
	RateRange          *entity.RateRange           `json:"rateRange"`
	VerificationStatus *entity.VerificationStatus `json:"verificationStatus" validate:"omitempty,oneof=pending verified rejected"`
}

// CheckExistingQuery holds the contact details an onboarding assistant
// entered. Either may be empty.
type CheckExistingQuery struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CheckExistingResponse struct {
	Exists    bool              `json:"exists"`
	Assistant *entity.Assistant `json:"assistant,omitempty"`
}

func validatePricing(errs *validator.Errors, model entity.PricingModel, rate *decimal.Decimal, rateRange *entity.RateRange) {
	switch model {
	case entity.PricingFixed, entity.PricingHourly:
		errs.Check(rate != nil && rate.IsPositive(), "rate", "rate must be greater than 0 for "+string(model)+" pricing")
	case entity.PricingBespoke:
		errs.Check(rateRange != nil && rateRange.Min.IsPositive() && rateRange.Min.LessThanOrEqual(rateRange.Max),
			"rateRange", "rateRange needs 0 < min <= max for bespoke pricing")
	}
}
