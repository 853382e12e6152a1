package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingModel is how an assistant charges for a session.
type PricingModel string

const (
	PricingFixed   PricingModel = "fixed"
	PricingHourly  PricingModel = "hourly"
	PricingBespoke PricingModel = "bespoke"
)

func (p PricingModel) IsValid() bool {
	return p == PricingFixed || p == PricingHourly || p == PricingBespoke
}

// VerificationStatus tracks KYC review of an assistant.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// RateRange is the price band of a bespoke assistant.
type RateRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Assistant is a healthcare worker offering services on the platform.
type Assistant struct {
	ID                 uuid.UUID          `json:"id"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone"`
	Address            string             `json:"address,omitempty"`
	Photo              string             `json:"photo,omitempty"`
	Role               string             `json:"role"`
	IDPhoto            string             `json:"idPhoto,omitempty"`
	OtherDetails       string             `json:"otherDetails,omitempty"`
	Services           StringList         `json:"services"`
	PricingModel       PricingModel       `json:"pricingModel"`
	Rate               *decimal.Decimal   `json:"rate,omitempty"`
	RateRange          *RateRange         `json:"rateRange,omitempty"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	CreatedAt          time.Time          `json:"createdAt"`
}

func (Assistant) TableName() string {
	return "assistants"
}

// HasValidPricing checks the rate fields agree with the pricing model.
func (a *Assistant) HasValidPricing() bool {
	switch a.PricingModel {
	case PricingFixed, PricingHourly:
		return a.Rate != nil && a.Rate.IsPositive()
	case PricingBespoke:
		return a.RateRange != nil && a.RateRange.Min.IsPositive() && a.RateRange.Min.LessThanOrEqual(a.RateRange.Max)
	}
	return false
}

// AssistantBundle is everything the assistant dashboard needs in one fetch.
type AssistantBundle struct {
	Assistant              *Assistant              `json:"assistant"`
	HospitalSessions       []HospitalSession       `json:"hospitalSessions"`
	HomeCareRequests       []HomeCareRequest       `json:"homeCareRequests"`
	HealthSuppliesRequests []HealthSuppliesRequest `json:"healthSuppliesRequests"`
	LiveSession            *LiveSession            `json:"liveSession"`
}
