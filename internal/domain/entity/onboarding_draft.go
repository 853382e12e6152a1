package entity

import "github.com/shopspring/decimal"

// OnboardingDraft is a partially filled assistant profile kept per device
// until the assistant submits it.
type OnboardingDraft struct {
	Name         *string          `json:"name,omitempty"`
	Email        *string          `json:"email,omitempty"`
	Phone        *string          `json:"phone,omitempty"`
	Address      *string          `json:"address,omitempty"`
	Photo        *string          `json:"photo,omitempty"`
	Role         *string          `json:"role,omitempty"`
	IDPhoto      *string          `json:"idPhoto,omitempty"`
	OtherDetails *string          `json:"otherDetails,omitempty"`
	Services     []string         `json:"services,omitempty"`
	PricingModel *PricingModel    `json:"pricingModel,omitempty"`
	Rate         *decimal.Decimal `json:"rate,omitempty"`
	RateRange    *RateRange       `json:"rateRange,omitempty"`
}

// Merge overlays the non-nil fields of updates onto d.
func (d *OnboardingDraft) Merge(updates OnboardingDraft) {
	if updates.Name != nil {
		d.Name = updates.Name
	}
	if updates.Email != nil {
		d.Email = updates.Email
	}
	if updates.Phone != nil {
		d.Phone = updates.Phone
	}
	if updates.Address != nil {
		d.Address = updates.Address
	}
	if updates.Photo != nil {
		d.Photo = updates.Photo
	}
	if updates.Role != nil {
		d.Role = updates.Role
	}
	if updates.IDPhoto != nil {
		d.IDPhoto = updates.IDPhoto
	}
	if updates.OtherDetails != nil {
		d.OtherDetails = updates.OtherDetails
	}
	if updates.Services != nil {
		d.Services = updates.Services
	}
	if updates.PricingModel != nil {
		d.PricingModel = updates.PricingModel
	}
	if updates.Rate != nil {
		d.Rate = updates.Rate
	}
	if updates.RateRange != nil {
		d.RateRange = updates.RateRange
	}
}

// ToAssistant builds the profile the draft describes, pending verification.
func (d *OnboardingDraft) ToAssistant() *Assistant {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	a := &Assistant{
		Name:               deref(d.Name),
		Email:              deref(d.Email),
		Phone:              deref(d.Phone),
		Address:            deref(d.Address),
		Photo:              deref(d.Photo),
		Role:               deref(d.Role),
		IDPhoto:            deref(d.IDPhoto),
		OtherDetails:       deref(d.OtherDetails),
		Services:           StringList(d.Services),
		Rate:               d.Rate,
		RateRange:          d.RateRange,
		VerificationStatus: VerificationPending,
	}
	if d.PricingModel != nil {
		a.PricingModel = *d.PricingModel
	}
	return a
}
