package converter

import (
	"health-concierge/internal/domain/entity"
)

// AssistantFromRecord decodes an assistants row. rate_min and rate_max are
// folded into RateRange only when both are present.
func (m *Mapper) AssistantFromRecord(rec Record) (*entity.Assistant, error) {
	r, err := m.reader(AssistantSchema, rec)
	if err != nil {
		return nil, err
	}

	a := &entity.Assistant{
		ID:                 r.uuid("id"),
		Name:               r.str("name"),
		Email:              r.str("email"),
		Phone:              r.str("phone"),
		Address:            r.str("address"),
		Photo:              r.str("photo"),
		Role:               r.str("role"),
		IDPhoto:            r.str("id_photo"),
		OtherDetails:       r.str("other_details"),
		Services:           r.list("services"),
		PricingModel:       entity.PricingModel(r.str("pricing_model")),
		Rate:               r.decimal("rate"),
		VerificationStatus: entity.VerificationStatus(r.str("verification_status")),
		CreatedAt:          r.time("created_at"),
	}
	minRate, maxRate := r.decimal("rate_min"), r.decimal("rate_max")
	if minRate != nil && maxRate != nil {
		a.RateRange = &entity.RateRange{Min: *minRate, Max: *maxRate}
	}
	if r.err != nil {
		return nil, r.err
	}
	return a, nil
}

// AssistantToRecord encodes a for the assistants table. A zero CreatedAt is
// left out so the store default applies.
func AssistantToRecord(a *entity.Assistant) Record {
	rec := Record{
		"id":                  a.ID.String(),
		"name":                a.Name,
		"email":               a.Email,
		"phone":               a.Phone,
		"address":             nullString(a.Address),
		"photo":               nullString(a.Photo),
		"role":                a.Role,
		"id_photo":            nullString(a.IDPhoto),
		"other_details":       nullString(a.OtherDetails),
		"services":            listValue(a.Services),
		"pricing_model":       string(a.PricingModel),
		"rate":                nullDecimal(a.Rate),
		"rate_min":            nil,
		"rate_max":            nil,
		"verification_status": string(a.VerificationStatus),
	}
	if a.RateRange != nil {
		rec["rate_min"] = a.RateRange.Min
		rec["rate_max"] = a.RateRange.Max
	}
	if !a.CreatedAt.IsZero() {
		rec["created_at"] = a.CreatedAt.UTC()
	}
	return rec
}

func (m *Mapper) AssistantsFromRecords(recs []Record) ([]entity.Assistant, error) {
	out := make([]entity.Assistant, 0, len(recs))
	for _, rec := range recs {
		a, err := m.AssistantFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}
