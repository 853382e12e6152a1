package converter

import (
	"health-concierge/internal/domain/entity"
)

func (m *Mapper) PatientFromRecord(rec Record) (*entity.Patient, error) {
	r, err := m.reader(PatientSchema, rec)
	if err != nil {
		return nil, err
	}
	p := &entity.Patient{
		ID:                r.uuid("id"),
		Name:              r.str("name"),
		Contact:           r.str("contact"),
		Location:          r.str("location"),
		IsPatient:         r.boolean("is_patient"),
		HasInsurance:      r.boolean("has_insurance"),
		InsuranceProvider: r.str("insurance_provider"),
		InsuranceNumber:   r.str("insurance_number"),
		HasCard:           r.boolean("has_card"),
		CardPhoto:         r.str("card_photo"),
		CardDetails:       r.str("card_details"),
		IDPhoto:           r.str("id_photo"),
		CreatedAt:         r.time("created_at"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

func PatientToRecord(p *entity.Patient) Record {
	rec := Record{
		"id":                 p.ID.String(),
		"name":               p.Name,
		"contact":            p.Contact,
		"location":           p.Location,
		"is_patient":         p.IsPatient,
		"has_insurance":      p.HasInsurance,
		"insurance_provider": nullString(p.InsuranceProvider),
		"insurance_number":   nullString(p.InsuranceNumber),
		"has_card":           p.HasCard,
		"card_photo":         nullString(p.CardPhoto),
		"card_details":       nullString(p.CardDetails),
		"id_photo":           nullString(p.IDPhoto),
	}
	if !p.CreatedAt.IsZero() {
		rec["created_at"] = p.CreatedAt.UTC()
	}
	return rec
}
