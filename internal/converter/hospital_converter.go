package converter

import (
	"health-concierge/internal/domain/entity"
)

func (m *Mapper) HospitalFromRecord(rec Record) (*entity.Hospital, error) {
	r, err := m.reader(HospitalSchema, rec)
	if err != nil {
		return nil, err
	}
	h := &entity.Hospital{
		ID:       r.uuid("id"),
		Name:     r.str("name"),
		Location: r.str("location"),
		City:     r.str("city"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return h, nil
}

func HospitalToRecord(h *entity.Hospital) Record {
	return Record{
		"id":       h.ID.String(),
		"name":     h.Name,
		"location": h.Location,
		"city":     h.City,
	}
}
