package converter

import (
	"health-concierge/internal/domain/entity"
)

func (m *Mapper) LiveSessionFromRecord(rec Record) (*entity.LiveSession, error) {
	r, err := m.reader(LiveSessionSchema, rec)
	if err != nil {
		return nil, err
	}
	l := &entity.LiveSession{
		ID:           r.uuid("id"),
		AssistantID:  r.uuid("assistant_id"),
		HospitalID:   r.uuid("hospital_id"),
		HospitalName: r.str("hospital_name"),
		FromDate:     r.str("from_date"),
		FromTime:     r.str("from_time"),
		ToDate:       r.str("to_date"),
		ToTime:       r.str("to_time"),
		StartedAt:    r.time("started_at"),
		EndedAt:      r.optTime("ended_at"),
		OfflineNotes: r.str("offline_notes"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return l, nil
}

func LiveSessionToRecord(l *entity.LiveSession) Record {
	rec := Record{
		"id":            l.ID.String(),
		"assistant_id":  l.AssistantID.String(),
		"hospital_id":   l.HospitalID.String(),
		"hospital_name": l.HospitalName,
		"from_date":     l.FromDate,
		"from_time":     l.FromTime,
		"to_date":       l.ToDate,
		"to_time":       l.ToTime,
		"ended_at":      nullTime(l.EndedAt),
		"offline_notes": nullString(l.OfflineNotes),
	}
	if !l.StartedAt.IsZero() {
		rec["started_at"] = l.StartedAt.UTC()
	}
	return rec
}
