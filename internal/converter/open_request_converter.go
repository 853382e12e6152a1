package converter

import (
	"health-concierge/internal/domain/entity"
)

// OpenRequestFromRecord decodes a cached request summary.
func (m *Mapper) OpenRequestFromRecord(rec Record) (*entity.OpenRequest, error) {
	r, err := m.reader(RequestSummarySchema, rec)
	if err != nil {
		return nil, err
	}
	o := &entity.OpenRequest{
		ID:               r.uuid("id"),
		Kind:             entity.RequestKind(r.str("kind")),
		KindLabel:        r.str("kind_label"),
		Title:            r.str("title"),
		Subtitle:         r.str("subtitle"),
		Location:         r.str("location"),
		Status:           entity.RequestStatus(r.str("status")),
		CanonicalStatus:  entity.CanonicalStatus(r.str("canonical_status")),
		CreatedAt:        r.time("created_at"),
		EstimatedArrival: r.str("estimated_arrival"),
		RequesterName:    r.str("requester_name"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return o, nil
}

func OpenRequestToRecord(o *entity.OpenRequest) Record {
	return Record{
		"id":                o.ID.String(),
		"kind":              string(o.Kind),
		"kind_label":        o.KindLabel,
		"title":             o.Title,
		"subtitle":          o.Subtitle,
		"location":          o.Location,
		"status":            string(o.Status),
		"canonical_status":  string(o.CanonicalStatus),
		"created_at":        o.CreatedAt.UTC(),
		"estimated_arrival": nullString(o.EstimatedArrival),
		"requester_name":    o.RequesterName,
	}
}

func OpenRequestsToRecords(items []entity.OpenRequest) []Record {
	recs := make([]Record, len(items))
	for i := range items {
		recs[i] = OpenRequestToRecord(&items[i])
	}
	return recs
}

func (m *Mapper) OpenRequestsFromRecords(recs []Record) ([]entity.OpenRequest, error) {
	out := make([]entity.OpenRequest, 0, len(recs))
	for _, rec := range recs {
		o, err := m.OpenRequestFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, nil
}

// OpenRequestSourcesToRecords renders the three open collections in store
// shape, keyed by table name.
func OpenRequestSourcesToRecords(src *entity.OpenRequestSources) map[string][]Record {
	hospital := make([]Record, len(src.HospitalSessions))
	for i := range src.HospitalSessions {
		hospital[i] = HospitalSessionToRecord(&src.HospitalSessions[i])
	}
	homeCare := make([]Record, len(src.HomeCareRequests))
	for i := range src.HomeCareRequests {
		homeCare[i] = HomeCareRequestToRecord(&src.HomeCareRequests[i])
	}
	supplies := make([]Record, len(src.HealthSuppliesRequests))
	for i := range src.HealthSuppliesRequests {
		supplies[i] = HealthSuppliesRequestToRecord(&src.HealthSuppliesRequests[i])
	}
	return map[string][]Record{
		entity.HospitalSession{}.TableName():       hospital,
		entity.HomeCareRequest{}.TableName():       homeCare,
		entity.HealthSuppliesRequest{}.TableName(): supplies,
	}
}
