package service

import (
	"sort"
	"strings"

	"health-concierge/internal/domain/entity"
)

const (
	defaultHospitalSubtitle = "Hospital Session"
	defaultSuppliesSubtitle = "Prescription order"
)

// AggregateOpenRequests flattens the three open collections into one listing
// ordered newest first. Requests created at the same instant keep the input
// order: hospital sessions, then home care, then supplies. The inputs are not
// modified.
func AggregateOpenRequests(
	hospital []entity.HospitalSession,
	homeCare []entity.HomeCareRequest,
	supplies []entity.HealthSuppliesRequest,
) []entity.OpenRequest {
	out := make([]entity.OpenRequest, 0, len(hospital)+len(homeCare)+len(supplies))
	for i := range hospital {
		out = append(out, hospitalSummary(&hospital[i]))
	}
	for i := range homeCare {
		out = append(out, homeCareSummary(&homeCare[i]))
	}
	for i := range supplies {
		out = append(out, suppliesSummary(&supplies[i]))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func summary(kind entity.RequestKind, status entity.RequestStatus) entity.OpenRequest {
	canonical, _ := kind.Canonical(status)
	return entity.OpenRequest{
		Kind:            kind,
		KindLabel:       kind.Label(),
		Status:          status,
		CanonicalStatus: canonical,
	}
}

func hospitalSummary(s *entity.HospitalSession) entity.OpenRequest {
	o := summary(entity.KindHospitalSession, s.Status)
	o.ID = s.ID
	o.Title = s.PatientName
	o.Subtitle = firstNonEmpty(s.SpecialService, defaultHospitalSubtitle)
	o.Location = s.HospitalName
	o.CreatedAt = s.CreatedAt
	o.EstimatedArrival = s.EstimatedArrival
	o.RequesterName = s.RequesterName
	return o
}

func homeCareSummary(h *entity.HomeCareRequest) entity.OpenRequest {
	o := summary(entity.KindHomeCare, h.Status)
	o.ID = h.ID
	o.Title = firstNonEmpty(h.PatientName, h.RequesterName)
	o.Subtitle = strings.Join(h.Services, ", ")
	o.Location = h.Address
	o.CreatedAt = h.CreatedAt
	o.RequesterName = h.RequesterName
	return o
}

func suppliesSummary(s *entity.HealthSuppliesRequest) entity.OpenRequest {
	o := summary(entity.KindHealthSupplies, s.Status)
	o.ID = s.ID
	o.Title = firstNonEmpty(s.RecipientName, s.RequesterName)
	o.Subtitle = firstNonEmpty(s.ItemsNeeded, defaultSuppliesSubtitle)
	o.Location = s.DeliveryAddress
	o.CreatedAt = s.CreatedAt
	o.RequesterName = s.RequesterName
	return o
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
