package converter

import (
	"fmt"

	"health-concierge/internal/domain/entity"
)

func (m *Mapper) HospitalSessionFromRecord(rec Record) (*entity.HospitalSession, error) {
	r, err := m.reader(HospitalSessionSchema, rec)
	if err != nil {
		return nil, err
	}
	s := &entity.HospitalSession{
		ID:                 r.uuid("id"),
		PatientID:          r.optUUID("patient_id"),
		PatientName:        r.str("patient_name"),
		PatientGender:      r.str("patient_gender"),
		PatientAgeRange:    r.str("patient_age_range"),
		SpecialService:     r.str("special_service"),
		HospitalID:         r.uuid("hospital_id"),
		HospitalName:       r.str("hospital_name"),
		AssistantID:        r.optUUID("assistant_id"),
		Status:             entity.RequestStatus(r.str("status")),
		CreatedAt:          r.time("created_at"),
		AcceptedAt:         r.optTime("accepted_at"),
		CompletedAt:        r.optTime("completed_at"),
		RequesterName:      r.str("requester_name"),
		IsRequesterPatient: r.boolean("is_requester_patient"),
		EstimatedArrival:   r.str("estimated_arrival"),
		Location:           r.str("location"),
		HasInsurance:       r.optBool("has_insurance"),
		InsuranceProvider:  r.str("insurance_provider"),
		HasCard:            r.optBool("has_card"),
		Notes:              r.str("notes"),
	}
	if amount := r.decimal("invoice_amount"); amount != nil {
		s.Invoice = &entity.Invoice{
			Amount: *amount,
			Review: r.str("invoice_review"),
			PaidAt: r.optTime("invoice_paid_at"),
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return s, nil
}

func HospitalSessionToRecord(s *entity.HospitalSession) Record {
	rec := Record{
		"id":                   s.ID.String(),
		"patient_id":           nullUUID(s.PatientID),
		"patient_name":         s.PatientName,
		"patient_gender":       s.PatientGender,
		"patient_age_range":    s.PatientAgeRange,
		"special_service":      nullString(s.SpecialService),
		"hospital_id":          s.HospitalID.String(),
		"hospital_name":        s.HospitalName,
		"assistant_id":         nullUUID(s.AssistantID),
		"status":               string(s.Status),
		"accepted_at":          nullTime(s.AcceptedAt),
		"completed_at":         nullTime(s.CompletedAt),
		"requester_name":       s.RequesterName,
		"is_requester_patient": s.IsRequesterPatient,
		"estimated_arrival":    nullString(s.EstimatedArrival),
		"location":             nullString(s.Location),
		"has_insurance":        nullBool(s.HasInsurance),
		"insurance_provider":   nullString(s.InsuranceProvider),
		"has_card":             nullBool(s.HasCard),
		"notes":                nullString(s.Notes),
		"invoice_amount":       nil,
		"invoice_review":       nil,
		"invoice_paid_at":      nil,
	}
	if s.Invoice != nil {
		rec["invoice_amount"] = s.Invoice.Amount
		rec["invoice_review"] = nullString(s.Invoice.Review)
		rec["invoice_paid_at"] = nullTime(s.Invoice.PaidAt)
	}
	if !s.CreatedAt.IsZero() {
		rec["created_at"] = s.CreatedAt.UTC()
	}
	return rec
}

func (m *Mapper) HomeCareRequestFromRecord(rec Record) (*entity.HomeCareRequest, error) {
	r, err := m.reader(HomeCareRequestSchema, rec)
	if err != nil {
		return nil, err
	}
	h := &entity.HomeCareRequest{
		ID:               r.uuid("id"),
		ProfileID:        r.optUUID("profile_id"),
		Address:          r.str("address"),
		Latitude:         r.float("latitude"),
		Longitude:        r.float("longitude"),
		IsPatient:        r.boolean("is_patient"),
		PatientGender:    r.str("patient_gender"),
		PatientAge:       r.str("patient_age"),
		Services:         r.list("services"),
		IsAtLocation:     r.boolean("is_at_location"),
		ContactPerson:    r.str("contact_person"),
		PatientName:      r.str("patient_name"),
		RequesterName:    r.str("requester_name"),
		RequesterContact: r.str("requester_contact"),
		AssistantID:      r.optUUID("assistant_id"),
		Status:           entity.RequestStatus(r.str("status")),
		CreatedAt:        r.time("created_at"),
		ScheduledAt:      r.optTime("scheduled_at"),
		AcceptedAt:       r.optTime("accepted_at"),
		CompletedAt:      r.optTime("completed_at"),
		Notes:            r.str("notes"),
		InvoiceAmount:    r.decimal("invoice_amount"),
		InvoicePaidAt:    r.optTime("invoice_paid_at"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return h, nil
}

func HomeCareRequestToRecord(h *entity.HomeCareRequest) Record {
	rec := Record{
		"id":                h.ID.String(),
		"profile_id":        nullUUID(h.ProfileID),
		"address":           h.Address,
		"latitude":          nullFloat(h.Latitude),
		"longitude":         nullFloat(h.Longitude),
		"is_patient":        h.IsPatient,
		"patient_gender":    nullString(h.PatientGender),
		"patient_age":       nullString(h.PatientAge),
		"services":          listValue(h.Services),
		"is_at_location":    h.IsAtLocation,
		"contact_person":    nullString(h.ContactPerson),
		"patient_name":      nullString(h.PatientName),
		"requester_name":    h.RequesterName,
		"requester_contact": nullString(h.RequesterContact),
		"assistant_id":      nullUUID(h.AssistantID),
		"status":            string(h.Status),
		"scheduled_at":      nullTime(h.ScheduledAt),
		"accepted_at":       nullTime(h.AcceptedAt),
		"completed_at":      nullTime(h.CompletedAt),
		"notes":             nullString(h.Notes),
		"invoice_amount":    nullDecimal(h.InvoiceAmount),
		"invoice_paid_at":   nullTime(h.InvoicePaidAt),
	}
	if !h.CreatedAt.IsZero() {
		rec["created_at"] = h.CreatedAt.UTC()
	}
	return rec
}

func (m *Mapper) HealthSuppliesRequestFromRecord(rec Record) (*entity.HealthSuppliesRequest, error) {
	r, err := m.reader(HealthSuppliesRequestSchema, rec)
	if err != nil {
		return nil, err
	}
	s := &entity.HealthSuppliesRequest{
		ID:                 r.uuid("id"),
		ProfileID:          r.optUUID("profile_id"),
		HasPrescription:    r.boolean("has_prescription"),
		PrescriptionImages: r.list("prescription_images"),
		ItemsNeeded:        r.str("items_needed"),
		DeliveryAddress:    r.str("delivery_address"),
		Urgency:            entity.Urgency(r.str("urgency")),
		FlexibleDate:       r.optTime("flexible_date"),
		RecipientType:      entity.RecipientType(r.str("recipient_type")),
		RecipientName:      r.str("recipient_name"),
		RecipientGender:    r.str("recipient_gender"),
		RecipientAge:       r.str("recipient_age"),
		RequesterName:      r.str("requester_name"),
		AssistantID:        r.optUUID("assistant_id"),
		Status:             entity.RequestStatus(r.str("status")),
		CreatedAt:          r.time("created_at"),
		AssignedAt:         r.optTime("assigned_at"),
		DeliveredAt:        r.optTime("delivered_at"),
		Notes:              r.str("notes"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return s, nil
}

func HealthSuppliesRequestToRecord(s *entity.HealthSuppliesRequest) Record {
	rec := Record{
		"id":                  s.ID.String(),
		"profile_id":          nullUUID(s.ProfileID),
		"has_prescription":    s.HasPrescription,
		"prescription_images": listValue(s.PrescriptionImages),
		"items_needed":        nullString(s.ItemsNeeded),
		"delivery_address":    s.DeliveryAddress,
		"urgency":             string(s.Urgency),
		"flexible_date":       nullTime(s.FlexibleDate),
		"recipient_type":      string(s.RecipientType),
		"recipient_name":      nullString(s.RecipientName),
		"recipient_gender":    nullString(s.RecipientGender),
		"recipient_age":       nullString(s.RecipientAge),
		"requester_name":      s.RequesterName,
		"assistant_id":        nullUUID(s.AssistantID),
		"status":              string(s.Status),
		"assigned_at":         nullTime(s.AssignedAt),
		"delivered_at":        nullTime(s.DeliveredAt),
		"notes":               nullString(s.Notes),
	}
	if !s.CreatedAt.IsZero() {
		rec["created_at"] = s.CreatedAt.UTC()
	}
	return rec
}

// RequestToRecord encodes any request kind.
func RequestToRecord(req entity.Request) (Record, error) {
	switch v := req.(type) {
	case *entity.HospitalSession:
		return HospitalSessionToRecord(v), nil
	case *entity.HomeCareRequest:
		return HomeCareRequestToRecord(v), nil
	case *entity.HealthSuppliesRequest:
		return HealthSuppliesRequestToRecord(v), nil
	}
	return nil, fmt.Errorf("%w: %T", entity.ErrUnknownKind, req)
}

// RequestFromRecord decodes a row of the given kind's table.
func (m *Mapper) RequestFromRecord(kind entity.RequestKind, rec Record) (entity.Request, error) {
	var (
		req entity.Request
		err error
	)
	switch kind {
	case entity.KindHospitalSession:
		var s *entity.HospitalSession
		s, err = m.HospitalSessionFromRecord(rec)
		req = s
	case entity.KindHomeCare:
		var h *entity.HomeCareRequest
		h, err = m.HomeCareRequestFromRecord(rec)
		req = h
	case entity.KindHealthSupplies:
		var s *entity.HealthSuppliesRequest
		s, err = m.HealthSuppliesRequestFromRecord(rec)
		req = s
	default:
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}
