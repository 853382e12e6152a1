package converter

import (
	"testing"
	"time"

	"health-concierge/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAssistant() *entity.Assistant {
	rate := decimal.NewFromInt(50)
	return &entity.Assistant{
		ID:                 uuid.New(),
		Name:               "Abena Mensah",
		Email:              "abena@example.com",
		Phone:              "+233200000000",
		Address:            "Osu, Accra",
		Role:               "Registered Nurse",
		Services:           entity.StringList{"General Care", "Patient Escort"},
		PricingModel:       entity.PricingHourly,
		Rate:               &rate,
		VerificationStatus: entity.VerificationPending,
		CreatedAt:          time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestAssistantRoundTrip(t *testing.T) {
	m := NewMapper(true)
	a := sampleAssistant()

	got, err := m.AssistantFromRecord(AssistantToRecord(a))
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestAssistantRoundTrip_UnsavedKeepsZeroCreatedAt(t *testing.T) {
	m := NewMapper(false)
	a := sampleAssistant()
	a.CreatedAt = time.Time{}

	rec := AssistantToRecord(a)
	_, present := rec["created_at"]
	assert.False(t, present)

	got, err := m.AssistantFromRecord(rec)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.IsZero())
	assert.Equal(t, a, got)
}

func TestAssistantRateRange(t *testing.T) {
	m := NewMapper(false)
	a := sampleAssistant()
	a.PricingModel = entity.PricingBespoke
	a.Rate = nil
	a.RateRange = &entity.RateRange{Min: decimal.NewFromInt(30), Max: decimal.NewFromInt(80)}

	rec := AssistantToRecord(a)
	assert.Equal(t, decimal.NewFromInt(30), rec["rate_min"])
	assert.Equal(t, decimal.NewFromInt(80), rec["rate_max"])

	got, err := m.AssistantFromRecord(rec)
	require.NoError(t, err)
	require.NotNil(t, got.RateRange)
	assert.True(t, got.RateRange.Max.Equal(decimal.NewFromInt(80)))

	// one bound alone does not make a range
	rec["rate_max"] = nil
	got, err = m.AssistantFromRecord(rec)
	require.NoError(t, err)
	assert.Nil(t, got.RateRange)
}

func TestAssistantFromStoreValues(t *testing.T) {
	m := NewMapper(false)
	id := uuid.New()
	rec := Record{
		"id":                  id.String(),
		"name":                "Kwame",
		"email":               "kwame@example.com",
		"phone":               "0244",
		"role":                "Other",
		"services":            []byte(`["Elderly Care"]`),
		"pricing_model":       "fixed",
		"rate":                int64(120),
		"rate_min":            nil,
		"rate_max":            nil,
		"verification_status": "verified",
		"created_at":          "2024-05-01 09:30:00+00:00",
	}

	a, err := m.AssistantFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, entity.StringList{"Elderly Care"}, a.Services)
	assert.True(t, a.Rate.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), a.CreatedAt)
}

func TestMissingRequiredField(t *testing.T) {
	m := NewMapper(false)
	rec := AssistantToRecord(sampleAssistant())
	delete(rec, "email")

	_, err := m.AssistantFromRecord(rec)
	assert.ErrorIs(t, err, ErrMissingField)

	rec = AssistantToRecord(sampleAssistant())
	rec["email"] = nil
	_, err = m.AssistantFromRecord(rec)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestUnknownFieldStrictOnly(t *testing.T) {
	rec := AssistantToRecord(sampleAssistant())
	rec["favourite_colour"] = "green"

	_, err := NewMapper(true).AssistantFromRecord(rec)
	assert.ErrorIs(t, err, ErrUnknownField)

	a, err := NewMapper(false).AssistantFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, "Abena Mensah", a.Name)
}

func TestInvalidFieldType(t *testing.T) {
	rec := AssistantToRecord(sampleAssistant())
	rec["rate"] = "not-a-number"

	_, err := NewMapper(false).AssistantFromRecord(rec)
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestHospitalSessionInvoiceColumns(t *testing.T) {
	m := NewMapper(true)
	accepted := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	s := &entity.HospitalSession{
		ID:                 uuid.New(),
		PatientName:        "Esi",
		PatientGender:      "female",
		PatientAgeRange:    "26-35",
		HospitalID:         uuid.New(),
		HospitalName:       "Ridge Hospital",
		Status:             entity.StatusCompleted,
		CreatedAt:          accepted.Add(-time.Hour),
		AcceptedAt:         &accepted,
		CompletedAt:        &accepted,
		RequesterName:      "Esi",
		IsRequesterPatient: true,
		Invoice:            &entity.Invoice{Amount: decimal.NewFromInt(150), Review: "Queue took a while"},
	}

	rec := HospitalSessionToRecord(s)
	assert.Equal(t, decimal.NewFromInt(150), rec["invoice_amount"])

	got, err := m.HospitalSessionFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestHomeCareFromSQLiteShapes(t *testing.T) {
	m := NewMapper(false)
	rec := Record{
		"id":             uuid.NewString(),
		"address":        "12 Oxford St",
		"latitude":       5.55,
		"is_patient":     int64(1),
		"services":       `["General Care","Vitals Monitoring"]`,
		"is_at_location": int64(0),
		"requester_name": "Yaw",
		"status":         "pending",
		"created_at":     "2024-06-01T10:00:00Z",
		"invoice_amount": float64(75.5),
	}

	h, err := m.HomeCareRequestFromRecord(rec)
	require.NoError(t, err)
	assert.True(t, h.IsPatient)
	assert.False(t, h.IsAtLocation)
	assert.Len(t, h.Services, 2)
	require.NotNil(t, h.Latitude)
	assert.InDelta(t, 5.55, *h.Latitude, 1e-9)
	assert.True(t, h.InvoiceAmount.Equal(decimal.RequireFromString("75.5")))
}

func TestRequestFromRecordDispatch(t *testing.T) {
	m := NewMapper(false)
	s := &entity.HealthSuppliesRequest{
		ID:                 uuid.New(),
		HasPrescription:    true,
		PrescriptionImages: entity.StringList{"file:///rx.jpg"},
		DeliveryAddress:    "Airport Residential",
		Urgency:            entity.UrgencyUrgent,
		RecipientType:      entity.RecipientSelf,
		RequesterName:      "Akosua",
		Status:             entity.StatusPending,
	}
	rec, err := RequestToRecord(s)
	require.NoError(t, err)

	req, err := m.RequestFromRecord(entity.KindHealthSupplies, rec)
	require.NoError(t, err)
	assert.Equal(t, s, req)

	_, err = m.RequestFromRecord("pharmacy", rec)
	assert.ErrorIs(t, err, entity.ErrUnknownKind)
}

func TestOpenRequestRecordsThroughJSON(t *testing.T) {
	m := NewMapper(true)
	items := []entity.OpenRequest{{
		ID:              uuid.New(),
		Kind:            entity.KindHomeCare,
		KindLabel:       "Home Care",
		Title:           "Yaw",
		Subtitle:        "General Care",
		Location:        "12 Oxford St",
		Status:          entity.StatusPending,
		CanonicalStatus: entity.CanonicalSubmitted,
		CreatedAt:       time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		RequesterName:   "Yaw",
	}}

	data, err := MarshalRecords(OpenRequestsToRecords(items))
	require.NoError(t, err)
	recs, err := UnmarshalRecords(data)
	require.NoError(t, err)

	got, err := m.OpenRequestsFromRecords(recs)
	require.NoError(t, err)
	assert.Equal(t, items, got)
}
