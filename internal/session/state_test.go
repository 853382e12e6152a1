package session

import (
	"context"
	"testing"
	"time"

	"health-concierge/config"
	"health-concierge/internal/converter"
	"health-concierge/internal/delivery/dto"
	"health-concierge/internal/domain/entity"
	"health-concierge/internal/repository"
	"health-concierge/internal/service"
	"health-concierge/internal/testutil"
	"health-concierge/internal/usecase"
	"health-concierge/pkg/jwt"
	"health-concierge/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	svc      *Services
	stores   *testutil.MemoryStores
	hospital entity.Hospital
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	log := testutil.NewLogger()
	mapper := converter.NewMapper(true)
	v := validator.NewValidator()
	events := service.NewEventService(log, testutil.NewMockPublisher())
	stores := testutil.NewMemoryStores()

	assistantRepo := repository.NewAssistantRepository(mapper)
	hospitalRepo := repository.NewHospitalRepository(mapper)
	liveRepo := repository.NewLiveSessionRepository(mapper)
	requestRepo := repository.NewRequestRepository(mapper)

	_, err := hospitalRepo.Seed(db, entity.DefaultHospitals)
	require.NoError(t, err)
	hospitals, err := hospitalRepo.FindAll(db)
	require.NoError(t, err)

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "session-secret", AccessExpiry: time.Hour})
	return &harness{
		stores:   stores,
		hospital: hospitals[0],
		svc: &Services{
			Log:          log,
			Devices:      stores.Devices(),
			Assistants:   usecase.NewAssistantUsecase(db, log, v, assistantRepo, requestRepo, liveRepo, events),
			Patients:     usecase.NewPatientUsecase(db, log, v, repository.NewPatientRepository(mapper)),
			Requests:     usecase.NewRequestUsecase(db, log, v, requestRepo, hospitalRepo, assistantRepo, events, nil, nil),
			Lifecycle:    usecase.NewRequestLifecycleUsecase(db, log, requestRepo, assistantRepo, events, nil, nil, true),
			LiveSessions: usecase.NewLiveSessionUsecase(db, log, v, liveRepo, assistantRepo, hospitalRepo, events, true),
			Auth:         usecase.NewAuthUsecase(log, jwtService, stores.Tokens()),
		},
	}
}

func assistantProfile(email string) *dto.CreateAssistantRequest {
	rate := decimal.NewFromInt(55)
	return &dto.CreateAssistantRequest{
		Name:         "Selorm",
		Email:        email,
		Phone:        email + "-tel",
		Role:         "Active Health Worker",
		Services:     []string{"Patient Escort"},
		PricingModel: entity.PricingFixed,
		Rate:         &rate,
	}
}

func patientProfile() *dto.CreatePatientRequest {
	return &dto.CreatePatientRequest{
		Name:     "Dzifa",
		Contact:  "0209",
		Location: "Ho",
	}
}

func TestState_RehydrateEmptyDevice(t *testing.T) {
	h := newHarness(t)
	st := NewState("dev", h.svc)

	require.NoError(t, st.Rehydrate(context.Background()))
	snap := st.Snapshot()
	assert.Equal(t, entity.RoleNone, snap.Role)
	assert.Nil(t, snap.Assistant)
	assert.Empty(t, snap.HospitalSessions)
}

func TestState_SelectRoleRejectsUnknown(t *testing.T) {
	h := newHarness(t)
	st := NewState("dev", h.svc)

	err := st.SelectRole(context.Background(), entity.RoleFulfillment)
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.Empty(t, h.stores.DeviceEntries)
}

func TestState_PatientFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	st := NewState("phone-1", h.svc)

	_, err := st.SubmitHospitalSession(ctx, &dto.HospitalSessionRequest{})
	assert.ErrorIs(t, err, ErrNoProfile)

	patient, err := st.SavePatientProfile(ctx, patientProfile())
	require.NoError(t, err)
	require.NotNil(t, h.stores.DeviceEntries["phone-1"].PatientID)
	assert.Equal(t, patient.ID, *h.stores.DeviceEntries["phone-1"].PatientID)

	session, err := st.SubmitHospitalSession(ctx, &dto.HospitalSessionRequest{
		PatientName:     "Dzifa",
		PatientGender:   "female",
		PatientAgeRange: "20-30",
		HospitalID:      h.hospital.ID,
		HospitalName:    h.hospital.Name,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dzifa", session.RequesterName)
	assert.Equal(t, patient.ID, *session.PatientID)

	// A failed submission leaves the list alone.
	_, err = st.SubmitHealthSuppliesRequest(ctx, &dto.HealthSuppliesRequestForm{})
	require.Error(t, err)
	assert.Len(t, st.Snapshot().HospitalSessions, 1)
	assert.Empty(t, st.Snapshot().HealthSuppliesRequests)

	fresh := NewState("phone-1", h.svc)
	require.NoError(t, fresh.Rehydrate(ctx))
	snap := fresh.Snapshot()
	assert.Equal(t, entity.RolePatient, snap.Role)
	require.NotNil(t, snap.Patient)
	assert.Len(t, snap.HospitalSessions, 1)
}

func TestState_AssistantFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	patient := NewState("patient-dev", h.svc)
	_, err := patient.SavePatientProfile(ctx, patientProfile())
	require.NoError(t, err)
	hc, err := patient.SubmitHomeCareRequest(ctx, &dto.HomeCareRequestForm{
		Address:      "Adenta",
		IsPatient:    ptr(true),
		IsAtLocation: ptr(true),
		Services:     []string{"Elderly Care"},
	})
	require.NoError(t, err)

	st := NewState("nurse-dev", h.svc)
	_, err = st.TransitionRequest(ctx, entity.KindHomeCare, hc.ID, &dto.TransitionRequest{Status: entity.StatusAssigned})
	assert.ErrorIs(t, err, ErrNoProfile)

	a, err := st.SaveAssistantProfile(ctx, assistantProfile("selorm@example.com"))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAssistant, st.Snapshot().Role)

	got, err := st.TransitionRequest(ctx, entity.KindHomeCare, hc.ID, &dto.TransitionRequest{Status: entity.StatusAssigned})
	require.NoError(t, err)
	assert.Equal(t, a.ID, *got.AssignedAssistant())
	require.Len(t, st.Snapshot().HomeCareRequests, 1)

	_, err = st.TransitionRequest(ctx, entity.KindHomeCare, hc.ID, &dto.TransitionRequest{Status: entity.StatusInProgress})
	require.NoError(t, err)
	snap := st.Snapshot()
	require.Len(t, snap.HomeCareRequests, 1)
	assert.Equal(t, entity.StatusInProgress, snap.HomeCareRequests[0].Status)

	live, err := st.StartAvailability(ctx, &dto.GoLiveRequest{
		HospitalID: h.hospital.ID, FromDate: "2025-04-01", FromTime: "07:00", ToDate: "2025-04-01", ToTime: "15:00",
	})
	require.NoError(t, err)
	assert.Equal(t, live.ID, st.Snapshot().LiveSession.ID)

	_, err = st.StartAvailability(ctx, &dto.GoLiveRequest{
		HospitalID: h.hospital.ID, FromDate: "2025-04-01", FromTime: "07:00", ToDate: "2025-04-01", ToTime: "15:00",
	})
	assert.ErrorIs(t, err, usecase.ErrLiveSessionAlreadyActive)
	assert.Equal(t, live.ID, st.Snapshot().LiveSession.ID)

	_, err = st.EndAvailability(ctx, "done")
	require.NoError(t, err)
	assert.Nil(t, st.Snapshot().LiveSession)

	require.NoError(t, st.RefreshRequests(ctx))
	assert.Len(t, st.Snapshot().HomeCareRequests, 1)
}

func TestState_FailedSubmissionLeavesFormUntouched(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	st := NewState("phone-2", h.svc)
	_, err := st.SavePatientProfile(ctx, patientProfile())
	require.NoError(t, err)

	hospitalForm := &dto.HospitalSessionRequest{HospitalID: h.hospital.ID}
	_, err = st.SubmitHospitalSession(ctx, hospitalForm)
	require.Error(t, err)
	assert.Nil(t, hospitalForm.PatientID)
	assert.Empty(t, hospitalForm.RequesterName)
	assert.False(t, hospitalForm.IsRequesterPatient)

	homeCareForm := &dto.HomeCareRequestForm{Address: "Adenta"}
	_, err = st.SubmitHomeCareRequest(ctx, homeCareForm)
	require.Error(t, err)
	assert.Nil(t, homeCareForm.ProfileID)
	assert.Empty(t, homeCareForm.RequesterName)
	assert.Empty(t, homeCareForm.RequesterContact)

	suppliesForm := &dto.HealthSuppliesRequestForm{DeliveryAddress: "Tema"}
	_, err = st.SubmitHealthSuppliesRequest(ctx, suppliesForm)
	require.Error(t, err)
	assert.Nil(t, suppliesForm.ProfileID)
	assert.Empty(t, suppliesForm.RequesterName)

	snap := st.Snapshot()
	assert.Empty(t, snap.HospitalSessions)
	assert.Empty(t, snap.HomeCareRequests)
	assert.Empty(t, snap.HealthSuppliesRequests)
}

func TestState_AssistantSuppliesSurviveRefresh(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	patient := NewState("patient-dev", h.svc)
	_, err := patient.SavePatientProfile(ctx, patientProfile())
	require.NoError(t, err)
	order, err := patient.SubmitHealthSuppliesRequest(ctx, &dto.HealthSuppliesRequestForm{
		HasPrescription: ptr(false),
		ItemsNeeded:     "Insulin pens",
		DeliveryAddress: "Tema Comm. 5",
		Urgency:         entity.UrgencyUrgent,
		RecipientType:   entity.RecipientSelf,
	})
	require.NoError(t, err)

	st := NewState("courier-dev", h.svc)
	_, err = st.SaveAssistantProfile(ctx, assistantProfile("courier@example.com"))
	require.NoError(t, err)
	_, err = st.TransitionRequest(ctx, entity.KindHealthSupplies, order.ID, &dto.TransitionRequest{Status: entity.StatusAssigned})
	require.NoError(t, err)
	require.Len(t, st.Snapshot().HealthSuppliesRequests, 1)

	require.NoError(t, st.RefreshRequests(ctx))
	snap := st.Snapshot()
	require.Len(t, snap.HealthSuppliesRequests, 1)
	assert.Equal(t, order.ID, snap.HealthSuppliesRequests[0].ID)
	assert.Equal(t, entity.StatusAssigned, snap.HealthSuppliesRequests[0].Status)

	fresh := NewState("courier-dev", h.svc)
	require.NoError(t, fresh.Rehydrate(ctx))
	assert.Len(t, fresh.Snapshot().HealthSuppliesRequests, 1)
}

func TestState_SaveAssistantProfileUpdatesExisting(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	st := NewState("dev", h.svc)

	first, err := st.SaveAssistantProfile(ctx, assistantProfile("edem@example.com"))
	require.NoError(t, err)

	req := assistantProfile("edem@example.com")
	req.Name = "Edem K."
	second, err := st.SaveAssistantProfile(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Edem K.", st.Snapshot().Assistant.Name)
}

func TestState_TokenAndReset(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	st := NewState("dev", h.svc)

	_, err := st.IssueToken(ctx)
	assert.ErrorIs(t, err, ErrNoProfile)

	a, err := st.SaveAssistantProfile(ctx, assistantProfile("tok@example.com"))
	require.NoError(t, err)
	tok, err := st.IssueToken(ctx)
	require.NoError(t, err)

	require.NoError(t, st.Reset(ctx))
	assert.Empty(t, h.stores.DeviceEntries)
	assert.Equal(t, entity.RoleNone, st.Snapshot().Role)

	_, err = h.svc.Auth.ValidateToken(ctx, tok.AccessToken)
	assert.ErrorIs(t, err, usecase.ErrTokenRevoked)
	assert.NotContains(t, h.stores.TokenEntries, a.ID.String())
}

func TestManager_SharesStatePerDevice(t *testing.T) {
	h := newHarness(t)
	m := NewManager(h.svc, time.Minute)
	ctx := context.Background()

	one, err := m.Get(ctx, "dev-a")
	require.NoError(t, err)
	again, err := m.Get(ctx, "dev-a")
	require.NoError(t, err)
	assert.Same(t, one, again)

	other, err := m.Get(ctx, "dev-b")
	require.NoError(t, err)
	assert.NotSame(t, one, other)

	m.Forget("dev-a")
	rebuilt, err := m.Get(ctx, "dev-a")
	require.NoError(t, err)
	assert.NotSame(t, one, rebuilt)
}

func TestManager_RehydratesStoredIdentifiers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	pid := uuid.New()
	h.stores.DeviceEntries["dev"] = &entity.DeviceIdentifiers{Role: entity.RolePatient, PatientID: &pid}

	_, err := NewManager(h.svc, time.Minute).Get(ctx, "dev")
	assert.ErrorIs(t, err, usecase.ErrPatientNotFound)
}

func TestManager_RehydrationIgnoresCallerCancellation(t *testing.T) {
	h := newHarness(t)
	st := NewState("dev", h.svc)
	a, err := st.SaveAssistantProfile(context.Background(), assistantProfile("kwesi@example.com"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := NewManager(h.svc, time.Minute).Get(ctx, "dev")
	require.NoError(t, err)
	snap := got.Snapshot()
	require.NotNil(t, snap.Assistant)
	assert.Equal(t, a.ID, snap.Assistant.ID)
}

func ptr[T any](v T) *T {
	return &v
}
