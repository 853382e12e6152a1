package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"health-concierge/internal/converter"
	"health-concierge/internal/domain/entity"
	domainRepo "health-concierge/internal/domain/repository"
	"health-concierge/internal/repository"
	"health-concierge/internal/service"
	"health-concierge/internal/testutil"
	"health-concierge/pkg/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	publisher *testutil.MockPublisher
	events    service.EventService
	validator *validator.CustomValidator

	assistantRepo   domainRepo.AssistantRepository
	hospitalRepo    domainRepo.HospitalRepository
	liveSessionRepo domainRepo.LiveSessionRepository
	patientRepo     domainRepo.PatientRepository
	requestRepo     domainRepo.RequestRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mapper := converter.NewMapper(true)
	publisher := testutil.NewMockPublisher()
	return &fixture{
		db:              testutil.NewSQLiteDB(t),
		publisher:       publisher,
		events:          service.NewEventService(testutil.NewLogger(), publisher),
		validator:       validator.NewValidator(),
		assistantRepo:   repository.NewAssistantRepository(mapper),
		hospitalRepo:    repository.NewHospitalRepository(mapper),
		liveSessionRepo: repository.NewLiveSessionRepository(mapper),
		patientRepo:     repository.NewPatientRepository(mapper),
		requestRepo:     repository.NewRequestRepository(mapper),
	}
}

func (f *fixture) assistants() AssistantUsecase {
	return NewAssistantUsecase(f.db, testutil.NewLogger(), f.validator, f.assistantRepo, f.requestRepo, f.liveSessionRepo, f.events)
}

func (f *fixture) requests(openRequests *service.OpenRequestsSync) RequestUsecase {
	return NewRequestUsecase(f.db, testutil.NewLogger(), f.validator, f.requestRepo, f.hospitalRepo, f.assistantRepo, f.events, openRequests, nil)
}

func (f *fixture) lifecycle(strict bool) *requestLifecycleUsecase {
	return NewRequestLifecycleUsecase(f.db, testutil.NewLogger(), f.requestRepo, f.assistantRepo, f.events, nil, nil, strict).(*requestLifecycleUsecase)
}

func (f *fixture) liveSessions(singleActive bool) LiveSessionUsecase {
	return NewLiveSessionUsecase(f.db, testutil.NewLogger(), f.validator, f.liveSessionRepo, f.assistantRepo, f.hospitalRepo, f.events, singleActive)
}

func (f *fixture) hospital(t *testing.T) *entity.Hospital {
	t.Helper()
	_, err := f.hospitalRepo.Seed(f.db, entity.DefaultHospitals[:2])
	require.NoError(t, err)
	all, err := f.hospitalRepo.FindAll(f.db)
	require.NoError(t, err)
	require.NotEmpty(t, all)
	return &all[0]
}

func (f *fixture) assistant(t *testing.T, email string, model entity.PricingModel, rate int64) *entity.Assistant {
	t.Helper()
	a := &entity.Assistant{
		Name:               "Akosua",
		Email:              email,
		Phone:              email + "-phone",
		Role:               "Registered Nurse",
		Services:           entity.StringList{"General Care"},
		PricingModel:       model,
		VerificationStatus: entity.VerificationVerified,
	}
	if model == entity.PricingBespoke {
		a.RateRange = &entity.RateRange{Min: decimal.NewFromInt(rate), Max: decimal.NewFromInt(rate * 2)}
	} else {
		r := decimal.NewFromInt(rate)
		a.Rate = &r
	}
	require.NoError(t, f.assistantRepo.Create(f.db, a))
	return a
}

func (f *fixture) hospitalSession(t *testing.T, status entity.RequestStatus) *entity.HospitalSession {
	t.Helper()
	h := f.hospital(t)
	s := &entity.HospitalSession{
		PatientName:     "Yaw Boateng",
		PatientGender:   "male",
		PatientAgeRange: "30-40",
		HospitalID:      h.ID,
		HospitalName:    h.Name,
		Status:          status,
		RequesterName:   "Yaw Boateng",
	}
	require.NoError(t, f.requestRepo.Create(f.db, s))
	return s
}

func (f *fixture) homeCare(t *testing.T, status entity.RequestStatus) *entity.HomeCareRequest {
	t.Helper()
	r := &entity.HomeCareRequest{
		Address:       "12 Oxford St, Osu",
		IsPatient:     true,
		IsAtLocation:  true,
		Services:      entity.StringList{"Elderly Care"},
		RequesterName: "Ama Serwaa",
		Status:        status,
	}
	require.NoError(t, f.requestRepo.Create(f.db, r))
	return r
}

func (f *fixture) supplies(t *testing.T, status entity.RequestStatus) *entity.HealthSuppliesRequest {
	t.Helper()
	r := &entity.HealthSuppliesRequest{
		HasPrescription:    false,
		PrescriptionImages: entity.StringList{},
		ItemsNeeded:        "Glucose strips",
		DeliveryAddress:    "Spintex Road",
		Urgency:            entity.UrgencyUrgent,
		RecipientType:      entity.RecipientSelf,
		RequesterName:      "Kofi Mensah",
		Status:             status,
	}
	require.NoError(t, f.requestRepo.Create(f.db, r))
	return r
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func ptr[T any](v T) *T {
	return &v
}

// memoryCache is an in-process OpenRequestCache.
type memoryCache struct {
	mu    sync.Mutex
	items []entity.OpenRequest
	hit   bool
	sets  int
}

func (c *memoryCache) Get(context.Context) ([]entity.OpenRequest, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items, c.hit, nil
}

func (c *memoryCache) Set(_ context.Context, items []entity.OpenRequest, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items, c.hit = items, true
	c.sets++
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items, c.hit = nil, false
	return nil
}
