package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"health-concierge/config"
	"health-concierge/internal/converter"
	"health-concierge/internal/delivery/http/handler"
	"health-concierge/internal/delivery/http/middleware"
	"health-concierge/internal/domain/entity"
	"health-concierge/internal/repository"
	"health-concierge/internal/service"
	"health-concierge/internal/session"
	"health-concierge/internal/testutil"
	"health-concierge/internal/usecase"
	"health-concierge/pkg/jwt"
	"health-concierge/pkg/metrics"
	"health-concierge/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router    *mux.Router
	auth      usecase.AuthUsecase
	hospital  entity.Hospital
	publisher *testutil.MockPublisher
}

func newTestServer(t *testing.T, ratePerSecond float64, burst int) *testServer {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	log := testutil.NewLogger()
	mapper := converter.NewMapper(true)
	v := validator.NewValidator()
	publisher := testutil.NewMockPublisher()
	events := service.NewEventService(log, publisher)
	stores := testutil.NewMemoryStores()
	m := metrics.New("test")

	assistantRepo := repository.NewAssistantRepository(mapper)
	hospitalRepo := repository.NewHospitalRepository(mapper)
	liveRepo := repository.NewLiveSessionRepository(mapper)
	patientRepo := repository.NewPatientRepository(mapper)
	requestRepo := repository.NewRequestRepository(mapper)

	hospitalUC := usecase.NewHospitalUsecase(db, log, hospitalRepo, assistantRepo, liveRepo)
	_, err := hospitalUC.SeedHospitals(t.Context())
	require.NoError(t, err)
	hospitals, err := hospitalUC.ListHospitals(t.Context())
	require.NoError(t, err)

	assistantUC := usecase.NewAssistantUsecase(db, log, v, assistantRepo, requestRepo, liveRepo, events)
	patientUC := usecase.NewPatientUsecase(db, log, v, patientRepo)
	requestUC := usecase.NewRequestUsecase(db, log, v, requestRepo, hospitalRepo, assistantRepo, events, nil, m)
	lifecycleUC := usecase.NewRequestLifecycleUsecase(db, log, requestRepo, assistantRepo, events, nil, m, true)
	liveUC := usecase.NewLiveSessionUsecase(db, log, v, liveRepo, assistantRepo, hospitalRepo, events, true)
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "router-secret", AccessExpiry: time.Hour})
	authUC := usecase.NewAuthUsecase(log, jwtService, stores.Tokens())
	onboardingUC := usecase.NewOnboardingUsecase(log, stores.Drafts(), stores.Devices(), assistantUC)

	sessions := session.NewManager(&session.Services{
		Log:          log,
		Devices:      stores.Devices(),
		Assistants:   assistantUC,
		Patients:     patientUC,
		Requests:     requestUC,
		Lifecycle:    lifecycleUC,
		LiveSessions: liveUC,
		Auth:         authUC,
	}, time.Minute)

	r := NewRouter(
		handler.NewHospitalHandler(log, hospitalUC),
		handler.NewAssistantHandler(log, assistantUC, liveUC),
		handler.NewPatientHandler(log, patientUC),
		handler.NewRequestHandler(log, v, requestUC, lifecycleUC),
		handler.NewSessionHandler(log, v, sessions),
		handler.NewOnboardingHandler(log, onboardingUC, sessions),
		middleware.NewAuthMiddleware(authUC),
		middleware.NewCORSMiddleware(),
		middleware.NewDeviceMiddleware(ratePerSecond, burst),
		m,
	)
	return &testServer{
		router:    r.Setup(),
		auth:      authUC,
		hospital:  hospitals[0],
		publisher: publisher,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func assistantBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"name":         "Yayra",
		"email":        email,
		"phone":        "0266" + email[:3],
		"role":         "Registered Nurse",
		"services":     []string{"General Care", "Vitals Monitoring"},
		"pricingModel": "hourly",
		"rate":         "40",
	}
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t, 0, 1)
	for _, path := range []string{"/health", "/api/v1/health"} {
		rec, _ := s.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t, 0, 1)
	s.do(t, http.MethodGet, "/api/v1/hospitals", nil, nil)

	rec, _ := s.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_http_requests_total")
}

func TestRouter_Hospitals(t *testing.T) {
	s := newTestServer(t, 0, 1)

	rec, env := s.do(t, http.MethodGet, "/api/v1/hospitals", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []entity.Hospital `json:"items"`
		Total int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, len(entity.DefaultHospitals), list.Total)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/hospitals/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/hospitals/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_CreateAssistantAndCheckExisting(t *testing.T) {
	s := newTestServer(t, 0, 1)

	rec, env := s.do(t, http.MethodPost, "/api/v1/assistants", assistantBody("yay@example.com"), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/assistants", assistantBody("yay@example.com"), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	bad := assistantBody("bad@example.com")
	bad["services"] = []string{"Juggling"}
	rec, env = s.do(t, http.MethodPost, "/api/v1/assistants", bad, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(env.Error), "services")

	rec, env = s.do(t, http.MethodGet, "/api/v1/assistants/check-existing?email=yay@example.com", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var check struct {
		Exists bool `json:"exists"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &check))
	assert.True(t, check.Exists)

	_, env = s.do(t, http.MethodGet, "/api/v1/assistants/check-existing", nil, nil)
	require.NoError(t, json.Unmarshal(env.Data, &check))
	assert.False(t, check.Exists)
}

func TestRouter_OpenRequests(t *testing.T) {
	s := newTestServer(t, 0, 1)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/requests/hospital-sessions", map[string]interface{}{
		"patientName":     "Mawuli",
		"patientGender":   "male",
		"patientAgeRange": "40-50",
		"hospitalId":      s.hospital.ID,
		"hospitalName":    s.hospital.Name,
		"requesterName":   "Mawuli",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := s.do(t, http.MethodGet, "/api/v1/requests/open", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []entity.OpenRequest `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Mawuli", list.Items[0].Title)

	rec, env = s.do(t, http.MethodGet, "/api/v1/requests/open/raw", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "hospital_sessions")

	rec, _ = s.do(t, http.MethodGet, "/api/v1/requests/surgery/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_TransitionNeedsBearer(t *testing.T) {
	s := newTestServer(t, 0, 1)
	path := "/api/v1/requests/home-care/" + uuid.NewString() + "/transition"

	rec, _ := s.do(t, http.MethodPost, path, map[string]string{"status": "assigned"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodPost, path, map[string]string{"status": "assigned"},
		map[string]string{"Authorization": "Bearer nonsense"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	patientToken, err := s.auth.IssueToken(t.Context(), uuid.New(), entity.RolePatient)
	require.NoError(t, err)
	rec, _ = s.do(t, http.MethodPost, path, map[string]string{"status": "assigned"},
		map[string]string{"Authorization": "Bearer " + patientToken.AccessToken})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_DeviceSessionFlow(t *testing.T) {
	s := newTestServer(t, 0, 1)
	patient := map[string]string{middleware.DeviceIDHeader: "patient-phone"}
	nurse := map[string]string{middleware.DeviceIDHeader: "nurse-phone"}

	rec, _ := s.do(t, http.MethodGet, "/api/v1/session", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/session/role", map[string]string{"role": "fulfillment"}, patient)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/session/patient", map[string]interface{}{
		"name": "Elikem", "contact": "0501", "location": "Keta",
	}, patient)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env := s.do(t, http.MethodPost, "/api/v1/session/requests/home-care", map[string]interface{}{
		"address":      "Keta Lagoon Rd",
		"isPatient":    true,
		"isAtLocation": true,
		"services":     []string{"Elderly Care"},
	}, patient)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created entity.HomeCareRequest
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Elikem", created.RequesterName)

	// Nurse onboards through the draft, then takes the request.
	rec, _ = s.do(t, http.MethodPatch, "/api/v1/onboarding/draft", map[string]interface{}{
		"name": "Dela", "email": "dela@example.com", "phone": "0502",
	}, nurse)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/onboarding/submit", nil, nurse)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPatch, "/api/v1/onboarding/draft", map[string]interface{}{
		"role": "Registered Nurse", "services": []string{"Elderly Care"}, "pricingModel": "fixed", "rate": "120",
	}, nurse)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodPost, "/api/v1/onboarding/submit", nil, nurse)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env = s.do(t, http.MethodGet, "/api/v1/session", nil, nurse)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, entity.RoleAssistant, snap.Role)
	require.NotNil(t, snap.Assistant)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/session/requests/home-care/"+created.ID.String()+"/transition",
		map[string]string{"status": "assigned"}, nurse)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The bearer route refuses a skipped step.
	rec, env = s.do(t, http.MethodPost, "/api/v1/session/token", nil, nurse)
	require.Equal(t, http.StatusOK, rec.Code)
	var token struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &token))

	rec, _ = s.do(t, http.MethodPost, "/api/v1/requests/home-care/"+created.ID.String()+"/transition",
		map[string]string{"status": "pending"}, map[string]string{"Authorization": "Bearer " + token.AccessToken})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/requests/home-care/"+created.ID.String()+"/transition",
		map[string]string{"status": "in-progress"}, map[string]string{"Authorization": "Bearer " + token.AccessToken})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/session", nil, nurse)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodPost, "/api/v1/requests/home-care/"+created.ID.String()+"/transition",
		map[string]string{"status": "completed"}, map[string]string{"Authorization": "Bearer " + token.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_DeviceRateLimit(t *testing.T) {
	s := newTestServer(t, 0.001, 2)
	headers := map[string]string{middleware.DeviceIDHeader: "chatty"}

	for i := 0; i < 2; i++ {
		rec, _ := s.do(t, http.MethodGet, "/api/v1/session", nil, headers)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec, _ := s.do(t, http.MethodGet, "/api/v1/session", nil, headers)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/session", nil, map[string]string{middleware.DeviceIDHeader: "quiet"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	s := newTestServer(t, 0, 1)
	rec, _ := s.do(t, http.MethodOptions, "/api/v1/hospitals", nil, nil)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), middleware.DeviceIDHeader)
}
