package http

import (
	"net/http"

	"health-concierge/internal/delivery/http/handler"
	"health-concierge/internal/delivery/http/middleware"
	"health-concierge/pkg/metrics"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	hospitalHandler   *handler.HospitalHandler
	assistantHandler  *handler.AssistantHandler
	patientHandler    *handler.PatientHandler
	requestHandler    *handler.RequestHandler
	sessionHandler    *handler.SessionHandler
	onboardingHandler *handler.OnboardingHandler
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	deviceMiddleware  *middleware.DeviceMiddleware
	metrics           *metrics.Metrics
}

func NewRouter(
	hospitalHandler *handler.HospitalHandler,
	assistantHandler *handler.AssistantHandler,
	patientHandler *handler.PatientHandler,
	requestHandler *handler.RequestHandler,
	sessionHandler *handler.SessionHandler,
	onboardingHandler *handler.OnboardingHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	deviceMiddleware *middleware.DeviceMiddleware,
	metrics *metrics.Metrics,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		hospitalHandler:   hospitalHandler,
		assistantHandler:  assistantHandler,
		patientHandler:    patientHandler,
		requestHandler:    requestHandler,
		sessionHandler:    sessionHandler,
		onboardingHandler: onboardingHandler,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		deviceMiddleware:  deviceMiddleware,
		metrics:           metrics,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	if r.metrics != nil {
		r.router.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Hospitals
	api.HandleFunc("/hospitals", r.hospitalHandler.ListHospitals).Methods(http.MethodGet)
	api.HandleFunc("/hospitals/{id}", r.hospitalHandler.GetHospital).Methods(http.MethodGet)
	api.HandleFunc("/hospitals/{id}/assistants", r.hospitalHandler.ListAssistants).Methods(http.MethodGet)

	// Assistants
	api.HandleFunc("/assistants", r.assistantHandler.CreateAssistant).Methods(http.MethodPost)
	api.HandleFunc("/assistants", r.assistantHandler.ListAssistants).Methods(http.MethodGet)
	api.HandleFunc("/assistants/check-existing", r.assistantHandler.CheckExisting).Methods(http.MethodGet)
	api.HandleFunc("/assistants/{id}", r.assistantHandler.GetAssistant).Methods(http.MethodGet)
	api.HandleFunc("/assistants/{id}", r.assistantHandler.UpdateAssistant).Methods(http.MethodPatch)
	api.HandleFunc("/assistants/{id}/bundle", r.assistantHandler.GetBundle).Methods(http.MethodGet)
	api.HandleFunc("/assistants/{id}/live", r.assistantHandler.GoLive).Methods(http.MethodPost)
	api.HandleFunc("/assistants/{id}/live", r.assistantHandler.EndLive).Methods(http.MethodDelete)
	api.HandleFunc("/assistants/{id}/live", r.assistantHandler.GetLive).Methods(http.MethodGet)

	// Patients
	api.HandleFunc("/patients", r.patientHandler.CreatePatient).Methods(http.MethodPost)
	api.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPatch)

	// Requests (public)
	api.HandleFunc("/requests/hospital-sessions", r.requestHandler.SubmitHospitalSession).Methods(http.MethodPost)
	api.HandleFunc("/requests/home-care", r.requestHandler.SubmitHomeCare).Methods(http.MethodPost)
	api.HandleFunc("/requests/health-supplies", r.requestHandler.SubmitHealthSupplies).Methods(http.MethodPost)
	api.HandleFunc("/requests/open", r.requestHandler.ListOpen).Methods(http.MethodGet)
	api.HandleFunc("/requests/open/raw", r.requestHandler.ListOpenRaw).Methods(http.MethodGet)
	api.HandleFunc("/requests/{kind}/{id}", r.requestHandler.GetRequest).Methods(http.MethodGet)

	// Requests (protected - assistants and fulfillment staff)
	transitions := api.PathPrefix("/requests").Subrouter()
	transitions.Use(r.authMiddleware.Authenticate)
	transitions.Use(middleware.RequireStaff)
	transitions.HandleFunc("/{kind}/{id}/transition", r.requestHandler.Transition).Methods(http.MethodPost)

	// Device session (X-Device-ID, rate limited)
	device := api.NewRoute().Subrouter()
	device.Use(r.deviceMiddleware.Handle)
	device.HandleFunc("/session", r.sessionHandler.GetSession).Methods(http.MethodGet)
	device.HandleFunc("/session", r.sessionHandler.Reset).Methods(http.MethodDelete)
	device.HandleFunc("/session/role", r.sessionHandler.SelectRole).Methods(http.MethodPost)
	device.HandleFunc("/session/assistant", r.sessionHandler.SaveAssistantProfile).Methods(http.MethodPut)
	device.HandleFunc("/session/patient", r.sessionHandler.SavePatientProfile).Methods(http.MethodPut)
	device.HandleFunc("/session/requests/refresh", r.sessionHandler.RefreshRequests).Methods(http.MethodPost)
	device.HandleFunc("/session/requests/{kind}", r.sessionHandler.SubmitRequest).Methods(http.MethodPost)
	device.HandleFunc("/session/requests/{kind}/{id}/transition", r.sessionHandler.TransitionRequest).Methods(http.MethodPost)
	device.HandleFunc("/session/availability", r.sessionHandler.StartAvailability).Methods(http.MethodPost)
	device.HandleFunc("/session/availability", r.sessionHandler.EndAvailability).Methods(http.MethodDelete)
	device.HandleFunc("/session/token", r.sessionHandler.IssueToken).Methods(http.MethodPost)

	// Onboarding (X-Device-ID)
	device.HandleFunc("/onboarding/draft", r.onboardingHandler.GetDraft).Methods(http.MethodGet)
	device.HandleFunc("/onboarding/draft", r.onboardingHandler.UpdateDraft).Methods(http.MethodPatch)
	device.HandleFunc("/onboarding/draft", r.onboardingHandler.ClearDraft).Methods(http.MethodDelete)
	device.HandleFunc("/onboarding/submit", r.onboardingHandler.Submit).Methods(http.MethodPost)

	// Preflight requests need a matching route for the middleware to run.
	r.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	// Add CORS and metrics middleware
	r.router.Use(r.corsMiddleware.Handle)
	if r.metrics != nil {
		r.router.Use(middleware.Metrics(r.metrics))
	}

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
