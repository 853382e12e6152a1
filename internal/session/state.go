// Package session keeps the per-device view a client app works from: the
// selected role, the profile behind it, its requests and the open live
// window.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"health-concierge/internal/delivery/dto"
	"health-concierge/internal/domain/entity"
	"health-concierge/internal/domain/repository"
	"health-concierge/internal/usecase"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoProfile   = errors.New("device has no profile for this action")
	ErrInvalidRole = errors.New("role must be assistant or patient")
)

// Services are the backend operations a session delegates to.
type Services struct {
	Log          *logrus.Logger
	Devices      repository.DeviceStore
	Assistants   usecase.AssistantUsecase
	Patients     usecase.PatientUsecase
	Requests     usecase.RequestUsecase
	Lifecycle    usecase.RequestLifecycleUsecase
	LiveSessions usecase.LiveSessionUsecase
	Auth         usecase.AuthUsecase
}

// Snapshot is a copy of a device's state, safe to serialise.
type Snapshot struct {
	DeviceID               string                         `json:"deviceId"`
	Role                   entity.UserRole                `json:"role"`
	AssistantID            *uuid.UUID                     `json:"assistantId,omitempty"`
	PatientID              *uuid.UUID                     `json:"patientId,omitempty"`
	Assistant              *entity.Assistant              `json:"assistant,omitempty"`
	Patient                *entity.Patient                `json:"patient,omitempty"`
	HospitalSessions       []entity.HospitalSession       `json:"hospitalSessions"`
	HomeCareRequests       []entity.HomeCareRequest       `json:"homeCareRequests"`
	HealthSuppliesRequests []entity.HealthSuppliesRequest `json:"healthSuppliesRequests"`
	LiveSession            *entity.LiveSession            `json:"liveSession,omitempty"`
}

// State is one device's session. Mutators are serialised and touch the
// in-memory view only after the backend accepted the change.
type State struct {
	mu   sync.Mutex
	svc  *Services
	snap Snapshot
}

func NewState(deviceID string, svc *Services) *State {
	return &State{
		svc:  svc,
		snap: emptySnapshot(deviceID),
	}
}

func emptySnapshot(deviceID string) Snapshot {
	return Snapshot{
		DeviceID:               deviceID,
		Role:                   entity.RoleNone,
		HospitalSessions:       []entity.HospitalSession{},
		HomeCareRequests:       []entity.HomeCareRequest{},
		HealthSuppliesRequests: []entity.HealthSuppliesRequest{},
	}
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snap
	snap.HospitalSessions = append([]entity.HospitalSession(nil), s.snap.HospitalSessions...)
	snap.HomeCareRequests = append([]entity.HomeCareRequest(nil), s.snap.HomeCareRequests...)
	snap.HealthSuppliesRequests = append([]entity.HealthSuppliesRequest(nil), s.snap.HealthSuppliesRequests...)
	return snap
}

// Rehydrate rebuilds the view from the identifiers stored for the device.
func (s *State) Rehydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.svc.Devices.Load(ctx, s.snap.DeviceID)
	if err != nil {
		s.svc.Log.Warnf("Failed to load device %s: %+v", s.snap.DeviceID, err)
		return err
	}

	next := emptySnapshot(s.snap.DeviceID)
	next.Role = ids.Role
	next.AssistantID = ids.AssistantID
	next.PatientID = ids.PatientID

	switch {
	case ids.Role == entity.RoleAssistant && ids.AssistantID != nil:
		if err := s.loadAssistant(ctx, &next); err != nil {
			return err
		}
	case ids.Role == entity.RolePatient && ids.PatientID != nil:
		if err := s.loadPatient(ctx, &next); err != nil {
			return err
		}
	}

	s.snap = next
	return nil
}

func (s *State) loadAssistant(ctx context.Context, snap *Snapshot) error {
	bundle, err := s.svc.Assistants.GetAssistantBundle(ctx, *snap.AssistantID)
	if err != nil {
		return err
	}
	snap.Assistant = bundle.Assistant
	snap.HospitalSessions = nonNil(bundle.HospitalSessions)
	snap.HomeCareRequests = nonNil(bundle.HomeCareRequests)
	snap.HealthSuppliesRequests = nonNil(bundle.HealthSuppliesRequests)
	snap.LiveSession = bundle.LiveSession
	return nil
}

func (s *State) loadPatient(ctx context.Context, snap *Snapshot) error {
	patient, err := s.svc.Patients.GetPatient(ctx, *snap.PatientID)
	if err != nil {
		return err
	}
	src, err := s.svc.Requests.ListPatientRequests(ctx, *snap.PatientID)
	if err != nil {
		return err
	}
	snap.Patient = patient
	snap.HospitalSessions = nonNil(src.HospitalSessions)
	snap.HomeCareRequests = nonNil(src.HomeCareRequests)
	snap.HealthSuppliesRequests = nonNil(src.HealthSuppliesRequests)
	return nil
}

// SelectRole switches the device between the assistant and patient views.
// Stored profile ids are kept so switching back rehydrates them.
func (s *State) SelectRole(ctx context.Context, role entity.UserRole) error {
	if !role.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := emptySnapshot(s.snap.DeviceID)
	next.Role = role
	next.AssistantID = s.snap.AssistantID
	next.PatientID = s.snap.PatientID
	if err := s.saveIdentifiers(ctx, &next); err != nil {
		return err
	}

	switch {
	case role == entity.RoleAssistant && next.AssistantID != nil:
		if err := s.loadAssistant(ctx, &next); err != nil {
			return err
		}
	case role == entity.RolePatient && next.PatientID != nil:
		if err := s.loadPatient(ctx, &next); err != nil {
			return err
		}
	}
	s.snap = next
	return nil
}

func (s *State) saveIdentifiers(ctx context.Context, snap *Snapshot) error {
	ids := &entity.DeviceIdentifiers{
		Role:        snap.Role,
		AssistantID: snap.AssistantID,
		PatientID:   snap.PatientID,
	}
	if err := s.svc.Devices.Save(ctx, snap.DeviceID, ids); err != nil {
		s.svc.Log.Warnf("Failed to save device %s: %+v", snap.DeviceID, err)
		return err
	}
	return nil
}

// SaveAssistantProfile creates the device's assistant on first save and
// updates it afterwards.
func (s *State) SaveAssistantProfile(ctx context.Context, req *dto.CreateAssistantRequest) (*entity.Assistant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.AssistantID != nil {
		assistant, err := s.svc.Assistants.UpdateAssistant(ctx, *s.snap.AssistantID, assistantUpdate(req))
		if err != nil {
			return nil, err
		}
		s.snap.Assistant = assistant
		return assistant, nil
	}

	assistant, err := s.svc.Assistants.CreateAssistant(ctx, req)
	if err != nil {
		return nil, err
	}
	next := s.snap
	next.Role = entity.RoleAssistant
	next.AssistantID = &assistant.ID
	if err := s.saveIdentifiers(ctx, &next); err != nil {
		return nil, err
	}
	next.Assistant = assistant
	if next.Patient != nil {
		next.Patient = nil
		next.HospitalSessions = []entity.HospitalSession{}
		next.HomeCareRequests = []entity.HomeCareRequest{}
		next.HealthSuppliesRequests = []entity.HealthSuppliesRequest{}
	}
	s.snap = next
	return assistant, nil
}

func assistantUpdate(req *dto.CreateAssistantRequest) *dto.UpdateAssistantRequest {
	return &dto.UpdateAssistantRequest{
		Name:         &req.Name,
		Email:        &req.Email,
		Phone:        &req.Phone,
		Address:      &req.Address,
		Photo:        &req.Photo,
		Role:         &req.Role,
		IDPhoto:      &req.IDPhoto,
		OtherDetails: &req.OtherDetails,
		Services:     req.Services,
		PricingModel: &req.PricingModel,
		Rate:         req.Rate,
		RateRange:    req.RateRange,
	}
}

// SavePatientProfile creates the device's patient on first save and updates
// it afterwards.
func (s *State) SavePatientProfile(ctx context.Context, req *dto.CreatePatientRequest) (*entity.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.PatientID != nil {
		patient, err := s.svc.Patients.UpdatePatient(ctx, *s.snap.PatientID, patientUpdate(req))
		if err != nil {
			return nil, err
		}
		s.snap.Patient = patient
		return patient, nil
	}

	patient, err := s.svc.Patients.CreatePatient(ctx, req)
	if err != nil {
		return nil, err
	}
	next := emptySnapshot(s.snap.DeviceID)
	next.Role = entity.RolePatient
	next.AssistantID = s.snap.AssistantID
	next.PatientID = &patient.ID
	if err := s.saveIdentifiers(ctx, &next); err != nil {
		return nil, err
	}
	next.Patient = patient
	s.snap = next
	return patient, nil
}

func patientUpdate(req *dto.CreatePatientRequest) *dto.UpdatePatientRequest {
	return &dto.UpdatePatientRequest{
		Name:              &req.Name,
		Contact:           &req.Contact,
		Location:          &req.Location,
		IsPatient:         &req.IsPatient,
		HasInsurance:      &req.HasInsurance,
		InsuranceProvider: &req.InsuranceProvider,
		InsuranceNumber:   &req.InsuranceNumber,
		HasCard:           &req.HasCard,
		CardPhoto:         &req.CardPhoto,
		CardDetails:       &req.CardDetails,
		IDPhoto:           &req.IDPhoto,
	}
}

func (s *State) patient() (*entity.Patient, error) {
	if s.snap.Role != entity.RolePatient || s.snap.Patient == nil {
		return nil, ErrNoProfile
	}
	return s.snap.Patient, nil
}

func (s *State) assistantID() (uuid.UUID, error) {
	if s.snap.Role != entity.RoleAssistant || s.snap.AssistantID == nil {
		return uuid.Nil, ErrNoProfile
	}
	return *s.snap.AssistantID, nil
}

// SubmitHospitalSession files a session for the device's patient. The
// requester defaults to the patient. The caller's form is not modified.
func (s *State) SubmitHospitalSession(ctx context.Context, form *dto.HospitalSessionRequest) (*entity.HospitalSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient, err := s.patient()
	if err != nil {
		return nil, err
	}
	in := *form
	in.PatientID = &patient.ID
	if in.RequesterName == "" {
		in.RequesterName = patient.Name
		in.IsRequesterPatient = true
	}

	created, err := s.svc.Requests.SubmitHospitalSession(ctx, &in)
	if err != nil {
		return nil, err
	}
	s.snap.HospitalSessions = prepend(s.snap.HospitalSessions, *created)
	return created, nil
}

func (s *State) SubmitHomeCareRequest(ctx context.Context, form *dto.HomeCareRequestForm) (*entity.HomeCareRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient, err := s.patient()
	if err != nil {
		return nil, err
	}
	in := *form
	in.ProfileID = &patient.ID
	if in.RequesterName == "" {
		in.RequesterName = patient.Name
	}
	if in.RequesterContact == "" {
		in.RequesterContact = patient.Contact
	}

	created, err := s.svc.Requests.SubmitHomeCareRequest(ctx, &in)
	if err != nil {
		return nil, err
	}
	s.snap.HomeCareRequests = prepend(s.snap.HomeCareRequests, *created)
	return created, nil
}

func (s *State) SubmitHealthSuppliesRequest(ctx context.Context, form *dto.HealthSuppliesRequestForm) (*entity.HealthSuppliesRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient, err := s.patient()
	if err != nil {
		return nil, err
	}
	in := *form
	in.ProfileID = &patient.ID
	if in.RequesterName == "" {
		in.RequesterName = patient.Name
	}

	created, err := s.svc.Requests.SubmitHealthSuppliesRequest(ctx, &in)
	if err != nil {
		return nil, err
	}
	s.snap.HealthSuppliesRequests = prepend(s.snap.HealthSuppliesRequests, *created)
	return created, nil
}

// TransitionRequest moves a request on behalf of the device's assistant and
// records the stored result in the matching list.
func (s *State) TransitionRequest(ctx context.Context, kind entity.RequestKind, id uuid.UUID, req *dto.TransitionRequest) (entity.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assistantID, err := s.assistantID()
	if err != nil {
		return nil, err
	}

	updated, err := s.svc.Lifecycle.Transition(ctx, usecase.TransitionInput{
		Kind:          kind,
		ID:            id,
		Status:        req.Status,
		Actor:         usecase.Actor{Role: entity.RoleAssistant, ID: assistantID},
		InvoiceAmount: req.InvoiceAmount,
		InvoiceReview: req.InvoiceReview,
	})
	if err != nil {
		return nil, err
	}

	switch r := updated.(type) {
	case *entity.HospitalSession:
		s.snap.HospitalSessions = upsert(s.snap.HospitalSessions, *r, func(x *entity.HospitalSession) uuid.UUID { return x.ID })
	case *entity.HomeCareRequest:
		s.snap.HomeCareRequests = upsert(s.snap.HomeCareRequests, *r, func(x *entity.HomeCareRequest) uuid.UUID { return x.ID })
	case *entity.HealthSuppliesRequest:
		s.snap.HealthSuppliesRequests = upsert(s.snap.HealthSuppliesRequests, *r, func(x *entity.HealthSuppliesRequest) uuid.UUID { return x.ID })
	}
	return updated, nil
}

func (s *State) StartAvailability(ctx context.Context, req *dto.GoLiveRequest) (*entity.LiveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assistantID, err := s.assistantID()
	if err != nil {
		return nil, err
	}
	live, err := s.svc.LiveSessions.GoLive(ctx, assistantID, req)
	if err != nil {
		return nil, err
	}
	s.snap.LiveSession = live
	return live, nil
}

func (s *State) EndAvailability(ctx context.Context, notes string) (*entity.LiveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assistantID, err := s.assistantID()
	if err != nil {
		return nil, err
	}
	ended, err := s.svc.LiveSessions.EndLive(ctx, assistantID, notes)
	if err != nil {
		return nil, err
	}
	s.snap.LiveSession = nil
	return ended, nil
}

// RefreshRequests reloads the request lists for the current profile.
func (s *State) RefreshRequests(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap
	switch {
	case next.Role == entity.RoleAssistant && next.AssistantID != nil:
		if err := s.loadAssistant(ctx, &next); err != nil {
			return err
		}
	case next.Role == entity.RolePatient && next.PatientID != nil:
		if err := s.loadPatient(ctx, &next); err != nil {
			return err
		}
	default:
		return ErrNoProfile
	}
	s.snap = next
	return nil
}

// IssueToken hands the device's assistant a bearer token for the transition
// API.
func (s *State) IssueToken(ctx context.Context) (*dto.TokenResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assistantID, err := s.assistantID()
	if err != nil {
		return nil, err
	}
	return s.svc.Auth.IssueToken(ctx, assistantID, entity.RoleAssistant)
}

// Reset forgets the device: its tokens are revoked and stored identifiers
// cleared. Profiles and requests stay in the store.
func (s *State) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.AssistantID != nil {
		if err := s.svc.Auth.RevokeAll(ctx, *s.snap.AssistantID); err != nil {
			return err
		}
	}
	if err := s.svc.Devices.Clear(ctx, s.snap.DeviceID); err != nil {
		s.svc.Log.Warnf("Failed to clear device %s: %+v", s.snap.DeviceID, err)
		return err
	}
	s.snap = emptySnapshot(s.snap.DeviceID)
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func prepend[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

// upsert replaces the element with item's id or prepends item.
func upsert[T any](items []T, item T, id func(*T) uuid.UUID) []T {
	want := id(&item)
	out := append([]T(nil), items...)
	for i := range out {
		if id(&out[i]) == want {
			out[i] = item
			return out
		}
	}
	return prepend(out, item)
}
